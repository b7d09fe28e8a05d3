package mailer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderConfirmation(t *testing.T) {
	body, err := RenderConfirmation(ConfirmationData{
		Token:     "ABC123TOKEN",
		Email:     "foo@bar.com",
		FirstName: "Foo",
		Title:     "Confirm your email",
	})
	require.NoError(t, err)
	require.Contains(t, body, "ABC123TOKEN")
	require.Contains(t, body, "foo@bar.com")
	require.Contains(t, body, "Hi Foo")
	require.Contains(t, body, "Confirm your email")
}

func TestRenderConfirmation_EscapesHTML(t *testing.T) {
	body, err := RenderConfirmation(ConfirmationData{
		Token:     "tok",
		Email:     "foo@bar.com",
		FirstName: "<script>alert(1)</script>",
		Title:     "Confirm your email",
	})
	require.NoError(t, err)
	require.NotContains(t, body, "<script>")
}
