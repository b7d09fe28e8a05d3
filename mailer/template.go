package mailer

import (
	"bytes"
	"html/template"
)

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`
<html>
  <body>
    <h2>{{.Title}}</h2>
    <p>Hi {{.FirstName}},</p>
    <p>Please confirm the email address {{.Email}} by entering the code below:</p>
    <p><strong>{{.Token}}</strong></p>
    <p>The code expires soon, so don't wait too long!</p>
  </body>
</html>
`))

type ConfirmationData struct {
	Token     string
	Email     string
	FirstName string
	Title     string
}

func RenderConfirmation(data ConfirmationData) (string, error) {
	var buf bytes.Buffer
	if err := confirmationTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
