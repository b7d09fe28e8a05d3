package tokens

import (
	"errors"
	"testing"
	"time"

	"github.com/friendsapp/apiv1/models"
	"github.com/friendsapp/apiv1/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.VerificationToken{}))
	return db
}

func TestIssue(t *testing.T) {
	db := testDB(t)
	before := time.Now()
	token, err := Issue(db, "user-1", models.TokenKindEmailConfirmation)
	require.NoError(t, err)
	require.True(t, token.IsValid)
	require.Equal(t, "user-1", token.UserID)
	require.Equal(t, models.TokenKindEmailConfirmation, token.Kind)
	require.GreaterOrEqual(t, len(token.Token), 6)
	require.WithinDuration(t, before.Add(utils.OTPLifespan()), token.ExpiresAt, 2*time.Second)
}

func TestValidate_NotFound(t *testing.T) {
	db := testDB(t)
	_, err := Validate(db, "no-such-token")
	require.ErrorIs(t, err, utils.ErrNotFound)
}

func TestValidate_Expired(t *testing.T) {
	db := testDB(t)
	token, err := Issue(db, "user-1", models.TokenKindEmailConfirmation)
	require.NoError(t, err)

	// expiry wins even while is_valid is still set
	past := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&models.VerificationToken{}).
		Where("token = ?", token.Token).Update("expires_at", past).Error)

	_, err = Validate(db, token.Token)
	require.ErrorIs(t, err, utils.ErrExpired)
}

func TestValidate_DoesNotConsume(t *testing.T) {
	db := testDB(t)
	token, err := Issue(db, "user-1", models.TokenKindEmailConfirmation)
	require.NoError(t, err)

	_, err = Validate(db, token.Token)
	require.NoError(t, err)
	_, err = Validate(db, token.Token)
	require.NoError(t, err)
	_, err = Consume(db, token.Token)
	require.NoError(t, err)
}

func TestConsume_ExactlyOnce(t *testing.T) {
	db := testDB(t)
	token, err := Issue(db, "user-1", models.TokenKindEmailConfirmation)
	require.NoError(t, err)

	consumed, err := Consume(db, token.Token)
	require.NoError(t, err)
	require.False(t, consumed.IsValid)
	require.Equal(t, "user-1", consumed.UserID)

	_, err = Consume(db, token.Token)
	require.ErrorIs(t, err, utils.ErrInvalidated)
	_, err = Validate(db, token.Token)
	require.ErrorIs(t, err, utils.ErrInvalidated)
}

func TestConsume_ConcurrentSingleWinner(t *testing.T) {
	db := testDB(t)
	token, err := Issue(db, "user-1", models.TokenKindEmailConfirmation)
	require.NoError(t, err)

	const callers = 8
	start := make(chan struct{})
	results := make(chan error, callers)
	for i := 0; i < callers; i++ {
		go func() {
			<-start
			_, err := Consume(db, token.Token)
			results <- err
		}()
	}
	close(start)

	wins, losses := 0, 0
	for i := 0; i < callers; i++ {
		switch err := <-results; {
		case err == nil:
			wins++
		case errors.Is(err, utils.ErrInvalidated):
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, wins)
	require.Equal(t, callers-1, losses)
}

func TestConsume_Expired(t *testing.T) {
	db := testDB(t)
	token, err := Issue(db, "user-1", models.TokenKindEmailConfirmation)
	require.NoError(t, err)

	past := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&models.VerificationToken{}).
		Where("token = ?", token.Token).Update("expires_at", past).Error)

	_, err = Consume(db, token.Token)
	require.ErrorIs(t, err, utils.ErrExpired)
}

func TestIssue_LifespanFromConfig(t *testing.T) {
	t.Setenv(utils.OTP_LIFESPAN_HOURS, "2")
	db := testDB(t)
	token, err := Issue(db, "user-1", models.TokenKindEmailConfirmation)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(2*time.Hour), token.ExpiresAt, 2*time.Second)
}
