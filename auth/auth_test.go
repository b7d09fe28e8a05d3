package auth

import (
	"encoding/base64"
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
	require.NoError(t, db.AutoMigrate(&models.RefreshToken{}))
	return db
}

func setTestKey(t *testing.T) {
	t.Helper()
	t.Setenv(utils.JWT_SECRET_KEY, base64.StdEncoding.EncodeToString([]byte("auth-test-secret")))
	t.Setenv(utils.JWT_SECRET_KEY_OLD, base64.StdEncoding.EncodeToString([]byte("auth-old-secret")))
}

func TestAuthenticateRoundTrip(t *testing.T) {
	setTestKey(t)
	user := models.User{ID: "user-9", Email: "user9@example.com"}
	accessToken, expiresAt, err := Authenticate(user, []string{models.RoleUser})
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(utils.AccessTokenTTL()), expiresAt, 2*time.Second)

	userID, roles, err := GetUserIDFromAccessToken(accessToken)
	require.NoError(t, err)
	require.Equal(t, "user-9", userID)
	require.Equal(t, []string{models.RoleUser}, roles)
}

func TestGenerateRefreshToken(t *testing.T) {
	db := testDB(t)
	token, err := GenerateRefreshToken(db, "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token.Token)
	require.Equal(t, "user-1", token.UserID)
	require.WithinDuration(t, time.Now().Add(utils.RefreshTokenTTL()), token.ExpiresAt, 2*time.Second)
}

func TestValidateRefreshToken_SingleUse(t *testing.T) {
	db := testDB(t)
	token, err := GenerateRefreshToken(db, "user-1")
	require.NoError(t, err)

	userID, err := ValidateRefreshToken(db, token.Token)
	require.NoError(t, err)
	require.Equal(t, "user-1", userID)

	// rotated away, second presentation must fail
	_, err = ValidateRefreshToken(db, token.Token)
	require.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestValidateRefreshToken_Unknown(t *testing.T) {
	db := testDB(t)
	_, err := ValidateRefreshToken(db, "never-issued")
	require.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestValidateRefreshToken_Expired(t *testing.T) {
	db := testDB(t)
	token, err := GenerateRefreshToken(db, "user-1")
	require.NoError(t, err)

	past := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&models.RefreshToken{}).
		Where("token = ?", token.Token).Update("expires_at", past).Error)

	_, err = ValidateRefreshToken(db, token.Token)
	require.ErrorIs(t, err, utils.ErrExpired)
}

func TestRevokeRefreshTokens(t *testing.T) {
	db := testDB(t)
	first, err := GenerateRefreshToken(db, "user-1")
	require.NoError(t, err)
	second, err := GenerateRefreshToken(db, "user-1")
	require.NoError(t, err)
	other, err := GenerateRefreshToken(db, "user-2")
	require.NoError(t, err)

	require.NoError(t, RevokeRefreshTokens(db, "user-1"))

	_, err = ValidateRefreshToken(db, first.Token)
	require.ErrorIs(t, err, utils.ErrInvalidToken)
	_, err = ValidateRefreshToken(db, second.Token)
	require.ErrorIs(t, err, utils.ErrInvalidToken)
	_, err = ValidateRefreshToken(db, other.Token)
	require.NoError(t, err)
}
