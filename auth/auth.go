// Package auth issues signed access tokens and opaque, server-side
// refresh tokens. Access tokens are verifiable offline; refresh tokens
// are stateful so they can be revoked and are rotated on every use.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/friendsapp/apiv1/models"
	"github.com/friendsapp/apiv1/utils"
	"gorm.io/gorm"
)

// Authenticate mints an access token for the user with its current roles.
func Authenticate(user models.User, roles []string) (string, time.Time, error) {
	return utils.CreateAccessToken(user.ID, roles, utils.AccessTokenTTL())
}

// GetUserIDFromAccessToken verifies the signature and expiry and returns
// the subject. Signature mismatch and expiry are reported distinctly from
// malformed input.
func GetUserIDFromAccessToken(accessToken string) (string, []string, error) {
	return utils.VerifyAccessToken(accessToken)
}

func GenerateRefreshToken(db *gorm.DB, userID string) (models.RefreshToken, error) {
	value, err := utils.NewRefreshTokenValue()
	if err != nil {
		return models.RefreshToken{}, fmt.Errorf("%w: %v", utils.ErrDependency, err)
	}
	token := models.RefreshToken{
		Token:     value,
		UserID:    userID,
		ExpiresAt: time.Now().Add(utils.RefreshTokenTTL()),
	}
	if err := db.Create(&token).Error; err != nil {
		return models.RefreshToken{}, fmt.Errorf("%w: %v", utils.ErrDependency, err)
	}
	return token, nil
}

// ValidateRefreshToken redeems a refresh token. Tokens are single-use:
// the guarded delete lets exactly one concurrent caller win, everyone
// else sees ErrInvalidated. Returns the owning user id.
func ValidateRefreshToken(db *gorm.DB, refreshToken string) (string, error) {
	var token models.RefreshToken
	result := db.Where("token = ?", refreshToken).First(&token)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return "", utils.ErrInvalidToken
	}
	if result.Error != nil {
		return "", fmt.Errorf("%w: %v", utils.ErrDependency, result.Error)
	}
	if !time.Now().Before(token.ExpiresAt) {
		return "", utils.ErrExpired
	}
	del := db.Where("token = ?", refreshToken).Delete(&models.RefreshToken{})
	if del.Error != nil {
		return "", fmt.Errorf("%w: %v", utils.ErrDependency, del.Error)
	}
	if del.RowsAffected == 0 {
		return "", utils.ErrInvalidated
	}
	return token.UserID, nil
}

// RevokeRefreshTokens drops every refresh token the user holds, e.g.
// after a password change.
func RevokeRefreshTokens(db *gorm.DB, userID string) error {
	result := db.Where("user_id = ?", userID).Delete(&models.RefreshToken{})
	if result.Error != nil {
		return fmt.Errorf("%w: %v", utils.ErrDependency, result.Error)
	}
	return nil
}
