// Package tokens issues and redeems single-use, time-boxed verification
// tokens. Validation and consumption are split so a token can be checked
// without committing it.
package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/friendsapp/apiv1/models"
	"github.com/friendsapp/apiv1/utils"
	"gorm.io/gorm"
)

// Issue creates a new token for the user with the configured lifespan.
func Issue(db *gorm.DB, userID string, kind models.TokenKind) (models.VerificationToken, error) {
	now := time.Now()
	token := models.VerificationToken{
		UserID:    userID,
		Kind:      kind,
		Token:     utils.NewOTPValue(),
		IssuedAt:  now,
		ExpiresAt: now.Add(utils.OTPLifespan()),
		IsValid:   true,
	}
	if err := db.Create(&token).Error; err != nil {
		return models.VerificationToken{}, fmt.Errorf("%w: %v", utils.ErrDependency, err)
	}
	return token, nil
}

// Validate looks a token up without consuming it. Single-use and expiry
// are independent checks with distinct failures.
func Validate(db *gorm.DB, tokenValue string) (models.VerificationToken, error) {
	var token models.VerificationToken
	result := db.Where("token = ?", tokenValue).First(&token)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return token, utils.ErrNotFound
	}
	if result.Error != nil {
		return token, fmt.Errorf("%w: %v", utils.ErrDependency, result.Error)
	}
	if !token.IsValid {
		return token, utils.ErrInvalidated
	}
	if !time.Now().Before(token.ExpiresAt) {
		return token, utils.ErrExpired
	}
	return token, nil
}

// Consume validates, then flips is_valid with a guarded UPDATE. Under
// concurrent calls exactly one caller observes the valid-to-consumed
// transition; the rest fail with ErrInvalidated.
func Consume(db *gorm.DB, tokenValue string) (models.VerificationToken, error) {
	token, err := Validate(db, tokenValue)
	if err != nil {
		return token, err
	}
	result := db.Model(&models.VerificationToken{}).
		Where("token = ? AND is_valid = ?", tokenValue, true).
		Update("is_valid", false)
	if result.Error != nil {
		return token, fmt.Errorf("%w: %v", utils.ErrDependency, result.Error)
	}
	if result.RowsAffected == 0 {
		return token, utils.ErrInvalidated
	}
	token.IsValid = false
	return token, nil
}
