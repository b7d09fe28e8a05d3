package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenKind is an open enum; new verification flows add new kinds.
type TokenKind string

const TokenKindEmailConfirmation TokenKind = "EMAIL_CONFIRMATION"

type VerificationToken struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"size:36;index"`
	Kind      TokenKind `gorm:"size:64"`
	Token     string    `gorm:"uniqueIndex;size:128"`
	IssuedAt  time.Time
	ExpiresAt time.Time
	IsValid   bool
}

func (v *VerificationToken) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// RefreshToken is opaque and carries no claims; roles are resolved
// fresh when the next access token is minted.
type RefreshToken struct {
	Token     string `gorm:"primaryKey;size:128"`
	UserID    string `gorm:"size:36;index"`
	ExpiresAt time.Time
	CreatedAt time.Time
}
