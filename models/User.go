package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const StatusActive = "ACTIVE"

type User struct {
	ID             string `gorm:"primaryKey;size:36"`
	Email          string `gorm:"uniqueIndex;size:255"`
	PasswordHash   string
	DisplayName    string
	FirstName      string
	LastName       string
	Status         string `gorm:"size:32;default:ACTIVE"`
	EmailConfirmed bool
	Verified       bool
	LastLogin      *time.Time
	CreatedByID    *string `gorm:"size:36"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Role names are a closed set seeded at startup; membership lives in
// user_roles rows rather than a mutable collection on the user.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type Role struct {
	Name string `gorm:"primaryKey;size:32"`
}

type UserRole struct {
	UserID   string `gorm:"primaryKey;size:36"`
	RoleName string `gorm:"primaryKey;size:32"`
}
