package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserActivity struct {
	ID          string `gorm:"primaryKey;size:36"`
	EventType   string `gorm:"size:64"`
	UserID      string `gorm:"size:36;index"`
	ObjectClass string `gorm:"size:32"`
	ObjectID    string `gorm:"size:36"`
	Details     string
	CreatedAt   time.Time
}

func (a *UserActivity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
