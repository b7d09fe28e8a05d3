package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FriendRequestFlag defines the state of a relationship between two users.
type FriendRequestFlag string

const (
	FlagPending  FriendRequestFlag = "PENDING"
	FlagApproved FriendRequestFlag = "APPROVED"
	FlagRejected FriendRequestFlag = "REJECTED"
	FlagBlocked  FriendRequestFlag = "BLOCKED"
	FlagSpam     FriendRequestFlag = "SPAM"
)

// UserFriend is one row per unordered pair. PairKey is the canonical
// ordering of the two ids so (A,B) and (B,A) collide on the unique index.
type UserFriend struct {
	ID                string            `gorm:"primaryKey;size:36"`
	RequestedByID     string            `gorm:"size:36;index"`
	RequestedToID     string            `gorm:"size:36;index"`
	PairKey           string            `gorm:"uniqueIndex;size:80"`
	Flag              FriendRequestFlag `gorm:"size:16"`
	RequestTime       time.Time
	BecameFriendsTime *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (f *UserFriend) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.PairKey == "" {
		f.PairKey = FriendPairKey(f.RequestedByID, f.RequestedToID)
	}
	return nil
}

func (f *UserFriend) Approved() bool {
	return f.Flag == FlagApproved
}

// OtherParty returns the participant that is not userID.
func (f *UserFriend) OtherParty(userID string) string {
	if f.RequestedByID == userID {
		return f.RequestedToID
	}
	return f.RequestedByID
}

func FriendPairKey(a, b string) string {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + "|" + b
}
