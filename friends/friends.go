// Package friends manages the relationship state machine between two
// users. One row exists per unordered pair; both participants see the
// same row from their own side.
package friends

import (
	"errors"
	"fmt"
	"time"

	"github.com/friendsapp/apiv1/dbhelper"
	"github.com/friendsapp/apiv1/models"
	"github.com/friendsapp/apiv1/utils"
	"gorm.io/gorm"
)

// ErrSelfRequest is the conflict raised when a user tries to befriend
// themselves, kept distinct so the boundary can word it separately.
var ErrSelfRequest = fmt.Errorf("%w: self request", utils.ErrConflict)

// SendRequest creates a PENDING relationship from the requester to the
// user owning recipientEmail. A row in any state between the pair blocks
// a new request; a terminal state is never reopened. The unique PairKey
// index closes the race between two users friending each other at once.
func SendRequest(db *gorm.DB, requesterID, recipientEmail string) (models.UserFriend, error) {
	recipient, err := dbhelper.FindUserByEmail(db, recipientEmail)
	if err != nil {
		return models.UserFriend{}, err
	}
	if recipient.ID == requesterID {
		return models.UserFriend{}, ErrSelfRequest
	}
	var existing models.UserFriend
	result := db.Where("pair_key = ?", models.FriendPairKey(requesterID, recipient.ID)).First(&existing)
	if result.Error == nil {
		return models.UserFriend{}, fmt.Errorf("%w: relationship already exists", utils.ErrConflict)
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return models.UserFriend{}, fmt.Errorf("%w: %v", utils.ErrDependency, result.Error)
	}
	relationship := models.UserFriend{
		RequestedByID: requesterID,
		RequestedToID: recipient.ID,
		Flag:          models.FlagPending,
		RequestTime:   time.Now(),
	}
	if err := db.Create(&relationship).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.UserFriend{}, fmt.Errorf("%w: relationship already exists", utils.ErrConflict)
		}
		return models.UserFriend{}, fmt.Errorf("%w: %v", utils.ErrDependency, err)
	}
	return relationship, nil
}

// Respond transitions a PENDING relationship. Only the recipient may
// approve, reject or mark spam; either party may block. APPROVED stamps
// BecameFriendsTime. Terminal states are absorbing.
func Respond(db *gorm.DB, actorID, relationshipID string, decision models.FriendRequestFlag) (models.UserFriend, error) {
	var relationship models.UserFriend
	result := db.Where("id = ?", relationshipID).First(&relationship)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return relationship, utils.ErrNotFound
	}
	if result.Error != nil {
		return relationship, fmt.Errorf("%w: %v", utils.ErrDependency, result.Error)
	}
	switch decision {
	case models.FlagApproved, models.FlagRejected, models.FlagSpam:
		if actorID != relationship.RequestedToID {
			return relationship, utils.ErrForbidden
		}
	case models.FlagBlocked:
		if actorID != relationship.RequestedToID && actorID != relationship.RequestedByID {
			return relationship, utils.ErrForbidden
		}
	default:
		return relationship, fmt.Errorf("%w: unknown decision %q", utils.ErrValidation, decision)
	}
	if relationship.Flag != models.FlagPending {
		return relationship, fmt.Errorf("%w: request is no longer pending", utils.ErrConflict)
	}
	relationship.Flag = decision
	if decision == models.FlagApproved {
		now := time.Now()
		relationship.BecameFriendsTime = &now
	}
	if err := db.Save(&relationship).Error; err != nil {
		return relationship, fmt.Errorf("%w: %v", utils.ErrDependency, err)
	}
	return relationship, nil
}

// RequestsSentBy returns relationships where the user is the requester.
func RequestsSentBy(db *gorm.DB, userID string) ([]models.UserFriend, error) {
	var rows []models.UserFriend
	result := db.Where("requested_by_id = ?", userID).Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDependency, result.Error)
	}
	return rows, nil
}

// RequestsReceivedBy returns relationships where the user is the recipient.
func RequestsReceivedBy(db *gorm.DB, userID string) ([]models.UserFriend, error) {
	var rows []models.UserFriend
	result := db.Where("requested_to_id = ?", userID).Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDependency, result.Error)
	}
	return rows, nil
}

// ListFriends returns the other party of every APPROVED relationship the
// user participates in, regardless of who sent the request.
func ListFriends(db *gorm.DB, userID string) ([]models.User, error) {
	var rows []models.UserFriend
	result := db.Where("flag = ? AND (requested_by_id = ? OR requested_to_id = ?)",
		models.FlagApproved, userID, userID).Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDependency, result.Error)
	}
	seen := map[string]bool{}
	friends := make([]models.User, 0, len(rows))
	for _, row := range rows {
		otherID := row.OtherParty(userID)
		if seen[otherID] {
			continue
		}
		seen[otherID] = true
		friend, err := dbhelper.FindUserByID(db, otherID)
		if err != nil {
			return nil, err
		}
		friends = append(friends, friend)
	}
	return friends, nil
}
