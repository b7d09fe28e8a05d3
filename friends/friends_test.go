package friends

import (
	"testing"

	"github.com/friendsapp/apiv1/dbhelper"
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
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.UserFriend{}))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Email: email, DisplayName: email}
	require.NoError(t, dbhelper.CreateUser(db, &user, "password-1234"))
	return user
}

func TestFriendPairKey_Symmetric(t *testing.T) {
	require.Equal(t, models.FriendPairKey("a", "b"), models.FriendPairKey("b", "a"))
	require.NotEqual(t, models.FriendPairKey("a", "b"), models.FriendPairKey("a", "c"))
}

func TestSendRequest_CreatesPending(t *testing.T) {
	db := testDB(t)
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")

	relationship, err := SendRequest(db, alice.ID, "bob@example.com")
	require.NoError(t, err)
	require.Equal(t, models.FlagPending, relationship.Flag)
	require.Equal(t, alice.ID, relationship.RequestedByID)
	require.Equal(t, bob.ID, relationship.RequestedToID)
	require.False(t, relationship.RequestTime.IsZero())
	require.Nil(t, relationship.BecameFriendsTime)
}

func TestSendRequest_UnknownRecipient(t *testing.T) {
	db := testDB(t)
	alice := createUser(t, db, "alice@example.com")

	_, err := SendRequest(db, alice.ID, "nobody@example.com")
	require.ErrorIs(t, err, utils.ErrNotFound)
}

func TestSendRequest_Self(t *testing.T) {
	db := testDB(t)
	alice := createUser(t, db, "alice@example.com")

	_, err := SendRequest(db, alice.ID, "alice@example.com")
	require.ErrorIs(t, err, ErrSelfRequest)
	require.ErrorIs(t, err, utils.ErrConflict)
}

func TestSendRequest_ReverseDirectionConflicts(t *testing.T) {
	db := testDB(t)
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")

	_, err := SendRequest(db, alice.ID, "bob@example.com")
	require.NoError(t, err)

	// (B,A) must collide with the existing (A,B) row
	_, err = SendRequest(db, bob.ID, "alice@example.com")
	require.ErrorIs(t, err, utils.ErrConflict)

	var count int64
	require.NoError(t, db.Model(&models.UserFriend{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestSendRequest_DuplicateConflicts(t *testing.T) {
	db := testDB(t)
	alice := createUser(t, db, "alice@example.com")
	createUser(t, db, "bob@example.com")

	_, err := SendRequest(db, alice.ID, "bob@example.com")
	require.NoError(t, err)
	_, err = SendRequest(db, alice.ID, "bob@example.com")
	require.ErrorIs(t, err, utils.ErrConflict)
}

func TestRespond_ApproveByRecipient(t *testing.T) {
	db := testDB(t)
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")
	relationship, err := SendRequest(db, alice.ID, "bob@example.com")
	require.NoError(t, err)

	approved, err := Respond(db, bob.ID, relationship.ID, models.FlagApproved)
	require.NoError(t, err)
	require.Equal(t, models.FlagApproved, approved.Flag)
	require.True(t, approved.Approved())
	require.NotNil(t, approved.BecameFriendsTime)
}

func TestRespond_ApproveByRequesterForbidden(t *testing.T) {
	db := testDB(t)
	alice := createUser(t, db, "alice@example.com")
	createUser(t, db, "bob@example.com")
	relationship, err := SendRequest(db, alice.ID, "bob@example.com")
	require.NoError(t, err)

	_, err = Respond(db, alice.ID, relationship.ID, models.FlagApproved)
	require.ErrorIs(t, err, utils.ErrForbidden)
}

func TestRespond_BlockByEitherParty(t *testing.T) {
	db := testDB(t)
	alice := createUser(t, db, "alice@example.com")
	createUser(t, db, "bob@example.com")
	relationship, err := SendRequest(db, alice.ID, "bob@example.com")
	require.NoError(t, err)

	blocked, err := Respond(db, alice.ID, relationship.ID, models.FlagBlocked)
	require.NoError(t, err)
	require.Equal(t, models.FlagBlocked, blocked.Flag)
	require.Nil(t, blocked.BecameFriendsTime)
}

func TestRespond_ByThirdParty(t *testing.T) {
	db := testDB(t)
	alice := createUser(t, db, "alice@example.com")
	createUser(t, db, "bob@example.com")
	eve := createUser(t, db, "eve@example.com")
	relationship, err := SendRequest(db, alice.ID, "bob@example.com")
	require.NoError(t, err)

	_, err = Respond(db, eve.ID, relationship.ID, models.FlagBlocked)
	require.ErrorIs(t, err, utils.ErrForbidden)
}

func TestRespond_TerminalStatesAbsorb(t *testing.T) {
	db := testDB(t)
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")
	relationship, err := SendRequest(db, alice.ID, "bob@example.com")
	require.NoError(t, err)

	_, err = Respond(db, bob.ID, relationship.ID, models.FlagRejected)
	require.NoError(t, err)
	_, err = Respond(db, bob.ID, relationship.ID, models.FlagApproved)
	require.ErrorIs(t, err, utils.ErrConflict)
}

func TestSendRequest_NoReopenAfterRejection(t *testing.T) {
	db := testDB(t)
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")
	relationship, err := SendRequest(db, alice.ID, "bob@example.com")
	require.NoError(t, err)
	_, err = Respond(db, bob.ID, relationship.ID, models.FlagRejected)
	require.NoError(t, err)

	_, err = SendRequest(db, alice.ID, "bob@example.com")
	require.ErrorIs(t, err, utils.ErrConflict)
}

func TestRespond_UnknownRelationship(t *testing.T) {
	db := testDB(t)
	alice := createUser(t, db, "alice@example.com")

	_, err := Respond(db, alice.ID, "missing-id", models.FlagApproved)
	require.ErrorIs(t, err, utils.ErrNotFound)
}

func TestRequestsSentAndReceived(t *testing.T) {
	db := testDB(t)
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")
	relationship, err := SendRequest(db, alice.ID, "bob@example.com")
	require.NoError(t, err)

	sent, err := RequestsSentBy(db, alice.ID)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	require.Equal(t, relationship.ID, sent[0].ID)

	received, err := RequestsReceivedBy(db, bob.ID)
	require.NoError(t, err)
	require.Len(t, received, 1)
	require.Equal(t, relationship.ID, received[0].ID)

	// one physical row, visible from both sides
	sentByBob, err := RequestsSentBy(db, bob.ID)
	require.NoError(t, err)
	require.Empty(t, sentByBob)
	receivedByAlice, err := RequestsReceivedBy(db, alice.ID)
	require.NoError(t, err)
	require.Empty(t, receivedByAlice)
}

func TestListFriends(t *testing.T) {
	db := testDB(t)
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")
	carol := createUser(t, db, "carol@example.com")
	dave := createUser(t, db, "dave@example.com")

	// alice<->bob approved, carol->alice approved, alice->dave still pending
	toBob, err := SendRequest(db, alice.ID, "bob@example.com")
	require.NoError(t, err)
	_, err = Respond(db, bob.ID, toBob.ID, models.FlagApproved)
	require.NoError(t, err)

	fromCarol, err := SendRequest(db, carol.ID, "alice@example.com")
	require.NoError(t, err)
	_, err = Respond(db, alice.ID, fromCarol.ID, models.FlagApproved)
	require.NoError(t, err)

	_, err = SendRequest(db, alice.ID, "dave@example.com")
	require.NoError(t, err)

	friendsOfAlice, err := ListFriends(db, alice.ID)
	require.NoError(t, err)
	ids := make([]string, 0, len(friendsOfAlice))
	for _, friend := range friendsOfAlice {
		ids = append(ids, friend.ID)
	}
	require.ElementsMatch(t, []string{bob.ID, carol.ID}, ids)

	friendsOfDave, err := ListFriends(db, dave.ID)
	require.NoError(t, err)
	require.Empty(t, friendsOfDave)
}
