package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/friendsapp/apiv1/dbhelper"
	"github.com/friendsapp/apiv1/friends"
	"github.com/friendsapp/apiv1/lifecycle"
	"github.com/friendsapp/apiv1/middlewares"
	"github.com/friendsapp/apiv1/models"
	"github.com/friendsapp/apiv1/utils"
	"github.com/gorilla/mux"
)

type ProfileResponse struct {
	ID             string   `json:"id"`
	Email          string   `json:"email"`
	DisplayName    string   `json:"displayName"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Status         string   `json:"status"`
	EmailConfirmed bool     `json:"emailConfirmed"`
	Verified       bool     `json:"verified"`
	Roles          []string `json:"roles,omitempty"`
}

type RelationshipResponse struct {
	ID       string `json:"id"`
	Flag     string `json:"flag"`
	WithUser string `json:"withUser"`
}

func UserRouter(u *mux.Router) {
	u.HandleFunc("/{id}", middlewares.IsAccessTokenAuthorized(GetUserByID)).Methods("GET")
	u.HandleFunc("/send-friend-request", middlewares.IsAccessTokenAuthorized(SendFriendRequest)).Methods("POST")
	u.HandleFunc("/respond-friend-request", middlewares.IsAccessTokenAuthorized(RespondFriendRequest)).Methods("POST")
	u.HandleFunc("/friends/list", middlewares.IsAccessTokenAuthorized(ListFriends)).Methods("GET")
	u.HandleFunc("/friends/requests", middlewares.IsAccessTokenAuthorized(ListPendingRequests)).Methods("GET")
}

func profileOf(user models.User, roles []string) ProfileResponse {
	return ProfileResponse{
		ID:             user.ID,
		Email:          user.Email,
		DisplayName:    user.DisplayName,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Status:         user.Status,
		EmailConfirmed: user.EmailConfirmed,
		Verified:       user.Verified,
		Roles:          roles,
	}
}

func GetUserByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	profile, err := lifecycle.GetUserByID(dbhelper.DB, id)
	if err != nil {
		WriteError(w, err, utils.USER_NOT_FOUND_ERROR)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profileOf(profile.User, profile.Roles))
}

func SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middlewares.ActorID(r)
	if !ok {
		WriteError(w, utils.ErrUnauthorized, utils.MISSING_REQUEST_DATA)
		return
	}
	attempt, err := DecodeValidBody[FriendRequestAttempt](r)
	if err != nil {
		WriteError(w, err, utils.MISSING_REQUEST_DATA)
		return
	}
	relationship, err := lifecycle.SendFriendRequest(dbhelper.DB, actorID, attempt.Email)
	if err != nil {
		WriteError(w, err, friendRequestMessage(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(RelationshipResponse{
		ID:       relationship.ID,
		Flag:     string(relationship.Flag),
		WithUser: relationship.RequestedToID,
	})
}

func RespondFriendRequest(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middlewares.ActorID(r)
	if !ok {
		WriteError(w, utils.ErrUnauthorized, utils.MISSING_REQUEST_DATA)
		return
	}
	attempt, err := DecodeValidBody[RespondAttempt](r)
	if err != nil {
		WriteError(w, err, utils.MISSING_REQUEST_DATA)
		return
	}
	relationship, err := lifecycle.RespondFriendRequest(
		dbhelper.DB, actorID, attempt.RelationshipID, models.FriendRequestFlag(attempt.Decision))
	if err != nil {
		WriteError(w, err, friendRequestMessage(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(RelationshipResponse{
		ID:       relationship.ID,
		Flag:     string(relationship.Flag),
		WithUser: relationship.OtherParty(actorID),
	})
}

func ListFriends(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middlewares.ActorID(r)
	if !ok {
		WriteError(w, utils.ErrUnauthorized, utils.MISSING_REQUEST_DATA)
		return
	}
	friendUsers, err := friends.ListFriends(dbhelper.DB, actorID)
	if err != nil {
		WriteError(w, err, utils.SERVER_DOWN)
		return
	}
	response := make([]ProfileResponse, 0, len(friendUsers))
	for _, friend := range friendUsers {
		response = append(response, profileOf(friend, nil))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// ListPendingRequests returns requests waiting on the caller's decision.
func ListPendingRequests(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middlewares.ActorID(r)
	if !ok {
		WriteError(w, utils.ErrUnauthorized, utils.MISSING_REQUEST_DATA)
		return
	}
	received, err := friends.RequestsReceivedBy(dbhelper.DB, actorID)
	if err != nil {
		WriteError(w, err, utils.SERVER_DOWN)
		return
	}
	response := make([]RelationshipResponse, 0, len(received))
	for _, relationship := range received {
		if relationship.Flag != models.FlagPending {
			continue
		}
		response = append(response, RelationshipResponse{
			ID:       relationship.ID,
			Flag:     string(relationship.Flag),
			WithUser: relationship.RequestedByID,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func friendRequestMessage(err error) string {
	switch {
	case errors.Is(err, friends.ErrSelfRequest):
		return utils.SELF_FRIEND_REQUEST_ERROR
	case errors.Is(err, utils.ErrNotFound):
		return utils.USER_NOT_FOUND_ERROR
	case errors.Is(err, utils.ErrForbidden):
		return utils.NOT_YOUR_REQUEST_ERROR
	case errors.Is(err, utils.ErrConflict):
		return utils.FRIEND_REQUEST_EXISTS_ERROR
	default:
		return utils.SERVER_DOWN
	}
}
