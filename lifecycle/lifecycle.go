// Package lifecycle composes the credential store, token engines and
// friend engine into the register -> verify -> login -> befriend flows.
// It holds no token or relationship logic of its own.
package lifecycle

import (
	"log"
	"time"

	"github.com/friendsapp/apiv1/auth"
	"github.com/friendsapp/apiv1/dbhelper"
	"github.com/friendsapp/apiv1/friends"
	"github.com/friendsapp/apiv1/mailer"
	"github.com/friendsapp/apiv1/models"
	"github.com/friendsapp/apiv1/tokens"
	"github.com/friendsapp/apiv1/utils"
	"gorm.io/gorm"
)

type SignupData struct {
	Email       string
	DisplayName string
	FirstName   string
	LastName    string
	Password    string
}

type RegisterResult struct {
	UserID string
	// NotificationPending reports that the user exists but the
	// confirmation mail could not be dispatched yet.
	NotificationPending bool
}

type LoginResult struct {
	UserID       string
	AccessToken  string
	ExpiresAt    time.Time
	RefreshToken string
}

type Profile struct {
	User  models.User
	Roles []string
}

// Register creates the credential, assigns the default role, issues the
// confirmation token and audits, all in one transaction. Mail dispatch
// happens after commit: a delivery failure degrades the result, it never
// rolls the user back.
func Register(db *gorm.DB, mail mailer.Dispatcher, signup SignupData) (RegisterResult, error) {
	user := models.User{
		Email:       signup.Email,
		DisplayName: signup.DisplayName,
		FirstName:   signup.FirstName,
		LastName:    signup.LastName,
	}
	var token models.VerificationToken
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := dbhelper.CreateUser(tx, &user, signup.Password); err != nil {
			return err
		}
		if err := dbhelper.AssignRole(tx, user.ID, models.RoleUser); err != nil {
			return err
		}
		var err error
		token, err = tokens.Issue(tx, user.ID, models.TokenKindEmailConfirmation)
		if err != nil {
			return err
		}
		return dbhelper.RecordActivity(tx, "User created", user.ID, "USER", user.ID, "signed up")
	})
	if err != nil {
		return RegisterResult{}, err
	}
	result := RegisterResult{UserID: user.ID}
	body, err := mailer.RenderConfirmation(mailer.ConfirmationData{
		Token:     token.Token,
		Email:     user.Email,
		FirstName: user.FirstName,
		Title:     "Confirm your email",
	})
	if err == nil {
		err = mail.SendSingleMail(user.Email, body, "Confirm your email")
	}
	if err != nil {
		log.Println(err)
		result.NotificationPending = true
	}
	return result, nil
}

// ConfirmEmail redeems the token and marks the account confirmed.
func ConfirmEmail(db *gorm.DB, tokenValue string) (models.User, error) {
	var user models.User
	err := db.Transaction(func(tx *gorm.DB) error {
		token, err := tokens.Consume(tx, tokenValue)
		if err != nil {
			return err
		}
		// tokens of another kind must never confirm an email
		if token.Kind != models.TokenKindEmailConfirmation {
			return utils.ErrNotFound
		}
		user, err = dbhelper.FindUserByID(tx, token.UserID)
		if err != nil {
			return err
		}
		user.EmailConfirmed = true
		user.Verified = true
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		return dbhelper.RecordActivity(tx, "Email confirmed", user.ID, "USER", user.ID, "confirmed email address")
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Login authenticates against the stored credential and issues the token
// pair. Unknown email, wrong password and an unconfirmed or inactive
// account all fail with the same bare ErrUnauthorized so the response
// cannot be used to probe which emails exist.
func Login(db *gorm.DB, email, password string) (LoginResult, error) {
	user, err := dbhelper.FindUserByEmail(db, email)
	if err != nil {
		return LoginResult{}, utils.ErrUnauthorized
	}
	if !user.EmailConfirmed || !user.Verified || user.Status != models.StatusActive {
		return LoginResult{}, utils.ErrUnauthorized
	}
	if err := dbhelper.CheckPassword(user, password); err != nil {
		return LoginResult{}, utils.ErrUnauthorized
	}
	roles, err := dbhelper.UserRoles(db, user.ID)
	if err != nil {
		return LoginResult{}, err
	}
	accessToken, expiresAt, err := auth.Authenticate(user, roles)
	if err != nil {
		return LoginResult{}, err
	}
	var refreshToken models.RefreshToken
	err = db.Transaction(func(tx *gorm.DB) error {
		refreshToken, err = auth.GenerateRefreshToken(tx, user.ID)
		if err != nil {
			return err
		}
		if err := dbhelper.UpdateLastLogin(tx, user.ID); err != nil {
			return err
		}
		return dbhelper.RecordActivity(tx, "User login", user.ID, "USER", user.ID, "logged in")
	})
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{
		UserID:       user.ID,
		AccessToken:  accessToken,
		ExpiresAt:    expiresAt,
		RefreshToken: refreshToken.Token,
	}, nil
}

// Refresh rotates a refresh token: the presented token is consumed and a
// fresh pair is issued with the user's current roles.
func Refresh(db *gorm.DB, refreshTokenValue string) (LoginResult, error) {
	var result LoginResult
	err := db.Transaction(func(tx *gorm.DB) error {
		userID, err := auth.ValidateRefreshToken(tx, refreshTokenValue)
		if err != nil {
			return err
		}
		user, err := dbhelper.FindUserByID(tx, userID)
		if err != nil {
			return err
		}
		roles, err := dbhelper.UserRoles(tx, user.ID)
		if err != nil {
			return err
		}
		accessToken, expiresAt, err := auth.Authenticate(user, roles)
		if err != nil {
			return err
		}
		refreshToken, err := auth.GenerateRefreshToken(tx, user.ID)
		if err != nil {
			return err
		}
		result = LoginResult{
			UserID:       user.ID,
			AccessToken:  accessToken,
			ExpiresAt:    expiresAt,
			RefreshToken: refreshToken.Token,
		}
		return nil
	})
	if err != nil {
		return LoginResult{}, err
	}
	return result, nil
}

func GetUserByID(db *gorm.DB, id string) (Profile, error) {
	user, err := dbhelper.FindUserByID(db, id)
	if err != nil {
		return Profile{}, err
	}
	roles, err := dbhelper.UserRoles(db, user.ID)
	if err != nil {
		return Profile{}, err
	}
	return Profile{User: user, Roles: roles}, nil
}

// SendFriendRequest delegates to the friend engine. actorID must come
// from the authenticated context, never from the request body.
func SendFriendRequest(db *gorm.DB, actorID, recipientEmail string) (models.UserFriend, error) {
	var relationship models.UserFriend
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		relationship, err = friends.SendRequest(tx, actorID, recipientEmail)
		if err != nil {
			return err
		}
		return dbhelper.RecordActivity(tx, "Friend request sent", actorID, "USER_FRIEND", relationship.ID, "sent a friend request")
	})
	if err != nil {
		return models.UserFriend{}, err
	}
	return relationship, nil
}

// RespondFriendRequest applies the actor's decision and audits it.
func RespondFriendRequest(db *gorm.DB, actorID, relationshipID string, decision models.FriendRequestFlag) (models.UserFriend, error) {
	var relationship models.UserFriend
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		relationship, err = friends.Respond(tx, actorID, relationshipID, decision)
		if err != nil {
			return err
		}
		return dbhelper.RecordActivity(tx, "Friend request "+string(decision), actorID, "USER_FRIEND", relationship.ID, "responded to a friend request")
	})
	if err != nil {
		return models.UserFriend{}, err
	}
	return relationship, nil
}
