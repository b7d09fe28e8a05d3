package routes

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/didip/tollbooth/v6"
	"github.com/friendsapp/apiv1/dbhelper"
	"github.com/friendsapp/apiv1/lifecycle"
	"github.com/friendsapp/apiv1/utils"
	"github.com/gorilla/mux"
)

type TokenResponse struct {
	UserID       string `json:"userId"`
	AccessToken  string `json:"accessToken"`
	ExpiresAt    int64  `json:"expiresAt"`
	RefreshToken string `json:"refreshToken"`
}

type StatusResponse struct {
	Status string `json:"status"`
	UserID string `json:"userId,omitempty"`
}

type SignupAttempt struct {
	Email           string `validate:"required,email"`
	DisplayName     string `validate:"required,min=4,max=64"`
	FirstName       string `validate:"required,max=64"`
	LastName        string `validate:"required,max=64"`
	Password        string `validate:"required,min=8,max=64,eqfield=ConfirmPassword"`
	ConfirmPassword string `validate:"required,min=8,max=64"`
}

type LoginAttempt struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type ConfirmAttempt struct {
	Token string `validate:"required,min=6"`
}

type RefreshAttempt struct {
	RefreshToken string `validate:"required"`
}

type FriendRequestAttempt struct {
	Email string `validate:"required,email"`
}

type RespondAttempt struct {
	RelationshipID string `validate:"required"`
	Decision       string `validate:"required,oneof=APPROVED REJECTED BLOCKED SPAM"`
}

type RequestBody interface {
	SignupAttempt | LoginAttempt | ConfirmAttempt | RefreshAttempt | FriendRequestAttempt | RespondAttempt
}

func AuthRouter(s *mux.Router) {
	lmt := tollbooth.NewLimiter(5, nil)
	s.Handle("/signup", tollbooth.LimitFuncHandler(lmt, Signup)).Methods("POST")
	s.Handle("/complete-registration", tollbooth.LimitFuncHandler(lmt, CompleteRegistration)).Methods("POST")
	s.Handle("/login", tollbooth.LimitFuncHandler(lmt, Login)).Methods("POST")
	s.Handle("/refresh", tollbooth.LimitFuncHandler(lmt, Refresh)).Methods("POST")
}

// DecodeValidBody decodes and validates a request body. Both failure
// modes are the caller's fault, so they classify as ErrValidation.
func DecodeValidBody[B RequestBody](r *http.Request) (B, error) {
	decoder := json.NewDecoder(r.Body)
	var requestBody B
	err := decoder.Decode(&requestBody)
	if err != nil {
		return requestBody, fmt.Errorf("%w: %v", utils.ErrValidation, err)
	}
	err = validate.Struct(requestBody)
	if err != nil {
		return requestBody, fmt.Errorf("%w: %v", utils.ErrValidation, err)
	}
	return requestBody, nil
}

func Signup(w http.ResponseWriter, r *http.Request) {
	signupAttempt, err := DecodeValidBody[SignupAttempt](r)
	if err != nil {
		WriteError(w, err, utils.GENERIC_SIGNUP_ERROR)
		return
	}
	result, err := lifecycle.Register(dbhelper.DB, mailDispatcher, lifecycle.SignupData{
		Email:       signupAttempt.Email,
		DisplayName: signupAttempt.DisplayName,
		FirstName:   signupAttempt.FirstName,
		LastName:    signupAttempt.LastName,
		Password:    signupAttempt.Password,
	})
	if err != nil {
		WriteError(w, err, signupMessage(err))
		return
	}
	status := "Signed up! Check your inbox for a confirmation code."
	if result.NotificationPending {
		status = utils.NOTIFICATION_PENDING_STATUS
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(StatusResponse{Status: status, UserID: result.UserID})
}

func CompleteRegistration(w http.ResponseWriter, r *http.Request) {
	confirmAttempt, err := DecodeValidBody[ConfirmAttempt](r)
	if err != nil {
		WriteError(w, err, utils.GENERIC_CONFIRMATION_ERROR)
		return
	}
	_, err = lifecycle.ConfirmEmail(dbhelper.DB, confirmAttempt.Token)
	if err != nil {
		WriteError(w, err, confirmationMessage(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(StatusResponse{Status: "Email confirmed!"})
}

func Login(w http.ResponseWriter, r *http.Request) {
	loginAttempt, err := DecodeValidBody[LoginAttempt](r)
	if err != nil {
		WriteError(w, err, utils.GENERIC_LOGIN_ERROR)
		return
	}
	result, err := lifecycle.Login(dbhelper.DB, loginAttempt.Email, loginAttempt.Password)
	if err != nil {
		// one message for every cause so the response can't be used
		// to probe which emails exist
		WriteError(w, err, utils.GENERIC_LOGIN_ERROR)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TokenResponse{
		UserID:       result.UserID,
		AccessToken:  result.AccessToken,
		ExpiresAt:    result.ExpiresAt.Unix(),
		RefreshToken: result.RefreshToken,
	})
}

func Refresh(w http.ResponseWriter, r *http.Request) {
	refreshAttempt, err := DecodeValidBody[RefreshAttempt](r)
	if err != nil {
		WriteError(w, err, utils.GENERIC_LOGIN_ERROR)
		return
	}
	result, err := lifecycle.Refresh(dbhelper.DB, refreshAttempt.RefreshToken)
	if err != nil {
		WriteError(w, err, utils.JWT_TOKEN_PARSING_ERROR)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TokenResponse{
		UserID:       result.UserID,
		AccessToken:  result.AccessToken,
		ExpiresAt:    result.ExpiresAt.Unix(),
		RefreshToken: result.RefreshToken,
	})
}
