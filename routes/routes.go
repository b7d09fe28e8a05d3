package routes

import (
	"errors"
	"log"
	"net/http"

	"github.com/friendsapp/apiv1/mailer"
	"github.com/friendsapp/apiv1/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

var validate *validator.Validate
var mailDispatcher mailer.Dispatcher

// CreateRoutes wires the routers. The dispatcher is injected here, after
// the caller has loaded the environment; building it any earlier would
// freeze empty SMTP settings.
func CreateRoutes(r *mux.Router, mail mailer.Dispatcher) {
	validate = validator.New()
	mailDispatcher = mail
	s := r.PathPrefix("/api/auth").Subrouter()
	AuthRouter(s)
	u := r.PathPrefix("/api/users").Subrouter()
	UserRouter(u)
}

// ErrorStatus maps the engine error taxonomy onto HTTP statuses.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, utils.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, utils.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, utils.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, utils.ErrUnauthorized), errors.Is(err, utils.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, utils.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, utils.ErrExpired), errors.Is(err, utils.ErrInvalidated):
		return http.StatusGone
	case errors.Is(err, utils.ErrDependency):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteError logs the real failure and surfaces only the given message.
func WriteError(w http.ResponseWriter, err error, errorMessage string) {
	log.Println(err)
	http.Error(w, errorMessage, ErrorStatus(err))
}

func signupMessage(err error) string {
	if errors.Is(err, utils.ErrConflict) {
		return utils.EMAIL_TAKEN_SIGNUP_ERROR
	}
	return utils.GENERIC_SIGNUP_ERROR
}

func confirmationMessage(err error) string {
	switch {
	case errors.Is(err, utils.ErrExpired):
		return utils.EXPIRED_TOKEN_ERROR
	case errors.Is(err, utils.ErrInvalidated):
		return utils.USED_TOKEN_ERROR
	default:
		return utils.GENERIC_CONFIRMATION_ERROR
	}
}
