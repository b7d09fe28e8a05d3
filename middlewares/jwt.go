package middlewares

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/friendsapp/apiv1/utils"
)

type contextKey string

const userIDKey contextKey = "userId"

func GetTokenFromAuthorizationHeader(authHeader string) (string, error) {
	if len(authHeader) == 0 {
		return "", errors.New(utils.MISSING_REQUEST_DATA)
	}
	bearer_token := strings.Split(authHeader, " ")
	if len(bearer_token) < 2 {
		return "", errors.New(utils.MISSING_REQUEST_DATA)
	}
	return bearer_token[1], nil
}

// IsAccessTokenAuthorized verifies the bearer token and resolves the
// acting user into the request context. Handlers must take the actor
// from there, never from the request body.
func IsAccessTokenAuthorized(f http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorization := r.Header.Get("authorization")
		accessTokenString, err := GetTokenFromAuthorizationHeader(authorization)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		userID, _, err := utils.VerifyAccessToken(accessTokenString)
		if err != nil {
			// in FE, use the refresh token to get a new access token now
			log.Println(err)
			http.Error(w, utils.JWT_TOKEN_PARSING_ERROR, http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		f(w, r.WithContext(ctx))
	}
}

// ActorID returns the authenticated user id stashed by the middleware.
func ActorID(r *http.Request) (string, bool) {
	userID, ok := r.Context().Value(userIDKey).(string)
	return userID, ok && userID != ""
}
