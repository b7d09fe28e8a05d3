package utils

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/xlzd/gotp"
	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	const HASH_ROUNDS = 10
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), HASH_ROUNDS)
	return string(bytes), err
}

func ComparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func _GetJWTSecret(getOldKey bool) ([]byte, error) {
	b64String := os.Getenv(JWT_SECRET_KEY)
	if getOldKey {
		b64String = os.Getenv(JWT_SECRET_KEY_OLD)
	}
	return base64.StdEncoding.DecodeString(b64String)
}

// CreateAccessToken signs a short-lived token carrying the user id and a
// snapshot of the role list. Refresh tokens are opaque and never carry
// claims, so a role change takes effect on the next refresh.
func CreateAccessToken(userID string, roles []string, ttl time.Duration) (string, time.Time, error) {
	signingKey, err := _GetJWTSecret(false)
	if err != nil {
		return "", time.Time{}, err
	}
	expiresAt := time.Now().Add(ttl)
	claims := jwt.MapClaims{}
	claims["userId"] = userID
	claims["roles"] = roles
	claims["iat"] = time.Now().Unix()
	claims["exp"] = expiresAt.Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(signingKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

func _ParseJWTToken(tokenString string, signingKey []byte) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New(JWT_TOKEN_PARSING_ERROR)
		}
		return signingKey, nil
	})
}

// VerifyAccessToken checks the signature against the current key and,
// during rotation, the previous one. Malformed input, expiry and bad
// signatures are reported as distinct sentinels.
func VerifyAccessToken(tokenString string) (string, []string, error) {
	signingKey, err := _GetJWTSecret(false)
	if err != nil {
		return "", nil, ErrDependency
	}
	oldSigningKey, err := _GetJWTSecret(true)
	if err != nil {
		return "", nil, ErrDependency
	}
	token1, errCurrentSecret := _ParseJWTToken(tokenString, signingKey)
	token2, errOldSecret := _ParseJWTToken(tokenString, oldSigningKey)
	if errCurrentSecret != nil && errOldSecret != nil {
		return "", nil, classifyJWTError(errCurrentSecret)
	}
	if token1 != nil && token1.Valid {
		if claims, ok := token1.Claims.(jwt.MapClaims); ok {
			return claimsIdentity(claims)
		}
	}
	if token2 != nil && token2.Valid {
		if claims, ok := token2.Claims.(jwt.MapClaims); ok {
			return claimsIdentity(claims)
		}
	}
	return "", nil, ErrInvalidToken
}

func classifyJWTError(err error) error {
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		if ve.Errors&jwt.ValidationErrorMalformed != 0 {
			return ErrValidation
		}
		if ve.Errors&jwt.ValidationErrorExpired != 0 {
			return ErrExpired
		}
	}
	return ErrInvalidToken
}

func claimsIdentity(claims jwt.MapClaims) (string, []string, error) {
	userID, ok := claims["userId"].(string)
	if !ok || userID == "" {
		return "", nil, ErrInvalidToken
	}
	var roles []string
	if raw, ok := claims["roles"].([]interface{}); ok {
		for _, r := range raw {
			if name, ok := r.(string); ok {
				roles = append(roles, name)
			}
		}
	}
	return userID, roles, nil
}

// NewOTPValue returns a random base32 string. 32 characters is 160 bits,
// far beyond anything enumerable inside the expiry window.
func NewOTPValue() string {
	return gotp.RandomSecret(OTP_TOKEN_LENGTH)
}

func NewRefreshTokenValue() (string, error) {
	b := make([]byte, REFRESH_TOKEN_BYTES)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// NormalizeEmail must be applied at every comparison site: registration,
// login lookup, friend-request recipient resolution.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
