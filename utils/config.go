package utils

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

func EnvInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func AccessTokenTTL() time.Duration {
	return time.Minute * time.Duration(EnvInt(ACCESS_TOKEN_MINUTES, DEFAULT_ACCESS_TOKEN_MINUTES))
}

func RefreshTokenTTL() time.Duration {
	return time.Hour * 24 * time.Duration(EnvInt(REFRESH_TOKEN_DAYS, DEFAULT_REFRESH_TOKEN_DAYS))
}

func OTPLifespan() time.Duration {
	return time.Hour * time.Duration(EnvInt(OTP_LIFESPAN_HOURS, DEFAULT_OTP_LIFESPAN_HOURS))
}

// ValidateTokenConfig rejects a configuration where access tokens
// outlive refresh tokens.
func ValidateTokenConfig() error {
	if AccessTokenTTL() >= RefreshTokenTTL() {
		return fmt.Errorf("access token TTL %v must be shorter than refresh token TTL %v", AccessTokenTTL(), RefreshTokenTTL())
	}
	return nil
}
