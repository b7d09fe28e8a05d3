package utils

import "errors"

// Sentinel errors for every failure class the engines can report.
// Callers branch with errors.Is and pick the user-facing message;
// the sentinels themselves never leak account details.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrExpired      = errors.New("token expired")
	ErrInvalidated  = errors.New("token invalidated")
	ErrInvalidToken = errors.New("invalid token")
	ErrDependency   = errors.New("dependency failure")
)
