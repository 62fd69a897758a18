package services

import "errors"

// Sentinels handlers translate to HTTP status codes. Wrapped errors carry
// the detail; these carry the classification.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserBlocked        = errors.New("user is blocked")
	ErrNotFound           = errors.New("resource not found")
	ErrValidation         = errors.New("validation failed")
	ErrLimitExceeded      = errors.New("limit exceeded")
)
