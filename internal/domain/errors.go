package domain

import "errors"

// Failure taxonomy for the temp-trainer endpoints. Handlers map these to
// fixed HTTP statuses; services wrap them with context but never swallow
// the sentinel.
var (
	ErrMissingID    = errors.New("trainer id is required")
	ErrMissingToken = errors.New("access token is required")
	ErrNotFound     = errors.New("trainer not found")
	ErrInvalidToken = errors.New("invalid access token")
	ErrExpired      = errors.New("trainer preview has expired")
	ErrUpstream     = errors.New("upstream provider error")
	ErrValidation   = errors.New("validation failed")
)
