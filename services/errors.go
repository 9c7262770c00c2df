package services

import "errors"

// Sentinel errors shared by the service layer. Handlers map these onto
// HTTP statuses; anything else is treated as an upstream failure and
// surfaced as a generic 500.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalid            = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
