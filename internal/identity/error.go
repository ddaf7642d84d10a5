package identity

import "errors"

var (
	ErrEmailExists           = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrAccountNotFound       = errors.New("account not found")
	ErrResolutionUnavailable = errors.New("identity resolution unavailable")
)
