package app

import "errors"

var (
	// ErrMissingFields is returned when a required registration or login
	// field is absent.
	ErrMissingFields = errors.New("missing required fields")

	// ErrUsernameExists and ErrEmailExists are returned when registration
	// hits a uniqueness conflict.
	ErrUsernameExists = errors.New("username already exists")
	ErrEmailExists    = errors.New("email already exists")

	// ErrInvalidCredentials is returned when login credentials do not match.
	// The same message covers unknown usernames to avoid account enumeration.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidToken is returned when a presented token cannot be accepted:
	// bad signature, expired, or the embedded user no longer exists.
	ErrInvalidToken = errors.New("invalid or expired token")
)
