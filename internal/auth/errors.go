package auth

import "errors"

// Sentinel kinds for authentication errors.
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrBadCredentialConfig = errors.New("bad credential configuration")
)
