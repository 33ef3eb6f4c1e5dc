package auth

import "errors"

var (
	ErrMissingCredential = errors.New("auth: missing bearer credential")
	ErrInvalidCredential = errors.New("auth: invalid credential")
	ErrMissingEmail      = errors.New("auth: token is missing email claim")
)
