package token

import "errors"

// Verification failures. Callers at the HTTP boundary must not expose which
// one occurred; they exist for logging and tests.
var (
	ErrConfiguration        = errors.New("token: configuration error")
	ErrMalformedSegment     = errors.New("token: malformed segment")
	ErrMalformedToken       = errors.New("token: malformed token")
	ErrUnsupportedAlgorithm = errors.New("token: unsupported algorithm")
	ErrInvalidSignature     = errors.New("token: invalid signature")
	ErrMissingSubject       = errors.New("token: missing subject")
	ErrExpired              = errors.New("token: expired")
	ErrInvalidLifetime      = errors.New("token: invalid lifetime")
)
