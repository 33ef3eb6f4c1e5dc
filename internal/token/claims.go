package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// Algorithm is the only accepted value of the header "alg" field.
	Algorithm = "HS256"
	// Type is the fixed header "typ" value.
	Type = "JWT"
)

// Header is the first token segment. Its content is fixed for this protocol.
type Header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ,omitempty"`
}

var defaultHeader = Header{Alg: Algorithm, Typ: Type}

// Claims is the token payload.
//
// Subject and ExpiresAt are required for verification. Email and Role are
// optional at the protocol level; deployments decide whether to demand
// them. Keys the struct does not know are ignored on decode.
type Claims struct {
	jwt.RegisteredClaims

	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// NewClaims builds claims valid from issuedAt for lifetime.
func NewClaims(subject, email, role string, issuedAt time.Time, lifetime time.Duration) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(lifetime)),
		},
		Email: email,
		Role:  role,
	}
}

// ExpiresAtTime returns the expiry, or the zero time when absent.
func (c Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
