package token

import (
	"fmt"
	"time"

	"wellsync-backend/internal/config"
)

// Manager issues and verifies tokens with the process secret.
// It is immutable after construction and safe for concurrent use.
type Manager struct {
	secret     []byte
	defaultTTL time.Duration
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: AUTH_JWT_SECRET is required", ErrConfiguration)
	}
	if cfg.TokenTTLSeconds <= 0 || cfg.TokenTTLSeconds > int(MaxLifetime/time.Second) {
		return nil, fmt.Errorf("%w: token lifetime must be between 1s and %s", ErrConfiguration, MaxLifetime)
	}
	ttl := cfg.TokenTTL()

	return &Manager{
		secret:     []byte(cfg.JWTSecret),
		defaultTTL: ttl,
	}, nil
}

// MaxLifetime bounds any issued token's validity window.
const MaxLifetime = 365 * 24 * time.Hour

// IssueRequest describes a token to mint. A zero Lifetime selects the
// manager default.
type IssueRequest struct {
	Subject  string
	Email    string
	Role     string
	Lifetime time.Duration
}

type Issued struct {
	AccessToken string
	Claims      Claims
	ExpiresIn   time.Duration
}

/* ===================== ISSUE ===================== */

func (m *Manager) Issue(now time.Time, req IssueRequest) (Issued, error) {
	if req.Subject == "" {
		return Issued{}, ErrMissingSubject
	}

	lifetime := req.Lifetime
	if lifetime == 0 {
		lifetime = m.defaultTTL
	}
	if lifetime < time.Second || lifetime > MaxLifetime {
		return Issued{}, fmt.Errorf("%w: %s", ErrInvalidLifetime, lifetime)
	}

	claims := NewClaims(req.Subject, req.Email, req.Role, now, lifetime)
	tok, err := Encode(claims, m.secret)
	if err != nil {
		return Issued{}, err
	}

	return Issued{
		AccessToken: tok,
		Claims:      claims,
		ExpiresIn:   lifetime,
	}, nil
}

/* ===================== VERIFY ===================== */

func (m *Manager) Verify(tok string, now time.Time) (Claims, error) {
	return Decode(tok, m.secret, now)
}

func (m *Manager) DefaultLifetime() time.Duration {
	return m.defaultTTL
}
