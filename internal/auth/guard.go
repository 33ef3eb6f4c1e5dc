package auth

import (
	"fmt"
	"strings"
	"time"

	"wellsync-backend/internal/token"
)

// Verifier checks a raw token at a given instant. *token.Manager satisfies it.
type Verifier interface {
	Verify(tok string, now time.Time) (token.Claims, error)
}

// ClaimsPredicate is a deployment rule applied after generic verification
// succeeds, e.g. demanding claims the protocol itself treats as optional.
type ClaimsPredicate func(token.Claims) error

// RequireEmail rejects identities without an email claim.
func RequireEmail(c token.Claims) error {
	if strings.TrimSpace(c.Email) == "" {
		return ErrMissingEmail
	}
	return nil
}

// Diagnostic and documentation paths that never require a credential.
// No prefixes are exempt by default.
var (
	DefaultPublicPaths    = []string{"/healthz", "/docs", "/docs-json"}
	DefaultPublicPrefixes []string
)

type GuardOptions struct {
	// PublicPaths and PublicPrefixes default to the diagnostic set above.
	// A deployment serving static docs assets can add e.g. "/docs/" as a prefix.
	PublicPaths    []string
	PublicPrefixes []string

	// RequireClaims defaults to RequireEmail.
	RequireClaims ClaimsPredicate

	Clock func() time.Time
}

// Guard decides whether a request may reach its operation.
type Guard struct {
	verifier       Verifier
	policies       PolicyResolver
	publicPaths    map[string]struct{}
	publicPrefixes []string
	requireClaims  ClaimsPredicate
	clock          func() time.Time
}

func NewGuard(v Verifier, policies PolicyResolver, opts GuardOptions) *Guard {
	paths := opts.PublicPaths
	if paths == nil {
		paths = DefaultPublicPaths
	}
	prefixes := opts.PublicPrefixes
	if prefixes == nil {
		prefixes = DefaultPublicPrefixes
	}

	g := &Guard{
		verifier:       v,
		policies:       policies,
		publicPaths:    make(map[string]struct{}, len(paths)),
		publicPrefixes: prefixes,
		requireClaims:  opts.RequireClaims,
		clock:          opts.Clock,
	}
	for _, p := range paths {
		g.publicPaths[p] = struct{}{}
	}
	if g.requireClaims == nil {
		g.requireClaims = RequireEmail
	}
	if g.clock == nil {
		g.clock = time.Now
	}
	return g
}

// Decision is the outcome of a successful Authorize call.
type Decision struct {
	Policy Policy
	// Identity is only meaningful when Authenticated is true.
	Identity      token.Claims
	Authenticated bool
}

// Authorize evaluates one request. route is the matched route pattern, path
// the concrete request path and authorization the raw Authorization header.
//
// Errors wrap ErrMissingCredential or ErrInvalidCredential; the wrapped
// detail is for logs only.
func (g *Guard) Authorize(method, route, path, authorization string) (Decision, error) {
	policy := g.policies.Resolve(method, route)
	if policy.Public || g.isPublicPath(path) {
		return Decision{Policy: policy}, nil
	}

	raw, ok := bearerToken(authorization)
	if !ok {
		return Decision{}, ErrMissingCredential
	}

	claims, err := g.verifier.Verify(raw, g.clock())
	if err != nil {
		return Decision{}, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}
	if err := g.requireClaims(claims); err != nil {
		return Decision{}, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}

	return Decision{Policy: policy, Identity: claims, Authenticated: true}, nil
}

func (g *Guard) isPublicPath(path string) bool {
	if _, ok := g.publicPaths[path]; ok {
		return true
	}
	for _, p := range g.publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// bearerToken extracts the credential from "Bearer <token>". The scheme is
// matched case-insensitively.
func bearerToken(header string) (string, bool) {
	const scheme = "bearer "

	header = strings.TrimSpace(header)
	if len(header) < len(scheme) || !strings.EqualFold(header[:len(scheme)], scheme) {
		return "", false
	}
	tok := strings.TrimSpace(header[len(scheme):])
	if tok == "" {
		return "", false
	}
	return tok, true
}
