package auth

import (
	"context"

	"wellsync-backend/internal/token"
)

type identityKey struct{}

// WithIdentity attaches verified claims to ctx for the rest of the request.
func WithIdentity(ctx context.Context, claims token.Claims) context.Context {
	return context.WithValue(ctx, identityKey{}, claims)
}

// IdentityFrom returns the claims attached by the access guard. The second
// value is false for public operations.
func IdentityFrom(ctx context.Context) (token.Claims, bool) {
	claims, ok := ctx.Value(identityKey{}).(token.Claims)
	return claims, ok
}
