package token

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Encode serializes claims into "<header>.<claims>.<signature>", signing the
// first two segments with secret.
func Encode(claims Claims, secret []byte) (string, error) {
	if len(secret) == 0 {
		return "", fmt.Errorf("%w: empty secret", ErrConfiguration)
	}

	headerJSON, err := json.Marshal(defaultHeader)
	if err != nil {
		return "", err
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	signingInput := EncodeSegment(headerJSON) + "." + EncodeSegment(claimsJSON)
	sig, err := HMACSign(signingInput, secret)
	if err != nil {
		return "", err
	}
	return signingInput + "." + EncodeSegment(sig), nil
}

// Decode verifies tok against secret at instant now and returns its claims.
//
// The signature is checked before the header or claims are interpreted, so
// nothing from an unauthenticated payload reaches a decision. Every failure
// wraps exactly one of ErrMalformedToken, ErrInvalidSignature,
// ErrUnsupportedAlgorithm, ErrMissingSubject or ErrExpired.
func Decode(tok string, secret []byte, now time.Time) (Claims, error) {
	if len(secret) == 0 {
		return Claims{}, fmt.Errorf("%w: empty secret", ErrConfiguration)
	}

	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return Claims{}, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedToken, len(parts))
	}

	headerJSON, err := DecodeSegment(parts[0])
	if err != nil {
		return Claims{}, fmt.Errorf("%w: header: %w", ErrMalformedToken, err)
	}
	claimsJSON, err := DecodeSegment(parts[1])
	if err != nil {
		return Claims{}, fmt.Errorf("%w: claims: %w", ErrMalformedToken, err)
	}
	sig, err := DecodeSegment(parts[2])
	if err != nil {
		return Claims{}, fmt.Errorf("%w: signature: %w", ErrMalformedToken, err)
	}

	if !VerifySignature(parts[0]+"."+parts[1], sig, secret) {
		return Claims{}, ErrInvalidSignature
	}

	var header Header
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return Claims{}, fmt.Errorf("%w: header: %v", ErrMalformedToken, err)
	}
	if header.Alg != Algorithm {
		return Claims{}, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, header.Alg)
	}

	var claims Claims
	if err := json.Unmarshal(claimsJSON, &claims); err != nil {
		return Claims{}, fmt.Errorf("%w: claims: %v", ErrMalformedToken, err)
	}
	if claims.Subject == "" {
		return Claims{}, ErrMissingSubject
	}

	// No leeway: a token whose exp equals now is already expired.
	validator := jwt.NewValidator(
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err := validator.Validate(claims); err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrExpired, err)
	}

	return claims, nil
}
