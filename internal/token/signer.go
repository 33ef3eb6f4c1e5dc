package token

import "github.com/golang-jwt/jwt/v5"

// HMACSign computes HMAC-SHA256 over signingInput ("<header>.<claims>").
func HMACSign(signingInput string, secret []byte) ([]byte, error) {
	return jwt.SigningMethodHS256.Sign(signingInput, secret)
}

// VerifySignature recomputes the signature for signingInput and compares it
// to sig in constant time. A length mismatch is reported as inequality
// without inspecting the contents.
func VerifySignature(signingInput string, sig, secret []byte) bool {
	return jwt.SigningMethodHS256.Verify(signingInput, sig, secret) == nil
}
