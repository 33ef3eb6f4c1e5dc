package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Reference vector from RFC 7519 tooling (jwt.io default token).
const (
	vectorInput  = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJzdWIiOiIxMjM0NTY3ODkwIiwibmFtZSI6IkpvaG4gRG9lIiwiaWF0IjoxNTE2MjM5MDIyfQ"
	vectorSig    = "SflKxwRJSMeKKF2QT4fwpMeJf36POk6yJV_adQssw5c"
	vectorSecret = "your-256-bit-secret"
)

func TestHMACSign_MatchesReferenceVector(t *testing.T) {
	sig, err := HMACSign(vectorInput, []byte(vectorSecret))
	require.NoError(t, err)
	assert.Equal(t, vectorSig, EncodeSegment(sig))
}

func TestVerifySignature(t *testing.T) {
	sig, err := DecodeSegment(vectorSig)
	require.NoError(t, err)

	assert.True(t, VerifySignature(vectorInput, sig, []byte(vectorSecret)))
	assert.False(t, VerifySignature(vectorInput, sig, []byte("other-secret")))
	assert.False(t, VerifySignature(vectorInput+"x", sig, []byte(vectorSecret)))

	flipped := append([]byte(nil), sig...)
	flipped[len(flipped)-1] ^= 0x01
	assert.False(t, VerifySignature(vectorInput, flipped, []byte(vectorSecret)))
}

func TestVerifySignature_LengthMismatch(t *testing.T) {
	sig, err := DecodeSegment(vectorSig)
	require.NoError(t, err)

	assert.False(t, VerifySignature(vectorInput, sig[:len(sig)-1], []byte(vectorSecret)))
	assert.False(t, VerifySignature(vectorInput, append(sig, 0x00), []byte(vectorSecret)))
	assert.False(t, VerifySignature(vectorInput, nil, []byte(vectorSecret)))
}
