package token

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	inputs := [][]byte{nil, {}, {0x00}, {0xff}, {0xfb, 0xff}, []byte(`{"alg":"HS256","typ":"JWT"}`)}
	for n := 0; n < 200; n++ {
		b := make([]byte, rng.Intn(96))
		rng.Read(b)
		inputs = append(inputs, b)
	}

	for _, in := range inputs {
		enc := EncodeSegment(in)
		assert.NotContains(t, enc, "=")
		assert.NotContains(t, enc, "+")
		assert.NotContains(t, enc, "/")

		out, err := DecodeSegment(enc)
		require.NoError(t, err)
		if len(in) == 0 {
			assert.Empty(t, out)
			continue
		}
		assert.Equal(t, in, out)
	}
}

func TestEncodeSegment_URLSafeSubstitutions(t *testing.T) {
	// 0xfb 0xff encodes to "+/8=" in the standard alphabet.
	assert.Equal(t, "-_8", EncodeSegment([]byte{0xfb, 0xff}))
}

func TestDecodeSegment_RejectsOutsideAlphabet(t *testing.T) {
	for _, in := range []string{"ab+c", "ab/c", "YQ==", "a b", "a", "ab.c", "é", "YQ\n", "Y\rQ", "\r\nYQ"} {
		_, err := DecodeSegment(in)
		require.Error(t, err, "input %q", in)
		assert.True(t, errors.Is(err, ErrMalformedSegment), "input %q: %v", in, err)
	}
}

func TestDecodeSegment_RejectsNonCanonicalTrailingBits(t *testing.T) {
	// "YQ" is the canonical encoding of "a"; "YR" differs only in padding bits.
	_, err := DecodeSegment("YR")
	assert.ErrorIs(t, err, ErrMalformedSegment)
}

func TestEncodeHeader_IsByteExact(t *testing.T) {
	tok, err := Encode(Claims{}, []byte("secret"))
	require.NoError(t, err)
	assert.Equal(t, "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9", tok[:36])
}
