package token

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// segmentParser decodes base64url segments without padding. Strict mode
// rejects non-zero trailing bits so every encoded byte is significant.
var segmentParser = jwt.NewParser(jwt.WithStrictDecoding())

// EncodeSegment encodes b as unpadded base64url.
func EncodeSegment(b []byte) string {
	return (*jwt.Token)(nil).EncodeSegment(b)
}

// DecodeSegment reverses EncodeSegment. Input containing characters outside
// the base64url alphabet (including '=' padding) fails with ErrMalformedSegment.
func DecodeSegment(s string) ([]byte, error) {
	// encoding/base64 skips '\r' and '\n', so the alphabet is checked up front.
	if i := strings.IndexFunc(s, notBase64URL); i >= 0 {
		return nil, fmt.Errorf("%w: illegal character %q at offset %d", ErrMalformedSegment, s[i], i)
	}
	b, err := segmentParser.DecodeSegment(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSegment, err)
	}
	return b, nil
}

func notBase64URL(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		return false
	default:
		return true
	}
}
