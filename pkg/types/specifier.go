package types

import (
	"bytes"

	"github.com/suffix-labs/siakit/pkg/encoding"
)

// Specifier is a fixed 16-byte ASCII tag, zero padded on the right.
type Specifier [16]byte

// SpecifierEd25519 identifies ed25519 unlock keys.
var SpecifierEd25519 = NewSpecifier("ed25519")

// NewSpecifier returns the specifier for name. It panics if name does not
// fit in 16 bytes, so it is only meant for constants.
func NewSpecifier(name string) Specifier {
	s, err := ParseSpecifier(name)
	if err != nil {
		panic(err)
	}
	return s
}

// ParseSpecifier returns the specifier for name, or a *ParseError if name is
// longer than 16 bytes or contains a zero byte.
func ParseSpecifier(name string) (Specifier, error) {
	var s Specifier
	if len(name) > len(s) {
		return s, &ParseError{Type: "Specifier", Code: ErrInvalidSpecifier, Input: name,
			Message: "specifier longer than 16 bytes"}
	}
	if bytes.IndexByte([]byte(name), 0) >= 0 {
		return s, &ParseError{Type: "Specifier", Code: ErrInvalidSpecifier, Input: name,
			Message: "specifier contains a zero byte"}
	}
	copy(s[:], name)
	return s, nil
}

// String returns the specifier without its zero padding.
func (s Specifier) String() string {
	return string(bytes.TrimRight(s[:], "\x00"))
}

// EncodeTo implements encoding.EncoderTo.
func (s Specifier) EncodeTo(e *encoding.Encoder) { e.Write(s[:]) }
