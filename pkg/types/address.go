package types

import (
	"bytes"
	"encoding/hex"
	"strings"

	"github.com/suffix-labs/siakit/pkg/encoding"
)

const (
	addressPrefix      = "addr:"
	addressChecksumLen = 6
)

// Address is the hash of the conditions under which an output can be spent.
type Address [32]byte

// VoidAddress is an address whose outputs can never be spent.
var VoidAddress Address

// Checksum returns the first 6 bytes of the blake2b-256 digest of a.
func (a Address) Checksum() (c [addressChecksumLen]byte) {
	sum := encoding.Sum256(a[:])
	copy(c[:], sum[:addressChecksumLen])
	return
}

func (a Address) hexWithChecksum() string {
	c := a.Checksum()
	return hex.EncodeToString(a[:]) + hex.EncodeToString(c[:])
}

// String returns "addr:" followed by the hash and checksum in hex.
func (a Address) String() string { return addressPrefix + a.hexWithChecksum() }

// MarshalText implements encoding.TextMarshaler. JSON carries the bare 76
// character form.
func (a Address) MarshalText() ([]byte, error) { return []byte(a.hexWithChecksum()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. Both the bare and the
// "addr:" prefixed forms are accepted.
func (a *Address) UnmarshalText(b []byte) error {
	s := string(b)
	raw := strings.TrimPrefix(s, addressPrefix)
	if len(raw) != hex.EncodedLen(len(a)+addressChecksumLen) {
		return &AddressError{Code: ErrInvalidLength, Input: s}
	}
	decoded, err := hex.DecodeString(raw)
	if err != nil {
		return &AddressError{Code: ErrInvalidHex, Input: s, Cause: err}
	}

	var addr Address
	copy(addr[:], decoded)
	want := addr.Checksum()
	found := decoded[len(addr):]
	if !bytes.Equal(want[:], found) {
		return &AddressError{
			Code:     ErrChecksumMismatch,
			Input:    s,
			Expected: hex.EncodeToString(want[:]),
			Found:    hex.EncodeToString(found),
		}
	}
	*a = addr
	return nil
}

// ParseAddress parses a bare or "addr:" prefixed address and verifies its
// checksum.
func ParseAddress(s string) (Address, error) {
	var a Address
	err := a.UnmarshalText([]byte(s))
	return a, err
}

// EncodeTo implements encoding.EncoderTo.
func (a Address) EncodeTo(e *encoding.Encoder) { e.Write(a[:]) }
