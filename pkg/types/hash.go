// Package types holds the Sia primitive value types: hashes, block ids,
// keys, signatures, unlock conditions, addresses and currency amounts.
//
// Text forms carry a type prefix (h:, bid:, sig:, ed25519:, addr:) in
// String. JSON uses the form the reference node emits, and parsing accepts
// both the prefixed and the bare form wherever the node does.
package types

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/suffix-labs/siakit/pkg/encoding"
)

// Hash256 is a generic 256-bit digest.
type Hash256 [32]byte

// BlockID uniquely identifies a block.
type BlockID [32]byte

// ChainIndex pairs a block height with the id of the block at that height.
type ChainIndex struct {
	Height uint64  `json:"height"`
	ID     BlockID `json:"id"`
}

// HashBytes returns the blake2b-256 digest of b.
func HashBytes(b []byte) Hash256 {
	return encoding.Sum256(b)
}

// decodeHex decodes s into dst after stripping an optional prefix. The
// decoded length must match len(dst) exactly.
func decodeHex(typ, prefix, s string, dst []byte) error {
	raw := strings.TrimPrefix(s, prefix)
	if len(raw) != hex.EncodedLen(len(dst)) {
		return &ParseError{Type: typ, Code: ErrInvalidLength, Input: s,
			Message: "expected " + strconv.Itoa(hex.EncodedLen(len(dst))) + " hex characters"}
	}
	if _, err := hex.Decode(dst, []byte(raw)); err != nil {
		return &ParseError{Type: typ, Code: ErrInvalidHex, Input: s, Message: "invalid hex", Cause: err}
	}
	return nil
}

// String implements fmt.Stringer.
func (h Hash256) String() string { return "h:" + hex.EncodeToString(h[:]) }

// MarshalText implements encoding.TextMarshaler.
func (h Hash256) MarshalText() ([]byte, error) { return []byte(hex.EncodeToString(h[:])), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hash256) UnmarshalText(b []byte) error { return decodeHex("Hash256", "h:", string(b), h[:]) }

// EncodeTo implements encoding.EncoderTo.
func (h Hash256) EncodeTo(e *encoding.Encoder) { e.Write(h[:]) }

// ParseHash256 parses a hash from its bare or "h:" prefixed hex form.
func ParseHash256(s string) (Hash256, error) {
	var h Hash256
	err := h.UnmarshalText([]byte(s))
	return h, err
}

// String implements fmt.Stringer.
func (id BlockID) String() string { return "bid:" + hex.EncodeToString(id[:]) }

// MarshalText implements encoding.TextMarshaler.
func (id BlockID) MarshalText() ([]byte, error) { return []byte(hex.EncodeToString(id[:])), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *BlockID) UnmarshalText(b []byte) error {
	return decodeHex("BlockID", "bid:", string(b), id[:])
}

// EncodeTo implements encoding.EncoderTo.
func (id BlockID) EncodeTo(e *encoding.Encoder) { e.Write(id[:]) }

// EncodeTo implements encoding.EncoderTo.
func (ci ChainIndex) EncodeTo(e *encoding.Encoder) {
	e.WriteUint64(ci.Height)
	ci.ID.EncodeTo(e)
}

// String implements fmt.Stringer.
func (ci ChainIndex) String() string {
	return strconv.FormatUint(ci.Height, 10) + "::" + hex.EncodeToString(ci.ID[:])
}
