// Package encoding implements the canonical Sia binary encoding.
//
// Every consensus object is written the same way the reference node writes
// it, so that hashes computed here match hashes computed on chain:
//
//	integers:      fixed width, little-endian
//	bool:          one byte, 0 or 1
//	byte strings:  u64 little-endian length || raw bytes
//	lists:         u64 little-endian length || each element in order
//	fixed arrays:  raw bytes, no prefix (hashes, keys, signatures)
//
// Hashes of semantically distinct objects are domain separated by a
// distinguisher, the ASCII bytes "sia/<tag>|", written before the object.
//
// The Encoder accumulates into an in-memory buffer and is not safe for
// concurrent use. Callers own an Encoder until they call Sum or Reset.
package encoding

import (
	"bytes"
	"encoding/binary"

	blake2b "github.com/minio/blake2b-simd"
)

// HashSize is the size of a blake2b-256 digest.
const HashSize = 32

// EncoderTo is implemented by every value with a canonical encoding.
type EncoderTo interface {
	EncodeTo(e *Encoder)
}

// EncoderFunc adapts an ordinary function to the EncoderTo interface.
type EncoderFunc func(e *Encoder)

// EncodeTo implements EncoderTo.
func (fn EncoderFunc) EncodeTo(e *Encoder) { fn(e) }

// Encoder writes Sia objects into a growable buffer.
type Encoder struct {
	buf bytes.Buffer
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Write appends p verbatim, without a length prefix. It implements io.Writer
// and never returns an error.
func (e *Encoder) Write(p []byte) (int, error) {
	return e.buf.Write(p)
}

// WriteUint8 writes a single byte.
func (e *Encoder) WriteUint8(u uint8) {
	e.buf.WriteByte(u)
}

// WriteBool writes 1 for true and 0 for false.
func (e *Encoder) WriteBool(b bool) {
	if b {
		e.WriteUint8(1)
	} else {
		e.WriteUint8(0)
	}
}

// WriteUint64 writes u as 8 little-endian bytes.
func (e *Encoder) WriteUint64(u uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], u)
	e.buf.Write(b[:])
}

// WriteUint128 writes a 128-bit integer as 16 little-endian bytes, low word
// first.
func (e *Encoder) WriteUint128(lo, hi uint64) {
	e.WriteUint64(lo)
	e.WriteUint64(hi)
}

// WritePrefix writes a list or byte-string length.
func (e *Encoder) WritePrefix(n int) {
	e.WriteUint64(uint64(n))
}

// WriteBytes writes a length-prefixed byte string.
func (e *Encoder) WriteBytes(b []byte) {
	e.WritePrefix(len(b))
	e.buf.Write(b)
}

// WriteString writes the UTF-8 bytes of s as a length-prefixed byte string.
func (e *Encoder) WriteString(s string) {
	e.WriteBytes([]byte(s))
}

// WriteDistinguisher writes the domain separation prefix "sia/<tag>|".
func (e *Encoder) WriteDistinguisher(tag string) {
	e.buf.WriteString("sia/")
	e.buf.WriteString(tag)
	e.buf.WriteByte('|')
}

// Sum returns the blake2b-256 digest of everything written so far. The
// buffer is left untouched.
func (e *Encoder) Sum() [HashSize]byte {
	return Sum256(e.buf.Bytes())
}

// Bytes returns the encoded bytes. The slice aliases the internal buffer and
// is only valid until the next write or Reset.
func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int {
	return e.buf.Len()
}

// Reset discards the buffer so the Encoder can be reused.
func (e *Encoder) Reset() {
	e.buf.Reset()
}

// EncodeSlice writes the length of s followed by each element's encoding.
// Call sites that need a different per-element encoding (e.g. a versioned
// output form) must write the prefix and elements themselves.
func EncodeSlice[T EncoderTo](e *Encoder, s []T) {
	e.WritePrefix(len(s))
	for i := range s {
		s[i].EncodeTo(e)
	}
}

// Marshal returns the canonical encoding of v.
func Marshal(v EncoderTo) []byte {
	e := NewEncoder()
	v.EncodeTo(e)
	return append([]byte(nil), e.Bytes()...)
}

// Hash returns the blake2b-256 digest of the canonical encoding of v.
func Hash(v EncoderTo) [HashSize]byte {
	e := NewEncoder()
	v.EncodeTo(e)
	return e.Sum()
}

// HashWithDistinguisher hashes v prefixed by the distinguisher for tag.
func HashWithDistinguisher(tag string, v EncoderTo) [HashSize]byte {
	e := NewEncoder()
	e.WriteDistinguisher(tag)
	v.EncodeTo(e)
	return e.Sum()
}

// Sum256 returns the unkeyed blake2b-256 digest of data.
func Sum256(data []byte) [HashSize]byte {
	h, err := blake2b.New(&blake2b.Config{Size: HashSize})
	if err != nil {
		// New only fails for an invalid Config.
		panic(err)
	}
	h.Write(data)

	var out [HashSize]byte
	copy(out[:], h.Sum(nil))
	return out
}
