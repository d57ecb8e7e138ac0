package types

import (
	"encoding/hex"
	"strconv"

	"filippo.io/edwards25519"
	"golang.org/x/crypto/ed25519"
	"lukechampine.com/frand"

	"github.com/suffix-labs/siakit/pkg/encoding"
)

const publicKeyPrefix = "ed25519:"

// SeedSize is the size of an ed25519 private key seed.
const SeedSize = ed25519.SeedSize

// PublicKey is an ed25519 public key.
type PublicKey [32]byte

// validPoint reports whether b is the encoding of a point on the ed25519
// curve.
func validPoint(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

// ParsePublicKey parses an "ed25519:<hex>" public key and checks that it
// decodes to a curve point.
func ParsePublicKey(s string) (PublicKey, error) {
	var pk PublicKey
	err := pk.UnmarshalText([]byte(s))
	return pk, err
}

// String implements fmt.Stringer.
func (pk PublicKey) String() string { return publicKeyPrefix + hex.EncodeToString(pk[:]) }

// MarshalText implements encoding.TextMarshaler.
func (pk PublicKey) MarshalText() ([]byte, error) { return []byte(pk.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (pk *PublicKey) UnmarshalText(b []byte) error {
	s := string(b)
	if len(s) < len(publicKeyPrefix) || s[:len(publicKeyPrefix)] != publicKeyPrefix {
		return &ParseError{Type: "PublicKey", Code: ErrMissingPrefix, Input: s,
			Message: "expected " + strconv.Quote(publicKeyPrefix) + " prefix"}
	}
	var key PublicKey
	if err := decodeHex("PublicKey", publicKeyPrefix, s, key[:]); err != nil {
		return err
	}
	if !validPoint(key[:]) {
		return &ParseError{Type: "PublicKey", Code: ErrCorruptPoint, Input: s,
			Message: "not a valid ed25519 point"}
	}
	*pk = key
	return nil
}

// EncodeTo implements encoding.EncoderTo.
func (pk PublicKey) EncodeTo(e *encoding.Encoder) { e.Write(pk[:]) }

// VerifyHash reports whether sig is a valid signature of h by pk.
func (pk PublicKey) VerifyHash(h Hash256, sig Signature) bool {
	return ed25519.Verify(pk[:], h[:], sig[:])
}

// UnlockKey returns pk as an ed25519 UnlockKey.
func (pk PublicKey) UnlockKey() UnlockKey {
	return UnlockKey{Algorithm: SpecifierEd25519, Key: append([]byte(nil), pk[:]...)}
}

// PrivateKey is an ed25519 private key: the 32-byte seed followed by the
// 32-byte public key.
type PrivateKey []byte

// NewPrivateKeyFromSeed derives the private key for a 32-byte seed.
func NewPrivateKeyFromSeed(seed []byte) (PrivateKey, error) {
	if len(seed) != SeedSize {
		return nil, &ParseError{Type: "PrivateKey", Code: ErrInvalidLength,
			Input: hex.EncodeToString(seed), Message: "seed must be 32 bytes"}
	}
	return PrivateKey(ed25519.NewKeyFromSeed(seed)), nil
}

// GeneratePrivateKey returns a private key derived from a random seed.
func GeneratePrivateKey() PrivateKey {
	seed := frand.Bytes(SeedSize)
	return PrivateKey(ed25519.NewKeyFromSeed(seed))
}

// Seed returns the seed the key was derived from.
func (sk PrivateKey) Seed() []byte {
	return append([]byte(nil), sk[:SeedSize]...)
}

// PublicKey returns the public half of sk.
func (sk PrivateKey) PublicKey() (pk PublicKey) {
	copy(pk[:], sk[SeedSize:])
	return
}

// SignHash signs h.
func (sk PrivateKey) SignHash(h Hash256) (sig Signature) {
	copy(sig[:], ed25519.Sign(ed25519.PrivateKey(sk), h[:]))
	return
}
