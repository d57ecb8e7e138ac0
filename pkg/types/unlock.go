package types

import (
	"encoding/hex"
	"strings"

	"github.com/suffix-labs/siakit/pkg/encoding"
	"github.com/suffix-labs/siakit/pkg/merkle"
)

// UnlockKey is a public key tagged with its signature algorithm.
type UnlockKey struct {
	Algorithm Specifier
	Key       []byte
}

// IsEd25519 reports whether uk is a well formed ed25519 key.
func (uk UnlockKey) IsEd25519() bool {
	return uk.Algorithm == SpecifierEd25519 && len(uk.Key) == len(PublicKey{})
}

// PublicKey returns the key as an ed25519 public key. ok is false for any
// other algorithm.
func (uk UnlockKey) PublicKey() (pk PublicKey, ok bool) {
	if !uk.IsEd25519() {
		return pk, false
	}
	copy(pk[:], uk.Key)
	return pk, true
}

// ParseUnlockKey parses "<specifier>:<hex>". Ed25519 keys must be exactly 64
// hex characters and a valid curve point; other algorithms accept any hex.
func ParseUnlockKey(s string) (UnlockKey, error) {
	var uk UnlockKey
	err := uk.UnmarshalText([]byte(s))
	return uk, err
}

// String implements fmt.Stringer.
func (uk UnlockKey) String() string {
	return uk.Algorithm.String() + ":" + hex.EncodeToString(uk.Key)
}

// MarshalText implements encoding.TextMarshaler.
func (uk UnlockKey) MarshalText() ([]byte, error) { return []byte(uk.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (uk *UnlockKey) UnmarshalText(b []byte) error {
	s := string(b)
	name, keyHex, found := strings.Cut(s, ":")
	if !found {
		return &UnlockKeyParseError{Input: s, Message: "missing ':' after algorithm"}
	}
	alg, err := ParseSpecifier(name)
	if err != nil {
		return &UnlockKeyParseError{Input: s, Message: "invalid algorithm", Cause: err}
	}

	if alg == SpecifierEd25519 {
		pk, err := ParsePublicKey(s)
		if err != nil {
			return &UnlockKeyParseError{Input: s, Message: "invalid ed25519 key", Cause: err}
		}
		*uk = pk.UnlockKey()
		return nil
	}

	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return &UnlockKeyParseError{Input: s, Message: "invalid hex", Cause: err}
	}
	*uk = UnlockKey{Algorithm: alg, Key: key}
	return nil
}

// EncodeTo implements encoding.EncoderTo.
func (uk UnlockKey) EncodeTo(e *encoding.Encoder) {
	uk.Algorithm.EncodeTo(e)
	e.WriteBytes(uk.Key)
}

// UnlockConditions are the v1 spending conditions of an output: a timelock,
// a set of keys, and how many of them must sign.
type UnlockConditions struct {
	Timelock           uint64      `json:"timelock"`
	PublicKeys         []UnlockKey `json:"publicKeys"`
	SignaturesRequired uint64      `json:"signaturesRequired"`
}

// StandardUnlockConditions returns the conditions of a standard single-key
// address.
func StandardUnlockConditions(pk PublicKey) UnlockConditions {
	return UnlockConditions{
		Timelock:           0,
		PublicKeys:         []UnlockKey{pk.UnlockKey()},
		SignaturesRequired: 1,
	}
}

// EncodeTo implements encoding.EncoderTo.
func (uc UnlockConditions) EncodeTo(e *encoding.Encoder) {
	e.WriteUint64(uc.Timelock)
	encoding.EncodeSlice(e, uc.PublicKeys)
	e.WriteUint64(uc.SignaturesRequired)
}

// isStandard reports whether uc is a single ed25519 key with no timelock
// and one required signature.
func (uc UnlockConditions) isStandard() bool {
	return uc.Timelock == 0 && uc.SignaturesRequired == 1 &&
		len(uc.PublicKeys) == 1 && uc.PublicKeys[0].IsEd25519()
}

// UnlockHash returns the Merkle root of the timelock, each key and the
// signature count.
func (uc UnlockConditions) UnlockHash() Address {
	if uc.isStandard() {
		pk, _ := uc.PublicKeys[0].PublicKey()
		return StandardUnlockHash(pk)
	}

	var acc merkle.Accumulator
	acc.AddLeaf(merkle.TimelockLeaf(uc.Timelock))
	for _, uk := range uc.PublicKeys {
		acc.AddLeaf(merkle.PublicKeyLeaf(uk.Algorithm, uk.Key))
	}
	acc.AddLeaf(merkle.SigsRequiredLeaf(uc.SignaturesRequired))
	return Address(acc.Root())
}

// Address is an alias for UnlockHash.
func (uc UnlockConditions) Address() Address { return uc.UnlockHash() }

// StandardUnlockHash returns the v1 address of pk without building the full
// accumulator.
func StandardUnlockHash(pk PublicKey) Address {
	return Address(merkle.StandardUnlockHash(SpecifierEd25519, pk))
}
