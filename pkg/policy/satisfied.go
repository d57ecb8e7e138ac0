package policy

import (
	"bytes"
	"encoding/hex"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/suffix-labs/siakit/pkg/encoding"
	"github.com/suffix-labs/siakit/pkg/types"
)

// Preimage is a 32-byte hash-lock secret.
type Preimage [32]byte

// MarshalText implements encoding.TextMarshaler.
func (p Preimage) MarshalText() ([]byte, error) { return []byte(hex.EncodeToString(p[:])), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Preimage) UnmarshalText(b []byte) error {
	if len(b) != hex.EncodedLen(len(p)) {
		return &types.ParseError{Type: "Preimage", Code: types.ErrInvalidLength, Input: string(b),
			Message: "expected 64 hex characters"}
	}
	if _, err := hex.Decode(p[:], b); err != nil {
		return &types.ParseError{Type: "Preimage", Code: types.ErrInvalidHex, Input: string(b),
			Message: "invalid hex", Cause: err}
	}
	return nil
}

// EncodeTo implements encoding.EncoderTo.
func (p Preimage) EncodeTo(e *encoding.Encoder) { e.Write(p[:]) }

// SatisfiedPolicy is a policy together with the signatures and preimages
// that satisfy it.
//
// Witnesses are consumed in depth-first order: each public key node takes
// the next signature, each hash node the next preimage, and unlock
// conditions take one signature per key.
type SatisfiedPolicy struct {
	Policy     SpendPolicy       `json:"policy"`
	Signatures []types.Signature `json:"signatures,omitempty"`
	Preimages  []Preimage        `json:"preimages,omitempty"`
}

// DeepCopy returns a copy of sp that shares no memory with the original.
func (sp SatisfiedPolicy) DeepCopy() SatisfiedPolicy {
	return SatisfiedPolicy{
		Policy:     sp.Policy.DeepCopy(),
		Signatures: append([]types.Signature(nil), sp.Signatures...),
		Preimages:  append([]Preimage(nil), sp.Preimages...),
	}
}

// EncodeTo implements encoding.EncoderTo. Witnesses are interleaved with
// the policy walk and carry no length prefixes. Witnesses beyond what the
// policy consumes are not written; missing ones are written as zeros.
func (sp SatisfiedPolicy) EncodeTo(e *encoding.Encoder) {
	sp.Policy.EncodeTo(e)

	var sigi, prei int
	nextSig := func() {
		var sig types.Signature
		if sigi < len(sp.Signatures) {
			sig = sp.Signatures[sigi]
		}
		sigi++
		sig.EncodeTo(e)
	}

	var walk func(SpendPolicy)
	walk = func(p SpendPolicy) {
		switch t := p.Type.(type) {
		case PolicyTypePublicKey:
			nextSig()
		case PolicyTypeHash:
			var pre Preimage
			if prei < len(sp.Preimages) {
				pre = sp.Preimages[prei]
			}
			prei++
			pre.EncodeTo(e)
		case PolicyTypeThreshold:
			for _, sub := range t.Of {
				walk(sub)
			}
		case PolicyTypeUnlockConditions:
			for range t.PublicKeys {
				nextSig()
			}
		}
	}
	walk(sp.Policy)
}

// UnmarshalJSON implements json.Unmarshaler. Unknown fields are rejected.
func (sp *SatisfiedPolicy) UnmarshalJSON(b []byte) error {
	type satisfiedPolicy SatisfiedPolicy
	var v satisfiedPolicy
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return errors.Wrap(err, "decode satisfied policy")
	}
	*sp = SatisfiedPolicy(v)
	return nil
}
