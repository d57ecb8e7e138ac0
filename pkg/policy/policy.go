// Package policy implements v2 spend policies: recursive spending
// conditions built from heights, timestamps, keys, hash locks, thresholds,
// opaque commitments and legacy unlock conditions.
//
// A policy commits to an address. Threshold policies commit to the
// addresses of their children rather than the children themselves, so any
// branch can be replaced by an Opaque commitment without changing the
// address. This is what allows a spender to reveal only the branch they
// satisfy.
package policy

import (
	"fmt"
	"strings"
	"time"

	"github.com/suffix-labs/siakit/pkg/encoding"
	"github.com/suffix-labs/siakit/pkg/types"
)

const policyVersion = 1

// Opcodes written before each policy node.
const (
	opInvalid uint8 = iota
	opAbove
	opAfter
	opPublicKey
	opHash
	opThreshold
	opOpaque
	opUnlockConditions
)

// A SpendPolicy describes the conditions under which an input may be spent.
type SpendPolicy struct {
	Type interface{ isPolicy() }
}

// PolicyTypeAbove requires the input to be spent above a given block height.
type PolicyTypeAbove uint64

// PolicyTypeAfter requires the input to be spent after a given unix time,
// in seconds.
type PolicyTypeAfter uint64

// PolicyTypePublicKey requires the input to be signed by a given key.
type PolicyTypePublicKey types.PublicKey

// PolicyTypeHash requires the input to reveal a SHA256 hash preimage.
type PolicyTypeHash types.Hash256

// PolicyTypeThreshold requires at least N of the sub-policies to be
// satisfied.
type PolicyTypeThreshold struct {
	N  uint8
	Of []SpendPolicy
}

// PolicyTypeOpaque is the address of a hidden policy. It can never be
// satisfied directly.
type PolicyTypeOpaque types.Address

// PolicyTypeUnlockConditions reproduces v1 unlock conditions as a v2 policy.
type PolicyTypeUnlockConditions types.UnlockConditions

func (PolicyTypeAbove) isPolicy()            {}
func (PolicyTypeAfter) isPolicy()            {}
func (PolicyTypePublicKey) isPolicy()        {}
func (PolicyTypeHash) isPolicy()             {}
func (PolicyTypeThreshold) isPolicy()        {}
func (PolicyTypeOpaque) isPolicy()           {}
func (PolicyTypeUnlockConditions) isPolicy() {}

// PolicyAbove returns a policy that requires the input to be spent above a
// given block height.
func PolicyAbove(height uint64) SpendPolicy { return SpendPolicy{PolicyTypeAbove(height)} }

// PolicyAfter returns a policy that requires the input to be spent after t.
func PolicyAfter(t time.Time) SpendPolicy { return SpendPolicy{PolicyTypeAfter(t.Unix())} }

// PolicyPublicKey returns a policy that requires a signature from pk.
func PolicyPublicKey(pk types.PublicKey) SpendPolicy { return SpendPolicy{PolicyTypePublicKey(pk)} }

// PolicyHash returns a policy that requires the preimage of h.
func PolicyHash(h types.Hash256) SpendPolicy { return SpendPolicy{PolicyTypeHash(h)} }

// PolicyThreshold returns a policy satisfied by any n of the given
// policies.
func PolicyThreshold(n uint8, of []SpendPolicy) SpendPolicy {
	return SpendPolicy{PolicyTypeThreshold{N: n, Of: of}}
}

// PolicyOpaque hides p behind its address. Opaque policies are returned
// unchanged so hiding is idempotent.
func PolicyOpaque(p SpendPolicy) SpendPolicy {
	if _, ok := p.Type.(PolicyTypeOpaque); ok {
		return p
	}
	return SpendPolicy{PolicyTypeOpaque(p.Address())}
}

// PolicyUnlockConditions wraps v1 unlock conditions.
func PolicyUnlockConditions(uc types.UnlockConditions) SpendPolicy {
	return SpendPolicy{PolicyTypeUnlockConditions(uc)}
}

// AnyoneCanSpend returns a policy with no requirements.
func AnyoneCanSpend() SpendPolicy { return PolicyThreshold(0, nil) }

// DeepCopy returns a copy of p that shares no memory with the original.
func (p SpendPolicy) DeepCopy() SpendPolicy {
	switch t := p.Type.(type) {
	case PolicyTypeThreshold:
		if t.Of == nil {
			return p
		}
		of := make([]SpendPolicy, len(t.Of))
		for i, sub := range t.Of {
			of[i] = sub.DeepCopy()
		}
		return SpendPolicy{PolicyTypeThreshold{N: t.N, Of: of}}
	case PolicyTypeUnlockConditions:
		uc := types.UnlockConditions(t)
		if uc.PublicKeys != nil {
			keys := make([]types.UnlockKey, len(uc.PublicKeys))
			for i, uk := range uc.PublicKeys {
				keys[i] = types.UnlockKey{Algorithm: uk.Algorithm, Key: append([]byte(nil), uk.Key...)}
			}
			uc.PublicKeys = keys
		}
		return SpendPolicy{PolicyTypeUnlockConditions(uc)}
	}
	return p
}

func (p SpendPolicy) opcode() uint8 {
	switch p.Type.(type) {
	case PolicyTypeAbove:
		return opAbove
	case PolicyTypeAfter:
		return opAfter
	case PolicyTypePublicKey:
		return opPublicKey
	case PolicyTypeHash:
		return opHash
	case PolicyTypeThreshold:
		return opThreshold
	case PolicyTypeOpaque:
		return opOpaque
	case PolicyTypeUnlockConditions:
		return opUnlockConditions
	default:
		return opInvalid
	}
}

// EncodeTo implements encoding.EncoderTo. The version byte is written once,
// before the root node.
func (p SpendPolicy) EncodeTo(e *encoding.Encoder) {
	e.WriteUint8(policyVersion)
	p.encodeNode(e)
}

func (p SpendPolicy) encodeNode(e *encoding.Encoder) {
	e.WriteUint8(p.opcode())
	switch t := p.Type.(type) {
	case PolicyTypeAbove:
		e.WriteUint64(uint64(t))
	case PolicyTypeAfter:
		e.WriteUint64(uint64(t))
	case PolicyTypePublicKey:
		types.PublicKey(t).EncodeTo(e)
	case PolicyTypeHash:
		types.Hash256(t).EncodeTo(e)
	case PolicyTypeThreshold:
		e.WriteUint8(t.N)
		e.WriteUint8(uint8(len(t.Of)))
		for _, sub := range t.Of {
			sub.encodeNode(e)
		}
	case PolicyTypeOpaque:
		types.Address(t).EncodeTo(e)
	case PolicyTypeUnlockConditions:
		types.UnlockConditions(t).EncodeTo(e)
	}
}

// Address returns the address committed to by p. Unlock conditions keep
// their v1 unlock hash. For a threshold, every child is replaced by its
// opaque commitment before hashing.
func (p SpendPolicy) Address() types.Address {
	if uc, ok := p.Type.(PolicyTypeUnlockConditions); ok {
		return types.UnlockConditions(uc).UnlockHash()
	}

	if t, ok := p.Type.(PolicyTypeThreshold); ok {
		of := make([]SpendPolicy, len(t.Of))
		for i, sub := range t.Of {
			of[i] = PolicyOpaque(sub)
		}
		p = PolicyThreshold(t.N, of)
	}
	return types.Address(encoding.HashWithDistinguisher("address", p))
}

// Opacify returns p hidden behind its address.
func (p SpendPolicy) Opacify() SpendPolicy {
	return SpendPolicy{PolicyTypeOpaque(p.Address())}
}

// String returns a compact, human readable rendering of p.
func (p SpendPolicy) String() string {
	var sb strings.Builder
	writePolicy(&sb, p)
	return sb.String()
}

func writePolicy(sb *strings.Builder, p SpendPolicy) {
	switch t := p.Type.(type) {
	case PolicyTypeAbove:
		fmt.Fprintf(sb, "above(%d)", uint64(t))
	case PolicyTypeAfter:
		fmt.Fprintf(sb, "after(%d)", uint64(t))
	case PolicyTypePublicKey:
		fmt.Fprintf(sb, "pk(%x)", t[:])
	case PolicyTypeHash:
		fmt.Fprintf(sb, "h(%x)", t[:])
	case PolicyTypeThreshold:
		fmt.Fprintf(sb, "thresh(%d,[", t.N)
		for i, sub := range t.Of {
			if i > 0 {
				sb.WriteByte(',')
			}
			writePolicy(sb, sub)
		}
		sb.WriteString("])")
	case PolicyTypeOpaque:
		fmt.Fprintf(sb, "opaque(%x)", t[:])
	case PolicyTypeUnlockConditions:
		fmt.Fprintf(sb, "uc(%d,[", t.Timelock)
		for i, uk := range t.PublicKeys {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(uk.String())
		}
		fmt.Fprintf(sb, "],%d)", t.SignaturesRequired)
	default:
		sb.WriteString("invalid()")
	}
}
