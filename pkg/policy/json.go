package policy

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/suffix-labs/siakit/pkg/types"
)

// Error codes for PolicyError.
const (
	ErrUnknownPolicyType = "UNKNOWN_POLICY_TYPE"
	ErrInvalidPolicyJSON = "INVALID_POLICY_JSON"
	ErrTooManyPolicies   = "TOO_MANY_POLICIES"
)

// maxThresholdPolicies is the largest child count the one byte length
// prefix of a threshold can carry.
const maxThresholdPolicies = 255

// PolicyError is returned when a policy cannot be decoded.
type PolicyError struct {
	Code    string
	Message string
	Cause   error
}

func (e *PolicyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("policy error [%s]: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("policy error [%s]: %s", e.Code, e.Message)
}

func (e *PolicyError) Unwrap() error { return e.Cause }

// policyTypeName returns the JSON tag of a policy node.
func policyTypeName(p SpendPolicy) string {
	switch p.Type.(type) {
	case PolicyTypeAbove:
		return "above"
	case PolicyTypeAfter:
		return "after"
	case PolicyTypePublicKey:
		return "pk"
	case PolicyTypeHash:
		return "h"
	case PolicyTypeThreshold:
		return "thresh"
	case PolicyTypeOpaque:
		return "opaque"
	case PolicyTypeUnlockConditions:
		return "uc"
	default:
		return ""
	}
}

type thresholdJSON struct {
	N  uint8         `json:"n"`
	Of []SpendPolicy `json:"of"`
}

type policyJSON struct {
	Type   string          `json:"type"`
	Policy json.RawMessage `json:"policy,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (p SpendPolicy) MarshalJSON() ([]byte, error) {
	var payload interface{}
	switch t := p.Type.(type) {
	case PolicyTypeAbove:
		payload = uint64(t)
	case PolicyTypeAfter:
		payload = uint64(t)
	case PolicyTypePublicKey:
		payload = types.PublicKey(t)
	case PolicyTypeHash:
		payload = types.Hash256(t)
	case PolicyTypeThreshold:
		of := t.Of
		if of == nil {
			of = []SpendPolicy{}
		}
		payload = thresholdJSON{N: t.N, Of: of}
	case PolicyTypeOpaque:
		payload = types.Address(t)
	case PolicyTypeUnlockConditions:
		payload = types.UnlockConditions(t)
	default:
		return nil, &PolicyError{Code: ErrUnknownPolicyType, Message: fmt.Sprintf("cannot marshal policy of type %T", p.Type)}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %s policy", policyTypeName(p))
	}
	return json.Marshal(policyJSON{Type: policyTypeName(p), Policy: raw})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *SpendPolicy) UnmarshalJSON(b []byte) error {
	var v policyJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return &PolicyError{Code: ErrInvalidPolicyJSON, Message: "malformed policy object", Cause: err}
	}

	decode := func(dst interface{}) error {
		if err := json.Unmarshal(v.Policy, dst); err != nil {
			return &PolicyError{Code: ErrInvalidPolicyJSON, Message: "invalid " + v.Type + " policy", Cause: err}
		}
		return nil
	}

	switch v.Type {
	case "above":
		var height uint64
		if err := decode(&height); err != nil {
			return err
		}
		p.Type = PolicyTypeAbove(height)
	case "after":
		var ts uint64
		if err := decode(&ts); err != nil {
			return err
		}
		p.Type = PolicyTypeAfter(ts)
	case "pk":
		var pk types.PublicKey
		if err := decode(&pk); err != nil {
			return err
		}
		p.Type = PolicyTypePublicKey(pk)
	case "h":
		var h types.Hash256
		if err := decode(&h); err != nil {
			return err
		}
		p.Type = PolicyTypeHash(h)
	case "thresh":
		var t thresholdJSON
		if err := decode(&t); err != nil {
			return err
		}
		if len(t.Of) > maxThresholdPolicies {
			return &PolicyError{Code: ErrTooManyPolicies,
				Message: fmt.Sprintf("threshold has %d policies, at most %d are allowed", len(t.Of), maxThresholdPolicies)}
		}
		p.Type = PolicyTypeThreshold{N: t.N, Of: t.Of}
	case "opaque":
		var addr types.Address
		if err := decode(&addr); err != nil {
			return err
		}
		p.Type = PolicyTypeOpaque(addr)
	case "uc":
		var uc types.UnlockConditions
		if err := decode(&uc); err != nil {
			return err
		}
		p.Type = PolicyTypeUnlockConditions(uc)
	default:
		return &PolicyError{Code: ErrUnknownPolicyType, Message: fmt.Sprintf("unknown policy type %q", v.Type)}
	}
	return nil
}

// ParsePolicyJSON decodes a JSON encoded policy.
func ParsePolicyJSON(b []byte) (SpendPolicy, error) {
	var p SpendPolicy
	err := json.Unmarshal(b, &p)
	return p, err
}
