package transaction

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/suffix-labs/siakit/pkg/encoding"
	"github.com/suffix-labs/siakit/pkg/types"
)

// Resolution type names used in the "type" field of a resolution's JSON.
const (
	ResolutionRenewal      = "renewal"
	ResolutionStorageProof = "storageProof"
	ResolutionFinalization = "finalization"
	ResolutionExpiration   = "expiration"
)

// A V2FileContractResolutionType is one of the ways a contract can be
// resolved: V2FileContractRenewal, V2StorageProof,
// V2FileContractFinalization or V2FileContractExpiration.
type V2FileContractResolutionType interface {
	encoding.EncoderTo
	isV2FileContractResolution()
}

func (V2FileContractRenewal) isV2FileContractResolution()      {}
func (V2StorageProof) isV2FileContractResolution()             {}
func (V2FileContractFinalization) isV2FileContractResolution() {}
func (V2FileContractExpiration) isV2FileContractResolution()   {}

// A V2FileContractRenewal closes a contract and opens a new one in its
// place. Part of the old payouts may roll over into the new contract.
type V2FileContractRenewal struct {
	FinalRevision   V2FileContract  `json:"finalRevision"`
	NewContract     V2FileContract  `json:"newContract"`
	RenterRollover  types.Currency  `json:"renterRollover"`
	HostRollover    types.Currency  `json:"hostRollover"`
	RenterSignature types.Signature `json:"renterSignature"`
	HostSignature   types.Signature `json:"hostSignature"`
}

// EncodeTo implements encoding.EncoderTo.
func (r V2FileContractRenewal) EncodeTo(e *encoding.Encoder) {
	r.FinalRevision.EncodeTo(e)
	r.NewContract.EncodeTo(e)
	types.V2Currency(r.RenterRollover).EncodeTo(e)
	types.V2Currency(r.HostRollover).EncodeTo(e)
	r.RenterSignature.EncodeTo(e)
	r.HostSignature.EncodeTo(e)
}

// A V2StorageProof proves that the host stored a leaf of the contract data
// selected by the block at ProofIndex.
type V2StorageProof struct {
	ProofIndex ChainIndexElement `json:"proofIndex"`
	Leaf       Leaf              `json:"leaf"`
	Proof      []types.Hash256   `json:"proof"`
}

// EncodeTo implements encoding.EncoderTo.
func (sp V2StorageProof) EncodeTo(e *encoding.Encoder) {
	sp.ProofIndex.EncodeTo(e)
	e.Write(sp.Leaf[:])
	encoding.EncodeSlice(e, sp.Proof)
}

// A V2FileContractFinalization replaces a contract with its final revision,
// after which no further revisions are possible.
type V2FileContractFinalization V2FileContract

// EncodeTo implements encoding.EncoderTo.
func (fcf V2FileContractFinalization) EncodeTo(e *encoding.Encoder) {
	V2FileContract(fcf).EncodeTo(e)
}

// A V2FileContractExpiration resolves a contract whose proof window has
// passed without a storage proof. It carries no data.
type V2FileContractExpiration struct{}

// EncodeTo implements encoding.EncoderTo.
func (V2FileContractExpiration) EncodeTo(*encoding.Encoder) {}

// A V2FileContractResolution closes a contract.
type V2FileContractResolution struct {
	Parent     V2FileContractElement        `json:"parent"`
	Resolution V2FileContractResolutionType `json:"resolution"`
}

// resolutionTag returns the encoding tag and JSON type name of r.
func resolutionTag(r V2FileContractResolutionType) (uint8, string, bool) {
	switch r.(type) {
	case V2FileContractRenewal:
		return 0, ResolutionRenewal, true
	case V2StorageProof:
		return 1, ResolutionStorageProof, true
	case V2FileContractFinalization:
		return 2, ResolutionFinalization, true
	case V2FileContractExpiration:
		return 3, ResolutionExpiration, true
	default:
		return 0, "", false
	}
}

// EncodeTo implements encoding.EncoderTo. It panics if the resolution is
// nil or not one of the four value types.
func (res V2FileContractResolution) EncodeTo(e *encoding.Encoder) {
	tag, _, ok := resolutionTag(res.Resolution)
	if !ok {
		panic(fmt.Sprintf("unhandled resolution type %T", res.Resolution))
	}
	res.Parent.EncodeTo(e)
	e.WriteUint8(tag)
	res.Resolution.EncodeTo(e)
}

// resolutionSemantics returns r as it is committed to by a transaction id:
// signatures are zeroed and a storage proof's chain index element loses its
// proof.
func resolutionSemantics(r V2FileContractResolutionType) encoding.EncoderTo {
	switch r := r.(type) {
	case V2FileContractRenewal:
		r.FinalRevision = r.FinalRevision.withoutSignatures()
		r.NewContract = r.NewContract.withoutSignatures()
		r.RenterSignature = types.Signature{}
		r.HostSignature = types.Signature{}
		return r
	case V2StorageProof:
		r.ProofIndex.MerkleProof = nil
		return r
	case V2FileContractFinalization:
		return V2FileContractFinalization(V2FileContract(r).withoutSignatures())
	case V2FileContractExpiration:
		return r
	default:
		panic(fmt.Sprintf("unhandled resolution type %T", r))
	}
}

type resolutionJSON struct {
	Parent     V2FileContractElement `json:"parent"`
	Type       string                `json:"type"`
	Resolution json.RawMessage       `json:"resolution"`
}

// MarshalJSON implements json.Marshaler.
func (res V2FileContractResolution) MarshalJSON() ([]byte, error) {
	_, typ, ok := resolutionTag(res.Resolution)
	if !ok {
		return nil, &DecodeError{Code: ErrInvalidResolution,
			Message: fmt.Sprintf("unhandled resolution type %T", res.Resolution)}
	}
	var data []byte
	if typ == ResolutionExpiration {
		data = []byte("{}")
	} else {
		var err error
		if data, err = json.Marshal(res.Resolution); err != nil {
			return nil, err
		}
	}
	return json.Marshal(resolutionJSON{
		Parent:     res.Parent,
		Type:       typ,
		Resolution: data,
	})
}

// UnmarshalJSON implements json.Unmarshaler. The resolution payload must
// match its "type"; an expiration must be an empty object.
func (res *V2FileContractResolution) UnmarshalJSON(b []byte) error {
	var v resolutionJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	decode := func(r V2FileContractResolutionType) error {
		if err := json.Unmarshal(v.Resolution, r); err != nil {
			return &DecodeError{Code: ErrInvalidResolution, Type: v.Type,
				Message: "resolution does not match its type", Cause: err}
		}
		return nil
	}

	res.Parent = v.Parent
	switch v.Type {
	case ResolutionRenewal:
		var r V2FileContractRenewal
		if err := decode(&r); err != nil {
			return err
		}
		res.Resolution = r
	case ResolutionStorageProof:
		var r V2StorageProof
		if err := decode(&r); err != nil {
			return err
		}
		res.Resolution = r
	case ResolutionFinalization:
		var r V2FileContractFinalization
		if err := decode(&r); err != nil {
			return err
		}
		res.Resolution = r
	case ResolutionExpiration:
		var m map[string]json.RawMessage
		trimmed := bytes.TrimSpace(v.Resolution)
		if len(trimmed) == 0 || json.Unmarshal(trimmed, &m) != nil || m == nil || len(m) != 0 {
			return &DecodeError{Code: ErrInvalidExpiration, Type: v.Type,
				Message: "expected an empty object for expiration"}
		}
		res.Resolution = V2FileContractExpiration{}
	default:
		return &DecodeError{Code: ErrUnknownResolutionType, Type: v.Type,
			Message: "unknown resolution type"}
	}
	return nil
}
