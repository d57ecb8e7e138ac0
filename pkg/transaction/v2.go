package transaction

import (
	"github.com/suffix-labs/siakit/pkg/encoding"
	"github.com/suffix-labs/siakit/pkg/policy"
	"github.com/suffix-labs/siakit/pkg/types"
)

// A V2SiacoinInput spends a SiacoinElement by satisfying the spend policy
// of its address.
type V2SiacoinInput struct {
	Parent          SiacoinElement         `json:"parent"`
	SatisfiedPolicy policy.SatisfiedPolicy `json:"satisfiedPolicy"`
}

// EncodeTo implements encoding.EncoderTo.
func (in V2SiacoinInput) EncodeTo(e *encoding.Encoder) {
	in.Parent.EncodeTo(e)
	in.SatisfiedPolicy.EncodeTo(e)
}

// A V2SiafundInput spends a SiafundElement. The accrued siacoins are sent to
// ClaimAddress.
type V2SiafundInput struct {
	Parent          SiafundElement         `json:"parent"`
	ClaimAddress    types.Address          `json:"claimAddress"`
	SatisfiedPolicy policy.SatisfiedPolicy `json:"satisfiedPolicy"`
}

// EncodeTo implements encoding.EncoderTo.
func (in V2SiafundInput) EncodeTo(e *encoding.Encoder) {
	in.Parent.EncodeTo(e)
	in.ClaimAddress.EncodeTo(e)
	in.SatisfiedPolicy.EncodeTo(e)
}

// A V2FileContract is a storage agreement between a renter and a host. Both
// parties sign the contract hash; the signatures are zeroed whenever the
// contract is hashed as part of a transaction.
type V2FileContract struct {
	Capacity         uint64          `json:"capacity"`
	Filesize         uint64          `json:"filesize"`
	FileMerkleRoot   types.Hash256   `json:"fileMerkleRoot"`
	ProofHeight      uint64          `json:"proofHeight"`
	ExpirationHeight uint64          `json:"expirationHeight"`
	RenterOutput     SiacoinOutput   `json:"renterOutput"`
	HostOutput       SiacoinOutput   `json:"hostOutput"`
	MissedHostValue  types.Currency  `json:"missedHostValue"`
	TotalCollateral  types.Currency  `json:"totalCollateral"`
	RenterPublicKey  types.PublicKey `json:"renterPublicKey"`
	HostPublicKey    types.PublicKey `json:"hostPublicKey"`
	RevisionNumber   uint64          `json:"revisionNumber"`
	RenterSignature  types.Signature `json:"renterSignature"`
	HostSignature    types.Signature `json:"hostSignature"`
}

// EncodeTo implements encoding.EncoderTo.
func (fc V2FileContract) EncodeTo(e *encoding.Encoder) {
	e.WriteUint64(fc.Capacity)
	e.WriteUint64(fc.Filesize)
	fc.FileMerkleRoot.EncodeTo(e)
	e.WriteUint64(fc.ProofHeight)
	e.WriteUint64(fc.ExpirationHeight)
	V2SiacoinOutput(fc.RenterOutput).EncodeTo(e)
	V2SiacoinOutput(fc.HostOutput).EncodeTo(e)
	types.V2Currency(fc.MissedHostValue).EncodeTo(e)
	types.V2Currency(fc.TotalCollateral).EncodeTo(e)
	fc.RenterPublicKey.EncodeTo(e)
	fc.HostPublicKey.EncodeTo(e)
	e.WriteUint64(fc.RevisionNumber)
	fc.RenterSignature.EncodeTo(e)
	fc.HostSignature.EncodeTo(e)
}

func (fc V2FileContract) withoutSignatures() V2FileContract {
	fc.RenterSignature = types.Signature{}
	fc.HostSignature = types.Signature{}
	return fc
}

// A V2FileContractRevision updates the state of an existing contract.
type V2FileContractRevision struct {
	Parent   V2FileContractElement `json:"parent"`
	Revision V2FileContract        `json:"revision"`
}

// EncodeTo implements encoding.EncoderTo.
func (rev V2FileContractRevision) EncodeTo(e *encoding.Encoder) {
	rev.Parent.EncodeTo(e)
	rev.Revision.EncodeTo(e)
}

// An Attestation associates a key-value pair with a public key. Hosts use
// attestations to announce their network address. The value is base64 in
// JSON.
type Attestation struct {
	PublicKey types.PublicKey `json:"publicKey"`
	Key       string          `json:"key"`
	Value     []byte          `json:"value"`
	Signature types.Signature `json:"signature"`
}

// EncodeTo implements encoding.EncoderTo.
func (a Attestation) EncodeTo(e *encoding.Encoder) {
	a.PublicKey.EncodeTo(e)
	e.WriteString(a.Key)
	e.WriteBytes(a.Value)
	a.Signature.EncodeTo(e)
}

// A V2Transaction is a post-hardfork transaction. Inputs are authorized by
// the satisfied policies they carry rather than by a separate signature
// list.
type V2Transaction struct {
	SiacoinInputs           []V2SiacoinInput           `json:"siacoinInputs,omitempty"`
	SiacoinOutputs          []SiacoinOutput            `json:"siacoinOutputs,omitempty"`
	SiafundInputs           []V2SiafundInput           `json:"siafundInputs,omitempty"`
	SiafundOutputs          []SiafundOutput            `json:"siafundOutputs,omitempty"`
	FileContracts           []V2FileContract           `json:"fileContracts,omitempty"`
	FileContractRevisions   []V2FileContractRevision   `json:"fileContractRevisions,omitempty"`
	FileContractResolutions []V2FileContractResolution `json:"fileContractResolutions,omitempty"`
	Attestations            []Attestation              `json:"attestations,omitempty"`
	ArbitraryData           []byte                     `json:"arbitraryData,omitempty"`
	NewFoundationAddress    *types.Address             `json:"newFoundationAddress,omitempty"`
	MinerFee                types.Currency             `json:"minerFee"`
}

// V2TransactionSemantics encodes the parts of a v2 transaction that its id
// and signature hash commit to. Inputs, revisions and resolutions are
// reduced to their parent ids, contract signatures are zeroed and storage
// proofs drop the proof of their chain index element.
type V2TransactionSemantics V2Transaction

// EncodeTo implements encoding.EncoderTo.
func (txn V2TransactionSemantics) EncodeTo(e *encoding.Encoder) {
	e.WritePrefix(len(txn.SiacoinInputs))
	for _, in := range txn.SiacoinInputs {
		in.Parent.ID.EncodeTo(e)
	}
	e.WritePrefix(len(txn.SiacoinOutputs))
	for _, out := range txn.SiacoinOutputs {
		V2SiacoinOutput(out).EncodeTo(e)
	}
	e.WritePrefix(len(txn.SiafundInputs))
	for _, in := range txn.SiafundInputs {
		in.Parent.ID.EncodeTo(e)
	}
	e.WritePrefix(len(txn.SiafundOutputs))
	for _, out := range txn.SiafundOutputs {
		V2SiafundOutput(out).EncodeTo(e)
	}
	e.WritePrefix(len(txn.FileContracts))
	for _, fc := range txn.FileContracts {
		fc.withoutSignatures().EncodeTo(e)
	}
	e.WritePrefix(len(txn.FileContractRevisions))
	for _, rev := range txn.FileContractRevisions {
		rev.Parent.ID.EncodeTo(e)
		rev.Revision.withoutSignatures().EncodeTo(e)
	}
	e.WritePrefix(len(txn.FileContractResolutions))
	for _, res := range txn.FileContractResolutions {
		res.Parent.ID.EncodeTo(e)
		resolutionSemantics(res.Resolution).EncodeTo(e)
	}
	encoding.EncodeSlice(e, txn.Attestations)
	e.WriteBytes(txn.ArbitraryData)
	e.WriteBool(txn.NewFoundationAddress != nil)
	if txn.NewFoundationAddress != nil {
		txn.NewFoundationAddress.EncodeTo(e)
	}
	types.V2Currency(txn.MinerFee).EncodeTo(e)
}

// ID returns the id of the transaction.
func (txn V2Transaction) ID() TransactionID {
	return TransactionID(encoding.HashWithDistinguisher("id/transaction", V2TransactionSemantics(txn)))
}

// InputSigHash returns the hash that must be signed for each input of the
// transaction. Every input signs the same hash.
func (txn V2Transaction) InputSigHash() types.Hash256 {
	e := encoding.NewEncoder()
	e.WriteDistinguisher("sig/input")
	e.WriteUint8(2)
	V2TransactionSemantics(txn).EncodeTo(e)
	return e.Sum()
}

// SiacoinOutputID returns the id of the i'th siacoin output.
func (txn V2Transaction) SiacoinOutputID(i int) SiacoinOutputID {
	return NewSiacoinOutputID(txn.ID(), i)
}

// SiafundOutputID returns the id of the i'th siafund output.
func (txn V2Transaction) SiafundOutputID(i int) SiafundOutputID {
	return NewSiafundOutputID(txn.ID(), i)
}

// V2FileContractID returns the id of the i'th file contract.
func (txn V2Transaction) V2FileContractID(i int) FileContractID {
	return NewFileContractID(txn.ID(), i)
}

func copyProof(proof []types.Hash256) []types.Hash256 {
	return append([]types.Hash256(nil), proof...)
}

// DeepCopy returns a copy of txn that shares no memory with the original.
func (txn V2Transaction) DeepCopy() V2Transaction {
	c := txn
	c.SiacoinInputs = append([]V2SiacoinInput(nil), txn.SiacoinInputs...)
	for i := range c.SiacoinInputs {
		in := &c.SiacoinInputs[i]
		in.Parent.StateElement.MerkleProof = copyProof(in.Parent.StateElement.MerkleProof)
		in.SatisfiedPolicy = in.SatisfiedPolicy.DeepCopy()
	}
	c.SiacoinOutputs = append([]SiacoinOutput(nil), txn.SiacoinOutputs...)
	c.SiafundInputs = append([]V2SiafundInput(nil), txn.SiafundInputs...)
	for i := range c.SiafundInputs {
		in := &c.SiafundInputs[i]
		in.Parent.StateElement.MerkleProof = copyProof(in.Parent.StateElement.MerkleProof)
		in.SatisfiedPolicy = in.SatisfiedPolicy.DeepCopy()
	}
	c.SiafundOutputs = append([]SiafundOutput(nil), txn.SiafundOutputs...)
	c.FileContracts = append([]V2FileContract(nil), txn.FileContracts...)
	c.FileContractRevisions = append([]V2FileContractRevision(nil), txn.FileContractRevisions...)
	for i := range c.FileContractRevisions {
		rev := &c.FileContractRevisions[i]
		rev.Parent.StateElement.MerkleProof = copyProof(rev.Parent.StateElement.MerkleProof)
	}
	c.FileContractResolutions = append([]V2FileContractResolution(nil), txn.FileContractResolutions...)
	for i := range c.FileContractResolutions {
		res := &c.FileContractResolutions[i]
		res.Parent.StateElement.MerkleProof = copyProof(res.Parent.StateElement.MerkleProof)
		if sp, ok := res.Resolution.(V2StorageProof); ok {
			sp.ProofIndex.MerkleProof = copyProof(sp.ProofIndex.MerkleProof)
			sp.Proof = copyProof(sp.Proof)
			res.Resolution = sp
		}
	}
	c.Attestations = append([]Attestation(nil), txn.Attestations...)
	for i := range c.Attestations {
		c.Attestations[i].Value = append([]byte(nil), c.Attestations[i].Value...)
	}
	c.ArbitraryData = append([]byte(nil), txn.ArbitraryData...)
	if txn.NewFoundationAddress != nil {
		addr := *txn.NewFoundationAddress
		c.NewFoundationAddress = &addr
	}
	return c
}
