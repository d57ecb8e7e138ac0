package transaction

import (
	"encoding/hex"

	"github.com/suffix-labs/siakit/pkg/encoding"
	"github.com/suffix-labs/siakit/pkg/types"
)

// A SiacoinInput spends an unspent SiacoinOutput in a v1 transaction.
type SiacoinInput struct {
	ParentID         SiacoinOutputID        `json:"parentID"`
	UnlockConditions types.UnlockConditions `json:"unlockConditions"`
}

// EncodeTo implements encoding.EncoderTo.
func (in SiacoinInput) EncodeTo(e *encoding.Encoder) {
	in.ParentID.EncodeTo(e)
	in.UnlockConditions.EncodeTo(e)
}

// A SiafundInput spends an unspent SiafundOutput in a v1 transaction. The
// accrued siacoins are sent to ClaimAddress.
type SiafundInput struct {
	ParentID         SiafundOutputID        `json:"parentID"`
	UnlockConditions types.UnlockConditions `json:"unlockConditions"`
	ClaimAddress     types.Address          `json:"claimAddress"`
}

// EncodeTo implements encoding.EncoderTo.
func (in SiafundInput) EncodeTo(e *encoding.Encoder) {
	in.ParentID.EncodeTo(e)
	in.UnlockConditions.EncodeTo(e)
	in.ClaimAddress.EncodeTo(e)
}

// A FileContract is a v1 storage agreement between a renter and a host.
type FileContract struct {
	Filesize           uint64          `json:"filesize"`
	FileMerkleRoot     types.Hash256   `json:"fileMerkleRoot"`
	WindowStart        uint64          `json:"windowStart"`
	WindowEnd          uint64          `json:"windowEnd"`
	Payout             types.Currency  `json:"payout"`
	ValidProofOutputs  []SiacoinOutput `json:"validProofOutputs"`
	MissedProofOutputs []SiacoinOutput `json:"missedProofOutputs"`
	UnlockHash         types.Address   `json:"unlockHash"`
	RevisionNumber     uint64          `json:"revisionNumber"`
}

func encodeV1Outputs(e *encoding.Encoder, outs []SiacoinOutput) {
	e.WritePrefix(len(outs))
	for _, sco := range outs {
		V1SiacoinOutput(sco).EncodeTo(e)
	}
}

// EncodeTo implements encoding.EncoderTo.
func (fc FileContract) EncodeTo(e *encoding.Encoder) {
	e.WriteUint64(fc.Filesize)
	fc.FileMerkleRoot.EncodeTo(e)
	e.WriteUint64(fc.WindowStart)
	e.WriteUint64(fc.WindowEnd)
	types.V1Currency(fc.Payout).EncodeTo(e)
	encodeV1Outputs(e, fc.ValidProofOutputs)
	encodeV1Outputs(e, fc.MissedProofOutputs)
	fc.UnlockHash.EncodeTo(e)
	e.WriteUint64(fc.RevisionNumber)
}

// A FileContractRevision updates the state of an existing v1 file contract.
// The contract fields are flattened into the revision's JSON form.
type FileContractRevision struct {
	ParentID         FileContractID         `json:"parentID"`
	UnlockConditions types.UnlockConditions `json:"unlockConditions"`
	FileContract
}

// EncodeTo implements encoding.EncoderTo. The payout is not part of a
// revision and the revision number moves to the front.
func (rev FileContractRevision) EncodeTo(e *encoding.Encoder) {
	rev.ParentID.EncodeTo(e)
	rev.UnlockConditions.EncodeTo(e)
	e.WriteUint64(rev.RevisionNumber)
	e.WriteUint64(rev.Filesize)
	rev.FileMerkleRoot.EncodeTo(e)
	e.WriteUint64(rev.WindowStart)
	e.WriteUint64(rev.WindowEnd)
	encodeV1Outputs(e, rev.ValidProofOutputs)
	encodeV1Outputs(e, rev.MissedProofOutputs)
	rev.UnlockHash.EncodeTo(e)
}

// A Leaf is a 64-byte segment of contract data used in storage proofs.
type Leaf [64]byte

// MarshalText implements encoding.TextMarshaler.
func (l Leaf) MarshalText() ([]byte, error) { return []byte(hex.EncodeToString(l[:])), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Leaf) UnmarshalText(b []byte) error {
	if len(b) != hex.EncodedLen(len(l)) {
		return &types.ParseError{Type: "Leaf", Code: types.ErrInvalidLength, Input: string(b),
			Message: "expected 128 hex characters"}
	}
	if _, err := hex.Decode(l[:], b); err != nil {
		return &types.ParseError{Type: "Leaf", Code: types.ErrInvalidHex, Input: string(b),
			Message: "invalid hex", Cause: err}
	}
	return nil
}

// A StorageProof proves that a host stored a segment of a v1 contract's
// data.
type StorageProof struct {
	ParentID FileContractID  `json:"parentID"`
	Leaf     Leaf            `json:"leaf"`
	Proof    []types.Hash256 `json:"proof"`
}

// EncodeTo implements encoding.EncoderTo.
func (sp StorageProof) EncodeTo(e *encoding.Encoder) {
	sp.ParentID.EncodeTo(e)
	e.Write(sp.Leaf[:])
	encoding.EncodeSlice(e, sp.Proof)
}

// CoveredFields selects the parts of a v1 transaction that a signature
// covers.
type CoveredFields struct {
	WholeTransaction      bool     `json:"wholeTransaction,omitempty"`
	SiacoinInputs         []uint64 `json:"siacoinInputs,omitempty"`
	SiacoinOutputs        []uint64 `json:"siacoinOutputs,omitempty"`
	FileContracts         []uint64 `json:"fileContracts,omitempty"`
	FileContractRevisions []uint64 `json:"fileContractRevisions,omitempty"`
	StorageProofs         []uint64 `json:"storageProofs,omitempty"`
	SiafundInputs         []uint64 `json:"siafundInputs,omitempty"`
	SiafundOutputs        []uint64 `json:"siafundOutputs,omitempty"`
	MinerFees             []uint64 `json:"minerFees,omitempty"`
	ArbitraryData         []uint64 `json:"arbitraryData,omitempty"`
	Signatures            []uint64 `json:"signatures,omitempty"`
}

// EncodeTo implements encoding.EncoderTo.
func (cf CoveredFields) EncodeTo(e *encoding.Encoder) {
	e.WriteBool(cf.WholeTransaction)
	for _, f := range [][]uint64{
		cf.SiacoinInputs,
		cf.SiacoinOutputs,
		cf.FileContracts,
		cf.FileContractRevisions,
		cf.StorageProofs,
		cf.SiafundInputs,
		cf.SiafundOutputs,
		cf.MinerFees,
		cf.ArbitraryData,
		cf.Signatures,
	} {
		e.WritePrefix(len(f))
		for _, i := range f {
			e.WriteUint64(i)
		}
	}
}

// A TransactionSignature signs the covered fields of a v1 transaction with
// one of the public keys of an input's unlock conditions. The signature is
// base64 in JSON.
type TransactionSignature struct {
	ParentID       types.Hash256 `json:"parentID"`
	PublicKeyIndex uint64        `json:"publicKeyIndex"`
	Timelock       uint64        `json:"timelock,omitempty"`
	CoveredFields  CoveredFields `json:"coveredFields"`
	Signature      []byte        `json:"signature"`
}

// EncodeTo implements encoding.EncoderTo.
func (ts TransactionSignature) EncodeTo(e *encoding.Encoder) {
	ts.ParentID.EncodeTo(e)
	e.WriteUint64(ts.PublicKeyIndex)
	e.WriteUint64(ts.Timelock)
	ts.CoveredFields.EncodeTo(e)
	e.WriteBytes(ts.Signature)
}

// A V1Transaction is a pre-hardfork transaction.
type V1Transaction struct {
	SiacoinInputs         []SiacoinInput         `json:"siacoinInputs,omitempty"`
	SiacoinOutputs        []SiacoinOutput        `json:"siacoinOutputs,omitempty"`
	FileContracts         []FileContract         `json:"fileContracts,omitempty"`
	FileContractRevisions []FileContractRevision `json:"fileContractRevisions,omitempty"`
	StorageProofs         []StorageProof         `json:"storageProofs,omitempty"`
	SiafundInputs         []SiafundInput         `json:"siafundInputs,omitempty"`
	SiafundOutputs        []SiafundOutput        `json:"siafundOutputs,omitempty"`
	MinerFees             []types.Currency       `json:"minerFees,omitempty"`
	ArbitraryData         [][]byte               `json:"arbitraryData,omitempty"`
	Signatures            []TransactionSignature `json:"signatures,omitempty"`
}

// v1TransactionSansSigs encodes every field of a v1 transaction except its
// signatures.
type v1TransactionSansSigs V1Transaction

// EncodeTo implements encoding.EncoderTo.
func (txn v1TransactionSansSigs) EncodeTo(e *encoding.Encoder) {
	encoding.EncodeSlice(e, txn.SiacoinInputs)
	e.WritePrefix(len(txn.SiacoinOutputs))
	for _, sco := range txn.SiacoinOutputs {
		V1SiacoinOutput(sco).EncodeTo(e)
	}
	encoding.EncodeSlice(e, txn.FileContracts)
	encoding.EncodeSlice(e, txn.FileContractRevisions)
	encoding.EncodeSlice(e, txn.StorageProofs)
	encoding.EncodeSlice(e, txn.SiafundInputs)
	e.WritePrefix(len(txn.SiafundOutputs))
	for _, sfo := range txn.SiafundOutputs {
		V1SiafundOutput(sfo).EncodeTo(e)
	}
	e.WritePrefix(len(txn.MinerFees))
	for _, fee := range txn.MinerFees {
		types.V1Currency(fee).EncodeTo(e)
	}
	e.WritePrefix(len(txn.ArbitraryData))
	for _, data := range txn.ArbitraryData {
		e.WriteBytes(data)
	}
}

// EncodeTo implements encoding.EncoderTo.
func (txn V1Transaction) EncodeTo(e *encoding.Encoder) {
	v1TransactionSansSigs(txn).EncodeTo(e)
	encoding.EncodeSlice(e, txn.Signatures)
}

// ID returns the id of the transaction. Signatures are not covered, so
// signing never changes the id.
func (txn V1Transaction) ID() TransactionID {
	return TransactionID(encoding.Hash(v1TransactionSansSigs(txn)))
}

// FullHash returns the hash of the transaction's complete encoding,
// signatures included.
func (txn V1Transaction) FullHash() types.Hash256 {
	return encoding.Hash(txn)
}

var (
	specifierSiacoinOutput = types.NewSpecifier("siacoin output")
	specifierSiafundOutput = types.NewSpecifier("siafund output")
	specifierFileContract  = types.NewSpecifier("file contract")
)

func (txn V1Transaction) deriveID(s types.Specifier, i int) types.Hash256 {
	e := encoding.NewEncoder()
	s.EncodeTo(e)
	v1TransactionSansSigs(txn).EncodeTo(e)
	e.WriteUint64(uint64(i))
	return e.Sum()
}

// SiacoinOutputID returns the id of the i'th siacoin output.
func (txn V1Transaction) SiacoinOutputID(i int) SiacoinOutputID {
	return SiacoinOutputID(txn.deriveID(specifierSiacoinOutput, i))
}

// SiafundOutputID returns the id of the i'th siafund output.
func (txn V1Transaction) SiafundOutputID(i int) SiafundOutputID {
	return SiafundOutputID(txn.deriveID(specifierSiafundOutput, i))
}

// FileContractID returns the id of the i'th file contract.
func (txn V1Transaction) FileContractID(i int) FileContractID {
	return FileContractID(txn.deriveID(specifierFileContract, i))
}
