package transaction

import (
	"github.com/suffix-labs/siakit/pkg/encoding"
	"github.com/suffix-labs/siakit/pkg/types"
)

// A StateElement is a leaf of the consensus state accumulator together with
// its inclusion proof. A null, empty or missing merkleProof all decode to a
// proof of length zero and encode identically.
type StateElement struct {
	LeafIndex   uint64          `json:"leafIndex"`
	MerkleProof []types.Hash256 `json:"merkleProof,omitempty"`
}

// EncodeTo implements encoding.EncoderTo.
func (se StateElement) EncodeTo(e *encoding.Encoder) {
	e.WriteUint64(se.LeafIndex)
	encoding.EncodeSlice(e, se.MerkleProof)
}

// A SiacoinElement is a record of a SiacoinOutput within the state
// accumulator. It is the v2 equivalent of an unspent output.
type SiacoinElement struct {
	ID             SiacoinOutputID `json:"id"`
	StateElement   StateElement    `json:"stateElement"`
	SiacoinOutput  SiacoinOutput   `json:"siacoinOutput"`
	MaturityHeight uint64          `json:"maturityHeight"`
}

// EncodeTo implements encoding.EncoderTo.
func (sce SiacoinElement) EncodeTo(e *encoding.Encoder) {
	sce.StateElement.EncodeTo(e)
	sce.ID.EncodeTo(e)
	V2SiacoinOutput(sce.SiacoinOutput).EncodeTo(e)
	e.WriteUint64(sce.MaturityHeight)
}

// A SiafundElement is a record of a SiafundOutput within the state
// accumulator.
type SiafundElement struct {
	ID            SiafundOutputID `json:"id"`
	StateElement  StateElement    `json:"stateElement"`
	SiafundOutput SiafundOutput   `json:"siafundOutput"`
	ClaimStart    types.Currency  `json:"claimStart"`
}

// EncodeTo implements encoding.EncoderTo.
func (sfe SiafundElement) EncodeTo(e *encoding.Encoder) {
	sfe.StateElement.EncodeTo(e)
	sfe.ID.EncodeTo(e)
	V2SiafundOutput(sfe.SiafundOutput).EncodeTo(e)
	types.V2Currency(sfe.ClaimStart).EncodeTo(e)
}

// A ChainIndexElement is a record of a block within the state accumulator.
// Its JSON form flattens the state element fields.
type ChainIndexElement struct {
	StateElement
	ChainIndex types.ChainIndex `json:"chainIndex"`
}

// EncodeTo implements encoding.EncoderTo.
func (cie ChainIndexElement) EncodeTo(e *encoding.Encoder) {
	cie.StateElement.EncodeTo(e)
	cie.ChainIndex.EncodeTo(e)
}

// A V2FileContractElement is a record of a V2FileContract within the state
// accumulator.
type V2FileContractElement struct {
	ID             FileContractID `json:"id"`
	StateElement   StateElement   `json:"stateElement"`
	V2FileContract V2FileContract `json:"v2FileContract"`
}

// EncodeTo implements encoding.EncoderTo.
func (fce V2FileContractElement) EncodeTo(e *encoding.Encoder) {
	fce.StateElement.EncodeTo(e)
	fce.ID.EncodeTo(e)
	fce.V2FileContract.EncodeTo(e)
}
