// Package transaction implements the Sia transaction data model: outputs,
// state elements, v1 and v2 inputs, file contracts and their resolutions,
// attestations, and the v1 and v2 transactions that carry them.
//
// Both transaction versions share the same logical output types but encode
// them differently. The V1 and V2 wrapper types select the wire form at the
// call site, e.g. V1SiacoinOutput(out).EncodeTo(e).
//
// A v2 transaction's id and signature hash are computed over its semantic
// encoding (V2TransactionSemantics), in which inputs are reduced to their
// parent ids and every embedded signature is zeroed. Attaching signatures
// therefore never changes the id.
package transaction

import (
	"github.com/suffix-labs/siakit/pkg/encoding"
	"github.com/suffix-labs/siakit/pkg/types"
)

// A SiacoinOutput is a volume of siacoins sent to an address.
type SiacoinOutput struct {
	Value   types.Currency `json:"value"`
	Address types.Address  `json:"address"`
}

// A SiafundOutput is a volume of siafunds sent to an address.
type SiafundOutput struct {
	Value   uint64        `json:"value"`
	Address types.Address `json:"address"`
}

// V1SiacoinOutput provides v1 encoding for SiacoinOutput.
type V1SiacoinOutput SiacoinOutput

// V2SiacoinOutput provides v2 encoding for SiacoinOutput.
type V2SiacoinOutput SiacoinOutput

// V1SiafundOutput provides v1 encoding for SiafundOutput.
type V1SiafundOutput SiafundOutput

// V2SiafundOutput provides v2 encoding for SiafundOutput.
type V2SiafundOutput SiafundOutput

// EncodeTo implements encoding.EncoderTo.
func (sco V1SiacoinOutput) EncodeTo(e *encoding.Encoder) {
	types.V1Currency(sco.Value).EncodeTo(e)
	sco.Address.EncodeTo(e)
}

// EncodeTo implements encoding.EncoderTo.
func (sco V2SiacoinOutput) EncodeTo(e *encoding.Encoder) {
	types.V2Currency(sco.Value).EncodeTo(e)
	sco.Address.EncodeTo(e)
}

// EncodeTo implements encoding.EncoderTo. The trailing zero currency is the
// claim start field that v1 nodes still expect.
func (sfo V1SiafundOutput) EncodeTo(e *encoding.Encoder) {
	types.V1Currency(types.NewCurrency64(sfo.Value)).EncodeTo(e)
	sfo.Address.EncodeTo(e)
	types.V1Currency(types.ZeroCurrency).EncodeTo(e)
}

// EncodeTo implements encoding.EncoderTo.
func (sfo V2SiafundOutput) EncodeTo(e *encoding.Encoder) {
	e.WriteUint64(sfo.Value)
	sfo.Address.EncodeTo(e)
}
