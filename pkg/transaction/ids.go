package transaction

import (
	"github.com/suffix-labs/siakit/pkg/encoding"
	"github.com/suffix-labs/siakit/pkg/types"
)

// TransactionID uniquely identifies a transaction.
type TransactionID types.Hash256

// SiacoinOutputID uniquely identifies a siacoin output.
type SiacoinOutputID types.Hash256

// SiafundOutputID uniquely identifies a siafund output.
type SiafundOutputID types.Hash256

// FileContractID uniquely identifies a file contract.
type FileContractID types.Hash256

// String implements fmt.Stringer.
func (id TransactionID) String() string { return types.Hash256(id).String() }

// MarshalText implements encoding.TextMarshaler.
func (id TransactionID) MarshalText() ([]byte, error) { return types.Hash256(id).MarshalText() }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *TransactionID) UnmarshalText(b []byte) error { return (*types.Hash256)(id).UnmarshalText(b) }

// EncodeTo implements encoding.EncoderTo.
func (id TransactionID) EncodeTo(e *encoding.Encoder) { e.Write(id[:]) }

// String implements fmt.Stringer.
func (id SiacoinOutputID) String() string { return types.Hash256(id).String() }

// MarshalText implements encoding.TextMarshaler.
func (id SiacoinOutputID) MarshalText() ([]byte, error) { return types.Hash256(id).MarshalText() }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *SiacoinOutputID) UnmarshalText(b []byte) error { return (*types.Hash256)(id).UnmarshalText(b) }

// EncodeTo implements encoding.EncoderTo.
func (id SiacoinOutputID) EncodeTo(e *encoding.Encoder) { e.Write(id[:]) }

// String implements fmt.Stringer.
func (id SiafundOutputID) String() string { return types.Hash256(id).String() }

// MarshalText implements encoding.TextMarshaler.
func (id SiafundOutputID) MarshalText() ([]byte, error) { return types.Hash256(id).MarshalText() }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *SiafundOutputID) UnmarshalText(b []byte) error { return (*types.Hash256)(id).UnmarshalText(b) }

// EncodeTo implements encoding.EncoderTo.
func (id SiafundOutputID) EncodeTo(e *encoding.Encoder) { e.Write(id[:]) }

// String implements fmt.Stringer.
func (id FileContractID) String() string { return types.Hash256(id).String() }

// MarshalText implements encoding.TextMarshaler.
func (id FileContractID) MarshalText() ([]byte, error) { return types.Hash256(id).MarshalText() }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *FileContractID) UnmarshalText(b []byte) error { return (*types.Hash256)(id).UnmarshalText(b) }

// EncodeTo implements encoding.EncoderTo.
func (id FileContractID) EncodeTo(e *encoding.Encoder) { e.Write(id[:]) }

// deriveID hashes a transaction id and an output index under tag.
func deriveID(tag string, txid TransactionID, i int) types.Hash256 {
	e := encoding.NewEncoder()
	e.WriteDistinguisher(tag)
	txid.EncodeTo(e)
	e.WriteUint64(uint64(i))
	return e.Sum()
}

// NewSiacoinOutputID returns the id of the i'th siacoin output created by
// the transaction txid.
func NewSiacoinOutputID(txid TransactionID, i int) SiacoinOutputID {
	return SiacoinOutputID(deriveID("id/siacoinoutput", txid, i))
}

// NewSiafundOutputID returns the id of the i'th siafund output created by
// the transaction txid.
func NewSiafundOutputID(txid TransactionID, i int) SiafundOutputID {
	return SiafundOutputID(deriveID("id/siafundoutput", txid, i))
}

// NewFileContractID returns the id of the i'th file contract created by the
// transaction txid.
func NewFileContractID(txid TransactionID, i int) FileContractID {
	return FileContractID(deriveID("id/filecontract", txid, i))
}
