// Package builder assembles and signs v2 transactions.
//
// A V2TransactionBuilder collects inputs, outputs and the other fields of a
// v2 transaction, signs the shared input signature hash and hands out an
// independent transaction with Build. A builder is owned by a single caller
// and is not safe for concurrent use.
package builder

import (
	"github.com/pkg/errors"

	"github.com/suffix-labs/siakit/pkg/encoding"
	"github.com/suffix-labs/siakit/pkg/policy"
	"github.com/suffix-labs/siakit/pkg/transaction"
	"github.com/suffix-labs/siakit/pkg/types"
)

// FeePolicyKind selects how a FeePolicy computes the miner fee.
type FeePolicyKind uint8

const (
	// FeeHastingsPerByte charges Amount for every byte of the transaction's
	// signed encoding.
	FeeHastingsPerByte FeePolicyKind = iota + 1
	// FeeFixed charges Amount regardless of size.
	FeeFixed
)

// FeePolicy is a hint for how much miner fee a transaction should pay. It is
// never part of the encoded transaction.
type FeePolicy struct {
	Kind   FeePolicyKind
	Amount types.Currency
}

// FeePolicyHastingsPerByte returns a policy charging rate per byte.
func FeePolicyHastingsPerByte(rate types.Currency) FeePolicy {
	return FeePolicy{Kind: FeeHastingsPerByte, Amount: rate}
}

// FeePolicyFixed returns a policy charging a flat fee.
func FeePolicyFixed(fee types.Currency) FeePolicy {
	return FeePolicy{Kind: FeeFixed, Amount: fee}
}

// Fee returns the fee for a transaction of the given weight. A per-byte rate
// whose product does not fit in a Currency yields a *FeeOverflowError.
func (fp FeePolicy) Fee(weight uint64) (types.Currency, error) {
	if fp.Kind != FeeHastingsPerByte {
		return fp.Amount, nil
	}
	fee, overflow := fp.Amount.Mul64WithOverflow(weight)
	if overflow {
		return types.ZeroCurrency, &FeeOverflowError{Rate: fp.Amount, Weight: weight}
	}
	return fee, nil
}

// V2TransactionBuilder accumulates the fields of a v2 transaction.
type V2TransactionBuilder struct {
	txn       transaction.V2Transaction
	feePolicy *FeePolicy
}

// NewV2TransactionBuilder creates an empty builder.
func NewV2TransactionBuilder() *V2TransactionBuilder {
	return &V2TransactionBuilder{}
}

// FromTransaction creates a builder that starts from a copy of txn.
func FromTransaction(txn transaction.V2Transaction) *V2TransactionBuilder {
	return &V2TransactionBuilder{txn: txn.DeepCopy()}
}

// AddSiacoinInput spends parent under p. The input carries no witnesses
// until it is signed.
func (b *V2TransactionBuilder) AddSiacoinInput(parent transaction.SiacoinElement, p policy.SpendPolicy) *V2TransactionBuilder {
	b.txn.SiacoinInputs = append(b.txn.SiacoinInputs, transaction.V2SiacoinInput{
		Parent:          parent,
		SatisfiedPolicy: policy.SatisfiedPolicy{Policy: p},
	})
	return b
}

// AddSiacoinOutput appends a siacoin output.
func (b *V2TransactionBuilder) AddSiacoinOutput(out transaction.SiacoinOutput) *V2TransactionBuilder {
	b.txn.SiacoinOutputs = append(b.txn.SiacoinOutputs, out)
	return b
}

// AddSiafundInput spends parent under p, sending the accrued claim to
// claimAddress.
func (b *V2TransactionBuilder) AddSiafundInput(parent transaction.SiafundElement, claimAddress types.Address, p policy.SpendPolicy) *V2TransactionBuilder {
	b.txn.SiafundInputs = append(b.txn.SiafundInputs, transaction.V2SiafundInput{
		Parent:          parent,
		ClaimAddress:    claimAddress,
		SatisfiedPolicy: policy.SatisfiedPolicy{Policy: p},
	})
	return b
}

// AddSiafundOutput appends a siafund output.
func (b *V2TransactionBuilder) AddSiafundOutput(out transaction.SiafundOutput) *V2TransactionBuilder {
	b.txn.SiafundOutputs = append(b.txn.SiafundOutputs, out)
	return b
}

// AddFileContract appends a new file contract.
func (b *V2TransactionBuilder) AddFileContract(fc transaction.V2FileContract) *V2TransactionBuilder {
	b.txn.FileContracts = append(b.txn.FileContracts, fc)
	return b
}

// AddFileContractRevision appends a contract revision.
func (b *V2TransactionBuilder) AddFileContractRevision(rev transaction.V2FileContractRevision) *V2TransactionBuilder {
	b.txn.FileContractRevisions = append(b.txn.FileContractRevisions, rev)
	return b
}

// AddFileContractResolution appends a contract resolution.
func (b *V2TransactionBuilder) AddFileContractResolution(res transaction.V2FileContractResolution) *V2TransactionBuilder {
	b.txn.FileContractResolutions = append(b.txn.FileContractResolutions, res)
	return b
}

// AddAttestation appends an attestation.
func (b *V2TransactionBuilder) AddAttestation(a transaction.Attestation) *V2TransactionBuilder {
	b.txn.Attestations = append(b.txn.Attestations, a)
	return b
}

// ArbitraryData replaces the transaction's arbitrary data.
func (b *V2TransactionBuilder) ArbitraryData(data []byte) *V2TransactionBuilder {
	b.txn.ArbitraryData = append([]byte(nil), data...)
	return b
}

// NewFoundationAddress sets the foundation address update.
func (b *V2TransactionBuilder) NewFoundationAddress(addr types.Address) *V2TransactionBuilder {
	b.txn.NewFoundationAddress = &addr
	return b
}

// MinerFee sets the miner fee explicitly.
func (b *V2TransactionBuilder) MinerFee(fee types.Currency) *V2TransactionBuilder {
	b.txn.MinerFee = fee
	return b
}

// FeePolicy attaches a fee hint to the builder.
func (b *V2TransactionBuilder) FeePolicy(fp FeePolicy) *V2TransactionBuilder {
	b.feePolicy = &fp
	return b
}

// Weight returns the size in bytes of the transaction's signed encoding.
func (b *V2TransactionBuilder) Weight() uint64 {
	e := encoding.NewEncoder()
	transaction.V2TransactionSemantics(b.txn).EncodeTo(e)
	return uint64(e.Len())
}

// EstimatedFee returns the fee suggested by the fee policy for the current
// weight. Without a fee policy it returns the current miner fee.
func (b *V2TransactionBuilder) EstimatedFee() (types.Currency, error) {
	if b.feePolicy == nil {
		return b.txn.MinerFee, nil
	}
	return b.feePolicy.Fee(b.Weight())
}

// ApplyFeePolicy sets the miner fee to EstimatedFee. The miner fee has a
// fixed width, so this does not change the weight. On error the miner fee is
// left unchanged.
func (b *V2TransactionBuilder) ApplyFeePolicy() error {
	fee, err := b.EstimatedFee()
	if err != nil {
		return err
	}
	b.txn.MinerFee = fee
	return nil
}

// ID returns the id the transaction would have if built now.
func (b *V2TransactionBuilder) ID() transaction.TransactionID {
	return b.txn.ID()
}

// InputSigHash returns the hash every input signs.
func (b *V2TransactionBuilder) InputSigHash() types.Hash256 {
	return b.txn.InputSigHash()
}

// SignSimple signs the input signature hash with each key and appends the
// signature to every input whose policy is that bare public key, or is a set
// of unlock conditions listing it. Other policies are left untouched; their
// witnesses must be assigned by the caller in policy walk order.
func (b *V2TransactionBuilder) SignSimple(keys ...types.PrivateKey) *V2TransactionBuilder {
	sigHash := b.InputSigHash()
	for _, sk := range keys {
		pk := sk.PublicKey()
		sig := sk.SignHash(sigHash)
		for i := range b.txn.SiacoinInputs {
			sp := &b.txn.SiacoinInputs[i].SatisfiedPolicy
			if signedBy(sp.Policy, pk) {
				sp.Signatures = append(sp.Signatures, sig)
			}
		}
		for i := range b.txn.SiafundInputs {
			sp := &b.txn.SiafundInputs[i].SatisfiedPolicy
			if signedBy(sp.Policy, pk) {
				sp.Signatures = append(sp.Signatures, sig)
			}
		}
	}
	return b
}

func signedBy(p policy.SpendPolicy, pk types.PublicKey) bool {
	switch t := p.Type.(type) {
	case policy.PolicyTypePublicKey:
		return types.PublicKey(t) == pk
	case policy.PolicyTypeUnlockConditions:
		for _, uk := range t.PublicKeys {
			if k, ok := uk.PublicKey(); ok && k == pk {
				return true
			}
		}
	}
	return false
}

// SatisfyAtomicSwapSuccess claims the atomic swap locked by siacoin input
// index with the hash lock path. A full swap policy is redacted to its
// success form, then the signature and preimage are appended.
func (b *V2TransactionBuilder) SatisfyAtomicSwapSuccess(key types.PrivateKey, preimage policy.Preimage, index int) error {
	const op = "satisfy atomic swap success"
	if index < 0 || index >= len(b.txn.SiacoinInputs) {
		return &IndexOutOfBoundsError{Op: op, Index: index, Len: len(b.txn.SiacoinInputs)}
	}
	sp := &b.txn.SiacoinInputs[index].SatisfiedPolicy
	p, err := redactSwap(sp.Policy, 1)
	if err != nil {
		return errors.Wrapf(err, "%s: input %d", op, index)
	}
	if err := checkPathKey(p, 0, key.PublicKey()); err != nil {
		return errors.Wrapf(err, "%s: input %d", op, index)
	}

	sp.Policy = p
	sp.Signatures = append(sp.Signatures, key.SignHash(b.InputSigHash()))
	sp.Preimages = append(sp.Preimages, preimage)
	return nil
}

// SatisfyAtomicSwapRefund reclaims the atomic swap locked by siacoin input
// index with the time lock path. A full swap policy is redacted to its
// refund form, then the signature is appended.
func (b *V2TransactionBuilder) SatisfyAtomicSwapRefund(key types.PrivateKey, index int) error {
	const op = "satisfy atomic swap refund"
	if index < 0 || index >= len(b.txn.SiacoinInputs) {
		return &IndexOutOfBoundsError{Op: op, Index: index, Len: len(b.txn.SiacoinInputs)}
	}
	sp := &b.txn.SiacoinInputs[index].SatisfiedPolicy
	p, err := redactSwap(sp.Policy, 0)
	if err != nil {
		return errors.Wrapf(err, "%s: input %d", op, index)
	}
	if err := checkPathKey(p, 1, key.PublicKey()); err != nil {
		return errors.Wrapf(err, "%s: input %d", op, index)
	}

	sp.Policy = p
	sp.Signatures = append(sp.Signatures, key.SignHash(b.InputSigHash()))
	return nil
}

// redactSwap returns p with branch opaque, the other branch being the one
// that is spent. Policies that are already redacted that way are returned
// unchanged.
func redactSwap(p policy.SpendPolicy, opaque int) (policy.SpendPolicy, error) {
	validateRedacted := policy.ValidateAtomicSwapSuccess
	if opaque == 0 {
		validateRedacted = policy.ValidateAtomicSwapRefund
	}
	if validateRedacted(p) == nil {
		return p, nil
	}
	if err := policy.ValidateAtomicSwap(p); err != nil {
		return p, err
	}
	t := p.Type.(policy.PolicyTypeThreshold)
	of := append([]policy.SpendPolicy(nil), t.Of...)
	of[opaque] = of[opaque].Opacify()
	return policy.PolicyThreshold(t.N, of), nil
}

// checkPathKey verifies that the spent branch of a swap is locked to pk.
func checkPathKey(p policy.SpendPolicy, branch int, pk types.PublicKey) error {
	path := p.Type.(policy.PolicyTypeThreshold).Of[branch]
	want := types.PublicKey(path.Type.(policy.PolicyTypeThreshold).Of[0].Type.(policy.PolicyTypePublicKey))
	if want != pk {
		return errors.Errorf("key %v does not unlock the path (want %v)", pk, want)
	}
	return nil
}

// Build returns the transaction. The builder can keep being used; later
// changes do not affect the returned value.
func (b *V2TransactionBuilder) Build() transaction.V2Transaction {
	return b.txn.DeepCopy()
}
