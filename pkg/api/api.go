// Package api provides a JSON oriented front end to the siakit core.
//
// It is the entry point for applications that hold transactions, policies
// and events as JSON documents, such as wallets talking to a Sia node or
// indexer. Every function decodes its input, calls into the core packages
// and reports failures as *APIError:
//
//  1. StandardAddress / PolicyAddress - Address derivation
//  2. AtomicSwapAddresses - Atomic swap policies and their shared address
//  3. TransactionID / V1TransactionID / InputSigHash - Transaction hashes
//  4. SignTransaction - Signs every key-locked input
//  5. AppendSignature - Attaches an externally produced signature
//  6. ClaimAtomicSwap / RefundAtomicSwap - Spends an atomic swap input
//  7. ParseEvent - Decodes an indexer event
package api

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/suffix-labs/siakit/internal/log"
	"github.com/suffix-labs/siakit/pkg/builder"
	"github.com/suffix-labs/siakit/pkg/policy"
	"github.com/suffix-labs/siakit/pkg/transaction"
	"github.com/suffix-labs/siakit/pkg/types"
)

// ============================================================================
// API Function 1: Address derivation
// ============================================================================

// StandardAddress returns the address of the standard unlock conditions of
// an "ed25519:<hex>" public key.
func StandardAddress(publicKey string) (types.Address, error) {
	pk, err := types.ParsePublicKey(publicKey)
	if err != nil {
		return types.Address{}, apiError(ErrInvalidPublicKey, "invalid public key", err)
	}
	return types.StandardUnlockHash(pk), nil
}

// PolicyAddress returns the address of a JSON encoded spend policy.
func PolicyAddress(policyJSON []byte) (types.Address, error) {
	p, err := policy.ParsePolicyJSON(policyJSON)
	if err != nil {
		return types.Address{}, apiError(ErrInvalidPolicy, "invalid policy", err)
	}
	addr := p.Address()
	log.Debug("derived policy address", "policy", p.String(), "address", addr.String())
	return addr, nil
}

// ============================================================================
// API Function 2: AtomicSwapAddresses
// ============================================================================

// AtomicSwapRequest describes an atomic swap between two parties. Alice
// claims with the preimage of SecretHash, Bob reclaims after LockTime.
type AtomicSwapRequest struct {
	Alice      string `json:"alice"`      // ed25519 public key
	Bob        string `json:"bob"`        // ed25519 public key
	LockTime   uint64 `json:"lockTime"`   // Unix seconds
	SecretHash string `json:"secretHash"` // Hash of the secret preimage
}

// AtomicSwapPolicies holds the three forms of a swap policy. All of them
// lock funds to Address.
type AtomicSwapPolicies struct {
	Address types.Address      `json:"address"`
	Full    policy.SpendPolicy `json:"full"`
	Success policy.SpendPolicy `json:"success"`
	Refund  policy.SpendPolicy `json:"refund"`
}

// AtomicSwapAddresses builds the full, success and refund policies of a
// swap.
func AtomicSwapAddresses(req *AtomicSwapRequest) (*AtomicSwapPolicies, error) {
	alice, err := types.ParsePublicKey(req.Alice)
	if err != nil {
		return nil, apiError(ErrInvalidPublicKey, "invalid alice public key", err)
	}
	bob, err := types.ParsePublicKey(req.Bob)
	if err != nil {
		return nil, apiError(ErrInvalidPublicKey, "invalid bob public key", err)
	}
	secretHash, err := types.ParseHash256(req.SecretHash)
	if err != nil {
		return nil, apiError(ErrInvalidHash, "invalid secret hash", err)
	}

	if req.LockTime > math.MaxInt64 {
		return nil, apiError(ErrInvalidPolicy, fmt.Sprintf("lock time %d out of range", req.LockTime), nil)
	}
	lockTime := time.Unix(int64(req.LockTime), 0)
	full := policy.AtomicSwap(alice, bob, lockTime, secretHash)
	return &AtomicSwapPolicies{
		Address: full.Address(),
		Full:    full,
		Success: policy.AtomicSwapSuccess(alice, bob, lockTime, secretHash),
		Refund:  policy.AtomicSwapRefund(alice, bob, lockTime, secretHash),
	}, nil
}

// ============================================================================
// API Function 3: Transaction hashes
// ============================================================================

func parseV2Transaction(txJSON []byte) (transaction.V2Transaction, error) {
	var txn transaction.V2Transaction
	if err := json.Unmarshal(txJSON, &txn); err != nil {
		return txn, apiError(ErrInvalidTransaction, "invalid v2 transaction", err)
	}
	return txn, nil
}

// TransactionID returns the id of a JSON encoded v2 transaction.
func TransactionID(txJSON []byte) (transaction.TransactionID, error) {
	txn, err := parseV2Transaction(txJSON)
	if err != nil {
		return transaction.TransactionID{}, err
	}
	return txn.ID(), nil
}

// V1TransactionID returns the id of a JSON encoded v1 transaction.
func V1TransactionID(txJSON []byte) (transaction.TransactionID, error) {
	var txn transaction.V1Transaction
	if err := json.Unmarshal(txJSON, &txn); err != nil {
		return transaction.TransactionID{}, apiError(ErrInvalidTransaction, "invalid v1 transaction", err)
	}
	return txn.ID(), nil
}

// InputSigHash returns the hash every input of a v2 transaction signs.
func InputSigHash(txJSON []byte) (types.Hash256, error) {
	txn, err := parseV2Transaction(txJSON)
	if err != nil {
		return types.Hash256{}, err
	}
	return txn.InputSigHash(), nil
}

// ============================================================================
// API Function 4: SignTransaction
// ============================================================================

func keyFromSeed(seed []byte) (types.PrivateKey, error) {
	sk, err := types.NewPrivateKeyFromSeed(seed)
	if err != nil {
		return nil, apiError(ErrInvalidSeed, "invalid seed", err)
	}
	return sk, nil
}

func marshalTransaction(txn transaction.V2Transaction) ([]byte, error) {
	b, err := json.Marshal(txn)
	if err != nil {
		return nil, apiError(ErrInvalidTransaction, "encode transaction", err)
	}
	return b, nil
}

// SignTransaction signs a v2 transaction with the keys derived from seeds.
// Inputs locked to one of the keys, directly or through unlock conditions,
// receive a signature; other inputs are left as they are.
//
// Returns the signed transaction as JSON.
func SignTransaction(txJSON []byte, seeds ...[]byte) ([]byte, error) {
	txn, err := parseV2Transaction(txJSON)
	if err != nil {
		return nil, err
	}
	keys := make([]types.PrivateKey, 0, len(seeds))
	for _, seed := range seeds {
		sk, err := keyFromSeed(seed)
		if err != nil {
			return nil, err
		}
		keys = append(keys, sk)
	}

	signed := builder.FromTransaction(txn).SignSimple(keys...).Build()
	log.Debug("signed transaction", "txid", signed.ID().String(), "keys", len(keys))
	return marshalTransaction(signed)
}

// ============================================================================
// API Function 5: AppendSignature
// ============================================================================

// AppendSignature adds a "sig:<hex>" signature to siacoin input inputIndex
// of a v2 transaction. The signature is not verified.
func AppendSignature(txJSON []byte, inputIndex int, signature string) ([]byte, error) {
	txn, err := parseV2Transaction(txJSON)
	if err != nil {
		return nil, err
	}
	if inputIndex < 0 || inputIndex >= len(txn.SiacoinInputs) {
		return nil, apiError(ErrIndexOutOfBounds, "append signature", &builder.IndexOutOfBoundsError{
			Op: "append signature", Index: inputIndex, Len: len(txn.SiacoinInputs)})
	}
	sig, err := types.ParseSignature(signature)
	if err != nil {
		return nil, apiError(ErrInvalidSignature, "invalid signature", err)
	}

	sp := &txn.SiacoinInputs[inputIndex].SatisfiedPolicy
	sp.Signatures = append(sp.Signatures, sig)
	return marshalTransaction(txn)
}

// ============================================================================
// API Function 6: Atomic swap spending
// ============================================================================

func swapError(err error) error {
	var oob *builder.IndexOutOfBoundsError
	if errors.As(err, &oob) {
		return apiError(ErrIndexOutOfBounds, "atomic swap input", err)
	}
	return apiError(ErrNotAtomicSwap, "input cannot be spent through this swap path", err)
}

// ClaimAtomicSwap spends siacoin input inputIndex through the hash lock
// path, signing with the key derived from seed and revealing the hex
// encoded preimage.
func ClaimAtomicSwap(txJSON, seed []byte, preimage string, inputIndex int) ([]byte, error) {
	txn, err := parseV2Transaction(txJSON)
	if err != nil {
		return nil, err
	}
	sk, err := keyFromSeed(seed)
	if err != nil {
		return nil, err
	}
	var pre policy.Preimage
	if err := pre.UnmarshalText([]byte(preimage)); err != nil {
		return nil, apiError(ErrInvalidPreimage, "invalid preimage", err)
	}

	b := builder.FromTransaction(txn)
	if err := b.SatisfyAtomicSwapSuccess(sk, pre, inputIndex); err != nil {
		return nil, swapError(err)
	}
	return marshalTransaction(b.Build())
}

// RefundAtomicSwap spends siacoin input inputIndex through the time lock
// path, signing with the key derived from seed.
func RefundAtomicSwap(txJSON, seed []byte, inputIndex int) ([]byte, error) {
	txn, err := parseV2Transaction(txJSON)
	if err != nil {
		return nil, err
	}
	sk, err := keyFromSeed(seed)
	if err != nil {
		return nil, err
	}

	b := builder.FromTransaction(txn)
	if err := b.SatisfyAtomicSwapRefund(sk, inputIndex); err != nil {
		return nil, swapError(err)
	}
	return marshalTransaction(b.Build())
}

// ============================================================================
// API Function 7: ParseEvent
// ============================================================================

// ParseEvent decodes an indexer event. v1 contract resolution events are
// reported with code ErrUnsupported.
func ParseEvent(eventJSON []byte) (*transaction.Event, error) {
	var ev transaction.Event
	if err := json.Unmarshal(eventJSON, &ev); err != nil {
		var ue *types.UnsupportedError
		if errors.As(err, &ue) {
			return nil, apiError(ErrUnsupported, "unsupported event", err)
		}
		return nil, apiError(ErrInvalidEvent, "invalid event", err)
	}
	log.Debug("parsed event", "type", ev.Type, "id", ev.ID.String(), "height", ev.Index.Height)
	return &ev, nil
}
