package api

import (
	"encoding/hex"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/siakit/pkg/builder"
	"github.com/suffix-labs/siakit/pkg/policy"
	"github.com/suffix-labs/siakit/pkg/transaction"
	"github.com/suffix-labs/siakit/pkg/types"
)

const (
	pkHex      = "ed25519:cecc1507dc1ddd7295951c290888f095adb9044d1b73d696e6df065d683bd4fc"
	addrHex    = "addr:f7843ac265b037658b304468013da4fd0f304a1b73df0dc68c4273c867bfa38d01a7661a187f"
	sigHashHex = "b9b205c2f3d5deadabac58c8d36b5092d57f58366a3a0810f53e2d5948cfa715"
	txidHex    = "9b1948b325a06bb44cdfac4087b2e10e15a63c4311acbd15a5dd73ea2d3b96e9"
)

// getTestDataPath returns the path to test data files
func getTestDataPath() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..", "testdata", "vectors")
}

func readVector(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(getTestDataPath(), name))
	require.NoError(t, err, "Failed to read test vector %s", name)
	return data
}

func seed(b byte) []byte {
	s := make([]byte, types.SeedSize)
	s[0] = b
	return s
}

func requireCode(t *testing.T, err error, code string) *APIError {
	t.Helper()
	var ae *APIError
	require.True(t, errors.As(err, &ae), "expected APIError, got %v", err)
	assert.Equal(t, code, ae.Code, ae.Error())
	return ae
}

// unsigned returns the basic send vector with its signature removed.
func unsigned(t *testing.T) []byte {
	var txn transaction.V2Transaction
	require.NoError(t, json.Unmarshal(readVector(t, "v2_transaction_basic_send.json"), &txn))
	txn.SiacoinInputs[0].SatisfiedPolicy.Signatures = nil
	b, err := json.Marshal(txn)
	require.NoError(t, err)
	return b
}

func TestStandardAddress(t *testing.T) {
	addr, err := StandardAddress(pkHex)
	require.NoError(t, err)
	assert.Equal(t, addrHex, addr.String())

	_, err = StandardAddress("cecc1507dc1ddd7295951c290888f095adb9044d1b73d696e6df065d683bd4fc")
	ae := requireCode(t, err, ErrInvalidPublicKey)
	var pe *types.ParseError
	require.True(t, errors.As(ae, &pe))
	assert.Equal(t, types.ErrMissingPrefix, pe.Code)
}

func TestPolicyAddress(t *testing.T) {
	js := `{"type":"uc","policy":{"timelock":0,"publicKeys":["` + pkHex + `"],"signaturesRequired":1}}`
	addr, err := PolicyAddress([]byte(js))
	require.NoError(t, err)
	assert.Equal(t, addrHex, addr.String())

	_, err = PolicyAddress([]byte(`{"type":"nope","policy":1}`))
	requireCode(t, err, ErrInvalidPolicy)
}

func TestAtomicSwapAddresses(t *testing.T) {
	bob, err := types.NewPrivateKeyFromSeed(seed(2))
	require.NoError(t, err)
	req := &AtomicSwapRequest{
		Alice:      pkHex,
		Bob:        bob.PublicKey().String(),
		LockTime:   1700000000,
		SecretHash: "h:" + sigHashHex,
	}
	swap, err := AtomicSwapAddresses(req)
	require.NoError(t, err)

	assert.True(t, policy.IsAtomicSwap(swap.Full))
	assert.True(t, policy.IsAtomicSwapSuccess(swap.Success))
	assert.True(t, policy.IsAtomicSwapRefund(swap.Refund))
	assert.Equal(t, swap.Address, swap.Full.Address())
	assert.Equal(t, swap.Address, swap.Success.Address())
	assert.Equal(t, swap.Address, swap.Refund.Address())

	js, err := json.Marshal(swap)
	require.NoError(t, err)
	var decoded AtomicSwapPolicies
	require.NoError(t, json.Unmarshal(js, &decoded))
	assert.Equal(t, swap.Address, decoded.Address)
	assert.Equal(t, swap.Address, decoded.Success.Address())

	bad := *req
	bad.Bob = "ed25519:00"
	_, err = AtomicSwapAddresses(&bad)
	requireCode(t, err, ErrInvalidPublicKey)

	bad = *req
	bad.SecretHash = "xyz"
	_, err = AtomicSwapAddresses(&bad)
	requireCode(t, err, ErrInvalidHash)

	bad = *req
	bad.LockTime = 1 << 63
	_, err = AtomicSwapAddresses(&bad)
	requireCode(t, err, ErrInvalidPolicy)

	bad = *req
	bad.LockTime = math.MaxInt64
	swap, err = AtomicSwapAddresses(&bad)
	require.NoError(t, err)
	assert.True(t, policy.IsAtomicSwap(swap.Full))

	var decodedReq AtomicSwapRequest
	err = json.Unmarshal([]byte(`{"alice":"`+pkHex+`","lockTime":-1}`), &decodedReq)
	require.Error(t, err, "negative lock times are rejected when decoding")
}

func TestTransactionHashes(t *testing.T) {
	data := readVector(t, "v2_transaction_basic_send.json")

	id, err := TransactionID(data)
	require.NoError(t, err)
	assert.Equal(t, "h:"+txidHex, id.String())

	sigHash, err := InputSigHash(data)
	require.NoError(t, err)
	assert.Equal(t, sigHashHex, hex.EncodeToString(sigHash[:]))

	_, err = TransactionID([]byte(`{"siacoinInputs":5}`))
	requireCode(t, err, ErrInvalidTransaction)
	_, err = InputSigHash([]byte(`[`))
	requireCode(t, err, ErrInvalidTransaction)
}

func TestV1TransactionID(t *testing.T) {
	id, err := V1TransactionID([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, transaction.V1Transaction{}.ID(), id)

	_, err = V1TransactionID([]byte(`{"minerFees":[5]}`))
	requireCode(t, err, ErrInvalidTransaction)
}

func TestSignTransaction(t *testing.T) {
	signed, err := SignTransaction(unsigned(t), seed(1), seed(2))
	require.NoError(t, err)
	assert.JSONEq(t, string(readVector(t, "v2_transaction_basic_send.json")), string(signed))

	_, err = SignTransaction(unsigned(t), []byte{1, 2, 3})
	requireCode(t, err, ErrInvalidSeed)
}

func TestAppendSignature(t *testing.T) {
	var vector transaction.V2Transaction
	require.NoError(t, json.Unmarshal(readVector(t, "v2_transaction_basic_send.json"), &vector))
	sig := vector.SiacoinInputs[0].SatisfiedPolicy.Signatures[0]

	signed, err := AppendSignature(unsigned(t), 0, sig.String())
	require.NoError(t, err)
	assert.JSONEq(t, string(readVector(t, "v2_transaction_basic_send.json")), string(signed))

	_, err = AppendSignature(unsigned(t), 1, sig.String())
	ae := requireCode(t, err, ErrIndexOutOfBounds)
	var oob *builder.IndexOutOfBoundsError
	require.True(t, errors.As(ae, &oob))
	assert.Equal(t, 1, oob.Index)
	assert.Equal(t, 1, oob.Len)

	_, err = AppendSignature(unsigned(t), 0, "sig:00")
	requireCode(t, err, ErrInvalidSignature)
}

func swapTransaction(t *testing.T) ([]byte, *AtomicSwapPolicies, policy.Preimage) {
	bob, err := types.NewPrivateKeyFromSeed(seed(2))
	require.NoError(t, err)
	pre := policy.Preimage{9, 9, 9}
	h := types.HashBytes(pre[:])
	swap, err := AtomicSwapAddresses(&AtomicSwapRequest{
		Alice:      pkHex,
		Bob:        bob.PublicKey().String(),
		LockTime:   1700000000,
		SecretHash: hex.EncodeToString(h[:]),
	})
	require.NoError(t, err)

	txn := builder.NewV2TransactionBuilder().
		AddSiacoinInput(transaction.SiacoinElement{
			ID:            transaction.SiacoinOutputID{1},
			SiacoinOutput: transaction.SiacoinOutput{Value: types.Siacoins(5), Address: swap.Address},
		}, swap.Full).
		AddSiacoinOutput(transaction.SiacoinOutput{Value: types.Siacoins(5)}).
		Build()
	js, err := json.Marshal(txn)
	require.NoError(t, err)
	return js, swap, pre
}

func TestClaimAtomicSwap(t *testing.T) {
	js, swap, pre := swapTransaction(t)
	preHex, err := pre.MarshalText()
	require.NoError(t, err)

	out, err := ClaimAtomicSwap(js, seed(1), string(preHex), 0)
	require.NoError(t, err)
	var txn transaction.V2Transaction
	require.NoError(t, json.Unmarshal(out, &txn))
	sp := txn.SiacoinInputs[0].SatisfiedPolicy
	assert.Equal(t, swap.Success, sp.Policy)
	assert.Equal(t, []policy.Preimage{pre}, sp.Preimages)
	require.Len(t, sp.Signatures, 1)

	_, err = ClaimAtomicSwap(js, seed(1), "zz", 0)
	requireCode(t, err, ErrInvalidPreimage)
	_, err = ClaimAtomicSwap(js, seed(1), string(preHex), 2)
	requireCode(t, err, ErrIndexOutOfBounds)
	_, err = ClaimAtomicSwap(js, seed(2), string(preHex), 0)
	requireCode(t, err, ErrNotAtomicSwap)
}

func TestRefundAtomicSwap(t *testing.T) {
	js, swap, _ := swapTransaction(t)

	out, err := RefundAtomicSwap(js, seed(2), 0)
	require.NoError(t, err)
	var txn transaction.V2Transaction
	require.NoError(t, json.Unmarshal(out, &txn))
	assert.Equal(t, swap.Refund, txn.SiacoinInputs[0].SatisfiedPolicy.Policy)
	assert.Empty(t, txn.SiacoinInputs[0].SatisfiedPolicy.Preimages)

	_, err = RefundAtomicSwap(js, seed(2), -1)
	requireCode(t, err, ErrIndexOutOfBounds)
	_, err = RefundAtomicSwap(js, nil, 0)
	requireCode(t, err, ErrInvalidSeed)
}

func TestParseEvent(t *testing.T) {
	ev, err := ParseEvent(readVector(t, "event_v2_transaction.json"))
	require.NoError(t, err)
	assert.Equal(t, transaction.EventTypeV2Transaction, ev.Type)
	txn, ok := ev.V2Transaction()
	require.True(t, ok)
	assert.Equal(t, ev.ID, types.Hash256(txn.ID()))

	ev, err = ParseEvent(readVector(t, "event_v2_contract_resolution_expiration.json"))
	require.NoError(t, err)
	assert.Equal(t, transaction.EventTypeV2ContractResolution, ev.Type)

	_, err = ParseEvent([]byte(`{"type":"v1ContractResolution","data":{}}`))
	requireCode(t, err, ErrUnsupported)
	_, err = ParseEvent([]byte(`{"type":"reorg","data":{}}`))
	ae := requireCode(t, err, ErrInvalidEvent)
	var de *transaction.DecodeError
	require.True(t, errors.As(ae, &de))
	assert.Equal(t, transaction.ErrUnknownEventType, de.Code)
}
