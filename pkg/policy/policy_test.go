package policy

import (
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/siakit/pkg/encoding"
	"github.com/suffix-labs/siakit/pkg/types"
)

const (
	pk0Hex  = "0102030000000000000000000000000000000000000000000000000000000000"
	pk1Hex  = "06C87838297B7BB16AB23946C99DFDF77FF834E35DB07D71E9B1D2B01A11E96D"
	pk2Hex  = "BE043906FD42297BC0A03CAA6E773EF27FC644261C692D090181E704BE4A88C3"
	sig0Hex = "105641BF4AE119CB15617FC9658BEE5D448E2CC27C9BC3369F4BA5D0E1C3D01EBCB21B669A7B7A17CF8457189EAA657C41D4A2E6F9E0F25D0996D3A17170F309"
	sig1Hex = "0734761D562958F6A82819474171F05A40163901513E5858BFF9E4BD9CAFB04DEF0D6D345BACE7D14E50C5C523433B411C7D7E1618BE010A63C55C34A2DEE70A"
	sig2Hex = "482A2A905D7A6FC730387E06B45EA0CF259FCB219C9A057E539E705F60AC36D7079E26DAFB66ED4DBA9B9694B50BCA64F1D4CC4EBE937CE08A34BF642FAC1F0C"
)

var swapLockTime = time.Unix(77777777, 0)

func pubKey(t *testing.T, s string) types.PublicKey {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	var pk types.PublicKey
	copy(pk[:], b)
	return pk
}

func signature(t *testing.T, s string) types.Signature {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	sig, err := types.ParseSignatureBytes(b)
	require.NoError(t, err)
	return sig
}

func hash(t *testing.T, s string) types.Hash256 {
	t.Helper()
	h, err := types.ParseHash256(s)
	require.NoError(t, err)
	return h
}

func secretPreimage() Preimage {
	var p Preimage
	copy(p[:], []byte{1, 2, 3, 4})
	return p
}

func secretHash(t *testing.T) types.Hash256 {
	return hash(t, "0100000000000000000000000000000000000000000000000000000000000000")
}

func TestSatisfiedPolicyEncoding(t *testing.T) {
	pk0, pk1, pk2 := pubKey(t, pk0Hex), pubKey(t, pk1Hex), pubKey(t, pk2Hex)
	sig0, sig1, sig2 := signature(t, sig0Hex), signature(t, sig1Hex), signature(t, sig2Hex)

	tests := []struct {
		name string
		sp   SatisfiedPolicy
		want string
	}{
		{
			name: "public key",
			sp:   SatisfiedPolicy{Policy: PolicyPublicKey(pk0), Signatures: []types.Signature{sig0}},
			want: "51832be911c7382502a2011cbddf1a9f689c4ca08c6a83ae3d021fb0dc781822",
		},
		{
			name: "hash with empty preimage",
			sp:   SatisfiedPolicy{Policy: PolicyHash(types.Hash256{}), Preimages: []Preimage{{}}},
			want: "1e612d1ee36338b93a36bac0c52007a2d678cde0bd9b95c36a1f61166cf02b87",
		},
		{
			name: "hash",
			sp:   SatisfiedPolicy{Policy: PolicyHash(types.Hash256{}), Preimages: []Preimage{secretPreimage()}},
			want: "80f3caa4507615945bc839c8505546decd91e9642120f26938b2fc370fa61992",
		},
		{
			// a signature the policy never consumes does not change the encoding
			name: "hash with unused signature",
			sp: SatisfiedPolicy{
				Policy:     PolicyHash(types.Hash256{}),
				Signatures: []types.Signature{sig0},
				Preimages:  []Preimage{secretPreimage()},
			},
			want: "80f3caa4507615945bc839c8505546decd91e9642120f26938b2fc370fa61992",
		},
		{
			name: "standard unlock conditions",
			sp: SatisfiedPolicy{
				Policy:     PolicyUnlockConditions(types.StandardUnlockConditions(pk0)),
				Signatures: []types.Signature{sig0},
			},
			want: "c749f9ac53395ec557aed7e21d202f76a58e0de79222e5756b27077e9295931f",
		},
		{
			name: "complex unlock conditions",
			sp: SatisfiedPolicy{
				Policy: PolicyUnlockConditions(types.UnlockConditions{
					Timelock:           77777777,
					PublicKeys:         []types.UnlockKey{pk0.UnlockKey(), pk1.UnlockKey(), pk2.UnlockKey()},
					SignaturesRequired: 3,
				}),
				Signatures: []types.Signature{sig0, sig1, sig2},
			},
			want: "13806b6c13a97478e476e0e5a0469c9d0ad8bf286bec0ada992e363e9fc60901",
		},
		{
			name: "threshold",
			sp: SatisfiedPolicy{
				Policy:    PolicyThreshold(1, []SpendPolicy{PolicyHash(types.Hash256{})}),
				Preimages: []Preimage{secretPreimage()},
			},
			want: "2200a1464864cfaea8d312c1f16b5e00b816110896bea32ef7e1ccd43042d312",
		},
		{
			name: "atomic swap success",
			sp: SatisfiedPolicy{
				Policy:     AtomicSwapSuccess(pk0, pk1, swapLockTime, secretHash(t)),
				Signatures: []types.Signature{sig0},
				Preimages:  []Preimage{secretPreimage()},
			},
			want: "08852e4ad99f726120028ecd82925b5f55fa441952cfc034a5cf4f09159b9372",
		},
		{
			name: "atomic swap refund",
			sp: SatisfiedPolicy{
				Policy:     AtomicSwapRefund(pk0, pk1, swapLockTime, secretHash(t)),
				Signatures: []types.Signature{sig0},
				Preimages:  []Preimage{secretPreimage()},
			},
			want: "8975e8cf990d5a20d9ec3dae18ed3b3a0c92edf967a8d93fcdef6a1eb73bb348",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, hash(t, tt.want), types.Hash256(encoding.Hash(tt.sp)))
		})
	}
}

func TestSatisfiedPolicyMissingWitness(t *testing.T) {
	p := PolicyPublicKey(pubKey(t, pk0Hex))
	withZero := SatisfiedPolicy{Policy: p, Signatures: []types.Signature{{}}}
	assert.Equal(t, encoding.Marshal(withZero), encoding.Marshal(SatisfiedPolicy{Policy: p}))
}

func TestPolicyEncoding(t *testing.T) {
	swap := AtomicSwap(pubKey(t, pk0Hex), pubKey(t, pk1Hex), swapLockTime, secretHash(t))
	want, err := hex.DecodeString("010501020502020301020300000000000000000000000000000000000000000000000000000000000401000000000000000000000000000000000000000000000000000000000000000502020306c87838297b7bb16ab23946c99dfdf77ff834e35db07d71e9b1d2b01a11e96d0271cba20400000000")
	require.NoError(t, err)
	assert.Equal(t, want, encoding.Marshal(swap))
}

func TestPolicyAddress(t *testing.T) {
	tests := []struct {
		name   string
		policy SpendPolicy
		want   string
	}{
		{"public key", PolicyPublicKey(pubKey(t, pk0Hex)), "55a7793237722c6df8222fd512063cb74228085ef1805c5184713648c159b919"},
		{"anyone can spend", AnyoneCanSpend(), "6cd7874e10f49db2fb58fff6d5856491a550e44b380583aa37aee3d2551b0c96"},
		{"above", PolicyAbove(100), "c2fba9b9607c800e80d9284ed0fb9a55737ba1bbd67311d0d9242dd6376bed0c"},
		{"hash", PolicyHash(types.Hash256{}), "fd22008bbe58e3f1b13241e501b478e45052a61602ca3d3b187be718f8f846f2"},
		{"threshold", PolicyThreshold(1, []SpendPolicy{PolicyHash(types.Hash256{})}), "3d04e709afc3590366030eebbb5369e3d6a2c90d51f26f14cdcfac7e592a49c5"},
		{"unlock conditions", PolicyUnlockConditions(types.StandardUnlockConditions(pubKey(t, pk0Hex))), "72b0762b382d4c251af5ae25b6777d908726d75962e5224f98d7f619bb39515d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, types.Address(hash(t, tt.want)), tt.policy.Address())
		})
	}
}

func TestOpacify(t *testing.T) {
	p := PolicyThreshold(1, []SpendPolicy{PolicyHash(types.Hash256{}), PolicyAbove(10)})
	opaque := p.Opacify()
	assert.Equal(t, SpendPolicy{PolicyTypeOpaque(p.Address())}, opaque)

	// hiding a child of a threshold never changes the threshold's address
	redacted := PolicyThreshold(1, []SpendPolicy{PolicyHash(types.Hash256{}).Opacify(), PolicyAbove(10)})
	assert.Equal(t, p.Address(), redacted.Address())

	// PolicyOpaque is idempotent
	assert.Equal(t, opaque, PolicyOpaque(opaque))
}

func TestAtomicSwapAddressSymmetry(t *testing.T) {
	want := types.Address(hash(t, "a96553e7fa6202a8f0e5df31693d37efd3dd24fc680f3a385d476ec40081e630"))
	alice, bob := pubKey(t, pk0Hex), pubKey(t, pk1Hex)
	assert.Equal(t, want, AtomicSwap(alice, bob, swapLockTime, secretHash(t)).Address())
	assert.Equal(t, want, AtomicSwapSuccess(alice, bob, swapLockTime, secretHash(t)).Address())
	assert.Equal(t, want, AtomicSwapRefund(alice, bob, swapLockTime, secretHash(t)).Address())

	for i := 0; i < 8; i++ {
		a := types.GeneratePrivateKey().PublicKey()
		b := types.GeneratePrivateKey().PublicKey()
		lock := time.Unix(int64(1700000000+i), 0)
		h := types.HashBytes([]byte{byte(i)})

		full := AtomicSwap(a, b, lock, h).Address()
		assert.Equal(t, full, AtomicSwapSuccess(a, b, lock, h).Address())
		assert.Equal(t, full, AtomicSwapRefund(a, b, lock, h).Address())
	}
}

func TestAtomicSwapPredicates(t *testing.T) {
	alice, bob := pubKey(t, pk0Hex), pubKey(t, pk1Hex)
	h := secretHash(t)
	swap := AtomicSwap(alice, bob, swapLockTime, h)
	success := AtomicSwapSuccess(alice, bob, swapLockTime, h)
	refund := AtomicSwapRefund(alice, bob, swapLockTime, h)

	assert.True(t, IsAtomicSwap(swap))
	assert.False(t, IsAtomicSwap(success))
	assert.False(t, IsAtomicSwap(refund))

	assert.True(t, IsAtomicSwapSuccess(success))
	assert.False(t, IsAtomicSwapSuccess(refund))
	assert.True(t, IsAtomicSwapRefund(refund))
	assert.False(t, IsAtomicSwapRefund(success))

	assert.True(t, IsHashLockPath(hashLockPath(alice, h)))
	assert.True(t, IsTimeLockPath(timeLockPath(bob, swapLockTime)))
	assert.False(t, IsHashLockPath(timeLockPath(bob, swapLockTime)))
}

func TestAtomicSwapValidationErrors(t *testing.T) {
	alice, bob := pubKey(t, pk0Hex), pubKey(t, pk1Hex)
	h := secretHash(t)
	hashLock := hashLockPath(alice, h)
	timeLock := timeLockPath(bob, swapLockTime)

	tests := []struct {
		name   string
		policy SpendPolicy
		code   string
		check  func(t *testing.T, e *AtomicSwapError)
	}{
		{"not a threshold", PolicyHash(h), ErrNotThreshold, nil},
		{"wrong n", PolicyThreshold(2, []SpendPolicy{hashLock, timeLock}), ErrWrongN,
			func(t *testing.T, e *AtomicSwapError) { assert.Equal(t, uint8(2), e.N) }},
		{"too many paths", PolicyThreshold(1, []SpendPolicy{hashLock, timeLock, timeLock}), ErrWrongM,
			func(t *testing.T, e *AtomicSwapError) { assert.Equal(t, 3, e.M) }},
		{"missing time lock path", PolicyThreshold(1, []SpendPolicy{hashLock}), ErrWrongM,
			func(t *testing.T, e *AtomicSwapError) { assert.Equal(t, 1, e.M) }},
		{"no paths", PolicyThreshold(1, nil), ErrWrongM,
			func(t *testing.T, e *AtomicSwapError) { assert.Equal(t, 0, e.M) }},
		{"paths swapped", PolicyThreshold(1, []SpendPolicy{timeLock, hashLock}), ErrInvalidHashLock,
			func(t *testing.T, e *AtomicSwapError) {
				var inner *AtomicSwapError
				require.True(t, errors.As(e.Cause, &inner))
				assert.Equal(t, ErrWrongStructure, inner.Code)
			}},
		{"hash lock wrong order", PolicyThreshold(1, []SpendPolicy{
			PolicyThreshold(2, []SpendPolicy{PolicyHash(h), PolicyPublicKey(alice)}), timeLock}), ErrInvalidHashLock, nil},
		{"time lock not a threshold", PolicyThreshold(1, []SpendPolicy{hashLock, PolicyAbove(1)}), ErrInvalidTimeLock,
			func(t *testing.T, e *AtomicSwapError) {
				var inner *AtomicSwapError
				require.True(t, errors.As(e.Cause, &inner))
				assert.Equal(t, ErrNotThreshold, inner.Code)
			}},
		{"hash lock wrong n", PolicyThreshold(1, []SpendPolicy{
			PolicyThreshold(10, []SpendPolicy{PolicyPublicKey(alice), PolicyHash(h)}), timeLock}), ErrInvalidHashLock,
			func(t *testing.T, e *AtomicSwapError) {
				var inner *AtomicSwapError
				require.True(t, errors.As(e.Cause, &inner))
				assert.Equal(t, ErrWrongN, inner.Code)
				assert.Equal(t, uint8(10), inner.N)
			}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAtomicSwap(tt.policy)
			var e *AtomicSwapError
			require.True(t, errors.As(err, &e), "unexpected error %v", err)
			assert.Equal(t, tt.code, e.Code)
			if tt.check != nil {
				tt.check(t, e)
			}
		})
	}
}

func TestPolicyJSON(t *testing.T) {
	tests := []struct {
		name   string
		policy SpendPolicy
		js     string
	}{
		{"above", PolicyAbove(100), `{"type":"above","policy":100}`},
		{"after", PolicyAfter(time.Unix(1700000000, 0)), `{"type":"after","policy":1700000000}`},
		{"pk", PolicyPublicKey(pubKey(t, pk0Hex)), `{"type":"pk","policy":"ed25519:` + pk0Hex + `"}`},
		{"h", PolicyHash(types.Hash256{}), `{"type":"h","policy":"0000000000000000000000000000000000000000000000000000000000000000"}`},
		{"thresh", PolicyThreshold(1, []SpendPolicy{PolicyAbove(1)}), `{"type":"thresh","policy":{"n":1,"of":[{"type":"above","policy":1}]}}`},
		{"anyone can spend", AnyoneCanSpend(), `{"type":"thresh","policy":{"n":0,"of":[]}}`},
		{"opaque", SpendPolicy{PolicyTypeOpaque(types.VoidAddress)}, `{"type":"opaque","policy":"000000000000000000000000000000000000000000000000000000000000000089eb0d6a8a69"}`},
		{"uc", PolicyUnlockConditions(types.StandardUnlockConditions(pubKey(t, pk0Hex))),
			`{"type":"uc","policy":{"timelock":0,"publicKeys":["ed25519:` + pk0Hex + `"],"signaturesRequired":1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := json.Marshal(tt.policy)
			require.NoError(t, err)
			assert.JSONEq(t, tt.js, string(out))

			decoded, err := ParsePolicyJSON([]byte(tt.js))
			require.NoError(t, err)
			assert.Equal(t, tt.policy.Address(), decoded.Address())
		})
	}
}

func TestPolicyJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		js   string
		code string
	}{
		{"unknown type", `{"type":"sha3","policy":"00"}`, ErrUnknownPolicyType},
		{"missing payload", `{"type":"above"}`, ErrInvalidPolicyJSON},
		{"bad payload", `{"type":"pk","policy":"0102"}`, ErrInvalidPolicyJSON},
		{"not an object", `[1,2]`, ErrInvalidPolicyJSON},
		{"too many policies", wideThreshold(256), ErrTooManyPolicies},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePolicyJSON([]byte(tt.js))
			var pe *PolicyError
			require.True(t, errors.As(err, &pe), "unexpected error %v", err)
			assert.Equal(t, tt.code, pe.Code)
		})
	}
}

// wideThreshold returns a 1-of-n threshold of height policies.
func wideThreshold(n int) string {
	of := make([]string, n)
	for i := range of {
		of[i] = `{"type":"above","policy":1}`
	}
	return `{"type":"thresh","policy":{"n":1,"of":[` + strings.Join(of, ",") + `]}}`
}

func TestThresholdPolicyLimit(t *testing.T) {
	p, err := ParsePolicyJSON([]byte(wideThreshold(255)))
	require.NoError(t, err)
	b := encoding.Marshal(p)
	assert.Equal(t, byte(255), b[3], "child count byte")

	_, err = ParsePolicyJSON([]byte(wideThreshold(256)))
	var pe *PolicyError
	require.True(t, errors.As(err, &pe), "unexpected error %v", err)
	assert.Equal(t, ErrTooManyPolicies, pe.Code)
	assert.Contains(t, pe.Error(), "256")
}

func TestSpendPolicyDeepCopy(t *testing.T) {
	orig := PolicyThreshold(1, []SpendPolicy{
		PolicyUnlockConditions(types.StandardUnlockConditions(pubKey(t, pk0Hex))),
		PolicyAbove(10),
	})
	addr := orig.Address()

	c := orig.DeepCopy()
	require.Equal(t, orig, c)
	thresh := c.Type.(PolicyTypeThreshold)
	thresh.Of[0].Type.(PolicyTypeUnlockConditions).PublicKeys[0].Key[0] ^= 0xFF
	thresh.Of[1] = AnyoneCanSpend()

	assert.Equal(t, addr, orig.Address())
	assert.NotEqual(t, addr, c.Address())
	assert.Equal(t, AnyoneCanSpend(), AnyoneCanSpend().DeepCopy())
}

func TestSatisfiedPolicyJSON(t *testing.T) {
	const js = `{"policy":{"type":"uc","policy":{"timelock":0,"publicKeys":["ed25519:cecc1507dc1ddd7295951c290888f095adb9044d1b73d696e6df065d683bd4fc"],"signaturesRequired":1}},"signatures":["f0a29ba576eb0dbc3438877ac1d3a6da4f3c4cbafd9030709c8a83c2fffa64f4dd080d37444261f023af3bd7a10a9597c33616267d5371bf2c0ade5e25e61903"]}`

	var sp SatisfiedPolicy
	require.NoError(t, json.Unmarshal([]byte(js), &sp))
	require.Len(t, sp.Signatures, 1)
	assert.Empty(t, sp.Preimages)

	out, err := json.Marshal(sp)
	require.NoError(t, err)
	assert.JSONEq(t, js, string(out))

	withPreimage := SatisfiedPolicy{Policy: PolicyHash(types.Hash256{}), Preimages: []Preimage{secretPreimage()}}
	out, err = json.Marshal(withPreimage)
	require.NoError(t, err)
	assert.JSONEq(t, `{"policy":{"type":"h","policy":"0000000000000000000000000000000000000000000000000000000000000000"},"preimages":["0102030400000000000000000000000000000000000000000000000000000000"]}`, string(out))

	err = json.Unmarshal([]byte(`{"policy":{"type":"above","policy":1},"extra":true}`), &sp)
	assert.Error(t, err)
}

func TestPolicyString(t *testing.T) {
	p := PolicyThreshold(1, []SpendPolicy{PolicyAbove(5), PolicyAfter(time.Unix(6, 0))})
	assert.Equal(t, "thresh(1,[above(5),after(6)])", p.String())
}
