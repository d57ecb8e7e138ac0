package merkle

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hexHash(t *testing.T, s string) [32]byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	require.Len(t, b, 32)
	var h [32]byte
	copy(h[:], b)
	return h
}

var ed25519Spec = [16]byte{'e', 'd', '2', '5', '5', '1', '9'}

func TestAccumulatorEmpty(t *testing.T) {
	var acc Accumulator
	assert.Equal(t, [32]byte{}, acc.Root())
	assert.Zero(t, acc.NumLeaves())
}

func TestAccumulatorRoots(t *testing.T) {
	a, b, c := LeafHash([]byte("a")), LeafHash([]byte("b")), LeafHash([]byte("c"))

	t.Run("single leaf is its own root", func(t *testing.T) {
		var acc Accumulator
		acc.AddLeaf(a)
		assert.Equal(t, a, acc.Root())
		assert.Equal(t, hexHash(t, "7234082e1dd0b5ec0acd71875d61c9f374af30c100bc4de7aa4eb3f15bbed686"), acc.Root())
	})

	t.Run("three leaves", func(t *testing.T) {
		var acc Accumulator
		acc.AddLeaf(a)
		acc.AddLeaf(b)
		acc.AddLeaf(c)
		assert.Equal(t, NodeHash(NodeHash(a, b), c), acc.Root())
		assert.Equal(t, hexHash(t, "17321db51c1ef3ec1f77e271aa300b4e5c6091708bcba37e46025774a26142ee"), acc.Root())
		assert.Equal(t, uint64(3), acc.NumLeaves())
	})

	t.Run("five leaves", func(t *testing.T) {
		var acc Accumulator
		for i := 0; i < 5; i++ {
			acc.AddLeaf(LeafHash([]byte{byte(i)}))
		}
		assert.Equal(t, hexHash(t, "d189ac817a2f095408bea113eb0c5b6ba55cbafea7cd71378de9152f3b5d3246"), acc.Root())
	})
}

func TestLeafConstants(t *testing.T) {
	assert.Equal(t, StandardTimelockLeaf, TimelockLeaf(0))
	assert.Equal(t, StandardSigsRequiredLeaf, SigsRequiredLeaf(1))
	assert.Equal(t, hexHash(t, "5187b7a8021bf4f2c004ea3a54cfece1754f11c7624d2363c7f4cf4fddd1441e"), TimelockLeaf(0))
}

func TestPublicKeyLeaf(t *testing.T) {
	pk := hexHash(t, "0102030000000000000000000000000000000000000000000000000000000000")
	assert.Equal(t,
		hexHash(t, "21ce940603a2ee3a283685f6bfb4b122254894fd1ed3eb59434aadbf00c75d5b"),
		PublicKeyLeaf(ed25519Spec, pk[:]))
}

func TestStandardUnlockHash(t *testing.T) {
	pk := hexHash(t, "0102030000000000000000000000000000000000000000000000000000000000")
	want := hexHash(t, "72b0762b382d4c251af5ae25b6777d908726d75962e5224f98d7f619bb39515d")
	assert.Equal(t, want, StandardUnlockHash(ed25519Spec, pk))

	var acc Accumulator
	acc.AddLeaf(TimelockLeaf(0))
	acc.AddLeaf(PublicKeyLeaf(ed25519Spec, pk[:]))
	acc.AddLeaf(SigsRequiredLeaf(1))
	assert.Equal(t, want, acc.Root())
}
