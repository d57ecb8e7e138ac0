package merkle

import (
	"encoding/binary"
)

// Leaves of the standard single-key unlock conditions (timelock 0, one
// required signature). They never change, so they are not recomputed.
var (
	StandardTimelockLeaf = [32]byte{
		0x51, 0x87, 0xb7, 0xa8, 0x02, 0x1b, 0xf4, 0xf2,
		0xc0, 0x04, 0xea, 0x3a, 0x54, 0xcf, 0xec, 0xe1,
		0x75, 0x4f, 0x11, 0xc7, 0x62, 0x4d, 0x23, 0x63,
		0xc7, 0xf4, 0xcf, 0x4f, 0xdd, 0xd1, 0x44, 0x1e,
	}
	StandardSigsRequiredLeaf = [32]byte{
		0xb3, 0x60, 0x10, 0xeb, 0x28, 0x5c, 0x15, 0x4a,
		0x8c, 0xd6, 0x30, 0x84, 0xac, 0xbe, 0x7e, 0xac,
		0x0c, 0x4d, 0x62, 0x5a, 0xb4, 0xe1, 0xa7, 0x6e,
		0x62, 0x4a, 0x87, 0x98, 0xcb, 0x63, 0x49, 0x7b,
	}
)

func uint64Leaf(u uint64) [32]byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], u)
	return LeafHash(b[:])
}

// TimelockLeaf returns the leaf committing to an unlock timelock.
func TimelockLeaf(timelock uint64) [32]byte {
	return uint64Leaf(timelock)
}

// SigsRequiredLeaf returns the leaf committing to the number of required
// signatures.
func SigsRequiredLeaf(n uint64) [32]byte {
	return uint64Leaf(n)
}

// PublicKeyLeaf returns the leaf committing to an unlock key: the 16-byte
// algorithm specifier, the key length and the key bytes.
func PublicKeyLeaf(algorithm [16]byte, key []byte) [32]byte {
	buf := make([]byte, 0, 16+8+len(key))
	buf = append(buf, algorithm[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(key)))
	buf = append(buf, key...)
	return LeafHash(buf)
}

// StandardUnlockHash returns the unlock hash of the standard unlock
// conditions for a single ed25519 key. It equals the accumulator root over
// [TimelockLeaf(0), PublicKeyLeaf(ed25519, pk), SigsRequiredLeaf(1)].
func StandardUnlockHash(algorithm [16]byte, pk [32]byte) [32]byte {
	pkLeaf := PublicKeyLeaf(algorithm, pk[:])
	return NodeHash(NodeHash(StandardTimelockLeaf, pkLeaf), StandardSigsRequiredLeaf)
}
