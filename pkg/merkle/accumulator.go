// Package merkle implements the append-only Merkle accumulator used to derive
// Sia unlock hashes.
//
// Leaves and interior nodes are domain separated:
//
//	leaf = blake2b-256(0x00 || data)
//	node = blake2b-256(0x01 || left || right)
//
// The accumulator keeps at most one perfect subtree per power of two, so it
// never stores more than 64 hashes regardless of how many leaves are added.
package merkle

import (
	"math/bits"

	"github.com/suffix-labs/siakit/pkg/encoding"
)

const (
	leafPrefix = 0x00
	nodePrefix = 0x01
)

// LeafHash returns the hash of a Merkle leaf holding data.
func LeafHash(data []byte) [32]byte {
	buf := make([]byte, 0, 1+len(data))
	buf = append(buf, leafPrefix)
	buf = append(buf, data...)
	return encoding.Sum256(buf)
}

// NodeHash returns the hash of an interior node with the given children.
func NodeHash(left, right [32]byte) [32]byte {
	var buf [65]byte
	buf[0] = nodePrefix
	copy(buf[1:33], left[:])
	copy(buf[33:], right[:])
	return encoding.Sum256(buf[:])
}

// Accumulator builds a Merkle root incrementally. The zero value is an empty
// accumulator ready for use.
type Accumulator struct {
	trees     [64][32]byte
	numLeaves uint64
}

// hasTree reports whether a perfect subtree of height i is currently held.
func (a *Accumulator) hasTree(i int) bool {
	return a.numLeaves&(1<<uint(i)) != 0
}

// AddLeaf appends an already hashed leaf.
func (a *Accumulator) AddLeaf(h [32]byte) {
	i := 0
	for ; a.hasTree(i); i++ {
		h = NodeHash(a.trees[i], h)
	}
	a.trees[i] = h
	a.numLeaves++
}

// NumLeaves returns how many leaves have been added.
func (a *Accumulator) NumLeaves() uint64 {
	return a.numLeaves
}

// Root returns the Merkle root of every leaf added so far. An empty
// accumulator has the zero root.
func (a *Accumulator) Root() [32]byte {
	if a.numLeaves == 0 {
		return [32]byte{}
	}

	// start from the smallest subtree and fold the larger ones in on the left
	i := bits.TrailingZeros64(a.numLeaves)
	root := a.trees[i]
	for j := i + 1; j < 64; j++ {
		if a.hasTree(j) {
			root = NodeHash(a.trees[j], root)
		}
	}
	return root
}
