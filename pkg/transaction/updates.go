package transaction

import "github.com/suffix-labs/siakit/pkg/types"

// V2BlockData holds the v2 contents of a block.
type V2BlockData struct {
	Height       uint64          `json:"height"`
	Commitment   types.Hash256   `json:"commitment"`
	Transactions []V2Transaction `json:"transactions"`
}

// A Block is the subset of a block that consensus update consumers need.
type Block struct {
	V2 V2BlockData `json:"v2"`
}

// An Update lists the element ids a block spent.
type Update struct {
	Spent []types.Hash256 `json:"spent"`
}

// An ApplyUpdate is a consensus update that was applied to the best chain.
type ApplyUpdate struct {
	Update Update `json:"update"`
	Block  Block  `json:"block"`
}

// SpentIn returns the v2 transaction of the update's block that spent the
// siacoin output id, if any.
func (au ApplyUpdate) SpentIn(id SiacoinOutputID) (V2Transaction, bool) {
	var spent bool
	for _, h := range au.Update.Spent {
		if h == types.Hash256(id) {
			spent = true
			break
		}
	}
	if !spent {
		return V2Transaction{}, false
	}
	for _, txn := range au.Block.V2.Transactions {
		for _, in := range txn.SiacoinInputs {
			if in.Parent.ID == id {
				return txn, true
			}
		}
	}
	return V2Transaction{}, false
}

// FindSpent scans a sequence of updates in order and returns the first
// transaction that spent id, together with the height of its block.
func FindSpent(updates []ApplyUpdate, id SiacoinOutputID) (V2Transaction, uint64, bool) {
	for _, au := range updates {
		if txn, ok := au.SpentIn(id); ok {
			return txn, au.Block.V2.Height, true
		}
	}
	return V2Transaction{}, 0, false
}
