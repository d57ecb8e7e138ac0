package builder

import (
	"fmt"

	"github.com/suffix-labs/siakit/pkg/types"
)

// IndexOutOfBoundsError is returned when a builder operation names an input
// that does not exist.
type IndexOutOfBoundsError struct {
	Op    string // Operation that failed (e.g., "satisfy atomic swap success")
	Index int    // Index that was requested
	Len   int    // Number of siacoin inputs at the time of the call
}

func (e *IndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("%s: input index %d out of bounds (have %d inputs)", e.Op, e.Index, e.Len)
}

// FeeOverflowError is returned when a per-byte fee rate times the
// transaction weight exceeds the largest Currency.
type FeeOverflowError struct {
	Rate   types.Currency
	Weight uint64
}

func (e *FeeOverflowError) Error() string {
	return fmt.Sprintf("fee overflow: rate %v H/byte times weight %d", e.Rate, e.Weight)
}
