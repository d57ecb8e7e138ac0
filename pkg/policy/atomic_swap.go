package policy

import (
	"fmt"
	"time"

	"github.com/suffix-labs/siakit/pkg/types"
)

// An atomic swap locks funds behind
//
//	thresh(1, [
//	    thresh(2, [pk(alice), h(secretHash)]),   hash lock path
//	    thresh(2, [pk(bob), after(lockTime)]),   time lock path
//	])
//
// Alice claims with her signature and the secret. Bob reclaims with his
// signature once lockTime has passed. Whoever spends reveals only their own
// path; the other is replaced by its opaque commitment, which leaves the
// address unchanged.

// Error codes for AtomicSwapError.
const (
	ErrNotThreshold    = "NOT_THRESHOLD"
	ErrWrongN          = "WRONG_N"
	ErrWrongM          = "WRONG_M"
	ErrWrongStructure  = "WRONG_STRUCTURE"
	ErrInvalidHashLock = "INVALID_HASH_LOCK_PATH"
	ErrInvalidTimeLock = "INVALID_TIME_LOCK_PATH"
)

// AtomicSwapError describes why a policy does not have the expected atomic
// swap shape.
type AtomicSwapError struct {
	Code   string      // Error code (e.g., ErrWrongN)
	Path   string      // "swap", "hash lock" or "time lock"
	N      uint8       // Threshold n found (ErrWrongN)
	M      int         // Number of sub-policies found (ErrWrongM)
	Policy SpendPolicy // The offending policy
	Cause  error       // Component error for ErrInvalidHashLock and ErrInvalidTimeLock
}

func (e *AtomicSwapError) Error() string {
	switch e.Code {
	case ErrWrongN:
		return fmt.Sprintf("invalid %s [%s]: n = %d, policy %v", e.Path, e.Code, e.N, e.Policy)
	case ErrWrongM:
		return fmt.Sprintf("invalid %s [%s]: %d sub-policies, policy %v", e.Path, e.Code, e.M, e.Policy)
	}
	if e.Cause != nil {
		return fmt.Sprintf("invalid %s [%s]: %v", e.Path, e.Code, e.Cause)
	}
	return fmt.Sprintf("invalid %s [%s]: policy %v", e.Path, e.Code, e.Policy)
}

func (e *AtomicSwapError) Unwrap() error { return e.Cause }

// AtomicSwap returns the full, unredacted atomic swap policy.
func AtomicSwap(alice, bob types.PublicKey, lockTime time.Time, secretHash types.Hash256) SpendPolicy {
	return PolicyThreshold(1, []SpendPolicy{
		hashLockPath(alice, secretHash),
		timeLockPath(bob, lockTime),
	})
}

// AtomicSwapSuccess returns the swap policy with the time lock path
// redacted, as revealed by the participant claiming with the secret.
func AtomicSwapSuccess(alice, bob types.PublicKey, lockTime time.Time, secretHash types.Hash256) SpendPolicy {
	return PolicyThreshold(1, []SpendPolicy{
		hashLockPath(alice, secretHash),
		timeLockPath(bob, lockTime).Opacify(),
	})
}

// AtomicSwapRefund returns the swap policy with the hash lock path
// redacted, as revealed by the participant reclaiming after the lock time.
func AtomicSwapRefund(alice, bob types.PublicKey, lockTime time.Time, secretHash types.Hash256) SpendPolicy {
	return PolicyThreshold(1, []SpendPolicy{
		hashLockPath(alice, secretHash).Opacify(),
		timeLockPath(bob, lockTime),
	})
}

func hashLockPath(pk types.PublicKey, h types.Hash256) SpendPolicy {
	return PolicyThreshold(2, []SpendPolicy{PolicyPublicKey(pk), PolicyHash(h)})
}

func timeLockPath(pk types.PublicKey, lockTime time.Time) SpendPolicy {
	return PolicyThreshold(2, []SpendPolicy{PolicyPublicKey(pk), PolicyAfter(lockTime)})
}

// checkPair verifies that p is a 2-of-2 threshold and returns its children.
func checkPair(p SpendPolicy, path string) ([]SpendPolicy, error) {
	t, ok := p.Type.(PolicyTypeThreshold)
	switch {
	case !ok:
		return nil, &AtomicSwapError{Code: ErrNotThreshold, Path: path, Policy: p}
	case t.N != 2:
		return nil, &AtomicSwapError{Code: ErrWrongN, Path: path, N: t.N, Policy: p}
	case len(t.Of) != 2:
		return nil, &AtomicSwapError{Code: ErrWrongM, Path: path, M: len(t.Of), Policy: p}
	}
	return t.Of, nil
}

// ValidateHashLockPath checks that p is thresh(2, [pk(_), h(_)]).
func ValidateHashLockPath(p SpendPolicy) error {
	of, err := checkPair(p, "hash lock")
	if err != nil {
		return err
	}
	_, isPK := of[0].Type.(PolicyTypePublicKey)
	_, isHash := of[1].Type.(PolicyTypeHash)
	if !isPK || !isHash {
		return &AtomicSwapError{Code: ErrWrongStructure, Path: "hash lock", Policy: p}
	}
	return nil
}

// ValidateTimeLockPath checks that p is thresh(2, [pk(_), after(_)]).
func ValidateTimeLockPath(p SpendPolicy) error {
	of, err := checkPair(p, "time lock")
	if err != nil {
		return err
	}
	_, isPK := of[0].Type.(PolicyTypePublicKey)
	_, isAfter := of[1].Type.(PolicyTypeAfter)
	if !isPK || !isAfter {
		return &AtomicSwapError{Code: ErrWrongStructure, Path: "time lock", Policy: p}
	}
	return nil
}

// swapPaths checks the 1-of-2 outer shape and returns both branches.
func swapPaths(p SpendPolicy) (hashLock, timeLock SpendPolicy, err error) {
	t, ok := p.Type.(PolicyTypeThreshold)
	switch {
	case !ok:
		return hashLock, timeLock, &AtomicSwapError{Code: ErrNotThreshold, Path: "swap", Policy: p}
	case t.N != 1:
		return hashLock, timeLock, &AtomicSwapError{Code: ErrWrongN, Path: "swap", N: t.N, Policy: p}
	case len(t.Of) != 2:
		return hashLock, timeLock, &AtomicSwapError{Code: ErrWrongM, Path: "swap", M: len(t.Of), Policy: p}
	}
	return t.Of[0], t.Of[1], nil
}

func isOpaque(p SpendPolicy) bool {
	_, ok := p.Type.(PolicyTypeOpaque)
	return ok
}

// ValidateAtomicSwap checks that p is a full, unredacted atomic swap.
func ValidateAtomicSwap(p SpendPolicy) error {
	hashLock, timeLock, err := swapPaths(p)
	if err != nil {
		return err
	}
	if err := ValidateHashLockPath(hashLock); err != nil {
		return &AtomicSwapError{Code: ErrInvalidHashLock, Path: "swap", Policy: p, Cause: err}
	}
	if err := ValidateTimeLockPath(timeLock); err != nil {
		return &AtomicSwapError{Code: ErrInvalidTimeLock, Path: "swap", Policy: p, Cause: err}
	}
	return nil
}

// ValidateAtomicSwapSuccess checks that p is an atomic swap with its time
// lock path redacted.
func ValidateAtomicSwapSuccess(p SpendPolicy) error {
	hashLock, timeLock, err := swapPaths(p)
	if err != nil {
		return err
	}
	if err := ValidateHashLockPath(hashLock); err != nil {
		return &AtomicSwapError{Code: ErrInvalidHashLock, Path: "swap", Policy: p, Cause: err}
	}
	if !isOpaque(timeLock) {
		return &AtomicSwapError{Code: ErrWrongStructure, Path: "swap", Policy: p}
	}
	return nil
}

// ValidateAtomicSwapRefund checks that p is an atomic swap with its hash
// lock path redacted.
func ValidateAtomicSwapRefund(p SpendPolicy) error {
	hashLock, timeLock, err := swapPaths(p)
	if err != nil {
		return err
	}
	if !isOpaque(hashLock) {
		return &AtomicSwapError{Code: ErrWrongStructure, Path: "swap", Policy: p}
	}
	if err := ValidateTimeLockPath(timeLock); err != nil {
		return &AtomicSwapError{Code: ErrInvalidTimeLock, Path: "swap", Policy: p, Cause: err}
	}
	return nil
}

// IsHashLockPath reports whether p is thresh(2, [pk(_), h(_)]).
func IsHashLockPath(p SpendPolicy) bool { return ValidateHashLockPath(p) == nil }

// IsTimeLockPath reports whether p is thresh(2, [pk(_), after(_)]).
func IsTimeLockPath(p SpendPolicy) bool { return ValidateTimeLockPath(p) == nil }

// IsAtomicSwap reports whether p is a full atomic swap.
func IsAtomicSwap(p SpendPolicy) bool { return ValidateAtomicSwap(p) == nil }

// IsAtomicSwapSuccess reports whether p is the success redaction of an
// atomic swap.
func IsAtomicSwapSuccess(p SpendPolicy) bool { return ValidateAtomicSwapSuccess(p) == nil }

// IsAtomicSwapRefund reports whether p is the refund redaction of an atomic
// swap.
func IsAtomicSwapRefund(p SpendPolicy) bool { return ValidateAtomicSwapRefund(p) == nil }
