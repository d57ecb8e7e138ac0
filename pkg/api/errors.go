package api

import "fmt"

// Error codes for APIError.
const (
	ErrInvalidPublicKey   = "INVALID_PUBLIC_KEY"
	ErrInvalidPolicy      = "INVALID_POLICY"
	ErrInvalidHash        = "INVALID_HASH"
	ErrInvalidTransaction = "INVALID_TRANSACTION"
	ErrInvalidSeed        = "INVALID_SEED"
	ErrInvalidSignature   = "INVALID_SIGNATURE"
	ErrInvalidPreimage    = "INVALID_PREIMAGE"
	ErrInvalidEvent       = "INVALID_EVENT"
	ErrUnsupported        = "UNSUPPORTED"
	ErrIndexOutOfBounds   = "INDEX_OUT_OF_BOUNDS"
	ErrNotAtomicSwap      = "NOT_ATOMIC_SWAP"
)

// APIError is returned by every function in this package.
//
// Code classifies the failure; Cause holds the error reported by the
// core package that rejected the input, so callers can still reach typed
// errors such as *types.ParseError with errors.As.
type APIError struct {
	Code    string // Error code (e.g., ErrInvalidTransaction)
	Message string // Human-readable error message
	Cause   error  // Underlying error (if any)
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("api error [%s]: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("api error [%s]: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error { return e.Cause }

func apiError(code, message string, cause error) error {
	return &APIError{Code: code, Message: message, Cause: cause}
}
