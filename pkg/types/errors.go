// Package types error types.
//
// Parsing never panics. Every failure is returned as one of the structured
// errors below so callers can branch on Code with errors.As.
package types

import "fmt"

// Error codes shared by the parse and validation errors in this package.
const (
	ErrInvalidHex       = "INVALID_HEX"
	ErrInvalidLength    = "INVALID_LENGTH"
	ErrMissingPrefix    = "MISSING_PREFIX"
	ErrInvalidCurrency  = "INVALID_CURRENCY"
	ErrCurrencyOverflow = "CURRENCY_OVERFLOW"
	ErrInvalidSpecifier = "INVALID_SPECIFIER"
	ErrCorruptRPoint    = "CORRUPT_R_POINT"
	ErrCorruptPoint     = "CORRUPT_POINT"
	ErrInvalidSignature = "INVALID_SIGNATURE"
	ErrChecksumMismatch = "CHECKSUM_MISMATCH"
	ErrUnsupported      = "UNSUPPORTED"
)

// ParseError is returned when a textual value cannot be decoded.
type ParseError struct {
	Type    string // Name of the type being parsed (e.g., "Hash256")
	Code    string // Error code (e.g., ErrInvalidHex)
	Input   string // The offending input
	Message string // Human-readable error message
	Cause   error  // Underlying error (if any)
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse %s [%s]: %s %q: %v", e.Type, e.Code, e.Message, e.Input, e.Cause)
	}
	return fmt.Sprintf("parse %s [%s]: %s %q", e.Type, e.Code, e.Message, e.Input)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// SignatureError is returned when a signature fails cryptographic
// validation, either at parse time (corrupt R point) or during Verify.
type SignatureError struct {
	Code    string // ErrCorruptRPoint or ErrInvalidSignature
	Message string
	Cause   error
}

func (e *SignatureError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("signature error [%s]: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("signature error [%s]: %s", e.Code, e.Message)
}

func (e *SignatureError) Unwrap() error { return e.Cause }

// AddressError is returned when an address string is malformed or its
// checksum does not match.
type AddressError struct {
	Code     string // ErrInvalidHex, ErrInvalidLength or ErrChecksumMismatch
	Input    string
	Expected string // Expected checksum, hex encoded (checksum errors only)
	Found    string // Checksum found in the input, hex encoded
	Cause    error
}

func (e *AddressError) Error() string {
	if e.Code == ErrChecksumMismatch {
		return fmt.Sprintf("address error [%s]: expected checksum %s, found %s", e.Code, e.Expected, e.Found)
	}
	if e.Cause != nil {
		return fmt.Sprintf("address error [%s]: %q: %v", e.Code, e.Input, e.Cause)
	}
	return fmt.Sprintf("address error [%s]: %q", e.Code, e.Input)
}

func (e *AddressError) Unwrap() error { return e.Cause }

// UnlockKeyParseError is returned when a "<specifier>:<hex>" unlock key
// cannot be parsed.
type UnlockKeyParseError struct {
	Input   string
	Message string
	Cause   error
}

func (e *UnlockKeyParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("unlock key %q: %s: %v", e.Input, e.Message, e.Cause)
	}
	return fmt.Sprintf("unlock key %q: %s", e.Input, e.Message)
}

func (e *UnlockKeyParseError) Unwrap() error { return e.Cause }

// UnsupportedError is returned for inputs that are well formed but that
// this library deliberately does not handle.
type UnsupportedError struct {
	Feature string
	Message string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported [%s]: %s", e.Feature, e.Message)
}
