package transaction

import "fmt"

// Error codes for DecodeError.
const (
	ErrUnknownResolutionType = "UNKNOWN_RESOLUTION_TYPE" // "type" is not a known resolution kind
	ErrInvalidExpiration     = "INVALID_EXPIRATION"      // Expiration payload is not an empty object
	ErrInvalidResolution     = "INVALID_RESOLUTION"      // Resolution payload does not match its type
	ErrUnknownEventType      = "UNKNOWN_EVENT_TYPE"      // "type" is not a known event kind
	ErrInvalidEventData      = "INVALID_EVENT_DATA"      // Event data does not match its type
)

// DecodeError is returned when a tagged JSON value cannot be decoded.
//
// Resolutions and events carry a "type" field that selects the shape of
// their payload. A payload that does not match its tag is rejected.
type DecodeError struct {
	Code    string // Error code (e.g., ErrInvalidExpiration)
	Type    string // Value of the "type" field
	Message string // Human-readable error message
	Cause   error  // Underlying JSON error (if any)
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("decode error [%s] (%s): %s: %v", e.Code, e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("decode error [%s] (%s): %s", e.Code, e.Type, e.Message)
}

func (e *DecodeError) Unwrap() error { return e.Cause }
