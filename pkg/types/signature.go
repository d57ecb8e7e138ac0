package types

import (
	"encoding/hex"

	"github.com/suffix-labs/siakit/pkg/encoding"
)

// Signature is an ed25519 signature. The zero Signature is the placeholder
// written wherever a signature is omitted from a hash.
type Signature [64]byte

// checkRPoint returns a *SignatureError unless the first 32 bytes of sig
// decode to an ed25519 point.
func checkRPoint(sig []byte, input string) error {
	if !validPoint(sig[:32]) {
		return &SignatureError{Code: ErrCorruptRPoint, Message: "invalid signature " + input + ": corrupt R point"}
	}
	return nil
}

// ParseSignature parses a bare or "sig:" prefixed hex signature.
func ParseSignature(s string) (Signature, error) {
	var sig Signature
	err := sig.UnmarshalText([]byte(s))
	return sig, err
}

// ParseSignatureBytes converts a 64-byte slice to a Signature, applying the
// same R point check as ParseSignature.
func ParseSignatureBytes(b []byte) (Signature, error) {
	var sig Signature
	if len(b) != len(sig) {
		return sig, &ParseError{Type: "Signature", Code: ErrInvalidLength,
			Input: hex.EncodeToString(b), Message: "expected 64 bytes"}
	}
	if err := checkRPoint(b, hex.EncodeToString(b)); err != nil {
		return sig, err
	}
	copy(sig[:], b)
	return sig, nil
}

// String implements fmt.Stringer.
func (sig Signature) String() string { return "sig:" + hex.EncodeToString(sig[:]) }

// MarshalText implements encoding.TextMarshaler.
func (sig Signature) MarshalText() ([]byte, error) { return []byte(hex.EncodeToString(sig[:])), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (sig *Signature) UnmarshalText(b []byte) error {
	var s Signature
	if err := decodeHex("Signature", "sig:", string(b), s[:]); err != nil {
		return err
	}
	if err := checkRPoint(s[:], string(b)); err != nil {
		return err
	}
	*sig = s
	return nil
}

// EncodeTo implements encoding.EncoderTo.
func (sig Signature) EncodeTo(e *encoding.Encoder) { e.Write(sig[:]) }

// Verify returns a *SignatureError unless sig is a valid signature of h by
// pk.
func (sig Signature) Verify(h Hash256, pk PublicKey) error {
	if !pk.VerifyHash(h, sig) {
		return &SignatureError{Code: ErrInvalidSignature, Message: "signature does not verify under " + pk.String()}
	}
	return nil
}
