package types

import (
	"math/big"
	"math/bits"

	"github.com/suffix-labs/siakit/pkg/encoding"
)

// Currency is an unsigned 128-bit amount of hastings.
type Currency struct {
	Lo, Hi uint64
}

var (
	// ZeroCurrency is zero hastings.
	ZeroCurrency Currency
	// MaxCurrency is the largest representable amount.
	MaxCurrency = Currency{Lo: ^uint64(0), Hi: ^uint64(0)}
	// HastingsPerSiacoin is 10^24.
	HastingsPerSiacoin = NewCurrency(2003764205206896640, 54210)
)

// NewCurrency returns the currency lo + hi<<64.
func NewCurrency(lo, hi uint64) Currency { return Currency{Lo: lo, Hi: hi} }

// NewCurrency64 returns c as a Currency.
func NewCurrency64(c uint64) Currency { return Currency{Lo: c} }

// Siacoins returns n siacoins expressed in hastings.
func Siacoins(n uint32) Currency { return HastingsPerSiacoin.Mul64(uint64(n)) }

// IsZero reports whether c is zero.
func (c Currency) IsZero() bool { return c == ZeroCurrency }

// Cmp returns -1, 0 or 1 as c is less than, equal to or greater than v.
func (c Currency) Cmp(v Currency) int {
	switch {
	case c == v:
		return 0
	case c.Hi < v.Hi || (c.Hi == v.Hi && c.Lo < v.Lo):
		return -1
	default:
		return 1
	}
}

// AddWithOverflow returns c+v and whether the sum overflowed.
func (c Currency) AddWithOverflow(v Currency) (Currency, bool) {
	lo, carry := bits.Add64(c.Lo, v.Lo, 0)
	hi, carry := bits.Add64(c.Hi, v.Hi, carry)
	return Currency{lo, hi}, carry != 0
}

// Add returns c+v. It panics on overflow.
func (c Currency) Add(v Currency) Currency {
	s, overflow := c.AddWithOverflow(v)
	if overflow {
		panic("currency: addition overflow")
	}
	return s
}

// SubWithUnderflow returns c-v and whether the difference underflowed.
func (c Currency) SubWithUnderflow(v Currency) (Currency, bool) {
	lo, borrow := bits.Sub64(c.Lo, v.Lo, 0)
	hi, borrow := bits.Sub64(c.Hi, v.Hi, borrow)
	return Currency{lo, hi}, borrow != 0
}

// Sub returns c-v. It panics on underflow.
func (c Currency) Sub(v Currency) Currency {
	s, underflow := c.SubWithUnderflow(v)
	if underflow {
		panic("currency: subtraction underflow")
	}
	return s
}

// Mul64WithOverflow returns c*v and whether the product overflowed.
func (c Currency) Mul64WithOverflow(v uint64) (Currency, bool) {
	hi0, lo := bits.Mul64(c.Lo, v)
	hi1, hi := bits.Mul64(c.Hi, v)
	hi, carry := bits.Add64(hi0, hi, 0)
	return Currency{lo, hi}, hi1 != 0 || carry != 0
}

// Mul64 returns c*v. It panics on overflow.
func (c Currency) Mul64(v uint64) Currency {
	p, overflow := c.Mul64WithOverflow(v)
	if overflow {
		panic("currency: multiplication overflow")
	}
	return p
}

// Big returns c as a big.Int.
func (c Currency) Big() *big.Int {
	b := c.bigEndian()
	return new(big.Int).SetBytes(b[:])
}

func (c Currency) bigEndian() (b [16]byte) {
	for i := 0; i < 8; i++ {
		b[i] = byte(c.Hi >> (56 - 8*i))
		b[8+i] = byte(c.Lo >> (56 - 8*i))
	}
	return
}

// String returns the decimal representation of c.
func (c Currency) String() string { return c.Big().String() }

// ParseCurrency parses a base-10 amount of hastings.
func ParseCurrency(s string) (Currency, error) {
	i, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return ZeroCurrency, &ParseError{Type: "Currency", Code: ErrInvalidCurrency, Input: s,
			Message: "not a decimal integer"}
	}
	if i.Sign() < 0 || i.BitLen() > 128 {
		return ZeroCurrency, &ParseError{Type: "Currency", Code: ErrCurrencyOverflow, Input: s,
			Message: "value out of range for 128 bits"}
	}
	lo := new(big.Int).And(i, new(big.Int).SetUint64(^uint64(0)))
	hi := new(big.Int).Rsh(i, 64)
	return Currency{Lo: lo.Uint64(), Hi: hi.Uint64()}, nil
}

// MarshalText implements encoding.TextMarshaler. JSON amounts are always
// strings.
func (c Currency) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Currency) UnmarshalText(b []byte) (err error) {
	*c, err = ParseCurrency(string(b))
	return
}

// V1Currency selects the v1 wire form of a Currency: its big-endian bytes
// with leading zeros trimmed, written as a length-prefixed byte string.
type V1Currency Currency

// EncodeTo implements encoding.EncoderTo.
func (c V1Currency) EncodeTo(e *encoding.Encoder) {
	b := Currency(c).bigEndian()
	i := 0
	for i < len(b) && b[i] == 0 {
		i++
	}
	e.WriteBytes(b[i:])
}

// V2Currency selects the v2 wire form of a Currency: 16 little-endian bytes.
type V2Currency Currency

// EncodeTo implements encoding.EncoderTo.
func (c V2Currency) EncodeTo(e *encoding.Encoder) { e.WriteUint128(c.Lo, c.Hi) }
