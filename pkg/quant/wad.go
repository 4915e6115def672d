package quant

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Wad is a signed fixed-point number with 18 fractional decimal digits,
// stored as a raw int64. All arithmetic truncates toward zero, so a given
// input sequence always produces bit-identical results regardless of
// platform. The representable range is roughly ±9.22, which covers every
// engine-internal signal (fees, ratios, volatility, momentum, skew are all
// bounded by [-1, 1] or tighter). Unbounded quantities (reserves, trade
// amounts) stay in decimal.Decimal and enter Wad space only through Ratio.
type Wad int64

const (
	// One is the Wad representation of 1.0.
	One Wad = 1e18
	// NegOne is the Wad representation of -1.0.
	NegOne Wad = -1e18
)

var wadBig = big.NewInt(int64(One))

// FromDecimal converts a decimal to Wad, truncating toward zero at 18
// digits. Returns false when the value does not fit in the Wad range.
func FromDecimal(d decimal.Decimal) (Wad, bool) {
	scaled := d.Shift(18).Truncate(0)
	bi := scaled.BigInt()
	if !bi.IsInt64() {
		return 0, false
	}
	return Wad(bi.Int64()), true
}

// MustFromDecimal is FromDecimal for values known to be in range, such as
// configuration constants. It panics on overflow.
func MustFromDecimal(d decimal.Decimal) Wad {
	w, ok := FromDecimal(d)
	if !ok {
		panic(fmt.Sprintf("quant: %s out of Wad range", d.String()))
	}
	return w
}

// MustParse converts a decimal literal string to Wad.
func MustParse(s string) Wad {
	return MustFromDecimal(decimal.RequireFromString(s))
}

// Decimal returns the exact decimal value of w.
func (w Wad) Decimal() decimal.Decimal {
	return decimal.New(int64(w), -18)
}

func (w Wad) String() string {
	return w.Decimal().String()
}

// Mul returns a*b scaled back down, truncated toward zero.
func Mul(a, b Wad) Wad {
	x := new(big.Int).Mul(big.NewInt(int64(a)), big.NewInt(int64(b)))
	x.Quo(x, wadBig)
	return Wad(x.Int64())
}

// Div returns a/b scaled up, truncated toward zero. b must be non-zero.
func Div(a, b Wad) Wad {
	x := new(big.Int).Mul(big.NewInt(int64(a)), wadBig)
	x.Quo(x, big.NewInt(int64(b)))
	return Wad(x.Int64())
}

// Ratio divides two decimal quantities into a Wad, truncating toward zero.
// Returns false when the denominator is zero or the quotient is out of the
// Wad range. This is the only bridge from unbounded quantities into the
// fixed-point signal space.
func Ratio(num, den decimal.Decimal) (Wad, bool) {
	if den.IsZero() {
		return 0, false
	}
	// num/den * 1e18 on the raw coefficients: align exponents first so the
	// division happens once, on integers.
	n := new(big.Int).Set(num.Coefficient())
	d := new(big.Int).Set(den.Coefficient())
	shift := int64(num.Exponent()) - int64(den.Exponent()) + 18
	if shift >= 0 {
		n.Mul(n, pow10(shift))
	} else {
		d.Mul(d, pow10(-shift))
	}
	n.Quo(n, d)
	if !n.IsInt64() {
		return 0, false
	}
	return Wad(n.Int64()), true
}

func pow10(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}

// Clamp bounds w to [lo, hi].
func Clamp(w, lo, hi Wad) Wad {
	if w < lo {
		return lo
	}
	if w > hi {
		return hi
	}
	return w
}

// Abs returns the absolute value of w.
func Abs(w Wad) Wad {
	if w < 0 {
		return -w
	}
	return w
}
