package quant_test

import (
	"testing"

	"poolfee_go/pkg/quant"

	"github.com/shopspring/decimal"
)

func TestRatioTruncates(t *testing.T) {
	// 1/3 must truncate, not round: 0.333...333 at 18 digits
	w, ok := quant.Ratio(decimal.NewFromInt(1), decimal.NewFromInt(3))
	if !ok {
		t.Fatal("Ratio(1,3) should succeed")
	}
	if w != quant.Wad(333333333333333333) {
		t.Errorf("expected 333333333333333333, got %d", w)
	}

	// Truncation is toward zero for negative quotients
	w, ok = quant.Ratio(decimal.NewFromInt(-1), decimal.NewFromInt(3))
	if !ok {
		t.Fatal("Ratio(-1,3) should succeed")
	}
	if w != quant.Wad(-333333333333333333) {
		t.Errorf("expected -333333333333333333, got %d", w)
	}
}

func TestRatioZeroDenominator(t *testing.T) {
	if _, ok := quant.Ratio(decimal.NewFromInt(1), decimal.Zero); ok {
		t.Error("Ratio with zero denominator must fail")
	}
}

func TestRatioMixedExponents(t *testing.T) {
	// 2.5 / 0.5 = 5.0
	num := decimal.RequireFromString("2.5")
	den := decimal.RequireFromString("0.5")
	w, ok := quant.Ratio(num, den)
	if !ok {
		t.Fatal("Ratio(2.5, 0.5) should succeed")
	}
	if w != 5*quant.One {
		t.Errorf("expected 5.0, got %s", w)
	}
}

func TestRatioOverflow(t *testing.T) {
	// 100/1 = 100, far outside the ±9.22 Wad range
	if _, ok := quant.Ratio(decimal.NewFromInt(100), decimal.NewFromInt(1)); ok {
		t.Error("Ratio overflowing Wad range must fail")
	}
}

func TestMulDiv(t *testing.T) {
	half := quant.MustParse("0.5")
	if got := quant.Mul(half, half); got != quant.MustParse("0.25") {
		t.Errorf("0.5*0.5: expected 0.25, got %s", got)
	}

	// Mul truncates toward zero
	third := quant.Wad(333333333333333333)
	got := quant.Mul(third, third)
	if got != quant.Wad(111111111111111110) {
		t.Errorf("(1/3)^2: expected 111111111111111110, got %d", got)
	}

	if got := quant.Div(quant.One, quant.Wad(3*quant.One)); got != third {
		t.Errorf("1/3: expected %d, got %d", third, got)
	}
}

func TestFromDecimalRange(t *testing.T) {
	if _, ok := quant.FromDecimal(decimal.NewFromInt(10)); ok {
		t.Error("10 is outside the Wad range and must be rejected")
	}
	w, ok := quant.FromDecimal(decimal.RequireFromString("0.003"))
	if !ok || w != quant.Wad(3000000000000000) {
		t.Errorf("expected 3000000000000000, got %d (ok=%v)", w, ok)
	}
}

func TestDecimalRoundTrip(t *testing.T) {
	w := quant.MustParse("0.0825")
	if !w.Decimal().Equal(decimal.RequireFromString("0.0825")) {
		t.Errorf("round trip failed: %s", w.Decimal())
	}
}

func TestClampAbs(t *testing.T) {
	lo, hi := quant.Wad(10), quant.Wad(20)
	if quant.Clamp(5, lo, hi) != lo {
		t.Error("clamp below")
	}
	if quant.Clamp(25, lo, hi) != hi {
		t.Error("clamp above")
	}
	if quant.Clamp(15, lo, hi) != 15 {
		t.Error("clamp inside")
	}
	if quant.Abs(-quant.One) != quant.One {
		t.Error("abs negative")
	}
}
