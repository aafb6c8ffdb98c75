package match

import (
	"math"
	"testing"
)

func TestPriceConstructionDeterminism(t *testing.T) {
	for _, v := range []float64{0, 0.00001, 1.0, 90.5, 100.0, 123.456, 1000.00, 99999.99999} {
		a := NewPrice(v)
		b := NewPrice(v)
		if !a.Equal(b) {
			t.Errorf("NewPrice(%v) not deterministic: %+v vs %+v", v, a, b)
		}
	}
}

func TestPriceDecomposition(t *testing.T) {
	tests := []struct {
		in         float64
		integral   uint64
		fractional uint64
	}{
		{0, 0, 0},
		{1.0, 1, 0},
		{123.456, 123, 45600},
		{90.5, 90, 50000},
		{1000.00, 1000, 0},
		{0.00001, 0, 1},
	}

	for _, tt := range tests {
		p := NewPrice(tt.in)
		if p.Integral != tt.integral || p.Fractional != tt.fractional {
			t.Errorf("NewPrice(%v) = {%d %d}, want {%d %d}",
				tt.in, p.Integral, p.Fractional, tt.integral, tt.fractional)
		}
		if p.Scalar != PriceScale {
			t.Errorf("NewPrice(%v) scalar = %d, want %d", tt.in, p.Scalar, PriceScale)
		}
	}
}

func TestPriceTruncationIsLossy(t *testing.T) {
	// Precision beyond 1/PriceScale disappears at construction time.
	if !NewPrice(1.000001).Equal(NewPrice(1.0)) {
		t.Error("sub-scalar precision should truncate away")
	}
	if NewPrice(1.00001).Equal(NewPrice(1.0)) {
		t.Error("precision at exactly 1/scalar must survive")
	}
}

func TestPriceRoundTrip(t *testing.T) {
	step := 1.0 / float64(PriceScale)
	for _, v := range []float64{0.5, 42.42, 100.0, 123.456, 9999.99999} {
		got := NewPrice(v).Float64()
		if math.Abs(got-v) >= step {
			t.Errorf("round trip of %v drifted to %v (more than %v)", v, got, step)
		}
	}
}

func TestPriceOrdering(t *testing.T) {
	low := NewPrice(99.99999)
	mid := NewPrice(100.0)
	high := NewPrice(100.00001)

	if !low.Less(mid) || !mid.Less(high) {
		t.Error("prices should order lexicographically on (integral, fractional)")
	}
	if mid.Less(low) || mid.Less(mid) {
		t.Error("Less must be a strict ordering")
	}
	if got := high.Cmp(low); got != 1 {
		t.Errorf("Cmp(high, low) = %d, want 1", got)
	}
}

func TestPriceComparisonIgnoresScalar(t *testing.T) {
	a := Price{Integral: 10, Fractional: 5, Scalar: 100}
	b := Price{Integral: 10, Fractional: 5, Scalar: 100000}
	if !a.Equal(b) {
		t.Error("scalar must not take part in comparison")
	}
}
