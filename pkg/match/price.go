package match

import "math"

// PriceScale is the fixed denominator for the fractional part of a Price.
// Every Price constructed by this package carries it; comparisons assume
// both operands share it.
const PriceScale uint64 = 100000

// Price is a fixed-point price value: Integral + Fractional/Scalar.
//
// Conversion from float64 truncates: precision beyond 1/Scalar is lost at
// construction time, not at read time. That lossiness is part of the
// contract. The zero value is a valid price of 0.
type Price struct {
	Integral   uint64
	Fractional uint64
	Scalar     uint64
}

// NewPrice converts a decimal price to fixed-point form.
// The caller is expected to have rejected negative input already; the
// conversion is only defined for p >= 0.
func NewPrice(p float64) Price {
	return Price{
		Integral:   uint64(p),
		Fractional: uint64(math.Mod(p, 1.0) * float64(PriceScale)),
		Scalar:     PriceScale,
	}
}

// Float64 converts back to a decimal price. Exact only when the original
// value carried no more precision than the scalar represents.
func (p Price) Float64() float64 {
	return float64(p.Integral) + float64(p.Fractional)/float64(p.Scalar)
}

// Cmp orders prices lexicographically on (Integral, Fractional).
// Scalar is carried but never compared.
func (p Price) Cmp(other Price) int {
	switch {
	case p.Integral < other.Integral:
		return -1
	case p.Integral > other.Integral:
		return 1
	case p.Fractional < other.Fractional:
		return -1
	case p.Fractional > other.Fractional:
		return 1
	default:
		return 0
	}
}

// Less reports whether p sorts before other.
func (p Price) Less(other Price) bool { return p.Cmp(other) < 0 }

// Equal ignores Scalar, matching Cmp.
func (p Price) Equal(other Price) bool { return p.Cmp(other) == 0 }
