package match

import "github.com/shopspring/decimal"

// Side is the direction of an order.
type Side int

const (
	Bid Side = iota
	Ask
)

func (s Side) String() string {
	if s == Ask {
		return "ask"
	}
	return "bid"
}

// Opposite returns the side an incoming order executes against.
func (s Side) Opposite() Side {
	if s == Bid {
		return Ask
	}
	return Bid
}

// Order is a mutable record of remaining quantity and side. It is created
// once per placement and mutated in place as it matches; there is no
// cancellation and no transition back to a resting state.
//
// Quantities are decimal so subtraction is exact; the fill loop still
// assigns a literal zero on whichever side is exhausted, so IsFilled is
// always an exact test.
type Order struct {
	side      Side
	remaining decimal.Decimal
}

func NewOrder(side Side, qty decimal.Decimal) *Order {
	return &Order{side: side, remaining: qty}
}

func (o *Order) Side() Side { return o.side }

// Remaining is the unexecuted quantity.
func (o *Order) Remaining() decimal.Decimal { return o.remaining }

// IsFilled reports whether the order has fully executed.
func (o *Order) IsFilled() bool { return o.remaining.IsZero() }
