package match

import "github.com/shopspring/decimal"

// Limit is one price level: resting orders in strict arrival order.
// A Limit is owned by exactly one side of one OrderBook.
type Limit struct {
	price  Price
	orders []*Order
}

func NewLimit(price Price) *Limit {
	return &Limit{price: price}
}

func (l *Limit) Price() Price { return l.price }

// Len is the number of resting orders at this level.
func (l *Limit) Len() int { return len(l.orders) }

// Orders exposes the queue oldest-first. Callers must treat it as
// read-only.
func (l *Limit) Orders() []*Order { return l.orders }

// Add appends to the back of the queue. No matching is attempted here:
// a book never crosses against itself on insertion.
func (l *Limit) Add(o *Order) {
	l.orders = append(l.orders, o)
}

// Fill executes incoming against the queue, oldest order first — the
// time-priority tie-break. Each step either consumes a resting order
// entirely or exhausts the incoming order; the exhausted side is set to
// an exact zero. Fully consumed resting orders are purged afterwards so
// volume and iteration cost stay accurate.
func (l *Limit) Fill(incoming *Order) {
	for _, resting := range l.orders {
		if incoming.remaining.GreaterThanOrEqual(resting.remaining) {
			incoming.remaining = incoming.remaining.Sub(resting.remaining)
			resting.remaining = decimal.Zero
		} else {
			resting.remaining = resting.remaining.Sub(incoming.remaining)
			incoming.remaining = decimal.Zero
		}

		if incoming.IsFilled() {
			break
		}
	}

	l.purgeFilled()
}

// purgeFilled compacts the queue in place, preserving arrival order of
// the survivors.
func (l *Limit) purgeFilled() {
	live := l.orders[:0]
	for _, o := range l.orders {
		if !o.IsFilled() {
			live = append(live, o)
		}
	}
	for i := len(live); i < len(l.orders); i++ {
		l.orders[i] = nil
	}
	l.orders = live
}

// Volume is the sum of all resting remaining quantities.
func (l *Limit) Volume() decimal.Decimal {
	total := decimal.Zero
	for _, o := range l.orders {
		total = total.Add(o.remaining)
	}
	return total
}
