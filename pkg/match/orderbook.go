package match

import "sort"

// OrderBook is the two-sided book for a single instrument. It performs no
// internal locking: every operation is synchronous, and callers must
// serialize access per book (see pkg/service).
type OrderBook struct {
	asks map[Price]*Limit
	bids map[Price]*Limit
}

func NewOrderBook() *OrderBook {
	return &OrderBook{
		asks: make(map[Price]*Limit),
		bids: make(map[Price]*Limit),
	}
}

// Add rests a limit order at the given price, lazily creating the level.
// It always succeeds and never attempts an immediate match, even when
// the order would cross the opposite side. Levels, once created, are
// never removed — an empty queue stays in the map.
func (b *OrderBook) Add(o *Order, price float64) {
	side := b.bids
	if o.Side() == Ask {
		side = b.asks
	}

	p := NewPrice(price)
	lvl, ok := side[p]
	if !ok {
		lvl = NewLimit(p)
		side[p] = lvl
	}
	lvl.Add(o)
}

// AskLimits returns the ask levels in matching priority: ascending price,
// lowest (best for a buyer) first.
func (b *OrderBook) AskLimits() []*Limit {
	return sortedLimits(b.asks, func(a, z *Limit) bool { return a.price.Less(z.price) })
}

// BidLimits returns the bid levels in matching priority: descending
// price, highest (best for a seller) first.
func (b *OrderBook) BidLimits() []*Limit {
	return sortedLimits(b.bids, func(a, z *Limit) bool { return z.price.Less(a.price) })
}

func sortedLimits(side map[Price]*Limit, less func(a, z *Limit) bool) []*Limit {
	limits := make([]*Limit, 0, len(side))
	for _, lvl := range side {
		limits = append(limits, lvl)
	}
	sort.Slice(limits, func(i, j int) bool { return less(limits[i], limits[j]) })
	return limits
}

// PlaceMarketOrder executes o against the opposing side's levels in
// priority order until o is filled or liquidity runs out. A remainder is
// left on the order, not rested: market orders never enter the book.
func (b *OrderBook) PlaceMarketOrder(o *Order) {
	var limits []*Limit
	if o.Side() == Ask {
		limits = b.BidLimits() // selling: walk the buyers
	} else {
		limits = b.AskLimits() // buying: walk the sellers
	}

	for _, lvl := range limits {
		lvl.Fill(o)
		if o.IsFilled() {
			return
		}
	}
}

// Spread is best ask minus best bid. It exists only when both sides have
// at least one level; a one-sided book has no spread no matter how much
// interest that side holds.
func (b *OrderBook) Spread() (float64, bool) {
	bestAsk, ok := bestPrice(b.asks, func(p, best Price) bool { return p.Less(best) })
	if !ok {
		return 0, false
	}
	bestBid, ok := bestPrice(b.bids, func(p, best Price) bool { return best.Less(p) })
	if !ok {
		return 0, false
	}
	return bestAsk.Float64() - bestBid.Float64(), true
}

func bestPrice(side map[Price]*Limit, better func(p, best Price) bool) (Price, bool) {
	var best Price
	found := false
	for p := range side {
		if !found || better(p, best) {
			best = p
			found = true
		}
	}
	return best, found
}
