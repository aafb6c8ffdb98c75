package engine

import (
	"errors"
	"fmt"

	"github.com/sjlee-dev/matchbook/pkg/match"
)

// ErrOrderBookNotFound is returned when an order targets an instrument
// with no registered book. It is the only failure the routing layer
// produces; insufficient liquidity is a normal outcome, not an error.
var ErrOrderBookNotFound = errors.New("orderbook not found")

// TradingPair identifies an instrument as a base/quote symbol pair.
// Symbols are compared verbatim — no case normalization.
type TradingPair struct {
	Base  string
	Quote string
}

func NewTradingPair(base, quote string) TradingPair {
	return TradingPair{Base: base, Quote: quote}
}

func (p TradingPair) String() string {
	return p.Base + "/" + p.Quote
}

// Engine routes per-instrument operations to the correct OrderBook.
// It performs no locking of its own; pkg/service serializes access.
type Engine struct {
	books map[TradingPair]*match.OrderBook
}

func New() *Engine {
	return &Engine{books: make(map[TradingPair]*match.OrderBook)}
}

// AddOrderBook registers a book for pair. Registration is idempotent:
// the first book wins and a later call for the same pair is a no-op, its
// book discarded.
func (e *Engine) AddOrderBook(pair TradingPair, book *match.OrderBook) {
	if _, ok := e.books[pair]; ok {
		return
	}
	e.books[pair] = book
}

// Book looks up the registered book for pair.
func (e *Engine) Book(pair TradingPair) (*match.OrderBook, bool) {
	b, ok := e.books[pair]
	return b, ok
}

// Pairs returns every registered instrument.
func (e *Engine) Pairs() []TradingPair {
	pairs := make([]TradingPair, 0, len(e.books))
	for p := range e.books {
		pairs = append(pairs, p)
	}
	return pairs
}

// PlaceLimitOrder queues o at price on pair's book. Limit orders placed
// through the engine never attempt an immediate match — they rest
// unconditionally.
func (e *Engine) PlaceLimitOrder(pair TradingPair, price float64, o *match.Order) error {
	book, ok := e.books[pair]
	if !ok {
		return fmt.Errorf("%w: %s", ErrOrderBookNotFound, pair)
	}
	book.Add(o, price)
	return nil
}

// PlaceMarketOrder executes o against pair's book. The caller inspects
// o.IsFilled and o.Remaining afterwards; an unfilled remainder is
// discarded, never rested.
func (e *Engine) PlaceMarketOrder(pair TradingPair, o *match.Order) error {
	book, ok := e.books[pair]
	if !ok {
		return fmt.Errorf("%w: %s", ErrOrderBookNotFound, pair)
	}
	book.PlaceMarketOrder(o)
	return nil
}
