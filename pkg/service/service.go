// Package service is the write entry point into the matching core. It
// owns serialization (one exclusive lock per instrument, so unrelated
// instruments proceed concurrently), boundary validation, metrics and
// event publishing. The core packages below it stay single-threaded and
// validation-free.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sjlee-dev/matchbook/pkg/engine"
	"github.com/sjlee-dev/matchbook/pkg/feed"
	"github.com/sjlee-dev/matchbook/pkg/match"
	"github.com/sjlee-dev/matchbook/pkg/metrics"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidPrice    = errors.New("price must not be negative")
)

// Level is one [price, volume] row of a depth snapshot, already in
// priority order.
type Level struct {
	Price  float64         `json:"price"`
	Volume decimal.Decimal `json:"volume"`
}

// Execution reports the outcome of a market order. Partial fills are a
// normal outcome, not an error; Remaining is the discarded residue.
type Execution struct {
	Requested decimal.Decimal `json:"requested"`
	Filled    decimal.Decimal `json:"filled"`
	Remaining decimal.Decimal `json:"remaining"`
}

func (e Execution) FullyFilled() bool { return e.Remaining.IsZero() }

// Service wires the engine to logging, metrics and the event feed.
type Service struct {
	mu     sync.RWMutex // guards engine registry and locks
	engine *engine.Engine
	locks  map[engine.TradingPair]*sync.Mutex

	log  *zap.SugaredLogger
	feed feed.Publisher

	// OnDepth, when set, receives a depth snapshot after every mutation.
	// Wired to the websocket hub in main. Called outside the book lock.
	OnDepth func(pair engine.TradingPair, bids, asks []Level)
}

func New(log *zap.SugaredLogger, pub feed.Publisher) *Service {
	return &Service{
		engine: engine.New(),
		locks:  make(map[engine.TradingPair]*sync.Mutex),
		log:    log,
		feed:   pub,
	}
}

// RegisterBook creates and registers an empty book for base/quote.
// Registration is idempotent; re-registering is a logged no-op.
func (s *Service) RegisterBook(ctx context.Context, base, quote string) engine.TradingPair {
	pair := engine.NewTradingPair(base, quote)

	s.mu.Lock()
	_, existed := s.engine.Book(pair)
	if !existed {
		s.engine.AddOrderBook(pair, match.NewOrderBook())
		s.locks[pair] = &sync.Mutex{}
	}
	s.mu.Unlock()

	if existed {
		s.log.Infow("book_already_registered", "pair", pair.String())
		return pair
	}

	s.log.Infow("book_registered", "pair", pair.String())
	s.publish(ctx, feed.NewEvent(feed.EventBookRegistered, pair.String()))
	return pair
}

// Pairs lists the registered instruments.
func (s *Service) Pairs() []engine.TradingPair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Pairs()
}

// PlaceLimit validates and rests a limit order. Limit orders never match
// on insertion; they queue unconditionally, crossing or not.
func (s *Service) PlaceLimit(ctx context.Context, pair engine.TradingPair, side match.Side, price float64, quantity decimal.Decimal) error {
	start := time.Now()

	if err := s.validate(pair, price, quantity); err != nil {
		return err
	}

	lock, ok := s.lockFor(pair)
	if !ok {
		return fmt.Errorf("%w: %s", engine.ErrOrderBookNotFound, pair)
	}

	lock.Lock()
	err := s.engine.PlaceLimitOrder(pair, price, match.NewOrder(side, quantity))
	var bids, asks []Level
	if err == nil {
		bids, asks = s.snapshotLocked(pair)
	}
	lock.Unlock()

	if err != nil {
		return err
	}

	metrics.OrdersPlacedTotal.WithLabelValues(pair.String(), side.String(), "limit").Inc()
	metrics.PlaceLatencySeconds.WithLabelValues(pair.String(), "limit").Observe(time.Since(start).Seconds())
	s.log.Infow("limit_order_rested",
		"pair", pair.String(), "side", side.String(), "price", price, "qty", quantity)

	ev := feed.NewEvent(feed.EventOrderAccepted, pair.String())
	ev.Side = side.String()
	ev.Price = price
	ev.Quantity = quantity
	s.publish(ctx, ev)

	s.notifyDepth(pair, bids, asks)
	return nil
}

// PlaceMarket validates and executes a market order against the resting
// side. The unfilled remainder, if any, is reported and discarded.
func (s *Service) PlaceMarket(ctx context.Context, pair engine.TradingPair, side match.Side, quantity decimal.Decimal) (Execution, error) {
	start := time.Now()

	if quantity.Sign() <= 0 {
		metrics.OrdersRejectedTotal.WithLabelValues(pair.String(), "quantity").Inc()
		return Execution{}, fmt.Errorf("%w: %s", ErrInvalidQuantity, quantity)
	}

	lock, ok := s.lockFor(pair)
	if !ok {
		return Execution{}, fmt.Errorf("%w: %s", engine.ErrOrderBookNotFound, pair)
	}

	order := match.NewOrder(side, quantity)

	lock.Lock()
	err := s.engine.PlaceMarketOrder(pair, order)
	var bids, asks []Level
	if err == nil {
		bids, asks = s.snapshotLocked(pair)
	}
	lock.Unlock()

	if err != nil {
		return Execution{}, err
	}

	exec := Execution{
		Requested: quantity,
		Filled:    quantity.Sub(order.Remaining()),
		Remaining: order.Remaining(),
	}

	metrics.OrdersPlacedTotal.WithLabelValues(pair.String(), side.String(), "market").Inc()
	metrics.FilledVolumeTotal.WithLabelValues(pair.String()).Add(exec.Filled.InexactFloat64())
	metrics.PlaceLatencySeconds.WithLabelValues(pair.String(), "market").Observe(time.Since(start).Seconds())
	s.log.Infow("market_order_executed",
		"pair", pair.String(), "side", side.String(),
		"requested", exec.Requested, "filled", exec.Filled, "remaining", exec.Remaining)

	ev := feed.NewEvent(feed.EventMarketExecuted, pair.String())
	ev.Side = side.String()
	ev.Quantity = exec.Requested
	ev.Filled = exec.Filled
	ev.Remaining = exec.Remaining
	s.publish(ctx, ev)

	s.notifyDepth(pair, bids, asks)
	return exec, nil
}

// Spread returns best ask minus best bid. ok is false when either side
// is empty — distinct from a zero spread on a crossed-at-touch book.
func (s *Service) Spread(pair engine.TradingPair) (float64, bool, error) {
	lock, ok := s.lockFor(pair)
	if !ok {
		return 0, false, fmt.Errorf("%w: %s", engine.ErrOrderBookNotFound, pair)
	}

	lock.Lock()
	defer lock.Unlock()

	book, _ := s.bookFor(pair)
	spread, ok := book.Spread()
	return spread, ok, nil
}

// Depth returns both sides of the book as priority-ordered levels.
func (s *Service) Depth(pair engine.TradingPair) (bids, asks []Level, err error) {
	lock, ok := s.lockFor(pair)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", engine.ErrOrderBookNotFound, pair)
	}

	lock.Lock()
	defer lock.Unlock()

	bids, asks = s.snapshotLocked(pair)
	return bids, asks, nil
}

func (s *Service) validate(pair engine.TradingPair, price float64, quantity decimal.Decimal) error {
	if quantity.Sign() <= 0 {
		metrics.OrdersRejectedTotal.WithLabelValues(pair.String(), "quantity").Inc()
		return fmt.Errorf("%w: %s", ErrInvalidQuantity, quantity)
	}
	if price < 0 {
		metrics.OrdersRejectedTotal.WithLabelValues(pair.String(), "price").Inc()
		return fmt.Errorf("%w: %v", ErrInvalidPrice, price)
	}
	return nil
}

func (s *Service) lockFor(pair engine.TradingPair) (*sync.Mutex, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lock, ok := s.locks[pair]
	return lock, ok
}

func (s *Service) bookFor(pair engine.TradingPair) (*match.OrderBook, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Book(pair)
}

// snapshotLocked reads the book and refreshes the per-pair gauges.
// Caller holds the pair lock.
func (s *Service) snapshotLocked(pair engine.TradingPair) (bids, asks []Level) {
	book, ok := s.bookFor(pair)
	if !ok {
		return nil, nil
	}

	// Emptied levels persist in the core maps; a depth view skips them.
	bidOrders, askOrders := 0, 0
	for _, lvl := range book.BidLimits() {
		if lvl.Len() == 0 {
			continue
		}
		bidOrders += lvl.Len()
		bids = append(bids, Level{Price: lvl.Price().Float64(), Volume: lvl.Volume()})
	}
	for _, lvl := range book.AskLimits() {
		if lvl.Len() == 0 {
			continue
		}
		askOrders += lvl.Len()
		asks = append(asks, Level{Price: lvl.Price().Float64(), Volume: lvl.Volume()})
	}

	metrics.RestingOrders.WithLabelValues(pair.String(), "bid").Set(float64(bidOrders))
	metrics.RestingOrders.WithLabelValues(pair.String(), "ask").Set(float64(askOrders))
	if len(bids) > 0 {
		metrics.BestBidPrice.WithLabelValues(pair.String()).Set(bids[0].Price)
	}
	if len(asks) > 0 {
		metrics.BestAskPrice.WithLabelValues(pair.String()).Set(asks[0].Price)
	}
	return bids, asks
}

// publish is best-effort: a dead broker must not fail an order.
func (s *Service) publish(ctx context.Context, ev feed.Event) {
	if err := s.feed.Publish(ctx, ev); err != nil {
		s.log.Warnw("feed_publish_failed", "type", ev.Type, "pair", ev.Pair, "err", err)
	}
}

func (s *Service) notifyDepth(pair engine.TradingPair, bids, asks []Level) {
	if s.OnDepth != nil {
		s.OnDepth(pair, bids, asks)
	}
}
