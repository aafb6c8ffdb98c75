package match

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestOrderBookFillMarketOrder(t *testing.T) {
	book := NewOrderBook()
	book.Add(NewOrder(Ask, qty("10")), 100.0)
	book.Add(NewOrder(Ask, qty("5")), 200.0)
	book.Add(NewOrder(Ask, qty("15")), 500.0)
	book.Add(NewOrder(Ask, qty("10")), 100.0)

	buy := NewOrder(Bid, qty("10"))
	book.PlaceMarketOrder(buy)

	if !buy.IsFilled() {
		t.Fatal("market bid should be satisfied by the best ask level")
	}

	asks := book.AskLimits()
	best := asks[0]
	if !best.Price().Equal(NewPrice(100.0)) {
		t.Fatalf("best ask = %v, want 100.0", best.Price().Float64())
	}
	// The first 100.0 order absorbed the whole fill; the second one and
	// every higher-priced level stay untouched.
	if best.Len() != 1 || !best.Orders()[0].Remaining().Equal(qty("10")) {
		t.Error("second order at 100.0 should be untouched")
	}
	if !asks[1].Volume().Equal(qty("5")) || !asks[2].Volume().Equal(qty("15")) {
		t.Error("higher-priced levels should be untouched")
	}
}

func TestOrderBookMarketOrderWalksLevels(t *testing.T) {
	book := NewOrderBook()
	book.Add(NewOrder(Bid, qty("10")), 100.0)
	book.Add(NewOrder(Bid, qty("10")), 99.0)
	book.Add(NewOrder(Bid, qty("10")), 98.0)

	sell := NewOrder(Ask, qty("25"))
	book.PlaceMarketOrder(sell)

	if !sell.IsFilled() {
		t.Fatal("market ask should fill across levels")
	}

	bids := book.BidLimits()
	// Best bids consumed first: 100.0 and 99.0 emptied, 98.0 half left.
	if !bids[0].Volume().IsZero() || !bids[1].Volume().IsZero() {
		t.Error("best bid levels should be emptied first")
	}
	if !bids[2].Volume().Equal(qty("5")) {
		t.Errorf("worst level volume = %s, want 5", bids[2].Volume())
	}
}

func TestOrderBookMarketRemainderNotRested(t *testing.T) {
	book := NewOrderBook()
	book.Add(NewOrder(Ask, qty("3")), 100.0)

	buy := NewOrder(Bid, qty("10"))
	book.PlaceMarketOrder(buy)

	if buy.IsFilled() {
		t.Fatal("order should end partially filled")
	}
	if got := buy.Remaining(); !got.Equal(qty("7")) {
		t.Errorf("remaining = %s, want 7", got)
	}
	// The remainder is discarded, never queued on the bid side.
	if len(book.BidLimits()) != 0 {
		t.Error("market remainder must not rest in the book")
	}
}

func TestOrderBookPriorityOrdering(t *testing.T) {
	book := NewOrderBook()
	for _, p := range []float64{500.0, 100.0, 200.0, 150.5, 100.00001} {
		book.Add(NewOrder(Ask, qty("1")), p)
		book.Add(NewOrder(Bid, qty("1")), p)
	}

	asks := book.AskLimits()
	for i := 1; i < len(asks); i++ {
		if asks[i].Price().Less(asks[i-1].Price()) {
			t.Fatal("ask limits must be non-decreasing in price")
		}
	}

	bids := book.BidLimits()
	for i := 1; i < len(bids); i++ {
		if bids[i-1].Price().Less(bids[i].Price()) {
			t.Fatal("bid limits must be non-increasing in price")
		}
	}
}

func TestOrderBookLevelsPersistWhenEmpty(t *testing.T) {
	book := NewOrderBook()
	book.Add(NewOrder(Ask, qty("5")), 100.0)

	buy := NewOrder(Bid, qty("5"))
	book.PlaceMarketOrder(buy)

	asks := book.AskLimits()
	if len(asks) != 1 {
		t.Fatalf("emptied level should persist, got %d levels", len(asks))
	}
	if asks[0].Len() != 0 || !asks[0].Volume().IsZero() {
		t.Error("persisted level should hold no orders and zero volume")
	}
}

func TestOrderBookSpread(t *testing.T) {
	book := NewOrderBook()
	book.Add(NewOrder(Ask, qty("1")), 100.0)
	book.Add(NewOrder(Bid, qty("1")), 90.0)

	spread, ok := book.Spread()
	if !ok {
		t.Fatal("two-sided book must have a spread")
	}
	if spread != 10.0 {
		t.Errorf("spread = %v, want 10.0", spread)
	}
}

func TestOrderBookSpreadNeedsBothSides(t *testing.T) {
	book := NewOrderBook()
	book.Add(NewOrder(Bid, qty("1")), 90.0)
	book.Add(NewOrder(Bid, qty("2")), 95.0)

	if _, ok := book.Spread(); ok {
		t.Error("book without asks has no spread, however many bids exist")
	}

	empty := NewOrderBook()
	if _, ok := empty.Spread(); ok {
		t.Error("empty book has no spread")
	}
}

func TestOrderBookSpreadUsesBestPrices(t *testing.T) {
	book := NewOrderBook()
	book.Add(NewOrder(Ask, qty("1")), 105.0)
	book.Add(NewOrder(Ask, qty("1")), 101.0)
	book.Add(NewOrder(Bid, qty("1")), 80.0)
	book.Add(NewOrder(Bid, qty("1")), 99.0)

	spread, ok := book.Spread()
	if !ok || spread != 2.0 {
		t.Errorf("spread = %v ok=%v, want 2.0 from best ask 101 and best bid 99", spread, ok)
	}
}

func BenchmarkPlaceMarketOrder(b *testing.B) {
	one := decimal.NewFromInt(1)
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		b.StopTimer()
		book := NewOrderBook()
		for j := 0; j < 64; j++ {
			book.Add(NewOrder(Ask, one), 100.0+float64(j))
		}
		taker := NewOrder(Bid, decimal.NewFromInt(32))
		b.StartTimer()

		book.PlaceMarketOrder(taker)
	}
}
