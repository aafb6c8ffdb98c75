package api

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sjlee-dev/matchbook/pkg/match"
)

// Request and response shapes for the REST surface. Quantities travel as
// decimal strings end to end.

// PlaceOrderRequest is the payload for POST /api/v1/orders.
type PlaceOrderRequest struct {
	Base     string `json:"base"`
	Quote    string `json:"quote"`
	Side     string `json:"side"`  // "bid" | "ask"
	Type     string `json:"type"`  // "limit" | "market"
	Price    string `json:"price"` // required for limit orders
	Quantity string `json:"quantity"`
}

// RegisterBookRequest is the payload for POST /api/v1/books.
type RegisterBookRequest struct {
	Base  string `json:"base"`
	Quote string `json:"quote"`
}

type PlaceLimitResponse struct {
	Status string `json:"status"` // "rested"
	Pair   string `json:"pair"`
}

type PlaceMarketResponse struct {
	Status    string          `json:"status"` // "filled" | "partially_filled"
	Pair      string          `json:"pair"`
	Requested decimal.Decimal `json:"requested"`
	Filled    decimal.Decimal `json:"filled"`
	Remaining decimal.Decimal `json:"remaining"`
}

type SpreadResponse struct {
	Pair   string  `json:"pair"`
	Spread float64 `json:"spread"`
}

type DepthResponse struct {
	Pair      string     `json:"pair"`
	Bids      []DepthRow `json:"bids"` // best first (high to low)
	Asks      []DepthRow `json:"asks"` // best first (low to high)
	Timestamp int64      `json:"timestamp"`
}

type DepthRow struct {
	Price  float64         `json:"price"`
	Volume decimal.Decimal `json:"volume"`
}

type BookInfo struct {
	Pair  string `json:"pair"`
	Base  string `json:"base"`
	Quote string `json:"quote"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// DepthUpdate is pushed to websocket subscribers of "book:BASE/QUOTE".
type DepthUpdate struct {
	Type      string     `json:"type"` // "depth"
	Pair      string     `json:"pair"`
	Bids      []DepthRow `json:"bids"`
	Asks      []DepthRow `json:"asks"`
	Timestamp int64      `json:"timestamp"`
}

// WSSubscribeRequest is sent by a websocket client.
type WSSubscribeRequest struct {
	Op       string   `json:"op"` // "subscribe" | "unsubscribe"
	Channels []string `json:"channels"`
}

// parseSide validates an untrusted side string before any core object is
// built. The core assumes a well-formed side has already been chosen.
func parseSide(s string) (match.Side, error) {
	switch s {
	case "bid", "buy":
		return match.Bid, nil
	case "ask", "sell":
		return match.Ask, nil
	default:
		return 0, fmt.Errorf("invalid side %q", s)
	}
}
