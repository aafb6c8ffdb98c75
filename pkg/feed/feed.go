// Package feed publishes engine events to Kafka for downstream
// consumers (tickers, dashboards, archival). The engine works the same
// with publishing disabled; use Nop for that.
package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventBookRegistered EventType = "book_registered"
	EventOrderAccepted  EventType = "order_accepted"
	EventMarketExecuted EventType = "market_executed"
)

// Event is the wire form of one engine occurrence. Quantities marshal as
// decimal strings.
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Pair      string          `json:"pair"`
	Side      string          `json:"side,omitempty"`
	Price     float64         `json:"price,omitempty"`
	Quantity  decimal.Decimal `json:"quantity,omitempty"`
	Filled    decimal.Decimal `json:"filled,omitempty"`
	Remaining decimal.Decimal `json:"remaining,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// NewEvent stamps an identity and a millisecond timestamp.
func NewEvent(typ EventType, pair string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      typ,
		Pair:      pair,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Publisher is what the service layer needs from a feed.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Kafka publishes events to one topic, keyed by pair so per-instrument
// ordering survives partitioning.
type Kafka struct {
	writer *kafka.Writer
}

func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

func (k *Kafka) Publish(ctx context.Context, ev Event) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.Pair),
		Value: value,
	})
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
