// Package metrics exposes the engine's Prometheus collectors. Everything
// is registered via promauto on the default registry and scraped through
// the /metrics endpoint in pkg/api.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlacedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matchbook_orders_placed_total",
			Help: "Orders accepted by the matching engine",
		},
		[]string{"pair", "side", "type"},
	)

	OrdersRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matchbook_orders_rejected_total",
			Help: "Orders rejected before reaching the matching core",
		},
		[]string{"pair", "reason"},
	)

	FilledVolumeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matchbook_filled_volume_total",
			Help: "Quantity executed by market orders, in base units",
		},
		[]string{"pair"},
	)

	PlaceLatencySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matchbook_place_latency_seconds",
			Help:    "Time spent placing one order, lock wait included",
			Buckets: prometheus.ExponentialBuckets(0.000001, 4, 12),
		},
		[]string{"pair", "type"},
	)

	BestBidPrice = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "matchbook_best_bid_price",
			Help: "Best bid price per instrument",
		},
		[]string{"pair"},
	)

	BestAskPrice = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "matchbook_best_ask_price",
			Help: "Best ask price per instrument",
		},
		[]string{"pair"},
	)

	RestingOrders = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "matchbook_resting_orders",
			Help: "Resting orders currently queued per side",
		},
		[]string{"pair", "side"},
	)
)
