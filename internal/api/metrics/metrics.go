// Package metrics defines and registers all custom Prometheus metrics for
// the storefront API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Collectors register with the default registry at import time via promauto;
// the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// OrdersPlacedTotal counts order placements.
// Label:
//   - result: "placed" (new order) or "replayed" (idempotent replay)
var OrdersPlacedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Total number of order placement requests that succeeded.",
	},
	[]string{"result"},
)

// OrderAmount observes the computed total of each placed order.
var OrderAmount = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_amount",
		Help:      "Distribution of placed order totals.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8), // 1 … ~16k
	},
)

// ProductMutationsTotal counts admin catalog writes.
// Label:
//   - op: "create", "update", or "delete"
var ProductMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "product_mutations_total",
		Help:      "Total number of successful admin catalog mutations, by operation.",
	},
	[]string{"op"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
