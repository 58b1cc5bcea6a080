package metrics

import "github.com/prometheus/client_golang/prometheus"

// List query metrics.
var (
	ListingQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipeshare",
			Name:      "listing_queries_total",
			Help:      "Total number of list queries",
		},
		[]string{"collection", "mode", "outcome"}, // mode: flat/nested
	)

	ListingQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "recipeshare",
			Name:      "listing_query_duration_seconds",
			Help:      "List query duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"collection", "mode"},
	)
)

var listingMetricsRegistered bool

// RegisterListingMetrics registers list query metrics. Must be called once from main.
func RegisterListingMetrics() {
	if listingMetricsRegistered {
		return
	}
	prometheus.MustRegister(ListingQueriesTotal)
	prometheus.MustRegister(ListingQueryDuration)
	listingMetricsRegistered = true
}
