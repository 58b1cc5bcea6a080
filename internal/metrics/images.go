package metrics

import "github.com/prometheus/client_golang/prometheus"

// Image host and login metrics.
var (
	ImageHostRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipeshare",
			Name:      "image_host_requests_total",
			Help:      "Total number of image host API calls",
		},
		[]string{"operation", "status"},
	)

	ImageHostRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "recipeshare",
			Name:      "image_host_request_duration_seconds",
			Help:      "Image host API call duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	LoginAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipeshare",
			Name:      "login_attempts_total",
			Help:      "Total number of login attempts",
		},
		[]string{"outcome"}, // "success" / "failure" / "rate_limited"
	)
)

var appMetricsRegistered bool

// RegisterAppMetrics registers image host and login metrics. Must be called once from main.
func RegisterAppMetrics() {
	if appMetricsRegistered {
		return
	}
	prometheus.MustRegister(ImageHostRequestsTotal)
	prometheus.MustRegister(ImageHostRequestDuration)
	prometheus.MustRegister(LoginAttemptsTotal)
	appMetricsRegistered = true
}
