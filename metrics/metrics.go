// Package metrics provides Prometheus metrics for the pill reminder
// service: HTTP request counters and latency, plus gauges for the entity
// store and the reference-dataset snapshot. All metrics register with the
// default registry at package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen recently)",
		},
	)

	DatasetRows = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "reference_dataset_rows",
			Help: "Rows in the current reference-dataset snapshot",
		},
	)

	GateChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reference_gate_checks_total",
			Help: "Reference-dataset gate checks by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(DatasetRows)
	prometheus.MustRegister(GateChecksTotal)
}
