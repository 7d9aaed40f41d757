// Package metrics holds the Prometheus collectors for the API process.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loop_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "loop_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "loop_http_active_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// InteractionsTotal counts like/bookmark/follow toggles.
	// outcome is one of "ok", "conflict", "noop", "error".
	InteractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loop_interactions_total",
			Help: "Relationship toggles by kind, action and outcome",
		},
		[]string{"kind", "action", "outcome"},
	)

	StoriesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loop_stories_created_total",
			Help: "Total number of stories created",
		},
	)

	ReelsRecycledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loop_reels_recycled_total",
			Help: "Reel recommendation responses that wrapped around to already-seen videos",
		},
	)
)

// Interaction outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeConflict = "conflict"
	OutcomeNoop     = "noop"
	OutcomeError    = "error"
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests
func TrackActiveRequest(inc bool) {
	if inc {
		HTTPActiveRequests.Inc()
	} else {
		HTTPActiveRequests.Dec()
	}
}

// RecordInteraction records the outcome of a like/bookmark/follow toggle.
func RecordInteraction(kind, action, outcome string) {
	InteractionsTotal.WithLabelValues(kind, action, outcome).Inc()
}
