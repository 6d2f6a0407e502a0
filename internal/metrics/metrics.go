package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Tracks outbound Splitora API calls by resource, method and outcome.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "splitora_api_requests_total",
			Help: "Total number of Splitora API requests made (by resource, method and outcome).",
		},
		[]string{"resource", "method", "outcome"},
	)

	// Measures duration of API requests.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "splitora_api_request_duration_seconds",
			Help:    "Duration of Splitora API requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms → ~10s
		},
		[]string{"resource", "method"},
	)

	// Counts renewal calls by result.
	RefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "splitora_session_refresh_total",
			Help: "Number of access token renewals by result.",
		},
		[]string{"result"}, // ok | failed | no_refresh_token
	)

	// Counts calls that joined a renewal already in flight.
	RefreshCoalesced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "splitora_session_refresh_coalesced_total",
			Help: "Number of unauthorized calls that waited on a renewal started by another call.",
		},
	)

	// Counts re-authentication prompts raised.
	ReauthTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "splitora_session_reauth_required_total",
			Help: "Number of times the user was asked to log in again.",
		},
	)

	// Tracks total errors (aggregated).
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "splitora_errors_total",
			Help: "Count of client errors by component and reason.",
		},
		[]string{"component", "reason"},
	)
)

// ObserveDuration records the time since start on the given histogram.
func ObserveDuration(h *prometheus.HistogramVec, start time.Time, labels ...string) {
	h.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
}

func IncAPIRequest(resource, method, outcome string) {
	APIRequestsTotal.WithLabelValues(resource, method, outcome).Inc()
}

func IncRefresh(result string) {
	RefreshTotal.WithLabelValues(result).Inc()
}

func IncReauth() {
	ReauthTotal.Inc()
}

func IncError(component, reason string) {
	ErrorsTotal.WithLabelValues(component, reason).Inc()
}
