package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// APIClientMetrics records outgoing storefront backend calls.
type APIClientMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
}

// NewAPIClientMetrics registers the client metrics on the provided registerer.
func NewAPIClientMetrics(reg prometheus.Registerer) *APIClientMetrics {
	if reg == nil {
		return &APIClientMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_api_request_duration_seconds",
		Help:    "Duration of storefront backend requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_api_requests_total",
		Help: "Storefront backend requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})
	reg.MustRegister(duration, requests)
	return &APIClientMetrics{
		duration: duration,
		requests: requests,
	}
}

// Observe records one finished call. outcome is "ok" or an error code.
func (m *APIClientMetrics) Observe(endpoint, outcome string, took time.Duration) {
	if m == nil || m.duration == nil || m.requests == nil {
		return
	}
	endpoint = normalizeLabel(endpoint)
	m.duration.WithLabelValues(endpoint).Observe(took.Seconds())
	m.requests.WithLabelValues(endpoint, normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
