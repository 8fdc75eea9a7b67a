package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPServerMetrics records requests served by the mock backend.
type HTTPServerMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
}

func NewHTTPServerMetrics(reg prometheus.Registerer) *HTTPServerMetrics {
	if reg == nil {
		return &HTTPServerMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mock_backend_request_duration_seconds",
		Help:    "Duration of mock backend requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mock_backend_requests_total",
		Help: "Mock backend requests by route and status.",
	}, []string{"route", "status"})
	reg.MustRegister(duration, requests)
	return &HTTPServerMetrics{duration: duration, requests: requests}
}

func (m *HTTPServerMetrics) Observe(route string, status int, took time.Duration) {
	if m == nil || m.duration == nil || m.requests == nil {
		return
	}
	route = normalizeLabel(route)
	m.duration.WithLabelValues(route).Observe(took.Seconds())
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
