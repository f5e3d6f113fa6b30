package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the gateway
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Decode metrics
	entriesServedTotal  prometheus.Counter
	decodeFailuresTotal prometheus.Counter

	// Websocket metrics
	wsConnectionsActive prometheus.Gauge
}

// NewMetrics creates all gateway metrics on the given registry. Tests
// pass a fresh registry so instances never collide.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "journalback_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "journalback_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		entriesServedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "journalback_entries_served_total",
				Help: "Total number of journal entries rendered to clients",
			},
		),
		decodeFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "journalback_decode_failures_total",
				Help: "Total number of export files that failed to decode",
			},
		),
		wsConnectionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "journalback_ws_connections_active",
				Help: "Currently open websocket streams",
			},
		),
	}
}

// RecordEntriesServed adds n to the served-entry counter.
func (m *Metrics) RecordEntriesServed(n int) {
	m.entriesServedTotal.Add(float64(n))
}

// RecordDecodeFailure counts one file that could not be decoded.
func (m *Metrics) RecordDecodeFailure() {
	m.decodeFailuresTotal.Inc()
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// InstrumentHandler wraps a handler with request count and duration
// metrics for a fixed endpoint label.
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		handler(rec, r)

		m.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(rec.status)).Inc()
		m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
	}
}
