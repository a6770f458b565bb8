package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the generate and export counters
const (
	outcomeSuccess      = "success"
	outcomeInvalidInput = "invalid_input"
	outcomeFailure      = "failure"
)

// Metrics holds the server's prometheus collectors. Each instance owns its
// registry so servers in tests never collide on registration.
type Metrics struct {
	registry         *prometheus.Registry
	generateRequests *prometheus.CounterVec
	generateDuration *prometheus.HistogramVec
	exports          *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
}

// NewMetrics creates and registers the promptdeck collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		generateRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "promptdeck_generate_requests_total",
				Help: "Total number of generate requests",
			},
			[]string{"mode", "outcome"},
		),
		generateDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "promptdeck_generate_duration_seconds",
				Help:    "Duration of deck generation",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"mode"},
		),
		exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "promptdeck_exports_total",
				Help: "Total number of deck exports",
			},
			[]string{"format", "outcome"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "promptdeck_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "status"},
		),
	}

	m.registry.MustRegister(
		m.generateRequests,
		m.generateDuration,
		m.exports,
		m.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveGenerate records one generate request
func (m *Metrics) ObserveGenerate(mode, outcome string, elapsed time.Duration) {
	m.generateRequests.WithLabelValues(mode, outcome).Inc()
	if outcome == outcomeSuccess {
		m.generateDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
	}
}

// ObserveExport records one export attempt
func (m *Metrics) ObserveExport(format, outcome string) {
	m.exports.WithLabelValues(format, outcome).Inc()
}

// ObserveRequest records one served HTTP request
func (m *Metrics) ObserveRequest(method string, status int) {
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}
