// Package metrics provides Prometheus metrics for the HTTP API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's Prometheus collectors behind a private
// registry.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RefreshTotal    *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates and registers all metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studycal_requests_total",
				Help: "Total number of API requests by path and status.",
			},
			[]string{"path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "studycal_request_duration_seconds",
				Help:    "Request processing duration by path.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path"},
		),
		RefreshTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studycal_template_refresh_total",
				Help: "Template import refresh runs by result.",
			},
			[]string{"result"},
		),
		registry: reg,
	}

	reg.MustRegister(m.RequestsTotal)
	reg.MustRegister(m.RequestDuration)
	reg.MustRegister(m.RefreshTotal)

	return m
}

// Handler returns an http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest increments the request counter.
func (m *Metrics) RecordRequest(path, status string) {
	m.RequestsTotal.WithLabelValues(path, status).Inc()
}

// ObserveDuration records a request's processing time.
func (m *Metrics) ObserveDuration(path string, seconds float64) {
	m.RequestDuration.WithLabelValues(path).Observe(seconds)
}

// RecordRefresh increments the refresh counter.
func (m *Metrics) RecordRefresh(result string) {
	m.RefreshTotal.WithLabelValues(result).Inc()
}
