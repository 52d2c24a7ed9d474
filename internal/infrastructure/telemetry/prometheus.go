package telemetry

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values for outbound calls
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)

// PrometheusConfig holds configuration for the Prometheus collectors.
type PrometheusConfig struct {
	// Namespace is the prefix for all metrics.
	// Default: "site"
	Namespace string

	// IncludeRuntime registers the Go runtime and process collectors.
	IncludeRuntime bool

	// HistogramBuckets are the buckets for duration histograms.
	// Default: prometheus.DefBuckets
	HistogramBuckets []float64
}

// DefaultPrometheusConfig returns default configuration.
func DefaultPrometheusConfig() PrometheusConfig {
	return PrometheusConfig{
		Namespace:        "site",
		IncludeRuntime:   true,
		HistogramBuckets: prometheus.DefBuckets,
	}
}

// Metrics holds the Prometheus collectors for inbound HTTP requests and
// outbound calls to Odoo, the mail providers, the company registry and the LLM.
//
// A nil *Metrics is valid and records nothing.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	outboundCallsTotal  *prometheus.CounterVec
	outboundDuration    *prometheus.HistogramVec
}

// NewMetrics creates the collectors on a dedicated registry
func NewMetrics(cfg PrometheusConfig) *Metrics {
	if cfg.Namespace == "" {
		cfg.Namespace = "site"
	}
	if len(cfg.HistogramBuckets) == 0 {
		cfg.HistogramBuckets = prometheus.DefBuckets
	}

	// A dedicated registry keeps tests independent of the global default
	registry := prometheus.NewRegistry()
	if cfg.IncludeRuntime {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds.",
				Buckets:   cfg.HistogramBuckets,
			},
			[]string{"method", "route"},
		),
		outboundCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "outbound",
				Name:      "calls_total",
				Help:      "Total number of calls made to upstream services.",
			},
			[]string{"service", "operation", "outcome"},
		),
		outboundDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "outbound",
				Name:      "call_duration_seconds",
				Help:      "Duration of calls to upstream services in seconds.",
				Buckets:   cfg.HistogramBuckets,
			},
			[]string{"service", "operation"},
		),
	}

	registry.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.outboundCallsTotal,
		m.outboundDuration,
	)
	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler returns the scrape handler for the registry
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTP records one handled HTTP request
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveOutbound records one call to an upstream service
func (m *Metrics) ObserveOutbound(service, operation string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.outboundCallsTotal.WithLabelValues(service, operation, Outcome(err)).Inc()
	m.outboundDuration.WithLabelValues(service, operation).Observe(d.Seconds())
}

// Outcome classifies an error into an outcome label value
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case isTimeout(err):
		return OutcomeTimeout
	default:
		return OutcomeError
	}
}

func isTimeout(err error) bool {
	var timeout interface{ Timeout() bool }
	if errors.As(err, &timeout) && timeout.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
