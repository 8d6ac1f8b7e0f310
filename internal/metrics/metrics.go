// Package metrics provides Prometheus metrics for the attrition relay.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Default metrics configuration constants.
const (
	defaultNamespace = "attrition_relay"

	// LabelOther buckets predictor outputs that are neither "Yes" nor "No".
	LabelOther = "other"
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithPrometheusRegistry sets the registry metrics are registered with.
func WithPrometheusRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// Manager owns the relay's collectors. Each Manager has its own registry so
// tests can build as many as they like.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	predictions       *prometheus.CounterVec
	predictorFailures prometheus.Counter
	predictorLatency  prometheus.Histogram
	sheetAppends      *prometheus.CounterVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: defaultNamespace,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.predictions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "predictions_total",
		Help:      "Successful predictions by label.",
	}, []string{"label"})
	m.predictorFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "predictor_failures_total",
		Help:      "Failed predictor invocations.",
	})
	m.predictorLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "predictor_duration_seconds",
		Help:      "Predictor invocation latency.",
		Buckets:   prometheus.DefBuckets,
	})
	m.sheetAppends = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "sheet_appends_total",
		Help:      "Row appends by result.",
	}, []string{"result"})
	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})
	m.httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route, method and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method", "status"})

	m.registry.MustRegister(
		m.predictions,
		m.predictorFailures,
		m.predictorLatency,
		m.sheetAppends,
		m.httpRequests,
		m.httpRequestDuration,
	)

	return m
}

// Registry returns the registry backing this manager.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the exposition format for this manager's registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordPrediction records a predictor call outcome.
func (m *Manager) RecordPrediction(label string, elapsed time.Duration, err error) {
	m.predictorLatency.Observe(elapsed.Seconds())
	if err != nil {
		m.predictorFailures.Inc()
		return
	}
	m.predictions.WithLabelValues(predictionLabel(label)).Inc()
}

// predictionLabel keeps the label set bounded whatever the predictor prints.
func predictionLabel(label string) string {
	switch label {
	case "Yes", "No":
		return label
	default:
		return LabelOther
	}
}

// RecordSheetAppend records a sheet append outcome.
func (m *Manager) RecordSheetAppend(err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.sheetAppends.WithLabelValues(result).Inc()
}

// RecordHTTPRequest records a finished HTTP request.
func (m *Manager) RecordHTTPRequest(route, method, status string, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(route, method, status).Inc()
	m.httpRequestDuration.WithLabelValues(route, method, status).Observe(elapsed.Seconds())
}
