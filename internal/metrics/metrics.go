// Package metrics declares the portal's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "grant_portal"

type Metrics struct {
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	Operations       *prometheus.CounterVec
	OperationErrors  *prometheus.CounterVec
	ScoreSubmissions prometheus.Counter
	Transitions      *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil registerer
// leaves them unregistered, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "service_operations_total",
			Help:      "Data access operations by backend and operation.",
		}, []string{"backend", "operation"}),
		OperationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "service_operation_errors_total",
			Help:      "Failed data access operations by backend and operation.",
		}, []string{"backend", "operation"}),
		ScoreSubmissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "score_submissions_total",
			Help:      "Committee score submissions.",
		}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "application_transitions_total",
			Help:      "Application status transitions by target status.",
		}, []string{"to"}),
	}
	if reg != nil {
		reg.MustRegister(
			m.HTTPRequests,
			m.HTTPDuration,
			m.Operations,
			m.OperationErrors,
			m.ScoreSubmissions,
			m.Transitions,
		)
	}
	return m
}

// Observe counts one data access call and its failure, if any.
func (m *Metrics) Observe(backend, operation string, err error) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(backend, operation).Inc()
	if err != nil {
		m.OperationErrors.WithLabelValues(backend, operation).Inc()
	}
}
