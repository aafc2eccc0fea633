package telemetry

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	ProviderAttempts *prometheus.CounterVec
	AuthzDecisions   *prometheus.CounterVec
}

// NewMetrics creates metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fulfillment_requests_total",
				Help: "Total number of HTTP requests by route and status code",
			},
			[]string{"route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fulfillment_request_duration_seconds",
				Help:    "HTTP request duration in seconds by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		ProviderAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fulfillment_provider_attempts_total",
				Help: "Carrier transaction attempts by provider, chain position and outcome",
			},
			[]string{"provider", "tag", "outcome"},
		),
		AuthzDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fulfillment_authz_decisions_total",
				Help: "Admin authorization decisions by result and reason",
			},
			[]string{"result", "reason"},
		),
	}
}

// RecordRequest records a request metric.
func (m *Metrics) RecordRequest(route string, status int, duration float64) {
	m.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(duration)
}

// ObserveAttempt records one transaction attempt.
func (m *Metrics) ObserveAttempt(provider, tag string, succeeded bool) {
	outcome := "failure"
	if succeeded {
		outcome = "success"
	}
	m.ProviderAttempts.WithLabelValues(provider, tag, outcome).Inc()
}

// ObserveDecision records one authorization decision.
func (m *Metrics) ObserveDecision(allowed bool, reason string) {
	result := "denied"
	if allowed {
		result = "allowed"
	}
	m.AuthzDecisions.WithLabelValues(result, reason).Inc()
}
