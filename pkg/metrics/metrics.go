package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Intake outcomes
const (
	OutcomeOK            = "ok"
	OutcomeInvalid       = "invalid"
	OutcomeConflict      = "conflict"
	OutcomeNotConfigured = "not_configured"
	OutcomeStoreError    = "store_error"
)

// Metrics groups the collectors the service exports
type Metrics struct {
	Signups             *prometheus.CounterVec
	StoreInsertDuration prometheus.Histogram
	HTTPRequests        *prometheus.CounterVec
}

// New registers the collectors on registerer under namespace
func New(namespace string, registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)

	return &Metrics{
		Signups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "signups_total",
				Help:      "Waitlist intake attempts by outcome.",
			},
			[]string{"outcome"},
		),
		StoreInsertDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_insert_duration_seconds",
				Help:      "Duration of signup inserts against the store.",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
			},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route, method and status.",
			},
			[]string{"route", "method", "status"},
		),
	}
}

// Signup counts one intake attempt
func (m *Metrics) Signup(outcome string) {
	if m == nil {
		return
	}
	m.Signups.WithLabelValues(outcome).Inc()
}

// ObserveInsert records how long a store insert took
func (m *Metrics) ObserveInsert(seconds float64) {
	if m == nil {
		return
	}
	m.StoreInsertDuration.Observe(seconds)
}
