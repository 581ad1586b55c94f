package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the verification service
type Metrics struct {
	VerificationAttempts *prometheus.CounterVec
	ExternalLatency      *prometheus.HistogramVec
	RateLimitDegraded    prometheus.Counter
	RateLimitRejected    prometheus.Counter
}

// New creates and registers all collectors on reg. Pass prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		VerificationAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aeobro_verification_attempts_total",
			Help: "Verification attempts by method and outcome",
		}, []string{"method", "outcome"}),
		ExternalLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aeobro_verification_external_seconds",
			Help:    "Latency of outbound calls made while verifying (dns, fetch, provider)",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 8},
		}, []string{"kind"}),
		RateLimitDegraded: factory.NewCounter(prometheus.CounterOpts{
			Name: "aeobro_ratelimit_degraded_total",
			Help: "Requests allowed because the rate limit store was unavailable",
		}),
		RateLimitRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "aeobro_ratelimit_rejected_total",
			Help: "Requests rejected by the fixed-window rate limiter",
		}),
	}
}

// ObserveAttempt counts one verification attempt. Safe on a nil receiver.
func (m *Metrics) ObserveAttempt(method, outcome string) {
	if m == nil {
		return
	}
	m.VerificationAttempts.WithLabelValues(method, outcome).Inc()
}

// ObserveExternal records the duration of an outbound call started at start.
func (m *Metrics) ObserveExternal(kind string, start time.Time) {
	if m == nil {
		return
	}
	m.ExternalLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// IncDegraded counts a fail-open rate limit decision.
func (m *Metrics) IncDegraded() {
	if m == nil {
		return
	}
	m.RateLimitDegraded.Inc()
}

// IncRejected counts a rate limit rejection.
func (m *Metrics) IncRejected() {
	if m == nil {
		return
	}
	m.RateLimitRejected.Inc()
}
