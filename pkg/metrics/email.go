package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSent    = "sent"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// EmailMetrics records outbound transactional email dispatches.
type EmailMetrics struct {
	duration   *prometheus.HistogramVec
	dispatches *prometheus.CounterVec
}

// NewEmailMetrics registers the email metrics on the provided registerer.
func NewEmailMetrics(reg prometheus.Registerer) *EmailMetrics {
	if reg == nil {
		return &EmailMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "email_dispatch_duration_seconds",
		Help:    "Duration of email provider calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	dispatches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "email_dispatch_total",
		Help: "Email dispatches by message kind and outcome.",
	}, []string{"kind", "outcome"})
	reg.MustRegister(duration, dispatches)
	return &EmailMetrics{
		duration:   duration,
		dispatches: dispatches,
	}
}

// ObserveDuration records how long the provider call for kind took.
func (m *EmailMetrics) ObserveDuration(kind string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(kind)).Observe(d.Seconds())
}

// Inc records one dispatch of kind with the given outcome.
func (m *EmailMetrics) Inc(kind, outcome string) {
	if m == nil || m.dispatches == nil {
		return
	}
	m.dispatches.WithLabelValues(normalizeLabel(kind), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
