package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var _ Webhook = (*webhookMetrics)(nil)

type webhookMetrics struct {
	outcomes *prometheus.CounterVec
	duration prometheus.Histogram
}

func newWebhookMetrics(registry *promRegistry) *webhookMetrics {
	outcomes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_notifications_total",
			Help: "Total number of payment notifications by outcome and reason",
		},
		[]string{"outcome", "reason"},
	)

	duration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "webhook_reconcile_duration_seconds",
			Help:    "Time spent reconciling one payment notification",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 15.0, 30.0},
		},
	)

	registry.registry.MustRegister(outcomes, duration)

	return &webhookMetrics{
		outcomes: outcomes,
		duration: duration,
	}
}

func (m *webhookMetrics) Outcome(outcome, reason string) {
	m.outcomes.WithLabelValues(outcome, reason).Add(1)
}

func (m *webhookMetrics) ObserveDuration(duration time.Duration) {
	m.duration.Observe(duration.Seconds())
}
