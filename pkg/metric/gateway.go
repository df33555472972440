package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var _ Gateway = (*gatewayMetrics)(nil)

type gatewayMetrics struct {
	duration *prometheus.HistogramVec
	retries  *prometheus.CounterVec
	failures *prometheus.CounterVec
}

func newGatewayMetrics(registry *promRegistry) *gatewayMetrics {
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_call_duration_seconds",
			Help:    "Duration of payment gateway calls in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0},
		},
		[]string{"operation"},
	)

	retries := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_retries_total",
			Help: "Total number of gateway calls retried after an order id conflict",
		},
		[]string{"operation"},
	)

	failures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_failures_total",
			Help: "Total number of failed gateway calls",
		},
		[]string{"operation"},
	)

	registry.registry.MustRegister(duration, retries, failures)

	return &gatewayMetrics{
		duration: duration,
		retries:  retries,
		failures: failures,
	}
}

func (m *gatewayMetrics) ObserveDuration(operation string, duration time.Duration) {
	m.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *gatewayMetrics) IncrementRetries(operation string) {
	m.retries.WithLabelValues(operation).Add(1)
}

func (m *gatewayMetrics) IncrementFailures(operation string) {
	m.failures.WithLabelValues(operation).Add(1)
}
