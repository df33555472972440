package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var _ Invoice = (*invoiceMetrics)(nil)

type invoiceMetrics struct {
	sent     prometheus.Counter
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newInvoiceMetrics(registry *promRegistry) *invoiceMetrics {
	sent := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "invoice_dispatch_sent_total",
			Help: "Total number of invoices accepted by the email function",
		},
	)

	failures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoice_dispatch_failures_total",
			Help: "Total number of failed invoice dispatches by reason",
		},
		[]string{"reason"},
	)

	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "invoice_dispatch_duration_seconds",
			Help:    "Invoice dispatch duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		},
		[]string{"result"},
	)

	registry.registry.MustRegister(sent, failures, duration)

	return &invoiceMetrics{
		sent:     sent,
		failures: failures,
		duration: duration,
	}
}

func (m *invoiceMetrics) Sent(duration time.Duration) {
	m.sent.Inc()
	m.duration.WithLabelValues("sent").Observe(duration.Seconds())
}

func (m *invoiceMetrics) Failed(reason string, duration time.Duration) {
	m.failures.WithLabelValues(reason).Inc()
	m.duration.WithLabelValues("failed").Observe(duration.Seconds())
}
