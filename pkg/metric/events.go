package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

var _ Events = (*eventsMetrics)(nil)

type eventsMetrics struct {
	published *prometheus.CounterVec
	errors    *prometheus.CounterVec
}

func newEventsMetrics(registry *promRegistry) *eventsMetrics {
	published := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of payment events published",
		},
		[]string{"driver", "type"},
	)

	errors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_publish_errors_total",
			Help: "Total number of payment events that could not be published",
		},
		[]string{"driver", "type"},
	)

	registry.registry.MustRegister(published, errors)

	return &eventsMetrics{
		published: published,
		errors:    errors,
	}
}

func (m *eventsMetrics) Published(driver, eventType string) {
	m.published.WithLabelValues(driver, eventType).Add(1)
}

func (m *eventsMetrics) PublishFailed(driver, eventType string) {
	m.errors.WithLabelValues(driver, eventType).Add(1)
}
