package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Factory = (*prometheusFactory)(nil)

type prometheusFactory struct {
	registry *promRegistry
	http     *httpMetrics
	gateway  *gatewayMetrics
	webhook  *webhookMetrics
	invoice  *invoiceMetrics
	events   *eventsMetrics
	cache    *cacheMetrics
}

func NewFactory() Factory {
	registry := newPromRegistry()

	return &prometheusFactory{
		registry: registry,
		http:     newHTTPMetrics(registry),
		gateway:  newGatewayMetrics(registry),
		webhook:  newWebhookMetrics(registry),
		invoice:  newInvoiceMetrics(registry),
		events:   newEventsMetrics(registry),
		cache:    newCacheMetrics(registry),
	}
}

func (f *prometheusFactory) HTTP() HTTP {
	return f.http
}

func (f *prometheusFactory) Gateway() Gateway {
	return f.gateway
}

func (f *prometheusFactory) Webhook() Webhook {
	return f.webhook
}

func (f *prometheusFactory) Invoice() Invoice {
	return f.invoice
}

func (f *prometheusFactory) Events() Events {
	return f.events
}

func (f *prometheusFactory) Cache() Cache {
	return f.cache
}

func (f *prometheusFactory) Handler() http.Handler {
	return promhttp.HandlerFor(f.registry.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		})
}

type promRegistry struct {
	registry *prometheus.Registry
}

func newPromRegistry() *promRegistry {
	reg := prometheus.NewRegistry()

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &promRegistry{registry: reg}
}
