package metric

import (
	"net/http"
	"time"
)

type (
	Factory interface {
		HTTP() HTTP
		Gateway() Gateway
		Webhook() Webhook
		Invoice() Invoice
		Events() Events
		Cache() Cache
		Handler() http.Handler
	}

	HTTP interface {
		Request(method, path string, status int, duration time.Duration)
		SlowRequest(method, path string, status int, duration time.Duration)
	}

	Gateway interface {
		ObserveDuration(operation string, duration time.Duration)
		IncrementRetries(operation string)
		IncrementFailures(operation string)
	}

	Webhook interface {
		Outcome(outcome, reason string)
		ObserveDuration(duration time.Duration)
	}

	Invoice interface {
		Sent(duration time.Duration)
		Failed(reason string, duration time.Duration)
	}

	Events interface {
		Published(driver, eventType string)
		PublishFailed(driver, eventType string)
	}

	Cache interface {
		Hit(cacheType string)
		Miss(cacheType string)
		Eviction(cacheType string, reason string)
		Size(cacheType string, size int)
	}
)
