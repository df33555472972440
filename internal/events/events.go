package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tammimikun/kids-worksheet-store/internal/config"
	"github.com/tammimikun/kids-worksheet-store/internal/entity"
	"github.com/tammimikun/kids-worksheet-store/pkg/kafka"
	"github.com/tammimikun/kids-worksheet-store/pkg/logger"
	"github.com/tammimikun/kids-worksheet-store/pkg/metric"
)

const (
	DriverNone  = "none"
	DriverKafka = "kafka"
	DriverNATS  = "nats"
)

// Publisher records payment events on the configured bus. Events are a record
// only; nothing in this service consumes them.
type Publisher interface {
	Publish(ctx context.Context, event *entity.PaymentEvent) error
	Close() error
}

func New(cfg config.Events, log logger.Logger, metrics metric.Events) (Publisher, error) {
	const op = "events.New"

	log = log.With("component", "events", "driver", cfg.Driver)

	switch cfg.Driver {
	case "", DriverNone:
		return Noop{}, nil
	case DriverKafka:
		writer, err := kafka.NewWriter(cfg, log)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return NewKafkaPublisher(writer, log, metrics), nil
	case DriverNATS:
		p, err := DialNATS(cfg, log, metrics)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%s: unknown driver %q", op, cfg.Driver)
	}
}

type Noop struct{}

func (Noop) Publish(context.Context, *entity.PaymentEvent) error { return nil }
func (Noop) Close() error                                        { return nil }

func encode(event *entity.PaymentEvent) ([]byte, error) {
	b, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("events.encode: %w", err)
	}
	return b, nil
}
