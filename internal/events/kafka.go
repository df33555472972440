package events

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/tammimikun/kids-worksheet-store/internal/entity"
	"github.com/tammimikun/kids-worksheet-store/pkg/logger"
	"github.com/tammimikun/kids-worksheet-store/pkg/metric"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher keys messages by normalized order id so events of one order
// land on one partition.
type KafkaPublisher struct {
	writer  messageWriter
	log     logger.Logger
	metrics metric.Events
}

func NewKafkaPublisher(writer messageWriter, log logger.Logger, metrics metric.Events) *KafkaPublisher {
	return &KafkaPublisher{
		writer:  writer,
		log:     log,
		metrics: metrics,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event *entity.PaymentEvent) error {
	const op = "events.KafkaPublisher.Publish"

	value, err := encode(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.NormalizedOrderID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		p.metrics.PublishFailed(DriverKafka, string(event.Type))
		return fmt.Errorf("%s: write: %w", op, err)
	}

	p.metrics.Published(DriverKafka, string(event.Type))
	p.log.LogAttrs(ctx, logger.DebugLevel, "event published",
		logger.String("type", string(event.Type)),
		logger.String("order_id", event.OrderID),
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("events.KafkaPublisher.Close: %w", err)
	}
	return nil
}
