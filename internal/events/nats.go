package events

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/tammimikun/kids-worksheet-store/internal/config"
	"github.com/tammimikun/kids-worksheet-store/internal/entity"
	"github.com/tammimikun/kids-worksheet-store/pkg/logger"
	"github.com/tammimikun/kids-worksheet-store/pkg/metric"
)

type natsConn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// NATSPublisher publishes each event to <subject>.<event type>.
type NATSPublisher struct {
	conn    natsConn
	subject string
	log     logger.Logger
	metrics metric.Events
}

func DialNATS(cfg config.Events, log logger.Logger, metrics metric.Events) (*NATSPublisher, error) {
	const op = "events.DialNATS"

	conn, err := nats.Connect(cfg.NATSURL,
		nats.Name("kids-worksheet-payments"),
		nats.Timeout(cfg.WriteTimeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warnw("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Infow("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: connect: %w", op, err)
	}

	return NewNATSPublisher(conn, cfg.Subject, log, metrics), nil
}

func NewNATSPublisher(conn natsConn, subject string, log logger.Logger, metrics metric.Events) *NATSPublisher {
	return &NATSPublisher{
		conn:    conn,
		subject: subject,
		log:     log,
		metrics: metrics,
	}
}

func (p *NATSPublisher) Publish(ctx context.Context, event *entity.PaymentEvent) error {
	const op = "events.NATSPublisher.Publish"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	data, err := encode(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	subject := p.subject + "." + string(event.Type)
	if err := p.conn.Publish(subject, data); err != nil {
		p.metrics.PublishFailed(DriverNATS, string(event.Type))
		return fmt.Errorf("%s: publish %s: %w", op, subject, err)
	}

	p.metrics.Published(DriverNATS, string(event.Type))
	p.log.LogAttrs(ctx, logger.DebugLevel, "event published",
		logger.String("subject", subject),
		logger.String("order_id", event.OrderID),
	)
	return nil
}

func (p *NATSPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		return fmt.Errorf("events.NATSPublisher.Close: %w", err)
	}
	return nil
}
