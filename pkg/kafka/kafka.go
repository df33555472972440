package kafka

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/tammimikun/kids-worksheet-store/internal/config"
	"github.com/tammimikun/kids-worksheet-store/pkg/logger"
)

type contextKey string

const kafkaMetadataKey contextKey = "kafka_metadata"

// NewWriter returns a synchronous writer for the events topic after checking
// that every broker accepts a connection.
func NewWriter(cfg config.Events, log logger.Logger) (*kafka.Writer, error) {
	const op = "kafka.NewWriter"

	metadata := map[string]string{"topic": cfg.Topic}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		Async:        false,
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: cfg.WriteTimeout,
		Logger: kafka.LoggerFunc(func(msg string, args ...any) {
			ctx := context.WithValue(context.Background(), kafkaMetadataKey, metadata)
			log.LogAttrs(ctx, logger.DebugLevel, "kafka writer info",
				logger.String("message", fmt.Sprintf(msg, args...)),
			)
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			ctx := context.WithValue(context.Background(), kafkaMetadataKey, metadata)
			log.LogAttrs(ctx, logger.ErrorLevel, "kafka writer error",
				logger.String("error", fmt.Sprintf(msg, args...)),
			)
		}),
	}

	if err := checkKafkaConnection(cfg.Brokers, log); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return writer, nil
}

func checkKafkaConnection(brokers []string, log logger.Logger) error {
	const op = "kafka.checkKafkaConnection"

	dialer := &kafka.Dialer{}
	for _, broker := range brokers {
		conn, err := dialer.Dial("tcp", broker)
		if err != nil {
			return fmt.Errorf("%s: connect to %s: %w", op, broker, err)
		}

		if err = conn.Close(); err != nil {
			log.Warnw("failed to close connection",
				"operation", op,
				"broker", broker,
				"error", err)
		}
	}
	return nil
}
