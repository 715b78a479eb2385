package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nikolayk812/shopcore/internal/domain"
	"github.com/nikolayk812/shopcore/internal/port"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewKafkaReader(brokers []string, topic, groupID string, logger zerolog.Logger) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        time.Second,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: 5 * time.Second,
		Dialer: &kafka.Dialer{
			Timeout:   10 * time.Second,
			DualStack: true,
			KeepAlive: 30 * time.Second,
		},
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error().Str("component", "kafka_reader").Msgf(msg, args...)
		}),
	})
}

// OrderConsumer hands order events to a notifier. Offsets are committed only
// after the notifier accepted the event, a failed delivery stops the loop so
// the event is redelivered after restart.
type OrderConsumer struct {
	reader   messageReader
	notifier port.OrderNotifier
	logger   zerolog.Logger
}

func NewOrderConsumer(reader messageReader, notifier port.OrderNotifier, logger zerolog.Logger) *OrderConsumer {
	return &OrderConsumer{
		reader:   reader,
		notifier: notifier,
		logger:   logger.With().Str("component", "order_consumer").Logger(),
	}
}

// Run blocks until ctx is done or a message cannot be handled.
func (c *OrderConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("reader.FetchMessage: %w", err)
		}

		if err := c.handle(ctx, msg); err != nil {
			return fmt.Errorf("handle[offset=%d]: %w", msg.Offset, err)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("reader.CommitMessages: %w", err)
		}
	}
}

func (c *OrderConsumer) handle(ctx context.Context, msg kafka.Message) error {
	switch t := eventType(msg); t {
	case domain.EventTypeOrderClosed:
		var event domain.OrderClosedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			// a poison message is skipped, retrying it cannot succeed
			c.logger.Error().Err(err).Int64("offset", msg.Offset).Msg("malformed order event")
			return nil
		}

		if err := c.notifier.NotifyOrderClosed(ctx, event); err != nil {
			return fmt.Errorf("notifier.NotifyOrderClosed: %w", err)
		}
	default:
		c.logger.Warn().Str("event_type", t).Int64("offset", msg.Offset).Msg("unknown event type, skipped")
	}

	return nil
}

func (c *OrderConsumer) Close() error {
	return c.reader.Close()
}
