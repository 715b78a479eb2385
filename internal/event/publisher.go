package event

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/nikolayk812/shopcore/internal/domain"
	"github.com/nikolayk812/shopcore/internal/port"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

const headerEventType = "event_type"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type OrderPublisher struct {
	writer messageWriter
}

var _ port.OrderEventPublisher = (*OrderPublisher)(nil)

// NewKafkaWriter builds a synchronous writer: WriteMessages returns once the
// leader acknowledged the batch.
func NewKafkaWriter(brokers []string, topic string, logger zerolog.Logger) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
		Transport: &kafka.Transport{
			Dial: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error().Str("component", "kafka_writer").Msgf(msg, args...)
		}),
	}
}

func NewOrderPublisher(writer messageWriter) *OrderPublisher {
	return &OrderPublisher{writer: writer}
}

// PublishOrderClosed keys the message by order uuid so events of one order
// stay on one partition.
func (p *OrderPublisher) PublishOrderClosed(ctx context.Context, event domain.OrderClosedEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderUUID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: headerEventType, Value: []byte(domain.EventTypeOrderClosed)},
		},
		Time: event.ClosedAt,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writer.WriteMessages: %w", err)
	}

	return nil
}

func (p *OrderPublisher) Close() error {
	return p.writer.Close()
}

func eventType(msg kafka.Message) string {
	for _, h := range msg.Headers {
		if h.Key == headerEventType {
			return string(h.Value)
		}
	}
	return ""
}
