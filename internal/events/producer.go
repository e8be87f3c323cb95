// Package events publishes best-effort domain events to Kafka. Publishing
// never blocks a workflow outcome: failures are logged and dropped.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	UserRegistered = "user.registered"
	UserVerified   = "user.verified"
	BookingCreated = "booking.created"
)

// Publisher emits a keyed event. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, key string, payload interface{})
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) Publisher {
	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	})
	return &kafkaPublisher{writer: w, logger: logger}
}

func (p *kafkaPublisher) Publish(ctx context.Context, key string, payload interface{}) {
	value, err := json.Marshal(payload)
	if err != nil {
		p.logger.Warn("event payload not serializable", zap.String("key", key), zap.Error(err))
		return
	}
	msg := kafka.Message{Key: []byte(key), Value: value, Time: time.Now()}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Warn("event publish failed", zap.String("key", key), zap.Error(err))
	}
}

func (p *kafkaPublisher) Close() error { return p.writer.Close() }

// Nop is used when no brokers are configured and in tests.
type Nop struct{}

func (Nop) Publish(context.Context, string, interface{}) {}
func (Nop) Close() error                                 { return nil }
