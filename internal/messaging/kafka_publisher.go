package messaging

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payways/internal/telemetry"
)

// KafkaPublisher writes submission state events to a topic. Writes are
// asynchronous so a slow broker never holds up a payment; delivery errors
// are logged from the completion callback.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:     kafka.TCP(strings.Split(brokers, ",")...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
		Async:    true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				telemetry.Logger.Error("Error writing state events to Kafka",
					zap.Int("messages", len(messages)),
					zap.Error(err),
				)
			}
		},
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, event any) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher is used when no broker is configured; it records events in
// the debug log only.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, key string, event any) error {
	telemetry.Logger.Debug("State event", zap.String("key", key), zap.Any("event", event))
	return nil
}
