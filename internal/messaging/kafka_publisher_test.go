package messaging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akylbek/payment-system/payways/internal/interfaces"
	"github.com/akylbek/payment-system/payways/internal/models"
)

var (
	_ interfaces.EventPublisher = (*KafkaPublisher)(nil)
	_ interfaces.EventPublisher = LogPublisher{}
)

func TestNewKafkaPublisher(t *testing.T) {
	p := NewKafkaPublisher("kafka-1:9092,kafka-2:9092", "payment.state.changed")
	defer p.Close()

	assert.Equal(t, "payment.state.changed", p.writer.Topic)
	assert.True(t, p.writer.Async)
}

func TestLogPublisher(t *testing.T) {
	err := LogPublisher{}.Publish(context.Background(), "session-1", models.StateChangedEvent{State: models.StateIdle})
	assert.NoError(t, err)
}
