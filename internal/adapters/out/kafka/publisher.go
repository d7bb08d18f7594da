// Package kafka implements the EventPublisher port on top of a Kafka topic.
// Status change events are keyed by order ID so that all events of one order
// land in the same partition and stay ordered.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"returns/internal/core/domain/model/order"

	"github.com/segmentio/kafka-go"
)

// Publisher writes order status change events to Kafka.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a publisher writing to the given brokers and topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

type statusChangedMessage struct {
	OrderID string    `json:"order_id"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	At      time.Time `json:"at"`
}

// PublishStatusChanged emits the given status change events in order.
func (p *Publisher) PublishStatusChanged(ctx context.Context, events []order.StatusChangedEvent) error {
	if len(events) == 0 {
		return nil
	}

	messages := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		value, err := json.Marshal(statusChangedMessage{
			OrderID: event.OrderID.String(),
			From:    event.From.String(),
			To:      event.To.String(),
			At:      event.At,
		})
		if err != nil {
			return err
		}

		messages = append(messages, kafka.Message{
			Key:   []byte(event.OrderID.String()),
			Value: value,
		})
	}

	return p.writer.WriteMessages(ctx, messages...)
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
