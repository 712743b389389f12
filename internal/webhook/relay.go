package webhook

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the slice of kafka.Writer the relay uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Relay forwards verified webhook events onto a Kafka topic so
// downstream consumers see the same stream the platform delivers, in
// the same at-least-once terms.
type Relay struct {
	writer MessageWriter
}

func NewRelay(brokers []string, topic string) *Relay {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Relay{writer: w}
}

// NewRelayWithWriter wires a custom writer; tests use it.
func NewRelayWithWriter(w MessageWriter) *Relay {
	return &Relay{writer: w}
}

// Publish writes one webhook event. Keying by webhook topic keeps each
// topic's events in order for partition-aware consumers.
func (r *Relay) Publish(ctx context.Context, topic, shop string, body []byte) error {
	msg := kafka.Message{
		Key:   []byte(topic),
		Value: body,
		Headers: []kafka.Header{
			{Key: "webhook-topic", Value: []byte(topic)},
			{Key: "shop-domain", Value: []byte(shop)},
			{Key: "event-id", Value: []byte(uuid.NewString())},
		},
	}
	if err := r.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("relay webhook event: %w", err)
	}
	return nil
}

func (r *Relay) Close() error {
	return r.writer.Close()
}
