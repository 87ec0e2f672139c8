package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"order-tracking-service/internal/model"

	kafkago "github.com/segmentio/kafka-go"
)

// MessageWriter es el subconjunto de *kafka.Writer que usa el publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// NewWriter crea un writer con la configuración mínima: ack solo del líder.
func NewWriter(brokers []string, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.LeastBytes{},
		RequiredAcks:           kafkago.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

type Publisher struct {
	writer MessageWriter
}

func NewPublisher(w MessageWriter) *Publisher {
	return &Publisher{writer: w}
}

// Publish usa el tracking id como key para que los eventos de una orden
// caigan siempre en la misma partición.
func (p *Publisher) Publish(ctx context.Context, event model.OrderEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(event.TrackingID),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafkago.Header{
			{Key: "event", Value: []byte(event.Event)},
		},
	})
	if err != nil {
		return fmt.Errorf("write %s to kafka: %w", event.Event, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
