// Package kafka publishes ledger events to a kafka topic.
package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/go-ledger/bank-api/internal/events"
)

// Topic receives transaction completed events.
const Topic = "transaction.completed"

// Publisher writes ledger events to kafka.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher returns a Publisher writing to the given brokers.
func NewPublisher(brokers ...string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    Topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// Publish implements events.Publisher.
func (p *Publisher) Publish(ctx context.Context, event events.TransactionCompleted) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{Value: data})
}

// Close releases the underlying kafka writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
