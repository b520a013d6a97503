// Package kafka publishes ledger lifecycle events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/leanledger/leanledger/internal/ledger/records"
)

// TopicRecordReconciled carries one message per applied changeset.
const TopicRecordReconciled = "ledger.record.reconciled"

// Publisher writes record events to Kafka. It satisfies the records
// service's EventPort.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher connects a writer to the given brokers.
func NewPublisher(brokers []string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    TopicRecordReconciled,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

type envelope struct {
	EventID string                  `json:"event_id"`
	Event   records.ReconciledEvent `json:"event"`
}

// RecordReconciled publishes one reconciliation summary. Messages are
// keyed by record id so consumers see a record's events in order.
func (p *Publisher) RecordReconciled(ctx context.Context, event records.ReconciledEvent) error {
	data, err := json.Marshal(envelope{EventID: uuid.NewString(), Event: event})
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte("record-" + strconv.FormatInt(event.RecordID, 10)),
		Value: data,
	})
}

// Close releases the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
