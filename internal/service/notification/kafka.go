package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/proposal"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type kafkaNotifier struct {
	writer MessageWriter
	topic  string
}

// NewKafkaNotifier publishes lifecycle events keyed by proposal id,
// so every event of one proposal lands on the same partition in order.
func NewKafkaNotifier(writer MessageWriter, topic string) proposal.Notifier {
	if topic == "" {
		topic = proposal.LifecycleTopic
	}
	return &kafkaNotifier{writer: writer, topic: topic}
}

func (n *kafkaNotifier) Notify(ctx context.Context, event proposal.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode proposal event: %w", err)
	}

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Topic: n.topic,
		Key:   []byte(event.ProposalID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "proposal_kind", Value: []byte(event.Kind)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish %s to %s: %w", event.Type, n.topic, err)
	}
	return nil
}
