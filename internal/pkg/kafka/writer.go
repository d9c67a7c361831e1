package kafka

import (
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// NewWriter returns a writer that hashes message keys onto partitions,
// keeping per-key ordering.
func NewWriter(brokers []string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
}
