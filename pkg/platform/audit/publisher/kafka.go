// Package publisher contains audit.Publisher implementations.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"veridoc/pkg/platform/audit"
)

// Kafka publishes audit events to a kafka topic, keyed by request ID so
// events from one request land on the same partition in order.
type Kafka struct {
	client *kgo.Client
	topic  string
}

// NewKafka connects to the given brokers and targets topic.
func NewKafka(brokers []string, topic string) (*Kafka, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	return &Kafka{client: client, topic: topic}, nil
}

// Publish delivers one event synchronously.
func (k *Kafka) Publish(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(event.RequestID),
		Value: payload,
	}
	if err := k.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// Close flushes and releases the kafka client.
func (k *Kafka) Close() {
	k.client.Close()
}
