// Package events publishes ledger events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/JonMunkholm/BloodBank/internal/core"
)

// Publisher is a core.EventPublisher that can be closed.
type Publisher interface {
	core.EventPublisher
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher writes events to topic. Messages are keyed by
// Event.Key so one organisation's events stay ordered on one partition.
//
// Writes are asynchronous: Publish only enqueues, and delivery failures are
// logged from the writer's completion callback. Close flushes the queue.
func NewKafkaPublisher(brokers []string, topic string) Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Compression:  kafka.Snappy,
		Async:        true,
		Completion:   logDeliveryFailure,
	}

	return &kafkaPublisher{writer: writer}
}

func (p *kafkaPublisher) Publish(ctx context.Context, ev core.Event) error {
	msg, err := buildMessage(ev)
	if err != nil {
		return err
	}

	// The ledger write already happened; a cancelled request must not drop its event.
	if err := p.writer.WriteMessages(context.WithoutCancel(ctx), msg); err != nil {
		return fmt.Errorf("failed to enqueue %s event: %w", ev.Type, err)
	}
	return nil
}

// logDeliveryFailure is the async writer's completion callback.
func logDeliveryFailure(messages []kafka.Message, err error) {
	if err == nil {
		return
	}
	for _, m := range messages {
		slog.Warn("failed to deliver ledger event",
			"event_type", headerValue(m, "event-type"),
			"key", string(m.Key),
			"error", err,
		)
	}
}

func headerValue(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

func buildMessage(ev core.Event) (kafka.Message, error) {
	value, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal %s event: %w", ev.Type, err)
	}

	return kafka.Message{
		Key:   []byte(ev.Key),
		Value: value,
		Time:  ev.Timestamp,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(ev.Type)},
		},
	}, nil
}

type noopPublisher struct{}

// Noop drops every event. Used when no brokers are configured.
func Noop() Publisher { return noopPublisher{} }

func (noopPublisher) Publish(context.Context, core.Event) error { return nil }
func (noopPublisher) Close() error                              { return nil }
