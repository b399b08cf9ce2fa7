// Package broker ships domain events to Kafka.
//
// It is off unless KAFKA_BROKERS is set. When on, Forward subscribes to
// events on a dispatcher and writes each one as a JSON message keyed by
// the event key.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/shashiranjanraj/cakeshop/config"
	"github.com/shashiranjanraj/cakeshop/pkg/event"
	"github.com/shashiranjanraj/cakeshop/pkg/logger"
)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Envelope is the JSON body of every published message.
type Envelope struct {
	Event      string      `json:"event"`
	Key        string      `json:"key"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

// Publisher writes events to one topic.
type Publisher struct {
	w   MessageWriter
	now func() time.Time
}

// NewKafkaWriter builds a writer for brokers/topic.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
}

func NewPublisher(w MessageWriter) *Publisher {
	return &Publisher{w: w, now: time.Now}
}

// FromConfig returns a publisher for KAFKA_BROKERS / ORDER_EVENTS_TOPIC, or
// nil when no brokers are configured.
func FromConfig() *Publisher {
	brokers := config.KafkaBrokers()
	if len(brokers) == 0 {
		return nil
	}
	return NewPublisher(NewKafkaWriter(brokers, config.OrderEventsTopic()))
}

// Publish writes e as one message.
func (p *Publisher) Publish(ctx context.Context, e event.Event) error {
	body, err := json.Marshal(Envelope{
		Event:      e.Name,
		Key:        e.Key,
		OccurredAt: p.now().UTC(),
		Data:       e.Payload,
	})
	if err != nil {
		return fmt.Errorf("broker: marshal %s: %w", e.Name, err)
	}

	msg := kafka.Message{Key: []byte(e.Key), Value: body}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("broker: write %s: %w", e.Key, err)
	}
	return nil
}

// Forward publishes every event named in names that d dispatches. Write
// failures are logged; events are never retried.
func (p *Publisher) Forward(d *event.Dispatcher, names ...string) {
	for _, name := range names {
		d.Listen(name, func(ctx context.Context, e event.Event) {
			ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			if err := p.Publish(ctx, e); err != nil {
				logger.WithCtx(ctx).Warn("broker: publish failed", "event", e.Name, "key", e.Key, "error", err)
			}
		})
	}
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.w.Close()
}
