package broker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/cakeshop/config"
	"github.com/shashiranjanraj/cakeshop/pkg/event"
)

type memWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (m *memWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, msgs...)
	return nil
}

func (m *memWriter) Close() error { return nil }

func TestPublishEnvelope(t *testing.T) {
	w := &memWriter{}
	p := NewPublisher(w)
	p.now = func() time.Time { return time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC) }

	err := p.Publish(context.Background(), event.Event{
		Name:    "order.created",
		Key:     "order.created.42",
		Payload: map[string]any{"id": 42, "status": "pending"},
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	assert.Equal(t, "order.created.42", string(w.msgs[0].Key))
	var env Envelope
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &env))
	assert.Equal(t, "order.created", env.Event)
	assert.Equal(t, "2024-02-03T04:05:06Z", env.OccurredAt.Format(time.RFC3339))
	assert.Equal(t, "pending", env.Data.(map[string]any)["status"])
}

func TestForwardSwallowsWriteErrors(t *testing.T) {
	w := &memWriter{err: errors.New("broker down")}
	p := NewPublisher(w)
	d := event.NewDispatcher()
	p.Forward(d, "order.status_changed")

	assert.NotPanics(t, func() {
		d.Fire(context.Background(), event.Event{Name: "order.status_changed", Key: "order.status_changed.1"})
	})

	w.err = nil
	d.Fire(context.Background(), event.Event{Name: "order.status_changed", Key: "order.status_changed.1"})
	d.Fire(context.Background(), event.Event{Name: "order.created", Key: "ignored"})
	assert.Len(t, w.msgs, 1)
}

func TestFromConfigDisabledWithoutBrokers(t *testing.T) {
	config.Override("KAFKA_BROKERS", "")
	assert.Nil(t, FromConfig())
	assert.NoError(t, (*Publisher)(nil).Close())
}
