package event

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFireReachesOnlyMatchingListeners(t *testing.T) {
	d := NewDispatcher()
	var created, changed []string
	d.Listen("order.created", func(_ context.Context, e Event) { created = append(created, e.Key) })
	d.Listen("order.status_changed", func(_ context.Context, e Event) { changed = append(changed, e.Key) })

	d.Fire(context.Background(), Event{Name: "order.created", Key: "order.created.1"})

	assert.Equal(t, []string{"order.created.1"}, created)
	assert.Empty(t, changed)
}

func TestFireAsyncSurvivesCancelAndPanics(t *testing.T) {
	d := NewDispatcher()
	var calls atomic.Int32
	var sawCancel atomic.Bool

	d.Listen("x", func(ctx context.Context, _ Event) {
		if ctx.Err() != nil {
			sawCancel.Store(true)
		}
		calls.Add(1)
	})
	d.Listen("x", func(context.Context, Event) { panic("listener bug") })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.FireAsync(ctx, Event{Name: "x"})
	d.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, sawCancel.Load())
}

func TestFlush(t *testing.T) {
	d := NewDispatcher()
	called := false
	d.Listen("x", func(context.Context, Event) { called = true })
	d.Flush()
	d.Fire(context.Background(), Event{Name: "x"})
	assert.False(t, called)
}
