// Package event is an in-process event dispatcher.
//
// Services fire domain events (order.created, order.status_changed);
// listeners such as the Kafka forwarder in pkg/broker subscribe by name.
package event

import (
	"context"
	"sync"

	"github.com/shashiranjanraj/cakeshop/pkg/logger"
)

// Event is one occurrence. Key identifies the subject (e.g. "order.12")
// and doubles as the message key on external transports.
type Event struct {
	Name    string
	Key     string
	Payload interface{}
}

// Handler receives an event.
type Handler func(ctx context.Context, e Event)

// Dispatcher fans events out to the handlers registered for their name.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	wg       sync.WaitGroup
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: map[string][]Handler{}}
}

// Listen registers a handler for the given event name.
func (d *Dispatcher) Listen(name string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = append(d.handlers[name], h)
}

func (d *Dispatcher) snapshot(name string) []Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	hs := make([]Handler, len(d.handlers[name]))
	copy(hs, d.handlers[name])
	return hs
}

// Fire dispatches e synchronously to all registered listeners.
func (d *Dispatcher) Fire(ctx context.Context, e Event) {
	for _, h := range d.snapshot(e.Name) {
		h(ctx, e)
	}
}

// FireAsync dispatches e to every listener on its own goroutine and returns
// immediately. Listeners get a context detached from the caller's
// cancellation so they outlive the request. A panicking listener is logged
// and does not take the process down.
func (d *Dispatcher) FireAsync(ctx context.Context, e Event) {
	detached := context.WithoutCancel(ctx)
	for _, h := range d.snapshot(e.Name) {
		d.wg.Add(1)
		go func(h Handler) {
			defer d.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logger.WithCtx(detached).Error("event: listener panicked", "event", e.Name, "panic", r)
				}
			}()
			h(detached, e)
		}(h)
	}
}

// Wait blocks until every FireAsync listener has returned.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// Flush removes all listeners.
func (d *Dispatcher) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = map[string][]Handler{}
}
