// Package eventbustest provides an isolated bus and a recording handler for tests.
package eventbustest

import (
	"context"
	"slices"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"

	"hrkernel/domain/shared"
	"hrkernel/infrastructure/eventbus"
)

// New returns a fresh bus that logs through t. Later options override the logger.
func New(t testing.TB, opts ...eventbus.Option) *eventbus.Bus {
	t.Helper()
	return eventbus.New(append([]eventbus.Option{eventbus.WithLogger(zaptest.NewLogger(t))}, opts...)...)
}

// Recorder is a Handler that keeps every event it receives.
type Recorder struct {
	name   string
	mu     sync.Mutex
	events []shared.DomainEvent
}

func NewRecorder(name string) *Recorder {
	return &Recorder{name: name}
}

func (r *Recorder) Handle(_ context.Context, event shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Name() string { return r.name }

// Events returns the received events in arrival order.
func (r *Recorder) Events() []shared.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Types returns the event types received, in arrival order.
func (r *Recorder) Types() []string {
	events := r.Events()
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.EventType()
	}
	return types
}

// Subscribe registers a new recorder on bus for every given event type.
func Subscribe(t testing.TB, bus *eventbus.Bus, name string, eventTypes ...string) *Recorder {
	t.Helper()
	rec := NewRecorder(name)
	for _, et := range eventTypes {
		if err := bus.Subscribe(et, rec); err != nil {
			t.Fatalf("subscribe %s to %s: %v", name, et, err)
		}
	}
	return rec
}
