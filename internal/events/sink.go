package events

import (
	"context"
	"sync"

	"bomb_royale/internal/domain"
)

// Sink receives the events of committed invocations. Delivery is best
// effort: a sink logs its own failures and never reports them back.
type Sink interface {
	Publish(ctx context.Context, evs ...domain.Event)
}

// Multi fans events out to every sink, in order.
type Multi []Sink

func (m Multi) Publish(ctx context.Context, evs ...domain.Event) {
	for _, s := range m {
		if s != nil {
			s.Publish(ctx, evs...)
		}
	}
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(ctx context.Context, evs ...domain.Event)

func (f SinkFunc) Publish(ctx context.Context, evs ...domain.Event) {
	f(ctx, evs...)
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *Recorder) Publish(_ context.Context, evs ...domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evs...)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}

// Names returns the recorded event names, in order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.events))
	for i, e := range r.events {
		names[i] = e.Name
	}
	return names
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
