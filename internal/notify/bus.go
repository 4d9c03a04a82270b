package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Bus is the in-process Notifier used when AMQP is not configured. It serves
// same-process subscribers only; cross-device delivery needs the AMQP
// notifier.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]chan Event
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[int]chan Event)}
}

func (b *Bus) Publish(_ context.Context, ev Event) {
	scope := ev.scopeOrDefault()
	ev.Scope = scope

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs[scope] {
		select {
		case ch <- ev:
		default:
			// Subscriber is not keeping up. Dropping is allowed: delivery
			// is best effort and consumers re-read on the next event.
			slog.Warn("dropping change event for slow subscriber",
				"scope", scope, "collection", ev.Collection)
		}
	}
}

func (b *Bus) Subscribe(scope string, fn func(Event)) func() {
	if scope == "" {
		scope = DefaultScope
	}

	ch := make(chan Event, 16)

	b.mu.Lock()
	if b.subs[scope] == nil {
		b.subs[scope] = make(map[int]chan Event)
	}

	id := b.nextID
	b.nextID++
	b.subs[scope][id] = ch
	b.mu.Unlock()

	done := make(chan struct{})

	go func() {
		for {
			select {
			case ev := <-ch:
				fn(ev)
			case <-done:
				return
			}
		}
	}()

	var once sync.Once

	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[scope], id)
			b.mu.Unlock()
			close(done)
		})
	}
}
