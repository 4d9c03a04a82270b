package notify_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennyjar/pennyjar/internal/notify"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := notify.NewBus()

	received := make(chan notify.Event, 1)

	unsubscribe := bus.Subscribe("", func(ev notify.Event) {
		received <- ev
	})
	defer unsubscribe()

	childID := uuid.New()

	// Empty scope routes to the default household scope on both ends.
	bus.Publish(context.Background(), notify.Event{
		Collection: notify.CollectionTransactions,
		ChildID:    childID,
	})

	select {
	case ev := <-received:
		assert.Equal(t, notify.DefaultScope, ev.Scope)
		assert.Equal(t, notify.CollectionTransactions, ev.Collection)
		assert.Equal(t, childID, ev.ChildID)
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestBus_ScopeIsolation(t *testing.T) {
	bus := notify.NewBus()

	received := make(chan notify.Event, 1)

	unsubscribe := bus.Subscribe("family", func(ev notify.Event) {
		received <- ev
	})
	defer unsubscribe()

	bus.Publish(context.Background(), notify.Event{
		Scope:      "other-family",
		Collection: notify.CollectionRequests,
	})

	select {
	case ev := <-received:
		t.Fatalf("event leaked across scopes: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := notify.NewBus()

	received := make(chan notify.Event, 1)

	unsubscribe := bus.Subscribe("", func(ev notify.Event) {
		received <- ev
	})

	bus.Publish(context.Background(), notify.Event{Collection: notify.CollectionGoals})

	select {
	case <-received:
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}

	unsubscribe()
	// Unsubscribing twice is a no-op.
	unsubscribe()

	bus.Publish(context.Background(), notify.Event{Collection: notify.CollectionGoals})

	select {
	case ev := <-received:
		t.Fatalf("event delivered after unsubscribe: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBus_MultipleSubscribers(t *testing.T) {
	bus := notify.NewBus()

	first := make(chan notify.Event, 1)
	second := make(chan notify.Event, 1)

	unsub1 := bus.Subscribe("", func(ev notify.Event) { first <- ev })
	defer unsub1()

	unsub2 := bus.Subscribe("", func(ev notify.Event) { second <- ev })
	defer unsub2()

	bus.Publish(context.Background(), notify.Event{Collection: notify.CollectionRequests})

	for _, ch := range []chan notify.Event{first, second} {
		select {
		case ev := <-ch:
			require.Equal(t, notify.CollectionRequests, ev.Collection)
		case <-time.After(time.Second):
			t.Fatal("event was not delivered to all subscribers")
		}
	}
}
