// Package notify is the change-propagation port. Delivery is at-least-once
// and unordered; events tell subscribers that a collection changed, never
// what changed. Consumers re-read through the storage layer.
package notify

import (
	"context"

	"github.com/google/uuid"
)

// DefaultScope is the routing scope for the singleton household.
const DefaultScope = "family"

const (
	CollectionTransactions = "transactions"
	CollectionRequests     = "requests"
	CollectionGoals        = "goals"
	CollectionDebts        = "debts"
	CollectionFamily       = "family"
)

// Event is a "something changed, re-read" hint. It never carries values.
type Event struct {
	// Scope is the routing scope. Empty means DefaultScope.
	Scope      string    `json:"scope"`
	Collection string    `json:"collection"`
	ChildID    uuid.UUID `json:"child_id,omitempty"`
}

func (e Event) scopeOrDefault() string {
	if e.Scope == "" {
		return DefaultScope
	}

	return e.Scope
}

// Publisher emits change events. Publishing is fire-and-forget:
// implementations log delivery failures instead of returning them, and
// callers must not depend on delivery.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// Notifier is the full port: publish plus subscription. Subscribe returns an
// unsubscribe function.
type Notifier interface {
	Publisher
	Subscribe(scope string, fn func(Event)) (unsubscribe func())
}
