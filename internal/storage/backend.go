// Package storage defines the backend contract shared by the remote
// (Postgres) and local fallback (SQLite) implementations, the failover
// policy between them, and the journal replay that migrates fallback writes
// back to the remote side.
package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pennyjar/pennyjar/internal/family"
	"github.com/pennyjar/pennyjar/internal/goal"
	"github.com/pennyjar/pennyjar/internal/ledger"
	"github.com/pennyjar/pennyjar/internal/request"
)

// Backend is the union of the per-domain repositories. All components read
// and write exclusively through it; none of them know which implementation
// is live.
type Backend interface {
	family.Repository
	ledger.Repository
	request.Repository
	goal.Repository

	Ping(ctx context.Context) error
	Close() error
}

// Journal collection tags. They address the logical record namespaces, one
// list per child plus the family singleton.
const (
	CollectionFamily       = "family"
	CollectionTransactions = "transactions"
	CollectionRequests     = "requests"
	CollectionGoals        = "goals"
	CollectionDebts        = "debts"
)

// JournalEntry is one write that landed on the fallback backend while the
// remote was unreachable.
type JournalEntry struct {
	ID         int64
	Collection string
	Payload    json.RawMessage
	CreatedAt  time.Time
}

// Journal is the outbox kept by the fallback backend. Entries stay queued
// until the reconciler has replayed them against the remote backend.
type Journal interface {
	Enqueue(ctx context.Context, collection string, payload any) error
	Pending(ctx context.Context, limit int) ([]JournalEntry, error)
	MarkDone(ctx context.Context, id int64) error
}

// Replayer is what the reconciler needs from the remote backend. Every
// method must be idempotent: entries carry stable UUIDs and may be replayed
// more than once.
type Replayer interface {
	Ping(ctx context.Context) error
	SaveFamily(ctx context.Context, f *family.Family) error
	AppendTransaction(ctx context.Context, tx *ledger.Transaction) error
	UpsertRequest(ctx context.Context, req *request.Request) error
	UpsertGoal(ctx context.Context, g *goal.Goal) error
	CreateDebt(ctx context.Context, debt *request.Debt) error
}
