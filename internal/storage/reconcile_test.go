package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennyjar/pennyjar/internal/family"
	"github.com/pennyjar/pennyjar/internal/goal"
	"github.com/pennyjar/pennyjar/internal/request"
	"github.com/pennyjar/pennyjar/internal/storage"
	"github.com/pennyjar/pennyjar/internal/storage/memory"
)

// down wraps a Replayer behind a failing liveness probe.
type down struct {
	storage.Replayer
}

func (down) Ping(context.Context) error {
	return errors.New("connection refused")
}

func testConfig() storage.ReconcilerConfig {
	return storage.ReconcilerConfig{
		Interval:     time.Hour,
		BatchSize:    10,
		ProbeTimeout: time.Second,
	}
}

func TestReconciler_RunOnce_DrainsJournal(t *testing.T) {
	ctx := context.Background()

	journal := newFakeJournal()
	remote := memory.New()

	childID := uuid.New()
	now := time.Now().UTC()

	fam := &family.Family{ID: uuid.New(), Name: "My Family", CreatedAt: now}
	tx := entry(childID)
	req := &request.Request{
		ID:        uuid.New(),
		ChildID:   childID,
		Kind:      request.KindPurchase,
		Status:    request.StatusApproved,
		Amount:    decimal.NewFromInt(30),
		CreatedAt: now,
	}
	g := &goal.Goal{
		ID:            uuid.New(),
		ChildID:       childID,
		Name:          "New bike",
		TargetAmount:  decimal.NewFromInt(120),
		CurrentAmount: decimal.NewFromInt(20),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	debt := &request.Debt{
		ID:        uuid.New(),
		ChildID:   childID,
		Amount:    decimal.NewFromInt(40),
		Status:    request.DebtStatusPending,
		CreatedAt: now,
	}

	require.NoError(t, journal.Enqueue(ctx, storage.CollectionFamily, fam))
	require.NoError(t, journal.Enqueue(ctx, storage.CollectionTransactions, tx))
	require.NoError(t, journal.Enqueue(ctx, storage.CollectionRequests, req))
	require.NoError(t, journal.Enqueue(ctx, storage.CollectionGoals, g))
	require.NoError(t, journal.Enqueue(ctx, storage.CollectionDebts, debt))

	r := storage.NewReconciler(journal, remote, testConfig())

	replayed, err := r.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, replayed)

	// Everything landed on the remote backend.
	gotFam, err := remote.GetFamily(ctx)
	require.NoError(t, err)
	assert.Equal(t, fam.ID, gotFam.ID)

	txs, err := remote.ListTransactions(ctx, childID)
	require.NoError(t, err)
	assert.Len(t, txs, 1)

	gotReq, err := remote.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, request.StatusApproved, gotReq.Status)

	gotGoal, err := remote.GetGoal(ctx, childID, g.ID)
	require.NoError(t, err)
	assert.True(t, gotGoal.CurrentAmount.Equal(g.CurrentAmount))

	debts, err := remote.ListDebts(ctx, childID)
	require.NoError(t, err)
	assert.Len(t, debts, 1)

	// The journal is fully drained.
	pending, err := journal.Pending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestReconciler_RunOnce_Idempotent(t *testing.T) {
	ctx := context.Background()

	journal := newFakeJournal()
	remote := memory.New()

	childID := uuid.New()
	tx := entry(childID)

	// The same write journaled twice, as after a crash between replay and
	// mark-done.
	require.NoError(t, journal.Enqueue(ctx, storage.CollectionTransactions, tx))
	require.NoError(t, journal.Enqueue(ctx, storage.CollectionTransactions, tx))

	r := storage.NewReconciler(journal, remote, testConfig())

	replayed, err := r.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, replayed)

	txs, err := remote.ListTransactions(ctx, childID)
	require.NoError(t, err)
	assert.Len(t, txs, 1, "replay must not duplicate entries")
}

func TestReconciler_RunOnce_RemoteStillDown(t *testing.T) {
	ctx := context.Background()

	journal := newFakeJournal()
	require.NoError(t, journal.Enqueue(ctx, storage.CollectionTransactions, entry(uuid.New())))

	r := storage.NewReconciler(journal, down{memory.New()}, testConfig())

	replayed, err := r.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, replayed)

	// The entry stays queued for the next cycle.
	pending, err := journal.Pending(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestReconciler_StartStop(t *testing.T) {
	journal := newFakeJournal()
	r := storage.NewReconciler(journal, memory.New(), storage.ReconcilerConfig{
		Interval:     10 * time.Millisecond,
		BatchSize:    10,
		ProbeTimeout: time.Second,
	})

	ctx := context.Background()
	require.NoError(t, r.Start(ctx))
	assert.Error(t, r.Start(ctx), "second start must fail")

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, r.Stop(stopCtx))

	// Stopping twice is a no-op.
	require.NoError(t, r.Stop(stopCtx))
}
