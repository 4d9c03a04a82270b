package storage_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennyjar/pennyjar/internal/errs"
	"github.com/pennyjar/pennyjar/internal/ledger"
	"github.com/pennyjar/pennyjar/internal/request"
	"github.com/pennyjar/pennyjar/internal/storage"
	"github.com/pennyjar/pennyjar/internal/storage/memory"
)

// fakeJournal is an in-memory Journal for failover and reconciler tests.
type fakeJournal struct {
	mu      sync.Mutex
	nextID  int64
	entries []storage.JournalEntry
	done    map[int64]bool
}

func newFakeJournal() *fakeJournal {
	return &fakeJournal{done: make(map[int64]bool)}
}

func (j *fakeJournal) Enqueue(_ context.Context, collection string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	j.nextID++
	j.entries = append(j.entries, storage.JournalEntry{
		ID:         j.nextID,
		Collection: collection,
		Payload:    body,
		CreatedAt:  time.Now(),
	})

	return nil
}

func (j *fakeJournal) Pending(_ context.Context, limit int) ([]storage.JournalEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	var pending []storage.JournalEntry

	for _, entry := range j.entries {
		if len(pending) == limit {
			break
		}

		if !j.done[entry.ID] {
			pending = append(pending, entry)
		}
	}

	return pending, nil
}

func (j *fakeJournal) MarkDone(_ context.Context, id int64) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.done[id] = true

	return nil
}

func (j *fakeJournal) collections() []string {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]string, len(j.entries))
	for i, entry := range j.entries {
		out[i] = entry.Collection
	}

	return out
}

// unreachable wraps a working store behind a failing liveness probe.
type unreachable struct {
	*memory.Store
}

func (unreachable) Ping(context.Context) error {
	return errors.New("connection refused")
}

// broken fails the probe and every call. Methods outside the overridden set
// are never reached in these tests.
type broken struct {
	storage.Backend
}

func (broken) Ping(context.Context) error {
	return errors.New("connection refused")
}

func (broken) AppendTransaction(context.Context, *ledger.Transaction) error {
	return errors.New("connection refused")
}

func (broken) ListTransactions(context.Context, uuid.UUID) ([]*ledger.Transaction, error) {
	return nil, errors.New("connection refused")
}

// flaky passes the probe but fails mid-call.
type flaky struct {
	storage.Backend
}

func (flaky) Ping(context.Context) error { return nil }

func (flaky) AppendTransaction(context.Context, *ledger.Transaction) error {
	return errors.New("connection reset")
}

func entry(childID uuid.UUID) *ledger.Transaction {
	return &ledger.Transaction{
		ID:        uuid.New(),
		ChildID:   childID,
		Type:      ledger.TypeAllowance,
		Amount:    decimal.NewFromInt(5),
		Timestamp: time.Now().UTC(),
		CreatedAt: time.Now().UTC(),
	}
}

func TestFailover_ServesLocalWhenRemoteDown(t *testing.T) {
	ctx := context.Background()

	remote := unreachable{memory.New()}
	local := memory.New()
	journal := newFakeJournal()

	f := storage.NewFailover(remote, local, journal, 50*time.Millisecond)

	childID := uuid.New()
	tx := entry(childID)

	require.NoError(t, f.AppendTransaction(ctx, tx))

	// The write landed locally, never remotely, and is journaled.
	txs, err := local.ListTransactions(ctx, childID)
	require.NoError(t, err)
	assert.Len(t, txs, 1)

	remoteTxs, err := remote.Store.ListTransactions(ctx, childID)
	require.NoError(t, err)
	assert.Empty(t, remoteTxs)

	assert.Equal(t, []string{storage.CollectionTransactions}, journal.collections())
}

func TestFailover_RetriesLocallyOnMidCallFailure(t *testing.T) {
	ctx := context.Background()

	local := memory.New()
	journal := newFakeJournal()

	f := storage.NewFailover(flaky{}, local, journal, 50*time.Millisecond)

	childID := uuid.New()
	require.NoError(t, f.AppendTransaction(ctx, entry(childID)))

	txs, err := local.ListTransactions(ctx, childID)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
	assert.Equal(t, []string{storage.CollectionTransactions}, journal.collections())
}

func TestFailover_BothUnavailable(t *testing.T) {
	ctx := context.Background()

	f := storage.NewFailover(broken{}, broken{}, newFakeJournal(), 50*time.Millisecond)

	err := f.AppendTransaction(ctx, entry(uuid.New()))
	assert.ErrorIs(t, err, errs.ErrBackendUnavailable)

	_, err = f.ListTransactions(ctx, uuid.New())
	assert.ErrorIs(t, err, errs.ErrBackendUnavailable)
}

func TestFailover_BusinessErrorsPassThrough(t *testing.T) {
	ctx := context.Background()

	f := storage.NewFailover(memory.New(), memory.New(), newFakeJournal(), 50*time.Millisecond)

	_, err := f.GetRequest(ctx, uuid.New())
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.NotErrorIs(t, err, errs.ErrBackendUnavailable)
}

func TestFailover_JournalsFallbackDecision(t *testing.T) {
	ctx := context.Background()

	remote := unreachable{memory.New()}
	local := memory.New()
	journal := newFakeJournal()

	f := storage.NewFailover(remote, local, journal, 50*time.Millisecond)

	req := &request.Request{
		ID:        uuid.New(),
		ChildID:   uuid.New(),
		Kind:      request.KindAdvance,
		Status:    request.StatusPending,
		Amount:    decimal.NewFromInt(40),
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.CreateRequest(ctx, req))

	dtx, err := f.BeginDecision(ctx, req.ID)
	require.NoError(t, err)

	now := time.Now().UTC()
	approverID := uuid.New()

	require.NoError(t, dtx.Decide(ctx, request.StatusApproved, approverID, nil, now))
	require.NoError(t, dtx.AppendTransaction(ctx, entry(req.ChildID)))
	require.NoError(t, dtx.CreateDebt(ctx, &request.Debt{
		ID:        uuid.New(),
		ChildID:   req.ChildID,
		Amount:    req.Amount,
		Status:    request.DebtStatusPending,
		CreatedAt: now,
	}))
	require.NoError(t, dtx.Commit())

	// The submit plus everything the decision wrote is queued for replay.
	assert.Equal(t, []string{
		storage.CollectionRequests,
		storage.CollectionRequests,
		storage.CollectionTransactions,
		storage.CollectionDebts,
	}, journal.collections())

	// The journaled request carries the final state, not the snapshot.
	entries, err := journal.Pending(ctx, 10)
	require.NoError(t, err)

	var journaled request.Request
	require.NoError(t, json.Unmarshal(entries[1].Payload, &journaled))
	assert.Equal(t, request.StatusApproved, journaled.Status)
	require.NotNil(t, journaled.ApprovedBy)
	assert.Equal(t, approverID, *journaled.ApprovedBy)
}
