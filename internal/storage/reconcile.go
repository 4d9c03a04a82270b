package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pennyjar/pennyjar/internal/family"
	"github.com/pennyjar/pennyjar/internal/goal"
	"github.com/pennyjar/pennyjar/internal/ledger"
	"github.com/pennyjar/pennyjar/internal/request"
)

// ReconcilerConfig holds the replay loop settings.
type ReconcilerConfig struct {
	// Interval is how often to probe the remote and drain the journal.
	Interval time.Duration

	// BatchSize is the max number of entries replayed per cycle.
	BatchSize int

	// ProbeTimeout bounds the remote liveness probe.
	ProbeTimeout time.Duration
}

func DefaultReconcilerConfig() ReconcilerConfig {
	return ReconcilerConfig{
		Interval:     30 * time.Second,
		BatchSize:    50,
		ProbeTimeout: 2 * time.Second,
	}
}

// Reconciler drains the fallback journal into the remote backend once it is
// reachable again, so writes made during an outage are not stranded on one
// device. Replay is idempotent; entries are only marked done after the
// remote accepted them.
type Reconciler struct {
	journal Journal
	remote  Replayer
	config  ReconcilerConfig

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewReconciler(journal Journal, remote Replayer, config ReconcilerConfig) *Reconciler {
	if config.Interval <= 0 {
		config.Interval = DefaultReconcilerConfig().Interval
	}

	if config.BatchSize <= 0 {
		config.BatchSize = DefaultReconcilerConfig().BatchSize
	}

	if config.ProbeTimeout <= 0 {
		config.ProbeTimeout = DefaultReconcilerConfig().ProbeTimeout
	}

	return &Reconciler{journal: journal, remote: remote, config: config}
}

// Start begins the replay loop. Returns an error if already running.
func (r *Reconciler) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("reconciler is already running")
	}

	r.running = true
	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	r.mu.Unlock()

	go r.runLoop(ctx)

	slog.InfoContext(ctx, "storage reconciler started",
		"interval", r.config.Interval, "batch_size", r.config.BatchSize)

	return nil
}

// Stop ends the loop and waits for the current cycle to finish.
func (r *Reconciler) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	close(r.stopCh)

	select {
	case <-r.doneCh:
	case <-ctx.Done():
		return ctx.Err()
	}

	r.mu.Lock()
	r.running = false
	r.mu.Unlock()

	return nil
}

func (r *Reconciler) runLoop(ctx context.Context) {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			replayed, err := r.RunOnce(ctx)
			if err != nil {
				slog.WarnContext(ctx, "journal replay cycle failed", "error", err)
			} else if replayed > 0 {
				slog.InfoContext(ctx, "replayed fallback writes to remote backend", "count", replayed)
			}
		case <-r.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// RunOnce probes the remote and replays at most one batch. It returns the
// number of entries replayed.
func (r *Reconciler) RunOnce(ctx context.Context) (int, error) {
	probeCtx, cancel := context.WithTimeout(ctx, r.config.ProbeTimeout)
	err := r.remote.Ping(probeCtx)

	cancel()

	if err != nil {
		// Remote still down; nothing to do this cycle.
		return 0, nil
	}

	entries, err := r.journal.Pending(ctx, r.config.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("loading pending journal entries: %w", err)
	}

	replayed := 0

	for _, entry := range entries {
		if err := r.replay(ctx, entry); err != nil {
			// Keep the entry queued and stop the batch: later entries may
			// depend on this one.
			return replayed, fmt.Errorf("replaying journal entry %d (%s): %w", entry.ID, entry.Collection, err)
		}

		if err := r.journal.MarkDone(ctx, entry.ID); err != nil {
			return replayed, fmt.Errorf("marking journal entry %d done: %w", entry.ID, err)
		}

		replayed++
	}

	return replayed, nil
}

func (r *Reconciler) replay(ctx context.Context, entry JournalEntry) error {
	switch entry.Collection {
	case CollectionFamily:
		var fam family.Family
		if err := json.Unmarshal(entry.Payload, &fam); err != nil {
			return fmt.Errorf("unmarshal family: %w", err)
		}

		return r.remote.SaveFamily(ctx, &fam)

	case CollectionTransactions:
		var tx ledger.Transaction
		if err := json.Unmarshal(entry.Payload, &tx); err != nil {
			return fmt.Errorf("unmarshal transaction: %w", err)
		}

		return r.remote.AppendTransaction(ctx, &tx)

	case CollectionRequests:
		var req request.Request
		if err := json.Unmarshal(entry.Payload, &req); err != nil {
			return fmt.Errorf("unmarshal request: %w", err)
		}

		return r.remote.UpsertRequest(ctx, &req)

	case CollectionGoals:
		var g goal.Goal
		if err := json.Unmarshal(entry.Payload, &g); err != nil {
			return fmt.Errorf("unmarshal goal: %w", err)
		}

		return r.remote.UpsertGoal(ctx, &g)

	case CollectionDebts:
		var debt request.Debt
		if err := json.Unmarshal(entry.Payload, &debt); err != nil {
			return fmt.Errorf("unmarshal debt: %w", err)
		}

		return r.remote.CreateDebt(ctx, &debt)

	default:
		return fmt.Errorf("unknown journal collection %q", entry.Collection)
	}
}
