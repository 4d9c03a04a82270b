package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pennyjar/pennyjar/internal/errs"
	"github.com/pennyjar/pennyjar/internal/family"
	"github.com/pennyjar/pennyjar/internal/goal"
	"github.com/pennyjar/pennyjar/internal/ledger"
	"github.com/pennyjar/pennyjar/internal/request"
)

// Failover serves every operation from the remote backend when it is
// reachable and transparently falls back to the local backend otherwise.
// Callers only ever see the outcome of the logical operation; which backend
// served it is invisible, and ErrBackendUnavailable surfaces only when both
// fail. Writes served by the fallback are journaled for later replay.
type Failover struct {
	remote       Backend
	local        Backend
	journal      Journal
	probeTimeout time.Duration
}

func NewFailover(remote, local Backend, journal Journal, probeTimeout time.Duration) *Failover {
	if probeTimeout <= 0 {
		probeTimeout = 2 * time.Second
	}

	return &Failover{
		remote:       remote,
		local:        local,
		journal:      journal,
		probeTimeout: probeTimeout,
	}
}

// pick probes the remote backend with a bounded timeout and returns the
// backend for the next operation group. Liveness is never cached across
// calls, so a recovered remote is picked up immediately.
func (f *Failover) pick(ctx context.Context) (Backend, bool) {
	probeCtx, cancel := context.WithTimeout(ctx, f.probeTimeout)
	defer cancel()

	if err := f.remote.Ping(probeCtx); err != nil {
		slog.DebugContext(ctx, "remote backend unreachable, using local fallback", "error", err)
		return f.local, true
	}

	return f.remote, false
}

// connectivity reports whether err looks like a backend failure rather than
// a business outcome. Business errors must never trigger a retry on the
// other backend.
func connectivity(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, errs.ErrNotFound),
		errors.Is(err, errs.ErrInvalidState),
		errors.Is(err, errs.ErrInsufficientFunds),
		errors.Is(err, errs.ErrLimitExceeded):
		return false
	case errs.IsValidation(err):
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	}

	return true
}

// run executes op against the picked backend, retrying once on the local
// backend when the remote fails mid-call. The bool result reports whether
// the local fallback served the operation.
func run[T any](ctx context.Context, f *Failover, op func(Backend) (T, error)) (T, bool, error) {
	be, fallback := f.pick(ctx)

	out, err := op(be)
	if err == nil {
		return out, fallback, nil
	}

	if !fallback && connectivity(err) {
		remoteErr := err

		out, err = op(f.local)
		if err == nil {
			slog.WarnContext(ctx, "remote backend failed mid-call, served by local fallback", "error", remoteErr)
			return out, true, nil
		}

		if connectivity(err) {
			var zero T
			return zero, false, fmt.Errorf("%w: remote: %v, local: %v", errs.ErrBackendUnavailable, remoteErr, err)
		}

		return out, true, err
	}

	if fallback && connectivity(err) {
		var zero T
		return zero, false, fmt.Errorf("%w: %v", errs.ErrBackendUnavailable, err)
	}

	var zero T

	return zero, fallback, err
}

// enqueue journals a fallback write. Journal failures are logged, not
// surfaced: the logical write itself already succeeded.
func (f *Failover) enqueue(ctx context.Context, collection string, payload any) {
	if f.journal == nil {
		return
	}

	if err := f.journal.Enqueue(ctx, collection, payload); err != nil {
		slog.ErrorContext(ctx, "failed to journal fallback write", "error", err, "collection", collection)
	}
}

func (f *Failover) Ping(ctx context.Context) error {
	if err := f.remote.Ping(ctx); err == nil {
		return nil
	}

	return f.local.Ping(ctx)
}

func (f *Failover) Close() error {
	localErr := f.local.Close()
	if err := f.remote.Close(); err != nil {
		return err
	}

	return localErr
}

func (f *Failover) GetFamily(ctx context.Context) (*family.Family, error) {
	fam, _, err := run(ctx, f, func(be Backend) (*family.Family, error) {
		return be.GetFamily(ctx)
	})

	return fam, err
}

func (f *Failover) SaveFamily(ctx context.Context, fam *family.Family) error {
	_, fallback, err := run(ctx, f, func(be Backend) (struct{}, error) {
		return struct{}{}, be.SaveFamily(ctx, fam)
	})
	if err != nil {
		return err
	}

	if fallback {
		f.enqueue(ctx, CollectionFamily, fam)
	}

	return nil
}

func (f *Failover) GetChild(ctx context.Context, childID uuid.UUID) (*family.Child, error) {
	child, _, err := run(ctx, f, func(be Backend) (*family.Child, error) {
		return be.GetChild(ctx, childID)
	})

	return child, err
}

func (f *Failover) AppendTransaction(ctx context.Context, tx *ledger.Transaction) error {
	_, fallback, err := run(ctx, f, func(be Backend) (struct{}, error) {
		return struct{}{}, be.AppendTransaction(ctx, tx)
	})
	if err != nil {
		return err
	}

	if fallback {
		f.enqueue(ctx, CollectionTransactions, tx)
	}

	return nil
}

func (f *Failover) ListTransactions(ctx context.Context, childID uuid.UUID) ([]*ledger.Transaction, error) {
	txs, _, err := run(ctx, f, func(be Backend) ([]*ledger.Transaction, error) {
		return be.ListTransactions(ctx, childID)
	})

	return txs, err
}

func (f *Failover) CreateRequest(ctx context.Context, req *request.Request) error {
	_, fallback, err := run(ctx, f, func(be Backend) (struct{}, error) {
		return struct{}{}, be.CreateRequest(ctx, req)
	})
	if err != nil {
		return err
	}

	if fallback {
		f.enqueue(ctx, CollectionRequests, req)
	}

	return nil
}

func (f *Failover) GetRequest(ctx context.Context, id uuid.UUID) (*request.Request, error) {
	req, _, err := run(ctx, f, func(be Backend) (*request.Request, error) {
		return be.GetRequest(ctx, id)
	})

	return req, err
}

func (f *Failover) ListRequests(ctx context.Context, childID uuid.UUID) ([]*request.Request, error) {
	reqs, _, err := run(ctx, f, func(be Backend) ([]*request.Request, error) {
		return be.ListRequests(ctx, childID)
	})

	return reqs, err
}

func (f *Failover) ListFamilyRequests(ctx context.Context, status *request.Status) ([]*request.Request, error) {
	reqs, _, err := run(ctx, f, func(be Backend) ([]*request.Request, error) {
		return be.ListFamilyRequests(ctx, status)
	})

	return reqs, err
}

func (f *Failover) ListDebts(ctx context.Context, childID uuid.UUID) ([]*request.Debt, error) {
	debts, _, err := run(ctx, f, func(be Backend) ([]*request.Debt, error) {
		return be.ListDebts(ctx, childID)
	})

	return debts, err
}

func (f *Failover) BeginDecision(ctx context.Context, id uuid.UUID) (request.DecisionTx, error) {
	dtx, fallback, err := run(ctx, f, func(be Backend) (request.DecisionTx, error) {
		return be.BeginDecision(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	if !fallback {
		return dtx, nil
	}

	return &journalingDecisionTx{DecisionTx: dtx, failover: f}, nil
}

func (f *Failover) CreateGoal(ctx context.Context, g *goal.Goal) error {
	_, fallback, err := run(ctx, f, func(be Backend) (struct{}, error) {
		return struct{}{}, be.CreateGoal(ctx, g)
	})
	if err != nil {
		return err
	}

	if fallback {
		f.enqueue(ctx, CollectionGoals, g)
	}

	return nil
}

func (f *Failover) GetGoal(ctx context.Context, childID, goalID uuid.UUID) (*goal.Goal, error) {
	g, _, err := run(ctx, f, func(be Backend) (*goal.Goal, error) {
		return be.GetGoal(ctx, childID, goalID)
	})

	return g, err
}

func (f *Failover) ListGoals(ctx context.Context, childID uuid.UUID) ([]*goal.Goal, error) {
	goals, _, err := run(ctx, f, func(be Backend) ([]*goal.Goal, error) {
		return be.ListGoals(ctx, childID)
	})

	return goals, err
}

func (f *Failover) RecordDeposit(ctx context.Context, g *goal.Goal, entry *ledger.Transaction) error {
	_, fallback, err := run(ctx, f, func(be Backend) (struct{}, error) {
		return struct{}{}, be.RecordDeposit(ctx, g, entry)
	})
	if err != nil {
		return err
	}

	if fallback {
		f.enqueue(ctx, CollectionGoals, g)
		f.enqueue(ctx, CollectionTransactions, entry)
	}

	return nil
}

// journalingDecisionTx wraps a fallback decision transaction and journals
// everything the decision wrote once it commits.
type journalingDecisionTx struct {
	request.DecisionTx

	failover *Failover

	decided     bool
	status      request.Status
	deciderID   uuid.UUID
	comment     *string
	processedAt time.Time

	entry *ledger.Transaction
	debt  *request.Debt
}

func (t *journalingDecisionTx) Decide(ctx context.Context, status request.Status, deciderID uuid.UUID, comment *string, processedAt time.Time) error {
	if err := t.DecisionTx.Decide(ctx, status, deciderID, comment, processedAt); err != nil {
		return err
	}

	t.decided = true
	t.status = status
	t.deciderID = deciderID
	t.comment = comment
	t.processedAt = processedAt

	return nil
}

func (t *journalingDecisionTx) AppendTransaction(ctx context.Context, tx *ledger.Transaction) error {
	if err := t.DecisionTx.AppendTransaction(ctx, tx); err != nil {
		return err
	}

	t.entry = tx

	return nil
}

func (t *journalingDecisionTx) CreateDebt(ctx context.Context, debt *request.Debt) error {
	if err := t.DecisionTx.CreateDebt(ctx, debt); err != nil {
		return err
	}

	t.debt = debt

	return nil
}

func (t *journalingDecisionTx) Commit() error {
	if err := t.DecisionTx.Commit(); err != nil {
		return err
	}

	ctx := context.Background()

	if t.decided {
		req := *t.DecisionTx.Request()
		req.Status = t.status
		req.ProcessedAt = &t.processedAt
		req.ParentComment = t.comment

		if t.status == request.StatusApproved {
			deciderID := t.deciderID
			req.ApprovedBy = &deciderID
		}

		t.failover.enqueue(ctx, CollectionRequests, &req)
	}

	if t.entry != nil {
		t.failover.enqueue(ctx, CollectionTransactions, t.entry)
	}

	if t.debt != nil {
		t.failover.enqueue(ctx, CollectionDebts, t.debt)
	}

	return nil
}
