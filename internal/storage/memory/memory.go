// Package memory is an in-process Backend used by tests and for running
// without any database. It implements the same conditional-update semantics
// as the SQL backends so workflow races behave identically.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pennyjar/pennyjar/internal/errs"
	"github.com/pennyjar/pennyjar/internal/family"
	"github.com/pennyjar/pennyjar/internal/goal"
	"github.com/pennyjar/pennyjar/internal/ledger"
	"github.com/pennyjar/pennyjar/internal/request"
)

type Store struct {
	mu           sync.Mutex
	family       *family.Family
	transactions map[uuid.UUID][]*ledger.Transaction
	requests     map[uuid.UUID]*request.Request
	debts        map[uuid.UUID][]*request.Debt
	goals        map[uuid.UUID]map[uuid.UUID]*goal.Goal
}

func New() *Store {
	return &Store{
		transactions: make(map[uuid.UUID][]*ledger.Transaction),
		requests:     make(map[uuid.UUID]*request.Request),
		debts:        make(map[uuid.UUID][]*request.Debt),
		goals:        make(map[uuid.UUID]map[uuid.UUID]*goal.Goal),
	}
}

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

func (s *Store) GetFamily(context.Context) (*family.Family, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.family == nil {
		return nil, errs.ErrNotFound
	}

	fam := *s.family
	fam.Children = append([]*family.Child(nil), s.family.Children...)

	return &fam, nil
}

func (s *Store) SaveFamily(_ context.Context, fam *family.Family) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := *fam
	saved.Children = append([]*family.Child(nil), fam.Children...)
	s.family = &saved

	return nil
}

func (s *Store) GetChild(_ context.Context, childID uuid.UUID) (*family.Child, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.family != nil {
		if c := s.family.Child(childID); c != nil {
			child := *c
			return &child, nil
		}
	}

	return nil, errs.ErrNotFound
}

func (s *Store) AppendTransaction(_ context.Context, tx *ledger.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.appendTransactionLocked(tx)
}

// appendTransactionLocked is idempotent on the transaction id, matching the
// conflict clause of the SQL backends.
func (s *Store) appendTransactionLocked(tx *ledger.Transaction) error {
	for _, existing := range s.transactions[tx.ChildID] {
		if existing.ID == tx.ID {
			return nil
		}
	}

	saved := *tx
	s.transactions[tx.ChildID] = append(s.transactions[tx.ChildID], &saved)

	return nil
}

func (s *Store) ListTransactions(_ context.Context, childID uuid.UUID) ([]*ledger.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]*ledger.Transaction(nil), s.transactions[childID]...), nil
}

func (s *Store) CreateRequest(_ context.Context, req *request.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[req.ID]; ok {
		return nil
	}

	saved := *req
	s.requests[req.ID] = &saved

	return nil
}

func (s *Store) UpsertRequest(_ context.Context, req *request.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := *req
	s.requests[req.ID] = &saved

	return nil
}

func (s *Store) GetRequest(_ context.Context, id uuid.UUID) (*request.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, errs.ErrNotFound
	}

	copied := *req

	return &copied, nil
}

func (s *Store) ListRequests(_ context.Context, childID uuid.UUID) ([]*request.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var reqs []*request.Request

	for _, req := range s.requests {
		if req.ChildID == childID {
			copied := *req
			reqs = append(reqs, &copied)
		}
	}

	return reqs, nil
}

func (s *Store) ListFamilyRequests(_ context.Context, status *request.Status) ([]*request.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var reqs []*request.Request

	for _, req := range s.requests {
		if status != nil && req.Status != *status {
			continue
		}

		copied := *req
		reqs = append(reqs, &copied)
	}

	return reqs, nil
}

func (s *Store) CreateDebt(_ context.Context, debt *request.Debt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.createDebtLocked(debt)
}

func (s *Store) createDebtLocked(debt *request.Debt) error {
	for _, existing := range s.debts[debt.ChildID] {
		if existing.ID == debt.ID {
			return nil
		}
	}

	saved := *debt
	s.debts[debt.ChildID] = append(s.debts[debt.ChildID], &saved)

	return nil
}

func (s *Store) ListDebts(_ context.Context, childID uuid.UUID) ([]*request.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]*request.Debt(nil), s.debts[childID]...), nil
}

func (s *Store) BeginDecision(_ context.Context, id uuid.UUID) (request.DecisionTx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, errs.ErrNotFound
	}

	snapshot := *req

	return &decisionTx{store: s, req: &snapshot}, nil
}

// decisionTx applies mutations immediately under the store lock and keeps
// an undo log so Rollback can restore the previous state, mirroring the SQL
// transaction semantics closely enough for tests.
type decisionTx struct {
	store     *Store
	req       *request.Request
	undo      []func()
	committed bool
}

func (t *decisionTx) Request() *request.Request { return t.req }

func (t *decisionTx) Decide(_ context.Context, status request.Status, deciderID uuid.UUID, comment *string, processedAt time.Time) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	current, ok := t.store.requests[t.req.ID]
	if !ok {
		return errs.ErrNotFound
	}

	if current.Status != request.StatusPending {
		return errs.ErrInvalidState
	}

	prev := *current

	current.Status = status
	current.ProcessedAt = &processedAt
	current.ParentComment = comment

	if status == request.StatusApproved {
		id := deciderID
		current.ApprovedBy = &id
	}

	t.undo = append(t.undo, func() { *t.store.requests[prev.ID] = prev })

	return nil
}

func (t *decisionTx) AppendTransaction(_ context.Context, tx *ledger.Transaction) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if err := t.store.appendTransactionLocked(tx); err != nil {
		return err
	}

	childID, txID := tx.ChildID, tx.ID
	t.undo = append(t.undo, func() {
		txs := t.store.transactions[childID]
		for i, existing := range txs {
			if existing.ID == txID {
				t.store.transactions[childID] = append(txs[:i], txs[i+1:]...)
				break
			}
		}
	})

	return nil
}

func (t *decisionTx) CreateDebt(_ context.Context, debt *request.Debt) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if err := t.store.createDebtLocked(debt); err != nil {
		return err
	}

	childID, debtID := debt.ChildID, debt.ID
	t.undo = append(t.undo, func() {
		debts := t.store.debts[childID]
		for i, existing := range debts {
			if existing.ID == debtID {
				t.store.debts[childID] = append(debts[:i], debts[i+1:]...)
				break
			}
		}
	})

	return nil
}

func (t *decisionTx) Commit() error {
	t.committed = true
	t.undo = nil

	return nil
}

func (t *decisionTx) Rollback() error {
	if t.committed {
		return nil
	}

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}

	t.undo = nil

	return nil
}

func (s *Store) CreateGoal(_ context.Context, g *goal.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.goals[g.ChildID] == nil {
		s.goals[g.ChildID] = make(map[uuid.UUID]*goal.Goal)
	}

	if _, ok := s.goals[g.ChildID][g.ID]; ok {
		return nil
	}

	saved := *g
	s.goals[g.ChildID][g.ID] = &saved

	return nil
}

func (s *Store) UpsertGoal(_ context.Context, g *goal.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.goals[g.ChildID] == nil {
		s.goals[g.ChildID] = make(map[uuid.UUID]*goal.Goal)
	}

	saved := *g

	if existing, ok := s.goals[g.ChildID][g.ID]; ok && existing.CompletedAt != nil {
		saved.CompletedAt = existing.CompletedAt
	}

	s.goals[g.ChildID][g.ID] = &saved

	return nil
}

func (s *Store) GetGoal(_ context.Context, childID, goalID uuid.UUID) (*goal.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goals[childID][goalID]
	if !ok {
		return nil, errs.ErrNotFound
	}

	copied := *g

	return &copied, nil
}

func (s *Store) ListGoals(_ context.Context, childID uuid.UUID) ([]*goal.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var goals []*goal.Goal

	for _, g := range s.goals[childID] {
		copied := *g
		goals = append(goals, &copied)
	}

	return goals, nil
}

func (s *Store) RecordDeposit(_ context.Context, g *goal.Goal, entry *ledger.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.goals[g.ChildID][g.ID]; !ok {
		return errs.ErrNotFound
	}

	saved := *g
	s.goals[g.ChildID][g.ID] = &saved

	return s.appendTransactionLocked(entry)
}
