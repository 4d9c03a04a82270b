package request

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pennyjar/pennyjar/internal/errs"
	"github.com/pennyjar/pennyjar/internal/family"
	"github.com/pennyjar/pennyjar/internal/ledger"
	"github.com/pennyjar/pennyjar/internal/notify"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=request
type Repository interface {
	CreateRequest(ctx context.Context, req *Request) error
	GetRequest(ctx context.Context, id uuid.UUID) (*Request, error)
	ListRequests(ctx context.Context, childID uuid.UUID) ([]*Request, error)
	ListFamilyRequests(ctx context.Context, status *Status) ([]*Request, error)
	ListDebts(ctx context.Context, childID uuid.UUID) ([]*Debt, error)

	BeginDecision(ctx context.Context, id uuid.UUID) (DecisionTx, error)
}

// DecisionTx is a single atomic decision on a pending request: the status
// change, the resulting ledger entry and (for advances) the debt all land
// together or not at all. Decide is a conditional update that only succeeds
// while the request is still pending, so two concurrent decisions cannot
// both win.
type DecisionTx interface {
	Request() *Request
	Decide(ctx context.Context, status Status, deciderID uuid.UUID, comment *string, processedAt time.Time) error
	AppendTransaction(ctx context.Context, tx *ledger.Transaction) error
	CreateDebt(ctx context.Context, debt *Debt) error
	Commit() error
	Rollback() error
}

// Balances is the read side of the ledger the workflow validates against.
type Balances interface {
	Balance(ctx context.Context, childID uuid.UUID) (decimal.Decimal, error)
	MonthToDateSpend(ctx context.Context, childID uuid.UUID, now time.Time) (decimal.Decimal, error)
}

// Children resolves per-child settings.
type Children interface {
	GetChild(ctx context.Context, childID uuid.UUID) (*family.Child, error)
}

// Rules holds the submission business rules.
type Rules struct {
	// AdvanceCap is the hard cap on advance amounts.
	AdvanceCap decimal.Decimal
	// AdvanceMinDesc is the minimum description length for advances.
	AdvanceMinDesc int
	// HighValueMinDesc is the minimum description length for purchases
	// above the child's approval threshold.
	HighValueMinDesc int
}

func DefaultRules() Rules {
	return Rules{
		AdvanceCap:       decimal.NewFromInt(50),
		AdvanceMinDesc:   30,
		HighValueMinDesc: 20,
	}
}

type Service struct {
	repo      Repository
	balances  Balances
	children  Children
	rules     Rules
	publisher notify.Publisher
}

func NewService(repo Repository, balances Balances, children Children, rules Rules, publisher notify.Publisher) *Service {
	return &Service{
		repo:      repo,
		balances:  balances,
		children:  children,
		rules:     rules,
		publisher: publisher,
	}
}

type SubmitParams struct {
	ChildID     uuid.UUID
	Kind        Kind
	Amount      decimal.Decimal
	Description string
	Category    string
}

// Submit validates the kind-specific business rules and persists a pending
// request. No transaction is created yet.
func (s *Service) Submit(ctx context.Context, params SubmitParams) (*Request, error) {
	if params.Amount.Sign() <= 0 {
		return nil, errs.Validationf("request amount must be positive")
	}

	switch params.Kind {
	case KindPurchase:
		if err := s.validatePurchase(ctx, params); err != nil {
			return nil, err
		}
	case KindAdvance:
		if err := s.validateAdvance(params); err != nil {
			return nil, err
		}
	default:
		return nil, errs.Validationf("unknown request kind %q", params.Kind)
	}

	req := &Request{
		ID:          uuid.New(),
		ChildID:     params.ChildID,
		Kind:        params.Kind,
		Status:      StatusPending,
		Amount:      params.Amount,
		Description: params.Description,
		Category:    params.Category,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.CreateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	s.publisher.Publish(ctx, notify.Event{
		Collection: notify.CollectionRequests,
		ChildID:    params.ChildID,
	})

	return req, nil
}

func (s *Service) validatePurchase(ctx context.Context, params SubmitParams) error {
	balance, err := s.balances.Balance(ctx, params.ChildID)
	if err != nil {
		return err
	}

	if params.Amount.GreaterThan(balance) {
		return errs.ErrInsufficientFunds
	}

	child, err := s.children.GetChild(ctx, params.ChildID)
	if err != nil {
		return err
	}

	if child.MonthlyLimit.Sign() > 0 {
		spent, err := s.balances.MonthToDateSpend(ctx, params.ChildID, time.Now())
		if err != nil {
			return err
		}

		if params.Amount.Add(spent).GreaterThan(child.MonthlyLimit) {
			return errs.ErrLimitExceeded
		}
	}

	if child.ApprovalThreshold.Sign() > 0 &&
		params.Amount.GreaterThan(child.ApprovalThreshold) &&
		len(params.Description) < s.rules.HighValueMinDesc {
		return errs.Validationf("high-value purchases need a description of at least %d characters", s.rules.HighValueMinDesc)
	}

	return nil
}

func (s *Service) validateAdvance(params SubmitParams) error {
	if params.Amount.GreaterThan(s.rules.AdvanceCap) {
		return errs.ErrLimitExceeded
	}

	if len(params.Description) < s.rules.AdvanceMinDesc {
		return errs.Validationf("advances need a description of at least %d characters", s.rules.AdvanceMinDesc)
	}

	return nil
}

// Approve decides a pending request. The status change, the ledger entry and
// (for advances) the debt are one atomic unit: purchase approvals debit the
// request amount, advance approvals credit it and record a debt.
func (s *Service) Approve(ctx context.Context, requestID, approverID uuid.UUID, comment *string) (*Request, error) {
	dtx, err := s.repo.BeginDecision(ctx, requestID)
	if err != nil {
		return nil, err
	}
	defer dtx.Rollback()

	req := dtx.Request()
	if req.Status != StatusPending {
		return nil, errs.ErrInvalidState
	}

	// Balance hint for the denormalized BalanceAfter field only. It is
	// never used for decisions, so a concurrent write making it stale is
	// harmless.
	balance, err := s.balances.Balance(ctx, req.ChildID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := dtx.Decide(ctx, StatusApproved, approverID, comment, now); err != nil {
		return nil, err
	}

	amount := req.Amount.Neg()
	txType := ledger.TypePurchaseApproved

	if req.Kind == KindAdvance {
		amount = req.Amount
		txType = ledger.TypeAdvanceApproved
	}

	entry := &ledger.Transaction{
		ID:           uuid.New(),
		ChildID:      req.ChildID,
		Type:         txType,
		Amount:       amount,
		Description:  req.Description,
		Timestamp:    now,
		BalanceAfter: balance.Add(amount),
		CreatedAt:    now,
	}

	if err := dtx.AppendTransaction(ctx, entry); err != nil {
		return nil, fmt.Errorf("appending approval transaction: %w", err)
	}

	if req.Kind == KindAdvance {
		debt := &Debt{
			ID:          uuid.New(),
			ChildID:     req.ChildID,
			Amount:      req.Amount,
			Description: req.Description,
			Status:      DebtStatusPending,
			CreatedAt:   now,
		}
		if err := dtx.CreateDebt(ctx, debt); err != nil {
			return nil, fmt.Errorf("creating debt: %w", err)
		}
	}

	if err := dtx.Commit(); err != nil {
		return nil, fmt.Errorf("committing approval: %w", err)
	}

	req.Status = StatusApproved
	req.ApprovedBy = &approverID
	req.ProcessedAt = &now
	req.ParentComment = comment

	s.publisher.Publish(ctx, notify.Event{
		Collection: notify.CollectionRequests,
		ChildID:    req.ChildID,
	})
	s.publisher.Publish(ctx, notify.Event{
		Collection: notify.CollectionTransactions,
		ChildID:    req.ChildID,
	})

	return req, nil
}

// Reject decides a pending request without touching the ledger. A non-empty
// reason is mandatory.
func (s *Service) Reject(ctx context.Context, requestID, deciderID uuid.UUID, reason string) (*Request, error) {
	if reason == "" {
		return nil, errs.Validationf("a rejection reason is required")
	}

	dtx, err := s.repo.BeginDecision(ctx, requestID)
	if err != nil {
		return nil, err
	}
	defer dtx.Rollback()

	req := dtx.Request()
	if req.Status != StatusPending {
		return nil, errs.ErrInvalidState
	}

	now := time.Now().UTC()
	if err := dtx.Decide(ctx, StatusRejected, deciderID, &reason, now); err != nil {
		return nil, err
	}

	if err := dtx.Commit(); err != nil {
		return nil, fmt.Errorf("committing rejection: %w", err)
	}

	req.Status = StatusRejected
	req.ProcessedAt = &now
	req.ParentComment = &reason

	s.publisher.Publish(ctx, notify.Event{
		Collection: notify.CollectionRequests,
		ChildID:    req.ChildID,
	})

	return req, nil
}

// Get returns a single request.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Request, error) {
	return s.repo.GetRequest(ctx, id)
}

// ListForChild returns all requests of one child.
func (s *Service) ListForChild(ctx context.Context, childID uuid.UUID) ([]*Request, error) {
	return s.repo.ListRequests(ctx, childID)
}

// PendingForFamily returns all pending requests across the household.
func (s *Service) PendingForFamily(ctx context.Context) ([]*Request, error) {
	pending := StatusPending
	return s.repo.ListFamilyRequests(ctx, &pending)
}

// HistoryForFamily returns all requests across the household.
func (s *Service) HistoryForFamily(ctx context.Context) ([]*Request, error) {
	return s.repo.ListFamilyRequests(ctx, nil)
}

// DebtsForChild returns the child's outstanding advances.
func (s *Service) DebtsForChild(ctx context.Context, childID uuid.UUID) ([]*Debt, error) {
	return s.repo.ListDebts(ctx, childID)
}
