package goal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pennyjar/pennyjar/internal/errs"
	"github.com/pennyjar/pennyjar/internal/ledger"
	"github.com/pennyjar/pennyjar/internal/notify"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=goal
type Repository interface {
	CreateGoal(ctx context.Context, g *Goal) error
	GetGoal(ctx context.Context, childID, goalID uuid.UUID) (*Goal, error)
	ListGoals(ctx context.Context, childID uuid.UUID) ([]*Goal, error)

	// RecordDeposit stores the mutated goal and the goal_deposit ledger
	// entry in one storage transaction.
	RecordDeposit(ctx context.Context, g *Goal, entry *ledger.Transaction) error
}

// Balances is the read side of the ledger deposits validate against.
type Balances interface {
	Balance(ctx context.Context, childID uuid.UUID) (decimal.Decimal, error)
}

type Service struct {
	repo      Repository
	balances  Balances
	publisher notify.Publisher
}

func NewService(repo Repository, balances Balances, publisher notify.Publisher) *Service {
	return &Service{repo: repo, balances: balances, publisher: publisher}
}

type CreateParams struct {
	ChildID      uuid.UUID
	Name         string
	TargetAmount decimal.Decimal
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Goal, error) {
	if params.Name == "" {
		return nil, errs.Validationf("goal name is required")
	}

	if params.TargetAmount.Sign() <= 0 {
		return nil, errs.Validationf("goal target amount must be positive")
	}

	now := time.Now().UTC()
	g := &Goal{
		ID:            uuid.New(),
		ChildID:       params.ChildID,
		Name:          params.Name,
		TargetAmount:  params.TargetAmount,
		CurrentAmount: decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.CreateGoal(ctx, g); err != nil {
		return nil, fmt.Errorf("creating goal: %w", err)
	}

	s.publisher.Publish(ctx, notify.Event{
		Collection: notify.CollectionGoals,
		ChildID:    params.ChildID,
	})

	return g, nil
}

// Deposit moves already-owned balance into the goal: the goal grows by the
// amount and a negative goal_deposit entry lands in the ledger. Depositing
// never creates money.
func (s *Service) Deposit(ctx context.Context, childID, goalID uuid.UUID, amount decimal.Decimal) (*Goal, error) {
	if amount.Sign() <= 0 {
		return nil, errs.Validationf("deposit amount must be positive")
	}

	balance, err := s.balances.Balance(ctx, childID)
	if err != nil {
		return nil, err
	}

	if amount.GreaterThan(balance) {
		return nil, errs.ErrInsufficientFunds
	}

	g, err := s.repo.GetGoal(ctx, childID, goalID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	g.UpdatedAt = now

	// CompletedAt is set the first time the target is reached and never
	// overwritten by later deposits.
	if g.CompletedAt == nil && g.IsCompleted() {
		g.CompletedAt = &now
	}

	entry := &ledger.Transaction{
		ID:           uuid.New(),
		ChildID:      childID,
		Type:         ledger.TypeGoalDeposit,
		Amount:       amount.Neg(),
		Description:  fmt.Sprintf("Deposit to goal %q", g.Name),
		Timestamp:    now,
		BalanceAfter: balance.Sub(amount),
		CreatedAt:    now,
	}

	if err := s.repo.RecordDeposit(ctx, g, entry); err != nil {
		return nil, fmt.Errorf("recording deposit: %w", err)
	}

	s.publisher.Publish(ctx, notify.Event{
		Collection: notify.CollectionGoals,
		ChildID:    childID,
	})
	s.publisher.Publish(ctx, notify.Event{
		Collection: notify.CollectionTransactions,
		ChildID:    childID,
	})

	return g, nil
}

func (s *Service) List(ctx context.Context, childID uuid.UUID) ([]*Goal, error) {
	return s.repo.ListGoals(ctx, childID)
}
