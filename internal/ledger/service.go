package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pennyjar/pennyjar/internal/errs"
	"github.com/pennyjar/pennyjar/internal/notify"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	AppendTransaction(ctx context.Context, tx *Transaction) error
	ListTransactions(ctx context.Context, childID uuid.UUID) ([]*Transaction, error)
}

type Service struct {
	repo      Repository
	publisher notify.Publisher
}

func NewService(repo Repository, publisher notify.Publisher) *Service {
	return &Service{repo: repo, publisher: publisher}
}

type AppendParams struct {
	Type        Type
	Amount      decimal.Decimal
	Description string
	Timestamp   time.Time
}

// Append validates and persists a new ledger entry for the child. The entry
// is immutable once stored.
func (s *Service) Append(ctx context.Context, childID uuid.UUID, params AppendParams) (*Transaction, error) {
	if params.Amount.IsZero() {
		return nil, errs.Validationf("transaction amount must not be zero")
	}

	if params.Timestamp.IsZero() {
		return nil, errs.Validationf("transaction timestamp is required")
	}

	balance, err := s.Balance(ctx, childID)
	if err != nil {
		return nil, err
	}

	tx := &Transaction{
		ID:           uuid.New(),
		ChildID:      childID,
		Type:         params.Type,
		Amount:       params.Amount,
		Description:  params.Description,
		Timestamp:    params.Timestamp.UTC(),
		BalanceAfter: balance.Add(params.Amount),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.AppendTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("appending transaction: %w", err)
	}

	s.publisher.Publish(ctx, notify.Event{
		Collection: notify.CollectionTransactions,
		ChildID:    childID,
	})

	return tx, nil
}

// List returns the child's transactions sorted by timestamp. Storage order is
// not guaranteed, so the sort happens here.
func (s *Service) List(ctx context.Context, childID uuid.UUID) ([]*Transaction, error) {
	txs, err := s.repo.ListTransactions(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	sort.Slice(txs, func(i, j int) bool {
		return txs[i].Timestamp.Before(txs[j].Timestamp)
	})

	return txs, nil
}

// Balance is the sum of all ledger entries for the child. It is recomputed
// from the log on every call and never cached, so it cannot drift from the
// log even when a stored BalanceAfter hint is stale.
func (s *Service) Balance(ctx context.Context, childID uuid.UUID) (decimal.Decimal, error) {
	txs, err := s.repo.ListTransactions(ctx, childID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("listing transactions: %w", err)
	}

	balance := decimal.Zero
	for _, tx := range txs {
		balance = balance.Add(tx.Amount)
	}

	return balance, nil
}

// MonthToDateSpend sums the child's approved purchases in the calendar month
// of now, as a positive figure.
func (s *Service) MonthToDateSpend(ctx context.Context, childID uuid.UUID, now time.Time) (decimal.Decimal, error) {
	txs, err := s.repo.ListTransactions(ctx, childID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("listing transactions: %w", err)
	}

	now = now.UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	spend := decimal.Zero

	for _, tx := range txs {
		if tx.Type != TypePurchase && tx.Type != TypePurchaseApproved {
			continue
		}

		if tx.Amount.Sign() >= 0 {
			continue
		}

		ts := tx.Timestamp.UTC()
		if ts.Before(monthStart) || !ts.Before(monthStart.AddDate(0, 1, 0)) {
			continue
		}

		spend = spend.Add(tx.Amount.Neg())
	}

	return spend, nil
}
