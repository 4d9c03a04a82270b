// Package scheduler produces the recurring ledger entries: allowance
// credits per child and monthly interest on positive balances.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"github.com/pennyjar/pennyjar/internal/family"
	"github.com/pennyjar/pennyjar/internal/ledger"
)

type Service struct {
	families *family.Service
	ledger   *ledger.Service
	// rate is the monthly interest rate in percent.
	rate decimal.Decimal
	cron *cron.Cron
}

func New(families *family.Service, ledgerSvc *ledger.Service, rate decimal.Decimal) *Service {
	return &Service{
		families: families,
		ledger:   ledgerSvc,
		rate:     rate,
	}
}

// Start registers the cron entries and begins running them.
func (s *Service) Start(allowanceSpec, interestSpec string) error {
	c := cron.New()

	if _, err := c.AddFunc(allowanceSpec, func() {
		if err := s.RunAllowance(context.Background()); err != nil {
			slog.Error("allowance run failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("scheduling allowance job: %w", err)
	}

	if _, err := c.AddFunc(interestSpec, func() {
		if err := s.RunInterest(context.Background()); err != nil {
			slog.Error("interest run failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("scheduling interest job: %w", err)
	}

	c.Start()
	s.cron = c

	return nil
}

// Stop halts the cron runner and waits for running jobs.
func (s *Service) Stop(ctx context.Context) error {
	if s.cron == nil {
		return nil
	}

	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunAllowance credits each child's configured allowance.
func (s *Service) RunAllowance(ctx context.Context) error {
	fam, err := s.families.GetOrCreate(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	for _, child := range fam.Children {
		if child.AllowanceAmount.Sign() <= 0 {
			continue
		}

		_, err := s.ledger.Append(ctx, child.ID, ledger.AppendParams{
			Type:        ledger.TypeAllowance,
			Amount:      child.AllowanceAmount,
			Description: "Allowance",
			Timestamp:   now,
		})
		if err != nil {
			return fmt.Errorf("crediting allowance for child %s: %w", child.ID, err)
		}

		slog.InfoContext(ctx, "credited allowance",
			"child_id", child.ID, "amount", child.AllowanceAmount)
	}

	return nil
}

// RunInterest accrues monthly interest on positive balances, rounded to
// cents. Non-positive balances earn nothing.
func (s *Service) RunInterest(ctx context.Context) error {
	if s.rate.Sign() <= 0 {
		return nil
	}

	fam, err := s.families.GetOrCreate(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	hundred := decimal.NewFromInt(100)

	for _, child := range fam.Children {
		balance, err := s.ledger.Balance(ctx, child.ID)
		if err != nil {
			return fmt.Errorf("computing balance for child %s: %w", child.ID, err)
		}

		if balance.Sign() <= 0 {
			continue
		}

		interest := balance.Mul(s.rate).Div(hundred).Round(2)
		if interest.Sign() <= 0 {
			continue
		}

		_, err = s.ledger.Append(ctx, child.ID, ledger.AppendParams{
			Type:        ledger.TypeInterest,
			Amount:      interest,
			Description: fmt.Sprintf("Interest (%s%% monthly)", s.rate),
			Timestamp:   now,
		})
		if err != nil {
			return fmt.Errorf("crediting interest for child %s: %w", child.ID, err)
		}

		slog.InfoContext(ctx, "credited interest",
			"child_id", child.ID, "amount", interest)
	}

	return nil
}
