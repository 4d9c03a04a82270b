package family

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pennyjar/pennyjar/internal/errs"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=family
type Repository interface {
	GetFamily(ctx context.Context) (*Family, error)
	SaveFamily(ctx context.Context, f *Family) error
	GetChild(ctx context.Context, childID uuid.UUID) (*Child, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetOrCreate returns the household record, creating an empty one on first
// run.
func (s *Service) GetOrCreate(ctx context.Context) (*Family, error) {
	f, err := s.repo.GetFamily(ctx)
	if err == nil {
		return f, nil
	}

	if !errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("loading family: %w", err)
	}

	f = &Family{
		ID:        uuid.New(),
		Name:      "My Family",
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.SaveFamily(ctx, f); err != nil {
		return nil, fmt.Errorf("creating family: %w", err)
	}

	return f, nil
}

type AddChildParams struct {
	Name              string
	AllowanceAmount   decimal.Decimal
	MonthlyLimit      decimal.Decimal
	ApprovalThreshold decimal.Decimal
}

func (s *Service) AddChild(ctx context.Context, params AddChildParams) (*Child, error) {
	if params.Name == "" {
		return nil, errs.Validationf("child name is required")
	}

	f, err := s.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	child := &Child{
		ID:                uuid.New(),
		FamilyID:          f.ID,
		Name:              params.Name,
		AllowanceAmount:   params.AllowanceAmount,
		MonthlyLimit:      params.MonthlyLimit,
		ApprovalThreshold: params.ApprovalThreshold,
		CreatedAt:         time.Now().UTC(),
	}
	f.Children = append(f.Children, child)

	if err := s.repo.SaveFamily(ctx, f); err != nil {
		return nil, fmt.Errorf("saving family: %w", err)
	}

	return child, nil
}

type ChildSettings struct {
	AllowanceAmount   *decimal.Decimal
	MonthlyLimit      *decimal.Decimal
	ApprovalThreshold *decimal.Decimal
}

func (s *Service) UpdateChildSettings(ctx context.Context, childID uuid.UUID, settings ChildSettings) (*Child, error) {
	f, err := s.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	child := f.Child(childID)
	if child == nil {
		return nil, errs.ErrNotFound
	}

	if settings.AllowanceAmount != nil {
		if settings.AllowanceAmount.Sign() < 0 {
			return nil, errs.Validationf("allowance amount must not be negative")
		}

		child.AllowanceAmount = *settings.AllowanceAmount
	}

	if settings.MonthlyLimit != nil {
		if settings.MonthlyLimit.Sign() < 0 {
			return nil, errs.Validationf("monthly limit must not be negative")
		}

		child.MonthlyLimit = *settings.MonthlyLimit
	}

	if settings.ApprovalThreshold != nil {
		if settings.ApprovalThreshold.Sign() < 0 {
			return nil, errs.Validationf("approval threshold must not be negative")
		}

		child.ApprovalThreshold = *settings.ApprovalThreshold
	}

	if err := s.repo.SaveFamily(ctx, f); err != nil {
		return nil, fmt.Errorf("saving family: %w", err)
	}

	return child, nil
}

func (s *Service) GetChild(ctx context.Context, childID uuid.UUID) (*Child, error) {
	return s.repo.GetChild(ctx, childID)
}
