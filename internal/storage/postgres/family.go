package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pennyjar/pennyjar/internal/errs"
	"github.com/pennyjar/pennyjar/internal/family"
)

func (s *Store) GetFamily(ctx context.Context) (*family.Family, error) {
	query := `SELECT id, name, created_at FROM families ORDER BY created_at LIMIT 1`

	var fam family.Family
	if err := s.db.QueryRowContext(ctx, query).Scan(&fam.ID, &fam.Name, &fam.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}

		return nil, fmt.Errorf("getting family: %w", err)
	}

	children, err := s.listChildren(ctx, fam.ID)
	if err != nil {
		return nil, err
	}

	fam.Children = children

	return &fam, nil
}

func (s *Store) listChildren(ctx context.Context, familyID uuid.UUID) ([]*family.Child, error) {
	query := `
		SELECT id, family_id, name, allowance_amount, monthly_limit, approval_threshold, created_at
		FROM children
		WHERE family_id = $1
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("listing children: %w", err)
	}
	defer rows.Close()

	var children []*family.Child

	for rows.Next() {
		var c family.Child
		if err := rows.Scan(
			&c.ID, &c.FamilyID, &c.Name,
			&c.AllowanceAmount, &c.MonthlyLimit, &c.ApprovalThreshold,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning child: %w", err)
		}

		children = append(children, &c)
	}

	return children, rows.Err()
}

func (s *Store) SaveFamily(ctx context.Context, fam *family.Family) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	familyQuery := `
		INSERT INTO families (id, name, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
	`
	if _, err := dbTx.ExecContext(ctx, familyQuery, fam.ID, fam.Name, fam.CreatedAt); err != nil {
		return fmt.Errorf("upserting family: %w", err)
	}

	childQuery := `
		INSERT INTO children (id, family_id, name, allowance_amount, monthly_limit, approval_threshold, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			allowance_amount = EXCLUDED.allowance_amount,
			monthly_limit = EXCLUDED.monthly_limit,
			approval_threshold = EXCLUDED.approval_threshold
	`

	for _, c := range fam.Children {
		if _, err := dbTx.ExecContext(ctx, childQuery,
			c.ID, fam.ID, c.Name,
			c.AllowanceAmount, c.MonthlyLimit, c.ApprovalThreshold,
			c.CreatedAt,
		); err != nil {
			return fmt.Errorf("upserting child: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing family: %w", err)
	}

	return nil
}

func (s *Store) GetChild(ctx context.Context, childID uuid.UUID) (*family.Child, error) {
	query := `
		SELECT id, family_id, name, allowance_amount, monthly_limit, approval_threshold, created_at
		FROM children
		WHERE id = $1
	`

	var c family.Child
	if err := s.db.QueryRowContext(ctx, query, childID).Scan(
		&c.ID, &c.FamilyID, &c.Name,
		&c.AllowanceAmount, &c.MonthlyLimit, &c.ApprovalThreshold,
		&c.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}

		return nil, fmt.Errorf("getting child: %w", err)
	}

	return &c, nil
}
