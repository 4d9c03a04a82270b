package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pennyjar/pennyjar/internal/errs"
	"github.com/pennyjar/pennyjar/internal/goal"
	"github.com/pennyjar/pennyjar/internal/ledger"
)

const selectGoalColumns = `id, child_id, name, target_amount, current_amount, created_at, updated_at, completed_at`

func scanGoal(s scanner) (*goal.Goal, error) {
	var g goal.Goal

	if err := s.Scan(
		&g.ID, &g.ChildID, &g.Name, &g.TargetAmount, &g.CurrentAmount,
		&g.CreatedAt, &g.UpdatedAt, &g.CompletedAt,
	); err != nil {
		return nil, err
	}

	return &g, nil
}

func (s *Store) CreateGoal(ctx context.Context, g *goal.Goal) error {
	query := `
		INSERT INTO goals (id, child_id, name, target_amount, current_amount, created_at, updated_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := s.db.ExecContext(ctx, query,
		g.ID, g.ChildID, g.Name, g.TargetAmount, g.CurrentAmount,
		g.CreatedAt, g.UpdatedAt, g.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("creating goal: %w", err)
	}

	return nil
}

// UpsertGoal overwrites the mutable goal columns. Used only by journal
// replay. completed_at keeps its first value so replay cannot move it.
func (s *Store) UpsertGoal(ctx context.Context, g *goal.Goal) error {
	query := `
		INSERT INTO goals (id, child_id, name, target_amount, current_amount, created_at, updated_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			current_amount = EXCLUDED.current_amount,
			updated_at = EXCLUDED.updated_at,
			completed_at = COALESCE(goals.completed_at, EXCLUDED.completed_at)
	`

	_, err := s.db.ExecContext(ctx, query,
		g.ID, g.ChildID, g.Name, g.TargetAmount, g.CurrentAmount,
		g.CreatedAt, g.UpdatedAt, g.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting goal: %w", err)
	}

	return nil
}

func (s *Store) GetGoal(ctx context.Context, childID, goalID uuid.UUID) (*goal.Goal, error) {
	query := `SELECT ` + selectGoalColumns + ` FROM goals WHERE id = $1 AND child_id = $2`

	g, err := scanGoal(s.db.QueryRowContext(ctx, query, goalID, childID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}

		return nil, fmt.Errorf("getting goal: %w", err)
	}

	return g, nil
}

func (s *Store) ListGoals(ctx context.Context, childID uuid.UUID) ([]*goal.Goal, error) {
	query := `SELECT ` + selectGoalColumns + ` FROM goals WHERE child_id = $1 ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, childID)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer rows.Close()

	var goals []*goal.Goal

	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}

		goals = append(goals, g)
	}

	return goals, rows.Err()
}

// RecordDeposit stores the mutated goal and the goal_deposit ledger entry in
// one database transaction.
func (s *Store) RecordDeposit(ctx context.Context, g *goal.Goal, entry *ledger.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	goalQuery := `
		UPDATE goals
		SET current_amount = $1, updated_at = $2, completed_at = COALESCE(completed_at, $3)
		WHERE id = $4 AND child_id = $5
	`

	res, err := dbTx.ExecContext(ctx, goalQuery,
		g.CurrentAmount, g.UpdatedAt, g.CompletedAt, g.ID, g.ChildID,
	)
	if err != nil {
		return fmt.Errorf("updating goal: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}

	if n == 0 {
		return errs.ErrNotFound
	}

	txQuery := `
		INSERT INTO transactions (id, child_id, type, amount, description, ts, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`

	if _, err := dbTx.ExecContext(ctx, txQuery,
		entry.ID, entry.ChildID, entry.Type, entry.Amount, entry.Description,
		entry.Timestamp, entry.BalanceAfter, entry.CreatedAt,
	); err != nil {
		return fmt.Errorf("appending deposit transaction: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing deposit: %w", err)
	}

	return nil
}
