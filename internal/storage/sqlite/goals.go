package sqlite

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

	var createdAt, updatedAt string

	var completedAt sql.NullString

	if err := s.Scan(
		&g.ID, &g.ChildID, &g.Name, &g.TargetAmount, &g.CurrentAmount,
		&createdAt, &updatedAt, &completedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if g.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}

	if g.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	if g.CompletedAt, err = parseTimePtr(completedAt); err != nil {
		return nil, err
	}

	return &g, nil
}

func (s *Store) CreateGoal(ctx context.Context, g *goal.Goal) error {
	query := `
		INSERT INTO goals (id, child_id, name, target_amount, current_amount, created_at, updated_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := s.db.ExecContext(ctx, query,
		g.ID.String(), g.ChildID.String(), g.Name,
		g.TargetAmount.String(), g.CurrentAmount.String(),
		formatTime(g.CreatedAt), formatTime(g.UpdatedAt), formatTimePtr(g.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("creating goal: %w", err)
	}

	return nil
}

func (s *Store) UpsertGoal(ctx context.Context, g *goal.Goal) error {
	query := `
		INSERT INTO goals (id, child_id, name, target_amount, current_amount, created_at, updated_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			current_amount = excluded.current_amount,
			updated_at = excluded.updated_at,
			completed_at = COALESCE(goals.completed_at, excluded.completed_at)
	`

	_, err := s.db.ExecContext(ctx, query,
		g.ID.String(), g.ChildID.String(), g.Name,
		g.TargetAmount.String(), g.CurrentAmount.String(),
		formatTime(g.CreatedAt), formatTime(g.UpdatedAt), formatTimePtr(g.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting goal: %w", err)
	}

	return nil
}

func (s *Store) GetGoal(ctx context.Context, childID, goalID uuid.UUID) (*goal.Goal, error) {
	query := `SELECT ` + selectGoalColumns + ` FROM goals WHERE id = ? AND child_id = ?`

	g, err := scanGoal(s.db.QueryRowContext(ctx, query, goalID.String(), childID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}

		return nil, fmt.Errorf("getting goal: %w", err)
	}

	return g, nil
}

func (s *Store) ListGoals(ctx context.Context, childID uuid.UUID) ([]*goal.Goal, error) {
	query := `SELECT ` + selectGoalColumns + ` FROM goals WHERE child_id = ? ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, childID.String())
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

func (s *Store) RecordDeposit(ctx context.Context, g *goal.Goal, entry *ledger.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	goalQuery := `
		UPDATE goals
		SET current_amount = ?, updated_at = ?, completed_at = COALESCE(completed_at, ?)
		WHERE id = ? AND child_id = ?
	`

	res, err := dbTx.ExecContext(ctx, goalQuery,
		g.CurrentAmount.String(), formatTime(g.UpdatedAt), formatTimePtr(g.CompletedAt),
		g.ID.String(), g.ChildID.String(),
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

	if err := execAppendTransaction(ctx, dbTx, entry); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing deposit: %w", err)
	}

	return nil
}
