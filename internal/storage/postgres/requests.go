package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pennyjar/pennyjar/internal/errs"
	"github.com/pennyjar/pennyjar/internal/ledger"
	"github.com/pennyjar/pennyjar/internal/request"
)

const selectRequestColumns = `id, child_id, kind, status, amount, description, category, created_at, processed_at, approved_by, parent_comment`

func scanRequest(s scanner) (*request.Request, error) {
	var req request.Request

	var kindStr, statusStr string

	var comment sql.NullString

	if err := s.Scan(
		&req.ID, &req.ChildID, &kindStr, &statusStr, &req.Amount,
		&req.Description, &req.Category, &req.CreatedAt,
		&req.ProcessedAt, &req.ApprovedBy, &comment,
	); err != nil {
		return nil, err
	}

	req.Kind = request.Kind(kindStr)
	req.Status = request.Status(statusStr)

	if comment.Valid {
		req.ParentComment = &comment.String
	}

	return &req, nil
}

func (s *Store) CreateRequest(ctx context.Context, req *request.Request) error {
	query := `
		INSERT INTO requests (id, child_id, kind, status, amount, description, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := s.db.ExecContext(ctx, query,
		req.ID, req.ChildID, req.Kind, req.Status,
		req.Amount, req.Description, req.Category, req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	return nil
}

// UpsertRequest overwrites the full request row. Used only by journal
// replay, where the local copy is the newer truth.
func (s *Store) UpsertRequest(ctx context.Context, req *request.Request) error {
	query := `
		INSERT INTO requests (id, child_id, kind, status, amount, description, category, created_at, processed_at, approved_by, parent_comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			processed_at = EXCLUDED.processed_at,
			approved_by = EXCLUDED.approved_by,
			parent_comment = EXCLUDED.parent_comment
	`

	_, err := s.db.ExecContext(ctx, query,
		req.ID, req.ChildID, req.Kind, req.Status,
		req.Amount, req.Description, req.Category, req.CreatedAt,
		req.ProcessedAt, req.ApprovedBy, req.ParentComment,
	)
	if err != nil {
		return fmt.Errorf("upserting request: %w", err)
	}

	return nil
}

func (s *Store) GetRequest(ctx context.Context, id uuid.UUID) (*request.Request, error) {
	query := `SELECT ` + selectRequestColumns + ` FROM requests WHERE id = $1`

	req, err := scanRequest(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}

		return nil, fmt.Errorf("getting request: %w", err)
	}

	return req, nil
}

func (s *Store) ListRequests(ctx context.Context, childID uuid.UUID) ([]*request.Request, error) {
	query := `SELECT ` + selectRequestColumns + ` FROM requests WHERE child_id = $1 ORDER BY created_at DESC`

	return s.queryRequests(ctx, query, childID)
}

func (s *Store) ListFamilyRequests(ctx context.Context, status *request.Status) ([]*request.Request, error) {
	query := `SELECT ` + selectRequestColumns + ` FROM requests`

	var args []any

	if status != nil {
		query += ` WHERE status = $1`

		args = append(args, *status)
	}

	query += ` ORDER BY created_at DESC`

	return s.queryRequests(ctx, query, args...)
}

func (s *Store) queryRequests(ctx context.Context, query string, args ...any) ([]*request.Request, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}
	defer rows.Close()

	var reqs []*request.Request

	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning request: %w", err)
		}

		reqs = append(reqs, req)
	}

	return reqs, rows.Err()
}

func (s *Store) CreateDebt(ctx context.Context, debt *request.Debt) error {
	query := `
		INSERT INTO debts (id, child_id, amount, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := s.db.ExecContext(ctx, query,
		debt.ID, debt.ChildID, debt.Amount, debt.Description, debt.Status, debt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating debt: %w", err)
	}

	return nil
}

func (s *Store) ListDebts(ctx context.Context, childID uuid.UUID) ([]*request.Debt, error) {
	query := `
		SELECT id, child_id, amount, description, status, created_at
		FROM debts
		WHERE child_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, childID)
	if err != nil {
		return nil, fmt.Errorf("listing debts: %w", err)
	}
	defer rows.Close()

	var debts []*request.Debt

	for rows.Next() {
		var d request.Debt
		if err := rows.Scan(&d.ID, &d.ChildID, &d.Amount, &d.Description, &d.Status, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning debt: %w", err)
		}

		debts = append(debts, &d)
	}

	return debts, rows.Err()
}

// BeginDecision opens the atomic decision transaction and loads the request
// row under a row lock.
func (s *Store) BeginDecision(ctx context.Context, id uuid.UUID) (request.DecisionTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning decision tx: %w", err)
	}

	query := `SELECT ` + selectRequestColumns + ` FROM requests WHERE id = $1 FOR UPDATE`

	req, err := scanRequest(dbTx.QueryRowContext(ctx, query, id))
	if err != nil {
		dbTx.Rollback()

		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}

		return nil, fmt.Errorf("loading request: %w", err)
	}

	return &decisionTx{tx: dbTx, req: req}, nil
}

type decisionTx struct {
	tx  *sql.Tx
	req *request.Request
}

func (t *decisionTx) Request() *request.Request { return t.req }

// Decide is the conditional update that closes the double-approval race: it
// only succeeds while the row is still pending.
func (t *decisionTx) Decide(ctx context.Context, status request.Status, deciderID uuid.UUID, comment *string, processedAt time.Time) error {
	query := `
		UPDATE requests
		SET status = $1, processed_at = $2, approved_by = $3, parent_comment = $4
		WHERE id = $5 AND status = 'pending'
	`

	var approvedBy any
	if status == request.StatusApproved {
		approvedBy = deciderID
	}

	res, err := t.tx.ExecContext(ctx, query, status, processedAt, approvedBy, comment, t.req.ID)
	if err != nil {
		return fmt.Errorf("updating request status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}

	if n == 0 {
		return errs.ErrInvalidState
	}

	return nil
}

func (t *decisionTx) AppendTransaction(ctx context.Context, tx *ledger.Transaction) error {
	query := `
		INSERT INTO transactions (id, child_id, type, amount, description, ts, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := t.tx.ExecContext(ctx, query,
		tx.ID, tx.ChildID, tx.Type, tx.Amount, tx.Description,
		tx.Timestamp, tx.BalanceAfter, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("appending transaction: %w", err)
	}

	return nil
}

func (t *decisionTx) CreateDebt(ctx context.Context, debt *request.Debt) error {
	query := `
		INSERT INTO debts (id, child_id, amount, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := t.tx.ExecContext(ctx, query,
		debt.ID, debt.ChildID, debt.Amount, debt.Description, debt.Status, debt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating debt: %w", err)
	}

	return nil
}

func (t *decisionTx) Commit() error   { return t.tx.Commit() }
func (t *decisionTx) Rollback() error { return t.tx.Rollback() }
