package sqlite

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

	var kindStr, statusStr, createdAt string

	var processedAt, approvedBy, comment sql.NullString

	if err := s.Scan(
		&req.ID, &req.ChildID, &kindStr, &statusStr, &req.Amount,
		&req.Description, &req.Category, &createdAt,
		&processedAt, &approvedBy, &comment,
	); err != nil {
		return nil, err
	}

	req.Kind = request.Kind(kindStr)
	req.Status = request.Status(statusStr)

	var err error
	if req.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}

	if req.ProcessedAt, err = parseTimePtr(processedAt); err != nil {
		return nil, err
	}

	if approvedBy.Valid {
		id, err := uuid.Parse(approvedBy.String)
		if err != nil {
			return nil, fmt.Errorf("parsing approver id: %w", err)
		}

		req.ApprovedBy = &id
	}

	if comment.Valid {
		req.ParentComment = &comment.String
	}

	return &req, nil
}

func (s *Store) CreateRequest(ctx context.Context, req *request.Request) error {
	query := `
		INSERT INTO requests (id, child_id, kind, status, amount, description, category, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := s.db.ExecContext(ctx, query,
		req.ID.String(), req.ChildID.String(), string(req.Kind), string(req.Status),
		req.Amount.String(), req.Description, req.Category, formatTime(req.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	return nil
}

func (s *Store) UpsertRequest(ctx context.Context, req *request.Request) error {
	query := `
		INSERT INTO requests (id, child_id, kind, status, amount, description, category, created_at, processed_at, approved_by, parent_comment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			status = excluded.status,
			processed_at = excluded.processed_at,
			approved_by = excluded.approved_by,
			parent_comment = excluded.parent_comment
	`

	var approvedBy any
	if req.ApprovedBy != nil {
		approvedBy = req.ApprovedBy.String()
	}

	var comment any
	if req.ParentComment != nil {
		comment = *req.ParentComment
	}

	_, err := s.db.ExecContext(ctx, query,
		req.ID.String(), req.ChildID.String(), string(req.Kind), string(req.Status),
		req.Amount.String(), req.Description, req.Category, formatTime(req.CreatedAt),
		formatTimePtr(req.ProcessedAt), approvedBy, comment,
	)
	if err != nil {
		return fmt.Errorf("upserting request: %w", err)
	}

	return nil
}

func (s *Store) GetRequest(ctx context.Context, id uuid.UUID) (*request.Request, error) {
	query := `SELECT ` + selectRequestColumns + ` FROM requests WHERE id = ?`

	req, err := scanRequest(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}

		return nil, fmt.Errorf("getting request: %w", err)
	}

	return req, nil
}

func (s *Store) ListRequests(ctx context.Context, childID uuid.UUID) ([]*request.Request, error) {
	query := `SELECT ` + selectRequestColumns + ` FROM requests WHERE child_id = ? ORDER BY created_at DESC`

	return s.queryRequests(ctx, query, childID.String())
}

func (s *Store) ListFamilyRequests(ctx context.Context, status *request.Status) ([]*request.Request, error) {
	query := `SELECT ` + selectRequestColumns + ` FROM requests`

	var args []any

	if status != nil {
		query += ` WHERE status = ?`

		args = append(args, string(*status))
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
	return execCreateDebt(ctx, s.db, debt)
}

func execCreateDebt(ctx context.Context, db interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}, debt *request.Debt,
) error {
	query := `
		INSERT INTO debts (id, child_id, amount, description, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := db.ExecContext(ctx, query,
		debt.ID.String(), debt.ChildID.String(), debt.Amount.String(),
		debt.Description, debt.Status, formatTime(debt.CreatedAt),
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
		WHERE child_id = ?
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, childID.String())
	if err != nil {
		return nil, fmt.Errorf("listing debts: %w", err)
	}
	defer rows.Close()

	var debts []*request.Debt

	for rows.Next() {
		var d request.Debt

		var createdAt string

		if err := rows.Scan(&d.ID, &d.ChildID, &d.Amount, &d.Description, &d.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning debt: %w", err)
		}

		if d.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}

		debts = append(debts, &d)
	}

	return debts, rows.Err()
}

func (s *Store) BeginDecision(ctx context.Context, id uuid.UUID) (request.DecisionTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning decision tx: %w", err)
	}

	query := `SELECT ` + selectRequestColumns + ` FROM requests WHERE id = ?`

	req, err := scanRequest(dbTx.QueryRowContext(ctx, query, id.String()))
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

// Decide only succeeds while the row is still pending, which closes the
// double-approval race on this backend too.
func (t *decisionTx) Decide(ctx context.Context, status request.Status, deciderID uuid.UUID, comment *string, processedAt time.Time) error {
	query := `
		UPDATE requests
		SET status = ?, processed_at = ?, approved_by = ?, parent_comment = ?
		WHERE id = ? AND status = 'pending'
	`

	var approvedBy any
	if status == request.StatusApproved {
		approvedBy = deciderID.String()
	}

	var commentVal any
	if comment != nil {
		commentVal = *comment
	}

	res, err := t.tx.ExecContext(ctx, query,
		string(status), formatTime(processedAt), approvedBy, commentVal, t.req.ID.String(),
	)
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
	return execAppendTransaction(ctx, t.tx, tx)
}

func (t *decisionTx) CreateDebt(ctx context.Context, debt *request.Debt) error {
	return execCreateDebt(ctx, t.tx, debt)
}

func (t *decisionTx) Commit() error   { return t.tx.Commit() }
func (t *decisionTx) Rollback() error { return t.tx.Rollback() }
