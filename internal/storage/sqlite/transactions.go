package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/pennyjar/pennyjar/internal/ledger"
)

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `id, child_id, type, amount, description, ts, balance_after, created_at`

func scanTransaction(s scanner) (*ledger.Transaction, error) {
	var tx ledger.Transaction

	var typeStr, ts, createdAt string

	if err := s.Scan(
		&tx.ID, &tx.ChildID, &typeStr, &tx.Amount, &tx.Description,
		&ts, &tx.BalanceAfter, &createdAt,
	); err != nil {
		return nil, err
	}

	tx.Type = ledger.Type(typeStr)

	var err error
	if tx.Timestamp, err = parseTime(ts); err != nil {
		return nil, err
	}

	if tx.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}

	return &tx, nil
}

func (s *Store) AppendTransaction(ctx context.Context, tx *ledger.Transaction) error {
	return execAppendTransaction(ctx, s.db, tx)
}

// execAppendTransaction works on both the pool and an open transaction.
func execAppendTransaction(ctx context.Context, db interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}, tx *ledger.Transaction,
) error {
	query := `
		INSERT INTO transactions (id, child_id, type, amount, description, ts, balance_after, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := db.ExecContext(ctx, query,
		tx.ID.String(), tx.ChildID.String(), string(tx.Type), tx.Amount.String(),
		tx.Description, formatTime(tx.Timestamp), tx.BalanceAfter.String(), formatTime(tx.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("appending transaction: %w", err)
	}

	return nil
}

func (s *Store) ListTransactions(ctx context.Context, childID uuid.UUID) ([]*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE child_id = ?`

	rows, err := s.db.QueryContext(ctx, query, childID.String())
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*ledger.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	return txs, rows.Err()
}
