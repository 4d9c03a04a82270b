package postgres

import (
	"context"
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

	var typeStr string

	if err := s.Scan(
		&tx.ID, &tx.ChildID, &typeStr, &tx.Amount, &tx.Description,
		&tx.Timestamp, &tx.BalanceAfter, &tx.CreatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = ledger.Type(typeStr)

	return &tx, nil
}

// AppendTransaction inserts the entry. The conflict clause makes journal
// replay idempotent: entries carry stable ids and are never updated.
func (s *Store) AppendTransaction(ctx context.Context, tx *ledger.Transaction) error {
	query := `
		INSERT INTO transactions (id, child_id, type, amount, description, ts, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := s.db.ExecContext(ctx, query,
		tx.ID, tx.ChildID, tx.Type, tx.Amount, tx.Description,
		tx.Timestamp, tx.BalanceAfter, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("appending transaction: %w", err)
	}

	return nil
}

func (s *Store) ListTransactions(ctx context.Context, childID uuid.UUID) ([]*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE child_id = $1`

	rows, err := s.db.QueryContext(ctx, query, childID)
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
