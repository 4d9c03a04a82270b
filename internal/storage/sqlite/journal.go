package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pennyjar/pennyjar/internal/storage"
)

// Enqueue records a write served by this backend while the remote was down.
// The reconciler drains the journal once the remote is reachable again.
func (s *Store) Enqueue(ctx context.Context, collection string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal journal payload: %w", err)
	}

	query := `INSERT INTO sync_journal (collection, payload, created_at) VALUES (?, ?, ?)`

	if _, err := s.db.ExecContext(ctx, query, collection, body, formatTime(time.Now())); err != nil {
		return fmt.Errorf("enqueue journal entry: %w", err)
	}

	return nil
}

// Pending returns the oldest unreplayed entries, in write order.
func (s *Store) Pending(ctx context.Context, limit int) ([]storage.JournalEntry, error) {
	query := `
		SELECT id, collection, payload, created_at
		FROM sync_journal
		WHERE synced_at IS NULL
		ORDER BY id
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing pending journal entries: %w", err)
	}
	defer rows.Close()

	var entries []storage.JournalEntry

	for rows.Next() {
		var entry storage.JournalEntry

		var createdAt string

		if err := rows.Scan(&entry.ID, &entry.Collection, (*[]byte)(&entry.Payload), &createdAt); err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}

		if entry.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (s *Store) MarkDone(ctx context.Context, id int64) error {
	query := `UPDATE sync_journal SET synced_at = ? WHERE id = ?`

	if _, err := s.db.ExecContext(ctx, query, formatTime(time.Now()), id); err != nil {
		return fmt.Errorf("marking journal entry done: %w", err)
	}

	return nil
}
