// Package store persists the credential scheduler's renewal deadline so a
// restart resumes the original schedule instead of renewing blind.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the durable single-record token state, backed by sqlite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the token-state database.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open token state db: %w", err)
	}

	// Single-row table: id is pinned to 1.
	schema := `
	CREATE TABLE IF NOT EXISTS token_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_renewal_at_ms INTEGER NOT NULL,
		updated_at DATETIME
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create token state table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ReadDeadline returns the persisted next-renewal instant. When no record
// exists yet it creates one with a zero deadline and reports created=true,
// which the scheduler treats as "must renew now". Read-and-create is one
// transaction so two starting schedulers cannot both think they created it.
func (s *Store) ReadDeadline(ctx context.Context) (time.Time, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to begin token state read: %w", err)
	}
	defer tx.Rollback()

	var deadlineMs int64
	err = tx.QueryRowContext(ctx, `SELECT next_renewal_at_ms FROM token_state WHERE id = 1`).Scan(&deadlineMs)
	if errors.Is(err, sql.ErrNoRows) {
		now := time.Now().UTC()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO token_state (id, next_renewal_at_ms, updated_at) VALUES (1, 0, ?)`, now); err != nil {
			return time.Time{}, false, fmt.Errorf("failed to create token state record: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return time.Time{}, false, fmt.Errorf("failed to commit token state record: %w", err)
		}
		return time.Time{}, true, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read token state: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to commit token state read: %w", err)
	}
	return time.UnixMilli(deadlineMs), false, nil
}

// WriteDeadline persists the next-renewal instant.
func (s *Store) WriteDeadline(ctx context.Context, deadline time.Time) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO token_state (id, next_renewal_at_ms, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET next_renewal_at_ms = excluded.next_renewal_at_ms, updated_at = excluded.updated_at`,
		deadline.UnixMilli(), now)
	if err != nil {
		return fmt.Errorf("failed to write renewal deadline: %w", err)
	}
	return nil
}
