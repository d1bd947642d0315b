// Package snapshot persists product builder dumps in a local SQLite file.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chemsearch/backend/internal/domain"
	_ "modernc.org/sqlite"
)

// Fixed-width so that text ordering matches time ordering
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `
	CREATE TABLE IF NOT EXISTS snapshots (
		id         TEXT PRIMARY KEY,
		base_url   TEXT NOT NULL,
		drafts     TEXT NOT NULL,
		created_at TEXT NOT NULL
	)
`

// SQLiteStore implements domain.SnapshotStore on top of SQLite
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the snapshot database at path.
// ":memory:" gives a private in-memory store.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create snapshot schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save inserts or replaces a snapshot
func (s *SQLiteStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	if snap == nil || snap.ID == "" {
		return fmt.Errorf("%w: snapshot id is required", domain.ErrInvalidRequest)
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}

	drafts, err := json.Marshal(snap.Drafts)
	if err != nil {
		return fmt.Errorf("marshal drafts: %w", err)
	}

	query := `
		INSERT INTO snapshots (id, base_url, drafts, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			base_url = excluded.base_url,
			drafts = excluded.drafts,
			created_at = excluded.created_at
	`
	_, err = s.db.ExecContext(ctx, query, snap.ID, snap.BaseURL, string(drafts), snap.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", snap.ID, err)
	}
	return nil
}

// Load retrieves a snapshot by id
func (s *SQLiteStore) Load(ctx context.Context, id string) (*domain.Snapshot, error) {
	query := `SELECT id, base_url, drafts, created_at FROM snapshots WHERE id = ?`

	var (
		snap      domain.Snapshot
		drafts    string
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(&snap.ID, &snap.BaseURL, &drafts, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(drafts), &snap.Drafts); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", id, err)
	}
	if t, err := time.Parse(timeLayout, createdAt); err == nil {
		snap.CreatedAt = t
	}

	return &snap, nil
}

// Delete removes a snapshot. Deleting an unknown id is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete snapshot %s: %w", id, err)
	}
	return nil
}

// List returns snapshot ids with their creation time, newest first. Drafts are not loaded.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]domain.Snapshot, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, base_url, created_at FROM snapshots ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []domain.Snapshot
	for rows.Next() {
		var (
			snap      domain.Snapshot
			createdAt string
		)
		if err := rows.Scan(&snap.ID, &snap.BaseURL, &createdAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if t, err := time.Parse(timeLayout, createdAt); err == nil {
			snap.CreatedAt = t
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
