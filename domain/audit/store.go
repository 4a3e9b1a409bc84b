package audit

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Store handles database operations for the audit log
type Store struct {
	db bun.IDB
}

// NewStore creates a new audit store
func NewStore(db bun.IDB) *Store {
	return &Store{db: db}
}

// Insert appends an entry using the given connection, so callers can record
// inside their own transaction.
func (s *Store) Insert(ctx context.Context, db bun.IDB, entry *Entry) error {
	if entry.Detail == nil {
		entry.Detail = map[string]any{}
	}
	_, err := db.NewInsert().
		Model(entry).
		Exec(ctx)
	return err
}

// List returns the most recent entries for a project
func (s *Store) List(ctx context.Context, projectID string, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var entries []Entry
	err := s.db.NewSelect().
		Model(&entries).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteOlderThan prunes entries past the retention window, returning the
// number of rows removed.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.NewDelete().
		Model((*Entry)(nil)).
		Where("created_at < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
