package diffs

import (
	"context"
	"log/slog"
	"time"

	"github.com/uptrace/bun"

	"github.com/schemata-hq/schemata-server/pkg/logger"
)

type Store struct {
	db  *bun.DB
	log *slog.Logger
}

func NewStore(db *bun.DB, log *slog.Logger) *Store {
	return &Store{db: db, log: log.With(logger.Scope("diffs.store"))}
}

// Upsert writes the report for the ordered version pair, replacing any
// previous row for the same pair.
func (s *Store) Upsert(ctx context.Context, report *DiffReport) error {
	_, err := s.db.NewInsert().
		Model(report).
		On("CONFLICT (project_id, from_version_id, to_version_id) DO UPDATE").
		Set("report = EXCLUDED.report").
		Set("computed_at = EXCLUDED.computed_at").
		Returning("id").
		Exec(ctx)
	return err
}

// DeleteOlderThan prunes cached reports whose last computation predates the
// cutoff. Stale rows are harmless but pile up; the scheduler sweeps them.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.NewDelete().
		Model((*DiffReport)(nil)).
		Where("computed_at < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
