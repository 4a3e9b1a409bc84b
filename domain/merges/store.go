package merges

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/schemata-hq/schemata-server/pkg/logger"
)

type Store struct {
	db  *bun.DB
	log *slog.Logger
}

func NewStore(db *bun.DB, log *slog.Logger) *Store {
	return &Store{db: db, log: log.With(logger.Scope("merges.store"))}
}

// Insert writes the merge record inside the caller's transaction so it
// commits or rolls back together with the result version.
func (s *Store) Insert(ctx context.Context, tx bun.IDB, m *Merge) error {
	_, err := tx.NewInsert().Model(m).Returning("id, created_at").Exec(ctx)
	return err
}

func (s *Store) GetByID(ctx context.Context, projectID, id uuid.UUID) (*Merge, error) {
	m := new(Merge)
	err := s.db.NewSelect().
		Model(m).
		Where("m.project_id = ?", projectID).
		Where("m.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Store) ListByProject(ctx context.Context, projectID uuid.UUID, limit int) ([]Merge, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []Merge
	err := s.db.NewSelect().
		Model(&out).
		Where("m.project_id = ?", projectID).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return out, nil
}
