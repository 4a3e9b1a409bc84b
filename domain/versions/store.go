package versions

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/schemata-hq/schemata-server/domain/branches"
	"github.com/schemata-hq/schemata-server/internal/database"
	"github.com/schemata-hq/schemata-server/pkg/logger"
)

type Store struct {
	db  *bun.DB
	log *slog.Logger
}

func NewStore(db *bun.DB, log *slog.Logger) *Store {
	return &Store{db: db, log: log.With(logger.Scope("versions.store"))}
}

// BeginTx starts a transaction for the commit path. Callers are expected to
// defer tx.Rollback() and call tx.Commit() themselves.
func (s *Store) BeginTx(ctx context.Context) (database.Tx, error) {
	return database.BeginSafeTx(ctx, s.db)
}

func (s *Store) GetByID(ctx context.Context, projectID, id uuid.UUID) (*Version, error) {
	v := new(Version)
	err := s.db.NewSelect().
		Model(v).
		Where("v.project_id = ?", projectID).
		Where("v.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// GetParent fetches the parent link only, without snapshot content. The
// ancestry walk during merge base resolution reads many rows and never
// needs the documents.
func (s *Store) GetParent(ctx context.Context, projectID, id uuid.UUID) (*uuid.UUID, bool, error) {
	var row struct {
		ParentID *uuid.UUID `bun:"parent_id"`
	}
	err := s.db.NewSelect().
		TableExpr("md.versions AS v").
		Column("parent_id").
		Where("v.project_id = ?", projectID).
		Where("v.id = ?", id).
		Scan(ctx, &row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return row.ParentID, true, nil
}

func (s *Store) ListByBranch(ctx context.Context, projectID, branchID uuid.UUID) ([]Version, error) {
	var out []Version
	err := s.db.NewSelect().
		Model(&out).
		ExcludeColumn("content").
		Where("v.project_id = ?", projectID).
		Where("v.branch_id = ?", branchID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LockBranch takes a row lock on the branch inside tx so that concurrent
// commits to the same branch serialize on the head pointer.
func (s *Store) LockBranch(ctx context.Context, tx bun.IDB, projectID, branchID uuid.UUID) (*branches.Branch, error) {
	b := new(branches.Branch)
	err := tx.NewSelect().
		Model(b).
		Where("b.project_id = ?", projectID).
		Where("b.id = ?", branchID).
		For("UPDATE").
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Store) Insert(ctx context.Context, tx bun.IDB, v *Version) error {
	_, err := tx.NewInsert().Model(v).Returning("id, created_at").Exec(ctx)
	return err
}

// AdvanceHead moves the branch head pointer to the freshly inserted version.
// Must run in the same transaction that holds the branch lock.
func (s *Store) AdvanceHead(ctx context.Context, tx bun.IDB, branchID, versionID uuid.UUID) error {
	_, err := tx.NewUpdate().
		Model((*branches.Branch)(nil)).
		Set("head_version_id = ?", versionID).
		Where("id = ?", branchID).
		Exec(ctx)
	return err
}
