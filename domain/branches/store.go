package branches

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/schemata-hq/schemata-server/internal/database"
)

// Store handles database operations for branches
type Store struct {
	db bun.IDB
}

// NewStore creates a new branches store
func NewStore(db bun.IDB) *Store {
	return &Store{db: db}
}

// HeadSummary is the resolved head of a branch, joined from md.versions.
type HeadSummary struct {
	VersionID uuid.UUID  `bun:"head_id"`
	AuthorID  *uuid.UUID `bun:"head_author_id"`
	Message   string     `bun:"head_message"`
	CreatedAt time.Time  `bun:"head_created_at"`
}

// BranchWithHead is a branch row plus its resolved head summary, if any.
type BranchWithHead struct {
	Branch
	Head *HeadSummary
}

// List returns all branches in a project with their resolved heads
func (s *Store) List(ctx context.Context, projectID string) ([]*BranchWithHead, error) {
	type row struct {
		Branch
		HeadID        *uuid.UUID `bun:"head_id"`
		HeadAuthorID  *uuid.UUID `bun:"head_author_id"`
		HeadMessage   *string    `bun:"head_message"`
		HeadCreatedAt *time.Time `bun:"head_created_at"`
	}

	var rows []row
	err := s.db.NewSelect().
		Model((*Branch)(nil)).
		ColumnExpr("b.*").
		ColumnExpr("v.id AS head_id").
		ColumnExpr("v.author_id AS head_author_id").
		ColumnExpr("v.message AS head_message").
		ColumnExpr("v.created_at AS head_created_at").
		Join("LEFT JOIN md.versions AS v ON v.id = b.head_version_id").
		Where("b.project_id = ?", projectID).
		Order("b.created_at ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}

	out := make([]*BranchWithHead, len(rows))
	for i, r := range rows {
		bh := &BranchWithHead{Branch: r.Branch}
		if r.HeadID != nil {
			bh.Head = &HeadSummary{
				VersionID: *r.HeadID,
				AuthorID:  r.HeadAuthorID,
				CreatedAt: *r.HeadCreatedAt,
			}
			if r.HeadMessage != nil {
				bh.Head.Message = *r.HeadMessage
			}
		}
		out[i] = bh
	}
	return out, nil
}

// GetWithHead returns one branch with its resolved head summary, or nil when
// absent
func (s *Store) GetWithHead(ctx context.Context, projectID, id string) (*BranchWithHead, error) {
	type row struct {
		Branch
		HeadID        *uuid.UUID `bun:"head_id"`
		HeadAuthorID  *uuid.UUID `bun:"head_author_id"`
		HeadMessage   *string    `bun:"head_message"`
		HeadCreatedAt *time.Time `bun:"head_created_at"`
	}

	var r row
	err := s.db.NewSelect().
		Model((*Branch)(nil)).
		ColumnExpr("b.*").
		ColumnExpr("v.id AS head_id").
		ColumnExpr("v.author_id AS head_author_id").
		ColumnExpr("v.message AS head_message").
		ColumnExpr("v.created_at AS head_created_at").
		Join("LEFT JOIN md.versions AS v ON v.id = b.head_version_id").
		Where("b.id = ?", id).
		Where("b.project_id = ?", projectID).
		Scan(ctx, &r)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	bh := &BranchWithHead{Branch: r.Branch}
	if r.HeadID != nil {
		bh.Head = &HeadSummary{
			VersionID: *r.HeadID,
			AuthorID:  r.HeadAuthorID,
			CreatedAt: *r.HeadCreatedAt,
		}
		if r.HeadMessage != nil {
			bh.Head.Message = *r.HeadMessage
		}
	}
	return bh, nil
}

// GetByID returns a branch by ID within a project, or nil when absent
func (s *Store) GetByID(ctx context.Context, projectID, id string) (*Branch, error) {
	branch := new(Branch)
	err := s.db.NewSelect().
		Model(branch).
		Where("b.id = ?", id).
		Where("b.project_id = ?", projectID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return branch, nil
}

// GetByName returns a branch by name within a project, or nil when absent
func (s *Store) GetByName(ctx context.Context, projectID, name string) (*Branch, error) {
	branch := new(Branch)
	err := s.db.NewSelect().
		Model(branch).
		Where("b.name = ?", name).
		Where("b.project_id = ?", projectID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return branch, nil
}

// Create inserts a new branch and returns it. A nil db falls back to the
// store's own connection; transactional callers pass their tx.
func (s *Store) Create(ctx context.Context, db bun.IDB, branch *Branch) (*Branch, error) {
	if db == nil {
		db = s.db
	}
	_, err := db.NewInsert().
		Model(branch).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return branch, nil
}

// Rename updates a branch name and returns the updated row, or nil when the
// branch does not exist
func (s *Store) Rename(ctx context.Context, projectID, id, name string) (*Branch, error) {
	branch := new(Branch)
	_, err := s.db.NewUpdate().
		Model(branch).
		Set("name = ?", name).
		Where("id = ?", id).
		Where("project_id = ?", projectID).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	if branch.ID == uuid.Nil {
		return nil, nil
	}
	return branch, nil
}

// SetDefault makes the given branch the single default of its project. Both
// updates run in one transaction so the partial unique index on is_default
// never sees two defaults.
func (s *Store) SetDefault(ctx context.Context, projectID, id string) error {
	tx, err := database.BeginSafeTx(ctx, s.db)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.setDefaultTx(ctx, tx, projectID, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) setDefaultTx(ctx context.Context, tx bun.IDB, projectID, id string) error {
	_, err := tx.NewUpdate().
		Model((*Branch)(nil)).
		Set("is_default = false").
		Where("project_id = ?", projectID).
		Where("is_default = true").
		Where("id != ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}

	res, err := tx.NewUpdate().
		Model((*Branch)(nil)).
		Set("is_default = true").
		Where("id = ?", id).
		Where("project_id = ?", projectID).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a branch by ID, returning true when a row was deleted
func (s *Store) Delete(ctx context.Context, projectID, id string) (bool, error) {
	result, err := s.db.NewDelete().
		Model((*Branch)(nil)).
		Where("id = ?", id).
		Where("project_id = ?", projectID).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}
