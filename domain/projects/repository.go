package projects

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/uptrace/bun"

	"github.com/schemata-hq/schemata-server/pkg/apperror"
	"github.com/schemata-hq/schemata-server/pkg/logger"
)

// Repository handles database operations for projects
type Repository struct {
	db  bun.IDB
	log *slog.Logger
}

// NewRepository creates a new project repository
func NewRepository(db bun.IDB, log *slog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With(logger.Scope("projects.repo")),
	}
}

// List returns all projects, newest first
func (r *Repository) List(ctx context.Context) ([]Project, error) {
	var projects []Project
	err := r.db.NewSelect().
		Model(&projects).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		r.log.Error("failed to list projects", logger.Error(err))
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return projects, nil
}

// GetByID returns a project by ID, or nil when it does not exist
func (r *Repository) GetByID(ctx context.Context, id string) (*Project, error) {
	var project Project
	err := r.db.NewSelect().
		Model(&project).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to get project", logger.Error(err), slog.String("id", id))
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return &project, nil
}

// GetByName returns a project by name, or nil when it does not exist
func (r *Repository) GetByName(ctx context.Context, name string) (*Project, error) {
	var project Project
	err := r.db.NewSelect().
		Model(&project).
		Where("name = ?", name).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return &project, nil
}

// Create inserts a new project and returns it
func (r *Repository) Create(ctx context.Context, tx bun.IDB, project *Project) (*Project, error) {
	_, err := tx.NewInsert().
		Model(project).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return project, nil
}
