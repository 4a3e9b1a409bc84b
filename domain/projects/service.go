package projects

import (
	"context"
	"log/slog"
	"strings"

	"github.com/uptrace/bun"

	"github.com/schemata-hq/schemata-server/domain/branches"
	"github.com/schemata-hq/schemata-server/internal/database"
	"github.com/schemata-hq/schemata-server/pkg/apperror"
	"github.com/schemata-hq/schemata-server/pkg/logger"
	"github.com/schemata-hq/schemata-server/pkg/pgutils"
)

const defaultBranchName = "main"

// Service handles business logic for projects
type Service struct {
	repo     *Repository
	branches *branches.Store
	db       *bun.DB
	log      *slog.Logger
}

// NewService creates a new projects service
func NewService(repo *Repository, branchStore *branches.Store, db *bun.DB, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		branches: branchStore,
		db:       db,
		log:      log.With(logger.Scope("projects.service")),
	}
}

func (s *Service) List(ctx context.Context) ([]Project, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id string) (*Project, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.ErrProjectNotFound.WithMessage("project not found")
	}
	return p, nil
}

// Create inserts the project together with its default branch. The branch
// starts with no head; the first commit sets it.
func (s *Service) Create(ctx context.Context, req *CreateProjectRequest) (*Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.ErrValidation.WithMessage("name is required")
	}

	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.ErrConflict.WithMessage("a project with this name already exists")
	}

	tx, err := database.BeginSafeTx(ctx, s.db)
	if err != nil {
		return nil, apperror.NewInternal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	project := &Project{Name: name}
	if _, err := s.repo.Create(ctx, tx, project); err != nil {
		if pgutils.IsUniqueViolation(err) {
			return nil, apperror.ErrConflict.WithMessage("a project with this name already exists")
		}
		return nil, err
	}

	branch := &branches.Branch{
		ProjectID: project.ID,
		Name:      defaultBranchName,
		IsDefault: true,
	}
	if _, err := s.branches.Create(ctx, tx, branch); err != nil {
		return nil, apperror.NewInternal("failed to create default branch", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.NewInternal("failed to commit transaction", err)
	}

	s.log.Info("project created", slog.String("project_id", project.ID.String()), slog.String("name", name))
	return project, nil
}
