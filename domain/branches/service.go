package branches

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/schemata-hq/schemata-server/pkg/apperror"
	"github.com/schemata-hq/schemata-server/pkg/pgutils"
)

// VersionSeeder creates the initial version of a freshly created branch by
// copying an existing snapshot's content. Implemented by the versions
// service; declared here so branch creation does not depend on that package.
type VersionSeeder interface {
	// ValidateSource checks that the named version exists in the project.
	// Called before the branch row is inserted; versions are append-only, so
	// a source that validates here is still present when the seed runs.
	ValidateSource(ctx context.Context, projectID, fromVersionID string) error
	SeedBranch(ctx context.Context, projectID, branchID, fromVersionID string, authorID *string) (string, error)
}

// branchStore is the persistence surface the service drives. Satisfied by
// *Store; narrow enough that tests can substitute an in-memory fake.
type branchStore interface {
	List(ctx context.Context, projectID string) ([]*BranchWithHead, error)
	GetByID(ctx context.Context, projectID, id string) (*Branch, error)
	GetWithHead(ctx context.Context, projectID, id string) (*BranchWithHead, error)
	GetByName(ctx context.Context, projectID, name string) (*Branch, error)
	Create(ctx context.Context, db bun.IDB, branch *Branch) (*Branch, error)
	Rename(ctx context.Context, projectID, id, name string) (*Branch, error)
	SetDefault(ctx context.Context, projectID, id string) error
	Delete(ctx context.Context, projectID, id string) (bool, error)
}

// Service handles business logic for branches
type Service struct {
	store  branchStore
	seeder VersionSeeder
}

// NewService creates a new branches service
func NewService(store *Store, seeder VersionSeeder) *Service {
	return &Service{store: store, seeder: seeder}
}

// List returns all branches of a project with resolved head summaries
func (s *Service) List(ctx context.Context, projectID string) ([]*BranchResponse, error) {
	branches, err := s.store.List(ctx, projectID)
	if err != nil {
		return nil, apperror.ErrInternal.WithInternal(err)
	}
	return ToResponseList(branches), nil
}

// GetByID returns a branch by ID
func (s *Service) GetByID(ctx context.Context, projectID, id string) (*BranchResponse, error) {
	branch, err := s.store.GetWithHead(ctx, projectID, id)
	if err != nil {
		return nil, apperror.ErrInternal.WithInternal(err)
	}
	if branch == nil {
		return nil, apperror.ErrBranchNotFound
	}
	return ToResponse(branch), nil
}

// Create creates a new branch. When the request names a source version, the
// branch is seeded with an initial version copying that snapshot's content.
// The source is validated before the branch row lands, so a bad
// from_version_id never leaves an empty branch behind.
func (s *Service) Create(ctx context.Context, projectID string, req *CreateBranchRequest) (*BranchResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.ErrBadRequest.WithMessage("name is required")
	}

	existing, err := s.store.GetByName(ctx, projectID, name)
	if err != nil {
		return nil, apperror.ErrInternal.WithInternal(err)
	}
	if existing != nil {
		return nil, apperror.ErrConflict.WithMessage("branch name already exists in this project")
	}

	pid, err := uuid.Parse(projectID)
	if err != nil {
		return nil, apperror.ErrBadRequest.WithMessage("invalid project id format")
	}
	branch := &Branch{ProjectID: pid, Name: name}
	if req.CreatedByID != nil && *req.CreatedByID != "" {
		createdBy, err := uuid.Parse(*req.CreatedByID)
		if err != nil {
			return nil, apperror.ErrBadRequest.WithMessage("invalid created_by_id format")
		}
		branch.CreatedByID = &createdBy
	}

	seed := req.FromVersionID != nil && *req.FromVersionID != ""
	if seed {
		if err := s.seeder.ValidateSource(ctx, projectID, *req.FromVersionID); err != nil {
			return nil, err
		}
	}

	created, err := s.store.Create(ctx, nil, branch)
	if err != nil {
		if pgutils.IsUniqueViolation(err) {
			return nil, apperror.ErrConflict.WithMessage("branch name already exists in this project")
		}
		return nil, apperror.ErrInternal.WithInternal(err)
	}

	if seed {
		if _, err := s.seeder.SeedBranch(ctx, projectID, created.ID.String(), *req.FromVersionID, req.CreatedByID); err != nil {
			return nil, err
		}
		// Re-fetch so the response carries the seeded head.
		seeded, err := s.store.GetWithHead(ctx, projectID, created.ID.String())
		if err != nil {
			return nil, apperror.ErrInternal.WithInternal(err)
		}
		if seeded == nil {
			return nil, apperror.ErrBranchNotFound
		}
		return ToResponse(seeded), nil
	}

	return ToResponse(&BranchWithHead{Branch: *created}), nil
}

// Update renames a branch
func (s *Service) Update(ctx context.Context, projectID, id string, req *UpdateBranchRequest) (*BranchResponse, error) {
	existing, err := s.store.GetByID(ctx, projectID, id)
	if err != nil {
		return nil, apperror.ErrInternal.WithInternal(err)
	}
	if existing == nil {
		return nil, apperror.ErrBranchNotFound
	}

	if req.Name == nil {
		return nil, apperror.ErrBadRequest.WithMessage("name is required")
	}
	name := strings.TrimSpace(*req.Name)
	if name == "" {
		return nil, apperror.ErrBadRequest.WithMessage("name cannot be empty")
	}

	if name != existing.Name {
		duplicate, err := s.store.GetByName(ctx, projectID, name)
		if err != nil {
			return nil, apperror.ErrInternal.WithInternal(err)
		}
		if duplicate != nil && duplicate.ID != existing.ID {
			return nil, apperror.ErrConflict.WithMessage("branch name already exists in this project")
		}
	}

	updated, err := s.store.Rename(ctx, projectID, id, name)
	if err != nil {
		return nil, apperror.ErrInternal.WithInternal(err)
	}
	if updated == nil {
		return nil, apperror.ErrBranchNotFound
	}
	return ToResponse(&BranchWithHead{Branch: *updated}), nil
}

// SetDefault makes a branch the project's default
func (s *Service) SetDefault(ctx context.Context, projectID, id string) (*BranchResponse, error) {
	branch, err := s.store.GetByID(ctx, projectID, id)
	if err != nil {
		return nil, apperror.ErrInternal.WithInternal(err)
	}
	if branch == nil {
		return nil, apperror.ErrBranchNotFound
	}

	if err := s.store.SetDefault(ctx, projectID, id); err != nil {
		return nil, apperror.ErrInternal.WithInternal(err)
	}

	branch.IsDefault = true
	return ToResponse(&BranchWithHead{Branch: *branch}), nil
}

// Delete removes a non-default branch
func (s *Service) Delete(ctx context.Context, projectID, id string) error {
	branch, err := s.store.GetByID(ctx, projectID, id)
	if err != nil {
		return apperror.ErrInternal.WithInternal(err)
	}
	if branch == nil {
		return apperror.ErrBranchNotFound
	}
	if branch.IsDefault {
		return apperror.ErrBadRequest.WithMessage("cannot delete the default branch")
	}

	deleted, err := s.store.Delete(ctx, projectID, id)
	if err != nil {
		return apperror.ErrInternal.WithInternal(err)
	}
	if !deleted {
		return apperror.ErrBranchNotFound
	}
	return nil
}
