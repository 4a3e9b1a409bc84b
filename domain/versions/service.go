package versions

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/schemata-hq/schemata-server/domain/audit"
	"github.com/schemata-hq/schemata-server/domain/branches"
	"github.com/schemata-hq/schemata-server/internal/database"
	"github.com/schemata-hq/schemata-server/pkg/apperror"
	"github.com/schemata-hq/schemata-server/pkg/logger"
	"github.com/schemata-hq/schemata-server/pkg/model"
)

// versionStore is the persistence surface the service drives. Satisfied by
// *Store; narrow enough that tests can substitute an in-memory fake.
type versionStore interface {
	BeginTx(ctx context.Context) (database.Tx, error)
	GetByID(ctx context.Context, projectID, id uuid.UUID) (*Version, error)
	ListByBranch(ctx context.Context, projectID, branchID uuid.UUID) ([]Version, error)
	LockBranch(ctx context.Context, tx bun.IDB, projectID, branchID uuid.UUID) (*branches.Branch, error)
	Insert(ctx context.Context, tx bun.IDB, v *Version) error
	AdvanceHead(ctx context.Context, tx bun.IDB, branchID, versionID uuid.UUID) error
}

// auditWriter records entries inside the caller's transaction. Satisfied by
// *audit.Store.
type auditWriter interface {
	Insert(ctx context.Context, db bun.IDB, entry *audit.Entry) error
}

type Service struct {
	store versionStore
	audit auditWriter
	log   *slog.Logger
}

func NewService(store *Store, auditStore *audit.Store, log *slog.Logger) *Service {
	return &Service{
		store: store,
		audit: auditStore,
		log:   log.With(logger.Scope("versions.service")),
	}
}

type CommitParams struct {
	BranchID uuid.UUID
	ParentID *uuid.UUID
	AuthorID *uuid.UUID
	Message  string
	Content  model.Document
	action   string
}

// Commit appends a snapshot to a branch. The version insert, the branch head
// update and the audit entry land in one transaction; the branch row is
// locked first so concurrent commits serialize.
func (s *Service) Commit(ctx context.Context, projectID uuid.UUID, params CommitParams) (*Version, error) {
	if params.action == "" {
		params.action = audit.ActionCommit
	}
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, apperror.NewInternal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	branch, err := s.store.LockBranch(ctx, tx, projectID, params.BranchID)
	if err != nil {
		return nil, apperror.NewInternal("failed to lock branch", err)
	}
	if branch == nil {
		return nil, apperror.ErrBranchNotFound.WithMessage("branch not found")
	}

	parentID := params.ParentID
	if parentID == nil {
		parentID = branch.HeadVersionID
	}

	v := &Version{
		ProjectID: projectID,
		BranchID:  branch.ID,
		ParentID:  parentID,
		AuthorID:  params.AuthorID,
		Message:   params.Message,
		Content:   params.Content,
	}
	if err := s.store.Insert(ctx, tx, v); err != nil {
		return nil, apperror.NewInternal("failed to insert version", err)
	}
	if err := s.store.AdvanceHead(ctx, tx, branch.ID, v.ID); err != nil {
		return nil, apperror.NewInternal("failed to advance branch head", err)
	}

	entry := &audit.Entry{
		ProjectID:    projectID,
		ActorID:      params.AuthorID,
		Action:       params.action,
		ResourceType: "version",
		ResourceID:   &v.ID,
		Detail: map[string]any{
			"branch_id": branch.ID.String(),
			"message":   params.Message,
		},
	}
	if err := s.audit.Insert(ctx, tx, entry); err != nil {
		return nil, apperror.NewInternal("failed to write audit entry", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.NewInternal("failed to commit transaction", err)
	}

	s.log.Info("version committed",
		slog.String("version_id", v.ID.String()),
		slog.String("branch_id", branch.ID.String()),
		slog.String("action", params.action))
	return v, nil
}

func (s *Service) GetByID(ctx context.Context, projectID, id uuid.UUID) (*Version, error) {
	v, err := s.store.GetByID(ctx, projectID, id)
	if err != nil {
		return nil, apperror.NewInternal("failed to load version", err)
	}
	if v == nil {
		return nil, apperror.ErrVersionNotFound.WithMessage("version not found")
	}
	return v, nil
}

func (s *Service) ListByBranch(ctx context.Context, projectID, branchID uuid.UUID) ([]Version, error) {
	out, err := s.store.ListByBranch(ctx, projectID, branchID)
	if err != nil {
		return nil, apperror.NewInternal("failed to list versions", err)
	}
	return out, nil
}

// Restore commits a copy of an older snapshot as the new head of its branch.
// History stays intact: nothing is rewritten, the restored content simply
// becomes the latest version with the current head as parent.
func (s *Service) Restore(ctx context.Context, projectID, versionID uuid.UUID, message string, authorID *uuid.UUID) (*Version, error) {
	src, err := s.GetByID(ctx, projectID, versionID)
	if err != nil {
		return nil, err
	}
	if message == "" {
		message = fmt.Sprintf("restore of %s", shortID(src.ID))
	}
	return s.Commit(ctx, projectID, CommitParams{
		BranchID: src.BranchID,
		AuthorID: authorID,
		Message:  message,
		Content:  src.Content.Clone(),
		action:   audit.ActionRestore,
	})
}

// ValidateSource checks that a seed source version exists in the project.
// Branch creation calls this before inserting the branch row; versions are
// append-only, so a source that validates here is still present when the
// seed commit runs.
func (s *Service) ValidateSource(ctx context.Context, projectID, fromVersionID string) error {
	pid, err := uuid.Parse(projectID)
	if err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid project id")
	}
	vid, err := uuid.Parse(fromVersionID)
	if err != nil {
		return apperror.New(http.StatusBadRequest, "invalid_from_version", "invalid from_version_id")
	}
	_, err = s.GetByID(ctx, pid, vid)
	return err
}

// SeedBranch copies a snapshot onto a freshly created branch. The new
// version's parent is the source version itself, which is what lets later
// merges between the two branches find a common ancestor.
func (s *Service) SeedBranch(ctx context.Context, projectID, branchID, fromVersionID string, authorID *string) (string, error) {
	pid, err := uuid.Parse(projectID)
	if err != nil {
		return "", apperror.ErrBadRequest.WithMessage("invalid project id")
	}
	bid, err := uuid.Parse(branchID)
	if err != nil {
		return "", apperror.ErrBadRequest.WithMessage("invalid branch id")
	}
	vid, err := uuid.Parse(fromVersionID)
	if err != nil {
		return "", apperror.New(http.StatusBadRequest, "invalid_from_version", "invalid from_version_id")
	}
	src, err := s.GetByID(ctx, pid, vid)
	if err != nil {
		return "", err
	}
	var author *uuid.UUID
	if authorID != nil {
		a, err := uuid.Parse(*authorID)
		if err != nil {
			return "", apperror.ErrBadRequest.WithMessage("invalid author id")
		}
		author = &a
	}
	v, err := s.Commit(ctx, pid, CommitParams{
		BranchID: bid,
		ParentID: &src.ID,
		AuthorID: author,
		Message:  fmt.Sprintf("branch from %s", shortID(src.ID)),
		Content:  src.Content.Clone(),
		action:   audit.ActionSeed,
	})
	if err != nil {
		return "", err
	}
	return v.ID.String(), nil
}

func shortID(id uuid.UUID) string {
	s := id.String()
	return s[:8]
}
