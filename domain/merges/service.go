package merges

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/schemata-hq/schemata-server/domain/audit"
	"github.com/schemata-hq/schemata-server/domain/versions"
	"github.com/schemata-hq/schemata-server/internal/config"
	"github.com/schemata-hq/schemata-server/pkg/apperror"
	"github.com/schemata-hq/schemata-server/pkg/logger"
	"github.com/schemata-hq/schemata-server/pkg/model"
	"github.com/schemata-hq/schemata-server/pkg/modelmerge"
)

type Service struct {
	store    *Store
	versions *versions.Store
	resolver *Resolver
	audit    *audit.Store
	log      *slog.Logger
}

func NewService(store *Store, versionStore *versions.Store, auditStore *audit.Store, cfg *config.Config, log *slog.Logger) *Service {
	return &Service{
		store:    store,
		versions: versionStore,
		resolver: NewResolver(versionStore, cfg.Versioning.AncestryMaxDepth),
		audit:    auditStore,
		log:      log.With(logger.Scope("merges.service")),
	}
}

type MergeParams struct {
	SourceBranchID  uuid.UUID
	TargetBranchID  uuid.UUID
	SourceVersionID uuid.UUID
	TargetVersionID uuid.UUID
	CreatedByID     *uuid.UUID
	Message         string
}

// Merge reconciles the source version into the target branch. The result is
// always committed, even with conflicts; target-side values win on true
// conflicts and the losing side is surfaced in the merge record.
func (s *Service) Merge(ctx context.Context, projectID uuid.UUID, params MergeParams) (*Merge, error) {
	if params.SourceVersionID == params.TargetVersionID {
		return nil, apperror.ErrBadRequest.WithMessage("source and target versions must differ")
	}

	source, err := s.loadPaired(ctx, projectID, params.SourceVersionID, params.SourceBranchID, "source")
	if err != nil {
		return nil, err
	}
	target, err := s.loadPaired(ctx, projectID, params.TargetVersionID, params.TargetBranchID, "target")
	if err != nil {
		return nil, err
	}

	baseID, err := s.resolver.Base(ctx, projectID, target.ID, source.ID)
	if err != nil {
		return nil, apperror.NewInternal("failed to resolve common ancestor", err)
	}
	base := model.Document{}
	if baseID != nil {
		baseVersion, err := s.versions.GetByID(ctx, projectID, *baseID)
		if err != nil {
			return nil, apperror.NewInternal("failed to load base version", err)
		}
		if baseVersion != nil {
			base = baseVersion.Content
		}
	}

	// Target is "ours": the branch receiving the merge keeps its value on
	// true conflicts.
	result := modelmerge.Merge(base, target.Content, source.Content)

	status := StatusCompleted
	if len(result.Conflicts) > 0 {
		status = StatusConflicts
	}

	message := params.Message
	if message == "" {
		message = fmt.Sprintf("merge %s into %s", shortID(source.ID), shortID(target.ID))
	}

	tx, err := s.versions.BeginTx(ctx)
	if err != nil {
		return nil, apperror.NewInternal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	branch, err := s.versions.LockBranch(ctx, tx, projectID, params.TargetBranchID)
	if err != nil {
		return nil, apperror.NewInternal("failed to lock target branch", err)
	}
	if branch == nil {
		return nil, apperror.ErrBranchNotFound.WithMessage("target branch not found")
	}

	resultVersion := &versions.Version{
		ProjectID: projectID,
		BranchID:  branch.ID,
		ParentID:  &target.ID,
		AuthorID:  params.CreatedByID,
		Message:   message,
		Content:   result.Document,
	}
	if err := s.versions.Insert(ctx, tx, resultVersion); err != nil {
		return nil, apperror.NewInternal("failed to insert merge result", err)
	}
	if err := s.versions.AdvanceHead(ctx, tx, branch.ID, resultVersion.ID); err != nil {
		return nil, apperror.NewInternal("failed to advance branch head", err)
	}

	record := &Merge{
		ProjectID:       projectID,
		SourceBranchID:  params.SourceBranchID,
		TargetBranchID:  params.TargetBranchID,
		SourceVersionID: source.ID,
		TargetVersionID: target.ID,
		BaseVersionID:   baseID,
		ResultVersionID: resultVersion.ID,
		Status:          status,
		Conflicts:       result.Conflicts,
		CreatedByID:     params.CreatedByID,
	}
	if err := s.store.Insert(ctx, tx, record); err != nil {
		return nil, apperror.NewInternal("failed to insert merge record", err)
	}

	entry := &audit.Entry{
		ProjectID:    projectID,
		ActorID:      params.CreatedByID,
		Action:       audit.ActionMerge,
		ResourceType: "merge",
		ResourceID:   &record.ID,
		Detail: map[string]any{
			"message":           message,
			"status":            status,
			"conflicts":         len(result.Conflicts),
			"result_version_id": resultVersion.ID.String(),
			"target_branch_id":  branch.ID.String(),
		},
	}
	if err := s.audit.Insert(ctx, tx, entry); err != nil {
		return nil, apperror.NewInternal("failed to write audit entry", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.NewInternal("failed to commit transaction", err)
	}

	s.log.Info("merge completed",
		slog.String("merge_id", record.ID.String()),
		slog.String("status", status),
		slog.Int("conflicts", len(result.Conflicts)))
	return record, nil
}

func (s *Service) GetByID(ctx context.Context, projectID, id uuid.UUID) (*Merge, error) {
	m, err := s.store.GetByID(ctx, projectID, id)
	if err != nil {
		return nil, apperror.NewInternal("failed to load merge", err)
	}
	if m == nil {
		return nil, apperror.ErrNotFound.WithMessage("merge not found")
	}
	return m, nil
}

func (s *Service) ListByProject(ctx context.Context, projectID uuid.UUID, limit int) ([]Merge, error) {
	out, err := s.store.ListByProject(ctx, projectID, limit)
	if err != nil {
		return nil, apperror.NewInternal("failed to list merges", err)
	}
	return out, nil
}

// loadPaired fetches a version and checks it belongs to the branch the
// caller claimed it does.
func (s *Service) loadPaired(ctx context.Context, projectID, versionID, branchID uuid.UUID, side string) (*versions.Version, error) {
	v, err := s.versions.GetByID(ctx, projectID, versionID)
	if err != nil {
		return nil, apperror.NewInternal("failed to load version", err)
	}
	if v == nil {
		return nil, apperror.ErrVersionNotFound.WithMessage(side + " version not found")
	}
	if v.BranchID != branchID {
		return nil, apperror.ErrBadRequest.WithMessage(side + " version does not belong to the stated branch")
	}
	return v, nil
}

func shortID(id uuid.UUID) string {
	s := id.String()
	return s[:8]
}
