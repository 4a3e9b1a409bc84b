package diffs

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/schemata-hq/schemata-server/domain/versions"
	"github.com/schemata-hq/schemata-server/pkg/apperror"
	"github.com/schemata-hq/schemata-server/pkg/logger"
	"github.com/schemata-hq/schemata-server/pkg/modeldiff"
)

type Service struct {
	store    *Store
	versions *versions.Service
	log      *slog.Logger
}

func NewService(store *Store, versionSvc *versions.Service, log *slog.Logger) *Service {
	return &Service{
		store:    store,
		versions: versionSvc,
		log:      log.With(logger.Scope("diffs.service")),
	}
}

// Diff compares two snapshots and caches the result keyed by the ordered
// pair. The cache row is overwritten on every request; a failure to persist
// is logged but does not fail the request, the report itself is what the
// caller asked for.
func (s *Service) Diff(ctx context.Context, projectID, fromID, toID uuid.UUID) (*DiffReport, error) {
	if fromID == toID {
		return nil, apperror.ErrBadRequest.WithMessage("from and to must be different versions")
	}

	from, err := s.versions.GetByID(ctx, projectID, fromID)
	if err != nil {
		return nil, err
	}
	to, err := s.versions.GetByID(ctx, projectID, toID)
	if err != nil {
		return nil, err
	}

	report := modeldiff.Diff(from.Content, to.Content)

	row := &DiffReport{
		ProjectID:     projectID,
		FromVersionID: from.ID,
		ToVersionID:   to.ID,
		Report:        report,
		ComputedAt:    time.Now().UTC(),
	}
	if err := s.store.Upsert(ctx, row); err != nil {
		s.log.Error("failed to cache diff report",
			logger.Error(err),
			slog.String("from", fromID.String()),
			slog.String("to", toID.String()))
	}
	return row, nil
}

// PruneCache removes cached reports older than the retention window.
func (s *Service) PruneCache(ctx context.Context, retention time.Duration) (int64, error) {
	return s.store.DeleteOlderThan(ctx, time.Now().UTC().Add(-retention))
}
