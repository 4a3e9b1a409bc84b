package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/schemata-hq/schemata-server/domain/audit"
	"github.com/schemata-hq/schemata-server/domain/diffs"
	"github.com/schemata-hq/schemata-server/pkg/logger"
)

// DiffCachePruneTask removes cached diff reports past their retention window
type DiffCachePruneTask struct {
	store     *diffs.Store
	retention time.Duration
	log       *slog.Logger
}

// NewDiffCachePruneTask creates a new diff cache prune task
func NewDiffCachePruneTask(store *diffs.Store, retention time.Duration, log *slog.Logger) *DiffCachePruneTask {
	return &DiffCachePruneTask{
		store:     store,
		retention: retention,
		log:       log.With(logger.Scope("scheduler.diff_cache_prune")),
	}
}

// Run executes the diff cache prune
func (t *DiffCachePruneTask) Run(ctx context.Context) error {
	start := time.Now()
	cutoff := time.Now().UTC().Add(-t.retention)

	count, err := t.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		t.log.Error("failed to prune diff cache", logger.Error(err))
		return err
	}

	if count > 0 {
		t.log.Info("pruned stale diff reports",
			slog.Int64("count", count),
			slog.Duration("duration", time.Since(start)))
	} else {
		t.log.Debug("no stale diff reports to prune",
			slog.Duration("duration", time.Since(start)))
	}
	return nil
}

// AuditPruneTask removes audit entries past their retention window
type AuditPruneTask struct {
	store     *audit.Store
	retention time.Duration
	log       *slog.Logger
}

// NewAuditPruneTask creates a new audit prune task
func NewAuditPruneTask(store *audit.Store, retention time.Duration, log *slog.Logger) *AuditPruneTask {
	return &AuditPruneTask{
		store:     store,
		retention: retention,
		log:       log.With(logger.Scope("scheduler.audit_prune")),
	}
}

// Run executes the audit prune
func (t *AuditPruneTask) Run(ctx context.Context) error {
	start := time.Now()
	cutoff := time.Now().UTC().Add(-t.retention)

	count, err := t.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		t.log.Error("failed to prune audit log", logger.Error(err))
		return err
	}

	if count > 0 {
		t.log.Info("pruned old audit entries",
			slog.Int64("count", count),
			slog.Duration("duration", time.Since(start)))
	} else {
		t.log.Debug("no old audit entries to prune",
			slog.Duration("duration", time.Since(start)))
	}
	return nil
}
