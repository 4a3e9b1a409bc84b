package scheduler

import (
	"context"
	"log/slog"
	"time"

	"go.uber.org/fx"

	"github.com/schemata-hq/schemata-server/domain/audit"
	"github.com/schemata-hq/schemata-server/domain/diffs"
	appconfig "github.com/schemata-hq/schemata-server/internal/config"
)

// Module provides scheduled task functionality
var Module = fx.Module("scheduler",
	fx.Provide(
		NewConfig,
		NewScheduler,
	),
	fx.Invoke(
		RegisterTasks,
		RegisterSchedulerLifecycle,
	),
)

// TaskParams contains dependencies for creating scheduled tasks
type TaskParams struct {
	fx.In
	Scheduler *Scheduler
	Diffs     *diffs.Store
	Audit     *audit.Store
	Log       *slog.Logger
	Cfg       *Config
	AppCfg    *appconfig.Config
}

// RegisterTasks registers all scheduled tasks
func RegisterTasks(p TaskParams) error {
	if !p.Cfg.Enabled {
		p.Log.Info("scheduler disabled, skipping task registration")
		return nil
	}

	diffTask := NewDiffCachePruneTask(p.Diffs, p.AppCfg.Versioning.DiffCacheRetention, p.Log)
	if err := addTask(p.Scheduler, "diff_cache_prune",
		p.Cfg.DiffCachePruneSchedule, p.Cfg.DiffCachePruneInterval, diffTask.Run); err != nil {
		p.Log.Error("failed to register diff cache prune task",
			slog.String("error", err.Error()))
	}

	auditTask := NewAuditPruneTask(p.Audit, p.AppCfg.Versioning.AuditRetention, p.Log)
	if err := addTask(p.Scheduler, "audit_prune",
		p.Cfg.AuditPruneSchedule, p.Cfg.AuditPruneInterval, auditTask.Run); err != nil {
		p.Log.Error("failed to register audit prune task",
			slog.String("error", err.Error()))
	}

	p.Log.Info("registered scheduled tasks",
		slog.Any("tasks", p.Scheduler.ListTasks()))

	return nil
}

// addTask prefers a cron schedule override when one is configured.
func addTask(s *Scheduler, name, schedule string, interval time.Duration, task TaskFunc) error {
	if schedule != "" {
		// Prefix with seconds field; the scheduler runs with seconds precision.
		return s.AddCronTask(name, "0 "+schedule, task)
	}
	return s.AddIntervalTask(name, interval, task)
}

// RegisterSchedulerLifecycle registers the scheduler with fx lifecycle
func RegisterSchedulerLifecycle(lc fx.Lifecycle, scheduler *Scheduler, cfg *Config) {
	if !cfg.Enabled {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return scheduler.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return scheduler.Stop(ctx)
		},
	})
}
