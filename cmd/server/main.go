// Package main provides the entry point for the Schemata API server
//
// @title Schemata API
// @version 0.3.0
// @description Versioned model storage: branches, snapshots, structural diff and three-way merge
// @host localhost:5400
// @BasePath /
// @schemes http https
package main

import (
	"log/slog"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/schemata-hq/schemata-server/domain/audit"
	"github.com/schemata-hq/schemata-server/domain/branches"
	"github.com/schemata-hq/schemata-server/domain/diffs"
	"github.com/schemata-hq/schemata-server/domain/health"
	"github.com/schemata-hq/schemata-server/domain/merges"
	"github.com/schemata-hq/schemata-server/domain/projects"
	"github.com/schemata-hq/schemata-server/domain/scheduler"
	"github.com/schemata-hq/schemata-server/domain/versions"
	"github.com/schemata-hq/schemata-server/internal/config"
	"github.com/schemata-hq/schemata-server/internal/database"
	"github.com/schemata-hq/schemata-server/internal/server"
	"github.com/schemata-hq/schemata-server/pkg/logger"
)

func main() {
	// Load .env files if present (for local development)
	// Order matters: .env.local overrides .env
	// Note: Load() won't overwrite existing vars, Overload() will
	_ = godotenv.Load("../../.env")
	_ = godotenv.Overload("../../.env.local")

	fx.New(
		// Logging
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log}
		}),

		// Infrastructure modules
		logger.Module,
		config.Module,
		database.Module,
		server.Module,

		// Domain modules
		health.Module,
		projects.Module,
		branches.Module,
		versions.Module,
		diffs.Module,
		merges.Module,
		audit.Module,

		// Scheduler module (cron-based retention tasks)
		scheduler.Module,
	).Run()
}
