package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"github.com/schemata-hq/schemata-server/internal/config"
	"github.com/schemata-hq/schemata-server/internal/version"
)

// Handler serves liveness, readiness and diagnostic endpoints.
type Handler struct {
	pool    *pgxpool.Pool
	cfg     *config.Config
	startAt time.Time
}

// NewHandler creates a new health handler
func NewHandler(pool *pgxpool.Pool, cfg *config.Config) *Handler {
	return &Handler{
		pool:    pool,
		cfg:     cfg,
		startAt: time.Now(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

// Check represents an individual health check result
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health returns the overall service health, including database connectivity.
func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	dbCheck := Check{Status: "healthy"}
	if err := h.pool.Ping(ctx); err != nil {
		dbCheck = Check{Status: "unhealthy", Message: err.Error()}
	}

	status := "healthy"
	statusCode := http.StatusOK
	if dbCheck.Status != "healthy" {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	return c.JSON(statusCode, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startAt).String(),
		Version:   version.Version,
		Checks:    map[string]Check{"database": dbCheck},
	})
}

// Healthz is the liveness probe.
func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// Ready is the readiness probe; it fails while the database is unreachable.
func (h *Handler) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.pool.Ping(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]any{
			"status":  "not_ready",
			"message": "Database connection failed",
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status": "ready",
	})
}

// Debug returns process and pool internals. Hidden in production.
func (h *Handler) Debug(c echo.Context) error {
	if h.cfg.Environment == "production" {
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	stats := h.pool.Stat()

	return c.JSON(http.StatusOK, map[string]any{
		"environment": h.cfg.Environment,
		"debug":       h.cfg.Debug,
		"go_version":  runtime.Version(),
		"goroutines":  runtime.NumGoroutine(),
		"memory": map[string]any{
			"alloc_mb": mem.Alloc / 1024 / 1024,
			"sys_mb":   mem.Sys / 1024 / 1024,
			"num_gc":   mem.NumGC,
		},
		"pool": map[string]any{
			"total":  stats.TotalConns(),
			"idle":   stats.IdleConns(),
			"in_use": stats.AcquiredConns(),
			"max":    stats.MaxConns(),
		},
	})
}

// tableStat is one row of the per-table storage report.
type tableStat struct {
	Table string `json:"table"`
	Size  string `json:"size"`
	Rows  int64  `json:"rows"`
}

// Diagnose reports storage and integrity details of the versioning tables:
// per-table sizes, snapshot payload sizes, and branch head consistency.
func (h *Handler) Diagnose(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	stats := h.pool.Stat()
	result := map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.startAt).String(),
		"pool": map[string]any{
			"total_conns":    stats.TotalConns(),
			"acquired_conns": stats.AcquiredConns(),
			"idle_conns":     stats.IdleConns(),
			"max_conns":      stats.MaxConns(),
		},
	}

	tables, err := h.tableStats(ctx)
	if err != nil {
		result["error"] = err.Error()
		return c.JSON(http.StatusOK, result)
	}
	result["tables"] = tables

	// Snapshot payload sizes drive diff and merge latency directly.
	var snapshots struct {
		Count   int64
		AvgSize *float64
		MaxSize *int64
	}
	err = h.pool.QueryRow(ctx,
		"SELECT count(*), avg(pg_column_size(content)), max(pg_column_size(content)) FROM md.versions",
	).Scan(&snapshots.Count, &snapshots.AvgSize, &snapshots.MaxSize)
	if err == nil {
		snap := map[string]any{"count": snapshots.Count}
		if snapshots.AvgSize != nil {
			snap["avg_content_bytes"] = int64(*snapshots.AvgSize)
		}
		if snapshots.MaxSize != nil {
			snap["max_content_bytes"] = *snapshots.MaxSize
		}
		result["snapshots"] = snap
	}

	// A head pointing at a missing version row means a broken commit path.
	var danglingHeads int64
	err = h.pool.QueryRow(ctx,
		"SELECT count(*) FROM md.branches b WHERE b.head_version_id IS NOT NULL AND NOT EXISTS (SELECT 1 FROM md.versions v WHERE v.id = b.head_version_id)",
	).Scan(&danglingHeads)
	if err == nil {
		result["integrity"] = map[string]any{
			"dangling_branch_heads": danglingHeads,
		}
	}

	return c.JSON(http.StatusOK, result)
}

func (h *Handler) tableStats(ctx context.Context) ([]tableStat, error) {
	rows, err := h.pool.Query(ctx,
		`SELECT c.relname,
		        pg_size_pretty(pg_total_relation_size(c.oid)),
		        COALESCE(s.n_live_tup, 0)
		   FROM pg_class c
		   JOIN pg_namespace n ON n.oid = c.relnamespace
		   LEFT JOIN pg_stat_user_tables s ON s.relname = c.relname AND s.schemaname = n.nspname
		  WHERE n.nspname = 'md' AND c.relkind = 'r'
		  ORDER BY pg_total_relation_size(c.oid) DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tableStat
	for rows.Next() {
		var t tableStat
		if err := rows.Scan(&t.Table, &t.Size, &t.Rows); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
