package health

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// MetricsHandler reports versioning activity counters
type MetricsHandler struct {
	db *bun.DB
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(db *bun.DB) *MetricsHandler {
	return &MetricsHandler{
		db: db,
	}
}

// VersioningMetrics contains row counts and recent activity for the
// versioning tables
type VersioningMetrics struct {
	Projects        int64  `json:"projects"`
	Branches        int64  `json:"branches"`
	Versions        int64  `json:"versions"`
	Merges          int64  `json:"merges"`
	CachedDiffs     int64  `json:"cached_diffs"`
	CommitsLastHour int64  `json:"commits_last_hour"`
	CommitsLast24h  int64  `json:"commits_last_24_hours"`
	MergesLast24h   int64  `json:"merges_last_24_hours"`
	Timestamp       string `json:"timestamp"`
}

// Metrics returns activity counters for the versioning tables
func (h *MetricsHandler) Metrics(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	m := VersioningMetrics{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	counts := []struct {
		table string
		dst   *int64
	}{
		{"md.projects", &m.Projects},
		{"md.branches", &m.Branches},
		{"md.versions", &m.Versions},
		{"md.merges", &m.Merges},
		{"md.diff_reports", &m.CachedDiffs},
	}
	for _, q := range counts {
		n, err := h.db.NewSelect().Table(q.table).Count(ctx)
		if err != nil {
			continue
		}
		*q.dst = int64(n)
	}

	windows := []struct {
		table    string
		interval string
		dst      *int64
	}{
		{"md.versions", "1 hour", &m.CommitsLastHour},
		{"md.versions", "24 hours", &m.CommitsLast24h},
		{"md.merges", "24 hours", &m.MergesLast24h},
	}
	for _, q := range windows {
		n, err := h.db.NewSelect().
			Table(q.table).
			Where("created_at > now() - ?::interval", q.interval).
			Count(ctx)
		if err != nil {
			continue
		}
		*q.dst = int64(n)
	}

	return c.JSON(http.StatusOK, m)
}
