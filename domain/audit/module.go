package audit

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
	"go.uber.org/fx"
)

// Module provides audit log dependencies
var Module = fx.Options(
	fx.Provide(newStoreFromDB),
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)

// RegisterRoutes registers audit routes with the Echo router
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/api/projects/:projectId/audit", h.List)
}

// newStoreFromDB creates an audit store with the bun DB (fx constructor)
func newStoreFromDB(db *bun.DB) *Store {
	return NewStore(db)
}
