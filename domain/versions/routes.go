package versions

import (
	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, h *Handler) {
	g := e.Group("/api/projects/:projectId")

	g.POST("/versions", h.Commit)
	g.GET("/versions/:id", h.GetByID)
	g.POST("/versions/:id/restore", h.Restore)
	g.GET("/branches/:id/versions", h.ListByBranch)
}
