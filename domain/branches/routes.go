package branches

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers branch routes with the Echo router
func RegisterRoutes(e *echo.Echo, h *Handler) {
	g := e.Group("/api/projects/:projectId/branches")

	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	g.POST("", h.Create)
	g.PATCH("/:id", h.Update)
	g.POST("/:id/default", h.SetDefault)
	g.DELETE("/:id", h.Delete)
}
