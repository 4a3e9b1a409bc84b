package merges

import (
	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, h *Handler) {
	g := e.Group("/api/projects/:projectId/merges")

	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
}
