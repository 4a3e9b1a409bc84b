package diffs

import (
	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, h *Handler) {
	g := e.Group("/api/projects/:projectId")

	g.GET("/diff", h.Diff)
	g.POST("/diff", h.Diff)
}
