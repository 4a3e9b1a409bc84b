package projects

import (
	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, h *Handler) {
	g := e.Group("/api/projects")

	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:projectId", h.GetByID)
}
