package audit

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/schemata-hq/schemata-server/pkg/apperror"
)

// Handler handles audit log HTTP requests
type Handler struct {
	store *Store
}

// NewHandler creates a new audit handler
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// List handles GET /api/projects/:projectId/audit
func (h *Handler) List(c echo.Context) error {
	pid := c.Param("projectId")
	if _, err := uuid.Parse(pid); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid project id format")
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return apperror.ErrBadRequest.WithMessage("invalid limit")
		}
		limit = n
	}

	entries, err := h.store.List(c.Request().Context(), pid, limit)
	if err != nil {
		return apperror.ErrInternal.WithInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"data": entries})
}
