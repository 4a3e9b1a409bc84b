package branches

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/schemata-hq/schemata-server/pkg/apperror"
)

// Handler handles branch HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates a new branches handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// projectID extracts and validates the project id path param.
func projectID(c echo.Context) (string, error) {
	pid := c.Param("projectId")
	if _, err := uuid.Parse(pid); err != nil {
		return "", apperror.ErrBadRequest.WithMessage("invalid project id format")
	}
	return pid, nil
}

// List handles GET /api/projects/:projectId/branches
func (h *Handler) List(c echo.Context) error {
	pid, err := projectID(c)
	if err != nil {
		return err
	}

	branches, err := h.svc.List(c.Request().Context(), pid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, branches)
}

// GetByID handles GET /api/projects/:projectId/branches/:id
func (h *Handler) GetByID(c echo.Context) error {
	pid, err := projectID(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid branch id format")
	}

	branch, err := h.svc.GetByID(c.Request().Context(), pid, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, branch)
}

// Create handles POST /api/projects/:projectId/branches
func (h *Handler) Create(c echo.Context) error {
	pid, err := projectID(c)
	if err != nil {
		return err
	}

	var req CreateBranchRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid request body")
	}
	if req.FromVersionID != nil && *req.FromVersionID != "" {
		if _, err := uuid.Parse(*req.FromVersionID); err != nil {
			return apperror.ErrBadRequest.WithMessage("invalid from_version_id format")
		}
	}

	branch, err := h.svc.Create(c.Request().Context(), pid, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, branch)
}

// Update handles PATCH /api/projects/:projectId/branches/:id
func (h *Handler) Update(c echo.Context) error {
	pid, err := projectID(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid branch id format")
	}

	var req UpdateBranchRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid request body")
	}

	branch, err := h.svc.Update(c.Request().Context(), pid, id, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, branch)
}

// SetDefault handles POST /api/projects/:projectId/branches/:id/default
func (h *Handler) SetDefault(c echo.Context) error {
	pid, err := projectID(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid branch id format")
	}

	branch, err := h.svc.SetDefault(c.Request().Context(), pid, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, branch)
}

// Delete handles DELETE /api/projects/:projectId/branches/:id
func (h *Handler) Delete(c echo.Context) error {
	pid, err := projectID(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid branch id format")
	}

	if err := h.svc.Delete(c.Request().Context(), pid, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
