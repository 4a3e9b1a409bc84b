package versions

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/schemata-hq/schemata-server/pkg/apperror"
	"github.com/schemata-hq/schemata-server/pkg/logger"
)

type Handler struct {
	service *Service
	log     *slog.Logger
}

func NewHandler(service *Service, log *slog.Logger) *Handler {
	return &Handler{service: service, log: log.With(logger.Scope("versions.handler"))}
}

func projectID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		return uuid.Nil, apperror.ErrBadRequest.WithMessage("invalid project id")
	}
	return id, nil
}

func (h *Handler) Commit(c echo.Context) error {
	pid, err := projectID(c)
	if err != nil {
		return err
	}
	var req CommitVersionRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid request body")
	}
	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return apperror.ErrBadRequest.WithMessage("branch_id is required")
	}
	if req.Content == nil {
		return apperror.ErrValidation.WithMessage("content is required")
	}
	params := CommitParams{
		BranchID: branchID,
		Message:  req.Message,
		Content:  *req.Content,
	}
	if req.ParentID != nil {
		parent, err := uuid.Parse(*req.ParentID)
		if err != nil {
			return apperror.ErrBadRequest.WithMessage("invalid parent_id")
		}
		params.ParentID = &parent
	}
	if req.AuthorID != nil {
		author, err := uuid.Parse(*req.AuthorID)
		if err != nil {
			return apperror.ErrBadRequest.WithMessage("invalid author_id")
		}
		params.AuthorID = &author
	}
	v, err := h.service.Commit(c.Request().Context(), pid, params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ToResponse(v))
}

func (h *Handler) GetByID(c echo.Context) error {
	pid, err := projectID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid version id")
	}
	v, err := h.service.GetByID(c.Request().Context(), pid, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ToResponse(v))
}

func (h *Handler) ListByBranch(c echo.Context) error {
	pid, err := projectID(c)
	if err != nil {
		return err
	}
	branchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid branch id")
	}
	list, err := h.service.ListByBranch(c.Request().Context(), pid, branchID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ToSummaryList(list))
}

func (h *Handler) Restore(c echo.Context) error {
	pid, err := projectID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid version id")
	}
	var req RestoreVersionRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid request body")
	}
	var author *uuid.UUID
	if req.AuthorID != nil {
		a, err := uuid.Parse(*req.AuthorID)
		if err != nil {
			return apperror.ErrBadRequest.WithMessage("invalid author_id")
		}
		author = &a
	}
	v, err := h.service.Restore(c.Request().Context(), pid, id, req.Message, author)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ToResponse(v))
}
