package merges

import (
	"log/slog"
	"net/http"
	"strconv"

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
	return &Handler{service: service, log: log.With(logger.Scope("merges.handler"))}
}

func projectID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		return uuid.Nil, apperror.ErrBadRequest.WithMessage("invalid project id")
	}
	return id, nil
}

func (h *Handler) Create(c echo.Context) error {
	pid, err := projectID(c)
	if err != nil {
		return err
	}
	var req CreateMergeRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid request body")
	}

	params := MergeParams{Message: req.Message}
	ids := []struct {
		raw  string
		dst  *uuid.UUID
		name string
	}{
		{req.SourceBranchID, &params.SourceBranchID, "source_branch_id"},
		{req.TargetBranchID, &params.TargetBranchID, "target_branch_id"},
		{req.SourceVersionID, &params.SourceVersionID, "source_version_id"},
		{req.TargetVersionID, &params.TargetVersionID, "target_version_id"},
	}
	for _, f := range ids {
		id, err := uuid.Parse(f.raw)
		if err != nil {
			return apperror.ErrBadRequest.WithMessage(f.name + " is required and must be a uuid")
		}
		*f.dst = id
	}
	if req.CreatedByID != nil {
		author, err := uuid.Parse(*req.CreatedByID)
		if err != nil {
			return apperror.ErrBadRequest.WithMessage("invalid created_by_id")
		}
		params.CreatedByID = &author
	}

	m, err := h.service.Merge(c.Request().Context(), pid, params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ToResponse(m))
}

func (h *Handler) GetByID(c echo.Context) error {
	pid, err := projectID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid merge id")
	}
	m, err := h.service.GetByID(c.Request().Context(), pid, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ToResponse(m))
}

func (h *Handler) List(c echo.Context) error {
	pid, err := projectID(c)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	list, err := h.service.ListByProject(c.Request().Context(), pid, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ToResponseList(list))
}
