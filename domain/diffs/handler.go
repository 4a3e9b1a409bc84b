package diffs

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
	return &Handler{service: service, log: log.With(logger.Scope("diffs.handler"))}
}

// Diff serves both GET and POST; the version pair comes from query
// parameters either way.
func (h *Handler) Diff(c echo.Context) error {
	pid, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid project id")
	}
	fromID, err := uuid.Parse(c.QueryParam("from"))
	if err != nil {
		return apperror.ErrBadRequest.WithMessage("from is required and must be a version id")
	}
	toID, err := uuid.Parse(c.QueryParam("to"))
	if err != nil {
		return apperror.ErrBadRequest.WithMessage("to is required and must be a version id")
	}
	report, err := h.service.Diff(c.Request().Context(), pid, fromID, toID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ToResponse(report))
}
