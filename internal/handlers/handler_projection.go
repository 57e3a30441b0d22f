package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/FinObraDev/credit_instruments_app/internal/apperrors"
	portssvc "github.com/FinObraDev/credit_instruments_app/internal/core/ports/services"
	"github.com/FinObraDev/credit_instruments_app/internal/dto"
	"github.com/FinObraDev/credit_instruments_app/internal/middleware"
)

// projectionHandler handles the rolling monthly cash-flow projection routes.
type projectionHandler struct {
	projectionService portssvc.ProjectionSvcFacade
}

func newProjectionHandler(ps portssvc.ProjectionSvcFacade) *projectionHandler {
	return &projectionHandler{projectionService: ps}
}

// registerProjectionRoutes registers the consolidated and per-instrument
// projection routes.
func registerProjectionRoutes(rg *gin.RouterGroup, projectionService portssvc.ProjectionSvcFacade) {
	h := newProjectionHandler(projectionService)

	rg.GET("/workspaces/:workspaceID/projections/consolidated", h.getConsolidatedProjection)
	rg.GET("/instruments/:id/projection", h.getInstrumentProjection)
}

// parseProjectionQuery reads the shared anchor and months query parameters.
// The anchor defaults to today, months to 0 so the service picks its horizon.
func parseProjectionQuery(c *gin.Context) (time.Time, int, bool) {
	anchor := time.Now()
	if raw := c.Query("anchor"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid anchor date, expected YYYY-MM-DD"})
			return time.Time{}, 0, false
		}
		anchor = parsed
	}

	months := 0
	if raw := c.Query("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid months value"})
			return time.Time{}, 0, false
		}
		months = parsed
	}
	return anchor, months, true
}

// getConsolidatedProjection godoc
// @Summary Consolidated monthly projection across a workspace
// @Description Rolling window from 3 months before the anchor month through the requested horizon (default 24 months). Per-instrument ledger failures degrade to warnings instead of failing the view.
// @Tags projections
// @Produce json
// @Param workspaceID path string true "Workspace ID"
// @Param anchor query string false "Anchor date (YYYY-MM-DD), defaults to today"
// @Param months query int false "Months after the anchor, defaults to 24"
// @Success 200 {object} dto.ProjectionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /workspaces/{workspaceID}/projections/consolidated [get]
func (h *projectionHandler) getConsolidatedProjection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workspaceID := c.Param("workspaceID")

	anchor, months, ok := parseProjectionQuery(c)
	if !ok {
		return
	}

	result, err := h.projectionService.ConsolidatedProjection(c.Request.Context(), workspaceID, anchor, months)
	if err != nil {
		logger.Error("Failed to build consolidated projection",
			slog.String("workspace_id", workspaceID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build projection"})
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectionResponse(result, anchor))
}

// getInstrumentProjection godoc
// @Summary Monthly projection for one instrument
// @Description Same window shape as the consolidated view over a longer default horizon (36 months).
// @Tags projections
// @Produce json
// @Param id path int true "Instrument ID"
// @Param anchor query string false "Anchor date (YYYY-MM-DD), defaults to today"
// @Param months query int false "Months after the anchor, defaults to 36"
// @Success 200 {object} dto.ProjectionResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /instruments/{id}/projection [get]
func (h *projectionHandler) getInstrumentProjection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	instrumentID, ok := parseInstrumentID(c)
	if !ok {
		return
	}

	anchor, months, ok := parseProjectionQuery(c)
	if !ok {
		return
	}

	result, err := h.projectionService.InstrumentProjection(c.Request.Context(), instrumentID, anchor, months)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Instrument not found"})
			return
		}
		logger.Error("Failed to build instrument projection",
			slog.Int64("instrument_id", instrumentID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build projection"})
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectionResponse(result, anchor))
}
