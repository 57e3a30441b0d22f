package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/FinObraDev/credit_instruments_app/internal/apperrors"
	"github.com/FinObraDev/credit_instruments_app/internal/core/domain"
	portssvc "github.com/FinObraDev/credit_instruments_app/internal/core/ports/services"
	"github.com/FinObraDev/credit_instruments_app/internal/dto"
	"github.com/FinObraDev/credit_instruments_app/internal/middleware"
)

// instrumentHandler handles HTTP requests related to credit instruments.
type instrumentHandler struct {
	instrumentService portssvc.InstrumentSvcFacade
}

func newInstrumentHandler(is portssvc.InstrumentSvcFacade) *instrumentHandler {
	return &instrumentHandler{instrumentService: is}
}

// registerInstrumentRoutes registers instrument CRUD and calculation routes.
func registerInstrumentRoutes(rg *gin.RouterGroup, instrumentService portssvc.InstrumentSvcFacade) {
	h := newInstrumentHandler(instrumentService)

	workspaces := rg.Group("/workspaces/:workspaceID")
	{
		workspaces.POST("/instruments", h.createInstrument)
		workspaces.GET("/instruments", h.listInstruments)
	}

	instruments := rg.Group("/instruments")
	{
		instruments.GET("/:id", h.getInstrument)
		instruments.PUT("/:id", h.updateInstrument)
		instruments.DELETE("/:id", h.deleteInstrument)
		instruments.GET("/:id/amortization", h.getAmortization)
		instruments.GET("/:id/metrics", h.getMetrics)
	}

	rg.GET("/instrument-types/:type/defaults", h.getTypeDefaults)
}

func parseInstrumentID(c *gin.Context) (int64, bool) {
	instrumentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid instrument ID"})
		return 0, false
	}
	return instrumentID, true
}

// respondInstrumentError maps service errors to HTTP responses shared by every
// instrument route.
func respondInstrumentError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var verr *apperrors.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, dto.ValidationFailureResponse{Errors: verr.Messages})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Instrument not found"})
	default:
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to " + action})
	}
}

// createInstrument godoc
// @Summary Create a credit instrument
// @Description Validates the instrument through the per-type rule registry and persists it. Rule failures return the full ordered message list.
// @Tags instruments
// @Accept json
// @Produce json
// @Param workspaceID path string true "Workspace ID"
// @Param instrument body dto.CreateInstrumentRequest true "Instrument details"
// @Success 201 {object} dto.InstrumentResponse
// @Failure 400 {object} dto.ValidationFailureResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /workspaces/{workspaceID}/instruments [post]
func (h *instrumentHandler) createInstrument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workspaceID := c.Param("workspaceID")

	var req dto.CreateInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create instrument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	instrument, err := h.instrumentService.CreateInstrument(c.Request.Context(), workspaceID, req, creatorUserID)
	if err != nil {
		respondInstrumentError(c, err, "create instrument")
		return
	}

	c.JSON(http.StatusCreated, dto.ToInstrumentResponse(instrument))
}

// listInstruments godoc
// @Summary List a workspace's credit instruments
// @Tags instruments
// @Produce json
// @Param workspaceID path string true "Workspace ID"
// @Success 200 {array} dto.InstrumentResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /workspaces/{workspaceID}/instruments [get]
func (h *instrumentHandler) listInstruments(c *gin.Context) {
	workspaceID := c.Param("workspaceID")

	instruments, err := h.instrumentService.ListInstruments(c.Request.Context(), workspaceID)
	if err != nil {
		respondInstrumentError(c, err, "list instruments")
		return
	}

	c.JSON(http.StatusOK, dto.ToListInstrumentResponse(instruments))
}

// getInstrument godoc
// @Summary Get a credit instrument by ID
// @Tags instruments
// @Produce json
// @Param id path int true "Instrument ID"
// @Success 200 {object} dto.InstrumentResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /instruments/{id} [get]
func (h *instrumentHandler) getInstrument(c *gin.Context) {
	instrumentID, ok := parseInstrumentID(c)
	if !ok {
		return
	}

	instrument, err := h.instrumentService.GetInstrument(c.Request.Context(), instrumentID)
	if err != nil {
		respondInstrumentError(c, err, "retrieve instrument")
		return
	}

	c.JSON(http.StatusOK, dto.ToInstrumentResponse(instrument))
}

// updateInstrument godoc
// @Summary Update a credit instrument
// @Description Re-runs the full rule registry against the replacement record before persisting.
// @Tags instruments
// @Accept json
// @Produce json
// @Param id path int true "Instrument ID"
// @Param instrument body dto.UpdateInstrumentRequest true "Replacement instrument details"
// @Success 200 {object} dto.InstrumentResponse
// @Failure 400 {object} dto.ValidationFailureResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /instruments/{id} [put]
func (h *instrumentHandler) updateInstrument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	instrumentID, ok := parseInstrumentID(c)
	if !ok {
		return
	}

	var req dto.UpdateInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for update instrument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	instrument, err := h.instrumentService.UpdateInstrument(c.Request.Context(), instrumentID, req, updaterUserID)
	if err != nil {
		respondInstrumentError(c, err, "update instrument")
		return
	}

	c.JSON(http.StatusOK, dto.ToInstrumentResponse(instrument))
}

// deleteInstrument godoc
// @Summary Delete a credit instrument
// @Description Removes the instrument and its usage ledger.
// @Tags instruments
// @Produce json
// @Param id path int true "Instrument ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /instruments/{id} [delete]
func (h *instrumentHandler) deleteInstrument(c *gin.Context) {
	instrumentID, ok := parseInstrumentID(c)
	if !ok {
		return
	}

	if err := h.instrumentService.DeleteInstrument(c.Request.Context(), instrumentID); err != nil {
		respondInstrumentError(c, err, "delete instrument")
		return
	}

	c.Status(http.StatusNoContent)
}

// getAmortization godoc
// @Summary Compute the amortization figures for an instrument
// @Description Returns pricing figures for the instrument's type; term-bearing kinds include the full French-system schedule.
// @Tags instruments
// @Produce json
// @Param id path int true "Instrument ID"
// @Success 200 {object} dto.AmortizationResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /instruments/{id}/amortization [get]
func (h *instrumentHandler) getAmortization(c *gin.Context) {
	instrumentID, ok := parseInstrumentID(c)
	if !ok {
		return
	}

	result, err := h.instrumentService.Amortization(c.Request.Context(), instrumentID)
	if err != nil {
		respondInstrumentError(c, err, "compute amortization")
		return
	}

	c.JSON(http.StatusOK, dto.ToAmortizationResponse(result))
}

// getMetrics godoc
// @Summary Compute summary metrics for an instrument
// @Tags instruments
// @Produce json
// @Param id path int true "Instrument ID"
// @Success 200 {object} dto.MetricsResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /instruments/{id}/metrics [get]
func (h *instrumentHandler) getMetrics(c *gin.Context) {
	instrumentID, ok := parseInstrumentID(c)
	if !ok {
		return
	}

	metrics, err := h.instrumentService.Metrics(c.Request.Context(), instrumentID)
	if err != nil {
		respondInstrumentError(c, err, "compute metrics")
		return
	}

	c.JSON(http.StatusOK, dto.ToMetricsResponse(metrics))
}

// getTypeDefaults godoc
// @Summary Get the defaults and required fields for an instrument type
// @Description Feeds the create form's type switch with the registry's defaults and required-field list.
// @Tags instruments
// @Produce json
// @Param type path string true "Instrument type"
// @Success 200 {object} dto.TypeDefaultsResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /instrument-types/{type}/defaults [get]
func (h *instrumentHandler) getTypeDefaults(c *gin.Context) {
	instrumentType := domain.InstrumentType(c.Param("type"))

	defaults, required, err := h.instrumentService.TypeDefaults(c.Request.Context(), instrumentType)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Unknown instrument type"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to look up type defaults"})
		return
	}

	c.JSON(http.StatusOK, dto.TypeDefaultsResponse{
		InstrumentType: instrumentType,
		RequiredFields: required,
		Defaults:       defaults,
	})
}
