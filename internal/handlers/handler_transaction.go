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

// transactionHandler handles HTTP requests against an instrument's usage ledger.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{transactionService: ts}
}

// registerTransactionRoutes registers the ledger routes nested under an instrument.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	instruments := rg.Group("/instruments/:id")
	{
		instruments.POST("/transactions", h.recordTransaction)
		instruments.GET("/transactions", h.listTransactions)
		instruments.GET("/outstanding", h.getOutstandingPrincipal)
		instruments.GET("/net-changes", h.getNetChangeSeries)
	}

	rg.DELETE("/transactions/:transactionID", h.deleteTransaction)
}

// recordTransaction godoc
// @Summary Record a usage transaction
// @Description Appends one immutable drawdown, payment, or client credit to the instrument's ledger.
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path int true "Instrument ID"
// @Param transaction body dto.RecordTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} dto.ValidationFailureResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /instruments/{id}/transactions [post]
func (h *transactionHandler) recordTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	instrumentID, ok := parseInstrumentID(c)
	if !ok {
		return
	}

	var req dto.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for record transaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	txn, err := h.transactionService.RecordTransaction(c.Request.Context(), instrumentID, req, creatorUserID)
	if err != nil {
		var verr *apperrors.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, dto.ValidationFailureResponse{Errors: verr.Messages})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Instrument not found"})
		default:
			logger.Error("Failed to record transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to record transaction"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List an instrument's usage ledger
// @Description Returns the full ordered ledger, oldest first.
// @Tags transactions
// @Produce json
// @Param id path int true "Instrument ID"
// @Success 200 {array} dto.TransactionResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /instruments/{id}/transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	instrumentID, ok := parseInstrumentID(c)
	if !ok {
		return
	}

	txns, err := h.transactionService.ListTransactions(c.Request.Context(), instrumentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Instrument not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list transactions"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionResponse(txns))
}

// deleteTransaction godoc
// @Summary Delete a usage transaction
// @Description Removes one ledger entry; balances are re-derived on the next replay.
// @Tags transactions
// @Produce json
// @Param transactionID path int true "Transaction ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/{transactionID} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	transactionID, err := strconv.ParseInt(c.Param("transactionID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid transaction ID"})
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), transactionID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Transaction not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete transaction"})
		return
	}

	c.Status(http.StatusNoContent)
}

// getOutstandingPrincipal godoc
// @Summary Get the outstanding drawn principal before a cutoff month
// @Description Replays the ledger strictly before the start of the cutoff's month. Defaults to the current month when cutoff is omitted.
// @Tags transactions
// @Produce json
// @Param id path int true "Instrument ID"
// @Param cutoff query string false "Cutoff date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /instruments/{id}/outstanding [get]
func (h *transactionHandler) getOutstandingPrincipal(c *gin.Context) {
	instrumentID, ok := parseInstrumentID(c)
	if !ok {
		return
	}

	cutoff := time.Now()
	if raw := c.Query("cutoff"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid cutoff date, expected YYYY-MM-DD"})
			return
		}
		cutoff = parsed
	}

	balance, err := h.transactionService.OutstandingPrincipal(c.Request.Context(), instrumentID, cutoff)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Instrument not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to compute outstanding principal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"instrumentID":         instrumentID,
		"cutoff":               cutoff.Format("2006-01-02"),
		"outstandingPrincipal": balance,
	})
}

// getNetChangeSeries godoc
// @Summary Get the month-by-month net usage series
// @Description Drawdowns minus payments per calendar month for the planning drill-down view.
// @Tags transactions
// @Produce json
// @Param id path int true "Instrument ID"
// @Param from query string false "First month (YYYY-MM-DD), defaults to the current month"
// @Param months query int false "Number of months, defaults to 36"
// @Success 200 {object} dto.NetChangeSeriesResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /instruments/{id}/net-changes [get]
func (h *transactionHandler) getNetChangeSeries(c *gin.Context) {
	instrumentID, ok := parseInstrumentID(c)
	if !ok {
		return
	}

	from := time.Now()
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid from date, expected YYYY-MM-DD"})
			return
		}
		from = parsed
	}

	months := 0
	if raw := c.Query("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid months value"})
			return
		}
		months = parsed
	}

	series, err := h.transactionService.NetChangeSeries(c.Request.Context(), instrumentID, from, months)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Instrument not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build net-change series"})
		return
	}

	c.JSON(http.StatusOK, dto.ToNetChangeSeriesResponse(instrumentID, series))
}
