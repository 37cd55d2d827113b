package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	portssvc "github.com/SscSPs/currency_exchange_app/internal/core/ports/services"
	"github.com/SscSPs/currency_exchange_app/internal/dto"
	"github.com/SscSPs/currency_exchange_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// conversionHandler handles HTTP requests for rates and conversions.
type conversionHandler struct {
	conversionService portssvc.ConversionSvcFacade
}

func newConversionHandler(cs portssvc.ConversionSvcFacade) *conversionHandler {
	return &conversionHandler{conversionService: cs}
}

// registerConversionRoutes registers the latest-rate and convert routes.
func registerConversionRoutes(rg *gin.RouterGroup, conversionService portssvc.ConversionSvcFacade) {
	h := newConversionHandler(conversionService)

	rg.GET("/latest", h.getLatestRate)
	rg.GET("/convert", h.convert)
}

// getLatestRate godoc
// @Summary Get the latest cached rate
// @Description Returns the caller's most recent record for the pair, deleted records included
// @Tags rates
// @Produce  json
// @Param   base   query string true "Base currency code"
// @Param   target query string true "Target currency code"
// @Success 200 {object} dto.LatestRateResponse
// @Failure 400 {object} map[string]string "Missing currency codes"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No rate recorded for the pair"
// @Failure 500 {object} map[string]string "Failed to retrieve rate"
// @Security BearerAuth
// @Router /latest [get]
func (h *conversionHandler) getLatestRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var q dto.PairQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		logger.Warn("Failed to bind query for GetLatestRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + bindingErrorMessage(err)})
		return
	}

	username, ok := middleware.GetUsernameFromContext(c)
	if !ok {
		logger.Error("Username not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rec, err := h.conversionService.GetLatestRate(c.Request.Context(), username, q.Base, q.Target)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve rate")
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("No rate recorded for %s/%s", q.Base, q.Target)})
		return
	}

	c.JSON(http.StatusOK, dto.ToLatestRateResponse(rec))
}

// convert godoc
// @Summary Convert an amount
// @Description Converts amount from base to target, reusing a rate fetched within the last hour. Every call is recorded.
// @Tags rates
// @Produce  json
// @Param   amount query string true "Amount to convert, non-negative decimal"
// @Param   base   query string true "Base currency code"
// @Param   target query string true "Target currency code"
// @Success 200 {object} dto.ConvertResponse
// @Failure 400 {object} map[string]string "Invalid amount or currency codes"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Exchange rate source unavailable"
// @Failure 500 {object} map[string]string "Failed to convert"
// @Security BearerAuth
// @Router /convert [get]
func (h *conversionHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var q dto.ConvertQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		logger.Warn("Failed to bind query for Convert", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + bindingErrorMessage(err)})
		return
	}

	// decimal rejects NaN and Inf literals, so a parsed amount is always finite.
	amount, err := decimal.NewFromString(q.Amount)
	if err != nil {
		respondServiceError(c, logger, fmt.Errorf("%w: %q is not a decimal number", apperrors.ErrInvalidAmount, q.Amount), "Failed to convert")
		return
	}

	username, ok := middleware.GetUsernameFromContext(c)
	if !ok {
		logger.Error("Username not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rec, err := h.conversionService.ConvertWithRecord(c.Request.Context(), username, amount, q.Base, q.Target)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to convert")
		return
	}

	logger.Info("Conversion recorded",
		slog.String("record_id", rec.ID),
		slog.String("base", rec.BaseCurrency),
		slog.String("target", rec.TargetCurrency),
		slog.String("rate", rec.Rate.String()),
	)
	c.JSON(http.StatusOK, dto.ToConvertResponse(rec))
}
