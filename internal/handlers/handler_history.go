package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/currency_exchange_app/internal/core/ports/services"
	"github.com/SscSPs/currency_exchange_app/internal/dto"
	"github.com/SscSPs/currency_exchange_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// historyHandler serves a user's own conversion history.
type historyHandler struct {
	auditService portssvc.AuditSvcFacade
}

func newHistoryHandler(as portssvc.AuditSvcFacade) *historyHandler {
	return &historyHandler{auditService: as}
}

// registerHistoryRoutes registers the caller-scoped history routes.
func registerHistoryRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvcFacade) {
	h := newHistoryHandler(auditService)

	history := rg.Group("/history")
	{
		history.GET("", h.listHistory)
		history.DELETE("/:id", h.deleteHistoryEntry)
	}
}

// listHistory godoc
// @Summary List conversion history
// @Description Lists the caller's records, newest first, excluding deleted ones
// @Tags history
// @Produce  json
// @Param   page query int false "Zero-based page number" default(0)
// @Param   size query int false "Page size" default(10)
// @Success 200 {object} dto.PageResponse[dto.HistoryResponse]
// @Failure 400 {object} map[string]string "Invalid paging parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list history"
// @Security BearerAuth
// @Router /history [get]
func (h *historyHandler) listHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	page, size, ok := bindPage(c, logger)
	if !ok {
		return
	}

	username, ok := middleware.GetUsernameFromContext(c)
	if !ok {
		logger.Error("Username not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.auditService.ListActive(c.Request.Context(), username, page, size)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list history")
		return
	}

	c.JSON(http.StatusOK, dto.ToPageResponse(result, dto.ToHistoryResponse))
}

// deleteHistoryEntry godoc
// @Summary Delete a history entry
// @Description Logically deletes one of the caller's records. The record keeps serving the rate cache.
// @Tags history
// @Param   id path string true "Record ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Record not found"
// @Failure 500 {object} map[string]string "Failed to delete record"
// @Security BearerAuth
// @Router /history/{id} [delete]
func (h *historyHandler) deleteHistoryEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id := c.Param("id")

	username, ok := middleware.GetUsernameFromContext(c)
	if !ok {
		logger.Error("Username not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	logger = logger.With(slog.String("record_id", id))

	rec, err := h.auditService.GetRecord(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to delete record")
		return
	}
	// Other users' records are reported as absent.
	if rec.Username != username {
		logger.Warn("Attempt to delete a record owned by another user")
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	if err := h.auditService.LogicalDelete(c.Request.Context(), id, username); err != nil {
		respondServiceError(c, logger, err, "Failed to delete record")
		return
	}

	logger.Info("History entry deleted")
	c.Status(http.StatusNoContent)
}
