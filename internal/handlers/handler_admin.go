package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	portssvc "github.com/SscSPs/currency_exchange_app/internal/core/ports/services"
	"github.com/SscSPs/currency_exchange_app/internal/core/services"
	"github.com/SscSPs/currency_exchange_app/internal/dto"
	"github.com/SscSPs/currency_exchange_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type adminHandler struct {
	auditService portssvc.AuditSvcFacade
}

func newAdminHandler(as portssvc.AuditSvcFacade) *adminHandler {
	return &adminHandler{auditService: as}
}

// registerAdminRoutes registers the administrative audit routes behind the admin role guard.
func registerAdminRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvcFacade) {
	h := newAdminHandler(auditService)

	admin := rg.Group("/admin", middleware.RequireRole(domain.RoleAdmin))
	{
		admin.GET("/rates", h.listAllRates)
		admin.DELETE("/rates/:id", h.logicalDelete)
		admin.DELETE("/rates/:id/hard", h.physicalDelete)
	}
}

// listAllRates godoc
// @Summary List all records
// @Description Lists records of every user, newest first, including deleted ones
// @Tags admin
// @Produce  json
// @Param   page query int false "Zero-based page number" default(0)
// @Param   size query int false "Page size" default(10)
// @Success 200 {object} dto.PageResponse[dto.AdminRateResponse]
// @Failure 400 {object} map[string]string "Invalid paging parameters"
// @Failure 403 {object} map[string]string "Insufficient permissions"
// @Failure 500 {object} map[string]string "Failed to list records"
// @Security BearerAuth
// @Router /admin/rates [get]
func (h *adminHandler) listAllRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	page, size, ok := bindPage(c, logger)
	if !ok {
		return
	}

	result, err := h.auditService.ListAll(c.Request.Context(), page, size)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list records")
		return
	}

	c.JSON(http.StatusOK, dto.ToPageResponse(result, dto.ToAdminRateResponse))
}

// logicalDelete godoc
// @Summary Logically delete a record
// @Description Marks the record deleted, attributed to ADMIN
// @Tags admin
// @Param   id path string true "Record ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Insufficient permissions"
// @Failure 404 {object} map[string]string "Record not found"
// @Failure 500 {object} map[string]string "Failed to delete record"
// @Security BearerAuth
// @Router /admin/rates/{id} [delete]
func (h *adminHandler) logicalDelete(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("record_id", c.Param("id")))

	if err := h.auditService.LogicalDelete(c.Request.Context(), c.Param("id"), services.AdminActor); err != nil {
		respondServiceError(c, logger, err, "Failed to delete record")
		return
	}

	logger.Info("Record logically deleted by admin")
	c.Status(http.StatusNoContent)
}

// physicalDelete godoc
// @Summary Permanently delete a record
// @Description Removes the record from the store. This cannot be undone.
// @Tags admin
// @Param   id path string true "Record ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Insufficient permissions"
// @Failure 404 {object} map[string]string "Record not found"
// @Failure 500 {object} map[string]string "Failed to delete record"
// @Security BearerAuth
// @Router /admin/rates/{id}/hard [delete]
func (h *adminHandler) physicalDelete(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("record_id", c.Param("id")))

	if err := h.auditService.PhysicalDelete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, logger, err, "Failed to delete record")
		return
	}

	logger.Warn("Record physically deleted by admin")
	c.Status(http.StatusNoContent)
}
