package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-schedule-console/internal/models"
	"github.com/noah-isme/sis-schedule-console/pkg/response"
)

type auditService interface {
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, *models.Pagination, error)
}

// AuditHandler exposes the console audit trail.
type AuditHandler struct {
	audit auditService
}

// NewAuditHandler constructs an AuditHandler.
func NewAuditHandler(audit auditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List godoc
// @Summary List recorded console mutations
// @Tags Audit
// @Produce json
// @Param action query string false "Audit action, e.g. SCHEDULE_ASSIGN"
// @Param session query string false "Console session"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /console/audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	filter := models.AuditFilter{
		Action:  c.Query("action"),
		Session: c.Query("session"),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.Query("limit")); err == nil {
		filter.PageSize = size
	}

	logs, pagination, err := h.audit.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, pagination)
}
