package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mitrahse/vendorhr-api/internal/services"
)

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// @Summary List audit logs
// @Tags Audit
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param tenant query string false "Tenant slug"
// @Param realm query string false "admin|user|system"
// @Param action query string false "Action"
// @Param entity query string false "Entity"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /audits [get]
func (h *AuditHandler) Index(c *gin.Context) {
	query := listQuery(c, "tenant", "realm", "action", "entity")
	logs, total, err := h.auditService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"audits":     logs,
		"pagination": paginationBody(query.Page, query.PerPage, total),
	})
}
