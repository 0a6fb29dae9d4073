package handler

import (
	"net/http"

	"erp/internal/middleware"
	"erp/internal/model"
	"erp/internal/service"
	"erp/pkg/pagination"
	"erp/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
	auth         *middleware.Auth
}

func NewAuditHandler(auditService service.AuditService, auth *middleware.Auth) *AuditHandler {
	return &AuditHandler{auditService: auditService, auth: auth}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/audit-logs")
	group.Use(h.auth.RequireRole(model.RoleAdmin, model.RoleManager))
	{
		group.GET("", h.GetAuditLogs)
	}
}

// GetAuditLogs lists the audit trail
// @Summary      Get audit logs
// @Description  Lists who changed categories, billings, attendance, taxes and purchase orders
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        action    query     string  false  "Filter by action, e.g. CREATE_BILLING"
// @Param        entityId  query     string  false  "Filter by entity id"
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Number of items per page (default 20)"
// @Success      200       {object}  response.Response{data=[]service.AuditLogResponse}
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	params := pagination.Parse(c)

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), service.AuditLogFilter{
		Action:   c.Query("action"),
		EntityID: c.Query("entityId"),
		Page:     params.Page,
		Limit:    params.Limit,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, logs, params.Page, params.Limit, total))
}
