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

type PurchaseOrderHandler struct {
	poService service.PurchaseOrderService
	auth      *middleware.Auth
}

func NewPurchaseOrderHandler(poService service.PurchaseOrderService, auth *middleware.Auth) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{poService: poService, auth: auth}
}

func (h *PurchaseOrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	po := router.Group("/api/purchase-orders")
	{
		po.POST("", h.CreatePurchaseOrder)
		po.GET("", h.ListPurchaseOrders)
		po.GET("/:id", h.GetPurchaseOrder)
		po.PUT("/:id", h.UpdatePurchaseOrder)
	}

	admin := router.Group("/api/purchase-orders")
	admin.Use(h.auth.RequireRole(model.RoleAdmin, model.RoleManager))
	{
		admin.PUT("/:id/status", h.ChangeStatus)
	}
}

// CreatePurchaseOrder
// @Summary      Create purchase order
// @Description  When category is given the PO number is allocated from that PURCHASE_ORDER category
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        payload  body      service.PurchaseOrderRequest  true  "Purchase order payload"
// @Success      201      {object}  response.Response{data=model.PurchaseOrder}
// @Failure      400      {object}  response.Response
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) CreatePurchaseOrder(c *gin.Context) {
	var req service.PurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	po, err := h.poService.CreatePurchaseOrder(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, response.SuccessWithMessage(http.StatusCreated, "Purchase order created", po))
}

// ListPurchaseOrders
// @Summary      List purchase orders
// @Tags         purchase-orders
// @Produce      json
// @Param        companyId      query     string  false  "Filter by company"
// @Param        financialYear  query     string  false  "Filter by financial year"
// @Param        status         query     string  false  "draft, pending, approved or rejected"
// @Param        page           query     int     false  "Page number (default 1)"
// @Param        limit          query     int     false  "Items per page (default 20)"
// @Success      200            {object}  response.Response{data=[]model.PurchaseOrder}
// @Router       /api/purchase-orders [get]
func (h *PurchaseOrderHandler) ListPurchaseOrders(c *gin.Context) {
	params := pagination.Parse(c)

	orders, total, err := h.poService.ListPurchaseOrders(c.Request.Context(), service.PurchaseOrderListFilter{
		CompanyID:     c.Query("companyId"),
		FinancialYear: c.Query("financialYear"),
		Status:        c.Query("status"),
		Page:          params.Page,
		Limit:         params.Limit,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, orders, params.Page, params.Limit, total))
}

// GetPurchaseOrder
// @Summary      Get purchase order
// @Tags         purchase-orders
// @Produce      json
// @Param        id   path      string  true  "Purchase order ID"
// @Success      200  {object}  response.Response{data=model.PurchaseOrder}
// @Failure      404  {object}  response.Response
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetPurchaseOrder(c *gin.Context) {
	po, err := h.poService.GetPurchaseOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, po))
}

// UpdatePurchaseOrder
// @Summary      Update purchase order
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Purchase order ID"
// @Param        payload  body      service.PurchaseOrderRequest  true  "Purchase order payload"
// @Success      200      {object}  response.Response{data=model.PurchaseOrder}
// @Failure      400      {object}  response.Response
// @Router       /api/purchase-orders/{id} [put]
func (h *PurchaseOrderHandler) UpdatePurchaseOrder(c *gin.Context) {
	var req service.PurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	po, err := h.poService.UpdatePurchaseOrder(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithMessage(http.StatusOK, "Purchase order updated", po))
}

// ChangeStatus approves, rejects or submits a purchase order
// @Summary      Change purchase order status
// @Tags         purchase-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Purchase order ID"
// @Param        payload  body      service.ChangePOStatusRequest  true  "New status"
// @Success      200      {object}  response.Response{data=model.PurchaseOrder}
// @Failure      400      {object}  response.Response
// @Router       /api/purchase-orders/{id}/status [put]
func (h *PurchaseOrderHandler) ChangeStatus(c *gin.Context) {
	var req service.ChangePOStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	po, err := h.poService.ChangeStatus(c.Request.Context(), c.Param("id"), req, c.GetString("userID"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithMessage(http.StatusOK, "Purchase order status updated", po))
}
