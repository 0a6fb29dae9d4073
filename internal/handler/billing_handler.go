package handler

import (
	"net/http"

	"erp/internal/service"
	"erp/pkg/pagination"
	"erp/pkg/response"

	"github.com/gin-gonic/gin"
)

type BillingHandler struct {
	billingService service.BillingService
}

func NewBillingHandler(billingService service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

func (h *BillingHandler) RegisterRoutes(router *gin.RouterGroup) {
	billing := router.Group("/api/billing")
	{
		billing.POST("", h.CreateBilling)
		billing.GET("", h.ListBillings)
		billing.GET("/:id", h.GetBilling)
		billing.PUT("/:id", h.UpdateBilling)
	}
}

// CreateBilling numbers and stores a billing document
// @Summary      Create billing
// @Description  Allocates the next document number of the named BILLING category in the same transaction as the insert
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateBillingRequest  true  "Billing payload"
// @Success      201      {object}  response.Response{data=service.CreateBillingResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/billing [post]
func (h *BillingHandler) CreateBilling(c *gin.Context) {
	var req service.CreateBillingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	created, err := h.billingService.CreateBilling(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, created))
}

// ListBillings returns billings newest first
// @Summary      List billings
// @Tags         billing
// @Produce      json
// @Param        companyId      query     string  false  "Filter by company"
// @Param        financialYear  query     string  false  "Filter by financial year"
// @Param        page           query     int     false  "Page number (default 1)"
// @Param        limit          query     int     false  "Items per page (default 20)"
// @Success      200            {object}  response.Response{data=[]service.BillingResponse}
// @Router       /api/billing [get]
func (h *BillingHandler) ListBillings(c *gin.Context) {
	params := pagination.Parse(c)

	billings, total, err := h.billingService.ListBillings(c.Request.Context(), service.BillingListRequest{
		CompanyID:     c.Query("companyId"),
		FinancialYear: c.Query("financialYear"),
		Page:          params.Page,
		Limit:         params.Limit,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, billings, params.Page, params.Limit, total))
}

// GetBilling
// @Summary      Get billing
// @Tags         billing
// @Produce      json
// @Param        id   path      string  true  "Billing ID"
// @Success      200  {object}  response.Response{data=service.BillingResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/billing/{id} [get]
func (h *BillingHandler) GetBilling(c *gin.Context) {
	billing, err := h.billingService.GetBilling(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, billing))
}

// UpdateBilling edits the mutable fields and recomputes totals
// @Summary      Update billing
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Billing ID"
// @Param        payload  body      service.UpdateBillingRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=service.BillingResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/billing/{id} [put]
func (h *BillingHandler) UpdateBilling(c *gin.Context) {
	var req service.UpdateBillingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	billing, err := h.billingService.UpdateBilling(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage(http.StatusOK, "Billing updated successfully", billing))
}
