package handler

import (
	"net/http"

	"erp/internal/middleware"
	"erp/internal/model"
	"erp/internal/service"
	"erp/pkg/response"

	"github.com/gin-gonic/gin"
)

type TaxHandler struct {
	taxService service.TaxService
	auth       *middleware.Auth
}

func NewTaxHandler(taxService service.TaxService, auth *middleware.Auth) *TaxHandler {
	return &TaxHandler{taxService: taxService, auth: auth}
}

func (h *TaxHandler) RegisterRoutes(router *gin.RouterGroup) {
	tax := router.Group("/api/taxes")
	{
		tax.GET("", h.GetTaxes)
		tax.GET("/:id", h.GetTax)
	}

	admin := router.Group("/api/taxes")
	admin.Use(h.auth.RequireRole(model.RoleAdmin, model.RoleManager))
	{
		admin.POST("", h.CreateTax)
		admin.PUT("/:id", h.UpdateTax)
		admin.DELETE("/:id", h.DeleteTax)
	}
}

// GetTaxes lists tax codes
// @Summary      List taxes
// @Tags         taxes
// @Produce      json
// @Param        companyId      query     string  false  "Filter by company"
// @Param        financialYear  query     string  false  "Filter by financial year"
// @Success      200            {object}  response.Response{data=[]service.TaxResponse}
// @Router       /api/taxes [get]
func (h *TaxHandler) GetTaxes(c *gin.Context) {
	taxes, err := h.taxService.GetTaxes(c.Request.Context(), service.TaxListFilter{
		CompanyID:     c.Query("companyId"),
		FinancialYear: c.Query("financialYear"),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, taxes))
}

// GetTax
// @Summary      Get tax
// @Tags         taxes
// @Produce      json
// @Param        id   path      string  true  "Tax ID"
// @Success      200  {object}  response.Response{data=service.TaxResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/taxes/{id} [get]
func (h *TaxHandler) GetTax(c *gin.Context) {
	tax, err := h.taxService.GetTax(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tax))
}

// CreateTax creates a new tax code
// @Summary      Create tax
// @Tags         taxes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.TaxRequest  true  "Tax payload"
// @Success      201      {object}  response.Response{data=service.TaxResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/taxes [post]
func (h *TaxHandler) CreateTax(c *gin.Context) {
	var req service.TaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	tax, err := h.taxService.CreateTax(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, response.SuccessWithMessage(http.StatusCreated, "Tax created successfully", tax))
}

// UpdateTax
// @Summary      Update tax
// @Tags         taxes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Tax ID"
// @Param        payload  body      service.TaxRequest  true  "Tax payload"
// @Success      200      {object}  response.Response{data=service.TaxResponse}
// @Failure      404      {object}  response.Response
// @Router       /api/taxes/{id} [put]
func (h *TaxHandler) UpdateTax(c *gin.Context) {
	var req service.TaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	tax, err := h.taxService.UpdateTax(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage(http.StatusOK, "Tax updated successfully", tax))
}

// DeleteTax
// @Summary      Delete tax
// @Tags         taxes
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Tax ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/taxes/{id} [delete]
func (h *TaxHandler) DeleteTax(c *gin.Context) {
	if err := h.taxService.DeleteTax(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage(http.StatusOK, "Tax deleted successfully", nil))
}
