package handler

import (
	"net/http"

	"erp/internal/service"
	"erp/pkg/pagination"
	"erp/pkg/response"

	"github.com/gin-gonic/gin"
)

type VendorPriceListHandler struct {
	priceListService service.VendorPriceListService
}

func NewVendorPriceListHandler(priceListService service.VendorPriceListService) *VendorPriceListHandler {
	return &VendorPriceListHandler{priceListService: priceListService}
}

func (h *VendorPriceListHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/vendor-price-lists")
	{
		group.POST("", h.Create)
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
	}
}

// Create
// @Summary      Create vendor price list
// @Tags         vendor-price-lists
// @Accept       json
// @Produce      json
// @Param        payload  body      service.VendorPriceListRequest  true  "Price list payload"
// @Success      201      {object}  response.Response{data=service.VendorPriceListResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/vendor-price-lists [post]
func (h *VendorPriceListHandler) Create(c *gin.Context) {
	var req service.VendorPriceListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	entry, err := h.priceListService.CreatePriceList(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, entry))
}

// List
// @Summary      List vendor price lists
// @Tags         vendor-price-lists
// @Produce      json
// @Param        companyId      query     string  false  "Filter by company"
// @Param        vendorId       query     string  false  "Filter by vendor"
// @Param        financialYear  query     string  false  "Filter by financial year"
// @Param        page           query     int     false  "Page number (default 1)"
// @Param        limit          query     int     false  "Items per page (default 20)"
// @Success      200            {object}  response.Response{data=[]service.VendorPriceListResponse}
// @Router       /api/vendor-price-lists [get]
func (h *VendorPriceListHandler) List(c *gin.Context) {
	params := pagination.Parse(c)

	entries, total, err := h.priceListService.ListPriceLists(c.Request.Context(), service.VendorPriceListFilter{
		CompanyID:     c.Query("companyId"),
		VendorID:      c.Query("vendorId"),
		FinancialYear: c.Query("financialYear"),
		Page:          params.Page,
		Limit:         params.Limit,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, entries, params.Page, params.Limit, total))
}

// Get
// @Summary      Get vendor price list
// @Tags         vendor-price-lists
// @Produce      json
// @Param        id   path      string  true  "Price list ID"
// @Success      200  {object}  response.Response{data=service.VendorPriceListResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/vendor-price-lists/{id} [get]
func (h *VendorPriceListHandler) Get(c *gin.Context) {
	entry, err := h.priceListService.GetPriceList(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

// Update
// @Summary      Update vendor price list
// @Tags         vendor-price-lists
// @Accept       json
// @Produce      json
// @Param        id       path      string                          true  "Price list ID"
// @Param        payload  body      service.VendorPriceListRequest  true  "Price list payload"
// @Success      200      {object}  response.Response{data=service.VendorPriceListResponse}
// @Router       /api/vendor-price-lists/{id} [put]
func (h *VendorPriceListHandler) Update(c *gin.Context) {
	var req service.VendorPriceListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	entry, err := h.priceListService.UpdatePriceList(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

// Delete
// @Summary      Delete vendor price list
// @Tags         vendor-price-lists
// @Produce      json
// @Param        id   path      string  true  "Price list ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/vendor-price-lists/{id} [delete]
func (h *VendorPriceListHandler) Delete(c *gin.Context) {
	if err := h.priceListService.DeletePriceList(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithMessage(http.StatusOK, "Vendor price list deleted successfully", nil))
}
