package handler

import (
	"net/http"

	"erp/internal/middleware"
	"erp/internal/model"
	"erp/internal/service"
	"erp/pkg/response"

	"github.com/gin-gonic/gin"
)

// CategoryHandler serves the number-range registry of one category kind.
// The same handler is mounted for billing, invoice and purchase order categories.
type CategoryHandler struct {
	categoryService service.CategoryService
	auth            *middleware.Auth
	kind            string
	path            string
}

func NewCategoryHandler(categoryService service.CategoryService, auth *middleware.Auth, kind, path string) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, auth: auth, kind: kind, path: path}
}

func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group(h.path)
	{
		group.GET("", h.ListCategories)
		group.GET("/:id", h.GetCategory)
	}

	admin := router.Group(h.path)
	admin.Use(h.auth.RequireRole(model.RoleAdmin, model.RoleManager))
	{
		admin.POST("", h.CreateCategory)
		admin.PUT("/:id", h.UpdateCategory)
	}
}

// CreateCategory registers a number range
// @Summary      Create category
// @Description  Reserves [rangeStart, rangeEnd] for documents of this kind.
// @Tags         categories
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateCategoryRequest  true  "Category payload"
// @Success      201      {object}  response.Response{data=service.CategoryResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/billingcategory [post]
// @Router       /api/invoicecategory [post]
// @Router       /api/pocategory [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req service.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), h.kind, req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, response.SuccessWithMessage(http.StatusCreated, "Category created", category))
}

// ListCategories lists the categories of this kind
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Param        companyId      query     string  false  "Filter by company"
// @Param        financialYear  query     string  false  "Filter by financial year"
// @Success      200            {object}  response.Response{data=[]service.CategoryResponse}
// @Router       /api/billingcategory [get]
// @Router       /api/invoicecategory [get]
// @Router       /api/pocategory [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories(c.Request.Context(), h.kind, service.CategoryListFilter{
		CompanyID:     c.Query("companyId"),
		FinancialYear: c.Query("financialYear"),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, categories))
}

// GetCategory returns one category with its next number
// @Summary      Get category
// @Tags         categories
// @Produce      json
// @Param        id   path      string  true  "Category ID"
// @Success      200  {object}  response.Response{data=service.CategoryResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/billingcategory/{id} [get]
// @Router       /api/invoicecategory/{id} [get]
// @Router       /api/pocategory/{id} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := h.categoryService.GetCategory(c.Request.Context(), h.kind, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, category))
}

// UpdateCategory changes name, prefix or range
// @Summary      Update category
// @Description  rangeStart is frozen and rangeEnd cannot drop below the last issued number once numbers were issued
// @Tags         categories
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Category ID"
// @Param        payload  body      service.UpdateCategoryRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=service.CategoryResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/billingcategory/{id} [put]
// @Router       /api/invoicecategory/{id} [put]
// @Router       /api/pocategory/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var req service.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), h.kind, c.Param("id"), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage(http.StatusOK, "Category updated successfully", category))
}
