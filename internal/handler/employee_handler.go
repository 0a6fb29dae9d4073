package handler

import (
	"net/http"

	"erp/internal/service"
	"erp/pkg/pagination"
	"erp/pkg/response"

	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct {
	employeeService service.EmployeeService
}

func NewEmployeeHandler(employeeService service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

func (h *EmployeeHandler) RegisterRoutes(router *gin.RouterGroup) {
	employees := router.Group("/api/employees")
	{
		employees.POST("", h.CreateEmployee)
		employees.GET("", h.ListEmployees)
		employees.GET("/:id", h.GetEmployee)
		employees.PUT("/:id", h.UpdateEmployee)
	}
}

// CreateEmployee
// @Summary      Create employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateEmployeeRequest  true  "Employee payload"
// @Success      201      {object}  response.Response{data=service.EmployeeResponse}
// @Failure      409      {object}  response.Response
// @Router       /api/employees [post]
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req service.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	employee, err := h.employeeService.CreateEmployee(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, employee))
}

// ListEmployees
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Param        search  query     string  false  "Search by name or employee code"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=[]service.EmployeeResponse}
// @Router       /api/employees [get]
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	params := pagination.Parse(c)

	employees, total, err := h.employeeService.ListEmployees(c.Request.Context(), c.Query("search"), params.Page, params.Limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, employees, params.Page, params.Limit, total))
}

// GetEmployee
// @Summary      Get employee
// @Tags         employees
// @Produce      json
// @Param        id   path      string  true  "Employee object id"
// @Success      200  {object}  response.Response{data=service.EmployeeResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/employees/{id} [get]
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	employee, err := h.employeeService.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}

// UpdateEmployee
// @Summary      Update employee profile
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Employee object id"
// @Param        payload  body      service.UpdateEmployeeRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=service.EmployeeResponse}
// @Router       /api/employees/{id} [put]
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	var req service.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	employee, err := h.employeeService.UpdateEmployee(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}
