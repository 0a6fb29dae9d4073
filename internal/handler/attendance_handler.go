package handler

import (
	"fmt"
	"net/http"

	"erp/internal/middleware"
	"erp/internal/model"
	"erp/internal/service"
	"erp/pkg/response"

	"github.com/gin-gonic/gin"
)

type AttendanceHandler struct {
	attendanceService service.AttendanceService
	auth              *middleware.Auth
}

func NewAttendanceHandler(attendanceService service.AttendanceService, auth *middleware.Auth) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService, auth: auth}
}

func (h *AttendanceHandler) RegisterRoutes(router *gin.RouterGroup) {
	attendance := router.Group("/api/attendance")
	{
		attendance.POST("/mark", h.MarkAttendance)
		attendance.POST("/auto", h.AutoAttendance)
		attendance.GET("", h.GetAttendanceRecords)
		attendance.GET("/all", h.GetAllEmployeeRecords)
		attendance.GET("/today", h.GetTodayAttendance)
		attendance.GET("/stats", h.GetStats)
		attendance.GET("/:date", h.GetAttendanceByDate)
	}

	admin := router.Group("/api/attendance")
	admin.Use(h.auth.RequireRole(model.RoleAdmin, model.RoleManager))
	{
		admin.PUT("/:date", h.UpdateAttendanceRecord)
		admin.DELETE("/:date/:employeeObjectId", h.DeleteAttendanceRecord)
		admin.POST("/bulk-delete", h.BulkDeleteAttendance)
	}
}

// MarkAttendance records today's IN for an employee
// @Summary      Mark attendance
// @Description  Explicit IN marking. A second call on the same day is rejected with 409.
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        payload  body      service.MarkAttendanceRequest  true  "Employee"
// @Success      201      {object}  response.Response{data=service.MarkAttendanceResponse}
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/attendance/mark [post]
func (h *AttendanceHandler) MarkAttendance(c *gin.Context) {
	var req service.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.attendanceService.MarkAttendance(c.Request.Context(), req.EmployeeID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, response.SuccessWithMessage(http.StatusCreated, result.Message, result))
}

// AutoAttendance toggles today's IN/OUT for an employee
// @Summary      Auto attendance
// @Description  First call records IN, second records OUT, later calls report COMPLETED without changes
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        payload  body      service.MarkAttendanceRequest  true  "Employee"
// @Success      200      {object}  response.Response{data=service.AutoAttendanceResponse}
// @Failure      404      {object}  response.Response
// @Router       /api/attendance/auto [post]
func (h *AttendanceHandler) AutoAttendance(c *gin.Context) {
	var req service.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.attendanceService.AutoAttendance(c.Request.Context(), req.EmployeeID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage(http.StatusOK, result.Message, result))
}

// GetAttendanceRecords lists days, or one employee's rows when employeeId is given
// @Summary      List attendance
// @Tags         attendance
// @Produce      json
// @Param        date        query     string  false  "YYYY-MM-DD"
// @Param        employeeId  query     string  false  "Employee object id or employee code"
// @Success      200         {object}  response.Response
// @Router       /api/attendance [get]
func (h *AttendanceHandler) GetAttendanceRecords(c *gin.Context) {
	date := c.Query("date")

	if employeeID := c.Query("employeeId"); employeeID != "" {
		records, err := h.attendanceService.ListEmployeeRecords(c.Request.Context(), date, employeeID)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, response.Success(http.StatusOK, records))
		return
	}

	days, err := h.attendanceService.ListDays(c.Request.Context(), date)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, days))
}

// GetAllEmployeeRecords
// @Summary      All attendance rows flattened with their date
// @Tags         attendance
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.FlatAttendanceRecord}
// @Router       /api/attendance/all [get]
func (h *AttendanceHandler) GetAllEmployeeRecords(c *gin.Context) {
	records, err := h.attendanceService.ListAllRecords(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, records))
}

// GetTodayAttendance
// @Summary      Today's attendance
// @Description  Returns an empty day when nothing has been recorded yet
// @Tags         attendance
// @Produce      json
// @Success      200  {object}  response.Response{data=service.AttendanceDayResponse}
// @Router       /api/attendance/today [get]
func (h *AttendanceHandler) GetTodayAttendance(c *gin.Context) {
	day, err := h.attendanceService.GetTodayAttendance(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithMessage(http.StatusOK, day.Message, day))
}

// GetAttendanceByDate
// @Summary      Attendance of one date
// @Tags         attendance
// @Produce      json
// @Param        date  path      string  true  "YYYY-MM-DD"
// @Success      200   {object}  response.Response{data=service.AttendanceDayResponse}
// @Failure      404   {object}  response.Response
// @Router       /api/attendance/{date} [get]
func (h *AttendanceHandler) GetAttendanceByDate(c *gin.Context) {
	day, err := h.attendanceService.GetAttendanceByDate(c.Request.Context(), c.Param("date"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, day))
}

// UpdateAttendanceRecord corrects one employee's entry
// @Summary      Correct attendance
// @Description  inTime/outTime set to null clear the timestamp; working hours and counters are recomputed
// @Tags         attendance
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        date     path      string                           true  "YYYY-MM-DD"
// @Param        payload  body      service.UpdateAttendanceRequest  true  "Correction"
// @Success      200      {object}  response.Response{data=model.EmployeeAttendance}
// @Failure      404      {object}  response.Response
// @Router       /api/attendance/{date} [put]
func (h *AttendanceHandler) UpdateAttendanceRecord(c *gin.Context) {
	var req service.UpdateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	record, err := h.attendanceService.UpdateRecord(c.Request.Context(), c.Param("date"), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithMessage(http.StatusOK, "Attendance record updated successfully", record))
}

// DeleteAttendanceRecord removes one employee's entry
// @Summary      Delete attendance entry
// @Description  The day itself is removed with its last entry
// @Tags         attendance
// @Security     BearerAuth
// @Produce      json
// @Param        date              path      string  true  "YYYY-MM-DD"
// @Param        employeeObjectId  path      string  true  "Employee object id"
// @Success      200               {object}  response.Response{data=service.DeleteAttendanceResult}
// @Failure      404               {object}  response.Response
// @Router       /api/attendance/{date}/{employeeObjectId} [delete]
func (h *AttendanceHandler) DeleteAttendanceRecord(c *gin.Context) {
	result, err := h.attendanceService.DeleteRecord(c.Request.Context(), c.Param("date"), c.Param("employeeObjectId"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	message := "Employee attendance record deleted successfully"
	if result.DayRemoved {
		message = "Attendance record deleted successfully (entire date record removed)"
	}
	c.JSON(http.StatusOK, response.SuccessWithMessage(http.StatusOK, message, result))
}

// BulkDeleteAttendance deletes many entries, reporting per-item failures
// @Summary      Bulk delete attendance
// @Tags         attendance
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.BulkDeleteRequest  true  "Records to delete"
// @Success      200      {object}  response.Response{data=service.BulkDeleteResult}
// @Failure      400      {object}  response.Response
// @Router       /api/attendance/bulk-delete [post]
func (h *AttendanceHandler) BulkDeleteAttendance(c *gin.Context) {
	var req service.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.attendanceService.BulkDelete(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	message := fmt.Sprintf("Successfully deleted %d attendance records", len(result.DeletedRecords))
	c.JSON(http.StatusOK, response.SuccessWithMessage(http.StatusOK, message, result))
}

// GetStats
// @Summary      Attendance statistics
// @Tags         attendance
// @Produce      json
// @Success      200  {object}  response.Response{data=service.AttendanceStats}
// @Router       /api/attendance/stats [get]
func (h *AttendanceHandler) GetStats(c *gin.Context) {
	stats, err := h.attendanceService.GetStats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
