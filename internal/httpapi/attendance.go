package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dikshanttatrari/not-again-sir-backend/internal/attendance"
)

func (h *Handler) registerAttendance(api, admin *gin.RouterGroup) {
	admin.POST("/attendance", h.saveAttendance)
	api.GET("/attendance", h.attendanceSheet)
	api.GET("/student/attendance/dashboard", h.attendanceSummary)
}

func (h *Handler) saveAttendance(c *gin.Context) {
	var rec attendance.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if err := h.attendance.Save(c.Request.Context(), rec); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Attendance saved successfully"})
}

func (h *Handler) attendanceSheet(c *gin.Context) {
	rows, err := h.attendance.Sheet(c.Request.Context(),
		c.Query("batch"), c.Query("date"), c.Query("subject"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": rows})
}

func (h *Handler) attendanceSummary(c *gin.Context) {
	// Mobile clients send ?id; ?studentId stays accepted.
	studentID := c.Query("id")
	if studentID == "" {
		studentID = c.Query("studentId")
	}
	summary, err := h.attendance.Summary(c.Request.Context(), studentID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": summary})
}
