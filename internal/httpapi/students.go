package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dikshanttatrari/not-again-sir-backend/internal/student"
)

func (h *Handler) registerStudents(api, admin *gin.RouterGroup) {
	admin.POST("/students", h.addStudent)
	api.GET("/students", h.listStudents)
	admin.DELETE("/students/:id", h.deleteStudent)
	api.GET("/students/search", h.searchStudent)
	api.POST("/auth/save-token", h.savePushToken)
	admin.POST("/promote-batch", h.promoteBatch)
}

func (h *Handler) addStudent(c *gin.Context) {
	var req struct {
		Name             string `json:"name"`
		EnrollmentID     string `json:"enrollmentId"`
		UniversityRollNo string `json:"universityRollNo"`
		ClassRollNo      string `json:"classRollNo"`
		Batch            string `json:"batch"`
		Semester         int    `json:"semester"`
		Mobile           string `json:"mobile"`
		Email            string `json:"email"`
		DOB              string `json:"dob"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	saved, err := h.students.Add(c.Request.Context(), student.Student{
		Name:             req.Name,
		EnrollmentID:     req.EnrollmentID,
		UniversityRollNo: req.UniversityRollNo,
		ClassRollNo:      req.ClassRollNo,
		Batch:            req.Batch,
		Semester:         req.Semester,
		Mobile:           req.Mobile,
		Email:            req.Email,
		DOB:              req.DOB,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Student added successfully", "data": saved})
}

func (h *Handler) listStudents(c *gin.Context) {
	students, err := h.students.ListByBatch(c.Request.Context(), c.Query("batch"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": students})
}

func (h *Handler) deleteStudent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Student not found"})
		return
	}
	if err := h.students.Remove(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Student deleted successfully"})
}

func (h *Handler) searchStudent(c *gin.Context) {
	st, err := h.students.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": st})
}

func (h *Handler) savePushToken(c *gin.Context) {
	var req struct {
		UserID string `json:"userId" binding:"required"`
		Token  string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	id, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Student not found"})
		return
	}
	if err := h.students.SaveToken(c.Request.Context(), id, req.Token); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Token saved"})
}

func (h *Handler) promoteBatch(c *gin.Context) {
	result, err := h.students.Promote(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Batch promotion successful!",
		"data":    result,
	})
}
