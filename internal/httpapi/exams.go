package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dikshanttatrari/not-again-sir-backend/internal/exam"
)

func (h *Handler) registerExams(api, admin *gin.RouterGroup) {
	admin.POST("/teacher/exam/assign", h.assignExam)
	api.GET("/exams", h.listExams)
	admin.PUT("/exams/:id", h.updateExam)
	admin.DELETE("/exams/:id", h.deleteExam)
}

func (h *Handler) assignExam(c *gin.Context) {
	var req struct {
		Title         string `json:"title"`
		Subject       string `json:"subject"`
		Date          string `json:"date"`
		Time          string `json:"time"`
		Duration      string `json:"duration"`
		Venue         string `json:"venue"`
		Sem           string `json:"sem"`
		Batch         string `json:"batch"`
		TeacherID     string `json:"teacherId"`
		ProfessorName string `json:"professorName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	saved, err := h.exams.Assign(c.Request.Context(), exam.Exam{
		Title:     req.Title,
		Subject:   req.Subject,
		Date:      req.Date,
		Time:      req.Time,
		Duration:  req.Duration,
		Venue:     req.Venue,
		Semester:  req.Sem,
		Batch:     req.Batch,
		Professor: req.ProfessorName,
		TeacherID: req.TeacherID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Exam assigned and students notified successfully",
		"data":    saved,
	})
}

func (h *Handler) listExams(c *gin.Context) {
	var (
		exams []exam.Exam
		err   error
	)
	if teacherID := c.Query("teacherId"); teacherID != "" {
		exams, err = h.exams.ListForTeacher(c.Request.Context(), teacherID)
	} else {
		exams, err = h.exams.ListForClass(c.Request.Context(), c.Query("sem"), c.Query("batch"))
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": exams})
}

func (h *Handler) updateExam(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Exam not found"})
		return
	}
	var req struct {
		Title    string `json:"title"`
		Subject  string `json:"subject"`
		Date     string `json:"date"`
		Time     string `json:"time"`
		Duration string `json:"duration"`
		Venue    string `json:"venue"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	updated, err := h.exams.Update(c.Request.Context(), id, exam.Patch{
		Title:    req.Title,
		Subject:  req.Subject,
		Date:     req.Date,
		Time:     req.Time,
		Duration: req.Duration,
		Venue:    req.Venue,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Exam updated successfully", "data": updated})
}

func (h *Handler) deleteExam(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Exam not found"})
		return
	}
	if err := h.exams.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Exam deleted successfully"})
}
