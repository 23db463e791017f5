package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dikshanttatrari/not-again-sir-backend/internal/dates"
	"github.com/dikshanttatrari/not-again-sir-backend/internal/timetable"
)

type sessionRequest struct {
	Semester      string `json:"semester" binding:"required"`
	Day           string `json:"day" binding:"required"`
	StartTime     string `json:"startTime" binding:"required"`
	EndTime       string `json:"endTime" binding:"required"`
	Subject       string `json:"subject" binding:"required"`
	ProfessorID   string `json:"professorId"`
	ProfessorName string `json:"professorName"`
	Room          string `json:"room"`
	Batch         string `json:"batch"`
}

func (r sessionRequest) session() timetable.Session {
	return timetable.Session{
		Semester:      r.Semester,
		Day:           r.Day,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Subject:       r.Subject,
		ProfessorID:   r.ProfessorID,
		ProfessorName: r.ProfessorName,
		Room:          r.Room,
		Batch:         r.Batch,
	}
}

func (h *Handler) registerTimetable(api, admin *gin.RouterGroup) {
	admin.POST("/time-table", h.createSession)
	api.GET("/time-table", h.listSessions)
	admin.PUT("/time-table/:id", h.updateSession)
	admin.DELETE("/time-table/:id", h.deleteSession)

	api.GET("/schedule", h.schedule)
	api.GET("/weekly-holidays", h.weeklyHolidays)
	admin.POST("/holidays", h.toggleHoliday)

	api.GET("/dashboard/student", h.studentDashboard)
	api.GET("/dashboard/teacher", h.teacherDashboard)
	api.GET("/teacher/active-class", h.activeClasses)
}

func (h *Handler) createSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	saved, err := h.timetable.CreateSession(c.Request.Context(), req.session())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": saved})
}

// listSessions serves the catalog two ways: with a date it resolves the
// holiday-aware schedule for that date, without one it returns the semester's
// full week for the editor.
func (h *Handler) listSessions(c *gin.Context) {
	semester := c.Query("semester")
	date := c.Query("date")

	if date != "" {
		sched, err := h.timetable.SessionsForDate(c.Request.Context(), semester, date)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"isHoliday": sched.IsHoliday,
			"reason":    sched.Reason,
			"data":      sched.Sessions,
		})
		return
	}

	sessions, err := h.timetable.SemesterSessions(c.Request.Context(), semester)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "isHoliday": false, "data": sessions})
}

func (h *Handler) updateSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Class not found"})
		return
	}
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	sess := req.session()
	sess.ID = id
	if err := h.timetable.UpdateSession(c.Request.Context(), sess); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": sess})
}

func (h *Handler) deleteSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Class not found"})
		return
	}
	if err := h.timetable.DeleteSession(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "msg": "Class removed"})
}

func (h *Handler) schedule(c *gin.Context) {
	date := c.Query("date")
	day, err := dates.ParseDMY(date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "date must be DD-MM-YYYY"})
		return
	}
	sched, err := h.timetable.Schedule(c.Request.Context(), date, dates.DayCode(day), c.Query("teacherName"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"isHoliday": sched.IsHoliday,
		"reason":    sched.Reason,
		"data":      sched.Sessions,
	})
}

func (h *Handler) weeklyHolidays(c *gin.Context) {
	out, err := h.timetable.WeeklyHolidays(c.Request.Context(), c.Query("start"), c.Query("end"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": out})
}

func (h *Handler) toggleHoliday(c *gin.Context) {
	var req struct {
		Date     string `json:"date" binding:"required"`
		Reason   string `json:"reason"`
		MarkedBy string `json:"markedBy"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	action, err := h.timetable.ToggleHoliday(c.Request.Context(), req.Date, req.Reason, req.MarkedBy)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "action": action})
}

func (h *Handler) studentDashboard(c *gin.Context) {
	next, err := h.timetable.StudentNext(c.Request.Context(), c.Query("semester"))
	if err != nil {
		fail(c, err)
		return
	}
	if next == nil {
		c.JSON(http.StatusOK, gin.H{
			"nextClass": nil,
			"message":   "You are free.",
			"subText":   "No more classes for today.",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"nextClass": next})
}

func (h *Handler) teacherDashboard(c *gin.Context) {
	next, err := h.timetable.TeacherNext(c.Request.Context(), c.Query("teacherId"))
	if err != nil {
		fail(c, err)
		return
	}
	if next == nil {
		c.JSON(http.StatusOK, gin.H{
			"nextSession": nil,
			"message":     "No sessions scheduled.",
			"subText":     "Nothing today or tomorrow.",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"nextSession": next})
}

func (h *Handler) activeClasses(c *gin.Context) {
	items, err := h.timetable.ActiveClasses(c.Request.Context(),
		c.Query("day"), c.Query("time"), c.Query("teacherId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": items})
}
