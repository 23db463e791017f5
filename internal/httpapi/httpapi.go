// Package httpapi wires the domain services to gin routes and maps domain
// sentinel errors onto HTTP statuses in one place.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dikshanttatrari/not-again-sir-backend/internal/attendance"
	"github.com/dikshanttatrari/not-again-sir-backend/internal/auth"
	"github.com/dikshanttatrari/not-again-sir-backend/internal/config"
	"github.com/dikshanttatrari/not-again-sir-backend/internal/exam"
	"github.com/dikshanttatrari/not-again-sir-backend/internal/library"
	"github.com/dikshanttatrari/not-again-sir-backend/internal/student"
	"github.com/dikshanttatrari/not-again-sir-backend/internal/timetable"
)

// Handler carries the domain services behind the /api surface.
type Handler struct {
	cfg        config.App
	timetable  *timetable.Service
	attendance *attendance.Service
	library    *library.Service
	exams      *exam.Service
	students   *student.Service
}

func New(cfg config.App, tt *timetable.Service, att *attendance.Service,
	lib *library.Service, ex *exam.Service, st *student.Service) *Handler {
	return &Handler{cfg: cfg, timetable: tt, attendance: att, library: lib, exams: ex, students: st}
}

// Register mounts every route under /api. Reads stay open; mutations go
// through the admin group, which enforces a teacher/admin bearer token when
// AUTH_REQUIRED is set.
func (h *Handler) Register(r *gin.Engine) {
	api := r.Group("/api")

	admin := api.Group("")
	if h.cfg.AuthRequired {
		admin.Use(auth.Bearer(h.cfg.JWTSigningKey, h.cfg.JWTIssuer))
		admin.Use(auth.RequireRole(auth.RoleTeacher, auth.RoleAdmin))
	}

	api.POST("/auth/token", h.issueToken)

	h.registerTimetable(api, admin)
	h.registerAttendance(api, admin)
	h.registerLibrary(api, admin)
	h.registerExams(api, admin)
	h.registerStudents(api, admin)
}

// issueToken exchanges the shared admin secret for a signed token pair. The
// secret gate mirrors how staff onboarding is protected elsewhere; students
// never need a token for the read surface.
func (h *Handler) issueToken(c *gin.Context) {
	var req struct {
		Subject string `json:"subject" binding:"required"`
		Role    string `json:"role" binding:"required"`
		Secret  string `json:"secret" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if req.Secret != h.cfg.AuthSecret {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid secret"})
		return
	}
	if !auth.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "unknown role"})
		return
	}
	pair, err := auth.Issue(req.Subject, req.Role, h.cfg.JWTIssuer, h.cfg.JWTSigningKey,
		h.cfg.AccessTTL, h.cfg.RefreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "token issue failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":       true,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_at":    pair.AccessExp.Unix(),
	})
}

var errStatuses = []struct {
	err  error
	code int
}{
	{timetable.ErrValidation, http.StatusBadRequest},
	{attendance.ErrValidation, http.StatusBadRequest},
	{library.ErrValidation, http.StatusBadRequest},
	{exam.ErrValidation, http.StatusBadRequest},
	{student.ErrValidation, http.StatusBadRequest},
	{library.ErrStockUnderflow, http.StatusBadRequest},
	{timetable.ErrNotFound, http.StatusNotFound},
	{attendance.ErrNotFound, http.StatusNotFound},
	{library.ErrNotFound, http.StatusNotFound},
	{exam.ErrNotFound, http.StatusNotFound},
	{student.ErrNotFound, http.StatusNotFound},
	{timetable.ErrConflict, http.StatusConflict},
	{exam.ErrConflict, http.StatusConflict},
	{student.ErrConflict, http.StatusConflict},
	{library.ErrOutOfStock, http.StatusConflict},
	{library.ErrDuplicateIssue, http.StatusConflict},
	{library.ErrAlreadyReturned, http.StatusConflict},
}

// fail maps a domain error to its HTTP status; anything unmapped is a 500
// with a generic body so storage details never leak.
func fail(c *gin.Context, err error) {
	for _, m := range errStatuses {
		if errors.Is(err, m.err) {
			c.JSON(m.code, gin.H{"success": false, "message": m.err.Error()})
			return
		}
	}
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server Error"})
}
