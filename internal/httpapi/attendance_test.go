package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/dikshanttatrari/not-again-sir-backend/internal/attendance"
	"github.com/dikshanttatrari/not-again-sir-backend/internal/config"
)

// summaryRepo records which student id the summary lookup received.
type summaryRepo struct {
	askedFor string
}

func (r *summaryRepo) Upsert(context.Context, attendance.Record) error { return nil }

func (r *summaryRepo) SheetEntries(context.Context, string, string, string) ([]attendance.SheetEntry, bool, error) {
	return nil, false, nil
}

func (r *summaryRepo) Roster(context.Context, string) ([]attendance.RosterStudent, error) {
	return nil, nil
}

func (r *summaryRepo) StudentBatch(_ context.Context, studentID string) (string, error) {
	r.askedFor = studentID
	return "BCA-2024", nil
}

func (r *summaryRepo) StudentMarks(context.Context, string, string) ([]attendance.Mark, error) {
	return []attendance.Mark{{Subject: "DBMS", Date: "10-04-2026", Present: true}}, nil
}

func newSummaryRouter(repo *summaryRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := New(config.App{}, nil, attendance.NewService(repo), nil, nil, nil)
	h.Register(r)
	return r
}

func TestAttendanceSummaryQueryParams(t *testing.T) {
	for _, param := range []string{"id", "studentId"} {
		t.Run(param, func(t *testing.T) {
			repo := &summaryRepo{}
			router := newSummaryRouter(repo)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/student/attendance/dashboard?"+param+"=s1", nil)
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			require.Equal(t, "s1", repo.askedFor)
		})
	}
}

func TestAttendanceSummaryMissingID(t *testing.T) {
	router := newSummaryRouter(&summaryRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/student/attendance/dashboard", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
