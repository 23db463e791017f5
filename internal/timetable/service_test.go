package timetable

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dikshanttatrari/not-again-sir-backend/internal/clock"
)

// fakeRepo is an in-memory Repository for service tests.
type fakeRepo struct {
	sessions []Session
	holidays map[string]Holiday
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{holidays: make(map[string]Holiday)}
}

func (f *fakeRepo) InsertSession(_ context.Context, s Session) (Session, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	f.sessions = append(f.sessions, s)
	return s, nil
}

func (f *fakeRepo) UpdateSession(_ context.Context, s Session) error {
	for i := range f.sessions {
		if f.sessions[i].ID == s.ID {
			f.sessions[i] = s
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeRepo) DeleteSession(_ context.Context, id uuid.UUID) error {
	for i := range f.sessions {
		if f.sessions[i].ID == id {
			f.sessions = append(f.sessions[:i], f.sessions[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeRepo) SessionsBySemester(_ context.Context, semester, day string) ([]Session, error) {
	var out []Session
	for _, s := range f.sessions {
		if s.Semester == semester && s.Day == day {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) SessionsForSemester(_ context.Context, semester string) ([]Session, error) {
	var out []Session
	for _, s := range f.sessions {
		if s.Semester == semester {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) SessionsByProfessor(_ context.Context, professorID, day string) ([]Session, error) {
	var out []Session
	for _, s := range f.sessions {
		if s.ProfessorID == professorID && s.Day == day {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) SessionsByDay(_ context.Context, day string) ([]Session, error) {
	var out []Session
	for _, s := range f.sessions {
		if s.Day == day {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) HolidayOn(_ context.Context, date string) (*Holiday, error) {
	if h, ok := f.holidays[date]; ok {
		return &h, nil
	}
	return nil, nil
}

func (f *fakeRepo) InsertHoliday(_ context.Context, h Holiday) error {
	if _, ok := f.holidays[h.Date]; !ok {
		f.holidays[h.Date] = h
	}
	return nil
}

func (f *fakeRepo) DeleteHoliday(_ context.Context, date string) (bool, error) {
	if _, ok := f.holidays[date]; ok {
		delete(f.holidays, date)
		return true, nil
	}
	return false, nil
}

func (f *fakeRepo) HolidaysIn(_ context.Context, dts []string) ([]Holiday, error) {
	var out []Holiday
	for _, d := range dts {
		if h, ok := f.holidays[d]; ok {
			out = append(out, h)
		}
	}
	return out, nil
}

type recordingNotifier struct {
	titles []string
	tokens [][]string
}

func (r *recordingNotifier) Send(_ context.Context, tokens []string, title, _ string, _ map[string]string) {
	r.titles = append(r.titles, title)
	r.tokens = append(r.tokens, tokens)
}

type staticTokens []string

func (s staticTokens) AllStudentTokens(context.Context) ([]string, error) {
	return s, nil
}

// Monday 9 March 2026, 10:30 AM.
var monday = clock.Fixed{T: time.Date(2026, 3, 9, 10, 30, 0, 0, time.UTC)}

func TestSessionsForDateHolidayShortCircuit(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, monday, nil, nil)

	_, err := svc.CreateSession(context.Background(), session("DBMS", "10:00 AM", "11:00 AM"))
	require.NoError(t, err)

	repo.holidays["09-03-2026"] = Holiday{Date: "09-03-2026", Reason: "Founders Day"}

	got, err := svc.SessionsForDate(context.Background(), "3", "09-03-2026")
	require.NoError(t, err)
	require.True(t, got.IsHoliday)
	require.Equal(t, "Founders Day", got.Reason)
	require.Empty(t, got.Sessions)
}

func TestHolidayToggleIsIdempotentReversible(t *testing.T) {
	repo := newFakeRepo()
	notifier := &recordingNotifier{}
	svc := NewService(repo, monday, notifier, staticTokens{"ExponentPushToken[x]"})

	_, err := svc.CreateSession(context.Background(), session("DBMS", "10:00 AM", "11:00 AM"))
	require.NoError(t, err)

	before, err := svc.SessionsForDate(context.Background(), "3", "09-03-2026")
	require.NoError(t, err)
	require.False(t, before.IsHoliday)
	require.Len(t, before.Sessions, 1)

	status, err := svc.ToggleHoliday(context.Background(), "09-03-2026", "Strike", "admin")
	require.NoError(t, err)
	require.Equal(t, "added", status)

	during, err := svc.SessionsForDate(context.Background(), "3", "09-03-2026")
	require.NoError(t, err)
	require.True(t, during.IsHoliday)
	require.Equal(t, "Strike", during.Reason)

	status, err = svc.ToggleHoliday(context.Background(), "09-03-2026", "", "admin")
	require.NoError(t, err)
	require.Equal(t, "removed", status)

	after, err := svc.SessionsForDate(context.Background(), "3", "09-03-2026")
	require.NoError(t, err)
	require.Equal(t, before, after)

	require.Equal(t, []string{"🌴 Holiday Alert", "🚫 Holiday Cancelled"}, notifier.titles)
}

func TestToggleHolidayRejectsBadDate(t *testing.T) {
	svc := NewService(newFakeRepo(), monday, nil, nil)
	_, err := svc.ToggleHoliday(context.Background(), "2026-03-09", "x", "admin")
	require.ErrorIs(t, err, ErrValidation)
}

func TestStudentNextFreeDay(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, monday, nil, nil)

	view, err := svc.StudentNext(context.Background(), "3")
	require.NoError(t, err)
	require.Nil(t, view)
}

func TestStudentNextLiveCard(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, monday, nil, nil)

	sess := session("DBMS", "10:00 AM", "11:00 AM")
	sess.Semester = "3"
	sess.ProfessorName = "Dr. A Sharma"
	_, err := svc.CreateSession(context.Background(), sess)
	require.NoError(t, err)

	view, err := svc.StudentNext(context.Background(), "3")
	require.NoError(t, err)
	require.NotNil(t, view)
	require.Equal(t, "Live Now", view.StatusText)
	require.Equal(t, "SEM-3", view.Code)
	require.Equal(t, "Room 101", view.Location)
	require.InDelta(t, 0.5, view.Progress, 1e-9)
}

func TestTeacherNextFallsBackToTuesday(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, monday, nil, nil)

	tue := session("OS", "9:00 AM", "10:00 AM")
	tue.Day = "Tue"
	tue.ProfessorID = "t1"
	_, err := svc.CreateSession(context.Background(), tue)
	require.NoError(t, err)

	view, err := svc.TeacherNext(context.Background(), "t1")
	require.NoError(t, err)
	require.NotNil(t, view)
	require.True(t, view.IsTomorrow)
	require.Equal(t, "Tomorrow's First Class", view.StatusText)
	require.Equal(t, "Scheduled for Tue", view.SubText)
}

func TestActiveClassesValidatesAndOrders(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, monday, nil, nil)

	_, err := svc.ActiveClasses(context.Background(), "", "10:30 AM", "t1")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.ActiveClasses(context.Background(), "Mon", "10:30 AM", "t1")
	require.ErrorIs(t, err, ErrNotFound)

	for _, spec := range []struct{ subject, start, end string }{
		{"A", "8:00 AM", "9:00 AM"},
		{"B", "10:00 AM", "11:00 AM"},
		{"C", "2:00 PM", "3:00 PM"},
	} {
		s := session(spec.subject, spec.start, spec.end)
		s.ProfessorID = "t1"
		_, err := svc.CreateSession(context.Background(), s)
		require.NoError(t, err)
	}

	items, err := svc.ActiveClasses(context.Background(), "Mon", "10:30 AM", "t1")
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, StatusLive, items[0].Status)
	require.Equal(t, "B", items[0].Subject)
	require.Equal(t, "Class", items[0].Batch)
}

func TestWeeklyHolidaysConvertsToISO(t *testing.T) {
	repo := newFakeRepo()
	repo.holidays["12-01-2026"] = Holiday{Date: "12-01-2026", Reason: "Holiday"}
	svc := NewService(repo, monday, nil, nil)

	got, err := svc.WeeklyHolidays(context.Background(), "2026-01-11", "2026-01-17")
	require.NoError(t, err)
	require.Equal(t, []string{"2026-01-12"}, got)

	_, err = svc.WeeklyHolidays(context.Background(), "11-01-2026", "2026-01-17")
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateSessionValidation(t *testing.T) {
	svc := NewService(newFakeRepo(), monday, nil, nil)

	_, err := svc.CreateSession(context.Background(), Session{Subject: "X"})
	require.ErrorIs(t, err, ErrValidation)

	bad := session("X", "9:00 AM", "10:00 AM")
	bad.Day = "Sun"
	_, err = svc.CreateSession(context.Background(), bad)
	require.ErrorIs(t, err, ErrValidation)
}
