package timetable

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/dikshanttatrari/not-again-sir-backend/internal/clock"
	"github.com/dikshanttatrari/not-again-sir-backend/internal/dates"
)

// Notifier is the fire-and-forget push seam. Delivery failures never affect
// catalog correctness; implementations must not block on the transport.
type Notifier interface {
	Send(ctx context.Context, tokens []string, title, body string, data map[string]string)
}

// TokenSource resolves registered push tokens for fan-out.
type TokenSource interface {
	AllStudentTokens(ctx context.Context) ([]string, error)
}

// Service owns the session catalog and the class-state views built on it.
type Service struct {
	repo     Repository
	clk      clock.Clock
	notifier Notifier
	tokens   TokenSource
}

func NewService(repo Repository, clk clock.Clock, notifier Notifier, tokens TokenSource) *Service {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Service{repo: repo, clk: clk, notifier: notifier, tokens: tokens}
}

// CreateSession validates and stores a scheduled session.
func (s *Service) CreateSession(ctx context.Context, sess Session) (Session, error) {
	if sess.Semester == "" || sess.Subject == "" || sess.StartTime == "" || sess.EndTime == "" || !validDay(sess.Day) {
		return Session{}, ErrValidation
	}
	if sess.Room == "" {
		sess.Room = "101"
	}
	return s.repo.InsertSession(ctx, sess)
}

func (s *Service) UpdateSession(ctx context.Context, sess Session) error {
	if sess.ID == uuid.Nil || !validDay(sess.Day) {
		return ErrValidation
	}
	return s.repo.UpdateSession(ctx, sess)
}

func (s *Service) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrValidation
	}
	return s.repo.DeleteSession(ctx, id)
}

// DaySchedule is the holiday-aware session list for one date.
type DaySchedule struct {
	IsHoliday bool      `json:"isHoliday"`
	Reason    string    `json:"reason,omitempty"`
	Sessions  []Session `json:"sessions"`
}

// SessionsForDate lists a semester's sessions for a date, pre-empted entirely
// when the date is marked as a holiday.
func (s *Service) SessionsForDate(ctx context.Context, semester, date string) (DaySchedule, error) {
	if semester == "" || date == "" {
		return DaySchedule{}, ErrValidation
	}
	if h, err := s.repo.HolidayOn(ctx, date); err != nil {
		return DaySchedule{}, err
	} else if h != nil {
		return DaySchedule{IsHoliday: true, Reason: h.Reason, Sessions: []Session{}}, nil
	}
	day, err := dates.ParseDMY(date)
	if err != nil {
		return DaySchedule{}, ErrValidation
	}
	sessions, err := s.repo.SessionsBySemester(ctx, semester, dates.DayCode(day))
	if err != nil {
		return DaySchedule{}, err
	}
	SortByStart(sessions)
	return DaySchedule{Sessions: sessions}, nil
}

// SemesterSessions lists a semester's full week of sessions for the catalog
// editor, grouped by weekday in Days order, each day sorted by start time.
func (s *Service) SemesterSessions(ctx context.Context, semester string) ([]Session, error) {
	if semester == "" {
		return nil, ErrValidation
	}
	sessions, err := s.repo.SessionsForSemester(ctx, semester)
	if err != nil {
		return nil, err
	}
	byDay := make(map[string][]Session, len(Days))
	for _, sess := range sessions {
		byDay[sess.Day] = append(byDay[sess.Day], sess)
	}
	out := make([]Session, 0, len(sessions))
	for _, day := range Days {
		group := byDay[day]
		SortByStart(group)
		out = append(out, group...)
	}
	return out, nil
}

// Schedule lists every session on a weekday, holiday-aware, optionally
// fuzzy-filtered by professor name.
func (s *Service) Schedule(ctx context.Context, date, day, teacherName string) (DaySchedule, error) {
	if h, err := s.repo.HolidayOn(ctx, date); err != nil {
		return DaySchedule{}, err
	} else if h != nil {
		return DaySchedule{IsHoliday: true, Reason: h.Reason, Sessions: []Session{}}, nil
	}
	sessions, err := s.repo.SessionsByDay(ctx, day)
	if err != nil {
		return DaySchedule{}, err
	}
	SortByStart(sessions)
	sessions = FilterByProfessor(sessions, teacherName)
	return DaySchedule{Sessions: sessions}, nil
}

// NextClassView is the card shown at the top of the student dashboard.
type NextClassView struct {
	Subject    string  `json:"subject"`
	Code       string  `json:"code"`
	Time       string  `json:"time"`
	Location   string  `json:"location"`
	Professor  string  `json:"professor"`
	StatusText string  `json:"statusText"`
	SubText    string  `json:"subText"`
	Progress   float64 `json:"progress"`
}

// StudentNext resolves the student dashboard's next class. Nil means a free day.
func (s *Service) StudentNext(ctx context.Context, semester string) (*NextClassView, error) {
	now := s.clk.Now()
	today, err := s.repo.SessionsBySemester(ctx, semester, dates.DayCode(now))
	if err != nil {
		return nil, err
	}
	res := NextForStudent(clock.MinutesOfDay(now), today)
	if res == nil {
		return nil, nil
	}
	view := &NextClassView{
		Subject:   res.Session.Subject,
		Code:      "SEM-" + res.Session.Semester,
		Time:      fmt.Sprintf("%s - %s", res.Session.StartTime, res.Session.EndTime),
		Location:  "Room " + res.Session.Room,
		Professor: res.Session.ProfessorName,
		Progress:  res.Progress,
	}
	if res.IsLive {
		view.StatusText = "Live Now"
		view.SubText = "Class is in session"
	} else {
		view.StatusText = "Up Next"
		view.SubText = "Starts at " + res.Session.StartTime
	}
	return view, nil
}

// NextSessionView is the teacher dashboard's next-session card.
type NextSessionView struct {
	Subject    string  `json:"subject"`
	Class      string  `json:"class"`
	Time       string  `json:"time"`
	Venue      string  `json:"venue"`
	Task       string  `json:"task"`
	StatusText string  `json:"statusText"`
	SubText    string  `json:"subText"`
	IsTomorrow bool    `json:"isTomorrow"`
	Progress   float64 `json:"progress"`
}

// TeacherNext resolves the teacher dashboard's next session with the
// next-day fallback. Nil means nothing today or tomorrow.
func (s *Service) TeacherNext(ctx context.Context, teacherID string) (*NextSessionView, error) {
	if teacherID == "" {
		return nil, ErrValidation
	}
	now := s.clk.Now()
	today, err := s.repo.SessionsByProfessor(ctx, teacherID, dates.DayCode(now))
	if err != nil {
		return nil, err
	}
	tomorrow, err := s.repo.SessionsByProfessor(ctx, teacherID, dates.NextDayCode(now))
	if err != nil {
		return nil, err
	}
	res := NextForTeacher(clock.MinutesOfDay(now), today, tomorrow)
	if res == nil {
		return nil, nil
	}
	view := &NextSessionView{
		Subject:    res.Session.Subject,
		Class:      "Semester " + res.Session.Semester,
		Time:       fmt.Sprintf("%s - %s", res.Session.StartTime, res.Session.EndTime),
		Venue:      "Room " + res.Session.Room,
		Task:       "Lecture Delivery",
		IsTomorrow: res.IsTomorrow,
		Progress:   res.Progress,
	}
	switch {
	case res.IsLive:
		view.StatusText = "Session in Progress"
		view.SubText = "Lecture is live"
	case res.IsTomorrow:
		view.StatusText = "Tomorrow's First Class"
		view.SubText = "Scheduled for " + dates.NextDayCode(now)
	default:
		view.StatusText = "Upcoming Session"
		view.SubText = "Starts at " + res.Session.StartTime
	}
	return view, nil
}

// ActiveClassItem is one row of the teacher's active-class listing.
type ActiveClassItem struct {
	Subject   string `json:"subject"`
	Sem       string `json:"sem"`
	Batch     string `json:"batch"`
	Label     string `json:"label"`
	Status    Status `json:"status"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Room      string `json:"room"`
}

// ActiveClasses lists a teacher's sessions for a day in the contract order:
// live first, then upcoming, then completed most-recent-first.
func (s *Service) ActiveClasses(ctx context.Context, day, timeStr, teacherID string) ([]ActiveClassItem, error) {
	if day == "" || timeStr == "" || teacherID == "" {
		return nil, ErrValidation
	}
	sessions, err := s.repo.SessionsByProfessor(ctx, teacherID, day)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, ErrNotFound
	}
	ordered := ActiveOrdering(clock.ParseClock(timeStr), sessions)
	out := make([]ActiveClassItem, 0, len(ordered))
	for _, c := range ordered {
		batch := c.Session.Batch
		if batch == "" {
			batch = "Class"
		}
		out = append(out, ActiveClassItem{
			Subject:   c.Session.Subject,
			Sem:       c.Session.Semester,
			Batch:     batch,
			Label:     c.Label,
			Status:    c.Status,
			StartTime: c.Session.StartTime,
			EndTime:   c.Session.EndTime,
			Room:      c.Session.Room,
		})
	}
	return out, nil
}

// ToggleHoliday marks the date as a holiday if it is not one, or unmarks it
// if it is. Returns "added" or "removed". The push fan-out runs only after
// the catalog mutation has committed.
func (s *Service) ToggleHoliday(ctx context.Context, date, reason, markedBy string) (string, error) {
	if date == "" {
		return "", ErrValidation
	}
	if _, err := dates.ParseDMY(date); err != nil {
		return "", ErrValidation
	}
	if reason == "" {
		reason = "Holiday"
	}

	removed, err := s.repo.DeleteHoliday(ctx, date)
	if err != nil {
		return "", err
	}
	if removed {
		s.fanOut(ctx, "🚫 Holiday Cancelled",
			fmt.Sprintf("Bad news! The holiday on %s has been cancelled. Classes are back on schedule. 📚", date))
		return "removed", nil
	}

	if err := s.repo.InsertHoliday(ctx, Holiday{Date: date, Reason: reason, MarkedBy: markedBy}); err != nil {
		return "", err
	}
	s.fanOut(ctx, "🌴 Holiday Alert",
		fmt.Sprintf("Pack your bags! %s declared for %s. Don't show up.", reason, date))
	return "added", nil
}

func (s *Service) fanOut(ctx context.Context, title, body string) {
	if s.notifier == nil || s.tokens == nil {
		return
	}
	tokens, err := s.tokens.AllStudentTokens(ctx)
	if err != nil {
		log.Printf("holiday fan-out token lookup failed: %v", err)
		return
	}
	if len(tokens) > 0 {
		s.notifier.Send(ctx, tokens, title, body, map[string]string{"screen": "TimeTable"})
	}
}

// WeeklyHolidays returns the holiday dates between start and end (inclusive,
// YYYY-MM-DD bounds) converted to the calendar widget's YYYY-MM-DD form.
func (s *Service) WeeklyHolidays(ctx context.Context, startISO, endISO string) ([]string, error) {
	start, err := dates.ParseISO(startISO)
	if err != nil {
		return nil, ErrValidation
	}
	end, err := dates.ParseISO(endISO)
	if err != nil {
		return nil, ErrValidation
	}
	window := dates.Expand(start, end)
	if len(window) == 0 {
		return []string{}, nil
	}
	holidays, err := s.repo.HolidaysIn(ctx, window)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(holidays))
	for _, h := range holidays {
		iso, err := dates.ToISO(h.Date)
		if err != nil {
			continue
		}
		out = append(out, iso)
	}
	return out, nil
}
