package exam

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dikshanttatrari/not-again-sir-backend/internal/dates"
)

type fakeRepo struct {
	exams map[uuid.UUID]Exam
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{exams: make(map[uuid.UUID]Exam)}
}

func (f *fakeRepo) slotTaken(batch, date, at string, self uuid.UUID) bool {
	for id, e := range f.exams {
		if id != self && e.Batch == batch && e.Date == date && e.Time == at {
			return true
		}
	}
	return false
}

func (f *fakeRepo) Insert(_ context.Context, e Exam) (Exam, error) {
	if f.slotTaken(e.Batch, e.Date, e.Time, uuid.Nil) {
		return Exam{}, ErrConflict
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	f.exams[e.ID] = e
	return e, nil
}

func (f *fakeRepo) ByID(_ context.Context, id uuid.UUID) (*Exam, error) {
	if e, ok := f.exams[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (f *fakeRepo) list(match func(Exam) bool) []Exam {
	var out []Exam
	for _, e := range f.exams {
		if match(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ti, _ := dates.ParseDMY(out[i].Date)
		tj, _ := dates.ParseDMY(out[j].Date)
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return out[i].Time < out[j].Time
	})
	return out
}

func (f *fakeRepo) ListByClass(_ context.Context, semester, batch string) ([]Exam, error) {
	return f.list(func(e Exam) bool { return e.Semester == semester && e.Batch == batch }), nil
}

func (f *fakeRepo) ListByTeacher(_ context.Context, teacherID string) ([]Exam, error) {
	return f.list(func(e Exam) bool { return e.TeacherID == teacherID }), nil
}

func (f *fakeRepo) Update(_ context.Context, e Exam) error {
	if _, ok := f.exams[e.ID]; !ok {
		return ErrNotFound
	}
	if f.slotTaken(e.Batch, e.Date, e.Time, e.ID) {
		return ErrConflict
	}
	f.exams[e.ID] = e
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.exams[id]; !ok {
		return ErrNotFound
	}
	delete(f.exams, id)
	return nil
}

type recordingNotifier struct {
	tokens []string
	titles []string
	bodies []string
}

func (r *recordingNotifier) Send(_ context.Context, tokens []string, title, body string, _ map[string]string) {
	r.tokens = append(r.tokens, tokens...)
	r.titles = append(r.titles, title)
	r.bodies = append(r.bodies, body)
}

type staticTokens struct {
	byClass map[string][]string
}

func (s staticTokens) TokensBySemesterBatch(_ context.Context, semester, batch string) ([]string, error) {
	return s.byClass[semester+"|"+batch], nil
}

func validExam() Exam {
	return Exam{
		Title:     "Mid Term",
		Subject:   "DBMS",
		Date:      "15-03-2026",
		Time:      "2:00 PM",
		Duration:  "2 hours",
		Venue:     "Hall A",
		Semester:  "3",
		Batch:     "BCA-2024",
		Professor: "Sharma",
		TeacherID: "t1",
	}
}

func TestAssignValidatesRequiredFields(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, nil)

	for _, mutate := range []func(*Exam){
		func(e *Exam) { e.Title = "" },
		func(e *Exam) { e.Subject = "" },
		func(e *Exam) { e.Date = "" },
		func(e *Exam) { e.Date = "2026-03-15" },
		func(e *Exam) { e.Time = "" },
		func(e *Exam) { e.Duration = "" },
		func(e *Exam) { e.Venue = "" },
		func(e *Exam) { e.Semester = "" },
		func(e *Exam) { e.Batch = "" },
		func(e *Exam) { e.TeacherID = "" },
	} {
		e := validExam()
		mutate(&e)
		_, err := svc.Assign(context.Background(), e)
		require.ErrorIs(t, err, ErrValidation)
	}
}

func TestAssignFansOutToClassTokens(t *testing.T) {
	repo := newFakeRepo()
	notifier := &recordingNotifier{}
	tokens := staticTokens{byClass: map[string][]string{
		"3|BCA-2024": {"tok-1", "tok-2"},
	}}
	svc := NewService(repo, notifier, tokens)

	saved, err := svc.Assign(context.Background(), validExam())
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, saved.ID)

	require.Equal(t, []string{"tok-1", "tok-2"}, notifier.tokens)
	require.Equal(t, []string{"New Exam Scheduled 📝"}, notifier.titles)
	require.Equal(t,
		"DBMS (Mid Term) is scheduled on 15-03-2026 at 2:00 PM. Duration: 2 hours.",
		notifier.bodies[0])
}

func TestAssignSlotConflictSkipsFanOut(t *testing.T) {
	repo := newFakeRepo()
	notifier := &recordingNotifier{}
	tokens := staticTokens{byClass: map[string][]string{"3|BCA-2024": {"tok-1"}}}
	svc := NewService(repo, notifier, tokens)

	_, err := svc.Assign(context.Background(), validExam())
	require.NoError(t, err)

	// Same batch, date and time; different subject still collides.
	dup := validExam()
	dup.Subject = "OS"
	_, err = svc.Assign(context.Background(), dup)
	require.ErrorIs(t, err, ErrConflict)
	require.Len(t, notifier.titles, 1)

	// A different time slot is fine.
	other := validExam()
	other.Time = "4:00 PM"
	_, err = svc.Assign(context.Background(), other)
	require.NoError(t, err)
}

func TestListForClassSortedByDate(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	later := validExam()
	later.Date = "20-03-2026"
	earlier := validExam()
	earlier.Date = "10-03-2026"
	otherBatch := validExam()
	otherBatch.Batch = "BCA-2025"

	for _, e := range []Exam{later, earlier, otherBatch} {
		_, err := svc.Assign(context.Background(), e)
		require.NoError(t, err)
	}

	got, err := svc.ListForClass(context.Background(), "3", "BCA-2024")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "10-03-2026", got[0].Date)
	require.Equal(t, "20-03-2026", got[1].Date)

	byTeacher, err := svc.ListForTeacher(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, byTeacher, 3)
}

func TestUpdateAppliesOnlyGivenFields(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	saved, err := svc.Assign(context.Background(), validExam())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), saved.ID, Patch{Venue: "Hall B", Time: "3:00 PM"})
	require.NoError(t, err)
	require.Equal(t, "Hall B", updated.Venue)
	require.Equal(t, "3:00 PM", updated.Time)
	require.Equal(t, "Mid Term", updated.Title)
	require.Equal(t, "DBMS", updated.Subject)

	_, err = svc.Update(context.Background(), saved.ID, Patch{Date: "not-a-date"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(context.Background(), uuid.New(), Patch{Venue: "Hall C"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	saved, err := svc.Assign(context.Background(), validExam())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), saved.ID))
	require.ErrorIs(t, svc.Delete(context.Background(), saved.ID), ErrNotFound)
}
