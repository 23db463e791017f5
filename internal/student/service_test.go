package student

import (
	"context"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dikshanttatrari/not-again-sir-backend/internal/auth"
	"github.com/dikshanttatrari/not-again-sir-backend/internal/clock"
)

type fakeRepo struct {
	students map[uuid.UUID]Student
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{students: make(map[uuid.UUID]Student)}
}

func (f *fakeRepo) Insert(_ context.Context, s Student) (Student, error) {
	for _, existing := range f.students {
		if existing.EnrollmentID == s.EnrollmentID || existing.UniversityRollNo == s.UniversityRollNo {
			return Student{}, ErrConflict
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	f.students[s.ID] = s
	return s, nil
}

func (f *fakeRepo) ByBatch(_ context.Context, batch string) ([]Student, error) {
	var out []Student
	for _, s := range f.students {
		if batch == "" || s.Batch == batch {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeRepo) ByUniversityRoll(_ context.Context, roll string) (*Student, error) {
	for _, s := range f.students {
		if s.UniversityRollNo == roll {
			copied := s
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.students[id]; !ok {
		return ErrNotFound
	}
	delete(f.students, id)
	return nil
}

func (f *fakeRepo) SavePushToken(_ context.Context, id uuid.UUID, token string) error {
	s, ok := f.students[id]
	if !ok {
		return ErrNotFound
	}
	s.PushToken = token
	f.students[id] = s
	return nil
}

func (f *fakeRepo) AllStudentTokens(_ context.Context) ([]string, error) {
	var out []string
	for _, s := range f.students {
		if s.PushToken != "" {
			out = append(out, s.PushToken)
		}
	}
	return out, nil
}

func (f *fakeRepo) TokensBySemesterBatch(_ context.Context, semester, batch string) ([]string, error) {
	var out []string
	for _, s := range f.students {
		if s.PushToken != "" && s.Batch == batch && strconv.Itoa(s.Semester) == semester {
			out = append(out, s.PushToken)
		}
	}
	return out, nil
}

func (f *fakeRepo) Promote(_ context.Context, terminal int) (int64, int64, error) {
	var graduated, promoted int64
	for id, s := range f.students {
		switch {
		case s.Role == auth.RoleStudent && s.Semester == terminal:
			s.Role = auth.RoleAlumni
			s.Semester = 0
			graduated++
		case s.Role == auth.RoleStudent && s.Semester > 0 && s.Semester < terminal:
			s.Semester++
			promoted++
		}
		f.students[id] = s
	}
	return graduated, promoted, nil
}

var sweepTime = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

func enrolled(name, enrollment, roll, batch string, semester int) Student {
	return Student{
		Name: name, EnrollmentID: enrollment, UniversityRollNo: roll,
		Batch: batch, Semester: semester, DOB: "01-01-2005", Role: auth.RoleStudent,
	}
}

func TestAddValidatesAndDefaults(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, clock.Fixed{T: sweepTime}, 0)

	_, err := svc.Add(context.Background(), Student{Name: "Anu"})
	require.ErrorIs(t, err, ErrValidation)

	st, err := svc.Add(context.Background(), Student{
		Name: "Anu", EnrollmentID: "E1", UniversityRollNo: "R1", Batch: "BCA-2024", DOB: "01-01-2005",
	})
	require.NoError(t, err)
	require.Equal(t, 1, st.Semester)
	require.Equal(t, auth.RoleStudent, st.Role)

	// Same roll, different enrollment still clashes.
	_, err = svc.Add(context.Background(), Student{
		Name: "Bala", EnrollmentID: "E2", UniversityRollNo: "R1", Batch: "BCA-2024", DOB: "02-02-2005",
	})
	require.ErrorIs(t, err, ErrConflict)
}

func TestSearchByRoll(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, clock.Fixed{T: sweepTime}, 0)

	_, err := svc.Add(context.Background(), enrolled("Anu", "E1", "R1", "BCA-2024", 3))
	require.NoError(t, err)

	st, err := svc.Search(context.Background(), "R1")
	require.NoError(t, err)
	require.Equal(t, "Anu", st.Name)

	_, err = svc.Search(context.Background(), "R404")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Search(context.Background(), "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestSaveTokenAndQueries(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, clock.Fixed{T: sweepTime}, 0)

	a, err := svc.Add(context.Background(), enrolled("Anu", "E1", "R1", "BCA-2024", 3))
	require.NoError(t, err)
	b, err := svc.Add(context.Background(), enrolled("Bala", "E2", "R2", "BCA-2025", 1))
	require.NoError(t, err)

	require.NoError(t, svc.SaveToken(context.Background(), a.ID, "tok-a"))
	require.NoError(t, svc.SaveToken(context.Background(), b.ID, "tok-b"))
	require.ErrorIs(t, svc.SaveToken(context.Background(), uuid.New(), "tok-x"), ErrNotFound)
	require.ErrorIs(t, svc.SaveToken(context.Background(), a.ID, ""), ErrValidation)

	all, err := svc.AllStudentTokens(context.Background())
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"tok-a", "tok-b"}, all)

	class, err := svc.TokensBySemesterBatch(context.Background(), "3", "BCA-2024")
	require.NoError(t, err)
	require.Equal(t, []string{"tok-a"}, class)
}

func TestPromoteSweep(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, clock.Fixed{T: sweepTime}, 6)

	final, err := svc.Add(context.Background(), enrolled("Final", "E1", "R1", "BCA-2023", 6))
	require.NoError(t, err)
	mid, err := svc.Add(context.Background(), enrolled("Mid", "E2", "R2", "BCA-2024", 3))
	require.NoError(t, err)

	grad := enrolled("Old", "E3", "R3", "BCA-2020", 0)
	grad.Role = auth.RoleAlumni
	old, err := repo.Insert(context.Background(), grad)
	require.NoError(t, err)

	res, err := svc.Promote(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), res.Graduated)
	require.Equal(t, int64(1), res.Promoted)
	require.Equal(t, sweepTime, res.RanAt)

	require.Equal(t, auth.RoleAlumni, repo.students[final.ID].Role)
	require.Equal(t, 0, repo.students[final.ID].Semester)
	require.Equal(t, 4, repo.students[mid.ID].Semester)

	// Alumni are never touched again.
	require.Equal(t, 0, repo.students[old.ID].Semester)
	require.Equal(t, auth.RoleAlumni, repo.students[old.ID].Role)

	// A second sweep only moves the still-enrolled student.
	res, err = svc.Promote(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(0), res.Graduated)
	require.Equal(t, int64(1), res.Promoted)
	require.Equal(t, 5, repo.students[mid.ID].Semester)
}
