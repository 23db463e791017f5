package student

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dikshanttatrari/not-again-sir-backend/internal/auth"
	"github.com/dikshanttatrari/not-again-sir-backend/internal/clock"
)

// DefaultTerminalSemester is the last semester of the programme; reaching it
// makes the next sweep graduate the student.
const DefaultTerminalSemester = 6

// Service owns the roster and the promotion sweep.
type Service struct {
	repo     Repository
	clk      clock.Clock
	terminal int
}

func NewService(repo Repository, clk clock.Clock, terminalSemester int) *Service {
	if clk == nil {
		clk = clock.Real{}
	}
	if terminalSemester <= 0 {
		terminalSemester = DefaultTerminalSemester
	}
	return &Service{repo: repo, clk: clk, terminal: terminalSemester}
}

// Add registers a student. Enrollment ID and university roll number are each
// unique; a clash on either reports ErrConflict.
func (s *Service) Add(ctx context.Context, st Student) (Student, error) {
	if st.Name == "" || st.EnrollmentID == "" || st.UniversityRollNo == "" || st.Batch == "" || st.DOB == "" {
		return Student{}, ErrValidation
	}
	if st.Semester <= 0 {
		st.Semester = 1
	}
	if st.Role == "" {
		st.Role = auth.RoleStudent
	}
	return s.repo.Insert(ctx, st)
}

// ListByBatch returns the roster for a batch, or everyone when batch is empty,
// alphabetical by name.
func (s *Service) ListByBatch(ctx context.Context, batch string) ([]Student, error) {
	return s.repo.ByBatch(ctx, batch)
}

// Search looks a student up by exact university roll number.
func (s *Service) Search(ctx context.Context, roll string) (*Student, error) {
	if roll == "" {
		return nil, ErrValidation
	}
	st, err := s.repo.ByUniversityRoll(ctx, roll)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, ErrNotFound
	}
	return st, nil
}

// Remove deletes a student from the roster.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrValidation
	}
	return s.repo.Delete(ctx, id)
}

// SaveToken stores the device push token a client registered for a student.
func (s *Service) SaveToken(ctx context.Context, id uuid.UUID, token string) error {
	if id == uuid.Nil || token == "" {
		return ErrValidation
	}
	return s.repo.SavePushToken(ctx, id, token)
}

// AllStudentTokens lists every registered push token on the roster.
func (s *Service) AllStudentTokens(ctx context.Context) ([]string, error) {
	return s.repo.AllStudentTokens(ctx)
}

// TokensBySemesterBatch lists the registered push tokens of one class.
func (s *Service) TokensBySemesterBatch(ctx context.Context, semester, batch string) ([]string, error) {
	return s.repo.TokensBySemesterBatch(ctx, semester, batch)
}

// PromotionResult reports one sweep.
type PromotionResult struct {
	Graduated int64     `json:"graduatedCount"`
	Promoted  int64     `json:"promotedCount"`
	RanAt     time.Time `json:"ranAt"`
}

// Promote runs the semester sweep: terminal-semester students become alumni
// at semester 0, every other enrolled student moves up one semester. Safe to
// invoke by hand between scheduled runs.
func (s *Service) Promote(ctx context.Context) (PromotionResult, error) {
	graduated, promoted, err := s.repo.Promote(ctx, s.terminal)
	if err != nil {
		return PromotionResult{}, err
	}
	return PromotionResult{Graduated: graduated, Promoted: promoted, RanAt: s.clk.Now()}, nil
}
