package exam

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dikshanttatrari/not-again-sir-backend/internal/dates"
)

// Notifier is the fire-and-forget push seam; delivery failures never affect
// the catalog.
type Notifier interface {
	Send(ctx context.Context, tokens []string, title, body string, data map[string]string)
}

// TokenSource resolves push tokens for the students sitting the exam.
type TokenSource interface {
	TokensBySemesterBatch(ctx context.Context, semester, batch string) ([]string, error)
}

// Service owns the exam catalog.
type Service struct {
	repo     Repository
	notifier Notifier
	tokens   TokenSource
}

func NewService(repo Repository, notifier Notifier, tokens TokenSource) *Service {
	return &Service{repo: repo, notifier: notifier, tokens: tokens}
}

// Assign schedules an exam and notifies every student of the target
// (semester, batch) with a registered push token. The fan-out happens only
// after the insert commits.
func (s *Service) Assign(ctx context.Context, e Exam) (Exam, error) {
	if e.Title == "" || e.Subject == "" || e.Date == "" || e.Time == "" ||
		e.Duration == "" || e.Venue == "" || e.Semester == "" || e.Batch == "" || e.TeacherID == "" {
		return Exam{}, ErrValidation
	}
	if _, err := dates.ParseDMY(e.Date); err != nil {
		return Exam{}, ErrValidation
	}

	saved, err := s.repo.Insert(ctx, e)
	if err != nil {
		return Exam{}, err
	}

	if s.notifier != nil && s.tokens != nil {
		if tokens, err := s.tokens.TokensBySemesterBatch(ctx, saved.Semester, saved.Batch); err == nil && len(tokens) > 0 {
			s.notifier.Send(ctx, tokens, "New Exam Scheduled 📝",
				fmt.Sprintf("%s (%s) is scheduled on %s at %s. Duration: %s.",
					saved.Subject, saved.Title, saved.Date, saved.Time, saved.Duration),
				map[string]string{"screen": "Exams"})
		}
	}
	return saved, nil
}

// ListForClass returns the exams a (semester, batch) will sit, soonest first.
func (s *Service) ListForClass(ctx context.Context, semester, batch string) ([]Exam, error) {
	if semester == "" || batch == "" {
		return nil, ErrValidation
	}
	return s.repo.ListByClass(ctx, semester, batch)
}

// ListForTeacher returns the exams a teacher has assigned, soonest first.
func (s *Service) ListForTeacher(ctx context.Context, teacherID string) ([]Exam, error) {
	if teacherID == "" {
		return nil, ErrValidation
	}
	return s.repo.ListByTeacher(ctx, teacherID)
}

// Update applies the non-empty fields of the patch over the stored exam.
func (s *Service) Update(ctx context.Context, id uuid.UUID, p Patch) (*Exam, error) {
	if id == uuid.Nil {
		return nil, ErrValidation
	}
	current, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}
	if p.Title != "" {
		current.Title = p.Title
	}
	if p.Subject != "" {
		current.Subject = p.Subject
	}
	if p.Date != "" {
		if _, err := dates.ParseDMY(p.Date); err != nil {
			return nil, ErrValidation
		}
		current.Date = p.Date
	}
	if p.Time != "" {
		current.Time = p.Time
	}
	if p.Duration != "" {
		current.Duration = p.Duration
	}
	if p.Venue != "" {
		current.Venue = p.Venue
	}
	if err := s.repo.Update(ctx, *current); err != nil {
		return nil, err
	}
	return current, nil
}

// Delete removes an exam from the catalog.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrValidation
	}
	return s.repo.Delete(ctx, id)
}
