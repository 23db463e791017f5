package attendance

import (
	"context"
	"errors"
	"sort"
	"strconv"

	"github.com/dikshanttatrari/not-again-sir-backend/internal/dates"
)

var (
	ErrValidation = errors.New("invalid input")
	ErrNotFound   = errors.New("not found")
)

// Entry is one student's mark inside a record.
type Entry struct {
	StudentID string `json:"student"`
	IsPresent bool   `json:"isPresent"`
}

// Record is the ledger document: one per (batch, date, subject). Saving the
// same key again replaces the record in full; records never merge.
type Record struct {
	Batch     string  `json:"batch"`
	Date      string  `json:"date"` // DD-MM-YYYY
	Subject   string  `json:"subject"`
	TeacherID string  `json:"teacherId"` // provenance only
	Entries   []Entry `json:"records"`
}

// SheetRow is a roster line rendered for the marking UI.
type SheetRow struct {
	StudentID  string `json:"studentId"`
	Name       string `json:"name"`
	RollNumber string `json:"rollNumber"`
	Status     string `json:"status"` // Present | Absent
}

// SubjectSummary is the per-subject rollup on the student dashboard.
type SubjectSummary struct {
	Subject  string   `json:"subject"`
	Total    int      `json:"total"`
	Attended int      `json:"attended"`
	History  []string `json:"history"` // ≤5 "P"/"A" tokens, newest first
}

const historyLimit = 5

// Service coordinates the attendance ledger.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Save stores a record with replace semantics on (batch, date, subject).
func (s *Service) Save(ctx context.Context, rec Record) error {
	if rec.Batch == "" || rec.Date == "" || rec.Subject == "" {
		return ErrValidation
	}
	if _, err := dates.ParseDMY(rec.Date); err != nil {
		return ErrValidation
	}
	return s.repo.Upsert(ctx, rec)
}

// Sheet returns the marking sheet for a key: the stored record reshaped for
// display when one exists, otherwise a fresh all-absent roster from current
// batch membership.
func (s *Service) Sheet(ctx context.Context, batch, date, subject string) ([]SheetRow, error) {
	if batch == "" || date == "" || subject == "" {
		return nil, ErrValidation
	}

	entries, found, err := s.repo.SheetEntries(ctx, batch, date, subject)
	if err != nil {
		return nil, err
	}
	if found {
		rows := make([]SheetRow, 0, len(entries))
		for _, e := range entries {
			status := "Absent"
			if e.Present {
				status = "Present"
			}
			rows = append(rows, SheetRow{
				StudentID:  e.StudentID,
				Name:       e.Name,
				RollNumber: e.RollNumber,
				Status:     status,
			})
		}
		return rows, nil
	}

	roster, err := s.repo.Roster(ctx, batch)
	if err != nil {
		return nil, err
	}
	rows := make([]SheetRow, 0, len(roster))
	for _, st := range roster {
		rows = append(rows, SheetRow{
			StudentID:  st.ID,
			Name:       st.Name,
			RollNumber: st.RollNumber,
			Status:     "Absent",
		})
	}
	sortRoster(rows)
	return rows, nil
}

// sortRoster orders rows ascending by numeric roll number. Non-numeric rolls
// sort after every numeric one; ties break by roll string, then student id,
// so the order is deterministic regardless of input order.
func sortRoster(rows []SheetRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, errA := strconv.Atoi(rows[i].RollNumber)
		b, errB := strconv.Atoi(rows[j].RollNumber)
		aNum, bNum := errA == nil, errB == nil
		switch {
		case aNum && bNum:
			if a != b {
				return a < b
			}
		case aNum:
			return true
		case bNum:
			return false
		}
		if rows[i].RollNumber != rows[j].RollNumber {
			return rows[i].RollNumber < rows[j].RollNumber
		}
		return rows[i].StudentID < rows[j].StudentID
	})
}

// Summary aggregates the student's attendance per subject across every record
// of their batch. Total counts sessions recorded regardless of presence,
// attended counts present marks, and history keeps the 5 most recent marks
// newest first. Subjects with no recorded sessions never appear.
func (s *Service) Summary(ctx context.Context, studentID string) ([]SubjectSummary, error) {
	if studentID == "" {
		return nil, ErrValidation
	}
	batch, err := s.repo.StudentBatch(ctx, studentID)
	if err != nil {
		return nil, err
	}

	marks, err := s.repo.StudentMarks(ctx, batch, studentID)
	if err != nil {
		return nil, err
	}

	bySubject := make(map[string]*SubjectSummary)
	var order []string
	for _, m := range marks {
		sum, ok := bySubject[m.Subject]
		if !ok {
			sum = &SubjectSummary{Subject: m.Subject, History: []string{}}
			bySubject[m.Subject] = sum
			order = append(order, m.Subject)
		}
		sum.Total++
		if m.Present {
			sum.Attended++
		}
		if len(sum.History) < historyLimit {
			token := "A"
			if m.Present {
				token = "P"
			}
			sum.History = append(sum.History, token)
		}
	}

	out := make([]SubjectSummary, 0, len(order))
	for _, subject := range order {
		out = append(out, *bySubject[subject])
	}
	return out, nil
}
