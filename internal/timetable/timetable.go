package timetable

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrValidation = errors.New("invalid input")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// Days the catalog schedules on. Sunday never carries sessions.
var Days = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Session is one scheduled class occurrence.
type Session struct {
	ID            uuid.UUID `json:"id"`
	Semester      string    `json:"semester"`
	Day           string    `json:"day"`
	StartTime     string    `json:"startTime"`
	EndTime       string    `json:"endTime"`
	Subject       string    `json:"subject"`
	ProfessorID   string    `json:"professorId"`
	ProfessorName string    `json:"professor"`
	Room          string    `json:"room"`
	Batch         string    `json:"batch"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Holiday suppresses session resolution for a whole date.
type Holiday struct {
	Date     string `json:"date"` // DD-MM-YYYY, unique
	Reason   string `json:"reason"`
	MarkedBy string `json:"markedBy"`
}

func validDay(day string) bool {
	for _, d := range Days {
		if d == day {
			return true
		}
	}
	return false
}
