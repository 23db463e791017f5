package exam

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrValidation = errors.New("invalid input")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("exam slot already taken")
)

// Exam is one scheduled exam. A (batch, date, time) slot is unique: two exams
// cannot sit the same batch at the same moment.
type Exam struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Subject   string    `json:"subject"`
	Date      string    `json:"date"` // DD-MM-YYYY
	Time      string    `json:"time"` // 12-hour, "2:00 PM"
	Duration  string    `json:"duration"`
	Venue     string    `json:"venue"`
	Semester  string    `json:"semester"`
	Batch     string    `json:"batch"`
	Professor string    `json:"professor"`
	TeacherID string    `json:"teacherId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Patch carries the fields an update may change. Empty fields keep their
// current value; semester, batch and teacher are fixed at assignment.
type Patch struct {
	Title    string
	Subject  string
	Date     string
	Time     string
	Duration string
	Venue    string
}
