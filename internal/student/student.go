package student

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrValidation = errors.New("invalid input")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("student already exists")
)

// Student is one roster row. EnrollmentID and UniversityRollNo are each
// unique across the roster; Semester is 0 once the student graduates.
type Student struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	EnrollmentID     string    `json:"enrollmentId"`
	UniversityRollNo string    `json:"universityRollNo"`
	ClassRollNo      string    `json:"classRollNo"`
	Batch            string    `json:"batch"`
	Semester         int       `json:"semester"`
	Mobile           string    `json:"mobile"`
	Email            string    `json:"email"`
	DOB              string    `json:"dob"`
	PushToken        string    `json:"pushToken,omitempty"`
	Role             string    `json:"role"`
}
