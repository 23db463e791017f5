package library

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrValidation      = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrOutOfStock      = errors.New("out of stock")
	ErrDuplicateIssue  = errors.New("already issued")
	ErrAlreadyReturned = errors.New("already returned")
	ErrStockUnderflow  = errors.New("cannot reduce stock below issued amount")
)

// Transaction status values. ISSUED -> RETURNED is the only transition.
const (
	StatusIssued   = "ISSUED"
	StatusReturned = "RETURNED"
)

// FinePerDay is the charge per day a loan stays open past its due date.
const FinePerDay = 5

// BorrowLimit is the advertised per-student cap shown on the dashboard.
const BorrowLimit = 5

// Book is a library inventory row. available never leaves [0, total]; the
// difference equals the number of open ISSUED transactions on the book.
type Book struct {
	ID           uuid.UUID `json:"id"`
	ISBN         string    `json:"isbn"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	Category     string    `json:"category"`
	TotalQty     int       `json:"totalQty"`
	AvailableQty int       `json:"availableQty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Transaction is one loan. Created at issue, mutated to RETURNED exactly
// once, never deleted.
type Transaction struct {
	ID          uuid.UUID  `json:"id"`
	BookID      uuid.UUID  `json:"bookId"`
	StudentID   string     `json:"studentId"`
	StudentName string     `json:"studentName"`
	StudentRoll string     `json:"studentRoll"`
	BookTitle   string     `json:"bookTitle"`
	IssueDate   time.Time  `json:"issueDate"`
	DueDate     time.Time  `json:"dueDate"`
	ReturnDate  *time.Time `json:"returnDate,omitempty"`
	Status      string     `json:"status"`
}

// Borrower is the roster projection the ledger needs about a student.
type Borrower struct {
	ID        string
	Name      string
	Roll      string
	PushToken string
}

// Fine computes the overdue charge for a transaction as of today. Only open
// loans accrue fines: a RETURNED transaction is always 0 no matter how late
// the return was. Preserved as specified; see DESIGN.md.
func Fine(t Transaction, today time.Time) int {
	if t.Status != StatusIssued || !today.After(t.DueDate) {
		return 0
	}
	days := int(today.Sub(t.DueDate).Hours() / 24)
	if today.Sub(t.DueDate)%(24*time.Hour) != 0 {
		days++
	}
	return days * FinePerDay
}
