package library

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dikshanttatrari/not-again-sir-backend/internal/clock"
)

// Notifier is the fire-and-forget push seam; failures never touch the ledger.
type Notifier interface {
	Send(ctx context.Context, tokens []string, title, body string, data map[string]string)
}

// Service coordinates the lending ledger.
type Service struct {
	repo     Repository
	clk      clock.Clock
	notifier Notifier
}

func NewService(repo Repository, clk clock.Clock, notifier Notifier) *Service {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Service{repo: repo, clk: clk, notifier: notifier}
}

// AddBook registers a new title or restocks an existing ISBN.
func (s *Service) AddBook(ctx context.Context, isbn, title, author, category string, qty int) (*Book, bool, error) {
	if isbn == "" || title == "" || qty <= 0 {
		return nil, false, ErrValidation
	}
	if category == "" {
		category = "General"
	}

	existing, err := s.repo.BookByISBN(ctx, isbn)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		b, err := s.repo.AddStock(ctx, existing.ID, qty)
		return b, false, err
	}

	b, err := s.repo.InsertBook(ctx, Book{
		ISBN:         isbn,
		Title:        title,
		Author:       author,
		Category:     category,
		TotalQty:     qty,
		AvailableQty: qty,
	})
	if err != nil {
		return nil, false, err
	}
	return &b, true, nil
}

// EditBook rewrites metadata and re-bases the stock count. The available
// counter shifts by the total delta and may not drop below zero — you cannot
// shrink stock under the currently-issued count.
func (s *Service) EditBook(ctx context.Context, id uuid.UUID, title, author, isbn, category string, newTotalQty int) (*Book, error) {
	if id == uuid.Nil || newTotalQty < 0 {
		return nil, ErrValidation
	}
	current, err := s.repo.BookByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}
	if title == "" {
		title = current.Title
	}
	if author == "" {
		author = current.Author
	}
	if isbn == "" {
		isbn = current.ISBN
	}
	if category == "" {
		category = current.Category
	}
	return s.repo.UpdateBook(ctx, Book{
		ID: id, Title: title, Author: author, ISBN: isbn, Category: category, TotalQty: newTotalQty,
	})
}

// IssueFailure is one per-book failure inside a batch issue.
type IssueFailure struct {
	ID     string `json:"id,omitempty"`
	Title  string `json:"title,omitempty"`
	Reason string `json:"reason"`
}

// IssueResult accumulates per-book outcomes of a batch issue. Every requested
// book is attempted; the batch as a whole fails only when nothing succeeded.
type IssueResult struct {
	Issued  []string       `json:"issued"`
	Failed  []IssueFailure `json:"failed"`
	DueDate time.Time      `json:"dueDate"`
}

// AllFailed reports whether the batch produced no successful issue at all.
func (r IssueResult) AllFailed() bool {
	return len(r.Issued) == 0 && len(r.Failed) > 0
}

// IssueBatch issues each requested book to the student independently. The
// default due date is six months from issue. Sibling failures never abort the
// rest of the batch; the caller receives both lists.
func (s *Service) IssueBatch(ctx context.Context, bookIDs []string, studentRoll string, dueDate *time.Time) (IssueResult, error) {
	if len(bookIDs) == 0 || studentRoll == "" {
		return IssueResult{}, ErrValidation
	}

	student, err := s.repo.BorrowerByRoll(ctx, studentRoll)
	if err != nil {
		return IssueResult{}, err
	}
	if student == nil {
		return IssueResult{}, ErrNotFound
	}

	now := s.clk.Now()
	due := now.AddDate(0, 6, 0)
	if dueDate != nil {
		due = *dueDate
	}

	result := IssueResult{DueDate: due}
	for _, rawID := range bookIDs {
		id, err := uuid.Parse(rawID)
		if err != nil {
			result.Failed = append(result.Failed, IssueFailure{ID: rawID, Reason: "Not Found"})
			continue
		}
		book, err := s.repo.BookByID(ctx, id)
		if err != nil {
			return IssueResult{}, err
		}
		if book == nil {
			result.Failed = append(result.Failed, IssueFailure{ID: rawID, Reason: "Not Found"})
			continue
		}

		err = s.repo.IssueOne(ctx, Transaction{
			BookID:      book.ID,
			StudentID:   student.ID,
			StudentName: student.Name,
			StudentRoll: student.Roll,
			BookTitle:   book.Title,
			IssueDate:   now,
			DueDate:     due,
			Status:      StatusIssued,
		})
		switch {
		case err == nil:
			result.Issued = append(result.Issued, book.Title)
		case err == ErrOutOfStock:
			result.Failed = append(result.Failed, IssueFailure{Title: book.Title, Reason: "Out of Stock"})
		case err == ErrDuplicateIssue:
			result.Failed = append(result.Failed, IssueFailure{Title: book.Title, Reason: "Already Issued"})
		default:
			return IssueResult{}, err
		}
	}

	if s.notifier != nil && student.PushToken != "" && len(result.Issued) > 0 {
		word := "books"
		if len(result.Issued) == 1 {
			word = "book"
		}
		s.notifier.Send(ctx, []string{student.PushToken}, "Library Update 📚",
			fmt.Sprintf("You have borrowed %d %s. Please return by %s.",
				len(result.Issued), word, due.Format("2 Jan 2006")),
			map[string]string{"screen": "Library"})
	}

	return result, nil
}

// Return closes an open loan: stamps the return time and puts the copy back.
func (s *Service) Return(ctx context.Context, transactionID uuid.UUID) (*Transaction, error) {
	if transactionID == uuid.Nil {
		return nil, ErrValidation
	}
	txn, err := s.repo.ReturnOne(ctx, transactionID, s.clk.Now())
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if student, err := s.repo.BorrowerByRoll(ctx, txn.StudentRoll); err == nil && student != nil && student.PushToken != "" {
			s.notifier.Send(ctx, []string{student.PushToken}, "Book Returned ✅",
				fmt.Sprintf("You have successfully returned %q. Thank you!", txn.BookTitle),
				map[string]string{"screen": "Library"})
		}
	}
	return txn, nil
}

// LoanView is one row of the student's library dashboard.
type LoanView struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	IssueDate  time.Time  `json:"issueDate"`
	DueDate    time.Time  `json:"dueDate"`
	ReturnDate *time.Time `json:"returnDate,omitempty"`
	Status     string     `json:"status"` // ACTIVE | OVERDUE | RETURNED
	Fine       int        `json:"fine"`
}

// DashboardStats summarizes the active set.
type DashboardStats struct {
	Issued  int `json:"issued"`
	Limit   int `json:"limit"`
	Overdue int `json:"overdue"`
	Fines   int `json:"fines"`
}

// StudentDashboard splits a student's transactions into the active set
// (annotated ACTIVE/OVERDUE with fines) and returned history.
type StudentDashboard struct {
	Stats        DashboardStats `json:"stats"`
	ActiveBooks  []LoanView     `json:"activeBooks"`
	HistoryBooks []LoanView     `json:"historyBooks"`
}

func (s *Service) StudentDashboard(ctx context.Context, roll string) (*StudentDashboard, error) {
	if roll == "" {
		return nil, ErrValidation
	}
	student, err := s.repo.BorrowerByRoll(ctx, roll)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrNotFound
	}

	txns, err := s.repo.TransactionsByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	today := s.clk.Now()
	out := &StudentDashboard{
		ActiveBooks:  []LoanView{},
		HistoryBooks: []LoanView{},
	}
	for _, t := range txns {
		if t.Status == StatusIssued {
			fine := Fine(t, today)
			status := "ACTIVE"
			if fine > 0 {
				status = "OVERDUE"
				out.Stats.Overdue++
				out.Stats.Fines += fine
			}
			out.ActiveBooks = append(out.ActiveBooks, LoanView{
				ID: t.ID, Title: t.BookTitle, Author: "Library Resource",
				IssueDate: t.IssueDate, DueDate: t.DueDate, Status: status, Fine: fine,
			})
		} else {
			out.HistoryBooks = append(out.HistoryBooks, LoanView{
				ID: t.ID, Title: t.BookTitle, Author: "Returned",
				IssueDate: t.IssueDate, ReturnDate: t.ReturnDate, DueDate: t.DueDate,
				Status: StatusReturned,
			})
		}
	}
	out.Stats.Issued = len(out.ActiveBooks)
	out.Stats.Limit = BorrowLimit
	return out, nil
}

// AdminDashboard is the librarian's overview of inventory and open loans.
type AdminDashboard struct {
	Inventory    []Book        `json:"inventory"`
	ActiveIssues []Transaction `json:"activeIssues"`
	TotalBooks   int           `json:"totalBooks"`
	TotalIssued  int           `json:"totalIssued"`
}

func (s *Service) Dashboard(ctx context.Context) (*AdminDashboard, error) {
	books, err := s.repo.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	issues, err := s.repo.ActiveIssues(ctx)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, b := range books {
		total += b.TotalQty
	}
	return &AdminDashboard{
		Inventory:    books,
		ActiveIssues: issues,
		TotalBooks:   total,
		TotalIssued:  len(issues),
	}, nil
}
