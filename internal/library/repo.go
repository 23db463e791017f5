package library

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Repository is the storage seam for the lending ledger. Issue and return are
// composite operations so the availability check and the counter move commit
// atomically; callers never see a window between check and write.
type Repository interface {
	BookByID(ctx context.Context, id uuid.UUID) (*Book, error)
	BookByISBN(ctx context.Context, isbn string) (*Book, error)
	InsertBook(ctx context.Context, b Book) (Book, error)
	AddStock(ctx context.Context, id uuid.UUID, qty int) (*Book, error)
	UpdateBook(ctx context.Context, b Book) (*Book, error)
	ListBooks(ctx context.Context) ([]Book, error)
	ActiveIssues(ctx context.Context) ([]Transaction, error)
	IssueOne(ctx context.Context, t Transaction) error
	ReturnOne(ctx context.Context, id uuid.UUID, at time.Time) (*Transaction, error)
	TransactionsByStudent(ctx context.Context, studentID string) ([]Transaction, error)
	BorrowerByRoll(ctx context.Context, roll string) (*Borrower, error)
}

// PostgresRepository persists the lending ledger in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const bookColumns = `id, isbn, title, author, category, total_qty, available_qty, created_at`

func scanBook(row interface{ Scan(...any) error }) (*Book, error) {
	var b Book
	if err := row.Scan(&b.ID, &b.ISBN, &b.Title, &b.Author, &b.Category,
		&b.TotalQty, &b.AvailableQty, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PostgresRepository) BookByID(ctx context.Context, id uuid.UUID) (*Book, error) {
	b, err := scanBook(r.db.QueryRowContext(ctx, `
		SELECT `+bookColumns+` FROM library_books WHERE id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

func (r *PostgresRepository) BookByISBN(ctx context.Context, isbn string) (*Book, error) {
	b, err := scanBook(r.db.QueryRowContext(ctx, `
		SELECT `+bookColumns+` FROM library_books WHERE isbn = $1
	`, isbn))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

func (r *PostgresRepository) InsertBook(ctx context.Context, b Book) (Book, error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO library_books (id, isbn, title, author, category, total_qty, available_qty)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at
	`, b.ID, b.ISBN, b.Title, b.Author, b.Category, b.TotalQty, b.AvailableQty)
	if err := row.Scan(&b.CreatedAt); err != nil {
		return Book{}, err
	}
	return b, nil
}

// AddStock raises both counters together for a restock of an existing title.
func (r *PostgresRepository) AddStock(ctx context.Context, id uuid.UUID, qty int) (*Book, error) {
	b, err := scanBook(r.db.QueryRowContext(ctx, `
		UPDATE library_books
		SET total_qty = total_qty + $2, available_qty = available_qty + $2
		WHERE id = $1
		RETURNING `+bookColumns+`
	`, id, qty))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

// UpdateBook rewrites book metadata and shifts available_qty by the change in
// total_qty in one guarded statement: shrinking stock below the issued count
// affects zero rows and reports ErrStockUnderflow.
func (r *PostgresRepository) UpdateBook(ctx context.Context, b Book) (*Book, error) {
	updated, err := scanBook(r.db.QueryRowContext(ctx, `
		UPDATE library_books
		SET title = $2, author = $3, isbn = $4, category = $5,
			available_qty = available_qty + ($6 - total_qty),
			total_qty = $6
		WHERE id = $1 AND available_qty + ($6 - total_qty) >= 0
		RETURNING `+bookColumns+`
	`, b.ID, b.Title, b.Author, b.ISBN, b.Category, b.TotalQty))
	if errors.Is(err, sql.ErrNoRows) {
		if exists, xerr := r.BookByID(ctx, b.ID); xerr != nil {
			return nil, xerr
		} else if exists == nil {
			return nil, ErrNotFound
		}
		return nil, ErrStockUnderflow
	}
	return updated, err
}

func (r *PostgresRepository) ListBooks(ctx context.Context) ([]Book, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+bookColumns+` FROM library_books ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

const txnColumns = `id, book_id, student_id, student_name, student_roll, book_title, issue_date, due_date, return_date, status`

func scanTxn(row interface{ Scan(...any) error }) (*Transaction, error) {
	var t Transaction
	var returned sql.NullTime
	if err := row.Scan(&t.ID, &t.BookID, &t.StudentID, &t.StudentName, &t.StudentRoll,
		&t.BookTitle, &t.IssueDate, &t.DueDate, &returned, &t.Status); err != nil {
		return nil, err
	}
	if returned.Valid {
		t.ReturnDate = &returned.Time
	}
	return &t, nil
}

func (r *PostgresRepository) ActiveIssues(ctx context.Context) ([]Transaction, error) {
	return r.queryTxns(ctx, `
		SELECT `+txnColumns+` FROM library_transactions
		WHERE status = 'ISSUED'
		ORDER BY issue_date DESC
	`)
}

func (r *PostgresRepository) TransactionsByStudent(ctx context.Context, studentID string) ([]Transaction, error) {
	return r.queryTxns(ctx, `
		SELECT `+txnColumns+` FROM library_transactions
		WHERE student_id = $1
		ORDER BY issue_date DESC
	`, studentID)
}

func (r *PostgresRepository) queryTxns(ctx context.Context, query string, args ...any) ([]Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTxn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// IssueOne takes one copy off the shelf and creates the loan in a single
// database transaction. The decrement carries an available_qty > 0 guard, so
// two issuers racing for the last copy cannot both win; the duplicate-issue
// rule is the partial unique index on (book_id, student_id) WHERE
// status = 'ISSUED', not an application-level scan. The decrement runs first,
// so a book that is both out of stock and already held by the student
// reports ErrOutOfStock.
func (r *PostgresRepository) IssueOne(ctx context.Context, t Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE library_books
		SET available_qty = available_qty - 1
		WHERE id = $1 AND available_qty > 0
	`, t.BookID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOutOfStock
	}

	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO library_transactions (id, book_id, student_id, student_name, student_roll, book_title, issue_date, due_date, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,'ISSUED')
	`, t.ID, t.BookID, t.StudentID, t.StudentName, t.StudentRoll, t.BookTitle, t.IssueDate, t.DueDate); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateIssue
		}
		return err
	}

	return tx.Commit()
}

// ReturnOne flips an open loan to RETURNED and puts the copy back, both in
// one database transaction. The status gate on the UPDATE rejects a second
// return; the increment is capped by available_qty < total_qty.
func (r *PostgresRepository) ReturnOne(ctx context.Context, id uuid.UUID, at time.Time) (*Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	txn, err := scanTxn(tx.QueryRowContext(ctx, `
		UPDATE library_transactions
		SET status = 'RETURNED', return_date = $2
		WHERE id = $1 AND status = 'ISSUED'
		RETURNING `+txnColumns+`
	`, id, at))
	if errors.Is(err, sql.ErrNoRows) {
		var status string
		err := tx.QueryRowContext(ctx, `
			SELECT status FROM library_transactions WHERE id = $1
		`, id).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		return nil, ErrAlreadyReturned
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE library_books
		SET available_qty = available_qty + 1
		WHERE id = $1 AND available_qty < total_qty
	`, txn.BookID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return txn, nil
}

func (r *PostgresRepository) BorrowerByRoll(ctx context.Context, roll string) (*Borrower, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id::text, name, university_roll_no, COALESCE(push_token, '')
		FROM students WHERE university_roll_no = $1
	`, roll)
	var b Borrower
	if err := row.Scan(&b.ID, &b.Name, &b.Roll, &b.PushToken); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}
