package exam

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Repository is the storage seam for the exam catalog. Slot uniqueness lives
// in the database: Insert surfaces the (batch, date, time) constraint as
// ErrConflict rather than checking first.
type Repository interface {
	Insert(ctx context.Context, e Exam) (Exam, error)
	ByID(ctx context.Context, id uuid.UUID) (*Exam, error)
	ListByClass(ctx context.Context, semester, batch string) ([]Exam, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]Exam, error)
	Update(ctx context.Context, e Exam) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PostgresRepository persists exams in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const examColumns = `id, title, subject, date, time, duration, venue, semester, batch, professor, teacher_id, created_at`

func scanExam(row interface{ Scan(...any) error }) (*Exam, error) {
	var e Exam
	if err := row.Scan(&e.ID, &e.Title, &e.Subject, &e.Date, &e.Time, &e.Duration,
		&e.Venue, &e.Semester, &e.Batch, &e.Professor, &e.TeacherID, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, e Exam) (Exam, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO exams (id, title, subject, date, time, duration, venue, semester, batch, professor, teacher_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING created_at
	`, e.ID, e.Title, e.Subject, e.Date, e.Time, e.Duration, e.Venue, e.Semester, e.Batch, e.Professor, e.TeacherID)
	if err := row.Scan(&e.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Exam{}, ErrConflict
		}
		return Exam{}, err
	}
	return e, nil
}

func (r *PostgresRepository) ByID(ctx context.Context, id uuid.UUID) (*Exam, error) {
	e, err := scanExam(r.db.QueryRowContext(ctx, `
		SELECT `+examColumns+` FROM exams WHERE id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

func (r *PostgresRepository) ListByClass(ctx context.Context, semester, batch string) ([]Exam, error) {
	return r.query(ctx, `
		SELECT `+examColumns+` FROM exams
		WHERE semester = $1 AND batch = $2
		ORDER BY to_date(date, 'DD-MM-YYYY'), time
	`, semester, batch)
}

func (r *PostgresRepository) ListByTeacher(ctx context.Context, teacherID string) ([]Exam, error) {
	return r.query(ctx, `
		SELECT `+examColumns+` FROM exams
		WHERE teacher_id = $1
		ORDER BY to_date(date, 'DD-MM-YYYY'), time
	`, teacherID)
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]Exam, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Exam
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Update(ctx context.Context, e Exam) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE exams
		SET title = $2, subject = $3, date = $4, time = $5, duration = $6, venue = $7
		WHERE id = $1
	`, e.ID, e.Title, e.Subject, e.Date, e.Time, e.Duration, e.Venue)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM exams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
