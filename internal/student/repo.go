package student

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dikshanttatrari/not-again-sir-backend/internal/auth"
)

// Repository is the storage seam for the roster. Promote is composite so both
// bulk updates of the sweep commit in one transaction.
type Repository interface {
	Insert(ctx context.Context, s Student) (Student, error)
	ByBatch(ctx context.Context, batch string) ([]Student, error)
	ByUniversityRoll(ctx context.Context, roll string) (*Student, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SavePushToken(ctx context.Context, id uuid.UUID, token string) error
	AllStudentTokens(ctx context.Context) ([]string, error)
	TokensBySemesterBatch(ctx context.Context, semester, batch string) ([]string, error)
	Promote(ctx context.Context, terminalSemester int) (graduated, promoted int64, err error)
}

// PostgresRepository persists the roster in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const studentColumns = `id, name, enrollment_id, university_roll_no, class_roll_no, batch, semester, mobile, email, dob, COALESCE(push_token, ''), role`

func scanStudent(row interface{ Scan(...any) error }) (*Student, error) {
	var s Student
	if err := row.Scan(&s.ID, &s.Name, &s.EnrollmentID, &s.UniversityRollNo, &s.ClassRollNo,
		&s.Batch, &s.Semester, &s.Mobile, &s.Email, &s.DOB, &s.PushToken, &s.Role); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, s Student) (Student, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO students (id, name, enrollment_id, university_roll_no, class_roll_no, batch, semester, mobile, email, dob, role)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, s.ID, s.Name, s.EnrollmentID, s.UniversityRollNo, s.ClassRollNo, s.Batch, s.Semester, s.Mobile, s.Email, s.DOB, s.Role)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Student{}, ErrConflict
		}
		return Student{}, err
	}
	return s, nil
}

func (r *PostgresRepository) ByBatch(ctx context.Context, batch string) ([]Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY name`
	args := []any{}
	if batch != "" {
		query = `SELECT ` + studentColumns + ` FROM students WHERE batch = $1 ORDER BY name`
		args = append(args, batch)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ByUniversityRoll(ctx context.Context, roll string) (*Student, error) {
	s, err := scanStudent(r.db.QueryRowContext(ctx, `
		SELECT `+studentColumns+` FROM students WHERE university_roll_no = $1
	`, roll))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
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

func (r *PostgresRepository) SavePushToken(ctx context.Context, id uuid.UUID, token string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE students SET push_token = $2 WHERE id = $1
	`, id, token)
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

func (r *PostgresRepository) AllStudentTokens(ctx context.Context) ([]string, error) {
	return r.tokenQuery(ctx, `
		SELECT push_token FROM students
		WHERE push_token IS NOT NULL AND push_token <> ''
	`)
}

func (r *PostgresRepository) TokensBySemesterBatch(ctx context.Context, semester, batch string) ([]string, error) {
	return r.tokenQuery(ctx, `
		SELECT push_token FROM students
		WHERE semester::text = $1 AND batch = $2
		  AND push_token IS NOT NULL AND push_token <> ''
	`, semester, batch)
}

func (r *PostgresRepository) tokenQuery(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		out = append(out, token)
	}
	return out, rows.Err()
}

// Promote runs the semester sweep as two bulk updates in one transaction:
// terminal-semester students graduate to alumni at semester 0, everyone else
// still enrolled moves up one.
func (r *PostgresRepository) Promote(ctx context.Context, terminalSemester int) (int64, int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE students SET role = $2, semester = 0
		WHERE role = $1 AND semester = $3
	`, auth.RoleStudent, auth.RoleAlumni, terminalSemester)
	if err != nil {
		return 0, 0, err
	}
	graduated, err := res.RowsAffected()
	if err != nil {
		return 0, 0, err
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE students SET semester = semester + 1
		WHERE role = $1 AND semester > 0 AND semester < $2
	`, auth.RoleStudent, terminalSemester)
	if err != nil {
		return 0, 0, err
	}
	promoted, err := res.RowsAffected()
	if err != nil {
		return 0, 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	return graduated, promoted, nil
}
