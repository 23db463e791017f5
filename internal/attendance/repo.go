package attendance

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// SheetEntry is a stored mark joined with its student row. Entries whose
// student reference no longer resolves are dropped by the join.
type SheetEntry struct {
	StudentID  string
	Name       string
	RollNumber string
	Present    bool
}

// RosterStudent is the minimal roster projection for sheet synthesis.
type RosterStudent struct {
	ID         string
	Name       string
	RollNumber string
}

// Mark is one (subject, date, present) triple for a student, newest first.
type Mark struct {
	Subject string
	Date    string
	Present bool
}

// Repository is the storage seam for the attendance ledger.
type Repository interface {
	Upsert(ctx context.Context, rec Record) error
	SheetEntries(ctx context.Context, batch, date, subject string) ([]SheetEntry, bool, error)
	Roster(ctx context.Context, batch string) ([]RosterStudent, error)
	StudentBatch(ctx context.Context, studentID string) (string, error)
	StudentMarks(ctx context.Context, batch, studentID string) ([]Mark, error)
}

// PostgresRepository persists attendance in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert replaces the record for (batch, date, subject) in one transaction:
// the header row is upserted on the natural key and the entry set is swapped
// wholesale, never merged.
func (r *PostgresRepository) Upsert(ctx context.Context, rec Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var recordID uuid.UUID
	row := tx.QueryRowContext(ctx, `
		INSERT INTO attendance (id, batch, date, subject, teacher_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (batch, date, subject) DO UPDATE SET
			teacher_id = EXCLUDED.teacher_id,
			updated_at = NOW()
		RETURNING id
	`, uuid.New(), rec.Batch, rec.Date, rec.Subject, rec.TeacherID)
	if err := row.Scan(&recordID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM attendance_entries WHERE attendance_id = $1
	`, recordID); err != nil {
		return err
	}

	for _, e := range rec.Entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO attendance_entries (attendance_id, student_id, is_present)
			VALUES ($1, $2, $3)
			ON CONFLICT (attendance_id, student_id) DO UPDATE SET is_present = EXCLUDED.is_present
		`, recordID, e.StudentID, e.IsPresent); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) SheetEntries(ctx context.Context, batch, date, subject string) ([]SheetEntry, bool, error) {
	var recordID uuid.UUID
	err := r.db.QueryRowContext(ctx, `
		SELECT id FROM attendance WHERE batch = $1 AND date = $2 AND subject = $3
	`, batch, date, subject).Scan(&recordID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id::text, s.name, COALESCE(NULLIF(s.class_roll_no, ''), s.university_roll_no), e.is_present
		FROM attendance_entries e
		JOIN students s ON s.id::text = e.student_id
		WHERE e.attendance_id = $1
		ORDER BY s.class_roll_no, s.university_roll_no
	`, recordID)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	var out []SheetEntry
	for rows.Next() {
		var e SheetEntry
		if err := rows.Scan(&e.StudentID, &e.Name, &e.RollNumber, &e.Present); err != nil {
			return nil, false, err
		}
		out = append(out, e)
	}
	return out, true, rows.Err()
}

func (r *PostgresRepository) Roster(ctx context.Context, batch string) ([]RosterStudent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id::text, name, COALESCE(NULLIF(class_roll_no, ''), university_roll_no)
		FROM students
		WHERE batch = $1
	`, batch)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RosterStudent
	for rows.Next() {
		var s RosterStudent
		if err := rows.Scan(&s.ID, &s.Name, &s.RollNumber); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) StudentBatch(ctx context.Context, studentID string) (string, error) {
	var batch string
	err := r.db.QueryRowContext(ctx, `
		SELECT batch FROM students WHERE id::text = $1
	`, studentID).Scan(&batch)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return batch, err
}

// StudentMarks lists every recorded session of the batch with this student's
// mark, newest record first. A missing entry reads as absent, so the session
// still counts toward the subject total.
func (r *PostgresRepository) StudentMarks(ctx context.Context, batch, studentID string) ([]Mark, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.subject, a.date, COALESCE(e.is_present, FALSE)
		FROM attendance a
		LEFT JOIN attendance_entries e
			ON e.attendance_id = a.id AND e.student_id = $2
		WHERE a.batch = $1
		ORDER BY to_date(a.date, 'DD-MM-YYYY') DESC, a.subject
	`, batch, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Mark
	for rows.Next() {
		var m Mark
		if err := rows.Scan(&m.Subject, &m.Date, &m.Present); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
