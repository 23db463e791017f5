package timetable

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// Repository is the storage seam for the session catalog.
type Repository interface {
	InsertSession(ctx context.Context, s Session) (Session, error)
	UpdateSession(ctx context.Context, s Session) error
	DeleteSession(ctx context.Context, id uuid.UUID) error
	SessionsBySemester(ctx context.Context, semester, day string) ([]Session, error)
	SessionsForSemester(ctx context.Context, semester string) ([]Session, error)
	SessionsByProfessor(ctx context.Context, professorID, day string) ([]Session, error)
	SessionsByDay(ctx context.Context, day string) ([]Session, error)
	HolidayOn(ctx context.Context, date string) (*Holiday, error)
	InsertHoliday(ctx context.Context, h Holiday) error
	DeleteHoliday(ctx context.Context, date string) (bool, error)
	HolidaysIn(ctx context.Context, dates []string) ([]Holiday, error)
}

// PostgresRepository persists the session catalog in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const sessionColumns = `id, semester, day, start_time, end_time, subject, professor_id, professor_name, room, batch, created_at`

func (r *PostgresRepository) InsertSession(ctx context.Context, s Session) (Session, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO sessions (id, semester, day, start_time, end_time, subject, professor_id, professor_name, room, batch)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at
	`, s.ID, s.Semester, s.Day, s.StartTime, s.EndTime, s.Subject, s.ProfessorID, s.ProfessorName, s.Room, s.Batch)
	if err := row.Scan(&s.CreatedAt); err != nil {
		return Session{}, err
	}
	return s, nil
}

func (r *PostgresRepository) UpdateSession(ctx context.Context, s Session) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sessions
		SET semester = $2, day = $3, start_time = $4, end_time = $5,
			subject = $6, professor_id = $7, professor_name = $8, room = $9, batch = $10
		WHERE id = $1
	`, s.ID, s.Semester, s.Day, s.StartTime, s.EndTime, s.Subject, s.ProfessorID, s.ProfessorName, s.Room, s.Batch)
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

func (r *PostgresRepository) DeleteSession(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
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

func (r *PostgresRepository) SessionsBySemester(ctx context.Context, semester, day string) ([]Session, error) {
	return r.querySessions(ctx, `
		SELECT `+sessionColumns+` FROM sessions
		WHERE semester = $1 AND day = $2
		ORDER BY created_at
	`, semester, day)
}

func (r *PostgresRepository) SessionsForSemester(ctx context.Context, semester string) ([]Session, error) {
	return r.querySessions(ctx, `
		SELECT `+sessionColumns+` FROM sessions
		WHERE semester = $1
		ORDER BY created_at
	`, semester)
}

func (r *PostgresRepository) SessionsByProfessor(ctx context.Context, professorID, day string) ([]Session, error) {
	return r.querySessions(ctx, `
		SELECT `+sessionColumns+` FROM sessions
		WHERE professor_id = $1 AND day = $2
		ORDER BY created_at
	`, professorID, day)
}

func (r *PostgresRepository) SessionsByDay(ctx context.Context, day string) ([]Session, error) {
	return r.querySessions(ctx, `
		SELECT `+sessionColumns+` FROM sessions
		WHERE day = $1
		ORDER BY created_at
	`, day)
}

func (r *PostgresRepository) querySessions(ctx context.Context, query string, args ...any) ([]Session, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.Semester, &s.Day, &s.StartTime, &s.EndTime,
			&s.Subject, &s.ProfessorID, &s.ProfessorName, &s.Room, &s.Batch, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) HolidayOn(ctx context.Context, date string) (*Holiday, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT date, reason, marked_by FROM holidays WHERE date = $1
	`, date)
	var h Holiday
	if err := row.Scan(&h.Date, &h.Reason, &h.MarkedBy); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &h, nil
}

func (r *PostgresRepository) InsertHoliday(ctx context.Context, h Holiday) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO holidays (date, reason, marked_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (date) DO NOTHING
	`, h.Date, h.Reason, h.MarkedBy)
	return err
}

func (r *PostgresRepository) DeleteHoliday(ctx context.Context, date string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM holidays WHERE date = $1`, date)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresRepository) HolidaysIn(ctx context.Context, dates []string) ([]Holiday, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, reason, marked_by FROM holidays WHERE date = ANY($1)
	`, dates)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Holiday
	for rows.Next() {
		var h Holiday
		if err := rows.Scan(&h.Date, &h.Reason, &h.MarkedBy); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
