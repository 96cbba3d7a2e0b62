package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/attendance"
)

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

// ReplaceForDay runs the delete and the inserts in one transaction so a
// failed submission never leaves the day partially recorded. The unique
// index on (lesson_id, student_id, date) rejects duplicate rows should two
// submissions ever interleave.
func (repo *attendanceRepository) ReplaceForDay(
	ctx context.Context, lessonID string, from, to time.Time, records []attendance.Record,
) ([]attendance.Record, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "beginning attendance transaction")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM attendance WHERE lesson_id = $1 AND date >= $2 AND date < $3`,
		lessonID, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "deleting day attendance")
	}

	inserted := make([]attendance.Record, 0, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			rec.ID = newPK()
		}
		_, err = tx.NamedExecContext(ctx,
			`INSERT INTO attendance (id, lesson_id, student_id, date, present)
			 VALUES (:id, :lesson_id, :student_id, :date, :present)`, rec)
		if err != nil {
			return nil, errors.Wrap(err, "inserting attendance record")
		}
		inserted = append(inserted, rec)
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "committing attendance transaction")
	}
	return inserted, nil
}

func (repo *attendanceRepository) QueryByLesson(ctx context.Context, lessonID string) ([]attendance.StudentRecord, error) {
	records := make([]attendance.StudentRecord, 0)
	err := repo.db.SelectContext(ctx, &records,
		`SELECT a.*, s.name AS student_name, s.surname AS student_surname
		 FROM attendance a
		 JOIN student s ON s.id = a.student_id
		 WHERE a.lesson_id = $1
		 ORDER BY a.date DESC, s.name, s.surname`, lessonID)
	return records, errors.Wrap(err, "querying lesson attendance")
}

func (repo *attendanceRepository) QueryByStudent(ctx context.Context, studentID string) ([]attendance.Record, error) {
	records := make([]attendance.Record, 0)
	err := repo.db.SelectContext(ctx, &records,
		`SELECT * FROM attendance WHERE student_id = $1 ORDER BY date DESC`, studentID)
	return records, errors.Wrap(err, "querying student attendance")
}
