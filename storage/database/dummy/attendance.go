package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/darasahq/darasa/core/attendance"
)

type attendanceRepository struct {
	db      *attendanceTable
	student *studentTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance, student: db.student}
}

// ReplaceForDay deletes and re-inserts under a single write lock, mirroring
// the transactional behavior of the SQL backend.
func (repo *attendanceRepository) ReplaceForDay(
	ctx context.Context, lessonID string, from, to time.Time, records []attendance.Record,
) ([]attendance.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for id, rec := range repo.db.table {
		if rec.LessonID == lessonID && !rec.Date.Before(from) && rec.Date.Before(to) {
			delete(repo.db.table, id)
		}
	}

	inserted := make([]attendance.Record, 0, len(records))
	for _, rec := range records {
		rec := rec
		rec.ID = newPK(rec.ID)
		repo.db.table[rec.ID] = &rec
		inserted = append(inserted, rec)
	}
	return inserted, nil
}

func (repo *attendanceRepository) QueryByLesson(ctx context.Context, lessonID string) ([]attendance.StudentRecord, error) {
	repo.db.RLock()
	records := make([]attendance.Record, 0)
	for _, rec := range repo.db.table {
		if rec.LessonID == lessonID {
			records = append(records, *rec)
		}
	}
	repo.db.RUnlock()

	res := make([]attendance.StudentRecord, 0, len(records))
	repo.student.RLock()
	defer repo.student.RUnlock()
	for _, rec := range records {
		sr := attendance.StudentRecord{Record: rec}
		if stu, ok := repo.student.table[rec.StudentID]; ok {
			sr.StudentName = stu.Name
			sr.StudentSurname = stu.Surname
		}
		res = append(res, sr)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Date.After(res[j].Date) })
	return res, nil
}

func (repo *attendanceRepository) QueryByStudent(ctx context.Context, studentID string) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	records := make([]attendance.Record, 0)
	for _, rec := range repo.db.table {
		if rec.StudentID == studentID {
			records = append(records, *rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date.After(records[j].Date) })
	return records, nil
}
