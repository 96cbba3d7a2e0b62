package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Record is one student's presence for one lesson on one calendar day.
// Date is truncated to 00:00; the storage layer guarantees at most one
// record per (lesson, student, day).
type Record struct {
	ID        string    `db:"id" json:"id"`
	LessonID  string    `db:"lesson_id" json:"lesson_id"`
	StudentID string    `db:"student_id" json:"student_id"`
	Date      time.Time `db:"date" json:"date"`
	Present   bool      `db:"present" json:"present"`
}

// StudentRecord is a Record joined with the student's name for history views.
type StudentRecord struct {
	Record
	StudentName    string `db:"student_name" json:"student_name"`
	StudentSurname string `db:"student_surname" json:"student_surname"`
}

type Entry struct {
	StudentID string `json:"student_id" validate:"required"`
	Present   bool   `json:"present"`
}

// SubmitAttendance is a full-roster submission for one lesson on the current
// day. Entries not listed are absent from the final state entirely: the
// previous day's set is replaced, not merged.
type SubmitAttendance struct {
	LessonID string  `json:"lesson_id" validate:"required"`
	Entries  []Entry `json:"entries" validate:"required,min=1,dive"`
}

func (sa *SubmitAttendance) Validate(validate *validator.Validate) error {
	return validate.Struct(sa)
}
