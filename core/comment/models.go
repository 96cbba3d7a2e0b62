package comment

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core"
)

// Comment types
const (
	TypePositive   = "POSITIVE"
	TypeNegative   = "NEGATIVE"
	TypeNeutral    = "NEUTRAL"
	TypeSuggestion = "SUGGESTION"
)

var AllTypes = []string{TypePositive, TypeNegative, TypeNeutral, TypeSuggestion}

type Comment struct {
	ID        string      `db:"id" json:"id"`
	Content   string      `db:"content" json:"content"`
	Type      string      `db:"type" json:"type"`
	TeacherID string      `db:"teacher_id" json:"teacher_id"`
	StudentID string      `db:"student_id" json:"student_id"`
	LessonID  null.String `db:"lesson_id" json:"lesson_id,omitempty"`
	Date      time.Time   `db:"date" json:"date"`
}

// Detail is a Comment joined with its student, class, teacher and lesson
// names for list screens.
type Detail struct {
	Comment
	StudentName    string      `db:"student_name" json:"student_name"`
	StudentSurname string      `db:"student_surname" json:"student_surname"`
	ClassName      string      `db:"class_name" json:"class_name"`
	TeacherName    string      `db:"teacher_name" json:"teacher_name"`
	TeacherSurname string      `db:"teacher_surname" json:"teacher_surname"`
	LessonName     null.String `db:"lesson_name" json:"lesson_name,omitempty"`
	SubjectName    null.String `db:"subject_name" json:"subject_name,omitempty"`
}

// WithTeacher is a Comment joined with the authoring teacher's name, used by
// the report aggregation.
type WithTeacher struct {
	Comment
	TeacherName    string `db:"teacher_name" json:"teacher_name"`
	TeacherSurname string `db:"teacher_surname" json:"teacher_surname"`
}

type NewComment struct {
	Content   string `json:"content" validate:"required"`
	Type      string `json:"type" validate:"required,commenttype"`
	StudentID string `json:"student_id" validate:"required"`
	LessonID  string `json:"lesson_id"`
	// TeacherID names the author when an admin creates a comment on a
	// teacher's behalf; it is ignored for teacher callers.
	TeacherID string `json:"teacher_id"`
}

func (nc *NewComment) Validate(validate *validator.Validate) error {
	nc.Content = core.CleanString(nc.Content)
	nc.Type = toType(nc.Type)
	return validate.Struct(nc)
}

type UpdateComment struct {
	ID       string `json:"id" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Type     string `json:"type" validate:"required,commenttype"`
	LessonID string `json:"lesson_id"`
}

func (uc *UpdateComment) Validate(validate *validator.Validate) error {
	uc.Content = core.CleanString(uc.Content)
	uc.Type = toType(uc.Type)
	return validate.Struct(uc)
}

func toType(s string) string {
	s = core.CleanString(s, true /* lower */)
	for _, t := range AllTypes {
		if s == core.CleanString(t, true) {
			return t
		}
	}
	return s
}
