package school

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core"
)

// Profile rows share their primary key with the owning user account: a
// teacher/student/parent row's ID is the account ID the identity provider
// issued. Access checks compare these IDs directly.

type Teacher struct {
	ID        string      `db:"id" json:"id"`
	Name      string      `db:"name" json:"name"`
	Surname   string      `db:"surname" json:"surname"`
	Email     null.String `db:"email" json:"email,omitempty"`
	Phone     null.String `db:"phone" json:"phone,omitempty"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}

func (t Teacher) FullName() string { return t.Name + " " + t.Surname }

type Parent struct {
	ID        string      `db:"id" json:"id"`
	Name      string      `db:"name" json:"name"`
	Surname   string      `db:"surname" json:"surname"`
	Email     null.String `db:"email" json:"email,omitempty"`
	Phone     null.String `db:"phone" json:"phone,omitempty"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}

func (p Parent) FullName() string { return p.Name + " " + p.Surname }

type Grade struct {
	ID    string `db:"id" json:"id"`
	Level int    `db:"level" json:"level"`
}

type Class struct {
	ID           string `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	GradeID      string `db:"grade_id" json:"grade_id"`
	SupervisorID string `db:"supervisor_id" json:"supervisor_id"`
}

type Subject struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type Student struct {
	ID       string `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Surname  string `db:"surname" json:"surname"`
	ClassID  string `db:"class_id" json:"class_id"`
	ParentID string `db:"parent_id" json:"parent_id"`
}

func (s Student) FullName() string { return s.Name + " " + s.Surname }

type Lesson struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	ClassID   string    `db:"class_id" json:"class_id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
}

// LessonDetail is a Lesson joined with its class and subject names for
// listing screens.
type LessonDetail struct {
	Lesson
	ClassName   string `db:"class_name" json:"class_name"`
	SubjectName string `db:"subject_name" json:"subject_name"`
}

// Input DTOs

type NewTeacher struct {
	UserID  string `json:"user_id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Surname string `json:"surname" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
}

func (nt *NewTeacher) Validate(validate *validator.Validate) error {
	nt.Name = core.CleanString(nt.Name)
	nt.Surname = core.CleanString(nt.Surname)
	nt.Email = core.CleanString(nt.Email, true /* lower */)
	return validate.Struct(nt)
}

type NewParent struct {
	UserID  string `json:"user_id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Surname string `json:"surname" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
}

func (np *NewParent) Validate(validate *validator.Validate) error {
	np.Name = core.CleanString(np.Name)
	np.Surname = core.CleanString(np.Surname)
	np.Email = core.CleanString(np.Email, true /* lower */)
	return validate.Struct(np)
}

type NewStudent struct {
	UserID   string `json:"user_id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Surname  string `json:"surname" validate:"required"`
	ClassID  string `json:"class_id" validate:"required"`
	ParentID string `json:"parent_id" validate:"required"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Surname = core.CleanString(ns.Surname)
	return validate.Struct(ns)
}

type NewClass struct {
	Name         string `json:"name" validate:"required"`
	GradeID      string `json:"grade_id" validate:"required"`
	SupervisorID string `json:"supervisor_id" validate:"required"`
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	return validate.Struct(nc)
}

type NewSubject struct {
	Name string `json:"name" validate:"required"`
}

func (ns *NewSubject) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	return validate.Struct(ns)
}

type NewLesson struct {
	Name      string    `json:"name" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	ClassID   string    `json:"class_id" validate:"required"`
	TeacherID string    `json:"teacher_id" validate:"required"`
	SubjectID string    `json:"subject_id" validate:"required"`
}

func (nl *NewLesson) Validate(validate *validator.Validate) error {
	nl.Name = core.CleanString(nl.Name)
	return validate.Struct(nl)
}

// Update DTOs follow one rule: zero fields keep their current values, so a
// partial payload never blanks a column.

type UpdateTeacher struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
}

func (ut *UpdateTeacher) Validate(validate *validator.Validate, orig Teacher) error {
	if name := core.CleanString(ut.Name); name != "" {
		ut.Name = name
	} else {
		ut.Name = orig.Name
	}
	if surname := core.CleanString(ut.Surname); surname != "" {
		ut.Surname = surname
	} else {
		ut.Surname = orig.Surname
	}
	if email := core.CleanString(ut.Email, true /* lower */); email != "" {
		ut.Email = email
	} else {
		ut.Email = orig.Email.String
	}
	if ut.Phone == "" {
		ut.Phone = orig.Phone.String
	}
	return validate.Struct(ut)
}

type UpdateParent struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
}

func (up *UpdateParent) Validate(validate *validator.Validate, orig Parent) error {
	if name := core.CleanString(up.Name); name != "" {
		up.Name = name
	} else {
		up.Name = orig.Name
	}
	if surname := core.CleanString(up.Surname); surname != "" {
		up.Surname = surname
	} else {
		up.Surname = orig.Surname
	}
	if email := core.CleanString(up.Email, true /* lower */); email != "" {
		up.Email = email
	} else {
		up.Email = orig.Email.String
	}
	if up.Phone == "" {
		up.Phone = orig.Phone.String
	}
	return validate.Struct(up)
}

type UpdateStudent struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	ClassID  string `json:"class_id"`
	ParentID string `json:"parent_id"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate, orig Student) error {
	if name := core.CleanString(us.Name); name != "" {
		us.Name = name
	} else {
		us.Name = orig.Name
	}
	if surname := core.CleanString(us.Surname); surname != "" {
		us.Surname = surname
	} else {
		us.Surname = orig.Surname
	}
	if us.ClassID == "" {
		us.ClassID = orig.ClassID
	}
	if us.ParentID == "" {
		us.ParentID = orig.ParentID
	}
	return validate.Struct(us)
}

type UpdateClass struct {
	Name         string `json:"name"`
	GradeID      string `json:"grade_id"`
	SupervisorID string `json:"supervisor_id"`
}

func (uc *UpdateClass) Validate(validate *validator.Validate, orig Class) error {
	if name := core.CleanString(uc.Name); name != "" {
		uc.Name = name
	} else {
		uc.Name = orig.Name
	}
	if uc.GradeID == "" {
		uc.GradeID = orig.GradeID
	}
	if uc.SupervisorID == "" {
		uc.SupervisorID = orig.SupervisorID
	}
	return validate.Struct(uc)
}

type UpdateSubject struct {
	Name string `json:"name" validate:"required"`
}

func (us *UpdateSubject) Validate(validate *validator.Validate) error {
	us.Name = core.CleanString(us.Name)
	return validate.Struct(us)
}

// UpdateLesson defines what may be changed on an existing Lesson. Zero
// fields keep their current values.
type UpdateLesson struct {
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	SubjectID string    `json:"subject_id"`
}

func (ul *UpdateLesson) Validate(validate *validator.Validate, orig Lesson) error {
	if name := core.CleanString(ul.Name); name != "" {
		ul.Name = name
	} else {
		ul.Name = orig.Name
	}
	if ul.StartTime.IsZero() {
		ul.StartTime = orig.StartTime
	}
	if ul.EndTime.IsZero() {
		ul.EndTime = orig.EndTime
	}
	if ul.SubjectID == "" {
		ul.SubjectID = orig.SubjectID
	}
	if !ul.EndTime.After(ul.StartTime) {
		return core.NewValidationError(nil, core.FieldError{Field: "end_time", Error: "must be after start_time"})
	}
	return validate.Struct(ul)
}
