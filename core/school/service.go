package school

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"
)

var (
	// errors
	ErrTeacherNotFound = errors.New("teacher not found")
	ErrParentNotFound  = errors.New("parent not found")
	ErrStudentNotFound = errors.New("student not found")
	ErrClassNotFound   = errors.New("class not found")
	ErrSubjectNotFound = errors.New("subject not found")
	ErrLessonNotFound  = errors.New("lesson not found")
	ErrGradeNotFound   = errors.New("grade not found")
)

type (
	TeacherRepository interface {
		CreateTeacher(ctx context.Context, t Teacher) (Teacher, error)
		GetTeacherByID(ctx context.Context, id string) (Teacher, error)
		QueryTeachers(ctx context.Context) ([]Teacher, error) // ordered by name, surname
		UpdateTeacher(ctx context.Context, t Teacher) (Teacher, error)
		DeleteTeachersByID(ctx context.Context, ids ...string) error
	}

	ParentRepository interface {
		CreateParent(ctx context.Context, p Parent) (Parent, error)
		GetParentByID(ctx context.Context, id string) (Parent, error)
		QueryParents(ctx context.Context) ([]Parent, error)
		UpdateParent(ctx context.Context, p Parent) (Parent, error)
		DeleteParentsByID(ctx context.Context, ids ...string) error
	}

	StudentRepository interface {
		CreateStudent(ctx context.Context, s Student) (Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		QueryStudents(ctx context.Context) ([]Student, error) // ordered by name, surname
		QueryStudentsByClass(ctx context.Context, classID string) ([]Student, error)
		QueryStudentsByParent(ctx context.Context, parentID string) ([]Student, error)
		// QueryStudentsForTeacher returns the de-duplicated students of every
		// class the teacher supervises or teaches in, ordered by name, surname.
		QueryStudentsForTeacher(ctx context.Context, teacherID string) ([]Student, error)
		UpdateStudent(ctx context.Context, s Student) (Student, error)
		DeleteStudentsByID(ctx context.Context, ids ...string) error
	}

	GradeRepository interface {
		CreateGrade(ctx context.Context, g Grade) (Grade, error)
		QueryGrades(ctx context.Context) ([]Grade, error) // ordered by level
		GetGradeByID(ctx context.Context, id string) (Grade, error)
	}

	ClassRepository interface {
		CreateClass(ctx context.Context, c Class) (Class, error)
		GetClassByID(ctx context.Context, id string) (Class, error)
		QueryClasses(ctx context.Context) ([]Class, error)
		QueryClassesForTeacher(ctx context.Context, teacherID string) ([]Class, error)
		// TeacherHasClass reports whether the teacher supervises the class or
		// teaches at least one lesson in it.
		TeacherHasClass(ctx context.Context, teacherID, classID string) (bool, error)
		UpdateClass(ctx context.Context, c Class) (Class, error)
		DeleteClassesByID(ctx context.Context, ids ...string) error
	}

	SubjectRepository interface {
		CreateSubject(ctx context.Context, s Subject) (Subject, error)
		GetSubjectByID(ctx context.Context, id string) (Subject, error)
		QuerySubjects(ctx context.Context) ([]Subject, error)
		UpdateSubject(ctx context.Context, s Subject) (Subject, error)
		DeleteSubjectsByID(ctx context.Context, ids ...string) error
	}

	LessonRepository interface {
		CreateLesson(ctx context.Context, l Lesson) (Lesson, error)
		GetLessonByID(ctx context.Context, id string) (Lesson, error)
		QueryLessons(ctx context.Context) ([]LessonDetail, error) // ordered by start_time
		QueryLessonsByTeacher(ctx context.Context, teacherID string) ([]LessonDetail, error)
		QueryLessonsByClass(ctx context.Context, classID string) ([]LessonDetail, error)
		UpdateLesson(ctx context.Context, l Lesson) (Lesson, error)
		DeleteLessonsByID(ctx context.Context, ids ...string) error
	}

	Repository interface {
		TeacherRepository
		ParentRepository
		StudentRepository
		GradeRepository
		ClassRepository
		SubjectRepository
		LessonRepository
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Teachers

func (svc *Service) CreateTeacher(ctx context.Context, nt NewTeacher) (Teacher, error) {
	return svc.repo.CreateTeacher(ctx, Teacher{
		ID:        nt.UserID,
		Name:      nt.Name,
		Surname:   nt.Surname,
		Email:     null.NewString(nt.Email, nt.Email != ""),
		Phone:     null.NewString(nt.Phone, nt.Phone != ""),
		CreatedAt: time.Now().UTC(),
	})
}

func (svc *Service) GetTeacher(ctx context.Context, id string) (Teacher, error) {
	return svc.repo.GetTeacherByID(ctx, id)
}

func (svc *Service) QueryTeachers(ctx context.Context) ([]Teacher, error) {
	return svc.repo.QueryTeachers(ctx)
}

func (svc *Service) UpdateTeacher(ctx context.Context, orig Teacher, ut UpdateTeacher) (Teacher, error) {
	orig.Name = ut.Name
	orig.Surname = ut.Surname
	orig.Email = null.NewString(ut.Email, ut.Email != "")
	orig.Phone = null.NewString(ut.Phone, ut.Phone != "")
	return svc.repo.UpdateTeacher(ctx, orig)
}

func (svc *Service) DeleteTeachers(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteTeachersByID(ctx, ids...)
}

// Parents

func (svc *Service) CreateParent(ctx context.Context, np NewParent) (Parent, error) {
	return svc.repo.CreateParent(ctx, Parent{
		ID:        np.UserID,
		Name:      np.Name,
		Surname:   np.Surname,
		Email:     null.NewString(np.Email, np.Email != ""),
		Phone:     null.NewString(np.Phone, np.Phone != ""),
		CreatedAt: time.Now().UTC(),
	})
}

func (svc *Service) GetParent(ctx context.Context, id string) (Parent, error) {
	return svc.repo.GetParentByID(ctx, id)
}

func (svc *Service) QueryParents(ctx context.Context) ([]Parent, error) {
	return svc.repo.QueryParents(ctx)
}

func (svc *Service) UpdateParent(ctx context.Context, orig Parent, up UpdateParent) (Parent, error) {
	orig.Name = up.Name
	orig.Surname = up.Surname
	orig.Email = null.NewString(up.Email, up.Email != "")
	orig.Phone = null.NewString(up.Phone, up.Phone != "")
	return svc.repo.UpdateParent(ctx, orig)
}

func (svc *Service) DeleteParents(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteParentsByID(ctx, ids...)
}

// Students

func (svc *Service) CreateStudent(ctx context.Context, ns NewStudent) (Student, error) {
	if _, err := svc.repo.GetClassByID(ctx, ns.ClassID); err != nil {
		return Student{}, err
	}
	if _, err := svc.repo.GetParentByID(ctx, ns.ParentID); err != nil {
		return Student{}, err
	}
	return svc.repo.CreateStudent(ctx, Student{
		ID:       ns.UserID,
		Name:     ns.Name,
		Surname:  ns.Surname,
		ClassID:  ns.ClassID,
		ParentID: ns.ParentID,
	})
}

func (svc *Service) GetStudent(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) QueryStudents(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryStudents(ctx)
}

func (svc *Service) UpdateStudent(ctx context.Context, orig Student, us UpdateStudent) (Student, error) {
	if us.ClassID != orig.ClassID {
		if _, err := svc.repo.GetClassByID(ctx, us.ClassID); err != nil {
			return Student{}, err
		}
	}
	if us.ParentID != orig.ParentID {
		if _, err := svc.repo.GetParentByID(ctx, us.ParentID); err != nil {
			return Student{}, err
		}
	}
	orig.Name = us.Name
	orig.Surname = us.Surname
	orig.ClassID = us.ClassID
	orig.ParentID = us.ParentID
	return svc.repo.UpdateStudent(ctx, orig)
}

func (svc *Service) DeleteStudents(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteStudentsByID(ctx, ids...)
}

// Grades

func (svc *Service) CreateGrade(ctx context.Context, level int) (Grade, error) {
	return svc.repo.CreateGrade(ctx, Grade{Level: level})
}

func (svc *Service) QueryGrades(ctx context.Context) ([]Grade, error) {
	return svc.repo.QueryGrades(ctx)
}

// Classes

func (svc *Service) CreateClass(ctx context.Context, nc NewClass) (Class, error) {
	if _, err := svc.repo.GetGradeByID(ctx, nc.GradeID); err != nil {
		return Class{}, err
	}
	if _, err := svc.repo.GetTeacherByID(ctx, nc.SupervisorID); err != nil {
		return Class{}, err
	}
	return svc.repo.CreateClass(ctx, Class{
		Name:         nc.Name,
		GradeID:      nc.GradeID,
		SupervisorID: nc.SupervisorID,
	})
}

func (svc *Service) GetClass(ctx context.Context, id string) (Class, error) {
	return svc.repo.GetClassByID(ctx, id)
}

func (svc *Service) QueryClassesForTeacher(ctx context.Context, teacherID string) ([]Class, error) {
	return svc.repo.QueryClassesForTeacher(ctx, teacherID)
}

func (svc *Service) QueryClasses(ctx context.Context) ([]Class, error) {
	return svc.repo.QueryClasses(ctx)
}

func (svc *Service) UpdateClass(ctx context.Context, orig Class, uc UpdateClass) (Class, error) {
	if uc.GradeID != orig.GradeID {
		if _, err := svc.repo.GetGradeByID(ctx, uc.GradeID); err != nil {
			return Class{}, err
		}
	}
	if uc.SupervisorID != orig.SupervisorID {
		if _, err := svc.repo.GetTeacherByID(ctx, uc.SupervisorID); err != nil {
			return Class{}, err
		}
	}
	orig.Name = uc.Name
	orig.GradeID = uc.GradeID
	orig.SupervisorID = uc.SupervisorID
	return svc.repo.UpdateClass(ctx, orig)
}

func (svc *Service) DeleteClasses(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteClassesByID(ctx, ids...)
}

// Subjects

func (svc *Service) CreateSubject(ctx context.Context, ns NewSubject) (Subject, error) {
	return svc.repo.CreateSubject(ctx, Subject{Name: ns.Name})
}

func (svc *Service) GetSubject(ctx context.Context, id string) (Subject, error) {
	return svc.repo.GetSubjectByID(ctx, id)
}

func (svc *Service) QuerySubjects(ctx context.Context) ([]Subject, error) {
	return svc.repo.QuerySubjects(ctx)
}

func (svc *Service) UpdateSubject(ctx context.Context, orig Subject, us UpdateSubject) (Subject, error) {
	orig.Name = us.Name
	return svc.repo.UpdateSubject(ctx, orig)
}

func (svc *Service) DeleteSubjects(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteSubjectsByID(ctx, ids...)
}

// Lessons

func (svc *Service) CreateLesson(ctx context.Context, nl NewLesson) (Lesson, error) {
	if _, err := svc.repo.GetClassByID(ctx, nl.ClassID); err != nil {
		return Lesson{}, err
	}
	if _, err := svc.repo.GetTeacherByID(ctx, nl.TeacherID); err != nil {
		return Lesson{}, err
	}
	if _, err := svc.repo.GetSubjectByID(ctx, nl.SubjectID); err != nil {
		return Lesson{}, err
	}
	return svc.repo.CreateLesson(ctx, Lesson{
		Name:      nl.Name,
		StartTime: nl.StartTime,
		EndTime:   nl.EndTime,
		ClassID:   nl.ClassID,
		TeacherID: nl.TeacherID,
		SubjectID: nl.SubjectID,
	})
}

func (svc *Service) GetLesson(ctx context.Context, id string) (Lesson, error) {
	return svc.repo.GetLessonByID(ctx, id)
}

func (svc *Service) QueryLessons(ctx context.Context) ([]LessonDetail, error) {
	return svc.repo.QueryLessons(ctx)
}

func (svc *Service) UpdateLesson(ctx context.Context, orig Lesson, ul UpdateLesson) (Lesson, error) {
	orig.Name = ul.Name
	orig.StartTime = ul.StartTime
	orig.EndTime = ul.EndTime
	orig.SubjectID = ul.SubjectID
	return svc.repo.UpdateLesson(ctx, orig)
}

func (svc *Service) DeleteLessons(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteLessonsByID(ctx, ids...)
}
