package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/school"
)

type schoolRepository struct {
	db *sqlx.DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *sqlx.DB) school.Repository {
	return &schoolRepository{db: db}
}

// --- teachers ---

func (repo *schoolRepository) CreateTeacher(ctx context.Context, t school.Teacher) (school.Teacher, error) {
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO teacher (id, name, surname, email, phone, created_at)
		 VALUES (:id, :name, :surname, :email, :phone, :created_at)`, t)
	if err != nil {
		return school.Teacher{}, errors.Wrap(err, "creating teacher")
	}
	return t, nil
}

func (repo *schoolRepository) GetTeacherByID(ctx context.Context, id string) (school.Teacher, error) {
	var t school.Teacher
	err := repo.db.GetContext(ctx, &t, `SELECT * FROM teacher WHERE id = $1`, id)
	return t, trapNoRowsErr(err, school.ErrTeacherNotFound)
}

func (repo *schoolRepository) QueryTeachers(ctx context.Context) ([]school.Teacher, error) {
	teachers := make([]school.Teacher, 0)
	err := repo.db.SelectContext(ctx, &teachers, `SELECT * FROM teacher ORDER BY name, surname`)
	return teachers, errors.Wrap(err, "querying teachers")
}

func (repo *schoolRepository) UpdateTeacher(ctx context.Context, t school.Teacher) (school.Teacher, error) {
	res, err := repo.db.NamedExecContext(ctx,
		`UPDATE teacher SET name = :name, surname = :surname, email = :email, phone = :phone
		 WHERE id = :id`, t)
	if err != nil {
		return school.Teacher{}, errors.Wrap(err, "updating teacher")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return school.Teacher{}, school.ErrTeacherNotFound
	}
	return t, nil
}

func (repo *schoolRepository) DeleteTeachersByID(ctx context.Context, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM teacher WHERE id = ANY($1)`, idArray(ids))
	return errors.Wrap(err, "deleting teachers")
}

// --- parents ---

func (repo *schoolRepository) CreateParent(ctx context.Context, p school.Parent) (school.Parent, error) {
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO parent (id, name, surname, email, phone, created_at)
		 VALUES (:id, :name, :surname, :email, :phone, :created_at)`, p)
	if err != nil {
		return school.Parent{}, errors.Wrap(err, "creating parent")
	}
	return p, nil
}

func (repo *schoolRepository) GetParentByID(ctx context.Context, id string) (school.Parent, error) {
	var p school.Parent
	err := repo.db.GetContext(ctx, &p, `SELECT * FROM parent WHERE id = $1`, id)
	return p, trapNoRowsErr(err, school.ErrParentNotFound)
}

func (repo *schoolRepository) QueryParents(ctx context.Context) ([]school.Parent, error) {
	parents := make([]school.Parent, 0)
	err := repo.db.SelectContext(ctx, &parents, `SELECT * FROM parent ORDER BY name, surname`)
	return parents, errors.Wrap(err, "querying parents")
}

func (repo *schoolRepository) UpdateParent(ctx context.Context, p school.Parent) (school.Parent, error) {
	res, err := repo.db.NamedExecContext(ctx,
		`UPDATE parent SET name = :name, surname = :surname, email = :email, phone = :phone
		 WHERE id = :id`, p)
	if err != nil {
		return school.Parent{}, errors.Wrap(err, "updating parent")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return school.Parent{}, school.ErrParentNotFound
	}
	return p, nil
}

func (repo *schoolRepository) DeleteParentsByID(ctx context.Context, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM parent WHERE id = ANY($1)`, idArray(ids))
	return errors.Wrap(err, "deleting parents")
}

// --- students ---

func (repo *schoolRepository) CreateStudent(ctx context.Context, s school.Student) (school.Student, error) {
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO student (id, name, surname, class_id, parent_id)
		 VALUES (:id, :name, :surname, :class_id, :parent_id)`, s)
	if err != nil {
		return school.Student{}, errors.Wrap(err, "creating student")
	}
	return s, nil
}

func (repo *schoolRepository) GetStudentByID(ctx context.Context, id string) (school.Student, error) {
	var s school.Student
	err := repo.db.GetContext(ctx, &s, `SELECT * FROM student WHERE id = $1`, id)
	return s, trapNoRowsErr(err, school.ErrStudentNotFound)
}

func (repo *schoolRepository) QueryStudents(ctx context.Context) ([]school.Student, error) {
	students := make([]school.Student, 0)
	err := repo.db.SelectContext(ctx, &students, `SELECT * FROM student ORDER BY name, surname`)
	return students, errors.Wrap(err, "querying students")
}

func (repo *schoolRepository) QueryStudentsByClass(ctx context.Context, classID string) ([]school.Student, error) {
	students := make([]school.Student, 0)
	err := repo.db.SelectContext(ctx, &students,
		`SELECT * FROM student WHERE class_id = $1 ORDER BY name, surname`, classID)
	return students, errors.Wrap(err, "querying students by class")
}

func (repo *schoolRepository) QueryStudentsByParent(ctx context.Context, parentID string) ([]school.Student, error) {
	students := make([]school.Student, 0)
	err := repo.db.SelectContext(ctx, &students,
		`SELECT * FROM student WHERE parent_id = $1 ORDER BY name, surname`, parentID)
	return students, errors.Wrap(err, "querying students by parent")
}

func (repo *schoolRepository) QueryStudentsForTeacher(ctx context.Context, teacherID string) ([]school.Student, error) {
	students := make([]school.Student, 0)
	err := repo.db.SelectContext(ctx, &students,
		`SELECT DISTINCT s.* FROM student s
		 JOIN class c ON c.id = s.class_id
		 LEFT JOIN lesson l ON l.class_id = c.id
		 WHERE c.supervisor_id = $1 OR l.teacher_id = $1
		 ORDER BY s.name, s.surname`, teacherID)
	return students, errors.Wrap(err, "querying students for teacher")
}

func (repo *schoolRepository) UpdateStudent(ctx context.Context, s school.Student) (school.Student, error) {
	res, err := repo.db.NamedExecContext(ctx,
		`UPDATE student SET name = :name, surname = :surname, class_id = :class_id, parent_id = :parent_id
		 WHERE id = :id`, s)
	if err != nil {
		return school.Student{}, errors.Wrap(err, "updating student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return school.Student{}, school.ErrStudentNotFound
	}
	return s, nil
}

func (repo *schoolRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM student WHERE id = ANY($1)`, idArray(ids))
	return errors.Wrap(err, "deleting students")
}

// --- grades ---

func (repo *schoolRepository) CreateGrade(ctx context.Context, g school.Grade) (school.Grade, error) {
	if g.ID == "" {
		g.ID = newPK()
	}
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO grade (id, level) VALUES (:id, :level)`, g)
	if err != nil {
		return school.Grade{}, errors.Wrap(err, "creating grade")
	}
	return g, nil
}

func (repo *schoolRepository) QueryGrades(ctx context.Context) ([]school.Grade, error) {
	grades := make([]school.Grade, 0)
	err := repo.db.SelectContext(ctx, &grades, `SELECT * FROM grade ORDER BY level`)
	return grades, errors.Wrap(err, "querying grades")
}

func (repo *schoolRepository) GetGradeByID(ctx context.Context, id string) (school.Grade, error) {
	var g school.Grade
	err := repo.db.GetContext(ctx, &g, `SELECT * FROM grade WHERE id = $1`, id)
	return g, trapNoRowsErr(err, school.ErrGradeNotFound)
}

// --- classes ---

func (repo *schoolRepository) CreateClass(ctx context.Context, c school.Class) (school.Class, error) {
	if c.ID == "" {
		c.ID = newPK()
	}
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO class (id, name, grade_id, supervisor_id)
		 VALUES (:id, :name, :grade_id, :supervisor_id)`, c)
	if err != nil {
		return school.Class{}, errors.Wrap(err, "creating class")
	}
	return c, nil
}

func (repo *schoolRepository) GetClassByID(ctx context.Context, id string) (school.Class, error) {
	var c school.Class
	err := repo.db.GetContext(ctx, &c, `SELECT * FROM class WHERE id = $1`, id)
	return c, trapNoRowsErr(err, school.ErrClassNotFound)
}

func (repo *schoolRepository) QueryClasses(ctx context.Context) ([]school.Class, error) {
	classes := make([]school.Class, 0)
	err := repo.db.SelectContext(ctx, &classes, `SELECT * FROM class ORDER BY name`)
	return classes, errors.Wrap(err, "querying classes")
}

func (repo *schoolRepository) QueryClassesForTeacher(ctx context.Context, teacherID string) ([]school.Class, error) {
	classes := make([]school.Class, 0)
	err := repo.db.SelectContext(ctx, &classes,
		`SELECT DISTINCT c.* FROM class c
		 LEFT JOIN lesson l ON l.class_id = c.id
		 WHERE c.supervisor_id = $1 OR l.teacher_id = $1
		 ORDER BY c.name`, teacherID)
	return classes, errors.Wrap(err, "querying classes for teacher")
}

func (repo *schoolRepository) TeacherHasClass(ctx context.Context, teacherID, classID string) (bool, error) {
	var has bool
	err := repo.db.GetContext(ctx, &has,
		`SELECT EXISTS (
		   SELECT 1 FROM class c
		   LEFT JOIN lesson l ON l.class_id = c.id
		   WHERE c.id = $2 AND (c.supervisor_id = $1 OR l.teacher_id = $1)
		 )`, teacherID, classID)
	return has, errors.Wrap(err, "checking teacher class")
}

func (repo *schoolRepository) UpdateClass(ctx context.Context, c school.Class) (school.Class, error) {
	res, err := repo.db.NamedExecContext(ctx,
		`UPDATE class SET name = :name, grade_id = :grade_id, supervisor_id = :supervisor_id
		 WHERE id = :id`, c)
	if err != nil {
		return school.Class{}, errors.Wrap(err, "updating class")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return school.Class{}, school.ErrClassNotFound
	}
	return c, nil
}

func (repo *schoolRepository) DeleteClassesByID(ctx context.Context, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM class WHERE id = ANY($1)`, idArray(ids))
	return errors.Wrap(err, "deleting classes")
}

// --- subjects ---

func (repo *schoolRepository) CreateSubject(ctx context.Context, s school.Subject) (school.Subject, error) {
	if s.ID == "" {
		s.ID = newPK()
	}
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO subject (id, name) VALUES (:id, :name)`, s)
	if err != nil {
		return school.Subject{}, errors.Wrap(err, "creating subject")
	}
	return s, nil
}

func (repo *schoolRepository) GetSubjectByID(ctx context.Context, id string) (school.Subject, error) {
	var s school.Subject
	err := repo.db.GetContext(ctx, &s, `SELECT * FROM subject WHERE id = $1`, id)
	return s, trapNoRowsErr(err, school.ErrSubjectNotFound)
}

func (repo *schoolRepository) QuerySubjects(ctx context.Context) ([]school.Subject, error) {
	subjects := make([]school.Subject, 0)
	err := repo.db.SelectContext(ctx, &subjects, `SELECT * FROM subject ORDER BY name`)
	return subjects, errors.Wrap(err, "querying subjects")
}

func (repo *schoolRepository) UpdateSubject(ctx context.Context, s school.Subject) (school.Subject, error) {
	res, err := repo.db.NamedExecContext(ctx,
		`UPDATE subject SET name = :name WHERE id = :id`, s)
	if err != nil {
		return school.Subject{}, errors.Wrap(err, "updating subject")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return school.Subject{}, school.ErrSubjectNotFound
	}
	return s, nil
}

func (repo *schoolRepository) DeleteSubjectsByID(ctx context.Context, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM subject WHERE id = ANY($1)`, idArray(ids))
	return errors.Wrap(err, "deleting subjects")
}

// --- lessons ---

const lessonDetailQuery = `
	SELECT l.*, c.name AS class_name, s.name AS subject_name
	FROM lesson l
	JOIN class c ON c.id = l.class_id
	JOIN subject s ON s.id = l.subject_id`

func (repo *schoolRepository) CreateLesson(ctx context.Context, l school.Lesson) (school.Lesson, error) {
	if l.ID == "" {
		l.ID = newPK()
	}
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO lesson (id, name, start_time, end_time, class_id, teacher_id, subject_id)
		 VALUES (:id, :name, :start_time, :end_time, :class_id, :teacher_id, :subject_id)`, l)
	if err != nil {
		return school.Lesson{}, errors.Wrap(err, "creating lesson")
	}
	return l, nil
}

func (repo *schoolRepository) GetLessonByID(ctx context.Context, id string) (school.Lesson, error) {
	var l school.Lesson
	err := repo.db.GetContext(ctx, &l, `SELECT * FROM lesson WHERE id = $1`, id)
	return l, trapNoRowsErr(err, school.ErrLessonNotFound)
}

func (repo *schoolRepository) QueryLessons(ctx context.Context) ([]school.LessonDetail, error) {
	lessons := make([]school.LessonDetail, 0)
	err := repo.db.SelectContext(ctx, &lessons, lessonDetailQuery+` ORDER BY l.start_time`)
	return lessons, errors.Wrap(err, "querying lessons")
}

func (repo *schoolRepository) QueryLessonsByTeacher(ctx context.Context, teacherID string) ([]school.LessonDetail, error) {
	lessons := make([]school.LessonDetail, 0)
	err := repo.db.SelectContext(ctx, &lessons,
		lessonDetailQuery+` WHERE l.teacher_id = $1 ORDER BY l.start_time`, teacherID)
	return lessons, errors.Wrap(err, "querying lessons by teacher")
}

func (repo *schoolRepository) QueryLessonsByClass(ctx context.Context, classID string) ([]school.LessonDetail, error) {
	lessons := make([]school.LessonDetail, 0)
	err := repo.db.SelectContext(ctx, &lessons,
		lessonDetailQuery+` WHERE l.class_id = $1 ORDER BY l.start_time`, classID)
	return lessons, errors.Wrap(err, "querying lessons by class")
}

func (repo *schoolRepository) UpdateLesson(ctx context.Context, l school.Lesson) (school.Lesson, error) {
	res, err := repo.db.NamedExecContext(ctx,
		`UPDATE lesson
		 SET name = :name, start_time = :start_time, end_time = :end_time,
		     class_id = :class_id, teacher_id = :teacher_id, subject_id = :subject_id
		 WHERE id = :id`, l)
	if err != nil {
		return school.Lesson{}, errors.Wrap(err, "updating lesson")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return school.Lesson{}, school.ErrLessonNotFound
	}
	return l, nil
}

func (repo *schoolRepository) DeleteLessonsByID(ctx context.Context, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM lesson WHERE id = ANY($1)`, idArray(ids))
	return errors.Wrap(err, "deleting lessons")
}
