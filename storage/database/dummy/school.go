package dummydb

import (
	"context"
	"sort"

	"github.com/darasahq/darasa/core/school"
)

type schoolRepository struct {
	teacher *teacherTable
	parent  *parentTable
	student *studentTable
	grade   *gradeTable
	class   *classTable
	subject *subjectTable
	lesson  *lessonTable
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *DB) school.Repository {
	return &schoolRepository{
		teacher: db.teacher,
		parent:  db.parent,
		student: db.student,
		grade:   db.grade,
		class:   db.class,
		subject: db.subject,
		lesson:  db.lesson,
	}
}

// --- teachers ---

func (repo *schoolRepository) CreateTeacher(ctx context.Context, t school.Teacher) (school.Teacher, error) {
	repo.teacher.Lock()
	defer repo.teacher.Unlock()

	t.ID = newPK(t.ID)
	repo.teacher.table[t.ID] = &t
	return t, nil
}

func (repo *schoolRepository) GetTeacherByID(ctx context.Context, id string) (school.Teacher, error) {
	repo.teacher.RLock()
	defer repo.teacher.RUnlock()

	if t, ok := repo.teacher.table[id]; ok {
		return *t, nil
	}
	return school.Teacher{}, school.ErrTeacherNotFound
}

func (repo *schoolRepository) QueryTeachers(ctx context.Context) ([]school.Teacher, error) {
	repo.teacher.RLock()
	defer repo.teacher.RUnlock()

	teachers := make([]school.Teacher, 0, len(repo.teacher.table))
	for _, t := range repo.teacher.table {
		teachers = append(teachers, *t)
	}
	sort.Slice(teachers, func(i, j int) bool {
		if teachers[i].Name != teachers[j].Name {
			return teachers[i].Name < teachers[j].Name
		}
		return teachers[i].Surname < teachers[j].Surname
	})
	return teachers, nil
}

func (repo *schoolRepository) UpdateTeacher(ctx context.Context, t school.Teacher) (school.Teacher, error) {
	repo.teacher.Lock()
	defer repo.teacher.Unlock()

	if _, ok := repo.teacher.table[t.ID]; !ok {
		return school.Teacher{}, school.ErrTeacherNotFound
	}
	repo.teacher.table[t.ID] = &t
	return t, nil
}

func (repo *schoolRepository) DeleteTeachersByID(ctx context.Context, ids ...string) error {
	repo.teacher.Lock()
	defer repo.teacher.Unlock()

	for _, id := range ids {
		delete(repo.teacher.table, id)
	}
	return nil
}

// --- parents ---

func (repo *schoolRepository) CreateParent(ctx context.Context, p school.Parent) (school.Parent, error) {
	repo.parent.Lock()
	defer repo.parent.Unlock()

	p.ID = newPK(p.ID)
	repo.parent.table[p.ID] = &p
	return p, nil
}

func (repo *schoolRepository) GetParentByID(ctx context.Context, id string) (school.Parent, error) {
	repo.parent.RLock()
	defer repo.parent.RUnlock()

	if p, ok := repo.parent.table[id]; ok {
		return *p, nil
	}
	return school.Parent{}, school.ErrParentNotFound
}

func (repo *schoolRepository) QueryParents(ctx context.Context) ([]school.Parent, error) {
	repo.parent.RLock()
	defer repo.parent.RUnlock()

	parents := make([]school.Parent, 0, len(repo.parent.table))
	for _, p := range repo.parent.table {
		parents = append(parents, *p)
	}
	sort.Slice(parents, func(i, j int) bool {
		if parents[i].Name != parents[j].Name {
			return parents[i].Name < parents[j].Name
		}
		return parents[i].Surname < parents[j].Surname
	})
	return parents, nil
}

func (repo *schoolRepository) UpdateParent(ctx context.Context, p school.Parent) (school.Parent, error) {
	repo.parent.Lock()
	defer repo.parent.Unlock()

	if _, ok := repo.parent.table[p.ID]; !ok {
		return school.Parent{}, school.ErrParentNotFound
	}
	repo.parent.table[p.ID] = &p
	return p, nil
}

func (repo *schoolRepository) DeleteParentsByID(ctx context.Context, ids ...string) error {
	repo.parent.Lock()
	defer repo.parent.Unlock()

	for _, id := range ids {
		delete(repo.parent.table, id)
	}
	return nil
}

// --- students ---

func (repo *schoolRepository) CreateStudent(ctx context.Context, s school.Student) (school.Student, error) {
	repo.student.Lock()
	defer repo.student.Unlock()

	s.ID = newPK(s.ID)
	repo.student.table[s.ID] = &s
	return s, nil
}

func (repo *schoolRepository) GetStudentByID(ctx context.Context, id string) (school.Student, error) {
	repo.student.RLock()
	defer repo.student.RUnlock()

	if s, ok := repo.student.table[id]; ok {
		return *s, nil
	}
	return school.Student{}, school.ErrStudentNotFound
}

func (repo *schoolRepository) queryStudents(keep func(school.Student) bool) []school.Student {
	students := make([]school.Student, 0, len(repo.student.table))
	for _, s := range repo.student.table {
		if keep(*s) {
			students = append(students, *s)
		}
	}
	sort.Slice(students, func(i, j int) bool {
		if students[i].Name != students[j].Name {
			return students[i].Name < students[j].Name
		}
		return students[i].Surname < students[j].Surname
	})
	return students
}

func (repo *schoolRepository) QueryStudents(ctx context.Context) ([]school.Student, error) {
	repo.student.RLock()
	defer repo.student.RUnlock()
	return repo.queryStudents(func(school.Student) bool { return true }), nil
}

func (repo *schoolRepository) QueryStudentsByClass(ctx context.Context, classID string) ([]school.Student, error) {
	repo.student.RLock()
	defer repo.student.RUnlock()
	return repo.queryStudents(func(s school.Student) bool { return s.ClassID == classID }), nil
}

func (repo *schoolRepository) QueryStudentsByParent(ctx context.Context, parentID string) ([]school.Student, error) {
	repo.student.RLock()
	defer repo.student.RUnlock()
	return repo.queryStudents(func(s school.Student) bool { return s.ParentID == parentID }), nil
}

func (repo *schoolRepository) QueryStudentsForTeacher(ctx context.Context, teacherID string) ([]school.Student, error) {
	classes, err := repo.QueryClassesForTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	classIDs := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		classIDs[c.ID] = struct{}{}
	}

	repo.student.RLock()
	defer repo.student.RUnlock()
	return repo.queryStudents(func(s school.Student) bool {
		_, ok := classIDs[s.ClassID]
		return ok
	}), nil
}

func (repo *schoolRepository) UpdateStudent(ctx context.Context, s school.Student) (school.Student, error) {
	repo.student.Lock()
	defer repo.student.Unlock()

	if _, ok := repo.student.table[s.ID]; !ok {
		return school.Student{}, school.ErrStudentNotFound
	}
	repo.student.table[s.ID] = &s
	return s, nil
}

func (repo *schoolRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	repo.student.Lock()
	defer repo.student.Unlock()

	for _, id := range ids {
		delete(repo.student.table, id)
	}
	return nil
}

// --- grades ---

func (repo *schoolRepository) CreateGrade(ctx context.Context, g school.Grade) (school.Grade, error) {
	repo.grade.Lock()
	defer repo.grade.Unlock()

	g.ID = newPK(g.ID)
	repo.grade.table[g.ID] = &g
	return g, nil
}

func (repo *schoolRepository) QueryGrades(ctx context.Context) ([]school.Grade, error) {
	repo.grade.RLock()
	defer repo.grade.RUnlock()

	grades := make([]school.Grade, 0, len(repo.grade.table))
	for _, g := range repo.grade.table {
		grades = append(grades, *g)
	}
	sort.Slice(grades, func(i, j int) bool { return grades[i].Level < grades[j].Level })
	return grades, nil
}

func (repo *schoolRepository) GetGradeByID(ctx context.Context, id string) (school.Grade, error) {
	repo.grade.RLock()
	defer repo.grade.RUnlock()

	if g, ok := repo.grade.table[id]; ok {
		return *g, nil
	}
	return school.Grade{}, school.ErrGradeNotFound
}

// --- classes ---

func (repo *schoolRepository) CreateClass(ctx context.Context, c school.Class) (school.Class, error) {
	repo.class.Lock()
	defer repo.class.Unlock()

	c.ID = newPK(c.ID)
	repo.class.table[c.ID] = &c
	return c, nil
}

func (repo *schoolRepository) GetClassByID(ctx context.Context, id string) (school.Class, error) {
	repo.class.RLock()
	defer repo.class.RUnlock()

	if c, ok := repo.class.table[id]; ok {
		return *c, nil
	}
	return school.Class{}, school.ErrClassNotFound
}

func (repo *schoolRepository) QueryClasses(ctx context.Context) ([]school.Class, error) {
	repo.class.RLock()
	defer repo.class.RUnlock()

	classes := make([]school.Class, 0, len(repo.class.table))
	for _, c := range repo.class.table {
		classes = append(classes, *c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
	return classes, nil
}

func (repo *schoolRepository) QueryClassesForTeacher(ctx context.Context, teacherID string) ([]school.Class, error) {
	taught := make(map[string]struct{})
	repo.lesson.RLock()
	for _, l := range repo.lesson.table {
		if l.TeacherID == teacherID {
			taught[l.ClassID] = struct{}{}
		}
	}
	repo.lesson.RUnlock()

	repo.class.RLock()
	defer repo.class.RUnlock()

	classes := make([]school.Class, 0)
	for _, c := range repo.class.table {
		if _, ok := taught[c.ID]; ok || c.SupervisorID == teacherID {
			classes = append(classes, *c)
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
	return classes, nil
}

func (repo *schoolRepository) TeacherHasClass(ctx context.Context, teacherID, classID string) (bool, error) {
	repo.class.RLock()
	if c, ok := repo.class.table[classID]; ok && c.SupervisorID == teacherID {
		repo.class.RUnlock()
		return true, nil
	}
	repo.class.RUnlock()

	repo.lesson.RLock()
	defer repo.lesson.RUnlock()

	for _, l := range repo.lesson.table {
		if l.ClassID == classID && l.TeacherID == teacherID {
			return true, nil
		}
	}
	return false, nil
}

func (repo *schoolRepository) UpdateClass(ctx context.Context, c school.Class) (school.Class, error) {
	repo.class.Lock()
	defer repo.class.Unlock()

	if _, ok := repo.class.table[c.ID]; !ok {
		return school.Class{}, school.ErrClassNotFound
	}
	repo.class.table[c.ID] = &c
	return c, nil
}

func (repo *schoolRepository) DeleteClassesByID(ctx context.Context, ids ...string) error {
	repo.class.Lock()
	defer repo.class.Unlock()

	for _, id := range ids {
		delete(repo.class.table, id)
	}
	return nil
}

// --- subjects ---

func (repo *schoolRepository) CreateSubject(ctx context.Context, s school.Subject) (school.Subject, error) {
	repo.subject.Lock()
	defer repo.subject.Unlock()

	s.ID = newPK(s.ID)
	repo.subject.table[s.ID] = &s
	return s, nil
}

func (repo *schoolRepository) GetSubjectByID(ctx context.Context, id string) (school.Subject, error) {
	repo.subject.RLock()
	defer repo.subject.RUnlock()

	if s, ok := repo.subject.table[id]; ok {
		return *s, nil
	}
	return school.Subject{}, school.ErrSubjectNotFound
}

func (repo *schoolRepository) QuerySubjects(ctx context.Context) ([]school.Subject, error) {
	repo.subject.RLock()
	defer repo.subject.RUnlock()

	subjects := make([]school.Subject, 0, len(repo.subject.table))
	for _, s := range repo.subject.table {
		subjects = append(subjects, *s)
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Name < subjects[j].Name })
	return subjects, nil
}

func (repo *schoolRepository) UpdateSubject(ctx context.Context, s school.Subject) (school.Subject, error) {
	repo.subject.Lock()
	defer repo.subject.Unlock()

	if _, ok := repo.subject.table[s.ID]; !ok {
		return school.Subject{}, school.ErrSubjectNotFound
	}
	repo.subject.table[s.ID] = &s
	return s, nil
}

func (repo *schoolRepository) DeleteSubjectsByID(ctx context.Context, ids ...string) error {
	repo.subject.Lock()
	defer repo.subject.Unlock()

	for _, id := range ids {
		delete(repo.subject.table, id)
	}
	return nil
}

// --- lessons ---

func (repo *schoolRepository) CreateLesson(ctx context.Context, l school.Lesson) (school.Lesson, error) {
	repo.lesson.Lock()
	defer repo.lesson.Unlock()

	l.ID = newPK(l.ID)
	repo.lesson.table[l.ID] = &l
	return l, nil
}

func (repo *schoolRepository) GetLessonByID(ctx context.Context, id string) (school.Lesson, error) {
	repo.lesson.RLock()
	defer repo.lesson.RUnlock()

	if l, ok := repo.lesson.table[id]; ok {
		return *l, nil
	}
	return school.Lesson{}, school.ErrLessonNotFound
}

func (repo *schoolRepository) queryLessons(keep func(school.Lesson) bool) []school.LessonDetail {
	repo.lesson.RLock()
	lessons := make([]school.Lesson, 0, len(repo.lesson.table))
	for _, l := range repo.lesson.table {
		if keep(*l) {
			lessons = append(lessons, *l)
		}
	}
	repo.lesson.RUnlock()

	details := make([]school.LessonDetail, 0, len(lessons))
	for _, l := range lessons {
		d := school.LessonDetail{Lesson: l}
		repo.class.RLock()
		if c, ok := repo.class.table[l.ClassID]; ok {
			d.ClassName = c.Name
		}
		repo.class.RUnlock()
		repo.subject.RLock()
		if s, ok := repo.subject.table[l.SubjectID]; ok {
			d.SubjectName = s.Name
		}
		repo.subject.RUnlock()
		details = append(details, d)
	}
	sort.Slice(details, func(i, j int) bool { return details[i].StartTime.Before(details[j].StartTime) })
	return details
}

func (repo *schoolRepository) QueryLessons(ctx context.Context) ([]school.LessonDetail, error) {
	return repo.queryLessons(func(school.Lesson) bool { return true }), nil
}

func (repo *schoolRepository) QueryLessonsByTeacher(ctx context.Context, teacherID string) ([]school.LessonDetail, error) {
	return repo.queryLessons(func(l school.Lesson) bool { return l.TeacherID == teacherID }), nil
}

func (repo *schoolRepository) QueryLessonsByClass(ctx context.Context, classID string) ([]school.LessonDetail, error) {
	return repo.queryLessons(func(l school.Lesson) bool { return l.ClassID == classID }), nil
}

func (repo *schoolRepository) UpdateLesson(ctx context.Context, l school.Lesson) (school.Lesson, error) {
	repo.lesson.Lock()
	defer repo.lesson.Unlock()

	if _, ok := repo.lesson.table[l.ID]; !ok {
		return school.Lesson{}, school.ErrLessonNotFound
	}
	repo.lesson.table[l.ID] = &l
	return l, nil
}

func (repo *schoolRepository) DeleteLessonsByID(ctx context.Context, ids ...string) error {
	repo.lesson.Lock()
	defer repo.lesson.Unlock()

	for _, id := range ids {
		delete(repo.lesson.table, id)
	}
	return nil
}
