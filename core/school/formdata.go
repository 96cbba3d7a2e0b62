package school

import (
	"context"

	"github.com/darasahq/darasa/core"
)

// Typed form metadata, one shape per entity form. Each endpoint assembles
// exactly the options its form needs instead of a single handler switching
// on a table-name string.

type (
	StudentOption struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Surname   string `json:"surname"`
		ClassName string `json:"class_name"`
	}

	TeacherOption struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Surname string `json:"surname"`
	}

	LessonOption struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		SubjectName string `json:"subject_name"`
	}

	ClassOption struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	SubjectOption struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	GradeOption struct {
		ID    string `json:"id"`
		Level int    `json:"level"`
	}

	CommentFormData struct {
		Students []StudentOption `json:"students"`
		Lessons  []LessonOption  `json:"lessons"`
		Teachers []TeacherOption `json:"teachers,omitempty"` // admin only
	}

	ClassFormData struct {
		Grades   []GradeOption   `json:"grades"`
		Teachers []TeacherOption `json:"teachers"`
	}

	SubjectFormData struct {
		Teachers []TeacherOption `json:"teachers"`
	}

	LessonFormData struct {
		Classes  []ClassOption   `json:"classes"`
		Teachers []TeacherOption `json:"teachers"`
		Subjects []SubjectOption `json:"subjects"`
	}
)

// CommentFormData returns the students the actor may comment on plus, for
// teachers, their own lessons and, for admins, the teacher list to pick an
// author from.
func (svc *Service) CommentFormData(ctx context.Context, actor core.Actor) (CommentFormData, error) {
	var data CommentFormData

	switch {
	case actor.IsAdmin():
		students, err := svc.repo.QueryStudents(ctx)
		if err != nil {
			return data, err
		}
		if data.Students, err = svc.studentOptions(ctx, students); err != nil {
			return data, err
		}
		teachers, err := svc.repo.QueryTeachers(ctx)
		if err != nil {
			return data, err
		}
		for _, t := range teachers {
			data.Teachers = append(data.Teachers, TeacherOption{ID: t.ID, Name: t.Name, Surname: t.Surname})
		}

	case actor.IsTeacher():
		students, err := svc.repo.QueryStudentsForTeacher(ctx, actor.ID)
		if err != nil {
			return data, err
		}
		if data.Students, err = svc.studentOptions(ctx, students); err != nil {
			return data, err
		}
		lessons, err := svc.repo.QueryLessonsByTeacher(ctx, actor.ID)
		if err != nil {
			return data, err
		}
		for _, l := range lessons {
			data.Lessons = append(data.Lessons, LessonOption{ID: l.ID, Name: l.Name, SubjectName: l.SubjectName})
		}

	default:
		return data, ErrPermissionDenied
	}
	return data, nil
}

func (svc *Service) studentOptions(ctx context.Context, students []Student) ([]StudentOption, error) {
	classNames := make(map[string]string)
	opts := make([]StudentOption, 0, len(students))
	for _, s := range students {
		name, ok := classNames[s.ClassID]
		if !ok {
			class, err := svc.repo.GetClassByID(ctx, s.ClassID)
			if err != nil {
				return nil, err
			}
			name = class.Name
			classNames[s.ClassID] = name
		}
		opts = append(opts, StudentOption{ID: s.ID, Name: s.Name, Surname: s.Surname, ClassName: name})
	}
	return opts, nil
}

func (svc *Service) ClassFormData(ctx context.Context) (ClassFormData, error) {
	var data ClassFormData
	grades, err := svc.repo.QueryGrades(ctx)
	if err != nil {
		return data, err
	}
	for _, g := range grades {
		data.Grades = append(data.Grades, GradeOption{ID: g.ID, Level: g.Level})
	}
	teachers, err := svc.repo.QueryTeachers(ctx)
	if err != nil {
		return data, err
	}
	for _, t := range teachers {
		data.Teachers = append(data.Teachers, TeacherOption{ID: t.ID, Name: t.Name, Surname: t.Surname})
	}
	return data, nil
}

func (svc *Service) SubjectFormData(ctx context.Context) (SubjectFormData, error) {
	var data SubjectFormData
	teachers, err := svc.repo.QueryTeachers(ctx)
	if err != nil {
		return data, err
	}
	for _, t := range teachers {
		data.Teachers = append(data.Teachers, TeacherOption{ID: t.ID, Name: t.Name, Surname: t.Surname})
	}
	return data, nil
}

func (svc *Service) LessonFormData(ctx context.Context, actor core.Actor) (LessonFormData, error) {
	var data LessonFormData

	var classes []Class
	var err error
	if actor.IsTeacher() {
		classes, err = svc.repo.QueryClassesForTeacher(ctx, actor.ID)
	} else {
		classes, err = svc.repo.QueryClasses(ctx)
	}
	if err != nil {
		return data, err
	}
	for _, c := range classes {
		data.Classes = append(data.Classes, ClassOption{ID: c.ID, Name: c.Name})
	}

	teachers, err := svc.repo.QueryTeachers(ctx)
	if err != nil {
		return data, err
	}
	for _, t := range teachers {
		data.Teachers = append(data.Teachers, TeacherOption{ID: t.ID, Name: t.Name, Surname: t.Surname})
	}

	subjects, err := svc.repo.QuerySubjects(ctx)
	if err != nil {
		return data, err
	}
	for _, s := range subjects {
		data.Subjects = append(data.Subjects, SubjectOption{ID: s.ID, Name: s.Name})
	}
	return data, nil
}
