package dummydb

import (
	"context"
	"sort"

	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core/comment"
)

type commentRepository struct {
	db      *commentTable
	teacher *teacherTable
	student *studentTable
	class   *classTable
	lesson  *lessonTable
	subject *subjectTable
}

var _ comment.Repository = (*commentRepository)(nil) // interface compliance check

func NewCommentRepository(db *DB) comment.Repository {
	return &commentRepository{
		db:      db.comment,
		teacher: db.teacher,
		student: db.student,
		class:   db.class,
		lesson:  db.lesson,
		subject: db.subject,
	}
}

func (repo *commentRepository) CreateComment(ctx context.Context, c comment.Comment) (comment.Comment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	c.ID = newPK(c.ID)
	repo.db.table[c.ID] = &c
	return c, nil
}

func (repo *commentRepository) GetCommentByID(ctx context.Context, id string) (comment.Comment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.table[id]; ok {
		return *c, nil
	}
	return comment.Comment{}, comment.ErrNotFound
}

func (repo *commentRepository) query(keep func(comment.Comment) bool) []comment.Comment {
	repo.db.RLock()
	defer repo.db.RUnlock()

	comments := make([]comment.Comment, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		if keep(*c) {
			comments = append(comments, *c)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].Date.Equal(comments[j].Date) {
			return comments[i].Date.After(comments[j].Date)
		}
		return comments[i].ID > comments[j].ID
	})
	return comments
}

func (repo *commentRepository) detail(c comment.Comment) comment.Detail {
	d := comment.Detail{Comment: c}

	repo.teacher.RLock()
	if t, ok := repo.teacher.table[c.TeacherID]; ok {
		d.TeacherName, d.TeacherSurname = t.Name, t.Surname
	}
	repo.teacher.RUnlock()

	repo.student.RLock()
	stu, hasStudent := repo.student.table[c.StudentID]
	if hasStudent {
		d.StudentName, d.StudentSurname = stu.Name, stu.Surname
	}
	repo.student.RUnlock()

	if hasStudent {
		repo.class.RLock()
		if cls, ok := repo.class.table[stu.ClassID]; ok {
			d.ClassName = cls.Name
		}
		repo.class.RUnlock()
	}

	if c.LessonID.Valid {
		repo.lesson.RLock()
		les, hasLesson := repo.lesson.table[c.LessonID.String]
		if hasLesson {
			d.LessonName = null.StringFrom(les.Name)
		}
		repo.lesson.RUnlock()

		if hasLesson {
			repo.subject.RLock()
			if sub, ok := repo.subject.table[les.SubjectID]; ok {
				d.SubjectName = null.StringFrom(sub.Name)
			}
			repo.subject.RUnlock()
		}
	}
	return d
}

func (repo *commentRepository) QueryAll(ctx context.Context) ([]comment.Detail, error) {
	comments := repo.query(func(comment.Comment) bool { return true })
	details := make([]comment.Detail, 0, len(comments))
	for _, c := range comments {
		details = append(details, repo.detail(c))
	}
	return details, nil
}

func (repo *commentRepository) QueryByTeacher(ctx context.Context, teacherID string) ([]comment.Detail, error) {
	comments := repo.query(func(c comment.Comment) bool { return c.TeacherID == teacherID })
	details := make([]comment.Detail, 0, len(comments))
	for _, c := range comments {
		details = append(details, repo.detail(c))
	}
	return details, nil
}

func (repo *commentRepository) QueryByStudent(ctx context.Context, studentID string) ([]comment.WithTeacher, error) {
	comments := repo.query(func(c comment.Comment) bool { return c.StudentID == studentID })

	repo.teacher.RLock()
	defer repo.teacher.RUnlock()

	res := make([]comment.WithTeacher, 0, len(comments))
	for _, c := range comments {
		wt := comment.WithTeacher{Comment: c}
		if t, ok := repo.teacher.table[c.TeacherID]; ok {
			wt.TeacherName, wt.TeacherSurname = t.Name, t.Surname
		}
		res = append(res, wt)
	}
	return res, nil
}

func (repo *commentRepository) UpdateComment(ctx context.Context, c comment.Comment) (comment.Comment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[c.ID]; !ok {
		return comment.Comment{}, comment.ErrNotFound
	}
	repo.db.table[c.ID] = &c
	return c, nil
}

func (repo *commentRepository) DeleteCommentByID(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.table, id)
	return nil
}
