// Package dummydb is an in-memory storage backend used by tests. Every
// repository holds plain maps behind a RWMutex; writes copy values in and
// reads copy values out so callers never share memory with the store.
package dummydb

import (
	"sync"

	"github.com/google/uuid"

	"github.com/darasahq/darasa/core/attendance"
	"github.com/darasahq/darasa/core/comment"
	"github.com/darasahq/darasa/core/school"
	"github.com/darasahq/darasa/core/user"
)

type (
	DB struct {
		user       *userTable
		teacher    *teacherTable
		parent     *parentTable
		student    *studentTable
		grade      *gradeTable
		class      *classTable
		subject    *subjectTable
		lesson     *lessonTable
		attendance *attendanceTable
		comment    *commentTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}
	teacherTable struct {
		sync.RWMutex
		table map[string]*school.Teacher
	}
	parentTable struct {
		sync.RWMutex
		table map[string]*school.Parent
	}
	studentTable struct {
		sync.RWMutex
		table map[string]*school.Student
	}
	gradeTable struct {
		sync.RWMutex
		table map[string]*school.Grade
	}
	classTable struct {
		sync.RWMutex
		table map[string]*school.Class
	}
	subjectTable struct {
		sync.RWMutex
		table map[string]*school.Subject
	}
	lessonTable struct {
		sync.RWMutex
		table map[string]*school.Lesson
	}
	attendanceTable struct {
		sync.RWMutex
		table map[string]*attendance.Record
	}
	commentTable struct {
		sync.RWMutex
		table map[string]*comment.Comment
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		teacher:    &teacherTable{table: make(map[string]*school.Teacher)},
		parent:     &parentTable{table: make(map[string]*school.Parent)},
		student:    &studentTable{table: make(map[string]*school.Student)},
		grade:      &gradeTable{table: make(map[string]*school.Grade)},
		class:      &classTable{table: make(map[string]*school.Class)},
		subject:    &subjectTable{table: make(map[string]*school.Subject)},
		lesson:     &lessonTable{table: make(map[string]*school.Lesson)},
		attendance: &attendanceTable{table: make(map[string]*attendance.Record)},
		comment:    &commentTable{table: make(map[string]*comment.Comment)},
	}
	return db, nil
}

// newPK keeps a caller-provided ID so tests can craft deterministic keys.
func newPK(id string) string {
	if id != "" {
		return id
	}
	return uuid.New().String()
}
