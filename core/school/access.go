package school

import (
	"context"
	"errors"

	"github.com/darasahq/darasa/core"
)

// ErrPermissionDenied is returned by access checks when the caller's role or
// ownership does not permit the operation.
var ErrPermissionDenied = errors.New("permission denied")

// Policy decides allow/deny for operations on classes, lessons and comments
// given the request actor. Admins are always allowed; a teacher has standing
// on a class iff they supervise it or teach at least one lesson in it;
// students and parents never pass a mutation check.
type Policy struct {
	repo Repository
}

func NewPolicy(repo Repository) *Policy {
	return &Policy{repo: repo}
}

func (p *Policy) CanActOnClass(ctx context.Context, actor core.Actor, classID string) error {
	if actor.IsZero() {
		return ErrPermissionDenied
	}
	if actor.IsAdmin() {
		return nil
	}
	if actor.IsTeacher() {
		ok, err := p.repo.TeacherHasClass(ctx, actor.ID, classID)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return ErrPermissionDenied
}

func (p *Policy) CanActOnLesson(ctx context.Context, actor core.Actor, lessonID string) error {
	if actor.IsZero() {
		return ErrPermissionDenied
	}
	if actor.IsAdmin() {
		return nil
	}
	if !actor.IsTeacher() {
		return ErrPermissionDenied
	}
	lesson, err := p.repo.GetLessonByID(ctx, lessonID)
	if err != nil {
		return err
	}
	if lesson.TeacherID == actor.ID {
		return nil
	}
	return p.CanActOnClass(ctx, actor, lesson.ClassID)
}

// CanActOnComment gates comment mutation: only the authoring teacher or an
// admin may change or delete a comment.
func (p *Policy) CanActOnComment(actor core.Actor, commentTeacherID string) error {
	if actor.IsZero() {
		return ErrPermissionDenied
	}
	if actor.IsAdmin() || (actor.IsTeacher() && actor.ID == commentTeacherID) {
		return nil
	}
	return ErrPermissionDenied
}
