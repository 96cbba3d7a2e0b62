package comment

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/school"
)

var ErrNotFound = errors.New("comment not found")

type (
	Repository interface {
		CreateComment(ctx context.Context, c Comment) (Comment, error)
		GetCommentByID(ctx context.Context, id string) (Comment, error)
		// QueryAll returns every comment, newest first.
		QueryAll(ctx context.Context) ([]Detail, error)
		QueryByTeacher(ctx context.Context, teacherID string) ([]Detail, error)
		// QueryByStudent returns the student's comments with the authoring
		// teacher's name, newest first.
		QueryByStudent(ctx context.Context, studentID string) ([]WithTeacher, error)
		UpdateComment(ctx context.Context, c Comment) (Comment, error)
		DeleteCommentByID(ctx context.Context, id string) error
	}

	Service struct {
		repo    Repository
		policy  *school.Policy
		schools school.Repository
		nowFunc func() time.Time // mockable
	}
)

func NewService(repo Repository, policy *school.Policy, schools school.Repository) *Service {
	return &Service{
		repo:    repo,
		policy:  policy,
		schools: schools,
		nowFunc: time.Now,
	}
}

// WithClock overrides the service clock; tests pin it to a fixed time.
func (svc *Service) WithClock(now func() time.Time) *Service {
	svc.nowFunc = now
	return svc
}

// ListForActor returns the comments visible to the caller: teachers see
// their own authored comments, students the comments about them; admins and
// parents see all.
func (svc *Service) ListForActor(ctx context.Context, actor core.Actor) ([]Detail, error) {
	switch {
	case actor.IsTeacher():
		return svc.repo.QueryByTeacher(ctx, actor.ID)
	case actor.IsStudent():
		comments, err := svc.repo.QueryByStudent(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		student, err := svc.schools.GetStudentByID(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		class, err := svc.schools.GetClassByID(ctx, student.ClassID)
		if err != nil {
			return nil, err
		}
		details := make([]Detail, 0, len(comments))
		for _, c := range comments {
			details = append(details, Detail{
				Comment:        c.Comment,
				StudentName:    student.Name,
				StudentSurname: student.Surname,
				ClassName:      class.Name,
				TeacherName:    c.TeacherName,
				TeacherSurname: c.TeacherSurname,
			})
		}
		return details, nil
	}
	return svc.repo.QueryAll(ctx)
}

// Create writes a new comment. Teachers must have standing on the student's
// class; admins must name an existing teacher as the author.
func (svc *Service) Create(ctx context.Context, actor core.Actor, nc NewComment) (Comment, error) {
	if !(actor.IsAdmin() || actor.IsTeacher()) {
		return Comment{}, school.ErrPermissionDenied
	}

	student, err := svc.schools.GetStudentByID(ctx, nc.StudentID)
	if err != nil {
		return Comment{}, err
	}

	teacherID := actor.ID
	if actor.IsTeacher() {
		if err := svc.policy.CanActOnClass(ctx, actor, student.ClassID); err != nil {
			return Comment{}, err
		}
	} else {
		if nc.TeacherID == "" {
			return Comment{}, core.NewValidationError(nil,
				core.FieldError{Field: "teacher_id", Error: "this field is required"})
		}
		if _, err := svc.schools.GetTeacherByID(ctx, nc.TeacherID); err != nil {
			return Comment{}, err
		}
		teacherID = nc.TeacherID
	}

	return svc.repo.CreateComment(ctx, Comment{
		Content:   nc.Content,
		Type:      nc.Type,
		TeacherID: teacherID,
		StudentID: nc.StudentID,
		LessonID:  null.NewString(nc.LessonID, nc.LessonID != ""),
		Date:      svc.nowFunc().UTC(),
	})
}

// Update changes a comment's content, type or lesson. Author or admin only.
func (svc *Service) Update(ctx context.Context, actor core.Actor, uc UpdateComment) (Comment, error) {
	c, err := svc.repo.GetCommentByID(ctx, uc.ID)
	if err != nil {
		return Comment{}, err
	}
	if err := svc.policy.CanActOnComment(actor, c.TeacherID); err != nil {
		return Comment{}, err
	}
	c.Content = uc.Content
	c.Type = uc.Type
	c.LessonID = null.NewString(uc.LessonID, uc.LessonID != "")
	return svc.repo.UpdateComment(ctx, c)
}

// Delete removes a comment. Author or admin only.
func (svc *Service) Delete(ctx context.Context, actor core.Actor, id string) error {
	c, err := svc.repo.GetCommentByID(ctx, id)
	if err != nil {
		return err
	}
	if err := svc.policy.CanActOnComment(actor, c.TeacherID); err != nil {
		return err
	}
	return svc.repo.DeleteCommentByID(ctx, id)
}
