package comment_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/comment"
	"github.com/darasahq/darasa/core/school"
	dummydb "github.com/darasahq/darasa/storage/database/dummy"
)

type fixture struct {
	schools school.Repository
	svc     *comment.Service

	class   school.Class
	teacher school.Teacher
	other   school.Teacher
	parent  school.Parent
	student school.Student
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := dummydb.Open()
	require.NoError(t, err)
	schools := dummydb.NewSchoolRepository(db)
	comments := dummydb.NewCommentRepository(db)

	grade, err := schools.CreateGrade(ctx, school.Grade{Level: 10})
	require.NoError(t, err)
	teacher, err := schools.CreateTeacher(ctx, school.Teacher{Name: "Alice", Surname: "Mwangi"})
	require.NoError(t, err)
	other, err := schools.CreateTeacher(ctx, school.Teacher{Name: "Brian", Surname: "Otieno"})
	require.NoError(t, err)
	class, err := schools.CreateClass(ctx, school.Class{Name: "10A", GradeID: grade.ID, SupervisorID: teacher.ID})
	require.NoError(t, err)
	parent, err := schools.CreateParent(ctx, school.Parent{Name: "Grace", Surname: "Wanjiru"})
	require.NoError(t, err)
	stu, err := schools.CreateStudent(ctx, school.Student{Name: "Kevin", Surname: "Wanjiru", ClassID: class.ID, ParentID: parent.ID})
	require.NoError(t, err)

	svc := comment.NewService(comments, school.NewPolicy(schools), schools).
		WithClock(func() time.Time { return time.Date(2021, 3, 9, 10, 0, 0, 0, time.UTC) })

	return &fixture{
		schools: schools,
		svc:     svc,
		class:   class,
		teacher: teacher,
		other:   other,
		parent:  parent,
		student: stu,
	}
}

func TestCreateByTeacher(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cmt, err := f.svc.Create(ctx, core.Actor{ID: f.teacher.ID, Role: core.RoleTeacher}, comment.NewComment{
		Content:   "solid work this week",
		Type:      comment.TypePositive,
		StudentID: f.student.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, f.teacher.ID, cmt.TeacherID)
	assert.Equal(t, f.student.ID, cmt.StudentID)
	assert.False(t, cmt.Date.IsZero())

	// A teacher without standing on the student's class cannot comment.
	_, err = f.svc.Create(ctx, core.Actor{ID: f.other.ID, Role: core.RoleTeacher}, comment.NewComment{
		Content:   "should not land",
		Type:      comment.TypeNegative,
		StudentID: f.student.ID,
	})
	assert.ErrorIs(t, err, school.ErrPermissionDenied)
}

func TestCreateOnBehalf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := core.Actor{ID: "adm", Role: core.RoleAdmin}

	// Admins must name the authoring teacher.
	_, err := f.svc.Create(ctx, admin, comment.NewComment{
		Content:   "missing author",
		Type:      comment.TypeNeutral,
		StudentID: f.student.ID,
	})
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)

	_, err = f.svc.Create(ctx, admin, comment.NewComment{
		Content:   "unknown author",
		Type:      comment.TypeNeutral,
		StudentID: f.student.ID,
		TeacherID: "nope",
	})
	assert.ErrorIs(t, err, school.ErrTeacherNotFound)

	cmt, err := f.svc.Create(ctx, admin, comment.NewComment{
		Content:   "recorded on behalf",
		Type:      comment.TypeSuggestion,
		StudentID: f.student.ID,
		TeacherID: f.other.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, f.other.ID, cmt.TeacherID)
}

func TestCreateDeniedRoles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	nc := comment.NewComment{Content: "x", Type: comment.TypeNeutral, StudentID: f.student.ID}

	for _, actor := range []core.Actor{
		{ID: f.student.ID, Role: core.RoleStudent},
		{ID: f.parent.ID, Role: core.RoleParent},
		{},
	} {
		_, err := f.svc.Create(ctx, actor, nc)
		assert.ErrorIs(t, err, school.ErrPermissionDenied)
	}
}

func TestUpdateAndDeleteAuthorOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := core.Actor{ID: f.teacher.ID, Role: core.RoleTeacher}

	cmt, err := f.svc.Create(ctx, author, comment.NewComment{
		Content:   "first draft",
		Type:      comment.TypeNeutral,
		StudentID: f.student.ID,
	})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, core.Actor{ID: f.other.ID, Role: core.RoleTeacher}, comment.UpdateComment{
		ID: cmt.ID, Content: "hijacked", Type: comment.TypeNegative,
	})
	assert.ErrorIs(t, err, school.ErrPermissionDenied)

	updated, err := f.svc.Update(ctx, author, comment.UpdateComment{
		ID: cmt.ID, Content: "final wording", Type: comment.TypePositive,
	})
	require.NoError(t, err)
	assert.Equal(t, "final wording", updated.Content)
	assert.Equal(t, comment.TypePositive, updated.Type)

	err = f.svc.Delete(ctx, core.Actor{ID: f.other.ID, Role: core.RoleTeacher}, cmt.ID)
	assert.ErrorIs(t, err, school.ErrPermissionDenied)

	// Admins may moderate any comment.
	err = f.svc.Delete(ctx, core.Actor{ID: "adm", Role: core.RoleAdmin}, cmt.ID)
	require.NoError(t, err)

	err = f.svc.Delete(ctx, author, cmt.ID)
	assert.ErrorIs(t, err, comment.ErrNotFound)
}

func TestListForActor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := core.Actor{ID: f.teacher.ID, Role: core.RoleTeacher}

	_, err := f.svc.Create(ctx, author, comment.NewComment{
		Content:   "keeps up well",
		Type:      comment.TypePositive,
		StudentID: f.student.ID,
	})
	require.NoError(t, err)

	// Teacher sees own authored comments.
	details, err := f.svc.ListForActor(ctx, author)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, f.teacher.ID, details[0].TeacherID)

	// The unrelated teacher authored nothing.
	details, err = f.svc.ListForActor(ctx, core.Actor{ID: f.other.ID, Role: core.RoleTeacher})
	require.NoError(t, err)
	assert.Empty(t, details)

	// Student sees comments about them, with names resolved.
	details, err = f.svc.ListForActor(ctx, core.Actor{ID: f.student.ID, Role: core.RoleStudent})
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Kevin", details[0].StudentName)
	assert.Equal(t, "Alice", details[0].TeacherName)
	assert.Equal(t, "10A", details[0].ClassName)
}
