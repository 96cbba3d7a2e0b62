package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/comment"
	"github.com/darasahq/darasa/core/school"
	dummydb "github.com/darasahq/darasa/storage/database/dummy"
)

type fixture struct {
	schools  school.Repository
	comments comment.Repository
	svc      Service

	class    school.Class
	teacher1 school.Teacher
	teacher2 school.Teacher
	parent   school.Parent
	student  school.Student
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
	t1, err := schools.CreateTeacher(ctx, school.Teacher{Name: "Alice", Surname: "Mwangi"})
	require.NoError(t, err)
	t2, err := schools.CreateTeacher(ctx, school.Teacher{Name: "Brian", Surname: "Otieno"})
	require.NoError(t, err)
	class, err := schools.CreateClass(ctx, school.Class{Name: "10A", GradeID: grade.ID, SupervisorID: t1.ID})
	require.NoError(t, err)
	parent, err := schools.CreateParent(ctx, school.Parent{
		Name: "Grace", Surname: "Wanjiru",
		Phone: null.StringFrom("+254700000001"), Email: null.StringFrom("grace@example.com"),
	})
	require.NoError(t, err)
	stu, err := schools.CreateStudent(ctx, school.Student{
		Name: "Kevin", Surname: "Wanjiru", ClassID: class.ID, ParentID: parent.ID,
	})
	require.NoError(t, err)

	policy := school.NewPolicy(schools)
	return &fixture{
		schools:  schools,
		comments: comments,
		svc:      NewService(schools, comments, policy),
		class:    class,
		teacher1: t1,
		teacher2: t2,
		parent:   parent,
		student:  stu,
	}
}

func (f *fixture) addComment(t *testing.T, id, teacherID, content string, date time.Time) comment.Comment {
	t.Helper()
	cmt, err := f.comments.CreateComment(context.Background(), comment.Comment{
		ID: id, Content: content, Type: comment.TypeNeutral,
		TeacherID: teacherID, StudentID: f.student.ID, Date: date,
	})
	require.NoError(t, err)
	return cmt
}

func TestBuildClassReportLatestPerTeacher(t *testing.T) {
	f := newFixture(t)
	admin := core.Actor{ID: "admin", Role: core.RoleAdmin}
	day := func(d int) time.Time { return time.Date(2021, 3, d, 0, 0, 0, 0, time.UTC) }

	f.addComment(t, "", f.teacher1.ID, "needs attention", day(1))
	f.addComment(t, "", f.teacher1.ID, "improving", day(5))
	f.addComment(t, "", f.teacher1.ID, "doing great", day(9))
	f.addComment(t, "", f.teacher2.ID, "quiet in class", day(3))

	rpt, err := f.svc.BuildClassReport(context.Background(), admin, f.class.ID)
	require.NoError(t, err)

	assert.Equal(t, "10A", rpt.ClassInfo.Name)
	assert.Equal(t, 10, rpt.ClassInfo.Grade)
	require.Len(t, rpt.Students, 1)

	stu := rpt.Students[0]
	assert.Equal(t, "Kevin Wanjiru", stu.StudentName)
	assert.Equal(t, "Grace Wanjiru", stu.ParentName)
	require.Len(t, stu.Comments, 2)

	byTeacher := make(map[string]TeacherComment, 2)
	for _, cmt := range stu.Comments {
		byTeacher[cmt.TeacherName] = cmt
	}
	assert.Equal(t, "doing great", byTeacher["Alice Mwangi"].Content)
	assert.Equal(t, "quiet in class", byTeacher["Brian Otieno"].Content)
}

func TestBuildClassReportSameDateTieBreak(t *testing.T) {
	f := newFixture(t)
	admin := core.Actor{ID: "admin", Role: core.RoleAdmin}
	date := time.Date(2021, 3, 9, 0, 0, 0, 0, time.UTC)

	f.addComment(t, "cmt-a", f.teacher1.ID, "first write", date)
	f.addComment(t, "cmt-b", f.teacher1.ID, "second write", date)

	rpt, err := f.svc.BuildClassReport(context.Background(), admin, f.class.ID)
	require.NoError(t, err)
	require.Len(t, rpt.Students, 1)
	require.Len(t, rpt.Students[0].Comments, 1)
	assert.Equal(t, "second write", rpt.Students[0].Comments[0].Content)
}

func TestBuildClassReportStudentOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := core.Actor{ID: "admin", Role: core.RoleAdmin}

	// Same first name as the fixture student, earlier surname.
	_, err := f.schools.CreateStudent(ctx, school.Student{
		Name: "Kevin", Surname: "Abacha", ClassID: f.class.ID, ParentID: f.parent.ID,
	})
	require.NoError(t, err)
	_, err = f.schools.CreateStudent(ctx, school.Student{
		Name: "Aisha", Surname: "Zuberi", ClassID: f.class.ID, ParentID: f.parent.ID,
	})
	require.NoError(t, err)

	rpt, err := f.svc.BuildClassReport(ctx, admin, f.class.ID)
	require.NoError(t, err)
	require.Len(t, rpt.Students, 3)
	assert.Equal(t, "Aisha Zuberi", rpt.Students[0].StudentName)
	assert.Equal(t, "Kevin Abacha", rpt.Students[1].StudentName)
	assert.Equal(t, "Kevin Wanjiru", rpt.Students[2].StudentName)
}

func TestBuildClassReportAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		actor   core.Actor
		wantErr error
	}{
		{"admin allowed", core.Actor{ID: "adm", Role: core.RoleAdmin}, nil},
		{"supervisor allowed", core.Actor{ID: f.teacher1.ID, Role: core.RoleTeacher}, nil},
		{"unrelated teacher denied", core.Actor{ID: f.teacher2.ID, Role: core.RoleTeacher}, school.ErrPermissionDenied},
		{"student denied", core.Actor{ID: f.student.ID, Role: core.RoleStudent}, school.ErrPermissionDenied},
		{"parent denied", core.Actor{ID: f.parent.ID, Role: core.RoleParent}, school.ErrPermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.BuildClassReport(ctx, tt.actor, f.class.ID)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestBuildClassReportClassNotFound(t *testing.T) {
	f := newFixture(t)
	admin := core.Actor{ID: "adm", Role: core.RoleAdmin}

	_, err := f.svc.BuildClassReport(context.Background(), admin, "nope")
	assert.ErrorIs(t, err, school.ErrClassNotFound)
}

func TestExportRows(t *testing.T) {
	rpt := ClassReport{
		ClassInfo: ClassInfo{Name: "10A", Grade: 10},
		Students: []StudentReport{
			{
				StudentName: "Aisha Zuberi", ParentName: "Grace Wanjiru",
				ParentPhone: "+254700000001", ParentEmail: "grace@example.com",
				Comments: []TeacherComment{
					{TeacherName: "Alice Mwangi", Content: "doing great"},
					{TeacherName: "Brian Otieno", Content: "quiet in class"},
				},
			},
			{
				StudentName: "Kevin Wanjiru", ParentName: "John Doe",
			},
		},
	}

	rows := ExportRows(rpt)
	require.Len(t, rows, 2)
	assert.Equal(t,
		[]string{"+254700000001", "1", "Aisha Zuberi", "Grace Wanjiru", "grace@example.com", "doing great; quiet in class"},
		rows[0],
	)
	assert.Equal(t,
		[]string{NoPhone, "2", "Kevin Wanjiru", "John Doe", "", NoComments},
		rows[1],
	)
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2021, 3, 9, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "Report_Class10A_2021-03-09.xlsx", ExportFilename("10A", now))
}
