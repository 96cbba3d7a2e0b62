package report

import (
	"context"
	"sort"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/comment"
	"github.com/darasahq/darasa/core/school"
)

type Service interface {
	// BuildClassReport assembles the per-student report for a class,
	// keeping for each student only the latest comment by each teacher.
	BuildClassReport(ctx context.Context, actor core.Actor, classID string) (ClassReport, error)
}

type service struct {
	schools  school.Repository
	comments comment.Repository
	policy   *school.Policy
}

var _ Service = (*service)(nil)

func NewService(schools school.Repository, comments comment.Repository, policy *school.Policy) *service {
	return &service{schools: schools, comments: comments, policy: policy}
}

func (svc *service) BuildClassReport(ctx context.Context, actor core.Actor, classID string) (ClassReport, error) {
	if err := svc.policy.CanActOnClass(ctx, actor, classID); err != nil {
		return ClassReport{}, err
	}

	class, err := svc.schools.GetClassByID(ctx, classID)
	if err != nil {
		return ClassReport{}, err
	}
	grade, err := svc.schools.GetGradeByID(ctx, class.GradeID)
	if err != nil {
		return ClassReport{}, err
	}

	students, err := svc.schools.QueryStudentsByClass(ctx, classID)
	if err != nil {
		return ClassReport{}, err
	}
	sort.SliceStable(students, func(i, j int) bool {
		if students[i].Name != students[j].Name {
			return students[i].Name < students[j].Name
		}
		return students[i].Surname < students[j].Surname
	})

	rpt := ClassReport{
		ClassInfo: ClassInfo{ID: class.ID, Name: class.Name, Grade: grade.Level},
		Students:  make([]StudentReport, 0, len(students)),
	}

	parents := make(map[string]school.Parent)
	for _, stu := range students {
		parent, ok := parents[stu.ParentID]
		if !ok {
			if parent, err = svc.schools.GetParentByID(ctx, stu.ParentID); err != nil {
				return ClassReport{}, err
			}
			parents[stu.ParentID] = parent
		}

		comments, err := svc.comments.QueryByStudent(ctx, stu.ID)
		if err != nil {
			return ClassReport{}, err
		}

		rpt.Students = append(rpt.Students, StudentReport{
			StudentID:   stu.ID,
			StudentName: stu.FullName(),
			ParentName:  parent.FullName(),
			ParentPhone: parent.Phone.String,
			ParentEmail: parent.Email.String,
			Comments:    latestPerTeacher(comments),
		})
	}
	return rpt, nil
}

// latestPerTeacher reduces a student's comments to at most one per teacher,
// keeping the most recent; when two comments by the same teacher carry the
// same date, the greater comment ID wins. The result is ordered by teacher
// name for stable output.
func latestPerTeacher(comments []comment.WithTeacher) []TeacherComment {
	latest := make(map[string]comment.WithTeacher)
	for _, cmt := range comments {
		prev, ok := latest[cmt.TeacherID]
		if !ok || cmt.Date.After(prev.Date) || (cmt.Date.Equal(prev.Date) && cmt.ID > prev.ID) {
			latest[cmt.TeacherID] = cmt
		}
	}

	res := make([]TeacherComment, 0, len(latest))
	for _, cmt := range latest {
		res = append(res, TeacherComment{
			TeacherName: cmt.TeacherName + " " + cmt.TeacherSurname,
			Content:     cmt.Content,
			Type:        cmt.Type,
			Date:        cmt.Date,
		})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].TeacherName < res[j].TeacherName })
	return res
}
