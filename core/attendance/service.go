package attendance

import (
	"context"
	"time"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/school"
)

type (
	Repository interface {
		// ReplaceForDay atomically deletes every record for the lesson whose
		// date falls in [from, to) and inserts the given records in their
		// place. Either all writes commit or none do.
		ReplaceForDay(ctx context.Context, lessonID string, from, to time.Time, records []Record) ([]Record, error)
		// QueryByLesson returns the lesson's full history, newest date first.
		QueryByLesson(ctx context.Context, lessonID string) ([]StudentRecord, error)
		// QueryByStudent returns the student's own history, newest date first.
		QueryByStudent(ctx context.Context, studentID string) ([]Record, error)
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

// WithClock overrides the service clock; tests pin it to a fixed day.
func (svc *Service) WithClock(now func() time.Time) *Service {
	svc.nowFunc = now
	return svc
}

// Submit records the roster for the lesson's current calendar day, replacing
// whatever was recorded for that day before. All-or-nothing per lesson+day.
func (svc *Service) Submit(ctx context.Context, actor core.Actor, sa SubmitAttendance) ([]Record, error) {
	if err := svc.policy.CanActOnLesson(ctx, actor, sa.LessonID); err != nil {
		return nil, err
	}

	now := svc.nowFunc()
	dayStart, dayEnd := core.DayWindow(now)

	// last entry wins when a student is listed twice; the store holds at
	// most one record per (lesson, student, day)
	index := make(map[string]int, len(sa.Entries))
	records := make([]Record, 0, len(sa.Entries))
	for _, e := range sa.Entries {
		rec := Record{
			LessonID:  sa.LessonID,
			StudentID: e.StudentID,
			Date:      dayStart,
			Present:   e.Present,
		}
		if i, ok := index[e.StudentID]; ok {
			records[i] = rec
			continue
		}
		index[e.StudentID] = len(records)
		records = append(records, rec)
	}
	return svc.repo.ReplaceForDay(ctx, sa.LessonID, dayStart, dayEnd, records)
}

// History lists every attendance record ever taken for the lesson, newest
// first. Teachers need standing on the lesson; admins always pass.
func (svc *Service) History(ctx context.Context, actor core.Actor, lessonID string) ([]StudentRecord, error) {
	if err := svc.policy.CanActOnLesson(ctx, actor, lessonID); err != nil {
		return nil, err
	}
	return svc.repo.QueryByLesson(ctx, lessonID)
}

// OwnHistory lists the student's own records; a parent gets the combined
// records of their children.
func (svc *Service) OwnHistory(ctx context.Context, actor core.Actor) ([]Record, error) {
	switch {
	case actor.IsStudent():
		return svc.repo.QueryByStudent(ctx, actor.ID)
	case actor.IsParent():
		children, err := svc.schools.QueryStudentsByParent(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		var records []Record
		for _, child := range children {
			recs, err := svc.repo.QueryByStudent(ctx, child.ID)
			if err != nil {
				return nil, err
			}
			records = append(records, recs...)
		}
		return records, nil
	}
	return nil, school.ErrPermissionDenied
}

// VisibleLessons returns the lessons the actor may see on the attendance
// dashboard: admins see all, teachers their own, students their class's and
// parents their children's classes'.
func (svc *Service) VisibleLessons(ctx context.Context, actor core.Actor) ([]school.LessonDetail, error) {
	switch {
	case actor.IsAdmin():
		return svc.schools.QueryLessons(ctx)
	case actor.IsTeacher():
		return svc.schools.QueryLessonsByTeacher(ctx, actor.ID)
	case actor.IsStudent():
		student, err := svc.schools.GetStudentByID(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		return svc.schools.QueryLessonsByClass(ctx, student.ClassID)
	case actor.IsParent():
		children, err := svc.schools.QueryStudentsByParent(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		var lessons []school.LessonDetail
		seen := make(map[string]bool)
		for _, child := range children {
			if seen[child.ClassID] {
				continue
			}
			seen[child.ClassID] = true
			classLessons, err := svc.schools.QueryLessonsByClass(ctx, child.ClassID)
			if err != nil {
				return nil, err
			}
			lessons = append(lessons, classLessons...)
		}
		return lessons, nil
	}
	return nil, school.ErrPermissionDenied
}

// TodayLessons filters VisibleLessons down to lessons starting in today's
// calendar day window; only these may receive a new attendance submission.
func (svc *Service) TodayLessons(ctx context.Context, actor core.Actor) ([]school.LessonDetail, error) {
	lessons, err := svc.VisibleLessons(ctx, actor)
	if err != nil {
		return nil, err
	}
	dayStart, dayEnd := core.DayWindow(svc.nowFunc())
	today := make([]school.LessonDetail, 0, len(lessons))
	for _, l := range lessons {
		if !l.StartTime.Before(dayStart) && l.StartTime.Before(dayEnd) {
			today = append(today, l)
		}
	}
	return today, nil
}
