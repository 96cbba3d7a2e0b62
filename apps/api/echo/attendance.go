package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/attendance"
	"github.com/darasahq/darasa/core/school"
)

type attendanceApi struct {
	svc *attendance.Service
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *attendance.Service) {
	api := attendanceApi{svc: svc}

	ag := g.Group("/attendance", jwt)
	ag.GET("", api.history, roleMiddleware(core.RoleTeacher))
	ag.POST("", api.submit, roleMiddleware(core.RoleTeacher))
	ag.GET("/lessons", api.lessons)
	ag.GET("/lessons/today", api.todayLessons, roleMiddleware(core.RoleTeacher))
	ag.GET("/own", api.ownHistory, roleMiddleware(core.RoleStudent, core.RoleParent))
}

// history lists every record ever taken for a lesson, newest first.
func (api *attendanceApi) history(ctx echo.Context) error {
	lessonID := ctx.QueryParam("lessonId")
	if lessonID == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "lessonId", Error: "this field is required"})
	}

	records, err := api.svc.History(ctx.Request().Context(), contextActor(ctx), lessonID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, records)
}

// submit records the full roster for a lesson's current day, replacing any
// earlier submission for that day.
func (api *attendanceApi) submit(ctx echo.Context) error {
	var data attendance.SubmitAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmitAttendance")
	}
	if err := data.Validate(core.Validate); err != nil {
		return err
	}

	records, err := api.svc.Submit(ctx.Request().Context(), contextActor(ctx), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, records)
}

func (api *attendanceApi) lessons(ctx echo.Context) error {
	lessons, err := api.svc.VisibleLessons(ctx.Request().Context(), contextActor(ctx))
	if err != nil {
		return err
	}
	if lessons == nil {
		lessons = []school.LessonDetail{}
	}
	return ctx.JSON(http.StatusOK, lessons)
}

func (api *attendanceApi) todayLessons(ctx echo.Context) error {
	lessons, err := api.svc.TodayLessons(ctx.Request().Context(), contextActor(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, lessons)
}

func (api *attendanceApi) ownHistory(ctx echo.Context) error {
	records, err := api.svc.OwnHistory(ctx.Request().Context(), contextActor(ctx))
	if err != nil {
		return err
	}
	if records == nil {
		records = []attendance.Record{}
	}
	return ctx.JSON(http.StatusOK, records)
}
