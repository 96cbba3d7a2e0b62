package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/school"
)

type schoolApi struct {
	svc *school.Service
}

func registerSchoolAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *school.Service) {
	api := schoolApi{svc: svc}

	tg := g.Group("/teachers", jwt, adminMiddleware())
	tg.GET("", api.queryTeachers)
	tg.POST("", api.createTeacher)
	tg.GET("/:id", api.retrieveTeacher)
	tg.PUT("/:id", api.updateTeacher)
	tg.DELETE("/:id", api.destroyTeacher)

	pg := g.Group("/parents", jwt, adminMiddleware())
	pg.GET("", api.queryParents)
	pg.POST("", api.createParent)
	pg.GET("/:id", api.retrieveParent)
	pg.PUT("/:id", api.updateParent)
	pg.DELETE("/:id", api.destroyParent)

	sg := g.Group("/students", jwt, adminMiddleware())
	sg.GET("", api.queryStudents)
	sg.POST("", api.createStudent)
	sg.GET("/:id", api.retrieveStudent)
	sg.PUT("/:id", api.updateStudent)
	sg.DELETE("/:id", api.destroyStudent)

	gg := g.Group("/grades", jwt, adminMiddleware())
	gg.GET("", api.queryGrades)
	gg.POST("", api.createGrade)

	cg := g.Group("/classes", jwt)
	cg.GET("/form-data", api.classFormData, adminMiddleware())
	cg.GET("", api.queryClasses, adminMiddleware())
	cg.POST("", api.createClass, adminMiddleware())
	cg.GET("/:id", api.retrieveClass, adminMiddleware())
	cg.PUT("/:id", api.updateClass, adminMiddleware())
	cg.DELETE("/:id", api.destroyClass, adminMiddleware())

	sbg := g.Group("/subjects", jwt, adminMiddleware())
	sbg.GET("/form-data", api.subjectFormData)
	sbg.GET("", api.querySubjects)
	sbg.POST("", api.createSubject)
	sbg.PUT("/:id", api.updateSubject)
	sbg.DELETE("/:id", api.destroySubject)

	lg := g.Group("/lessons", jwt)
	lg.GET("/form-data", api.lessonFormData, adminMiddleware())
	lg.GET("", api.queryLessons, adminMiddleware())
	lg.POST("", api.createLesson, roleMiddleware(core.RoleTeacher))
	lg.PUT("/:id", api.updateLesson, roleMiddleware(core.RoleTeacher))
	lg.DELETE("/:id", api.destroyLesson, adminMiddleware())
}

// Teachers

func (api *schoolApi) queryTeachers(ctx echo.Context) error {
	teachers, err := api.svc.QueryTeachers(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *schoolApi) createTeacher(ctx echo.Context) error {
	var data school.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	if err := data.Validate(core.Validate); err != nil {
		return err
	}
	t, err := api.svc.CreateTeacher(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating teacher")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *schoolApi) retrieveTeacher(ctx echo.Context) error {
	t, err := api.svc.GetTeacher(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *schoolApi) updateTeacher(ctx echo.Context) error {
	orig, err := api.svc.GetTeacher(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	var data school.UpdateTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTeacher")
	}
	if err := data.Validate(core.Validate, orig); err != nil {
		return err
	}

	t, err := api.svc.UpdateTeacher(ctx.Request().Context(), orig, data)
	if err != nil {
		return errors.Wrap(err, "updating teacher")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *schoolApi) destroyTeacher(ctx echo.Context) error {
	if err := api.svc.DeleteTeachers(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Parents

func (api *schoolApi) queryParents(ctx echo.Context) error {
	parents, err := api.svc.QueryParents(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying parents")
	}
	return ctx.JSON(http.StatusOK, parents)
}

func (api *schoolApi) createParent(ctx echo.Context) error {
	var data school.NewParent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewParent")
	}
	if err := data.Validate(core.Validate); err != nil {
		return err
	}
	p, err := api.svc.CreateParent(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating parent")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *schoolApi) retrieveParent(ctx echo.Context) error {
	p, err := api.svc.GetParent(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *schoolApi) updateParent(ctx echo.Context) error {
	orig, err := api.svc.GetParent(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	var data school.UpdateParent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateParent")
	}
	if err := data.Validate(core.Validate, orig); err != nil {
		return err
	}

	p, err := api.svc.UpdateParent(ctx.Request().Context(), orig, data)
	if err != nil {
		return errors.Wrap(err, "updating parent")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *schoolApi) destroyParent(ctx echo.Context) error {
	if err := api.svc.DeleteParents(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting parent")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Students

func (api *schoolApi) queryStudents(ctx echo.Context) error {
	students, err := api.svc.QueryStudents(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *schoolApi) createStudent(ctx echo.Context) error {
	var data school.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(core.Validate); err != nil {
		return err
	}
	s, err := api.svc.CreateStudent(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *schoolApi) retrieveStudent(ctx echo.Context) error {
	s, err := api.svc.GetStudent(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *schoolApi) updateStudent(ctx echo.Context) error {
	orig, err := api.svc.GetStudent(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	var data school.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(core.Validate, orig); err != nil {
		return err
	}

	s, err := api.svc.UpdateStudent(ctx.Request().Context(), orig, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *schoolApi) destroyStudent(ctx echo.Context) error {
	if err := api.svc.DeleteStudents(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Grades

type newGradeRequest struct {
	Level int `json:"level" validate:"required,min=1"`
}

func (api *schoolApi) queryGrades(ctx echo.Context) error {
	grades, err := api.svc.QueryGrades(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *schoolApi) createGrade(ctx echo.Context) error {
	var data newGradeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to newGradeRequest")
	}
	if err := core.Validate.Struct(&data); err != nil {
		return err
	}
	g, err := api.svc.CreateGrade(ctx.Request().Context(), data.Level)
	if err != nil {
		return errors.Wrap(err, "creating grade")
	}
	return ctx.JSON(http.StatusCreated, g)
}

// Classes

func (api *schoolApi) queryClasses(ctx echo.Context) error {
	classes, err := api.svc.QueryClasses(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *schoolApi) createClass(ctx echo.Context) error {
	var data school.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(core.Validate); err != nil {
		return err
	}
	c, err := api.svc.CreateClass(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *schoolApi) retrieveClass(ctx echo.Context) error {
	c, err := api.svc.GetClass(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *schoolApi) updateClass(ctx echo.Context) error {
	orig, err := api.svc.GetClass(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	var data school.UpdateClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClass")
	}
	if err := data.Validate(core.Validate, orig); err != nil {
		return err
	}

	c, err := api.svc.UpdateClass(ctx.Request().Context(), orig, data)
	if err != nil {
		return errors.Wrap(err, "updating class")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *schoolApi) destroyClass(ctx echo.Context) error {
	if err := api.svc.DeleteClasses(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *schoolApi) classFormData(ctx echo.Context) error {
	data, err := api.svc.ClassFormData(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "getting class form data")
	}
	return ctx.JSON(http.StatusOK, data)
}

// Subjects

func (api *schoolApi) querySubjects(ctx echo.Context) error {
	subjects, err := api.svc.QuerySubjects(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *schoolApi) createSubject(ctx echo.Context) error {
	var data school.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	if err := data.Validate(core.Validate); err != nil {
		return err
	}
	s, err := api.svc.CreateSubject(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating subject")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *schoolApi) updateSubject(ctx echo.Context) error {
	orig, err := api.svc.GetSubject(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	var data school.UpdateSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSubject")
	}
	if err := data.Validate(core.Validate); err != nil {
		return err
	}

	s, err := api.svc.UpdateSubject(ctx.Request().Context(), orig, data)
	if err != nil {
		return errors.Wrap(err, "updating subject")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *schoolApi) destroySubject(ctx echo.Context) error {
	if err := api.svc.DeleteSubjects(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *schoolApi) subjectFormData(ctx echo.Context) error {
	data, err := api.svc.SubjectFormData(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "getting subject form data")
	}
	return ctx.JSON(http.StatusOK, data)
}

// Lessons

func (api *schoolApi) queryLessons(ctx echo.Context) error {
	lessons, err := api.svc.QueryLessons(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying lessons")
	}
	return ctx.JSON(http.StatusOK, lessons)
}

func (api *schoolApi) createLesson(ctx echo.Context) error {
	var data school.NewLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLesson")
	}
	if err := data.Validate(core.Validate); err != nil {
		return err
	}
	// teachers may only schedule their own lessons
	if actor := contextActor(ctx); !actor.IsAdmin() && data.TeacherID != actor.ID {
		return school.ErrPermissionDenied
	}
	l, err := api.svc.CreateLesson(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating lesson")
	}
	return ctx.JSON(http.StatusCreated, l)
}

func (api *schoolApi) updateLesson(ctx echo.Context) error {
	orig, err := api.svc.GetLesson(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if actor := contextActor(ctx); !actor.IsAdmin() && orig.TeacherID != actor.ID {
		return school.ErrPermissionDenied
	}

	var data school.UpdateLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateLesson")
	}
	if err := data.Validate(core.Validate, orig); err != nil {
		return err
	}

	l, err := api.svc.UpdateLesson(ctx.Request().Context(), orig, data)
	if err != nil {
		return errors.Wrap(err, "updating lesson")
	}
	return ctx.JSON(http.StatusOK, l)
}

func (api *schoolApi) lessonFormData(ctx echo.Context) error {
	data, err := api.svc.LessonFormData(ctx.Request().Context(), contextActor(ctx))
	if err != nil {
		return errors.Wrap(err, "getting lesson form data")
	}
	return ctx.JSON(http.StatusOK, data)
}

func (api *schoolApi) destroyLesson(ctx echo.Context) error {
	if err := api.svc.DeleteLessons(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting lesson")
	}
	return ctx.NoContent(http.StatusNoContent)
}
