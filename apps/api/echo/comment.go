package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/comment"
	"github.com/darasahq/darasa/core/school"
)

type commentApi struct {
	svc     *comment.Service
	schools *school.Service
}

func registerCommentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *comment.Service) {
	api := commentApi{svc: svc}

	cg := g.Group("/comments", jwt)
	cg.GET("", api.list)
	cg.POST("", api.create, roleMiddleware(core.RoleTeacher))
	cg.PUT("/:id", api.update, roleMiddleware(core.RoleTeacher))
	cg.DELETE("/:id", api.destroy, roleMiddleware(core.RoleTeacher))
}

// registerCommentFormDataAPI hangs the comment form-data endpoint off the
// school service, which owns the option lists.
func registerCommentFormDataAPI(g *echo.Group, jwt echo.MiddlewareFunc, schools *school.Service) {
	api := commentApi{schools: schools}
	g.GET("/comments/form-data", api.formData, jwt, roleMiddleware(core.RoleTeacher))
}

func (api *commentApi) list(ctx echo.Context) error {
	comments, err := api.svc.ListForActor(ctx.Request().Context(), contextActor(ctx))
	if err != nil {
		return err
	}
	if comments == nil {
		comments = []comment.Detail{}
	}
	return ctx.JSON(http.StatusOK, comments)
}

func (api *commentApi) create(ctx echo.Context) error {
	var data comment.NewComment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewComment")
	}
	if err := data.Validate(core.Validate); err != nil {
		return err
	}

	cmt, err := api.svc.Create(ctx.Request().Context(), contextActor(ctx), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, cmt)
}

func (api *commentApi) update(ctx echo.Context) error {
	var data comment.UpdateComment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateComment")
	}
	data.ID = ctx.Param("id")
	if err := data.Validate(core.Validate); err != nil {
		return err
	}

	cmt, err := api.svc.Update(ctx.Request().Context(), contextActor(ctx), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cmt)
}

func (api *commentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), contextActor(ctx), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *commentApi) formData(ctx echo.Context) error {
	data, err := api.schools.CommentFormData(ctx.Request().Context(), contextActor(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, data)
}
