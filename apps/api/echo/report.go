package echoapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/report"
	"github.com/darasahq/darasa/core/school"
	exportsvc "github.com/darasahq/darasa/services/export"
)

type reportApi struct {
	svc      report.Service
	schools  *school.Service
	exporter *exportsvc.XLSXWriter
}

func registerReportAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc report.Service,
	schools *school.Service,
	exporter *exportsvc.XLSXWriter,
) {
	api := reportApi{svc: svc, schools: schools, exporter: exporter}

	rg := g.Group("/reports", jwt, roleMiddleware(core.RoleTeacher))
	rg.GET("/classes", api.classes)
	rg.GET("/classes/:id", api.retrieve)
	rg.GET("/classes/:id/export", api.export)
}

// classes lists the classes the caller may report on.
func (api *reportApi) classes(ctx echo.Context) error {
	actor := contextActor(ctx)

	var classes []school.Class
	var err error
	if actor.IsAdmin() {
		classes, err = api.schools.QueryClasses(ctx.Request().Context())
	} else {
		classes, err = api.schools.QueryClassesForTeacher(ctx.Request().Context(), actor.ID)
	}
	if err != nil {
		return errors.Wrap(err, "querying report classes")
	}
	if classes == nil {
		classes = []school.Class{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *reportApi) retrieve(ctx echo.Context) error {
	rpt, err := api.svc.BuildClassReport(ctx.Request().Context(), contextActor(ctx), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rpt)
}

// export streams the class report as a spreadsheet download.
func (api *reportApi) export(ctx echo.Context) error {
	rpt, err := api.svc.BuildClassReport(ctx.Request().Context(), contextActor(ctx), ctx.Param("id"))
	if err != nil {
		return err
	}

	buf, err := api.exporter.Write(rpt)
	if err != nil {
		return errors.Wrap(err, "writing report workbook")
	}

	filename := report.ExportFilename(rpt.ClassInfo.Name, time.Now())
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return ctx.Blob(http.StatusOK, api.exporter.ContentType(), buf.Bytes())
}
