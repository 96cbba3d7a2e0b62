// Package echoapi exposes the dashboard over HTTP.
package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/attendance"
	"github.com/darasahq/darasa/core/comment"
	"github.com/darasahq/darasa/core/report"
	"github.com/darasahq/darasa/core/school"
	"github.com/darasahq/darasa/core/user"
	exportsvc "github.com/darasahq/darasa/services/export"
)

type (
	Options struct {
		Addr           string
		DisableReqLogs bool

		Logger         core.Logger
		UserSvc        user.Service
		SchoolSvc      *school.Service
		AttendanceSvc  *attendance.Service
		CommentSvc     *comment.Service
		ReportSvc      report.Service
		Exporter       *exportsvc.XLSXWriter
		SignalShutdown func()
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	signalShutdown := s.opts.SignalShutdown
	if signalShutdown == nil {
		signalShutdown = func() {}
	}
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, signalShutdown)
	s.app.Debug = core.Conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := configureAuth(core.Conf)

	registerUserAPI(v1, jwt, s.opts.UserSvc)
	registerSchoolAPI(v1, jwt, s.opts.SchoolSvc)
	registerAttendanceAPI(v1, jwt, s.opts.AttendanceSvc)
	registerCommentAPI(v1, jwt, s.opts.CommentSvc)
	registerCommentFormDataAPI(v1, jwt, s.opts.SchoolSvc)
	registerReportAPI(v1, jwt, s.opts.ReportSvc, s.opts.SchoolSvc, s.opts.Exporter)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Addr)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Darasa API!")
}
