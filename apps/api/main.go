package main

import (
	"context"
	"expvar"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	echoapi "github.com/darasahq/darasa/apps/api/echo"
	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/attendance"
	"github.com/darasahq/darasa/core/comment"
	"github.com/darasahq/darasa/core/report"
	"github.com/darasahq/darasa/core/school"
	"github.com/darasahq/darasa/core/user"
	emailsvc "github.com/darasahq/darasa/services/email"
	sendgridmail "github.com/darasahq/darasa/services/email/sendgrid"
	exportsvc "github.com/darasahq/darasa/services/export"
	logsvc "github.com/darasahq/darasa/services/logger"
	"github.com/darasahq/darasa/storage/database"
	sqlxrepos "github.com/darasahq/darasa/storage/database/sqlx"
)

var build = "develop"

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.LoadConfig()
	if build != "develop" {
		conf.Build = build
	}

	logger := logsvc.NewRollbarLogger(std, conf)
	logger.Enable(!(conf.Debug || conf.TestMode))

	if err := run(conf, logger); err != nil {
		logger.Fatal("running API", err)
	}
}

func run(conf *core.Config, logger core.Logger) error {
	expvar.NewString("build").Set(conf.Build)
	logger.Info("application initializing", map[string]interface{}{"version": conf.Build})
	defer logger.Info("application stopped")

	// ---- database
	db, err := database.Open(conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() {
		logger.Info("database stopping")
		_ = db.Close()
	}()

	// ---- services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = sendgridmail.NewService(conf, logger)
	}

	userRepo := sqlxrepos.NewUserRepository(db)
	schoolRepo := sqlxrepos.NewSchoolRepository(db)
	attendanceRepo := sqlxrepos.NewAttendanceRepository(db)
	commentRepo := sqlxrepos.NewCommentRepository(db)

	policy := school.NewPolicy(schoolRepo)
	usrSvc := user.NewService(userRepo, mailSvc, conf)
	schoolSvc := school.NewService(schoolRepo)
	attendanceSvc := attendance.NewService(attendanceRepo, policy, schoolRepo)
	commentSvc := comment.NewService(commentRepo, policy, schoolRepo)
	reportSvc := report.NewService(schoolRepo, commentRepo, policy)

	user.InitValidators(core.Validate, core.Translator)
	comment.InitValidators(core.Validate, core.Translator)

	// ---- debug server (standard library handlers + expvar/pprof)
	go func() {
		logger.Info("debug server listening", map[string]interface{}{"addr": conf.Server.DebugHost})
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error("debug server closed", err)
		}
	}()

	// ---- API server
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	app := echoapi.NewServer(&echoapi.Options{
		Addr:           conf.Server.Addr,
		Logger:         logger,
		UserSvc:        usrSvc,
		SchoolSvc:      schoolSvc,
		AttendanceSvc:  attendanceSvc,
		CommentSvc:     commentSvc,
		ReportSvc:      reportSvc,
		Exporter:       exportsvc.NewXLSXWriter(),
		SignalShutdown: func() { shutdown <- syscall.SIGTERM },
	})

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API server listening", map[string]interface{}{"addr": conf.Server.Addr})
		serverErrors <- app.Start()
	}()

	select {
	case err := <-serverErrors:
		return errors.Wrap(err, "server error")
	case sig := <-shutdown:
		logger.Info("shutdown started", map[string]interface{}{"signal": sig.String()})
		defer logger.Info("shutdown complete")

		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err := app.Stop(ctx); err != nil {
			return errors.Wrap(err, "stopping server gracefully")
		}
	}
	return nil
}
