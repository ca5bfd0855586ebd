// Package server wires one coursehub service together: database, optional
// migrations, services, the REST endpoint and graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/coursehub/internal/i18n"
	"github.com/dmitrijs2005/coursehub/internal/logging"
	"github.com/dmitrijs2005/coursehub/internal/server/auth"
	"github.com/dmitrijs2005/coursehub/internal/server/config"
	"github.com/dmitrijs2005/coursehub/internal/server/httpapi"
	"github.com/dmitrijs2005/coursehub/internal/server/peers"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/coursehub/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *httpapi.Server
}

// NewApp opens the database and builds the routes of cfg.ServiceName.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, cfg.ServiceName, parseLevel(cfg.LogLevel))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	if cfg.RunMigrations {
		if err := rm.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrations error: %w", err)
		}
	}

	codec := auth.NewCodec([]byte(cfg.JWT.Key))
	srv := httpapi.NewServer(cfg, logger, codec, i18n.Default())

	switch cfg.ServiceName {
	case config.ServiceAuth:
		srv.RegisterAuthRoutes(services.NewAuthService(db, rm, codec, cfg))
	case config.ServiceUser:
		srv.RegisterUserRoutes(services.NewUserService(db, rm,
			peers.NewPayments(cfg.Peers.PaymentURL, peers.DefaultTimeout),
			peers.NewCourses(cfg.Peers.CourseURL, peers.DefaultTimeout)))
	case config.ServiceCourse:
		srv.RegisterCourseRoutes(services.NewCourseService(db, rm,
			peers.NewPayments(cfg.Peers.PaymentURL, peers.DefaultTimeout)))
	case config.ServicePayment:
		srv.RegisterPaymentRoutes(services.NewPaymentService(db, rm,
			peers.NewUsers(cfg.Peers.UserURL, peers.DefaultTimeout),
			peers.NewCourses(cfg.Peers.CourseURL, peers.DefaultTimeout)))
	default:
		db.Close()
		return nil, fmt.Errorf("unknown service %q", cfg.ServiceName)
	}

	return &App{config: cfg, logger: logger, db: db, http: srv}, nil
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until a termination signal arrives or the server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "service", app.config.ServiceName)

	app.initSignalHandler(cancelFunc)

	defer app.db.Close()

	if err := app.http.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}
