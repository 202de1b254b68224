package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/flipdeck/internal/api"
	"github.com/phrazzld/flipdeck/internal/api/middleware"
	"github.com/phrazzld/flipdeck/internal/config"
	"github.com/phrazzld/flipdeck/internal/events"
	"github.com/phrazzld/flipdeck/internal/platform/postgres"
	"github.com/phrazzld/flipdeck/internal/service"
	"github.com/phrazzld/flipdeck/internal/service/auth"
	"github.com/phrazzld/flipdeck/internal/service/progress"
	"github.com/phrazzld/flipdeck/internal/service/sessions"
	"github.com/phrazzld/flipdeck/internal/store"
	"github.com/phrazzld/flipdeck/internal/task"
)

// progressTaskTimeout bounds a single progress write.
const progressTaskTimeout = 30 * time.Second

// application holds the shared dependencies of the server so they can be
// shut down in order.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userService service.UserService
	setService  service.SetService
	jwtService  auth.JWTService

	taskRunner *task.Runner
	recorder   *progress.Recorder
	progress   *progress.Service
	sessions   *sessions.Manager
}

// newApplication wires stores, services and background workers around an
// open database.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	userStore := postgres.NewPostgresUserStore(db, logger)
	setStore := postgres.NewPostgresSetStore(db, logger)
	cardStore := postgres.NewPostgresCardStore(db, logger)
	favoriteStore := postgres.NewPostgresFavoriteStore(db, logger)
	progressStore := postgres.NewPostgresProgressStore(db, logger)

	app.userService = service.NewUserService(userStore, auth.NewBcryptVerifier(cfg.Auth.BCryptCost), logger)
	app.setService = service.NewSetService(setStore, cardStore, favoriteStore, db, logger)
	app.progress = progress.NewService(progressStore)

	app.recorder, app.taskRunner = newProgressPipeline(progressStore, cfg.Task, logger)
	app.sessions = sessions.NewManager(app.setService, app.recorder, cfg.Session, logger)

	logger.Info("application initialized")
	return app, nil
}

// newProgressPipeline connects study summaries to the progress store:
// recorder -> event emitter -> task runner -> store. The runner is started.
func newProgressPipeline(
	progressStore store.ProgressStore,
	cfg config.TaskConfig,
	logger *slog.Logger,
) (*progress.Recorder, *task.Runner) {
	runner := task.NewRunner(task.RunnerConfig{
		WorkerCount: cfg.WorkerCount,
		QueueSize:   cfg.QueueSize,
		TaskTimeout: progressTaskTimeout,
	}, logger)
	runner.Start()

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(task.TaskTypeRecordProgress, task.NewTaskFactoryEventHandler(
		task.NewRecordProgressTaskFactory(progressStore, logger),
		runner,
		logger,
	))

	return progress.NewRecorder(emitter, logger), runner
}

// router builds the HTTP handler tree.
func (app *application) router() http.Handler {
	return api.NewRouter(api.RouterDeps{
		Auth:     api.NewAuthHandler(app.userService, app.jwtService, app.config.Auth, app.logger),
		Users:    api.NewUserHandler(app.userService, app.logger),
		Sets:     api.NewSetHandler(app.setService, app.logger),
		Sessions: api.NewSessionHandler(app.sessions, app.logger),
		Progress: api.NewProgressHandler(app.progress, app.logger),
		AuthMW:   middleware.NewAuthMiddleware(app.jwtService),
		Logger:   app.logger,
	})
}

// Run starts the session reaper and serves HTTP until shutdown.
func (app *application) Run(ctx context.Context) error {
	if err := app.sessions.Start(); err != nil {
		app.cleanup()
		return fmt.Errorf("failed to start session reaper: %w", err)
	}

	if err := app.startHTTPServer(ctx, app.router()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup closes live sessions, drains queued progress writes and closes
// the database, in that order.
func (app *application) cleanup() {
	if app.sessions != nil {
		app.sessions.Stop()
	}

	if app.taskRunner != nil {
		ctx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
		if err := app.taskRunner.Stop(ctx); err != nil {
			app.logger.Error("progress writes did not drain", "error", err)
		}
		cancel()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
