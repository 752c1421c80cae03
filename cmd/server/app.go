package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/woklearn/woklearn-api/internal/config"
	"github.com/woklearn/woklearn-api/internal/domain/picker"
	"github.com/woklearn/woklearn-api/internal/events"
	"github.com/woklearn/woklearn-api/internal/platform/postgres"
	"github.com/woklearn/woklearn-api/internal/service"
	"github.com/woklearn/woklearn-api/internal/service/auth"
	"github.com/woklearn/woklearn-api/internal/service/progress"
	"github.com/woklearn/woklearn-api/internal/store"
	"github.com/woklearn/woklearn-api/internal/task"
)

// auditQueueSize bounds the number of audit events waiting for a worker.
const auditQueueSize = 100

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore     store.UserStore
	paintingStore store.PaintingStore

	// Service interfaces
	tokenService     auth.TokenService
	passwordVerifier auth.PasswordVerifier
	passwordHasher   auth.PasswordHasher
	pickerService    picker.Service
	userService      service.UserService
	progressService  progress.Service

	// Audit pipeline: services emit events, a worker pool writes them to
	// the structured log off the request path.
	auditQueue  *task.Queue
	auditRunner *task.Runner
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger and
// database connection that must be established before application
// initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Password primitives
	app.passwordVerifier = auth.NewBcryptVerifier()
	app.passwordHasher = auth.NewBcryptHasher(bcrypt.DefaultCost)

	// Stores
	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.paintingStore = postgres.NewPostgresPaintingStore(db, logger)

	// Audit pipeline
	app.auditQueue = task.NewQueue(auditQueueSize, logger)
	app.auditRunner = task.NewRunner(app.auditQueue, task.DefaultRunnerConfig(), logger)
	auditHandler, err := task.NewAuditHandler(app.auditQueue, task.NewSlogAuditSink(logger), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create audit handler: %w", err)
	}
	emitter := events.NewInMemoryEmitter(logger)
	emitter.RegisterHandler(auditHandler)
	app.auditRunner.Start()

	// Token service
	app.tokenService, err = auth.NewTokenService(cfg.Auth, app.userStore, app.passwordVerifier, emitter)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	logger.Info("Token service initialized",
		"token_lifetime_seconds", cfg.Auth.TokenLifetimeSeconds)

	// Selection engine
	app.pickerService = picker.NewDefaultService()

	// Account service
	app.userService, err = service.NewUserService(app.userStore, app.passwordHasher, app.passwordVerifier, emitter)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	// Progress tracker
	app.progressService, err = progress.NewService(app.userStore, app.paintingStore, app.pickerService)
	if err != nil {
		return nil, fmt.Errorf("failed to create progress service: %w", err)
	}

	// Seed the default administrator account if configured.
	if cfg.Admin.Username != "" {
		if err := app.userService.SeedDefaultAdministrator(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
			return nil, fmt.Errorf("failed to seed default administrator: %w", err)
		}
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.auditQueue != nil {
		app.auditQueue.Close()
	}
	if app.auditRunner != nil {
		app.auditRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
