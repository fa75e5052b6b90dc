package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/greencity/internal/auth/http"
	"github.com/aussiebroadwan/greencity/internal/auth/notify"
	"github.com/aussiebroadwan/greencity/internal/auth/service"
	"github.com/aussiebroadwan/greencity/internal/auth/store"
	"github.com/aussiebroadwan/greencity/internal/auth/store/drivers/postgres"
	"github.com/aussiebroadwan/greencity/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/greencity/pkg/cryptox"
	"github.com/aussiebroadwan/greencity/pkg/httpx"
	"github.com/aussiebroadwan/greencity/pkg/jwtx"
	"github.com/aussiebroadwan/greencity/pkg/slogx"
)

const (
	// BuildVersion is overridden at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// database is what the application needs from a store driver beyond
// store.Store.
type database interface {
	store.Store
	Ping(ctx context.Context) error
	Close() error
}

// Option customises an Application before its services are built.
type Option func(*Application)

// WithPublisher replaces the configured email publisher.
func WithPublisher(p notify.Publisher) Option {
	return func(app *Application) { app.publisher = p }
}

// WithLogger replaces the logger built from Config.
func WithLogger(l *slog.Logger) Option {
	return func(app *Application) { app.logger = l }
}

// Application encapsulates the user service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db         database
	keyManager *jwtx.KeyManager
	publisher  notify.Publisher

	tokenService        *service.TokenService
	ownSecurityService  *service.OwnSecurityService
	userService         *service.UserService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService
	keyRotationService  *service.KeyRotationService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application with every dependency initialized.
func New(cfg Config, opts ...Option) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{cfg: cfg}
	for _, opt := range opts {
		opt(app)
	}
	if app.logger == nil {
		app.logger = slogx.New(slogx.Config{
			Service: "user-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		})
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	// The database comes first: persistent keys live in it.
	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	ctx := slogx.WithContext(context.Background(), app.logger)
	keyManager, err := InitAuthKeys(ctx, app.cfg, app.db, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize JWT keys: %w", err)
	}
	app.keyManager = keyManager

	app.initPublisher()
	app.initServices()

	if err := app.bootstrapAdmin(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initHTTP()

	return app, nil
}

// Handler exposes the routed HTTP handler, for tests and embedding.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("user service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains the server, stops background work and closes the
// publisher and the database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down user service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.publisher.Close(); err != nil {
		app.logger.Error("error closing email publisher", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("user service stopped")
	return nil
}

// Close releases resources without touching the HTTP server. Use it when
// the application was only used through Handler.
func (app *Application) Close() error {
	if err := app.publisher.Close(); err != nil {
		app.logger.Error("error closing email publisher", "error", err)
	}
	return app.db.Close()
}

// initDatabase opens the configured driver and applies migrations.
func (app *Application) initDatabase() error {
	var (
		db  database
		err error
	)

	switch app.cfg.DatabaseDriver {
	case "postgres":
		var pg *postgres.Store
		pg, err = postgres.NewStore(app.cfg.DatabaseURL)
		db = pg
	default:
		var lite *sqlite.Store
		lite, err = sqlite.NewStore(app.cfg.DatabaseFile)
		db = lite
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.Ping(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to reach database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}
	app.db = db

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

// initPublisher picks Kafka when brokers are configured and falls back to
// logging the events.
func (app *Application) initPublisher() {
	if app.publisher != nil {
		return
	}

	if len(app.cfg.KafkaBrokers) > 0 {
		app.publisher = notify.NewKafkaPublisher(notify.KafkaConfig{
			Brokers:  app.cfg.KafkaBrokers,
			Topic:    app.cfg.KafkaTopic,
			Username: app.cfg.KafkaUsername,
			Password: app.cfg.KafkaPassword,
		})
		app.logger.Info("email events go to kafka", "brokers", app.cfg.KafkaBrokers, "topic", app.cfg.KafkaTopic)
		return
	}

	app.publisher = &notify.LogPublisher{Logger: app.logger}
	app.logger.Warn("no kafka brokers configured, email events are only logged")
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.tokenService = &service.TokenService{
		KeyManager: app.keyManager,
		Issuer:     app.cfg.Issuer,
		AccessTTL:  app.cfg.AccessTokenTTL,
		RefreshTTL: app.cfg.RefreshTokenTTL,
	}

	email := &service.EmailService{Publisher: app.publisher}

	app.ownSecurityService = &service.OwnSecurityService{
		Store:     app.db,
		Tokens:    app.tokenService,
		Email:     email,
		VerifyTTL: app.cfg.VerifyEmailTTL,
	}
	app.userService = &service.UserService{Store: app.db, Email: email}
	app.bootstrapService = &service.BootstrapService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)

	if app.cfg.KeyStorageMode == "persistent" {
		app.keyRotationService = &service.KeyRotationService{
			Store:       app.db,
			KeyManager:  app.keyManager,
			GracePeriod: app.cfg.KeyGracePeriod,
		}
		app.logger.Info("key rotation service enabled (persistent mode)")
	} else {
		// Rotation still works in memory; nothing is written to the store.
		app.keyRotationService = &service.KeyRotationService{
			KeyManager: app.keyManager,
		}
		app.logger.Info("key rotation service enabled (ephemeral mode)")
	}
}

func (app *Application) bootstrapAdmin(ctx context.Context) error {
	if app.cfg.BootstrapAdminEmail == "" {
		return nil
	}

	created, err := app.bootstrapService.EnsureAdmin(ctx,
		app.cfg.BootstrapAdminEmail,
		app.cfg.BootstrapAdminName,
		app.cfg.BootstrapAdminPassword,
	)
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}
	if created {
		app.logger.Info("bootstrap admin created", "email", app.cfg.BootstrapAdminEmail)
	}
	return nil
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.CORS = httpx.DefaultCORS(app.cfg.CORSAllowedOrigins)
	router.OwnSecurityService = app.ownSecurityService
	router.UserService = app.userService
	router.KeyRotationService = app.keyRotationService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
