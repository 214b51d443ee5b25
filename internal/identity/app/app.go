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

	httpapi "github.com/aussiebroadwan/identity/internal/identity/http"
	"github.com/aussiebroadwan/identity/internal/identity/service"
	"github.com/aussiebroadwan/identity/internal/identity/store"
	"github.com/aussiebroadwan/identity/internal/identity/store/drivers/sqlite"
	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/aussiebroadwan/identity/pkg/jwtx"
	"github.com/aussiebroadwan/identity/pkg/slogx"
	"github.com/aussiebroadwan/identity/pkg/validx"
)

const (
	// BuildVersion is overridden at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the identity service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db    store.Store
	codec *jwtx.Codec

	authService         *service.AuthService
	accountService      *service.AccountService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg Config, svc string) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: svc,
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// New creates an Application with every dependency initialised and the
// administrator seeded.
func New(ctx context.Context, cfg Config) (*Application, error) {
	app := &Application{
		cfg:    cfg,
		logger: NewLogger(cfg, "identity-service"),
	}

	if err := cryptox.LoadPepper(cfg.PepperFile); err != nil {
		return nil, err
	}

	db, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}
	app.db = db
	app.logger.Info("database migrations applied successfully")

	codec, err := jwtx.NewCodec(jwtx.Config{
		Secret:    []byte(cfg.JWTSecret),
		Issuer:    cfg.Issuer,
		AccessTTL: cfg.AccessTokenTTL,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}
	app.codec = codec

	app.initServices()

	if err := app.seedAdmin(slogx.WithContext(ctx, app.logger)); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := app.initHTTP(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

// OpenStore opens the configured database and applies migrations.
func OpenStore(cfg Config) (*sqlite.Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	return db, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("identity service starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown drains in-flight requests, stops housekeeping and closes the
// database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down identity service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("identity service stopped")
	return nil
}

func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:       app.db,
		Codec:       app.codec,
		Validator:   validx.New(),
		RefreshTTL:  app.cfg.RefreshTokenTTL,
		MaxSessions: app.cfg.MaxSessions,
		OpTimeout:   app.cfg.RefreshTimeout,
	}
	app.accountService = &service.AccountService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.HousekeepingRetention,
	)
}

func (app *Application) seedAdmin(ctx context.Context) error {
	seed := &service.SeedService{
		Store: app.db,
		Admin: service.AdminSeed{
			Username: app.cfg.Admin.Username,
			Email:    app.cfg.Admin.Email,
			Password: app.cfg.Admin.Password,
		},
	}

	created, generated, err := seed.EnsureAdmin(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed administrator: %w", err)
	}
	if created && generated != "" {
		// Shown once on the console, never through the structured log.
		fmt.Fprintf(os.Stderr, "generated password for administrator %q: %s\n", app.cfg.Admin.Username, generated)
	}
	return nil
}

func (app *Application) initHTTP() error {
	proxies, err := app.cfg.ProxyTrust()
	if err != nil {
		return fmt.Errorf("app: trusted proxies: %w", err)
	}

	router := httpapi.NewRouter(
		app.codec,
		BuildVersion,
		app.db,
		app.logger,
		app.authService,
		app.accountService,
	)
	router.Proxies = proxies
	router.ApplyRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
