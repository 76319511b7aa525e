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

	"github.com/bastionlabs/adminauth/internal/adminauth/cache"
	"github.com/bastionlabs/adminauth/internal/adminauth/domain"
	httpapi "github.com/bastionlabs/adminauth/internal/adminauth/http"
	"github.com/bastionlabs/adminauth/internal/adminauth/rate"
	"github.com/bastionlabs/adminauth/internal/adminauth/service"
	"github.com/bastionlabs/adminauth/internal/adminauth/store"
	"github.com/bastionlabs/adminauth/internal/adminauth/store/drivers/sqlite"
	"github.com/bastionlabs/adminauth/pkg/mailx"
	"github.com/bastionlabs/adminauth/pkg/slogx"
	"github.com/bastionlabs/adminauth/pkg/sysinfo"
	"github.com/bastionlabs/adminauth/pkg/tokenx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Token salts, matched to the purpose of each codec. Secrets rotate; salts
// are part of the wire format and stay fixed.
const (
	confirmSalt = "email-confirm-salt"
	resetSalt   = "password-reset-salt"
	unlockSalt  = "unlock-account-salt"
)

// Application encapsulates the admin auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	cache  *cache.Cache
	mailer mailx.Sender

	// Services
	auditService       *service.AuditService
	sessionService     *service.SessionService
	secondFactor       *service.SecondFactorService
	guardService       *service.GuardService
	confirmService     *service.ConfirmService
	resetService       *service.ResetService
	unlockService      *service.UnlockService
	bootstrapService   *service.BootstrapService
	maintenanceService *service.MaintenanceService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "adminauth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.validateSecrets(); err != nil {
		return nil, err
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.cache = cache.New(cache.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	app.mailer = mailx.New(mailx.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})

	app.initServices()
	app.initHTTP()

	return app, nil
}

func (app *Application) validateSecrets() error {
	missing := []string{}
	for name, val := range map[string]string{
		"AUTH_SESSION_SECRET": app.cfg.SessionSecret,
		"AUTH_CONFIRM_SECRET": app.cfg.ConfirmSecret,
		"AUTH_RESET_SECRET":   app.cfg.ResetSecret,
		"AUTH_UNLOCK_SECRET":  app.cfg.UnlockSecret,
	} {
		if val == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required secrets: %v", missing)
	}
	return nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	ctx := context.Background()

	if app.cfg.BootstrapEmail != "" {
		err := app.bootstrapService.Bootstrap(ctx, domain.BootstrapData{
			Name:              app.cfg.BootstrapName,
			Email:             app.cfg.BootstrapEmail,
			Password:          app.cfg.BootstrapPassword,
			SecondaryPassword: app.cfg.BootstrapSecondaryPassword,
			TwoFactorEnabled:  app.cfg.BootstrapTwoFactor,
		})
		if err != nil {
			return fmt.Errorf("bootstrap failed: %w", err)
		}
	}

	app.maintenanceService.Start()

	app.logger.Info("adminauth service starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down adminauth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.maintenanceService.Stop()

	if err := app.cache.Close(); err != nil {
		app.logger.Error("error closing redis client", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("adminauth service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	collector := &sysinfo.Collector{
		GeoURL:          app.cfg.GeoURL,
		BoardSerialPath: app.cfg.BoardSerialPath,
	}

	limiter := rate.New(app.cache, app.cfg.RateLimitThreshold, app.cfg.RateLimitWindow)

	app.auditService = service.NewAuditService(app.db, app.logger)
	app.sessionService = service.NewSessionService(app.cache, app.cfg.SessionSecret)
	app.secondFactor = service.NewSecondFactorService(app.cache, app.mailer, app.auditService, app.logger)

	app.guardService = service.NewGuardService(
		app.db,
		limiter,
		app.sessionService,
		app.secondFactor,
		collector,
		app.mailer,
		app.auditService,
		app.logger,
	)

	app.confirmService = service.NewConfirmService(
		tokenx.New(app.cfg.ConfirmSecret, confirmSalt),
		app.mailer, app.logger, app.cfg.BaseURL,
	)
	app.resetService = service.NewResetService(
		app.db, limiter,
		tokenx.New(app.cfg.ResetSecret, resetSalt),
		app.mailer, app.auditService, app.logger, app.cfg.BaseURL,
	)
	app.unlockService = service.NewUnlockService(
		app.db, limiter,
		tokenx.New(app.cfg.UnlockSecret, unlockSalt),
		app.mailer, app.auditService, app.logger, app.cfg.BaseURL,
	)

	app.bootstrapService = service.NewBootstrapService(app.db, collector, app.logger)

	app.maintenanceService = service.NewMaintenanceService(
		app.db,
		app.cache,
		app.logger,
		app.cfg.CacheSweepInterval,
		app.cfg.FilingsInterval,
	)
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.cache,
		app.logger,
	)

	// Wire services to router
	router.GuardService = app.guardService
	router.SecondFactor = app.secondFactor
	router.ConfirmService = app.confirmService
	router.ResetService = app.resetService
	router.UnlockService = app.unlockService
	router.SessionService = app.sessionService
	router.MaintenanceService = app.maintenanceService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
