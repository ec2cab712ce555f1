// Package app wires the profile client together: configuration, logging,
// the key-value storage, the session, alerts, the profile store and the UI
// API router. It also runs the UI API server with graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/patric-chuzhbe/wordprofile/internal/alert"
	"github.com/patric-chuzhbe/wordprofile/internal/apiclient"
	"github.com/patric-chuzhbe/wordprofile/internal/config"
	"github.com/patric-chuzhbe/wordprofile/internal/db/jsondb"
	"github.com/patric-chuzhbe/wordprofile/internal/db/memorystorage"
	"github.com/patric-chuzhbe/wordprofile/internal/db/postgresdb"
	"github.com/patric-chuzhbe/wordprofile/internal/db/storage"
	"github.com/patric-chuzhbe/wordprofile/internal/ipchecker"
	"github.com/patric-chuzhbe/wordprofile/internal/logger"
	"github.com/patric-chuzhbe/wordprofile/internal/models"
	"github.com/patric-chuzhbe/wordprofile/internal/router"
	"github.com/patric-chuzhbe/wordprofile/internal/session"
	"github.com/patric-chuzhbe/wordprofile/internal/store"
)

const (
	alertFeedCapacity = 50
	shutdownTimeout   = 10 * time.Second
)

// App holds everything a command needs.
type App struct {
	cfg         *config.Config
	db          storage.Storage
	sessions    *session.Manager
	alerts      *alert.Feed
	profiles    *store.Controller
	httpHandler http.Handler
}

// New initializes a new instance of App by:
// - loading configuration
// - initializing logger
// - selecting and setting up storage
// - restoring the session
// - setting up the profile store and the router
func New(configOptions ...config.InitOption) (*App, error) {
	var err error
	app := &App{}

	app.cfg, err = config.New(configOptions...)
	if err != nil {
		return nil, err
	}

	err = logger.Init(app.cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	app.db, err = getStorageByType(app.cfg)
	if err != nil {
		return nil, err
	}

	app.sessions = session.New(app.db)
	ctx := context.Background()
	if app.cfg.AuthToken != "" {
		err = app.rememberToken(ctx, app.cfg.AuthToken)
		if err != nil {
			return nil, errors.Join(err, app.db.Close())
		}
	}

	cachedUserID, err := app.sessions.UserID(ctx)
	if err != nil {
		return nil, errors.Join(err, app.db.Close())
	}

	checker, err := ipchecker.New(app.cfg.TrustedSubnet)
	if err != nil {
		return nil, errors.Join(err, app.db.Close())
	}

	app.alerts = alert.NewFeed(alertFeedCapacity)
	app.profiles = store.New(
		apiclient.New(
			app.cfg.ServerURL,
			app.cfg.RequestTimeout,
			apiclient.WithTokenSource(app.sessions),
		),
		alert.Multi{alert.LogAlerter{}, app.alerts},
		app.sessions,
		cachedUserID,
	)
	app.httpHandler = router.New(app.profiles, app.alerts, app.db, checker)

	return app, nil
}

// Config returns the loaded configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Store returns the profile store.
func (a *App) Store() *store.Controller {
	return a.profiles
}

// Alerts returns the feed of alerts raised by the store.
func (a *App) Alerts() *alert.Feed {
	return a.alerts
}

// Sessions returns the session manager.
func (a *App) Sessions() *session.Manager {
	return a.sessions
}

// Run starts the UI API server with graceful shutdown support.
// It listens for system signals and cleans up resources upon termination.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Log.Infoln("server running", "RunAddr", a.cfg.RunAddr, "ServerURL", a.cfg.ServerURL)

	server := &http.Server{
		Addr:    a.cfg.RunAddr,
		Handler: a.httpHandler,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Log.Infoln("Received shutdown signal. Closing storage and exiting...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		return nil

	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}
}

// Close flushes the storage and the logger.
func (a *App) Close() {
	if err := a.db.Close(); err != nil {
		logger.Log.Errorln("Error calling the `a.db.Close()`: ", zap.Error(err))
	}
	if err := logger.Sync(); err != nil {
		fmt.Println("Logger sync error:", err)
	}
}

// rememberToken caches a configured API token together with the user id
// taken from its claims.
func (a *App) rememberToken(ctx context.Context, token string) error {
	userID, err := session.UserIDFromToken(token)
	if err != nil {
		return fmt.Errorf("in internal/app/app.go/rememberToken(): error while `session.UserIDFromToken()` calling: %w", err)
	}

	return a.sessions.Remember(ctx, userID, token)
}

func getAvailableStorageType(cfg *config.Config) int {
	if cfg.DatabaseDSN != "" {
		return models.StorageTypePostgresql
	}

	if cfg.DBFileName != "" {
		return models.StorageTypeFile
	}

	return models.StorageTypeMemory
}

func getStorageByType(cfg *config.Config) (storage.Storage, error) {
	switch getAvailableStorageType(cfg) {
	case models.StorageTypeUnknown:
		return nil, errors.New("unknown storage type")

	case models.StorageTypePostgresql:
		return postgresdb.New(
			context.Background(),
			cfg.DatabaseDSN,
			cfg.DBConnectionTimeout,
			cfg.MigrationsDir,
		)

	case models.StorageTypeFile:
		return jsondb.New(cfg.DBFileName)
	}

	return memorystorage.New()
}
