// Package foodverse assembles the client: database, stores, notification
// center, REST client and auth service.
package foodverse

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/foodverse/foodverse/internal/core/api"
	"github.com/foodverse/foodverse/internal/core/auth"
	"github.com/foodverse/foodverse/internal/core/config"
	"github.com/foodverse/foodverse/internal/core/logging"
	"github.com/foodverse/foodverse/internal/core/notify"
	"github.com/foodverse/foodverse/internal/data/db"
	"github.com/foodverse/foodverse/internal/data/stores"
)

// App is the central entry point for foodverse operations. Commands and the
// dashboard consume App instead of wiring raw dependencies themselves.
type App struct {
	Config  *config.Config
	DB      *db.DB
	KV      *stores.KVStore
	History *stores.NotifyStore // nil when history is disabled
	Center  *notify.Center
	API     *api.Client
	Auth    *auth.Service
}

// Option adjusts how Open builds the App.
type Option func(*options)

type options struct {
	centerOpts []notify.Option
	apiOpts    []api.Option
}

// WithCenterOptions passes extra options to notify.NewCenter.
func WithCenterOptions(opts ...notify.Option) Option {
	return func(o *options) { o.centerOpts = append(o.centerOpts, opts...) }
}

// WithAPIOptions passes extra options to api.New.
func WithAPIOptions(opts ...api.Option) Option {
	return func(o *options) { o.apiOpts = append(o.apiOpts, opts...) }
}

// Open builds an App from cfg. A corrupt database is moved aside and
// recreated. The stored session is not restored; call Restore for that.
func Open(cfg *config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		DB:     database,
		KV:     stores.NewKVStore(database),
	}

	centerOpts := []notify.Option{
		notify.WithDefaultDuration(cfg.Notifications.DefaultDuration),
		notify.WithLogger(logging.Component("notify")),
	}
	if cfg.Notifications.HistoryEnabled() {
		a.History = stores.NewNotifyStore(database, cfg.Notifications.HistoryLimit)
		centerOpts = append(centerOpts, notify.WithHistory(a.History))
	}
	a.Center = notify.NewCenter(append(centerOpts, o.centerOpts...)...)

	// The client and the service reference each other: the client reads the
	// token from the service and tells it when the API rejects that token.
	var svc *auth.Service
	apiOpts := []api.Option{
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(logging.Component("api")),
		api.WithTokenSource(func() string { return svc.Token() }),
		api.WithUnauthorizedHandler(func() { svc.Invalidate() }),
	}
	a.API = api.New(cfg.API.BaseURL, append(apiOpts, o.apiOpts...)...)

	svc = auth.NewService(a.API, stores.NewSessionStore(a.KV), auth.WithLogger(logging.Component("auth")))
	a.Auth = svc

	return a, nil
}

func openDatabase(cfg *config.Config) (*db.DB, error) {
	opts := db.OpenOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	}

	database, err := db.Open(cfg.DataDir, opts)
	if err == nil {
		return database, nil
	}
	if !stores.IsCorruptionError(err) {
		return nil, fmt.Errorf("open database: %w", err)
	}

	backup, rerr := stores.RecoverFromCorruption(cfg.DataDir)
	if rerr != nil {
		return nil, fmt.Errorf("recover corrupt database: %w", rerr)
	}
	log.Warn().Str("backup", backup).Msg("database was corrupt, moved aside and recreated")

	database, err = db.Open(cfg.DataDir, opts)
	if err != nil {
		return nil, fmt.Errorf("open database after recovery: %w", err)
	}
	return database, nil
}

// Restore reloads the persisted session. An expired session is reported to
// the user as a warning notification rather than an error.
func (a *App) Restore(ctx context.Context) error {
	err := a.Auth.Restore(ctx)
	switch {
	case err == nil:
		if u, ok := a.Auth.Current(); ok {
			log.Debug().Ctx(logging.WithUserID(ctx, u.ID)).Msg("session restored")
		}
		return nil
	case errors.Is(err, auth.ErrSessionExpired):
		a.Center.Add(notify.Notification{
			Category: notify.CategoryWarning,
			Title:    "Session expired",
			Message:  "Please log in again.",
		})
		return nil
	default:
		return fmt.Errorf("restore session: %w", err)
	}
}

// Close stops the center's timers and closes the database.
func (a *App) Close() error {
	a.Center.Close()
	if err := a.DB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
