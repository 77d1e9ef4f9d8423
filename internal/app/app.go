// Package app wires the store, configuration, logger and catalog into
// per-learner sessions.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/abhisek/conjuga/internal/catalog"
	"github.com/abhisek/conjuga/internal/config"
	"github.com/abhisek/conjuga/internal/logging"
	"github.com/abhisek/conjuga/internal/session"
	"github.com/abhisek/conjuga/internal/store"
)

// Options selects where the app reads its state from.
type Options struct {
	DBPath     string    // empty = config db key, then store.DefaultDBPath
	ConfigPath string    // optional config file
	LogOutput  io.Writer // nil = os.Stderr
}

// App owns the shared resources of one process.
type App struct {
	Store   *store.Store
	Config  *config.Config
	Logger  *slog.Logger
	Catalog *catalog.Catalog
}

// Open loads configuration, builds the logger, opens the store and loads
// the verb catalog.
func Open(ctx context.Context, opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	logger, err := logging.New(out, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(opts.DBPath, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	cat, err := st.Verbs().Catalog(ctx)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	logger.Debug("app opened", slog.String("db", dbPath), slog.Int(logging.FieldCount, cat.Len()))
	return &App{Store: st, Config: cfg, Logger: logger, Catalog: cat}, nil
}

// resolveDBPath picks the flag value, then the configured path, then the
// default XDG location.
func resolveDBPath(flag, configured string) (string, error) {
	for _, p := range []string{flag, configured} {
		if p != "" {
			return p, store.EnsureDir(p)
		}
	}
	return store.DefaultDBPath()
}

// NewSession opens a session for userID over the app's store and starts its
// cache cleanup job.
func (a *App) NewSession(userID string) (*session.Session, error) {
	s, err := session.New(session.Options{
		UserID:   userID,
		Catalog:  a.Catalog,
		Ledger:   a.Store.Ledger(userID),
		Recorder: a.Store.Attempts(),
		Schedule: a.Store.Schedule(),
		Config:   a.Config,
		Logger:   a.Logger,
	})
	if err != nil {
		return nil, err
	}
	if err := s.StartCleanup(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// ReloadCatalog re-reads the verb catalog after an import.
func (a *App) ReloadCatalog(ctx context.Context) error {
	cat, err := a.Store.Verbs().Catalog(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	a.Catalog = cat
	return nil
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}
