// Package cli implements the roomkit command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/roomkit/internal/config"
	"github.com/matzehuels/roomkit/pkg/catalog"
	"github.com/matzehuels/roomkit/pkg/engine"
	"github.com/matzehuels/roomkit/pkg/storage"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "roomkit"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	backend    string
	ephemeral  bool

	// newStore overrides storage selection; tests use it to share one
	// in-memory store across invocations.
	newStore func(ctx context.Context, cfg storage.Config) (storage.Store, error)
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		newStore: storage.Open,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Engine Factory
// =============================================================================

// session is an engine bound to its store for the length of one command.
type session struct {
	*engine.Engine
	cfg   config.Config
	store storage.Store
}

// Close releases the store.
func (s *session) Close() error { return s.store.Close() }

// loadConfig reads the config file named by --config or the default path,
// then applies the --storage and --ephemeral flags.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	if c.backend != "" {
		cfg.Storage.Backend = c.backend
	}
	if c.ephemeral {
		cfg.Storage.Backend = string(storage.BackendMemory)
	}
	return cfg, cfg.Validate()
}

func loadCatalog(cfg config.Config) (*catalog.Registry, error) {
	path := cfg.CatalogPath()
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(path)
}

// openSession loads config, opens storage and restores the saved room.
func (c *CLI) openSession(ctx context.Context) (*session, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	reg, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}
	store, err := c.openStore(ctx, cfg.StorageConfig())
	if err != nil {
		return nil, err
	}

	policy := cfg.Policy()
	eng, err := engine.New(engine.Options{
		Catalog:        reg,
		Store:          store,
		Policy:         &policy,
		HistoryLimit:   cfg.History.Limit,
		PersistHistory: cfg.History.Persist,
		ShareOrigin:    cfg.Share.Origin,
		Logger:         c.Logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	res := eng.Restore(ctx)
	if res.Err != nil {
		printWarning("Saved room unavailable: %v", res.Err)
	}
	c.Logger.Debug("session opened", "backend", cfg.Storage.Backend, "restore", res.Reason, "placed", res.Loaded)
	return &session{Engine: eng, cfg: cfg, store: store}, nil
}

// openStore opens the configured backend, showing a spinner for network
// backends.
func (c *CLI) openStore(ctx context.Context, sc storage.Config) (storage.Store, error) {
	if sc.Backend != storage.BackendRedis {
		return c.newStore(ctx, sc)
	}
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Connecting to redis at %s...", sc.RedisAddr))
	spinner.Start()
	store, err := c.newStore(ctx, sc)
	spinner.Stop()
	return store, err
}

// withSession runs fn against a freshly opened session and closes it.
func (c *CLI) withSession(cmd *cobra.Command, fn func(*session) error) error {
	s, err := c.openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()
	if err := fn(s); err != nil {
		return err
	}
	if err := s.LastPersistError(); err != nil {
		printWarning("Changes were not saved: %v", err)
	}
	return nil
}
