// Package config loads roomkit settings from a TOML or YAML file and the
// environment.
//
// A missing file is not an error: every field has a default, so a fresh
// install works without any configuration.
//
//	# ~/.config/roomkit/config.toml
//	catalog_file = "~/rooms/catalog.toml"
//	units = "cm"
//
//	[grid]
//	size = 0.5
//	threshold = 0.1
//	bounds = 6
//	lock_y = false
//
//	[storage]
//	backend = "sqlite"
//	sqlite_path = "/var/lib/roomkit/state.db"
//
//	[share]
//	origin = "https://rooms.example.com"
//
//	[history]
//	limit = 200
//	persist = true
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/roomkit/pkg/errors"
	"github.com/matzehuels/roomkit/pkg/geom"
	"github.com/matzehuels/roomkit/pkg/storage"
)

// Environment overrides.
const (
	EnvStorage   = "ROOMKIT_STORAGE"
	EnvRedisAddr = "ROOMKIT_REDIS_ADDR"
	EnvOrigin    = "ROOMKIT_SHARE_ORIGIN"
	EnvRedisDB   = "ROOMKIT_REDIS_DB"
)

// DefaultOrigin is the share link origin when none is configured.
const DefaultOrigin = "http://localhost:8080"

// Config is the full set of user settings.
type Config struct {
	Grid        Grid    `toml:"grid" yaml:"grid"`
	Storage     Storage `toml:"storage" yaml:"storage"`
	Share       Share   `toml:"share" yaml:"share"`
	History     History `toml:"history" yaml:"history"`
	CatalogFile string  `toml:"catalog_file" yaml:"catalog_file"`
	Units       string  `toml:"units" yaml:"units"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-" yaml:"-"`
}

// Grid configures drag-end snapping.
type Grid struct {
	Size      float64 `toml:"size" yaml:"size"`
	Threshold float64 `toml:"threshold" yaml:"threshold"`
	Bounds    float64 `toml:"bounds" yaml:"bounds"`
	LockY     bool    `toml:"lock_y" yaml:"lock_y"`
}

// Storage selects the durable backend.
type Storage struct {
	Backend       string `toml:"backend" yaml:"backend"`
	Dir           string `toml:"dir" yaml:"dir"`
	SQLitePath    string `toml:"sqlite_path" yaml:"sqlite_path"`
	RedisAddr     string `toml:"redis_addr" yaml:"redis_addr"`
	RedisPassword string `toml:"redis_password" yaml:"redis_password"`
	RedisDB       int    `toml:"redis_db" yaml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix" yaml:"redis_prefix"`
}

// Share configures share links.
type Share struct {
	Origin string `toml:"origin" yaml:"origin"`
}

// History configures undo/redo.
type History struct {
	Limit   int  `toml:"limit" yaml:"limit"`
	Persist bool `toml:"persist" yaml:"persist"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Grid: Grid{
			Size:      geom.DefaultGridSize,
			Threshold: geom.DefaultThreshold,
			Bounds:    geom.DefaultBounds,
		},
		Storage: Storage{Backend: string(storage.BackendFile), RedisPrefix: "roomkit:"},
		Share:   Share{Origin: DefaultOrigin},
		History: History{Persist: true},
		Units:   "cm",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/roomkit/config.toml, falling back to
// ~/.config/roomkit/config.toml.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "roomkit", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "roomkit", "config.toml"), nil
}

// Load reads the config at path, or DefaultPath() if path is empty, then
// applies environment overrides and validates the result. A missing
// default file yields defaults; a missing explicit path is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := Decode(path, data, &cfg); err != nil {
			return cfg, err
		}
		cfg.Path = path
	case os.IsNotExist(err) && !explicit:
	default:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Decode parses data into cfg, choosing YAML for .yaml/.yml files and TOML
// otherwise. Fields absent from data keep their current values.
func Decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
		}
	default:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return errors.New(errors.ErrCodeInvalidFormat, "%s: unknown key %q", path, undecoded[0].String())
		}
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvStorage); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Storage.RedisAddr = v
	}
	if v := os.Getenv(EnvOrigin); v != "" {
		c.Share.Origin = v
	}
	if v := os.Getenv(EnvRedisDB); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", EnvRedisDB, v)
		}
		c.Storage.RedisDB = n
	}
	return nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if err := c.Policy().Validate(); err != nil {
		return err
	}
	if !validBackend(c.Storage.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.RedisDB < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "redis_db cannot be negative")
	}
	if c.History.Limit < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "history limit cannot be negative")
	}
	if err := errors.ValidateOrigin(c.Share.Origin); err != nil {
		return err
	}
	switch c.Units {
	case "cm", "in":
	default:
		return errors.New(errors.ErrCodeInvalidInput, "units must be cm or in, got %q", c.Units)
	}
	return nil
}

func validBackend(name string) bool {
	for _, b := range storage.Backends() {
		if string(b) == name {
			return true
		}
	}
	return false
}

// Policy returns the snap policy described by the grid settings.
func (c Config) Policy() geom.Policy {
	return geom.Policy{
		GridSize:  c.Grid.Size,
		Threshold: c.Grid.Threshold,
		Bounds:    c.Grid.Bounds,
		LockY:     c.Grid.LockY,
	}
}

// StorageConfig returns the storage backend settings.
func (c Config) StorageConfig() storage.Config {
	return storage.Config{
		Backend:       storage.Backend(c.Storage.Backend),
		Dir:           expandHome(c.Storage.Dir),
		SQLitePath:    expandHome(c.Storage.SQLitePath),
		RedisAddr:     c.Storage.RedisAddr,
		RedisPassword: c.Storage.RedisPassword,
		RedisDB:       c.Storage.RedisDB,
		RedisPrefix:   c.Storage.RedisPrefix,
	}
}

// CatalogPath returns the catalog file with ~ expanded, or "".
func (c Config) CatalogPath() string { return expandHome(c.CatalogFile) }

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
