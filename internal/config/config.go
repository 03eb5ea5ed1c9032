// Package config loads sheetboard.toml and applies environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"

	"SheetBoard/internal/store"
)

// DefaultPath is read when no -config flag is given.
const DefaultPath = "sheetboard.toml"

type Config struct {
	// UserID owns every sheet created by this install.
	UserID string       `toml:"user_id"`
	Canvas CanvasConfig `toml:"canvas"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

type CanvasConfig struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Background string `toml:"background"`
}

type StoreConfig struct {
	Backend     string `toml:"backend"`
	Path        string `toml:"path"`
	RedisAddr   string `toml:"redis_addr"`
	DatabaseURL string `toml:"database_url"`
}

type ServerConfig struct {
	Addr      string `toml:"addr"`
	Advertise bool   `toml:"advertise"`
	Instance  string `toml:"instance"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		UserID: "local",
		Canvas: CanvasConfig{Width: 1200, Height: 800, Background: "#ffffff"},
		Store: StoreConfig{
			Backend: string(store.BackendBolt),
			Path:    store.DefaultBoltPath,
		},
		Server: ServerConfig{Addr: ":8090", Advertise: true},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults, then applies the process environment.
// A missing file is not an error.
func Load(path string) (Config, error) {
	return load(path, os.Getenv)
}

func load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	cfg.applyEnv(getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("SHEETBOARD_STORE"); v != "" {
		c.Store.Backend = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Store.RedisAddr = v
	}
	if v := getenv("DATABASE_URL"); v != "" {
		c.Store.DatabaseURL = v
	}
	if v := getenv("SHEETBOARD_LOG"); v != "" {
		c.Log.Level = v
	}
}

// Validate rejects settings no component can run with.
func (c Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("config: canvas size %dx%d must be positive", c.Canvas.Width, c.Canvas.Height)
	}
	switch store.Backend(c.Store.Backend) {
	case store.BackendBolt, store.BackendRedis, store.BackendPostgres, store.BackendMemory:
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	return nil
}

// StoreOptions converts the store section for store.Open.
func (c Config) StoreOptions() store.Options {
	return store.Options{
		Backend:     store.Backend(c.Store.Backend),
		Path:        c.Store.Path,
		RedisAddr:   c.Store.RedisAddr,
		DatabaseURL: c.Store.DatabaseURL,
	}
}
