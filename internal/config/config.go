// Package config loads RecipeBox settings from a YAML file, a .env file and
// RECIPEBOX_* environment variables, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/recipebox/internal/logger"
)

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Cook    CookConfig    `yaml:"cook"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	ReadTimeout  string `yaml:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout"`
}

// StorageConfig says where data lives.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
	RecipesDir   string `yaml:"recipes_dir"`
	WatchRecipes bool   `yaml:"watch_recipes"`
}

// CookConfig tunes cook session housekeeping.
type CookConfig struct {
	SessionTTL    string `yaml:"session_ttl"`
	SweepInterval string `yaml:"sweep_interval"`
	NudgeAfter    string `yaml:"nudge_after"`
	WatchInterval string `yaml:"watch_interval"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `yaml:"level"` // off, normal, verbose
	File  string `yaml:"file"`  // empty means stderr
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  "15s",
			WriteTimeout: "15s",
		},
		Storage: StorageConfig{
			DatabasePath: filepath.Join("data", "recipebox.db"),
			RecipesDir:   "",
			WatchRecipes: true,
		},
		Cook: CookConfig{
			SessionTTL:    "2h",
			SweepInterval: "30s",
			NudgeAfter:    "15m",
			WatchInterval: "5m",
		},
		Log: LogConfig{
			Level: "normal",
		},
	}
}

// Load reads path (a missing file yields defaults), then applies .env and
// environment overrides. envFile may be empty to skip .env loading.
func Load(path, envFile string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if envFile != "" {
		// godotenv never overrides variables already set in the process.
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies RECIPEBOX_* environment variables.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("RECIPEBOX_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("RECIPEBOX_DB"); v != "" {
		c.Storage.DatabasePath = v
	}
	if v := os.Getenv("RECIPEBOX_RECIPES_DIR"); v != "" {
		c.Storage.RecipesDir = v
	}
	if v := os.Getenv("RECIPEBOX_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks that every duration parses and required fields are set.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Storage.DatabasePath == "" {
		return fmt.Errorf("storage.database_path is required")
	}

	durations := map[string]string{
		"server.read_timeout":  c.Server.ReadTimeout,
		"server.write_timeout": c.Server.WriteTimeout,
		"cook.session_ttl":     c.Cook.SessionTTL,
		"cook.sweep_interval":  c.Cook.SweepInterval,
		"cook.nudge_after":     c.Cook.NudgeAfter,
		"cook.watch_interval":  c.Cook.WatchInterval,
	}
	for name, raw := range durations {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}

	switch c.Log.Level {
	case "off", "quiet", "none", "normal", "info", "verbose", "debug":
	default:
		return fmt.Errorf("invalid log.level: %s (valid: off, normal, verbose)", c.Log.Level)
	}
	return nil
}

func parseOr(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// GetReadTimeout returns the HTTP read timeout.
func (c *Config) GetReadTimeout() time.Duration {
	return parseOr(c.Server.ReadTimeout, 15*time.Second)
}

// GetWriteTimeout returns the HTTP write timeout.
func (c *Config) GetWriteTimeout() time.Duration {
	return parseOr(c.Server.WriteTimeout, 15*time.Second)
}

// GetSessionTTL returns how long an untouched cook session survives.
func (c *Config) GetSessionTTL() time.Duration {
	return parseOr(c.Cook.SessionTTL, 2*time.Hour)
}

// GetSweepInterval returns how often idle sessions are swept.
func (c *Config) GetSweepInterval() time.Duration {
	return parseOr(c.Cook.SweepInterval, 30*time.Second)
}

// GetNudgeAfter returns how long a session idles before a nudge.
func (c *Config) GetNudgeAfter() time.Duration {
	return parseOr(c.Cook.NudgeAfter, 15*time.Minute)
}

// GetWatchInterval returns how often the nudge watcher runs.
func (c *Config) GetWatchInterval() time.Duration {
	return parseOr(c.Cook.WatchInterval, 5*time.Minute)
}

// LogLevel returns the configured logger level.
func (c *Config) LogLevel() logger.Level {
	return logger.ParseLevel(c.Log.Level)
}
