// Package cliconfig holds CLI configuration with walship-style precedence:
// built-in defaults, then the TOML config file, then TESSCHED_* environment
// variables, then explicitly set flags.
package cliconfig

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config holds CLI configuration for tessched.
type Config struct {
	PointingPath string // spacecraft pointing table file
	PointingURL  string // remote source used by `tessched fetch`
	TargetsPath  string // target observation-sector assignments CSV
	CatalogPath  string // stellar catalog CSV (positions/magnitudes)

	Window  float64 // coverage half-window override, days (0 = derive)
	Workers int     // sweep worker count (0 = GOMAXPROCS)

	DBPath    string // SQLite result database ("" = disabled)
	ExportDir string // sweep snapshot directory ("" = disabled)
	ExportMax int    // snapshots kept before pruning

	Addr       string // serve listen address
	AuthToken  string // bearer token; empty disables auth
	TrustProxy bool   // honor X-Forwarded-For in request logs
	Watch      bool   // reload the pointing table on file change

	LogLevel string // debug, info, warn, error
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ExportMax: 5,
		Addr:      ":8080",
		LogLevel:  "info",
		AuthToken: os.Getenv("TESSCHED_AUTH_TOKEN"),
	}
}

// DefaultConfigPath returns $HOME/.tessched/config.toml, or "" when no
// home directory is known.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tessched", "config.toml")
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Window < 0 {
		return fmt.Errorf("window must be non-negative")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative")
	}
	if c.ExportMax <= 0 {
		c.ExportMax = 5
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}

// Logger builds the process logger: JSON to stderr at the configured level.
func (c *Config) Logger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
