// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Layer file and environment overrides in Load.
// - External errors must be wrapped via this package's sentinels.
package config

import (
	"context"
	"time"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataPath locates the local bolt database file.
	DataPath string `koanf:"data_path"`

	// RedisURL points at the shared document store, e.g.
	// "redis://localhost:6379/0".
	RedisURL string `koanf:"redis_url"`

	// Groups lists the independent scoreboard partitions.
	Groups []string `koanf:"groups"`

	// AdminAccount is the single admin identity.
	AdminAccount string `koanf:"admin_account"`

	// AdminPasswordHash is the bcrypt hash of the admin password.
	AdminPasswordHash string `koanf:"admin_password_hash"`

	// DebounceMS delays the remote save after a local mutation; later
	// mutations within the window replace the pending payload.
	DebounceMS int `koanf:"debounce_ms"`

	// WriteGuardMS keeps echo suppression armed after a save completes.
	WriteGuardMS int `koanf:"write_guard_ms"`

	// MaxStandingsLimit caps GET /standings?limit.
	MaxStandingsLimit int `koanf:"max_standings_limit"`
}

// New creates a Config with defaults. Context is reserved for future
// loading hooks and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		DataPath:          "tabula.db",
		RedisURL:          "redis://localhost:6379/0",
		Groups:            []string{"teens", "preteens"},
		AdminAccount:      "admin@local",
		DebounceMS:        300,
		WriteGuardMS:      250,
		MaxStandingsLimit: 100,
	}
}

// Debounce returns DebounceMS as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// WriteGuard returns WriteGuardMS as a duration.
func (c *Config) WriteGuard() time.Duration {
	return time.Duration(c.WriteGuardMS) * time.Millisecond
}
