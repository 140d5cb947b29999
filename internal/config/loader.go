package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New(ctx))
//  2. file (YAML) if TABULA_CONFIG is set
//  3. env (prefix TABULA_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("TABULA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: TABULA_ADDR, TABULA_REDIS_URL, ...
	// Map env keys like TABULA_REDIS_URL -> redis_url (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("TABULA_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "tabula_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.DataPath == "" {
		return nil, fmt.Errorf("%w: data_path must not be empty", ErrInvalidConfig)
	}
	if len(cfg.Groups) == 0 {
		return nil, fmt.Errorf("%w: at least one group is required", ErrInvalidConfig)
	}
	if cfg.DebounceMS < 0 || cfg.WriteGuardMS < 0 {
		return nil, fmt.Errorf("%w: debounce_ms and write_guard_ms must not be negative", ErrInvalidConfig)
	}
	return &cfg, nil
}
