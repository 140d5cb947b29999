// Package seed populates group documents in the shared store with the
// factory defaults. Meant for first-time setup and local development.
package seed

import (
	"context"
	"fmt"

	"github.com/okian/tabula/internal/adapters/remote"
	"github.com/okian/tabula/internal/domain/model"
	"github.com/okian/tabula/pkg/logger"
)

// Config drives one seeding run.
type Config struct {
	// RedisURL points at the shared document store.
	RedisURL string

	// Groups to seed.
	Groups []string

	// Force overwrites documents that already exist.
	Force bool
}

// Run seeds every configured group. Existing documents are left alone
// unless Force is set.
func Run(ctx context.Context, cfg *Config) error {
	log := logger.Named("seed")

	store, err := remote.NewRedisStore(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() { _ = store.Close() }()

	return RunWithStore(ctx, cfg, store, log)
}

// RunWithStore is Run with the store injected, for tests and reuse.
func RunWithStore(ctx context.Context, cfg *Config, store remote.DocStore, log logger.Logger) error {
	for _, group := range cfg.Groups {
		_, exists, err := store.Load(ctx, group)
		if err != nil {
			return fmt.Errorf("load %q: %w", group, err)
		}
		if exists && !cfg.Force {
			log.Info(ctx, "group already seeded; skipping", logger.String("group", group))
			continue
		}
		if err := store.Save(ctx, group, model.DefaultBundle()); err != nil {
			return fmt.Errorf("seed %q: %w", group, err)
		}
		log.Info(ctx, "group seeded", logger.String("group", group))
	}
	return nil
}
