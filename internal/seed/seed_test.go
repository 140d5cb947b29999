package seed_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/okian/tabula/internal/adapters/remote"
	"github.com/okian/tabula/internal/domain/model"
	"github.com/okian/tabula/internal/seed"
	"github.com/okian/tabula/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newStore(t *testing.T) remote.DocStore {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return remote.NewRedisStoreWithClient(rdb)
}

func TestRunWithStore(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	log := logger.Named("seed_test")
	cfg := &seed.Config{Groups: []string{"teens", "preteens"}}

	if err := seed.RunWithStore(ctx, cfg, store, log); err != nil {
		t.Fatalf("seed: %v", err)
	}

	for _, group := range cfg.Groups {
		b, ok, err := store.Load(ctx, group)
		if err != nil || !ok {
			t.Fatalf("load %q: ok=%v err=%v", group, ok, err)
		}
		if len(b.Teens) != len(model.DefaultTeens()) {
			t.Fatalf("group %q: got %d teens", group, len(b.Teens))
		}
	}

	// A second run must not clobber live data.
	b, _, _ := store.Load(ctx, "teens")
	b.Teens = append(b.Teens, model.Teen{ID: "t9", Name: "Zeca"})
	if err := store.Save(ctx, "teens", b); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := seed.RunWithStore(ctx, cfg, store, log); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	b, _, _ = store.Load(ctx, "teens")
	if len(b.Teens) != len(model.DefaultTeens())+1 {
		t.Fatalf("reseed clobbered data: %d teens", len(b.Teens))
	}

	// Force resets to factory defaults.
	cfg.Force = true
	if err := seed.RunWithStore(ctx, cfg, store, log); err != nil {
		t.Fatalf("force seed: %v", err)
	}
	b, _, _ = store.Load(ctx, "teens")
	if len(b.Teens) != len(model.DefaultTeens()) {
		t.Fatalf("force seed kept extras: %d teens", len(b.Teens))
	}
}
