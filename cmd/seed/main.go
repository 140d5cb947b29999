package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/okian/tabula/internal/seed"
	"github.com/okian/tabula/pkg/logger"
)

const defaultTimeout = 30 * time.Second

func main() {
	var (
		redisURL = flag.String("redis", "redis://localhost:6379/0", "URL of the shared document store")
		groups   = flag.String("groups", "teens,preteens", "Comma-separated groups to seed")
		force    = flag.Bool("force", false, "Overwrite groups that already have a document")
		timeout  = flag.Duration("timeout", defaultTimeout, "Overall run timeout")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cfg := &seed.Config{
		RedisURL: *redisURL,
		Groups:   strings.Split(*groups, ","),
		Force:    *force,
	}

	if err := seed.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("seeding failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
