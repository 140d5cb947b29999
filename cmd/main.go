package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/tabula/internal/adapters/http/api"
	"github.com/okian/tabula/internal/adapters/http/site"
	"github.com/okian/tabula/internal/adapters/http/swagger"
	"github.com/okian/tabula/internal/adapters/localstore"
	"github.com/okian/tabula/internal/adapters/remote"
	service "github.com/okian/tabula/internal/app"
	"github.com/okian/tabula/internal/auth"
	"github.com/okian/tabula/internal/config"
	"github.com/okian/tabula/pkg/logger"
	"github.com/okian/tabula/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Local mirror keeps the board readable while offline.
	local, err := localstore.Open(cfg.DataPath)
	if err != nil {
		log.Error(ctx, "failed to open local store", logger.String("path", cfg.DataPath), logger.Error(err))
		return
	}
	defer func() { _ = local.Close() }()

	// Shared document store for cross-client sync.
	docs, err := remote.NewRedisStore(cfg.RedisURL)
	if err != nil {
		log.Error(ctx, "failed to connect to document store", logger.String("url", cfg.RedisURL), logger.Error(err))
		return
	}
	defer func() { _ = docs.Close() }()

	// Admin identity. Without a configured hash the board is read-only.
	var verifier auth.Verifier
	if cfg.AdminPasswordHash == "" {
		log.Warn(ctx, "no admin_password_hash configured; running read-only")
		verifier = auth.DenyVerifier{}
	} else {
		verifier, err = auth.NewBcryptVerifier(cfg.AdminAccount, cfg.AdminPasswordHash)
		if err != nil {
			log.Error(ctx, "failed to configure admin credentials", logger.Error(err))
			return
		}
	}
	session := auth.NewSession(cfg.AdminAccount, verifier)

	svc := service.New(local, docs, session,
		service.WithLogger(log),
		service.WithGroups(cfg.Groups),
		service.WithDebounce(cfg.Debounce()),
		service.WithGuardDelay(cfg.WriteGuard()),
		service.WithConfirmer(api.RequestConfirmer()),
	)
	defer svc.Close()

	if len(cfg.Groups) > 0 {
		if err := svc.EnterGroup(ctx, cfg.Groups[0]); err != nil {
			log.Error(ctx, "failed to enter initial group", logger.String("group", cfg.Groups[0]), logger.Error(err))
			return
		}
	}

	// HTTP mux and routes.
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	// Scoreboard page at / and API docs under /api-docs.
	site.Register(ctx, mux)
	swagger.Register(ctx, mux)

	apiServer := api.NewServer(svc, cfg.MaxStandingsLimit)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}
