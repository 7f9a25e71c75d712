package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/neexbeast/hajj-compare/internal/api"
	"github.com/neexbeast/hajj-compare/internal/cache"
	"github.com/neexbeast/hajj-compare/internal/catalog"
	"github.com/neexbeast/hajj-compare/internal/config"
	"github.com/neexbeast/hajj-compare/internal/ingest"
	"github.com/neexbeast/hajj-compare/internal/metrics"
	"github.com/neexbeast/hajj-compare/internal/scoring"
	"github.com/neexbeast/hajj-compare/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("loading config", "err", err)
		os.Exit(1)
	}

	log := cfg.Logger()
	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx := context.Background()

	// Connect to PostgreSQL.
	pool, err := storage.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	applied, err := storage.RunMigrations(ctx, pool, cfg.Database.MigrationsDir)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	log.Info("migrations applied", "count", len(applied), "files", applied)

	// Connect to Redis.
	redisClient, err := cache.Connect(ctx, cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer func() { _ = redisClient.Close() }()

	repo := storage.NewRepository(pool)
	catalogCache := cache.NewCache(redisClient, cfg.Catalog.CacheTTL)

	if cfg.Catalog.Path != "" {
		if err := preload(ctx, cfg.Catalog.Path, repo, catalogCache, log); err != nil {
			return err
		}
	}

	// Wire dependencies.
	assembler := catalog.NewAssembler(repo, log)
	engine := scoring.NewEngine(cfg.Scoring)
	handlers := api.NewHandlers(repo, catalogCache, assembler, engine, log)

	router := api.NewRouter(handlers, api.RouterConfig{
		Token:           cfg.Auth.BearerToken,
		RateLimit:       cfg.RateLimit.Requests,
		RateLimitWindow: cfg.RateLimit.Window,
	}, pool, catalogCache, log)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  4 * cfg.Server.ReadTimeout,
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("server goroutine panicked", "recover", r)
				errCh <- fmt.Errorf("server panicked: %v", r)
			}
		}()
		log.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("listening: %w", err)
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("server shut down cleanly")
	return nil
}

// preload replaces the stored preloaded catalog with the contents of path.
// A file with no valid records is an error; the stored catalog is kept.
func preload(ctx context.Context, path string, repo *storage.Repository, c *cache.Cache, log *slog.Logger) error {
	res, err := ingest.LoadFile(path)
	if err != nil {
		return fmt.Errorf("ingesting catalog: %w", err)
	}
	metrics.RecordIngest(res.Accepted(), len(res.Rejections))

	for _, rej := range res.Rejections {
		log.Warn("catalog record rejected",
			"line", rej.Line,
			"package_id", rej.PackageID,
			"reasons", rej.Reasons,
		)
	}
	if res.Accepted() == 0 {
		return fmt.Errorf("catalog %s has no valid records", path)
	}

	if err := repo.ReplacePreloaded(ctx, res.Packages); err != nil {
		return fmt.Errorf("storing preloaded catalog: %w", err)
	}
	if err := c.Invalidate(ctx); err != nil {
		log.Warn("catalog cache invalidation failed", "err", err)
	}

	log.Info("catalog preloaded", "path", path, "accepted", res.Accepted(), "rejected", len(res.Rejections))
	return nil
}
