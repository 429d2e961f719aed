package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/wenyan-gloss/internal/adapter/postgres"
	"github.com/heartmarshall/wenyan-gloss/internal/adapter/postgres/dictcache"
	"github.com/heartmarshall/wenyan-gloss/internal/adapter/provider/zdic"
	"github.com/heartmarshall/wenyan-gloss/internal/adapter/sqlite"
	"github.com/heartmarshall/wenyan-gloss/internal/config"
	"github.com/heartmarshall/wenyan-gloss/internal/service/definition"
)

// Run is the server entry point. It loads configuration and the corpus,
// connects to PostgreSQL, serves the REST API and shuts down gracefully on
// SIGINT or SIGTERM. A malformed corpus aborts startup.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	corp, err := LoadCorpus(ctx, cfg.Corpus, cfg.Frequency.Weights())
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}
	logger.Info("corpus loaded",
		slog.Int("notes", corp.Len()),
		slog.Int("indexed", corp.Indexed()),
		slog.Int("words", corp.Words()),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	defs, closeDefs, err := NewDefinitionService(logger, cfg.Zdic, pool)
	if err != nil {
		return err
	}
	defer closeDefs()

	handler, cleanup := NewHandler(logger, cfg, corp, pool, defs)
	defer cleanup()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

// NewDefinitionService wires the dictionary scraper to the configured cache.
// It returns a nil service when the dictionary is disabled.
func NewDefinitionService(logger *slog.Logger, cfg config.ZdicConfig, pool *pgxpool.Pool) (*definition.Service, func(), error) {
	noop := func() {}
	if !cfg.Enabled {
		logger.Info("dictionary disabled")
		return nil, noop, nil
	}

	provider := zdic.NewProviderWithURL(cfg.BaseURL, cfg.Timeout, logger)

	switch cfg.Cache {
	case config.CacheSQLite:
		cache, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, noop, fmt.Errorf("open definition cache: %w", err)
		}
		closeFn := func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close definition cache", slog.String("error", err.Error()))
			}
		}
		return definition.NewService(logger, cache, provider), closeFn, nil
	default:
		return definition.NewService(logger, dictcache.New(pool), provider), noop, nil
	}
}
