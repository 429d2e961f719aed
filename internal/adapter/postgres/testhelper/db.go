// Package testhelper starts a disposable PostgreSQL for integration tests
// and seeds gloss rows into it.
package testhelper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/heartmarshall/wenyan-gloss/internal/adapter/postgres"
	"github.com/heartmarshall/wenyan-gloss/internal/config"
)

const (
	image       = "postgres:17-alpine"
	dbUser      = "gloss"
	dbPassword  = "gloss"
	dbName      = "gloss_test"
	startupWait = 120 * time.Second
)

var (
	once     sync.Once
	sharedDB config.DatabaseConfig
	initErr  error
)

// SetupTestDB starts one PostgreSQL container per test binary, applies the
// embedded migrations through postgres.Migrate and returns a fresh pool built
// by postgres.NewPool. The pool is closed via t.Cleanup; the container lives
// until the process exits. Skipped in -short mode.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("testhelper: skipping database test in -short mode")
	}

	once.Do(func() {
		sharedDB, initErr = startContainerAndMigrate()
	})
	if initErr != nil {
		t.Fatalf("testhelper: failed to setup test DB: %v", initErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, sharedDB)
	if err != nil {
		t.Fatalf("testhelper: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

// UniqueWord returns prefix plus a short random suffix so parallel tests
// never share a corpus_stats or dict_cache key.
func UniqueWord(prefix string) string {
	return prefix + uuid.New().String()[:8]
}

func startContainerAndMigrate() (config.DatabaseConfig, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupWait)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     dbUser,
				"POSTGRES_PASSWORD": dbPassword,
				"POSTGRES_DB":       dbName,
			},
			// The server logs readiness twice: once for the init run, once for real.
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return config.DatabaseConfig{}, fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return config.DatabaseConfig{}, fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return config.DatabaseConfig{}, fmt.Errorf("get mapped port: %w", err)
	}

	cfg := config.DatabaseConfig{
		DSN:             fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPassword, host, port.Port(), dbName),
		MaxConns:        5,
		MinConns:        0,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: time.Minute,
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return config.DatabaseConfig{}, err
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		return config.DatabaseConfig{}, err
	}
	return cfg, nil
}
