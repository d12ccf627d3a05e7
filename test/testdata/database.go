package testdata

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"go.uber.org/zap"
)

const (
	postgresImage = "postgres"
	postgresTag   = "16-alpine"
)

// migrationSource points at internal/database/migrations regardless of the
// package the test runs from.
func migrationSource() string {
	_, file, _, _ := runtime.Caller(0)
	dir := filepath.Join(filepath.Dir(file), "..", "..", "internal", "database", "migrations")
	return "file://" + dir
}

// PrepareDatabase starts a disposable PostgreSQL container, applies the
// migrations and returns a pool to it. The test is skipped when running with
// -short or when no Docker daemon is reachable.
func PrepareDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker is not available: %v", err)
	}
	err = pool.Client.Ping()
	if err != nil {
		t.Skipf("docker is not reachable: %v", err)
	}
	pool.MaxWait = 60 * time.Second

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: postgresImage,
		Tag:        postgresTag,
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=password",
			"POSTGRES_DB=survey",
			"listen_addresses='*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("failed to purge postgres container: %v", err)
		}
	})
	_ = resource.Expire(300)

	databaseURL := fmt.Sprintf("postgres://postgres:password@%s/survey?sslmode=disable", resource.GetHostPort("5432/tcp"))

	var dbPool *pgxpool.Pool
	err = pool.Retry(func() error {
		var err error
		dbPool, err = pgxpool.New(context.Background(), databaseURL)
		if err != nil {
			return err
		}
		err = dbPool.Ping(context.Background())
		if err != nil {
			dbPool.Close()
		}
		return err
	})
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}
	t.Cleanup(dbPool.Close)

	err = databaseutil.MigrationUp(migrationSource(), databaseURL, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return dbPool
}
