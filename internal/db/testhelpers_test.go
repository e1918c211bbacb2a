package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// setupPostgres запускает PostgreSQL testcontainer, применяет миграции и возвращает pool.
// Пропускается в режиме -short (нет docker в CI по умолчанию).
func setupPostgres(tb testing.TB) *pgxpool.Pool {
	tb.Helper()
	if testing.Short() {
		tb.Skip("postgres container tests skipped in -short mode")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		tb.Fatalf("starting postgres container: %v", err)
	}
	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			tb.Logf("terminating postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		tb.Fatalf("getting connection string: %v", err)
	}

	if err := RunMigrations(ctx, dsn); err != nil {
		tb.Fatalf("running migrations: %v", err)
	}

	database, err := New(ctx, dsn)
	if err != nil {
		tb.Fatalf("connecting to test db: %v", err)
	}
	tb.Cleanup(database.Close)

	return database.Pool()
}
