package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/udisondev/gameattr/internal/db/migrations"
)

// RunMigrations runs goose migrations on the given PostgreSQL DSN.
func RunMigrations(ctx context.Context, dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("opening sql connection for migrations: %w", err)
	}
	defer sqlDB.Close()

	return migrate(ctx, sqlDB, goose.DialectPostgres)
}

// RunSQLiteMigrations runs goose migrations on an open SQLite database.
func RunSQLiteMigrations(ctx context.Context, sqlDB *sql.DB) error {
	return migrate(ctx, sqlDB, goose.DialectSQLite3)
}

func migrate(ctx context.Context, sqlDB *sql.DB, dialect goose.Dialect) error {
	provider, err := goose.NewProvider(dialect, sqlDB, migrations.FS)
	if err != nil {
		return fmt.Errorf("creating goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
