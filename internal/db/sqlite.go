package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/udisondev/gameattr/internal/preset"
)

// SQLitePresetRepository stores preset definitions in a local SQLite file.
// Uses the same schema and migrations as PostgreSQL.
type SQLitePresetRepository struct {
	db *sql.DB
}

var _ preset.Source = (*SQLitePresetRepository)(nil)

// OpenSQLite opens (creating if needed) the database at path and applies migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLitePresetRepository, error) {
	if path == "" {
		return nil, fmt.Errorf("empty sqlite path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating sqlite dir: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if _, err := sqlDB.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if err := RunSQLiteMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return &SQLitePresetRepository{db: sqlDB}, nil
}

// Close closes the database.
func (r *SQLitePresetRepository) Close() error {
	return r.db.Close()
}

func (r *SQLitePresetRepository) LoadDefinitions(ctx context.Context) ([]preset.Definition, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.name, e.tag, e.base_value
		FROM attribute_presets p
		LEFT JOIN attribute_preset_entries e ON e.preset_name = p.name
		ORDER BY p.name, e.position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying presets: %w", err)
	}
	defer rows.Close()

	var defs []preset.Definition
	for rows.Next() {
		var (
			name string
			tag  sql.NullString
			base sql.NullFloat64
		)
		if err := rows.Scan(&name, &tag, &base); err != nil {
			return nil, fmt.Errorf("scanning preset row: %w", err)
		}
		if tag.Valid && base.Valid {
			defs = appendEntry(defs, name, &tag.String, &base.Float64)
		} else {
			defs = appendEntry(defs, name, nil, nil)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating preset rows: %w", err)
	}

	return defs, nil
}

// Load returns one preset. Returns nil, nil if it does not exist.
func (r *SQLitePresetRepository) Load(ctx context.Context, name string) (*preset.Definition, error) {
	var exists string
	err := r.db.QueryRowContext(ctx, `SELECT name FROM attribute_presets WHERE name = ?`, name).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying preset %q: %w", name, err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT tag, base_value
		FROM attribute_preset_entries
		WHERE preset_name = ?
		ORDER BY position
	`, name)
	if err != nil {
		return nil, fmt.Errorf("querying entries for preset %q: %w", name, err)
	}
	defer rows.Close()

	def := &preset.Definition{Name: name}
	for rows.Next() {
		var e preset.Entry
		if err := rows.Scan(&e.Tag, &e.Base); err != nil {
			return nil, fmt.Errorf("scanning preset entry: %w", err)
		}
		def.Attributes = append(def.Attributes, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating preset entries: %w", err)
	}

	return def, nil
}

// Save replaces the preset with def in a single transaction.
func (r *SQLitePresetRepository) Save(ctx context.Context, def preset.Definition) error {
	if def.Name == "" {
		return preset.ErrEmptyName
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.Error("preset rollback failed", "preset", def.Name, "error", err)
		}
	}()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO attribute_presets (name, updated_at) VALUES (?, CURRENT_TIMESTAMP)
		ON CONFLICT (name) DO UPDATE SET updated_at = CURRENT_TIMESTAMP
	`, def.Name); err != nil {
		return fmt.Errorf("upserting preset %q: %w", def.Name, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM attribute_preset_entries WHERE preset_name = ?`, def.Name); err != nil {
		return fmt.Errorf("deleting entries of preset %q: %w", def.Name, err)
	}

	for i, e := range def.Attributes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO attribute_preset_entries (preset_name, position, tag, base_value) VALUES (?, ?, ?, ?)`,
			def.Name, i, e.Tag, e.Base,
		); err != nil {
			return fmt.Errorf("inserting entry %d of preset %q: %w", i, def.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing preset %q: %w", def.Name, err)
	}
	return nil
}

// Delete removes a preset and its entries. Deleting a missing preset is not an error.
func (r *SQLitePresetRepository) Delete(ctx context.Context, name string) error {
	// foreign_keys is per connection, so entries are not left to the cascade
	if _, err := r.db.ExecContext(ctx, `DELETE FROM attribute_preset_entries WHERE preset_name = ?`, name); err != nil {
		return fmt.Errorf("deleting entries of preset %q: %w", name, err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM attribute_presets WHERE name = ?`, name); err != nil {
		return fmt.Errorf("deleting preset %q: %w", name, err)
	}
	return nil
}
