package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/gameattr/internal/preset"
)

// PostgresPresetRepository stores preset definitions in attribute_presets /
// attribute_preset_entries.
type PostgresPresetRepository struct {
	pool *pgxpool.Pool
}

var _ preset.Source = (*PostgresPresetRepository)(nil)

// NewPostgresPresetRepository creates a repository on pool.
func NewPostgresPresetRepository(pool *pgxpool.Pool) *PostgresPresetRepository {
	return &PostgresPresetRepository{pool: pool}
}

// LoadDefinitions returns all presets ordered by name, entries in stored order.
func (r *PostgresPresetRepository) LoadDefinitions(ctx context.Context) ([]preset.Definition, error) {
	rows, err := r.pool.Query(ctx, `
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
			tag  *string
			base *float64
		)
		if err := rows.Scan(&name, &tag, &base); err != nil {
			return nil, fmt.Errorf("scanning preset row: %w", err)
		}
		defs = appendEntry(defs, name, tag, base)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating preset rows: %w", err)
	}

	return defs, nil
}

// Load returns one preset. Returns nil, nil if it does not exist.
func (r *PostgresPresetRepository) Load(ctx context.Context, name string) (*preset.Definition, error) {
	var exists string
	err := r.pool.QueryRow(ctx, `SELECT name FROM attribute_presets WHERE name = $1`, name).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying preset %q: %w", name, err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT tag, base_value
		FROM attribute_preset_entries
		WHERE preset_name = $1
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
func (r *PostgresPresetRepository) Save(ctx context.Context, def preset.Definition) error {
	if def.Name == "" {
		return preset.ErrEmptyName
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("preset rollback failed", "preset", def.Name, "error", err)
		}
	}()

	if _, err := tx.Exec(ctx, `
		INSERT INTO attribute_presets (name, updated_at) VALUES ($1, now())
		ON CONFLICT (name) DO UPDATE SET updated_at = now()
	`, def.Name); err != nil {
		return fmt.Errorf("upserting preset %q: %w", def.Name, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM attribute_preset_entries WHERE preset_name = $1`, def.Name); err != nil {
		return fmt.Errorf("deleting entries of preset %q: %w", def.Name, err)
	}

	batch := &pgx.Batch{}
	for i, e := range def.Attributes {
		batch.Queue(
			`INSERT INTO attribute_preset_entries (preset_name, position, tag, base_value) VALUES ($1, $2, $3, $4)`,
			def.Name, i, e.Tag, e.Base,
		)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting entries of preset %q: %w", def.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing preset %q: %w", def.Name, err)
	}
	return nil
}

// Delete removes a preset and its entries. Deleting a missing preset is not an error.
func (r *PostgresPresetRepository) Delete(ctx context.Context, name string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM attribute_presets WHERE name = $1`, name); err != nil {
		return fmt.Errorf("deleting preset %q: %w", name, err)
	}
	return nil
}

// appendEntry folds one joined row into defs. Rows must be ordered by preset name.
// tag and base are nil for presets without entries.
func appendEntry(defs []preset.Definition, name string, tag *string, base *float64) []preset.Definition {
	if len(defs) == 0 || defs[len(defs)-1].Name != name {
		defs = append(defs, preset.Definition{Name: name})
	}
	if tag != nil && base != nil {
		last := &defs[len(defs)-1]
		last.Attributes = append(last.Attributes, preset.Entry{Tag: *tag, Base: *base})
	}
	return defs
}
