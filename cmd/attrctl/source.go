package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/udisondev/gameattr/internal/config"
	"github.com/udisondev/gameattr/internal/db"
	"github.com/udisondev/gameattr/internal/preset"
	"github.com/udisondev/gameattr/internal/tag"
)

var errNoDatabase = errors.New("preset source is not a database")

// presetStore is a writable preset source.
type presetStore interface {
	preset.Source
	Save(ctx context.Context, def preset.Definition) error
}

// openSource returns the configured preset source and a func releasing it.
func openSource(ctx context.Context, cfg config.Config) (preset.Source, func(), error) {
	if cfg.Presets.Source == config.SourceFile {
		src := preset.DirSource{Dir: cfg.Presets.Dir, Concurrency: cfg.Presets.LoadConcurrency}
		return src, func() {}, nil
	}
	return openStore(ctx, cfg)
}

// openStore opens the configured database preset store.
func openStore(ctx context.Context, cfg config.Config) (presetStore, func(), error) {
	switch cfg.Presets.Source {
	case config.SourcePostgres:
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, nil, err
		}
		return database.Presets(), database.Close, nil
	case config.SourceSQLite:
		repo, err := db.OpenSQLite(ctx, cfg.Presets.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil
	case config.SourceFile:
		return nil, nil, errNoDatabase
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownSource, cfg.Presets.Source)
	}
}

// loadLibrary registers configured tags and loads all presets.
func loadLibrary(ctx context.Context, cfg config.Config) (*preset.Library, error) {
	reg := tag.NewRegistry()
	for _, name := range cfg.Tags {
		if _, err := reg.Register(name); err != nil {
			return nil, fmt.Errorf("registering configured tag: %w", err)
		}
	}

	src, closeSrc, err := openSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeSrc()

	return preset.Load(ctx, reg, src)
}
