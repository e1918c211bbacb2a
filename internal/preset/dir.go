package preset

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

// DirSource loads every *.yaml / *.yml file in Dir as one preset.
type DirSource struct {
	Dir         string
	Concurrency int
}

var _ Source = DirSource{}

func (s DirSource) LoadDefinitions(ctx context.Context) ([]Definition, error) {
	return LoadDir(ctx, s.Dir, s.Concurrency)
}

// LoadDir parses all preset files in dir concurrently.
// The result is ordered by file name so loading is deterministic.
func LoadDir(ctx context.Context, dir string, concurrency int) ([]Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading preset dir %s: %w", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	defs := make([]Definition, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			def, err := LoadFile(path)
			if err != nil {
				return err
			}
			defs[i] = def
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Debug("loaded preset files", "dir", dir, "count", len(defs))
	return defs, nil
}
