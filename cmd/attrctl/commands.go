package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/udisondev/gameattr/internal/attribute"
	"github.com/udisondev/gameattr/internal/config"
	"github.com/udisondev/gameattr/internal/db"
	"github.com/udisondev/gameattr/internal/preset"
	"github.com/udisondev/gameattr/internal/tag"
)

func runList(ctx context.Context, cfg config.Config, out io.Writer) error {
	lib, err := loadLibrary(ctx, cfg)
	if err != nil {
		return err
	}
	for _, name := range lib.Names() {
		p, _ := lib.Get(name)
		fmt.Fprintf(out, "%s\t%d attributes\n", name, len(p.Attributes))
	}
	return nil
}

// stringList collects repeated flag values.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func runShow(ctx context.Context, cfg config.Config, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("show: preset name required")
	}
	name := args[0]

	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	var mods, sets, fills stringList
	fs.Var(&mods, "mod", "modifier Tag:Type:Value (repeatable)")
	fs.Var(&sets, "set", "override Tag=Value applied at construction (repeatable)")
	fs.Var(&fills, "fill", "set Tag to the value of Tag.Max if unset (repeatable)")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	lib, err := loadLibrary(ctx, cfg)
	if err != nil {
		return err
	}
	reg := lib.Tags()

	overrides := make([]attribute.Initializer, 0, len(sets))
	for _, s := range sets {
		in, err := parseOverride(reg, s)
		if err != nil {
			return err
		}
		overrides = append(overrides, in)
	}

	comp, err := lib.NewComponent(name, overrides...)
	if err != nil {
		return err
	}

	shown := make(map[tag.Tag]struct{})
	for _, in := range comp.Preset.Attributes {
		shown[in.Tag] = struct{}{}
	}
	for _, in := range overrides {
		shown[in.Tag] = struct{}{}
	}

	for _, f := range fills {
		current, err := reg.Register(f)
		if err != nil {
			return err
		}
		maxTag, err := reg.Register(f + tag.Separator + "Max")
		if err != nil {
			return err
		}
		comp.SetAttributeToMax(current, maxTag, false)
		shown[current] = struct{}{}
	}

	for _, s := range mods {
		m, err := parseModifier(reg, s)
		if err != nil {
			return err
		}
		comp.AddModifierSpec(m)
		shown[m.Tag] = struct{}{}
		slog.Debug("modifier applied", "tag", reg.Name(m.Tag), "type", m.Type, "value", m.Value)
	}

	names := make([]string, 0, len(shown))
	for t := range shown {
		names = append(names, reg.Name(t))
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ATTRIBUTE\tBASE\tBONUS\tCURRENT")
	for _, n := range names {
		t, _ := reg.Lookup(n)
		fmt.Fprintf(tw, "%s\t%.6g\t%.6g\t%.6g\n", n, comp.ValueBase(t), comp.ValueBonus(t), comp.Value(t))
	}
	return tw.Flush()
}

func runImport(ctx context.Context, cfg config.Config, args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("import: exactly one directory required")
	}

	defs, err := preset.LoadDir(ctx, args[0], cfg.Presets.LoadConcurrency)
	if err != nil {
		return err
	}
	// resolve first so invalid tag names never reach the database
	if _, err := preset.NewLibrary(tag.NewRegistry(), defs...); err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	defer closeStore()

	for _, def := range defs {
		if err := store.Save(ctx, def); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "imported %d presets\n", len(defs))
	return nil
}

func runMigrate(ctx context.Context, cfg config.Config) error {
	switch cfg.Presets.Source {
	case config.SourcePostgres:
		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return err
		}
	case config.SourceSQLite:
		// OpenSQLite migrates on open
		repo, err := db.OpenSQLite(ctx, cfg.Presets.SQLitePath)
		if err != nil {
			return err
		}
		if err := repo.Close(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("migrate: %w", errNoDatabase)
	}
	slog.Info("database migrations applied", "source", cfg.Presets.Source)
	return nil
}

// parseModifier parses "Tag:Type:Value", e.g. "Health.Max:MultiplyAdditive:0.2".
func parseModifier(reg *tag.Registry, s string) (attribute.Modifier, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return attribute.Modifier{}, fmt.Errorf("modifier %q: want Tag:Type:Value", s)
	}
	t, err := reg.Register(parts[0])
	if err != nil {
		return attribute.Modifier{}, fmt.Errorf("modifier %q: %w", s, err)
	}
	typ, err := attribute.ParseModifierType(parts[1])
	if err != nil {
		return attribute.Modifier{}, fmt.Errorf("modifier %q: %w", s, err)
	}
	v, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return attribute.Modifier{}, fmt.Errorf("modifier %q: %w", s, err)
	}
	return attribute.Modifier{Tag: t, Type: typ, Value: v}, nil
}

// parseOverride parses "Tag=Value".
func parseOverride(reg *tag.Registry, s string) (attribute.Initializer, error) {
	name, raw, ok := strings.Cut(s, "=")
	if !ok {
		return attribute.Initializer{}, fmt.Errorf("override %q: want Tag=Value", s)
	}
	t, err := reg.Register(name)
	if err != nil {
		return attribute.Initializer{}, fmt.Errorf("override %q: %w", s, err)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return attribute.Initializer{}, fmt.Errorf("override %q: %w", s, err)
	}
	return attribute.Initializer{Tag: t, BaseValue: v}, nil
}
