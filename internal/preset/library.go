package preset

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/udisondev/gameattr/internal/attribute"
	"github.com/udisondev/gameattr/internal/tag"
)

// Library holds resolved presets by name. Read-only after construction.
type Library struct {
	tags    *tag.Registry
	presets map[string]*attribute.Preset
}

// NewLibrary resolves defs against reg.
func NewLibrary(reg *tag.Registry, defs ...Definition) (*Library, error) {
	lib := &Library{
		tags:    reg,
		presets: make(map[string]*attribute.Preset, len(defs)),
	}
	for _, def := range defs {
		if _, exists := lib.presets[def.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicate, def.Name)
		}
		p, err := def.Resolve(reg)
		if err != nil {
			return nil, err
		}
		lib.presets[def.Name] = &p
	}
	return lib, nil
}

// Load reads all definitions from src and builds a library.
func Load(ctx context.Context, reg *tag.Registry, src Source) (*Library, error) {
	defs, err := src.LoadDefinitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading preset definitions: %w", err)
	}
	lib, err := NewLibrary(reg, defs...)
	if err != nil {
		return nil, err
	}
	slog.Info("loaded attribute presets", "count", lib.Len(), "tags", reg.Len())
	return lib, nil
}

// Get returns the preset with the given name.
func (l *Library) Get(name string) (*attribute.Preset, bool) {
	p, ok := l.presets[name]
	return p, ok
}

// Names returns preset names in sorted order.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.presets))
	for name := range l.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of presets.
func (l *Library) Len() int {
	return len(l.presets)
}

// Tags returns the registry presets were resolved against.
func (l *Library) Tags() *tag.Registry {
	return l.tags
}

// NewComponent returns a lazily initialized component for the named preset.
// The component's containers check the Max-tag hierarchy in attrdebug builds.
func (l *Library) NewComponent(name string, overrides ...attribute.Initializer) (*attribute.Component, error) {
	p, ok := l.presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return &attribute.Component{
		Preset:    p,
		Overrides: overrides,
		Options:   []attribute.Option{attribute.WithParentResolver(l.tags)},
	}, nil
}
