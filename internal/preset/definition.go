// Package preset loads named lists of initial attribute values.
//
// Presets are stored by tag name (Definition) and resolved against a tag.Registry into
// attribute.Preset values at load time, since tags themselves are process-local.
package preset

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/gameattr/internal/attribute"
	"github.com/udisondev/gameattr/internal/tag"
)

var (
	ErrNotFound  = errors.New("preset not found")
	ErrDuplicate = errors.New("duplicate preset name")
	ErrEmptyName = errors.New("preset has no name")
)

// Definition is the storage form of a preset.
type Definition struct {
	Name       string  `yaml:"name"`
	Attributes []Entry `yaml:"attributes"`
}

// Entry is one (tag name, base value) pair.
type Entry struct {
	Tag  string  `yaml:"tag"`
	Base float64 `yaml:"base"`
}

// Source provides preset definitions (YAML directory, postgres, sqlite).
type Source interface {
	LoadDefinitions(ctx context.Context) ([]Definition, error)
}

// Resolve registers the definition's tag names in reg and builds an attribute.Preset.
// Entry order is kept, so duplicate tags resolve last-write-wins in the container.
func (d Definition) Resolve(reg *tag.Registry) (attribute.Preset, error) {
	if d.Name == "" {
		return attribute.Preset{}, ErrEmptyName
	}

	p := attribute.Preset{
		Name:       d.Name,
		Attributes: make([]attribute.Initializer, 0, len(d.Attributes)),
	}
	for i, e := range d.Attributes {
		t, err := reg.Register(e.Tag)
		if err != nil {
			return attribute.Preset{}, fmt.Errorf("preset %q entry %d: %w", d.Name, i, err)
		}
		p.Attributes = append(p.Attributes, attribute.Initializer{Tag: t, BaseValue: e.Base})
	}
	return p, nil
}

// ParseYAML decodes a single preset document.
func ParseYAML(data []byte) (Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("parsing preset: %w", err)
	}
	if def.Name == "" {
		return Definition{}, ErrEmptyName
	}
	return def, nil
}

// LoadFile reads and parses a YAML preset file.
func LoadFile(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("reading preset %s: %w", path, err)
	}
	def, err := ParseYAML(data)
	if err != nil {
		return Definition{}, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// MarshalYAML encodes a definition in the format ParseYAML reads.
func MarshalYAML(def Definition) ([]byte, error) {
	data, err := yaml.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("encoding preset %q: %w", def.Name, err)
	}
	return data, nil
}
