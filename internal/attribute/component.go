package attribute

import (
	"log/slog"

	"github.com/udisondev/gameattr/internal/tag"
)

// Preset is a named list of initial attribute values shared by many entities.
type Preset struct {
	Name       string
	Attributes []Initializer
}

// Component owns the attribute container of one entity.
// The container is built on first access from Preset followed by Overrides,
// so overrides win on duplicate tags. Preset and Overrides are ignored after that.
type Component struct {
	Preset    *Preset
	Overrides []Initializer
	Options   []Option

	container *Container
}

var _ Attributes = (*Component)(nil)

// Container returns the underlying container, building it if needed.
func (c *Component) Container() *Container {
	if c.container == nil {
		c.container = NewContainer(c.initializers(), c.Options...)

		presetName := ""
		if c.Preset != nil {
			presetName = c.Preset.Name
		}
		slog.Debug("attribute container initialized",
			"preset", presetName,
			"overrides", len(c.Overrides))
	}
	return c.container
}

// Initialized reports whether the container has been built.
func (c *Component) Initialized() bool {
	return c.container != nil
}

func (c *Component) initializers() []Initializer {
	if c.Preset == nil {
		return c.Overrides
	}
	all := make([]Initializer, 0, len(c.Preset.Attributes)+len(c.Overrides))
	all = append(all, c.Preset.Attributes...)
	return append(all, c.Overrides...)
}

func (c *Component) Value(t tag.Tag) float64       { return c.Container().Value(t) }
func (c *Component) ValueBase(t tag.Tag) float64   { return c.Container().ValueBase(t) }
func (c *Component) ValueBonus(t tag.Tag) float64  { return c.Container().ValueBonus(t) }
func (c *Component) SetValue(t tag.Tag, v float64) { c.Container().SetValue(t, v) }
func (c *Component) HasAttribute(t tag.Tag) bool   { return c.Container().HasAttribute(t) }

func (c *Component) AddModifierSpec(m Modifier) Handle {
	return c.Container().AddModifierSpec(m)
}

func (c *Component) AddModifier(t tag.Tag, typ ModifierType, v float64) Handle {
	return c.Container().AddModifier(t, typ, v)
}

func (c *Component) RemoveModifier(h Handle) bool {
	return c.Container().RemoveModifier(h)
}

func (c *Component) SetAttributeToMax(current, max tag.Tag, overwrite bool) {
	c.Container().SetAttributeToMax(current, max, overwrite)
}
