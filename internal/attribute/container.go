// Package attribute stores numeric gameplay attributes and the modifiers stacked on them.
//
// A Container maps tags to a base value and a current value. Every AddModifier and
// RemoveModifier immediately recalculates the affected attribute, so reads are plain
// map lookups.
//
// Container is not safe for concurrent use. Callers that share one across goroutines
// wrap it in a SyncContainer.
package attribute

import (
	"github.com/udisondev/gameattr/internal/tag"
)

// Attributes is the public contract of an attribute container.
// Implemented by Container, SyncContainer and Component.
type Attributes interface {
	// Value returns the current value including all modifiers. Unknown tags read as 0.
	Value(t tag.Tag) float64

	// ValueBase returns the value without modifiers. Unknown tags read as 0.
	ValueBase(t tag.Tag) float64

	// ValueBonus returns Value minus ValueBase. AddBase modifiers count as bonus.
	ValueBonus(t tag.Tag) float64

	// SetValue overwrites base and current with v and clears all modifiers for t.
	SetValue(t tag.Tag, v float64)

	// HasAttribute reports whether t has a value record.
	HasAttribute(t tag.Tag) bool

	AddModifierSpec(m Modifier) Handle
	AddModifier(t tag.Tag, typ ModifierType, v float64) Handle

	// RemoveModifier removes the modifier referenced by h.
	// Returns false for stale, duplicate or invalid handles.
	RemoveModifier(h Handle) bool

	// SetAttributeToMax sets current to the value of max and clears current's modifiers.
	// With overwrite=false nothing happens if current already has a value.
	// max is expected to be a child of current ("Health.Max" for "Health").
	SetAttributeToMax(current, max tag.Tag, overwrite bool)
}

// ParentResolver exposes the tag hierarchy. *tag.Registry implements it.
type ParentResolver interface {
	Parent(t tag.Tag) (tag.Tag, bool)
}

// Initializer supplies the base value for one attribute at construction.
type Initializer struct {
	Tag       tag.Tag
	BaseValue float64
}

type value struct {
	base    float64
	current float64
}

// Option configures a Container.
type Option func(*Container)

// WithParentResolver enables the SetAttributeToMax hierarchy check in attrdebug builds.
func WithParentResolver(r ParentResolver) Option {
	return func(c *Container) {
		c.parents = r
	}
}

// Container holds attributes and their modifiers.
type Container struct {
	values    map[tag.Tag]value
	modifiers map[tag.Tag][]activeModifier // never holds empty slices
	handleID  int64
	parents   ParentResolver
}

var _ Attributes = (*Container)(nil)

// NewContainer creates a container from initial base values. Later duplicates win.
func NewContainer(initial []Initializer, opts ...Option) *Container {
	c := &Container{
		values:    make(map[tag.Tag]value, len(initial)),
		modifiers: make(map[tag.Tag][]activeModifier),
		handleID:  invalidHandleID,
	}
	for _, in := range initial {
		c.values[in.Tag] = value{base: in.BaseValue, current: in.BaseValue}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Container) Value(t tag.Tag) float64 {
	return c.values[t].current
}

func (c *Container) ValueBase(t tag.Tag) float64 {
	return c.values[t].base
}

func (c *Container) ValueBonus(t tag.Tag) float64 {
	v := c.values[t]
	return v.current - v.base
}

func (c *Container) SetValue(t tag.Tag, v float64) {
	c.values[t] = value{base: v, current: v}
	delete(c.modifiers, t)
}

func (c *Container) HasAttribute(t tag.Tag) bool {
	_, ok := c.values[t]
	return ok
}

func (c *Container) AddModifierSpec(m Modifier) Handle {
	return c.AddModifier(m.Tag, m.Type, m.Value)
}

// AddModifier applies a modifier and returns its handle.
// A modifier on an unknown tag creates the attribute with base 0.
func (c *Container) AddModifier(t tag.Tag, typ ModifierType, v float64) Handle {
	c.handleID++
	id := c.handleID

	mods := append(c.modifiers[t], activeModifier{handleID: id, typ: typ, value: v})
	c.modifiers[t] = mods
	c.recalculateAttribute(t, mods)

	return Handle{tag: t, id: id}
}

func (c *Container) RemoveModifier(h Handle) bool {
	mods, ok := c.modifiers[h.tag]
	if !ok {
		return false
	}

	for i := range mods {
		if mods[i].handleID != h.id {
			continue
		}

		if len(mods) == 1 {
			delete(c.modifiers, h.tag)
			mods = nil
		} else {
			// swap-remove, order is not significant
			last := len(mods) - 1
			mods[i] = mods[last]
			mods = mods[:last]
			c.modifiers[h.tag] = mods
		}

		c.recalculateAttribute(h.tag, mods)
		return true
	}

	return false
}

func (c *Container) SetAttributeToMax(current, max tag.Tag, overwrite bool) {
	if debugAssertions && c.parents != nil {
		if parent, _ := c.parents.Parent(max); parent != current {
			panic("attribute: SetAttributeToMax: max tag is not a child of current tag")
		}
	}

	if overwrite || !c.HasAttribute(current) {
		c.SetValue(current, c.Value(max))
	}
}

// ModifierCount returns the number of active modifiers on t.
func (c *Container) ModifierCount(t tag.Tag) int {
	return len(c.modifiers[t])
}

// recalculateAttribute replaces the current value of t, keeping its base.
func (c *Container) recalculateAttribute(t tag.Tag, mods []activeModifier) {
	v := c.values[t]
	v.current = recalculate(v.base, mods)
	c.values[t] = v
}
