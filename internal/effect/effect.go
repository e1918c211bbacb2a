// Package effect applies timed groups of attribute modifiers (buffs, debuffs, auras)
// to an attribute container and removes them by handle when they end.
package effect

import (
	"fmt"
	"strconv"

	"github.com/udisondev/gameattr/internal/attribute"
	"github.com/udisondev/gameattr/internal/tag"
)

// StatModifier is one attribute modification carried by an effect.
type StatModifier struct {
	Attribute tag.Tag
	Type      attribute.ModifierType
	Value     float64
}

// Effect is anything that contributes stat modifiers while active.
type Effect interface {
	Name() string
	StatModifiers() []StatModifier
}

// StatModifierEffect is a generic single-modifier effect.
// Params: "attribute" (tag name), "type" (modifier type), "value" (float64).
type StatModifierEffect struct {
	mod StatModifier
}

// NewStatModifierEffect builds an effect from data-file params, registering the
// attribute tag in reg.
func NewStatModifierEffect(reg *tag.Registry, params map[string]string) (*StatModifierEffect, error) {
	t, err := reg.Register(params["attribute"])
	if err != nil {
		return nil, fmt.Errorf("effect attribute: %w", err)
	}
	typ, err := attribute.ParseModifierType(params["type"])
	if err != nil {
		return nil, fmt.Errorf("effect type: %w", err)
	}
	value, err := strconv.ParseFloat(params["value"], 64)
	if err != nil {
		return nil, fmt.Errorf("effect value %q: %w", params["value"], err)
	}
	return &StatModifierEffect{mod: StatModifier{Attribute: t, Type: typ, Value: value}}, nil
}

func (e *StatModifierEffect) Name() string { return "StatModifier" }

func (e *StatModifierEffect) StatModifiers() []StatModifier {
	return []StatModifier{e.mod}
}

// StaticEffect is an effect with a fixed modifier list.
type StaticEffect struct {
	EffectName string
	Modifiers  []StatModifier
}

func (e StaticEffect) Name() string                  { return e.EffectName }
func (e StaticEffect) StatModifiers() []StatModifier { return e.Modifiers }

// ActiveEffect tracks a running effect on one target.
type ActiveEffect struct {
	SourceID      uint32
	EffectID      int32
	Effect        Effect
	RemainingMs   int32 // < 0: permanent until removed
	AbnormalType  string
	AbnormalLevel int32

	handles []attribute.Handle
}

// IsPermanent reports whether the effect never expires on Tick.
func (ae *ActiveEffect) IsPermanent() bool {
	return ae.RemainingMs < 0
}

// Tick decrements remaining time by deltaMs.
// Returns true if effect is still active, false if expired.
func (ae *ActiveEffect) Tick(deltaMs int32) bool {
	if ae.IsPermanent() {
		return true
	}
	ae.RemainingMs -= deltaMs
	return ae.RemainingMs > 0
}
