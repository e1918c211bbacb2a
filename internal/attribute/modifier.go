package attribute

import (
	"errors"
	"fmt"
	"strings"

	"github.com/udisondev/gameattr/internal/tag"
)

var ErrUnknownModifierType = errors.New("unknown modifier type")

// ModifierType defines how a modifier is folded into an attribute's current value.
type ModifierType int8

const (
	ModifierNone ModifierType = iota

	// AddBase is a flat value added to the base value (pre-multiplication).
	AddBase

	// AddFinal is a flat value added after all multipliers.
	AddFinal

	// MultiplyAdditive sums with other additive multipliers before being applied once.
	// -0.5 is a 50% decrease, 0.5 a 50% increase.
	MultiplyAdditive

	// MultiplyCompound scales the running product independently: two +0.5 give ×2.25.
	MultiplyCompound
)

var modifierTypeNames = [...]string{
	ModifierNone:     "None",
	AddBase:          "AddBase",
	AddFinal:         "AddFinal",
	MultiplyAdditive: "MultiplyAdditive",
	MultiplyCompound: "MultiplyCompound",
}

func (t ModifierType) String() string {
	if t < 0 || int(t) >= len(modifierTypeNames) {
		return fmt.Sprintf("ModifierType(%d)", int8(t))
	}
	return modifierTypeNames[t]
}

// ParseModifierType parses a type name, case-insensitively.
// Short aliases used by data files are accepted: "add", "final", "mul", "mulc".
func ParseModifierType(s string) (ModifierType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "addbase", "add_base", "add":
		return AddBase, nil
	case "addfinal", "add_final", "final":
		return AddFinal, nil
	case "multiplyadditive", "multiply_additive", "mul":
		return MultiplyAdditive, nil
	case "multiplycompound", "multiply_compound", "mulc":
		return MultiplyCompound, nil
	}
	return ModifierNone, fmt.Errorf("%w: %q", ErrUnknownModifierType, s)
}

// MarshalText implements encoding.TextMarshaler (used by yaml.v3 too).
func (t ModifierType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ModifierType) UnmarshalText(text []byte) error {
	parsed, err := ParseModifierType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Modifier is a request to modify an attribute. It is stored as an active modifier
// once accepted by a container and can be removed with the returned Handle.
type Modifier struct {
	Tag   tag.Tag
	Type  ModifierType
	Value float64
}

// invalidHandleID is never issued; the handle counter is pre-incremented.
const invalidHandleID int64 = 0

// Handle references a modifier applied to a Container. Comparable.
type Handle struct {
	tag tag.Tag
	id  int64
}

// InvalidHandle never matches an active modifier.
var InvalidHandle = Handle{tag: tag.None, id: invalidHandleID}

// Tag returns the attribute the handle's modifier was applied to.
func (h Handle) Tag() tag.Tag { return h.tag }

// IsValid reports whether h was issued by a container.
func (h Handle) IsValid() bool { return h.id != invalidHandleID }

type activeModifier struct {
	handleID int64
	typ      ModifierType
	value    float64
}
