package attribute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/gameattr/internal/tag"
)

const delta = 1e-9

var (
	testTags   = tag.NewRegistry()
	tagOne     = testTags.MustRegister("Test.TagOne")
	tagTwo     = testTags.MustRegister("Test.TagTwo")
	tagHealth  = testTags.MustRegister("Health")
	tagHealthM = testTags.MustRegister("Health.Max")
)

func TestContainer_Defaults(t *testing.T) {
	c := NewContainer([]Initializer{{Tag: tagOne, BaseValue: 5}})

	assert.Equal(t, 5.0, c.Value(tagOne))
	assert.Equal(t, 5.0, c.ValueBase(tagOne))
	assert.Equal(t, 0.0, c.ValueBonus(tagOne))
	assert.True(t, c.HasAttribute(tagOne))

	// unknown attributes read as zero
	assert.Equal(t, 0.0, c.Value(tagTwo))
	assert.Equal(t, 0.0, c.ValueBase(tagTwo))
	assert.Equal(t, 0.0, c.ValueBonus(tagTwo))
	assert.False(t, c.HasAttribute(tagTwo))
}

func TestContainer_DuplicateInitializersLastWins(t *testing.T) {
	c := NewContainer([]Initializer{
		{Tag: tagOne, BaseValue: 1},
		{Tag: tagOne, BaseValue: 7},
	})

	assert.Equal(t, 7.0, c.Value(tagOne))
	assert.Equal(t, 7.0, c.ValueBase(tagOne))
}

func TestContainer_RemoveLastModifier(t *testing.T) {
	c := NewContainer([]Initializer{{Tag: tagOne, BaseValue: 1}})

	h := c.AddModifier(tagOne, AddBase, 1)
	assert.Equal(t, 2.0, c.Value(tagOne))
	assert.Equal(t, 1, c.ModifierCount(tagOne))

	require.True(t, c.RemoveModifier(h))
	assert.Equal(t, 1.0, c.Value(tagOne))
	assert.Equal(t, 0, c.ModifierCount(tagOne))
	_, listed := c.modifiers[tagOne]
	assert.False(t, listed, "empty modifier list must be dropped")
}

func TestContainer_AddRemoveModifiers(t *testing.T) {
	c := NewContainer(nil)

	// +100%: 0 * 2 = 0
	c.AddModifier(tagOne, MultiplyAdditive, 1)
	assert.Equal(t, 0.0, c.Value(tagOne))
	assert.Equal(t, 0.0, c.ValueBase(tagOne))
	assert.Equal(t, 0.0, c.ValueBonus(tagOne))

	// AddBase still counts as bonus: (0 + 10) * 2 = 20
	addBase := c.AddModifier(tagOne, AddBase, 10)
	assert.Equal(t, 20.0, c.Value(tagOne))
	assert.Equal(t, 0.0, c.ValueBase(tagOne))
	assert.Equal(t, 20.0, c.ValueBonus(tagOne))

	require.True(t, c.RemoveModifier(addBase))
	assert.Equal(t, 0.0, c.Value(tagOne))
	assert.Equal(t, 0.0, c.ValueBonus(tagOne))

	// 0 * 2 + 5 = 5
	c.AddModifier(tagOne, AddFinal, 5)
	assert.Equal(t, 5.0, c.Value(tagOne))
	assert.Equal(t, 0.0, c.ValueBase(tagOne))
	assert.Equal(t, 5.0, c.ValueBonus(tagOne))

	c.SetValue(tagOne, 12)
	assert.Equal(t, 12.0, c.Value(tagOne))
	assert.Equal(t, 12.0, c.ValueBase(tagOne))
	assert.Equal(t, 0.0, c.ValueBonus(tagOne))
	assert.Equal(t, 0, c.ModifierCount(tagOne))

	// +2 base, +10 final, +90%, ×2.25: (12 + 2) * 1.9 * 2.25 + 10 = 69.85
	c.AddModifier(tagOne, AddBase, 1.5)
	c.AddModifier(tagOne, AddBase, 0.5)
	c.AddModifier(tagOne, AddFinal, 5)
	c.AddModifier(tagOne, AddFinal, 5)
	mulAdd := c.AddModifier(tagOne, MultiplyAdditive, 0.15)
	c.AddModifier(tagOne, MultiplyAdditive, 0.15)
	c.AddModifier(tagOne, MultiplyAdditive, 0.30)
	c.AddModifier(tagOne, MultiplyAdditive, 0.40)
	c.AddModifier(tagOne, MultiplyAdditive, -0.10)
	mulComp := c.AddModifier(tagOne, MultiplyCompound, 0.5)
	c.AddModifier(tagOne, MultiplyCompound, 0.5)

	assert.InDelta(t, 69.85, c.Value(tagOne), delta)
	assert.Equal(t, 12.0, c.ValueBase(tagOne))
	assert.InDelta(t, 57.85, c.ValueBonus(tagOne), delta)
	assert.Equal(t, 11, c.ModifierCount(tagOne))

	// +90% → +75%, ×2.25 → ×1.5: 14 * 1.75 * 1.5 + 10 = 46.75
	require.True(t, c.RemoveModifier(mulAdd))
	require.True(t, c.RemoveModifier(mulComp))
	assert.InDelta(t, 46.75, c.Value(tagOne), delta)
	assert.Equal(t, 12.0, c.ValueBase(tagOne))
	assert.InDelta(t, 34.75, c.ValueBonus(tagOne), delta)
	assert.Equal(t, 9, c.ModifierCount(tagOne))
}

func TestContainer_AddModifierSpec(t *testing.T) {
	c := NewContainer([]Initializer{{Tag: tagOne, BaseValue: 10}})

	h := c.AddModifierSpec(Modifier{Tag: tagOne, Type: MultiplyCompound, Value: -0.5})

	assert.Equal(t, tagOne, h.Tag())
	assert.True(t, h.IsValid())
	assert.Equal(t, 5.0, c.Value(tagOne))
}

func TestContainer_RoundTripRestoresValue(t *testing.T) {
	types := []ModifierType{AddBase, AddFinal, MultiplyAdditive, MultiplyCompound}

	for _, typ := range types {
		t.Run(typ.String(), func(t *testing.T) {
			c := NewContainer([]Initializer{{Tag: tagOne, BaseValue: 40}})
			c.AddModifier(tagOne, AddFinal, 3)
			c.AddModifier(tagOne, MultiplyCompound, 0.2)
			before := c.Value(tagOne)

			h := c.AddModifier(tagOne, typ, 0.75)
			assert.NotEqual(t, before, c.Value(tagOne))

			require.True(t, c.RemoveModifier(h))
			assert.InDelta(t, before, c.Value(tagOne), delta)
		})
	}
}

func TestContainer_RemoveStaleHandle(t *testing.T) {
	c := NewContainer([]Initializer{{Tag: tagOne, BaseValue: 10}})
	keep := c.AddModifier(tagOne, AddBase, 1)
	h := c.AddModifier(tagOne, AddBase, 2)

	require.True(t, c.RemoveModifier(h))
	value := c.Value(tagOne)

	assert.False(t, c.RemoveModifier(h), "already removed")
	assert.False(t, c.RemoveModifier(InvalidHandle), "never issued")
	assert.False(t, c.RemoveModifier(Handle{tag: tagTwo, id: keep.id}), "wrong attribute")
	assert.False(t, c.RemoveModifier(Handle{tag: tagOne, id: 999}), "unknown id")

	assert.Equal(t, value, c.Value(tagOne))
	assert.Equal(t, 1, c.ModifierCount(tagOne))
	assert.False(t, c.HasAttribute(tagTwo))
}

func TestContainer_HandlesNeverReused(t *testing.T) {
	c := NewContainer(nil)
	seen := make(map[int64]bool)

	for i := 0; i < 50; i++ {
		h := c.AddModifier(tagOne, AddFinal, 1)
		require.False(t, seen[h.id], "handle id %d reused", h.id)
		seen[h.id] = true
		if i%2 == 0 {
			require.True(t, c.RemoveModifier(h))
		}
	}

	h := c.AddModifier(tagTwo, AddFinal, 1)
	assert.Equal(t, int64(51), h.id, "counter is shared across attributes")
	assert.False(t, InvalidHandle.IsValid())
}

func TestContainer_SetValueClearsModifiers(t *testing.T) {
	c := NewContainer(nil)
	h := c.AddModifier(tagOne, AddBase, 10)

	c.SetValue(tagOne, 12)

	assert.Equal(t, 12.0, c.Value(tagOne))
	assert.Equal(t, 12.0, c.ValueBase(tagOne))
	assert.Equal(t, 0.0, c.ValueBonus(tagOne))
	assert.False(t, c.RemoveModifier(h), "modifier was discarded by SetValue")
	assert.Equal(t, 12.0, c.Value(tagOne))
}

func TestContainer_ModifierOnUnknownTagCreatesRecord(t *testing.T) {
	c := NewContainer(nil)

	h := c.AddModifier(tagTwo, AddFinal, 4)
	assert.True(t, c.HasAttribute(tagTwo))
	assert.Equal(t, 4.0, c.Value(tagTwo))

	require.True(t, c.RemoveModifier(h))
	assert.True(t, c.HasAttribute(tagTwo))
	assert.Equal(t, 0.0, c.Value(tagTwo))
}

func TestContainer_NoneModifierIsIgnored(t *testing.T) {
	c := NewContainer([]Initializer{{Tag: tagOne, BaseValue: 3}})

	c.AddModifier(tagOne, ModifierNone, 100)

	assert.Equal(t, 3.0, c.Value(tagOne))
	assert.Equal(t, 1, c.ModifierCount(tagOne))
}

func TestContainer_NegativeResultNotClamped(t *testing.T) {
	c := NewContainer([]Initializer{{Tag: tagOne, BaseValue: 10}})

	c.AddModifier(tagOne, AddFinal, -25)

	assert.Equal(t, -15.0, c.Value(tagOne))
}

func TestContainer_SetAttributeToMax(t *testing.T) {
	c := NewContainer([]Initializer{{Tag: tagHealthM, BaseValue: 100}}, WithParentResolver(testTags))
	c.AddModifier(tagHealthM, MultiplyAdditive, 0.2)

	// no value yet → set from max
	c.SetAttributeToMax(tagHealth, tagHealthM, false)
	assert.Equal(t, 120.0, c.Value(tagHealth))
	assert.Equal(t, 120.0, c.ValueBase(tagHealth))

	c.SetValue(tagHealth, 30)
	h := c.AddModifier(tagHealth, AddFinal, 5)

	// existing value, no overwrite → no-op
	c.SetAttributeToMax(tagHealth, tagHealthM, false)
	assert.Equal(t, 35.0, c.Value(tagHealth))

	// overwrite → max value, modifiers cleared
	c.SetAttributeToMax(tagHealth, tagHealthM, true)
	assert.Equal(t, 120.0, c.Value(tagHealth))
	assert.Equal(t, 0.0, c.ValueBonus(tagHealth))
	assert.Equal(t, 0, c.ModifierCount(tagHealth))
	assert.False(t, c.RemoveModifier(h))
}

func TestRecalculate_OrderIndependent(t *testing.T) {
	mods := []activeModifier{
		{handleID: 1, typ: AddBase, value: 2},
		{handleID: 2, typ: MultiplyCompound, value: 0.5},
		{handleID: 3, typ: AddFinal, value: 10},
		{handleID: 4, typ: MultiplyAdditive, value: 0.9},
		{handleID: 5, typ: MultiplyCompound, value: 0.5},
	}
	reversed := make([]activeModifier, len(mods))
	for i, m := range mods {
		reversed[len(mods)-1-i] = m
	}

	assert.InDelta(t, 69.85, recalculate(12, mods), delta)
	assert.InDelta(t, 69.85, recalculate(12, reversed), delta)
	assert.Equal(t, 12.0, recalculate(12, nil))
}

func TestParseModifierType(t *testing.T) {
	tests := []struct {
		in   string
		want ModifierType
	}{
		{"AddBase", AddBase},
		{"add", AddBase},
		{"ADD_FINAL", AddFinal},
		{"final", AddFinal},
		{"MultiplyAdditive", MultiplyAdditive},
		{"mul", MultiplyAdditive},
		{"multiply_compound", MultiplyCompound},
		{" mulc ", MultiplyCompound},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseModifierType(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseModifierType("divide")
	assert.ErrorIs(t, err, ErrUnknownModifierType)

	var typ ModifierType
	require.NoError(t, typ.UnmarshalText([]byte("AddFinal")))
	assert.Equal(t, AddFinal, typ)
	text, err := MultiplyCompound.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "MultiplyCompound", string(text))
	assert.Equal(t, "ModifierType(9)", ModifierType(9).String())
}
