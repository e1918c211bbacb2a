package attribute

// recalculate folds active modifiers into base.
//
//	current = (base + ΣAddBase) × (1 + ΣMultiplyAdditive) × Π(1 + MultiplyCompound) + ΣAddFinal
//
// Each accumulator is a sum or a product, so modifier order does not matter.
// The result is not clamped.
func recalculate(base float64, modifiers []activeModifier) float64 {
	addBase := base
	addFinal := 0.0
	mulAdditive := 1.0
	mulCompound := 1.0

	for _, mod := range modifiers {
		switch mod.typ {
		case AddBase:
			addBase += mod.value
		case AddFinal:
			addFinal += mod.value
		case MultiplyAdditive:
			mulAdditive += mod.value
		case MultiplyCompound:
			mulCompound *= 1 + mod.value
		}
	}

	return addBase*mulAdditive*mulCompound + addFinal
}
