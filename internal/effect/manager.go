package effect

import (
	"log/slog"
	"sync"

	"github.com/udisondev/gameattr/internal/attribute"
)

const DefaultMaxEffects = 24

// Manager tracks active effects on one attribute container.
// Every modifier an effect contributes is added on start and removed by handle on exit.
//
// Thread-safe: all methods are protected by sync.Mutex. The target itself must not be
// mutated concurrently elsewhere unless it is an attribute.SyncContainer.
type Manager struct {
	mu         sync.Mutex
	target     attribute.Attributes
	effects    []*ActiveEffect
	maxEffects int
}

// NewManager creates a manager for target. maxEffects <= 0 uses DefaultMaxEffects.
func NewManager(target attribute.Attributes, maxEffects int) *Manager {
	if maxEffects <= 0 {
		maxEffects = DefaultMaxEffects
	}
	return &Manager{
		target:     target,
		effects:    make([]*ActiveEffect, 0, maxEffects),
		maxEffects: maxEffects,
	}
}

// Apply adds an effect with stacking check.
// Returns true if the effect was added/replaced/refreshed, false if rejected.
//
// Stacking rules (same non-empty AbnormalType):
//   - Higher AbnormalLevel → replaces existing
//   - Same AbnormalLevel → refreshes duration
//   - Lower AbnormalLevel → rejected
//
// If the limit is reached, the oldest effect is removed.
func (m *Manager) Apply(ae *ActiveEffect) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ae.AbnormalType != "" {
		for i, existing := range m.effects {
			if existing.AbnormalType != ae.AbnormalType {
				continue
			}
			if ae.AbnormalLevel > existing.AbnormalLevel {
				m.exit(existing)
				m.effects[i] = ae
				m.start(ae)
				return true
			}
			if ae.AbnormalLevel == existing.AbnormalLevel {
				existing.RemainingMs = ae.RemainingMs
				return true
			}
			return false
		}
	}

	if len(m.effects) >= m.maxEffects {
		oldest := m.effects[0]
		m.exit(oldest)
		m.effects = m.effects[1:]

		slog.Debug("effect limit reached, removed oldest",
			"removedEffect", oldest.EffectID,
			"source", oldest.SourceID)
	}

	m.effects = append(m.effects, ae)
	m.start(ae)
	return true
}

// Remove removes all effects with the given AbnormalType. Returns the number removed.
func (m *Manager) Remove(abnormalType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeWhere(func(ae *ActiveEffect) bool { return ae.AbnormalType == abnormalType })
}

// RemoveBySource removes all effects applied by sourceID. Returns the number removed.
func (m *Manager) RemoveBySource(sourceID uint32) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeWhere(func(ae *ActiveEffect) bool { return ae.SourceID == sourceID })
}

// Clear removes every effect.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeWhere(func(*ActiveEffect) bool { return true })
}

// Tick advances timers by deltaMs and removes expired effects.
// Returns the number of expired effects.
func (m *Manager) Tick(deltaMs int32) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeWhere(func(ae *ActiveEffect) bool { return !ae.Tick(deltaMs) })
}

// Count returns the number of active effects.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.effects)
}

// Active returns a copy of active effects, oldest first.
func (m *Manager) Active() []*ActiveEffect {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*ActiveEffect, len(m.effects))
	copy(result, m.effects)
	return result
}

// removeWhere keeps effect order. Must be called with mu held.
func (m *Manager) removeWhere(match func(*ActiveEffect) bool) int {
	n := 0
	removed := 0
	for _, ae := range m.effects {
		if match(ae) {
			m.exit(ae)
			removed++
		} else {
			m.effects[n] = ae
			n++
		}
	}
	clear(m.effects[n:])
	m.effects = m.effects[:n]
	return removed
}

func (m *Manager) start(ae *ActiveEffect) {
	mods := ae.Effect.StatModifiers()
	ae.handles = make([]attribute.Handle, 0, len(mods))
	for _, mod := range mods {
		h := m.target.AddModifier(mod.Attribute, mod.Type, mod.Value)
		ae.handles = append(ae.handles, h)
	}
	slog.Debug("effect started", "effect", ae.Effect.Name(), "id", ae.EffectID, "modifiers", len(mods))
}

func (m *Manager) exit(ae *ActiveEffect) {
	for _, h := range ae.handles {
		// SetValue on the target drops modifiers, leaving stale handles behind
		if !m.target.RemoveModifier(h) {
			slog.Debug("effect modifier already cleared", "effect", ae.Effect.Name(), "id", ae.EffectID)
		}
	}
	ae.handles = nil
	slog.Debug("effect ended", "effect", ae.Effect.Name(), "id", ae.EffectID)
}
