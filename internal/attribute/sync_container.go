package attribute

import (
	"sync"

	"github.com/udisondev/gameattr/internal/tag"
)

// SyncContainer guards a Container with a sync.RWMutex.
// Reads take the read lock, every mutation takes the write lock.
type SyncContainer struct {
	mu sync.RWMutex
	c  *Container
}

var _ Attributes = (*SyncContainer)(nil)

// NewSyncContainer wraps c. c must not be used directly afterwards.
func NewSyncContainer(c *Container) *SyncContainer {
	return &SyncContainer{c: c}
}

func (s *SyncContainer) Value(t tag.Tag) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.c.Value(t)
}

func (s *SyncContainer) ValueBase(t tag.Tag) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.c.ValueBase(t)
}

func (s *SyncContainer) ValueBonus(t tag.Tag) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.c.ValueBonus(t)
}

func (s *SyncContainer) SetValue(t tag.Tag, v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.SetValue(t, v)
}

func (s *SyncContainer) HasAttribute(t tag.Tag) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.c.HasAttribute(t)
}

func (s *SyncContainer) AddModifierSpec(m Modifier) Handle {
	return s.AddModifier(m.Tag, m.Type, m.Value)
}

func (s *SyncContainer) AddModifier(t tag.Tag, typ ModifierType, v float64) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.AddModifier(t, typ, v)
}

func (s *SyncContainer) RemoveModifier(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.RemoveModifier(h)
}

func (s *SyncContainer) SetAttributeToMax(current, max tag.Tag, overwrite bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.SetAttributeToMax(current, max, overwrite)
}

// ModifierCount returns the number of active modifiers on t.
func (s *SyncContainer) ModifierCount(t tag.Tag) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.c.ModifierCount(t)
}
