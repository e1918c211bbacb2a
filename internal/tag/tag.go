// Package tag provides hierarchical attribute identifiers.
//
// A Tag is a small comparable value suitable as a map key. Tags are indices into the
// Registry that created them, so they are process-local: persist tag names
// (Registry.Name) and resolve them again on load (Registry.Lookup / Register).
package tag

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Separator splits a tag name into hierarchy segments ("Health.Max").
const Separator = "."

var (
	ErrEmptyName   = errors.New("empty tag name")
	ErrInvalidName = errors.New("invalid tag name")
	ErrUnknown     = errors.New("unknown tag")
)

// Tag identifies an attribute. The zero value is None.
type Tag struct {
	index uint32
}

// None is the invalid tag.
var None = Tag{}

// IsValid reports whether t was issued by a registry.
func (t Tag) IsValid() bool {
	return t.index != 0
}

// Registry interns tag names. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	names   []string // index 0 reserved for None
	parents []Tag
	byName  map[string]Tag
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		names:   []string{""},
		parents: []Tag{None},
		byName:  make(map[string]Tag, 64),
	}
}

// Register returns the tag for name, registering it and all its ancestors if needed.
//
//	Register("Health.Max") → registers "Health" and "Health.Max"
func (r *Registry) Register(name string) (Tag, error) {
	if err := validateName(name); err != nil {
		return None, err
	}

	r.mu.RLock()
	t, ok := r.byName[name]
	r.mu.RUnlock()
	if ok {
		return t, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registerLocked(name), nil
}

// MustRegister is Register that panics on invalid names. Intended for package-level vars.
func (r *Registry) MustRegister(name string) Tag {
	t, err := r.Register(name)
	if err != nil {
		panic(err)
	}
	return t
}

// registerLocked must be called with mu held for writing. name is already validated.
func (r *Registry) registerLocked(name string) Tag {
	if t, ok := r.byName[name]; ok {
		return t
	}

	parent := None
	if i := strings.LastIndex(name, Separator); i >= 0 {
		parent = r.registerLocked(name[:i])
	}

	t := Tag{index: uint32(len(r.names))}
	r.names = append(r.names, name)
	r.parents = append(r.parents, parent)
	r.byName[name] = t
	return t
}

// Lookup returns the tag registered under name.
func (r *Registry) Lookup(name string) (Tag, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[name]
	return t, ok
}

// Resolve is Lookup returning ErrUnknown for unregistered names.
func (r *Registry) Resolve(name string) (Tag, error) {
	t, ok := r.Lookup(name)
	if !ok {
		return None, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return t, nil
}

// Name returns the full dotted name of t, or "" for None and foreign tags.
func (r *Registry) Name(t Tag) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(t.index) >= len(r.names) {
		return ""
	}
	return r.names[t.index]
}

// Parent returns the direct parent of t. Root tags have no parent.
func (r *Registry) Parent(t Tag) (Tag, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t.index == 0 || int(t.index) >= len(r.parents) {
		return None, false
	}
	p := r.parents[t.index]
	return p, p.IsValid()
}

// IsChildOf reports whether parent is an ancestor of child (at any depth).
func (r *Registry) IsChildOf(child, parent Tag) bool {
	if !parent.IsValid() {
		return false
	}
	for {
		p, ok := r.Parent(child)
		if !ok {
			return false
		}
		if p == parent {
			return true
		}
		child = p
	}
}

// Len returns the number of registered tags.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names) - 1
}

func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	for _, seg := range strings.Split(name, Separator) {
		if seg == "" {
			return fmt.Errorf("%w: %q has an empty segment", ErrInvalidName, name)
		}
		for _, c := range seg {
			if !isNameRune(c) {
				return fmt.Errorf("%w: %q contains %q", ErrInvalidName, name, c)
			}
		}
	}
	return nil
}

func isNameRune(c rune) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
