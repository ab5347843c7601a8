package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Sentinel errors.
var (
	// ErrNotRegistered indicates a lookup of a name that was never registered.
	ErrNotRegistered = errors.New("not registered")

	// ErrDuplicate indicates RegisterUnique was called with a taken name.
	ErrDuplicate = errors.New("already registered")

	// ErrEmptyName indicates registration under the empty name.
	ErrEmptyName = errors.New("empty name")
)

// Registry maps names to values.
type Registry[V any] struct {
	kind string

	mu      sync.RWMutex
	entries map[string]V
}

// New creates an empty registry. kind describes the values and appears in
// error messages, e.g. "event hash".
func New[V any](kind string) *Registry[V] {
	return &Registry[V]{
		kind:    kind,
		entries: make(map[string]V),
	}
}

// Kind returns the description passed to New.
func (r *Registry[V]) Kind() string { return r.kind }

// Register adds or replaces the value for name.
func (r *Registry[V]) Register(name string, value V) error {
	if name == "" {
		return fmt.Errorf("register %s: %w", r.kind, ErrEmptyName)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = value
	return nil
}

// RegisterUnique adds value under name, failing if name is taken.
func (r *Registry[V]) RegisterUnique(name string, value V) error {
	if name == "" {
		return fmt.Errorf("register %s: %w", r.kind, ErrEmptyName)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; ok {
		return fmt.Errorf("register %s %q: %w", r.kind, name, ErrDuplicate)
	}
	r.entries[name] = value
	return nil
}

// Get returns the value for name and whether it exists.
func (r *Registry[V]) Get(name string) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[name]
	return v, ok
}

// Lookup returns the value for name or an error wrapping ErrNotRegistered
// that lists the available names.
func (r *Registry[V]) Lookup(name string) (V, error) {
	if v, ok := r.Get(name); ok {
		return v, nil
	}
	var zero V
	return zero, fmt.Errorf("%s %q: %w (available: %s)",
		r.kind, name, ErrNotRegistered, strings.Join(r.Names(), ", "))
}

// Has reports whether name is registered.
func (r *Registry[V]) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Delete removes name.
func (r *Registry[V]) Delete(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// Names returns the registered names in sorted order.
func (r *Registry[V]) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Len returns the number of entries.
func (r *Registry[V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Range calls fn for each entry in name order until fn returns false.
func (r *Registry[V]) Range(fn func(name string, value V) bool) {
	r.mu.RLock()
	snapshot := make(map[string]V, len(r.entries))
	for k, v := range r.entries {
		snapshot[k] = v
	}
	r.mu.RUnlock()

	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if !fn(name, snapshot[name]) {
			return
		}
	}
}
