package skema

import (
	"sort"
	"sync"
)

// Registry is a namespace of schemas with unique names. Schemas defined or
// projected through a registry reserve their name there; a second schema
// with the same explicit name is a definition error. Standalone schemas from
// Define get a fresh registry of their own.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: map[string]*Schema{}}
}

// Define starts a schema declaration registered in r on Build.
func (r *Registry) Define(name string) *Builder {
	b := Define(name)
	b.registry = r
	return b
}

// Lookup returns the schema registered under name.
func (r *Registry) Lookup(name string) (*Schema, bool) {
	r.mu.RLock()
	s, ok := r.schemas[name]
	r.mu.RUnlock()
	return s, ok
}

// Names returns the registered names in ascending order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.schemas))
	for k := range r.schemas {
		out = append(out, k)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}

func (r *Registry) register(s *Schema) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.schemas[s.name]; exists {
		return defErr(s.name, ErrNameConflict)
	}
	r.schemas[s.name] = s
	return nil
}
