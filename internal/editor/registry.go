package editor

import (
	"slices"
	"sync"
)

// Registry is the ordered, append-only collection of created instances.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	instances []Instance
}

// NewRegistry creates an empty instance registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Append adds an instance to the end of the registry.
func (r *Registry) Append(inst Instance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances = append(r.instances, inst)
}

// All returns the instances in creation order.
func (r *Registry) All() []Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.instances)
}

// Len returns the number of registered instances.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.instances)
}

// At returns the instance at index i, or nil if out of range.
func (r *Registry) At(i int) Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i < 0 || i >= len(r.instances) {
		return nil
	}
	return r.instances[i]
}

// Find returns the instance with the given id.
func (r *Registry) Find(id string) (Instance, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, inst := range r.instances {
		if inst.ID() == id {
			return inst, true
		}
	}
	return nil, false
}

// Reset empties the registry. Intended for tests.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances = nil
}
