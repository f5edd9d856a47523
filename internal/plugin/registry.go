package plugin

import (
	"slices"
	"sync"

	"github.com/dshills/trowel/internal/editor"
)

// Factory applies a plugin to an editor instance.
type Factory func(ed editor.Instance, opts Options) error

// Registry maps plugin ids to factories.
// It is safe for concurrent use.
type Registry struct {
	mu sync.RWMutex

	// Registered factories by id
	factories map[string]Factory

	// Registration order (for deterministic iteration)
	order []string

	// Event handlers (protected by mu)
	eventHandlers []EventHandler
}

// EventHandler handles registry events.
// Handlers must be non-blocking and should not call back into the Registry
// to avoid deadlocks. Panics in handlers are recovered.
type EventHandler func(event Event)

// Event represents a registry change.
type Event struct {
	Type EventType
	ID   string
}

// EventType is the type of registry event.
type EventType int

const (
	// EventRegistered is emitted when a new id is registered.
	EventRegistered EventType = iota
	// EventReplaced is emitted when an existing id is registered again.
	EventReplaced
	// EventUnregistered is emitted when an id is removed.
	EventUnregistered
)

// String returns a string representation of the event type.
func (t EventType) String() string {
	switch t {
	case EventRegistered:
		return "registered"
	case EventReplaced:
		return "replaced"
	case EventUnregistered:
		return "unregistered"
	default:
		return "unknown"
	}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		order:     make([]string, 0),
	}
}

// Register stores factory under id, replacing any earlier registration.
// Neither id nor factory is validated; a nil factory is stored but Get treats
// it as absent.
func (r *Registry) Register(id string, factory Factory) {
	r.mu.Lock()
	_, exists := r.factories[id]
	r.factories[id] = factory
	if !exists {
		r.order = append(r.order, id)
	}
	r.mu.Unlock()

	if exists {
		r.emitEvent(Event{Type: EventReplaced, ID: id})
		return
	}
	r.emitEvent(Event{Type: EventRegistered, ID: id})
}

// Get returns the factory registered under id.
func (r *Registry) Get(id string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[id]
	if !ok || factory == nil {
		return nil, false
	}
	return factory, true
}

// Has reports whether a usable factory is registered under id.
func (r *Registry) Has(id string) bool {
	_, ok := r.Get(id)
	return ok
}

// Unregister removes id. It reports whether id was registered.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	if _, exists := r.factories[id]; !exists {
		r.mu.Unlock()
		return false
	}
	delete(r.factories, id)
	r.removeFromOrder(id)
	r.mu.Unlock()

	r.emitEvent(Event{Type: EventUnregistered, ID: id})
	return true
}

// Apply looks up id and calls its factory with ed and opts.
// A missing plugin yields a *NotFoundError; a factory failure
// yields an *ApplyError.
func (r *Registry) Apply(id string, ed editor.Instance, opts Options) error {
	factory, ok := r.Get(id)
	if !ok {
		return &NotFoundError{ID: id}
	}
	if err := factory(ed, opts); err != nil {
		return &ApplyError{ID: id, Err: err}
	}
	return nil
}

// IDs returns registered ids in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Len returns the number of registered ids.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.factories)
}

// Reset removes every registration. Event handlers are kept.
// Intended for tests.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories = make(map[string]Factory)
	r.order = make([]string, 0)
}

// Subscribe adds an event handler.
// Returns an unsubscribe function to remove the handler.
func (r *Registry) Subscribe(handler EventHandler) func() {
	if handler == nil {
		return func() {} // No-op for nil handlers
	}

	r.mu.Lock()
	r.eventHandlers = append(r.eventHandlers, handler)
	index := len(r.eventHandlers) - 1
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		// Set to nil instead of removing to avoid index shifting issues
		if index < len(r.eventHandlers) {
			r.eventHandlers[index] = nil
		}
	}
}

// emitEvent sends an event to all handlers.
// Handlers are called outside any locks and panics are recovered.
func (r *Registry) emitEvent(event Event) {
	r.mu.RLock()
	handlers := make([]EventHandler, len(r.eventHandlers))
	copy(handlers, r.eventHandlers)
	r.mu.RUnlock()

	for _, handler := range handlers {
		if handler == nil {
			continue
		}
		func() {
			defer func() {
				recover() // Ignore panics from handlers
			}()
			handler(event)
		}()
	}
}

// removeFromOrder removes id from the order slice.
// Must be called with mu held.
func (r *Registry) removeFromOrder(id string) {
	for i, n := range r.order {
		if n == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}
