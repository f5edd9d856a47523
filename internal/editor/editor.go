// Package editor defines the editor instance contract the bootstrap sequence
// drives, a reference implementation of it, and the registry of created
// instances.
//
// The bootstrap sequence only relies on Instance and Model:
//
//	inst, _ := construct(cfg)
//	inst.Init()
//	// plugins run here
//	inst.Model().LoadOnStart()
//	inst.Render()
package editor

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/trowel/internal/config"
	"github.com/dshills/trowel/internal/logging"
	"github.com/dshills/trowel/internal/surface"
)

// Instance is one running editor.
type Instance interface {
	// ID returns a process-unique identifier.
	ID() string

	// Init runs the instance's own initialization step.
	Init() error

	// Model returns the instance's data model.
	Model() Model

	// Render paints the editor onto its container.
	Render() error
}

// Model is the editor data model as seen by the bootstrap sequence.
type Model interface {
	// LoadOnStart loads initial content. It runs once, after every plugin
	// has been applied, so plugin-defined types are recognized.
	LoadOnStart() error
}

// Constructor builds an Instance from a resolved configuration.
type Constructor func(cfg *config.Config) (Instance, error)

// Event names emitted by Editor.
const (
	EventLoad   = "load"
	EventRender = "render"
)

// Handler receives editor events.
// Handlers must not block. Panics in handlers are recovered.
type Handler func(ed *Editor)

// Editor is the reference Instance implementation.
type Editor struct {
	mu sync.RWMutex

	id     string
	config *config.Config
	model  *PageModel
	logger *logging.Logger

	initialized bool
	undoManager bool
	copyPaste   bool
	renders     int

	handlers map[string][]Handler
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the editor's logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Editor) {
		e.logger = l
	}
}

// New creates an editor for cfg.
func New(cfg *config.Config, opts ...Option) *Editor {
	e := &Editor{
		id:       uuid.New().String(),
		config:   cfg,
		logger:   logging.Default(),
		handlers: make(map[string][]Handler),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.WithComponent("editor").WithField("editor", e.id)
	e.model = NewPageModel(cfg)
	e.model.onLoad = func() { e.emit(EventLoad) }
	return e
}

// Construct is the Constructor for the reference editor.
func Construct(cfg *config.Config) (Instance, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	return New(cfg), nil
}

// ID implements Instance.
func (e *Editor) ID() string {
	return e.id
}

// Config returns the resolved configuration the editor was built from.
func (e *Editor) Config() *config.Config {
	return e.config
}

// Container returns the container surface, or nil.
func (e *Editor) Container() surface.Surface {
	return e.config.El
}

// Init implements Instance.
func (e *Editor) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return ErrAlreadyInitialized
	}
	e.undoManager = e.config.UndoManager
	e.copyPaste = e.config.CopyPaste
	e.initialized = true

	e.logger.Debug("initialized (undoManager=%t copyPaste=%t)", e.undoManager, e.copyPaste)
	return nil
}

// Initialized reports whether Init has completed.
func (e *Editor) Initialized() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.initialized
}

// UndoManager reports whether the undo manager is enabled.
func (e *Editor) UndoManager() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.undoManager
}

// CopyPaste reports whether copy and paste is enabled.
func (e *Editor) CopyPaste() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.copyPaste
}

// Model implements Instance.
func (e *Editor) Model() Model {
	return e.model
}

// Page returns the concrete data model.
func (e *Editor) Page() *PageModel {
	return e.model
}

// Render implements Instance. It draws an outline of the loaded
// components and style onto the container.
func (e *Editor) Render() error {
	e.mu.Lock()
	if !e.initialized {
		e.mu.Unlock()
		return ErrNotInitialized
	}
	el := e.config.El
	if el == nil {
		e.mu.Unlock()
		return ErrNoContainer
	}

	if err := el.Draw(e.model.Outline()); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("draw %s: %w", el.ID(), err)
	}
	e.renders++
	e.mu.Unlock()

	e.emit(EventRender)
	return nil
}

// Renders returns how many times Render has succeeded.
func (e *Editor) Renders() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.renders
}

// On registers a handler for event and returns a function removing it.
func (e *Editor) On(event string, handler Handler) func() {
	if handler == nil {
		return func() {} // No-op for nil handlers
	}

	e.mu.Lock()
	e.handlers[event] = append(e.handlers[event], handler)
	index := len(e.handlers[event]) - 1
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		// Set to nil instead of removing to avoid index shifting issues
		if index < len(e.handlers[event]) {
			e.handlers[event][index] = nil
		}
	}
}

// emit calls the handlers for event outside the lock, recovering panics.
func (e *Editor) emit(event string) {
	e.mu.RLock()
	handlers := make([]Handler, len(e.handlers[event]))
	copy(handlers, e.handlers[event])
	e.mu.RUnlock()

	for _, handler := range handlers {
		if handler == nil {
			continue
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					e.logger.Warn("%s handler panicked: %v", event, r)
				}
			}()
			handler(e)
		}()
	}
}

// String returns a short description of the editor.
func (e *Editor) String() string {
	var sb strings.Builder
	sb.WriteString("editor ")
	sb.WriteString(e.id)
	if el := e.config.El; el != nil {
		sb.WriteString(" on #")
		sb.WriteString(el.ID())
	}
	return sb.String()
}
