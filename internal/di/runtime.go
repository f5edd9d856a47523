// Package di wires the toolkit's shared services into a samber/do injector.
package di

import (
	"github.com/samber/do/v2"
)

// Injector is the dependency container passed to modules and handlers.
type Injector = do.Injector

// Module registers services with an injector.
type Module func(Injector) error

// Runtime builds a fresh injector for every Invoke from its base modules.
type Runtime struct {
	modules []Module
}

// New creates a runtime from base modules. Nil modules are skipped.
func New(modules ...Module) *Runtime {
	return &Runtime{modules: modules}
}

// Invoke creates an injector, runs the base modules and then extra, in
// order, and calls handler. The first module error stops the call.
func (r *Runtime) Invoke(handler func(Injector) error, extra ...Module) error {
	injector := do.New()

	modules := make([]Module, 0, len(r.modules)+len(extra))
	modules = append(modules, r.modules...)
	modules = append(modules, extra...)

	for _, module := range modules {
		if module == nil {
			continue
		}
		if err := module(injector); err != nil {
			return err
		}
	}

	return handler(injector)
}
