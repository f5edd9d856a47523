package app

import (
	"fmt"
	"math"
	"reflect"

	"github.com/dshills/trowel/internal/config"
	"github.com/dshills/trowel/internal/editor"
	"github.com/dshills/trowel/internal/plugin"
	"github.com/dshills/trowel/internal/surface"
)

// bootstrapper runs one initialization sequence.
type bootstrapper struct {
	tk     *Toolkit
	caller config.Values

	values   config.Values
	cfg      *config.Config
	inst     editor.Instance
	warnings []Warning
	stages   []Stage
}

// newBootstrapper creates a bootstrapper for one Init call.
func newBootstrapper(tk *Toolkit, caller config.Values) *bootstrapper {
	return &bootstrapper{
		tk:     tk,
		caller: caller,
		stages: make([]Stage, 0, 8),
	}
}

// bootstrap checks preconditions and runs every stage in order.
// Nothing is registered unless every stage succeeds.
func (b *bootstrapper) bootstrap() error {
	// Preconditions, before any state is touched
	if b.tk.document == nil {
		return fmt.Errorf("%w: no document to resolve containers", ErrMissingDependency)
	}
	if container, ok := b.caller[config.KeyContainer]; !ok || !truthy(container) {
		return &OptionError{Option: config.KeyContainer, Value: container, Err: ErrMissingRequiredOption}
	}

	steps := []struct {
		stage Stage
		run   func() error
		skip  func() bool
	}{
		// 1. Defaults fill and typed decode
		{stage: StageConfig, run: b.resolveConfig},
		// 2. Container lookup
		{stage: StageContainer, run: b.resolveContainer},
		// 3. Instance construction and its own init
		{stage: StageConstruct, run: b.construct},
		{stage: StageInit, run: b.initInstance},
		// 4. Plugins, in declared order
		{stage: StagePlugins, run: b.applyPlugins},
		// 5. Model startup load, after every plugin
		{stage: StageLoad, run: b.loadOnStart},
		// 6. Initial render
		{stage: StageRender, run: b.render, skip: func() bool { return !b.cfg.Autorender }},
		// 7. Registration
		{stage: StageRegister, run: b.register},
	}

	for _, step := range steps {
		if step.skip != nil && step.skip() {
			continue
		}
		if err := step.run(); err != nil {
			return err
		}
		b.stages = append(b.stages, step.stage)
	}
	return nil
}

// resolveConfig fills defaults and decodes the result.
func (b *bootstrapper) resolveConfig() error {
	b.values = config.Resolve(b.caller, b.tk.defaults())

	cfg, err := config.Decode(b.values)
	if err != nil {
		return &StageError{Stage: StageConfig, Err: err}
	}
	b.cfg = cfg
	return nil
}

// resolveContainer turns the container option into a surface.
// A selector is looked up exactly once.
func (b *bootstrapper) resolveContainer() error {
	var el surface.Surface

	switch c := b.cfg.Container.(type) {
	case surface.Surface:
		el = c
	case string:
		el = b.tk.document.QuerySelector(c)
		if isNil(el) {
			el = nil
			b.warn(Warning{Stage: StageContainer, Target: c, Err: ErrNoContainerMatch})
		}
	default:
		return &OptionError{Option: config.KeyContainer, Value: c, Err: ErrInvalidOption}
	}

	b.cfg.El = el
	b.values[config.KeyEl] = el
	return nil
}

func (b *bootstrapper) construct() error {
	inst, err := b.tk.construct(b.cfg)
	if err != nil {
		return &StageError{Stage: StageConstruct, Err: err}
	}
	b.inst = inst
	return nil
}

func (b *bootstrapper) initInstance() error {
	if err := b.inst.Init(); err != nil {
		return &StageError{Stage: StageInit, Target: b.inst.ID(), Err: err}
	}
	return nil
}

// applyPlugins calls each configured plugin with its own options.
// Unknown ids produce a warning and are skipped.
func (b *bootstrapper) applyPlugins() error {
	for _, id := range b.cfg.Plugins {
		factory, ok := b.tk.plugins.Get(id)
		if !ok {
			b.warn(Warning{Stage: StagePlugins, Target: id, Err: &plugin.NotFoundError{ID: id}})
			continue
		}

		if err := factory(b.inst, plugin.NewOptions(b.cfg.PluginOptions(id))); err != nil {
			return &StageError{Stage: StagePlugins, Target: id, Err: err}
		}
		b.tk.logger.Debug("applied plugin %s to %s", id, b.inst.ID())
	}
	return nil
}

func (b *bootstrapper) loadOnStart() error {
	if err := b.inst.Model().LoadOnStart(); err != nil {
		return &StageError{Stage: StageLoad, Target: b.inst.ID(), Err: err}
	}
	return nil
}

func (b *bootstrapper) render() error {
	if err := b.inst.Render(); err != nil {
		return &StageError{Stage: StageRender, Target: b.inst.ID(), Err: err}
	}
	return nil
}

func (b *bootstrapper) register() error {
	b.tk.editors.Append(b.inst)
	b.tk.logger.Info("initialized editor %s (%d plugins, %d warnings)",
		b.inst.ID(), len(b.cfg.Plugins), len(b.warnings))
	return nil
}

// warn records a warning, logs it and passes it to the handler.
func (b *bootstrapper) warn(w Warning) {
	b.warnings = append(b.warnings, w)
	b.tk.logger.WithField("stage", string(w.Stage)).Warn("%s", w.String())
	if b.tk.onWarning != nil {
		b.tk.onWarning(w)
	}
}

func (b *bootstrapper) report() *Report {
	return &Report{
		Instance: b.inst,
		Config:   b.cfg,
		Values:   b.values,
		Warnings: b.warnings,
		Stages:   b.stages,
	}
}

// truthy reports whether v counts as set: nil, false, "", numeric zero
// and nil handles do not.
func truthy(v any) bool {
	if isNil(v) {
		return false
	}
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return x != ""
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

// isNil reports whether v is nil or an interface holding a nil pointer.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
