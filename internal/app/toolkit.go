// Package app provides the toolkit entry point that creates editor
// instances. It wires the configuration resolver, the plugin registry,
// the editor constructor and the instance registry together and runs
// the initialization sequence.
package app

import (
	"github.com/dshills/trowel/internal/config"
	"github.com/dshills/trowel/internal/editor"
	"github.com/dshills/trowel/internal/logging"
	"github.com/dshills/trowel/internal/plugin"
	"github.com/dshills/trowel/internal/surface"
)

// Toolkit creates editor instances. Its registries are shared by every
// Init call; a Toolkit is safe for concurrent use.
type Toolkit struct {
	document  surface.Document
	plugins   *plugin.Registry
	editors   *editor.Registry
	construct editor.Constructor
	defaults  func() config.Values
	logger    *logging.Logger
	onWarning func(Warning)
}

// Option configures a Toolkit.
type Option func(*Toolkit)

// WithDocument sets the document container selectors are resolved against.
func WithDocument(doc surface.Document) Option {
	return func(t *Toolkit) {
		t.document = doc
	}
}

// WithPlugins sets the plugin registry.
func WithPlugins(reg *plugin.Registry) Option {
	return func(t *Toolkit) {
		t.plugins = reg
	}
}

// WithEditors sets the editor instance registry.
func WithEditors(reg *editor.Registry) Option {
	return func(t *Toolkit) {
		t.editors = reg
	}
}

// WithConstructor sets the editor constructor.
func WithConstructor(c editor.Constructor) Option {
	return func(t *Toolkit) {
		t.construct = c
	}
}

// WithDefaults sets the source of default configuration.
func WithDefaults(fn func() config.Values) Option {
	return func(t *Toolkit) {
		t.defaults = fn
	}
}

// WithLogger sets the toolkit logger. A nil logger is ignored.
func WithLogger(l *logging.Logger) Option {
	return func(t *Toolkit) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithWarningHandler sets a function receiving non-fatal warnings.
// It is called synchronously from Init.
func WithWarningHandler(fn func(Warning)) Option {
	return func(t *Toolkit) {
		t.onWarning = fn
	}
}

// New creates a Toolkit. Without WithDocument, Init fails with
// ErrMissingDependency.
func New(opts ...Option) *Toolkit {
	t := &Toolkit{
		plugins:  plugin.NewRegistry(),
		editors:  editor.NewRegistry(),
		defaults: config.Defaults,
		logger:   logging.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.WithComponent("toolkit")

	if t.construct == nil {
		logger := t.logger
		t.construct = func(cfg *config.Config) (editor.Instance, error) {
			if cfg == nil {
				return nil, editor.ErrNilConfig
			}
			return editor.New(cfg, editor.WithLogger(logger)), nil
		}
	}
	return t
}

// Plugins returns the plugin registry.
func (t *Toolkit) Plugins() *plugin.Registry {
	return t.plugins
}

// Editors returns the editor instance registry.
func (t *Toolkit) Editors() *editor.Registry {
	return t.editors
}

// Document returns the document, or nil.
func (t *Toolkit) Document() surface.Document {
	return t.document
}

// Report describes one successful Init call.
type Report struct {
	// Instance is the initialized editor.
	Instance editor.Instance

	// Config is the typed resolved configuration.
	Config *config.Config

	// Values is the resolved configuration, including the el key.
	Values config.Values

	// Warnings are the non-fatal problems met, in order.
	Warnings []Warning

	// Stages lists the stages that ran, in order.
	Stages []Stage
}

// Init creates, initializes and registers an editor instance from the
// caller configuration. A nil map is treated as empty.
func (t *Toolkit) Init(values config.Values) (editor.Instance, error) {
	report, err := t.InitReport(values)
	if err != nil {
		return nil, err
	}
	return report.Instance, nil
}

// InitReport is Init returning the full report.
func (t *Toolkit) InitReport(values config.Values) (*Report, error) {
	b := newBootstrapper(t, values)
	if err := b.bootstrap(); err != nil {
		t.logger.WithError(err).Debug("init failed")
		return nil, err
	}
	return b.report(), nil
}
