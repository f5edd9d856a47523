package di

import (
	"github.com/samber/do/v2"

	"github.com/dshills/trowel/internal/app"
	"github.com/dshills/trowel/internal/editor"
	"github.com/dshills/trowel/internal/logging"
	"github.com/dshills/trowel/internal/plugin"
	"github.com/dshills/trowel/internal/surface"
)

// NewRuntime constructs the runtime used by the CLI and tests. It
// registers the logger, both registries, the document tree and the
// toolkit built from them. Extra modules run after the defaults.
func NewRuntime(modules ...Module) *Runtime {
	base := []Module{
		provideLogger,
		providePlugins,
		provideEditors,
		provideDocument,
		provideToolkit,
	}
	return New(append(base, modules...)...)
}

func provideLogger(i Injector) error {
	do.Provide(i, func(Injector) (*logging.Logger, error) {
		return logging.Default(), nil
	})
	return nil
}

func providePlugins(i Injector) error {
	do.Provide(i, func(Injector) (*plugin.Registry, error) {
		return plugin.NewRegistry(), nil
	})
	return nil
}

func provideEditors(i Injector) error {
	do.Provide(i, func(Injector) (*editor.Registry, error) {
		return editor.NewRegistry(), nil
	})
	return nil
}

func provideDocument(i Injector) error {
	do.Provide(i, func(Injector) (*surface.Tree, error) {
		return surface.NewTree(), nil
	})
	return nil
}

// provideToolkit registers the toolkit. It shares the registries and
// document tree held by the injector.
func provideToolkit(i Injector) error {
	do.Provide(i, func(i Injector) (*app.Toolkit, error) {
		logger, err := ResolveLogger(i)
		if err != nil {
			return nil, err
		}
		plugins, err := ResolvePlugins(i)
		if err != nil {
			return nil, err
		}
		editors, err := ResolveEditors(i)
		if err != nil {
			return nil, err
		}
		doc, err := ResolveDocument(i)
		if err != nil {
			return nil, err
		}

		return app.New(
			app.WithLogger(logger),
			app.WithPlugins(plugins),
			app.WithEditors(editors),
			app.WithDocument(doc),
		), nil
	})
	return nil
}
