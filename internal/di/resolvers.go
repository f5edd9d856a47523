package di

import (
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/trowel/internal/app"
	"github.com/dshills/trowel/internal/editor"
	"github.com/dshills/trowel/internal/logging"
	"github.com/dshills/trowel/internal/plugin"
	"github.com/dshills/trowel/internal/surface"
)

// ResolveLogger retrieves the logger from the injector.
func ResolveLogger(injector Injector) (*logging.Logger, error) {
	logger, err := do.Invoke[*logging.Logger](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve logger dependency: %w", err)
	}
	return logger, nil
}

// ResolvePlugins retrieves the plugin registry from the injector.
func ResolvePlugins(injector Injector) (*plugin.Registry, error) {
	reg, err := do.Invoke[*plugin.Registry](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve plugin registry dependency: %w", err)
	}
	return reg, nil
}

// ResolveEditors retrieves the editor instance registry from the injector.
func ResolveEditors(injector Injector) (*editor.Registry, error) {
	reg, err := do.Invoke[*editor.Registry](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve editor registry dependency: %w", err)
	}
	return reg, nil
}

// ResolveDocument retrieves the document tree from the injector.
func ResolveDocument(injector Injector) (*surface.Tree, error) {
	doc, err := do.Invoke[*surface.Tree](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve document dependency: %w", err)
	}
	return doc, nil
}

// ResolveToolkit retrieves the toolkit from the injector.
func ResolveToolkit(injector Injector) (*app.Toolkit, error) {
	tk, err := do.Invoke[*app.Toolkit](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve toolkit dependency: %w", err)
	}
	return tk, nil
}

// WithToolkit decorates a command handler to resolve the toolkit first.
func WithToolkit(
	handler func(cmd *cobra.Command, injector Injector, tk *app.Toolkit) error,
) func(cmd *cobra.Command, injector Injector) error {
	return func(cmd *cobra.Command, injector Injector) error {
		tk, err := ResolveToolkit(injector)
		if err != nil {
			return err
		}
		return handler(cmd, injector, tk)
	}
}
