package di_test

import (
	"errors"
	"testing"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/trowel/internal/app"
	"github.com/dshills/trowel/internal/config"
	"github.com/dshills/trowel/internal/di"
	"github.com/dshills/trowel/internal/editor"
	"github.com/dshills/trowel/internal/plugin"
	"github.com/dshills/trowel/internal/surface"
)

var (
	errHandler = errors.New("handler error")
	errModule  = errors.New("module error")
)

func TestRuntime_InvokeOrder(t *testing.T) {
	var order []int
	module := func(n int) di.Module {
		return func(di.Injector) error {
			order = append(order, n)
			return nil
		}
	}

	rt := di.New(module(1), nil)
	err := rt.Invoke(func(di.Injector) error {
		order = append(order, 4)
		return nil
	}, module(2), nil, module(3))

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, order)
}

func TestRuntime_InvokeErrors(t *testing.T) {
	err := di.New().Invoke(func(di.Injector) error { return errHandler })
	assert.Equal(t, errHandler, err)

	failing := func(di.Injector) error { return errModule }
	err = di.New(failing).Invoke(func(di.Injector) error {
		t.Fatal("handler should not run after a module error")
		return nil
	})
	assert.Equal(t, errModule, err)
}

func TestRuntime_FreshInjectorPerInvoke(t *testing.T) {
	rt := di.NewRuntime()

	var first, second *plugin.Registry
	require.NoError(t, rt.Invoke(func(i di.Injector) error {
		var err error
		first, err = di.ResolvePlugins(i)
		return err
	}))
	require.NoError(t, rt.Invoke(func(i di.Injector) error {
		var err error
		second, err = di.ResolvePlugins(i)
		return err
	}))

	assert.NotSame(t, first, second)
}

func TestNewRuntime_SharedServices(t *testing.T) {
	err := di.NewRuntime().Invoke(func(i di.Injector) error {
		tk, err := di.ResolveToolkit(i)
		require.NoError(t, err)
		plugins, err := di.ResolvePlugins(i)
		require.NoError(t, err)
		editors, err := di.ResolveEditors(i)
		require.NoError(t, err)
		doc, err := di.ResolveDocument(i)
		require.NoError(t, err)
		_, err = di.ResolveLogger(i)
		require.NoError(t, err)

		assert.Same(t, plugins, tk.Plugins())
		assert.Same(t, editors, tk.Editors())
		assert.Equal(t, surface.Document(doc), tk.Document())

		again, err := di.ResolvePlugins(i)
		require.NoError(t, err)
		assert.Same(t, plugins, again)
		return nil
	})
	require.NoError(t, err)
}

func TestNewRuntime_InitThroughToolkit(t *testing.T) {
	buf := surface.NewBuffer("canvas", 0, 0)

	setup := func(i di.Injector) error {
		doc, err := di.ResolveDocument(i)
		if err != nil {
			return err
		}
		if err := doc.Add(buf); err != nil {
			return err
		}
		plugins, err := di.ResolvePlugins(i)
		if err != nil {
			return err
		}
		plugins.Register("hero", func(ed editor.Instance, opts plugin.Options) error {
			page, ok := ed.(interface{ Page() *editor.PageModel })
			if !ok {
				return errors.New("no page model")
			}
			return page.Page().AddType("hero", opts.String("tag"))
		})
		return nil
	}

	err := di.NewRuntime(setup).Invoke(func(i di.Injector) error {
		tk, err := di.ResolveToolkit(i)
		if err != nil {
			return err
		}

		inst, err := tk.Init(config.Values{
			config.KeyContainer:   "#canvas",
			config.KeyComponents:  "hi",
			config.KeyPlugins:     []any{"hero"},
			config.KeyPluginsOpts: map[string]any{"hero": map[string]any{"tag": "section"}},
		})
		require.NoError(t, err)

		ed, ok := inst.(*editor.Editor)
		require.True(t, ok)
		assert.True(t, ed.Page().HasType("hero"))
		assert.Equal(t, 1, tk.Editors().Len())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"<span> text hi"}, buf.Lines())
}

func TestResolvers_EmptyInjector(t *testing.T) {
	injector := do.New()

	_, err := di.ResolveLogger(injector)
	assert.ErrorContains(t, err, "resolve logger dependency")
	_, err = di.ResolvePlugins(injector)
	assert.ErrorContains(t, err, "resolve plugin registry dependency")
	_, err = di.ResolveEditors(injector)
	assert.ErrorContains(t, err, "resolve editor registry dependency")
	_, err = di.ResolveDocument(injector)
	assert.ErrorContains(t, err, "resolve document dependency")
	_, err = di.ResolveToolkit(injector)
	assert.ErrorContains(t, err, "resolve toolkit dependency")
}

func TestWithToolkit(t *testing.T) {
	called := false
	handler := di.WithToolkit(func(_ *cobra.Command, _ di.Injector, tk *app.Toolkit) error {
		called = true
		assert.NotNil(t, tk)
		return nil
	})

	require.NoError(t, di.NewRuntime().Invoke(func(i di.Injector) error {
		return handler(&cobra.Command{}, i)
	}))
	assert.True(t, called)

	err := di.WithToolkit(func(*cobra.Command, di.Injector, *app.Toolkit) error {
		return nil
	})(&cobra.Command{}, do.New())
	assert.ErrorContains(t, err, "resolve toolkit dependency")
}
