package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dshills/trowel/internal/app"
	"github.com/dshills/trowel/internal/config"
	"github.com/dshills/trowel/internal/config/loader"
	"github.com/dshills/trowel/internal/di"
	"github.com/dshills/trowel/internal/plugin/lua"
	"github.com/dshills/trowel/internal/surface"
)

// CanvasID is the id of the surface the init command renders into.
const CanvasID = "canvas"

type initFlags struct {
	configPath string
	container  string
	components string
	style      string
	plugins    []string
	pluginOpts []string
	noRender   bool
	terminal   bool
	width      int
}

func newInitCmd(rt *di.Runtime, v *viper.Viper) *cobra.Command {
	f := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize an editor and render its page",
		Long: `Initialize an editor from a configuration file, TROWEL_ environment
variables and flags, in increasing precedence. Lua plugins found in the
plugin directories are registered before initialization.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			handler := di.WithToolkit(func(cmd *cobra.Command, injector di.Injector, tk *app.Toolkit) error {
				return runInit(cmd, injector, tk, f, pluginDirs(cmd, v))
			})
			return rt.Invoke(func(injector di.Injector) error {
				return handler(cmd, injector)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.configPath, "config", "c", "", "Configuration file (TOML, YAML or JSON)")
	flags.StringVar(&f.container, config.KeyContainer, "", "Container selector (default \"#canvas\")")
	flags.StringVar(&f.components, config.KeyComponents, "", "Initial components as markup")
	flags.StringVar(&f.style, config.KeyStyle, "", "Initial style")
	flags.StringArrayVarP(&f.plugins, "plugin", "p", nil, "Plugin id to apply (repeatable, replaces configured plugins)")
	flags.StringArrayVar(&f.pluginOpts, "plugin-opt", nil, "Plugin option as id.path=value (repeatable)")
	flags.BoolVar(&f.noRender, "no-render", false, "Skip the initial render")
	flags.BoolVar(&f.terminal, "terminal", false, "Render to the terminal and wait for a key")
	flags.IntVar(&f.width, "width", 80, "Canvas width in cells (0 for unbounded)")

	return cmd
}

func runInit(cmd *cobra.Command, injector di.Injector, tk *app.Toolkit, f *initFlags, dirs []string) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	values, err := loadValues(f.configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd.Flags(), values, f); err != nil {
		return err
	}

	if err := registerLuaPlugins(injector, dirs, errOut); err != nil {
		return err
	}

	doc, err := di.ResolveDocument(injector)
	if err != nil {
		return err
	}

	var canvas surface.Surface
	var term *surface.Terminal
	if f.terminal {
		term, err = surface.NewTerminal(CanvasID)
		if err != nil {
			return fmt.Errorf("create terminal: %w", err)
		}
		if err := term.Init(); err != nil {
			return fmt.Errorf("init terminal: %w", err)
		}
		defer term.Close()
		canvas = term
	} else {
		canvas = surface.NewBuffer(CanvasID, f.width, 0)
	}
	if err := doc.Add(canvas, CanvasID); err != nil {
		return err
	}

	report, err := tk.InitReport(values)
	if term != nil {
		if err == nil && report.Config.Autorender {
			term.WaitKey()
		}
		term.Close()
	}
	if err != nil {
		return err
	}

	for _, w := range report.Warnings {
		warningf(errOut, "%s", w)
	}
	successf(out, "initialized editor %s", report.Instance.ID())
	if term == nil && report.Config.Autorender {
		if content := canvas.Content(); content != "" {
			fmt.Fprintln(out, content)
		}
	}
	return nil
}

// loadValues reads the configuration file, if any, and lays TROWEL_
// environment variables over it. A named file must exist.
func loadValues(path string) (config.Values, error) {
	var fileValues config.Values
	if path != "" {
		if _, err := loader.DefaultFS().Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		var err error
		fileValues, err = loader.Load(path)
		if err != nil {
			return nil, err
		}
	}

	envValues, err := loader.NewEnvLoader(loader.DefaultEnvPrefix).
		Ignore(EnvLogLevel, EnvPluginDir).
		Load()
	if err != nil {
		return nil, err
	}
	return loader.Merge(fileValues, envValues), nil
}

// applyFlags lays explicitly set flags over values.
func applyFlags(flags *pflag.FlagSet, values config.Values, f *initFlags) error {
	if flags.Changed(config.KeyContainer) {
		values[config.KeyContainer] = f.container
	} else if _, ok := values[config.KeyContainer]; !ok {
		values[config.KeyContainer] = "#" + CanvasID
	}
	if flags.Changed(config.KeyComponents) {
		values[config.KeyComponents] = f.components
	}
	if flags.Changed(config.KeyStyle) {
		values[config.KeyStyle] = f.style
	}
	if flags.Changed("plugin") {
		ids := make([]any, len(f.plugins))
		for i, id := range f.plugins {
			ids[i] = id
		}
		values[config.KeyPlugins] = ids
	}
	if f.noRender {
		values[config.KeyAutorender] = false
	}
	return applyPluginOpts(values, f.pluginOpts)
}

// registerLuaPlugins registers every Lua plugin found in dirs, or in the
// default plugin paths when dirs is empty. Broken plugins are reported
// and skipped.
func registerLuaPlugins(injector di.Injector, dirs []string, errOut io.Writer) error {
	plugins, err := di.ResolvePlugins(injector)
	if err != nil {
		return err
	}

	var opts []lua.LoaderOption
	if len(dirs) > 0 {
		opts = append(opts, lua.WithPaths(dirs...))
	}
	if _, err := lua.NewLoader(opts...).RegisterAll(plugins); err != nil {
		warningf(errOut, "%v", err)
	}
	return nil
}
