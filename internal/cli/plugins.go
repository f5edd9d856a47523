package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dshills/trowel/internal/di"
	"github.com/dshills/trowel/internal/plugin/lua"
)

func newPluginsCmd(rt *di.Runtime, v *viper.Viper) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "List Lua plugins in the plugin directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var opts []lua.LoaderOption
			if dirs := pluginDirs(cmd, v); len(dirs) > 0 {
				opts = append(opts, lua.WithPaths(dirs...))
			}
			l := lua.NewLoader(opts...)

			if err := listPlugins(cmd, l); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			return rt.Invoke(func(injector di.Injector) error {
				return watchPlugins(cmd, injector, l)
			})
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep running and report plugin changes")

	return cmd
}

func listPlugins(cmd *cobra.Command, l *lua.Loader) error {
	infos, err := l.Discover()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(infos) == 0 {
		infof(out, "no plugins found")
		return nil
	}
	for _, info := range infos {
		switch {
		case info.Err != nil:
			errorf(out, "%s: %v", info.Name, info.Err)
		case info.Version != "" && info.Description != "":
			successf(out, "%s %s: %s", info.Name, info.Version, info.Description)
		case info.Version != "":
			successf(out, "%s %s", info.Name, info.Version)
		default:
			successf(out, "%s", info.Name)
		}
	}
	return nil
}

// watchPlugins registers the plugins and reports changes until the
// command context ends or the process is interrupted.
func watchPlugins(cmd *cobra.Command, injector di.Injector, l *lua.Loader) error {
	plugins, err := di.ResolvePlugins(injector)
	if err != nil {
		return err
	}
	logger, err := di.ResolveLogger(injector)
	if err != nil {
		return err
	}

	if _, err := l.RegisterAll(plugins); err != nil {
		warningf(cmd.ErrOrStderr(), "%v", err)
	}

	out := cmd.OutOrStdout()
	w, err := lua.NewWatcher(l, plugins,
		lua.WithWatchLogger(logger),
		lua.WithChangeHandler(func(c lua.Change) { reportChange(out, c) }),
	)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Start(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	infof(out, "watching %d plugin directories", len(l.Paths()))
	<-ctx.Done()
	return nil
}

func reportChange(out io.Writer, c lua.Change) {
	switch {
	case c.Err != nil:
		errorf(out, "%s: %v", c.Name, c.Err)
	case c.Removed:
		warningf(out, "%s removed", c.Name)
	default:
		successf(out, "%s reloaded", c.Name)
	}
}
