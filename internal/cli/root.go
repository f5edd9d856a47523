// Package cli implements the trowel command line.
package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dshills/trowel/internal/di"
	"github.com/dshills/trowel/internal/logging"
)

// Environment variables read by the CLI itself. They are excluded from
// configuration loading.
const (
	EnvLogLevel  = "TROWEL_LOG_LEVEL"
	EnvPluginDir = "TROWEL_PLUGIN_DIR"
)

const (
	flagLogLevel  = "log-level"
	flagPluginDir = "plugin-dir"
)

// NewRootCmd creates the root command with version info and subcommands.
func NewRootCmd(version, commit, date string) *cobra.Command {
	rt := di.NewRuntime()
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "trowel",
		Short:         "Trowel bootstraps page editor instances",
		Long:          "Trowel resolves editor configuration, applies plugins and renders the initial page model.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(cmd, v)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.Version = fmt.Sprintf("%s (built %s from %s)", version, date, commit)

	flags := cmd.PersistentFlags()
	flags.String(flagLogLevel, "info", "Log level (debug, info, warn, error)")
	flags.StringArray(flagPluginDir, nil, "Lua plugin directory (repeatable)")

	_ = v.BindPFlag(flagLogLevel, flags.Lookup(flagLogLevel))
	_ = v.BindEnv(flagLogLevel, EnvLogLevel)
	_ = v.BindEnv(flagPluginDir, EnvPluginDir)

	cmd.AddCommand(newInitCmd(rt, v))
	cmd.AddCommand(newPluginsCmd(rt, v))
	cmd.AddCommand(newVersionCmd(version, commit, date))

	return cmd
}

// Execute runs the root command and prints any error.
func Execute(cmd *cobra.Command) error {
	if err := cmd.Execute(); err != nil {
		errorf(cmd.ErrOrStderr(), "%v", err)
		return fmt.Errorf("command execution failed: %w", err)
	}
	return nil
}

// setupLogging installs the default logger at the configured level.
func setupLogging(cmd *cobra.Command, v *viper.Viper) error {
	raw := strings.ToLower(strings.TrimSpace(v.GetString(flagLogLevel)))
	switch raw {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", raw)
	}

	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(raw)
	cfg.Output = cmd.ErrOrStderr()
	logging.SetDefault(logging.New(cfg))
	return nil
}

// pluginDirs returns the plugin directories from the flag, or from the
// environment as a path list.
func pluginDirs(cmd *cobra.Command, v *viper.Viper) []string {
	if dirs, err := cmd.Flags().GetStringArray(flagPluginDir); err == nil && len(dirs) > 0 {
		return dirs
	}
	var dirs []string
	for _, dir := range filepath.SplitList(v.GetString(flagPluginDir)) {
		if dir = strings.TrimSpace(dir); dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func newVersionCmd(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Trowel %s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "Built: %s\n", date)
			return nil
		},
	}
}
