// Package cli defines the promptflow command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dd0wney/promptflow/pkg/config"
	"github.com/dd0wney/promptflow/pkg/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool

	version string
	getenv  func(string) string
}

// NewRootCommand creates the root command. getenv supplies environment
// overrides; nil means os.Getenv.
func NewRootCommand(version string, getenv func(string) string) *cobra.Command {
	if getenv == nil {
		getenv = os.Getenv
	}
	opts := &RootOptions{version: version, getenv: getenv}

	cmd := &cobra.Command{
		Use:           "promptflow",
		Short:         "Prompt flows laid out as a ranked graph",
		Long:          "Each prompt becomes a node chained to the previous one; extra edges are drawn by hand and the flow is re-laid out left to right after every change.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewTUICommand(opts))
	cmd.AddCommand(NewLayoutCommand(opts))

	return cmd
}

// load reads the config named by --config with environment overrides.
func (o *RootOptions) load() (config.Config, error) {
	cfg, err := config.Load(o.ConfigPath, o.getenv)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "load config", err)
	}
	if o.Verbose {
		cfg.Log.Level = logging.DebugLevel.String()
	}
	return cfg, nil
}
