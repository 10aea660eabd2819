package main

import (
	"github.com/dootsh/doot/cmd/doot/commands"
	"github.com/dootsh/doot/cmd/doot/opts"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func newRootCmd() *cobra.Command {
	o := &opts.RootOpts{}

	root := &cobra.Command{
		Use:   "doot",
		Short: "Reconcile managed dotfile groups with their target locations",
		Long: `doot keeps version-controlled groups of dotfiles in sync with the
locations they live at on a machine. Files can be imported from the system
into managed storage or exported back out, materialized either as full
copies or as symlinks.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(o.Debug)
			return o.Setup(cmd.Context())
		},
	}

	addRootFlags(root, o)

	root.AddCommand(
		commands.NewImportCmd(o),
		commands.NewExportCmd(o),
		commands.NewStatusCmd(o),
		commands.NewListCmd(o),
	)

	return root
}

// addRootFlags adds shared flags to the root command.
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "doot.yaml", "config file path")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&o.SkipConfirm, "yes", "y", false, "skip confirmation prompt")
}

// setupLogging configures the global zerolog level based on flags.
func setupLogging(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
