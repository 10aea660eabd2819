package commands

import (
	"github.com/dootsh/doot/cmd/doot/opts"
	"github.com/spf13/cobra"
)

// 🎯 NewExportCmd materializes managed group files at their resolved target
// locations, copying or symlinking depending on the configured mode.
func NewExportCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Push managed group files out to their target locations",
	}
	cmd.AddCommand(newTargetCmds(o, directionExport)...)
	return cmd
}
