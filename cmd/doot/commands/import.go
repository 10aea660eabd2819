package commands

import (
	"github.com/dootsh/doot/cmd/doot/opts"
	"github.com/spf13/cobra"
)

// 🎯 NewImportCmd copies files from their resolved target locations into the
// managed group directories.
func NewImportCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Pull files from their target locations into managed groups",
	}
	cmd.AddCommand(newTargetCmds(o, directionImport)...)
	return cmd
}
