package commands

import (
	"fmt"
	"io"

	"github.com/dootsh/doot/cmd/doot/opts"
	"github.com/dootsh/doot/pkg/status"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// 🎯 NewStatusCmd reports how each group and plan diverges from the target
// tree of one resolver, without touching anything.
func NewStatusCmd(o *opts.RootOpts) *cobra.Command {
	var showFiles bool

	cmd := &cobra.Command{
		Use:   "status <resolver>",
		Short: "Show how groups and plans diverge from a resolver's targets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			checker := status.NewChecker(o.Config, o.Store, args[0], o.BaseDir)

			groups, err := checker.CheckAllGroups(cmd.Context())
			if err != nil {
				return err
			}
			plans := checker.CheckAllPlans(groups)

			printStatusReport(o.Out, args[0], groups, plans, showFiles)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showFiles, "files", false, "list per-file state within each group")
	return cmd
}

var (
	inSyncColor    = color.New(color.FgGreen)
	outOfSyncColor = color.New(color.FgYellow)
	newColor       = color.New(color.FgCyan)
	skippedColor   = color.New(color.Faint)
	headerColor    = color.New(color.Bold)
)

func statusColor(s status.GroupStatus) *color.Color {
	switch s {
	case status.InSync:
		return inSyncColor
	case status.OutOfSync:
		return outOfSyncColor
	case status.New:
		return newColor
	default:
		return skippedColor
	}
}

func fileStateColor(s status.FileState) *color.Color {
	switch s {
	case status.FileInSync:
		return inSyncColor
	case status.FileModified:
		return outOfSyncColor
	default:
		return newColor
	}
}

func printStatusReport(w io.Writer, resolverName string, groups []status.GroupResult, plans []status.PlanResult, showFiles bool) {
	fmt.Fprintf(w, "Status for resolver %s\n\n", headerColor.Sprint(resolverName))

	fmt.Fprintln(w, headerColor.Sprint("Groups:"))
	for _, g := range groups {
		fmt.Fprintf(w, "  %-20s %s\n", g.Name, statusColor(g.Status).Sprint(g.Status.String()))
		if !showFiles || g.Status == status.Skipped {
			continue
		}
		for _, f := range g.Files {
			fmt.Fprintf(w, "    %-20s %s\n", f.RelPath, fileStateColor(f.State).Sprint(f.State.String()))
		}
	}

	if len(plans) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerColor.Sprint("Plans:"))
	for _, p := range plans {
		fmt.Fprintf(w, "  %-20s %s\n", p.Name, statusColor(p.Status).Sprint(p.Status.String()))
	}
}
