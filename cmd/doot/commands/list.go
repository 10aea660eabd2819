package commands

import (
	"fmt"
	"sort"

	"github.com/dootsh/doot/cmd/doot/opts"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// 🎯 NewListCmd prints the configured groups and plans as trees.
func NewListCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured groups, resolvers and plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			groupsTree, err := pterm.DefaultTree.WithRoot(groupsNode(o)).Srender()
			if err != nil {
				return err
			}
			fmt.Fprint(o.Out, groupsTree)

			if len(o.Config.Plans) == 0 {
				return nil
			}

			plansTree, err := pterm.DefaultTree.WithRoot(plansNode(o)).Srender()
			if err != nil {
				return err
			}
			fmt.Fprintln(o.Out)
			fmt.Fprint(o.Out, plansTree)
			return nil
		},
	}
}

func groupsNode(o *opts.RootOpts) pterm.TreeNode {
	root := pterm.TreeNode{Text: fmt.Sprintf("Groups (mode: %s)", o.Config.Mode)}
	for _, name := range o.Config.GroupNames() {
		node := pterm.TreeNode{Text: name}
		resolvers := o.Config.Groups[name]

		names := make([]string, 0, len(resolvers))
		for r := range resolvers {
			names = append(names, r)
		}
		sort.Strings(names)

		for _, r := range names {
			node.Children = append(node.Children, pterm.TreeNode{
				Text: fmt.Sprintf("%s → %s", r, resolvers[r]),
			})
		}
		root.Children = append(root.Children, node)
	}
	return root
}

func plansNode(o *opts.RootOpts) pterm.TreeNode {
	root := pterm.TreeNode{Text: "Plans"}
	for _, name := range o.Config.PlanNames() {
		node := pterm.TreeNode{Text: name}
		members := o.Config.Plans[name]

		if members == nil {
			node.Children = append(node.Children, pterm.TreeNode{Text: "(all groups)"})
		} else {
			for _, g := range members {
				node.Children = append(node.Children, pterm.TreeNode{Text: g})
			}
		}
		root.Children = append(root.Children, node)
	}
	return root
}
