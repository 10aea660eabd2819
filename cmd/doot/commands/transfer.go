// Package commands implements the doot subcommands.
package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dootsh/doot/cmd/doot/opts"
	"github.com/dootsh/doot/pkg/executor"
	"github.com/dootsh/doot/pkg/ignore"
	"github.com/dootsh/doot/pkg/plan"
	"github.com/dootsh/doot/pkg/resolver"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// direction is which way files flow between managed storage and the target.
type direction int

const (
	directionImport direction = iota
	directionExport
)

func (d direction) verb() string {
	if d == directionExport {
		return "Export"
	}
	return "Import"
}

// newTargetCmds builds the "group" and "plan" subcommands shared by import
// and export.
func newTargetCmds(o *opts.RootOpts, d direction) []*cobra.Command {
	groupCmd := &cobra.Command{
		Use:   "group <name> <resolver>",
		Short: fmt.Sprintf("%s a single group", d.verb()),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransfer(cmd.Context(), o, d, false, args[0], args[1])
		},
	}

	planCmd := &cobra.Command{
		Use:   "plan <name> <resolver>",
		Short: fmt.Sprintf("%s a plan (multiple groups)", d.verb()),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransfer(cmd.Context(), o, d, true, args[0], args[1])
		},
	}

	return []*cobra.Command{groupCmd, planCmd}
}

func runTransfer(ctx context.Context, o *opts.RootOpts, d direction, isPlan bool, name, resolverName string) error {
	groups, operation, err := resolveTarget(o, d, isPlan, name)
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().
		Str("operation", operation).
		Str("resolver", resolverName).
		Strs("groups", groups).
		Msg("building plan")

	var p plan.Plan
	for _, group := range groups {
		entries, err := buildGroupEntries(ctx, o, d, group, resolverName)
		if err != nil {
			return err
		}
		p.AddGroup(group, entries)
	}

	exec := executor.New(executor.Options{
		Store: o.Store,
		Mode:  o.Config.Mode,
		In:    o.In,
		Out:   o.Out,
	})
	return exec.Run(ctx, &p, operation, o.SkipConfirm)
}

// resolveTarget expands the invocation target into its member groups and the
// human-readable operation label.
func resolveTarget(o *opts.RootOpts, d direction, isPlan bool, name string) ([]string, string, error) {
	if isPlan {
		groups, err := o.Config.PlanGroups(name)
		if err != nil {
			return nil, "", err
		}
		return groups, fmt.Sprintf("%s plan '%s'", d.verb(), name), nil
	}

	if _, err := o.Config.Group(name); err != nil {
		return nil, "", err
	}
	return []string{name}, fmt.Sprintf("%s group '%s'", d.verb(), name), nil
}

// buildGroupEntries classifies one group's files for the given direction.
func buildGroupEntries(ctx context.Context, o *opts.RootOpts, d direction, group, resolverName string) ([]plan.FileEntry, error) {
	raw, err := o.Config.Resolver(group, resolverName)
	if err != nil {
		return nil, err
	}

	resolvedPath, err := resolver.Resolve(raw)
	if err != nil {
		return nil, errors.Errorf("resolving target for group %q: %w", group, err)
	}

	groupDir := filepath.Join(o.BaseDir, group)
	rules, err := ignore.Load(filepath.Join(groupDir, ignore.RuleFileName))
	if err != nil {
		return nil, errors.Errorf("loading ignore rules for group %q: %w", group, err)
	}

	builder := plan.NewBuilder(o.Store, rules)
	if d == directionExport {
		entries, err := builder.BuildExport(ctx, groupDir, resolvedPath)
		if err != nil {
			return nil, errors.Errorf("planning export of group %q: %w", group, err)
		}
		return entries, nil
	}

	entries, err := builder.BuildImport(ctx, groupDir, resolvedPath)
	if err != nil {
		return nil, errors.Errorf("planning import of group %q: %w", group, err)
	}
	return entries, nil
}
