// Package executor renders a built plan, drives the interactive
// confirm/diff protocol, and applies accepted changes through the content
// store, strictly in plan order and fail-fast on the first I/O error.
package executor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dootsh/doot/pkg/config"
	"github.com/dootsh/doot/pkg/plan"
	"github.com/dootsh/doot/pkg/store"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	sameColor      = color.New(color.FgBlue)
	createColor    = color.New(color.FgGreen)
	overwriteColor = color.New(color.FgYellow)
	boldColor      = color.New(color.Bold)
	dimColor       = color.New(color.Faint)
)

// 🔧 Options configures an Executor. In and Out default to the process's
// standard streams; tests inject buffers.
type Options struct {
	Store store.Store
	Mode  config.Mode
	In    io.Reader
	Out   io.Writer
}

// 🎮 Executor displays, confirms, and applies plans.
type Executor struct {
	store store.Store
	mode  config.Mode
	in    io.Reader
	out   io.Writer
}

// New creates an executor.
func New(opts Options) *Executor {
	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	return &Executor{store: opts.Store, mode: opts.Mode, in: in, out: out}
}

// DisplayPlan prints every group's entries with their status plus a summary
// line. A plan with zero entries anywhere prints a single notice instead.
func (e *Executor) DisplayPlan(p *plan.Plan, operation string) {
	if p.IsEmpty() {
		fmt.Fprintf(e.out, "No files to %s.\n", operation)
		return
	}

	fmt.Fprintf(e.out, "\n%s:\n\n", operation)

	for i := range p.Groups {
		group := &p.Groups[i]
		fmt.Fprintf(e.out, "  %s:\n", boldColor.Sprint(group.Name))

		if len(group.Entries) == 0 {
			fmt.Fprintf(e.out, "    %s\n", dimColor.Sprint("(no files)"))
		} else {
			for _, entry := range group.Entries {
				icon, label := statusMarkers(entry.Status)
				fmt.Fprintf(e.out, "    [%s] %s (%s)\n", icon, entry.RelPath, label)
			}
		}
		fmt.Fprintln(e.out)
	}

	fmt.Fprintf(e.out, "Summary: %d same, %d to create, %d to overwrite\n",
		p.TotalCountByStatus(plan.StatusSame),
		p.TotalCountByStatus(plan.StatusCreate),
		p.TotalCountByStatus(plan.StatusOverwrite))
}

func statusMarkers(s plan.FileStatus) (icon, label string) {
	switch s {
	case plan.StatusCreate:
		return createColor.Sprint("+"), createColor.Sprint("create")
	case plan.StatusOverwrite:
		return overwriteColor.Sprint("~"), overwriteColor.Sprint("overwrite")
	default:
		return sameColor.Sprint("✓"), sameColor.Sprint("same")
	}
}

// Confirm drives the interactive protocol: y proceeds, n or an empty line
// aborts, d renders diffs for every pending entry and re-prompts, anything
// else prints a usage hint and re-prompts. The loop has no iteration bound;
// end of input counts as abort.
func (e *Executor) Confirm(ctx context.Context, p *plan.Plan) (bool, error) {
	scanner := bufio.NewScanner(e.in)

	for {
		fmt.Fprint(e.out, "\nProceed? [y/N/d] ")

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return false, errors.Errorf("reading confirmation: %w", err)
			}
			return false, nil
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "y":
			return true, nil
		case "n", "":
			return false, nil
		case "d":
			if err := e.showDiffs(ctx, p); err != nil {
				return false, err
			}
		default:
			fmt.Fprintln(e.out, "Invalid option. Use 'y' to proceed, 'n' to abort, or 'd' to show diffs.")
		}
	}
}

func (e *Executor) showDiffs(ctx context.Context, p *plan.Plan) error {
	fmt.Fprintln(e.out)
	for i := range p.Groups {
		group := &p.Groups[i]
		for _, entry := range group.Entries {
			if entry.Status == plan.StatusSame {
				continue
			}
			if err := e.showEntryDiff(ctx, group.Name, entry); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Executor) showEntryDiff(ctx context.Context, groupName string, entry plan.FileEntry) error {
	oldContent := ""
	if e.store.Exists(entry.Destination) {
		raw, err := e.store.Read(ctx, entry.Destination)
		if err != nil {
			return errors.Errorf("reading destination for diff: %w", err)
		}
		oldContent = string(raw)
	}

	raw, err := e.store.Read(ctx, entry.Source)
	if err != nil {
		return errors.Errorf("reading source for diff: %w", err)
	}
	newContent := string(raw)

	fmt.Fprintln(e.out, overwriteColor.Sprintf("--- %s/%s (destination)", groupName, entry.RelPath))
	fmt.Fprintln(e.out, createColor.Sprintf("+++ %s/%s (source)", groupName, entry.RelPath))
	fmt.Fprintln(e.out, dimColor.Sprint(strings.Repeat("─", 60)))
	fmt.Fprint(e.out, renderUnifiedDiff(oldContent, newContent))
	fmt.Fprintln(e.out)
	return nil
}

// Apply materializes every non-same entry, group by group, entry by entry,
// in the listed order. The first failure aborts all remaining entries and
// groups; entries already applied stay applied.
func (e *Executor) Apply(ctx context.Context, p *plan.Plan) error {
	logger := zerolog.Ctx(ctx)

	for i := range p.Groups {
		group := &p.Groups[i]
		if !group.HasChanges() {
			continue
		}

		fmt.Fprintf(e.out, "  %s:\n", group.Name)
		for _, entry := range group.Entries {
			if entry.Status == plan.StatusSame {
				continue
			}
			if err := e.applyEntry(ctx, entry); err != nil {
				return errors.Errorf("applying %s in group %s: %w", entry.RelPath, group.Name, err)
			}

			action := "Updated"
			if entry.Status == plan.StatusCreate {
				action = "Created"
			}
			fmt.Fprintf(e.out, "    %s %s\n", action, entry.RelPath)
			logger.Debug().Str("group", group.Name).Str("path", entry.RelPath).Str("action", action).Msg("applied entry")
		}
	}

	return nil
}

func (e *Executor) applyEntry(ctx context.Context, entry plan.FileEntry) error {
	if e.mode == config.ModeLink {
		return store.CreateSymlink(ctx, entry.Source, entry.Destination)
	}

	content, err := e.store.Read(ctx, entry.Source)
	if err != nil {
		return err
	}
	return e.store.Write(ctx, entry.Destination, content)
}

// Run is the full display → confirm → apply sequence for one invocation.
func (e *Executor) Run(ctx context.Context, p *plan.Plan, operation string, skipConfirm bool) error {
	e.DisplayPlan(p, operation)

	if !p.HasChanges() {
		fmt.Fprintln(e.out, "\nNothing to do.")
		return nil
	}

	proceed := true
	if !skipConfirm {
		var err error
		proceed, err = e.Confirm(ctx, p)
		if err != nil {
			return err
		}
	}

	if !proceed {
		fmt.Fprintln(e.out, "\nAborted.")
		return nil
	}

	fmt.Fprintln(e.out, "\nApplying...")
	fmt.Fprintln(e.out)
	if err := e.Apply(ctx, p); err != nil {
		return err
	}
	fmt.Fprintln(e.out, "\nDone.")
	return nil
}
