// Package status implements the read-only divergence report: it classifies
// every managed file against a single target tree without resolving a
// direction, then rolls the per-file states up to group and plan summaries.
package status

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/dootsh/doot/pkg/config"
	"github.com/dootsh/doot/pkg/ignore"
	"github.com/dootsh/doot/pkg/resolver"
	"github.com/dootsh/doot/pkg/store"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileState classifies one managed file against its target counterpart.
type FileState int

const (
	// FileInSync means the target holds identical content.
	FileInSync FileState = iota
	// FileModified means the target exists with differing content.
	FileModified
	// FileNew means the target does not have the file at all.
	FileNew
)

// String returns a string representation of FileState.
func (s FileState) String() string {
	switch s {
	case FileInSync:
		return "in-sync"
	case FileModified:
		return "modified"
	case FileNew:
		return "new"
	default:
		return "unknown"
	}
}

// 📊 GroupStatus is the rolled-up divergence classification of a group, and
// also of a plan aggregated from its member groups.
type GroupStatus int

const (
	// InSync means every participating file matches the target.
	InSync GroupStatus = iota
	// OutOfSync means at least one file was modified on either side.
	OutOfSync
	// New means the group (or all of its divergence) exists only locally.
	New
	// Skipped means the group does not participate in the checked resolver.
	Skipped
)

// String returns a string representation of GroupStatus.
func (s GroupStatus) String() string {
	switch s {
	case InSync:
		return "in-sync"
	case OutOfSync:
		return "out-of-sync"
	case New:
		return "new"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// FileResult is the classification of a single managed file.
type FileResult struct {
	RelPath string
	State   FileState
}

// GroupResult is the classification of one group with per-file detail.
type GroupResult struct {
	Name   string
	Status GroupStatus
	Files  []FileResult
}

// PlanResult is the classification of one configured plan.
type PlanResult struct {
	Name   string
	Status GroupStatus
}

// 🔍 Checker computes divergence reports for one resolver dimension.
type Checker struct {
	cfg      *config.Config
	store    store.Store
	resolver string
	baseDir  string
}

// NewChecker creates a checker. baseDir is the directory holding the managed
// group subdirectories, normally the working directory.
func NewChecker(cfg *config.Config, s store.Store, resolverName, baseDir string) *Checker {
	return &Checker{cfg: cfg, store: s, resolver: resolverName, baseDir: baseDir}
}

// CheckGroup classifies a single group. A group without the checked resolver
// reports Skipped, and a group directory absent locally reports New; neither
// is an error.
func (c *Checker) CheckGroup(ctx context.Context, groupName string) (GroupResult, error) {
	result := GroupResult{Name: groupName}

	raw, err := c.cfg.Resolver(groupName, c.resolver)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Str("group", groupName).Str("resolver", c.resolver).Msg("group has no such resolver, skipping")
		result.Status = Skipped
		return result, nil
	}

	resolvedPath, err := resolver.Resolve(raw)
	if err != nil {
		return result, errors.Errorf("resolving target for group %q: %w", groupName, err)
	}

	groupDir := filepath.Join(c.baseDir, groupName)
	if _, err := os.Stat(groupDir); err != nil {
		result.Status = New
		return result, nil
	}

	rules, err := ignore.Load(filepath.Join(groupDir, ignore.RuleFileName))
	if err != nil {
		return result, errors.Errorf("loading ignore rules for group %q: %w", groupName, err)
	}

	files, err := c.classifyFiles(ctx, groupDir, resolvedPath, rules)
	if err != nil {
		return result, errors.Errorf("checking group %q: %w", groupName, err)
	}

	result.Files = files
	result.Status = aggregateGroup(files)
	return result, nil
}

func (c *Checker) classifyFiles(ctx context.Context, groupDir, resolvedPath string, rules *ignore.RuleSet) ([]FileResult, error) {
	var files []FileResult

	err := filepath.WalkDir(groupDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Version-control metadata never participates in the report.
			if d.Name() == ".git" {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(groupDir, path)
		if err != nil {
			return errors.Errorf("relativizing %s: %w", path, err)
		}
		relPath := filepath.ToSlash(rel)

		if relPath == ignore.RuleFileName || !rules.IsIncluded(relPath) {
			return nil
		}

		state, err := c.fileState(ctx, path, filepath.Join(resolvedPath, rel))
		if err != nil {
			return err
		}

		files = append(files, FileResult{RelPath: relPath, State: state})
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", groupDir, err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].RelPath < files[j].RelPath
	})
	return files, nil
}

func (c *Checker) fileState(ctx context.Context, source, destination string) (FileState, error) {
	if !c.store.Exists(destination) {
		return FileNew, nil
	}

	equal, err := store.Compare(ctx, c.store, source, destination)
	if err != nil {
		return FileInSync, errors.Errorf("comparing %s with %s: %w", source, destination, err)
	}
	if equal {
		return FileInSync, nil
	}
	return FileModified, nil
}

// aggregateGroup rolls per-file states up to a group status. Modified is
// sticky: its presence forces OutOfSync even mixed with New or InSync files.
// Without it, any New file makes the group New; InSync files never demote
// that to OutOfSync.
func aggregateGroup(files []FileResult) GroupStatus {
	if len(files) == 0 {
		return New
	}

	hasModified := false
	hasNew := false
	for _, f := range files {
		switch f.State {
		case FileModified:
			hasModified = true
		case FileNew:
			hasNew = true
		}
	}

	switch {
	case hasModified:
		return OutOfSync
	case hasNew:
		return New
	default:
		return InSync
	}
}

// CheckAllGroups classifies every configured group, name-sorted.
func (c *Checker) CheckAllGroups(ctx context.Context) ([]GroupResult, error) {
	var results []GroupResult
	for _, name := range c.cfg.GroupNames() {
		result, err := c.CheckGroup(ctx, name)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// CheckPlan aggregates member-group results into a plan status. Skipped
// members do not participate at all; OutOfSync is sticky; New upgrades the
// status unless already OutOfSync. A plan with no participating members is
// itself Skipped.
func (c *Checker) CheckPlan(planName string, groupResults []GroupResult) PlanResult {
	members, err := c.cfg.PlanGroups(planName)
	if err != nil {
		members = nil
	}

	status := InSync
	participated := false

	for _, member := range members {
		var result *GroupResult
		for i := range groupResults {
			if groupResults[i].Name == member {
				result = &groupResults[i]
				break
			}
		}
		if result == nil {
			continue
		}

		switch result.Status {
		case Skipped:
			continue
		case OutOfSync:
			status = OutOfSync
			participated = true
		case New:
			if status != OutOfSync {
				status = New
			}
			participated = true
		case InSync:
			participated = true
		}
	}

	if !participated {
		status = Skipped
	}

	return PlanResult{Name: planName, Status: status}
}

// CheckAllPlans aggregates every configured plan, name-sorted.
func (c *Checker) CheckAllPlans(groupResults []GroupResult) []PlanResult {
	var results []PlanResult
	for _, name := range c.cfg.PlanNames() {
		results = append(results, c.CheckPlan(name, groupResults))
	}
	return results
}
