package plan

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/dootsh/doot/pkg/ignore"
	"github.com/dootsh/doot/pkg/store"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🏗️ Builder walks a source/destination tree pair and classifies each file.
// Matching is per-file against the relative-path string; there is no
// hierarchical short-circuit, so a rule targeting a subtree must match every
// file within it.
type Builder struct {
	store store.Store
	rules *ignore.RuleSet
}

// NewBuilder creates a builder over the given content store and rule set.
func NewBuilder(s store.Store, rules *ignore.RuleSet) *Builder {
	return &Builder{store: s, rules: rules}
}

// BuildImport classifies files flowing from the resolved target location into
// the managed group directory.
func (b *Builder) BuildImport(ctx context.Context, groupDir, resolvedPath string) ([]FileEntry, error) {
	return b.build(ctx, resolvedPath, groupDir, false)
}

// BuildExport classifies files flowing from the managed group directory out
// to the resolved target location. The rule file itself never leaves the
// group directory, regardless of ignore rules.
func (b *Builder) BuildExport(ctx context.Context, groupDir, resolvedPath string) ([]FileEntry, error) {
	return b.build(ctx, groupDir, resolvedPath, true)
}

func (b *Builder) build(ctx context.Context, sourceRoot, destRoot string, skipRuleFile bool) ([]FileEntry, error) {
	logger := zerolog.Ctx(ctx)

	var entries []FileEntry
	err := filepath.WalkDir(sourceRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped rather than failing the walk,
			// matching the graceful enumeration of the target location.
			logger.Debug().Str("path", path).Err(err).Msg("skipping unreadable path")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(sourceRoot, path)
		if err != nil {
			return errors.Errorf("relativizing %s against %s: %w", path, sourceRoot, err)
		}
		relPath := filepath.ToSlash(rel)

		if skipRuleFile && relPath == ignore.RuleFileName {
			return nil
		}
		if !b.rules.IsIncluded(relPath) {
			logger.Debug().Str("path", relPath).Msg("excluded by ignore rules")
			return nil
		}

		destination := filepath.Join(destRoot, rel)
		status, err := b.computeStatus(ctx, path, destination)
		if err != nil {
			return err
		}

		entries = append(entries, FileEntry{
			RelPath:     relPath,
			Source:      path,
			Destination: destination,
			Status:      status,
		})
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", sourceRoot, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RelPath < entries[j].RelPath
	})
	return entries, nil
}

// computeStatus classifies a single source/destination pair: Create when the
// destination is absent, Same when content matches, Overwrite otherwise.
func (b *Builder) computeStatus(ctx context.Context, source, destination string) (FileStatus, error) {
	if !b.store.Exists(destination) {
		return StatusCreate, nil
	}

	equal, err := store.Compare(ctx, b.store, source, destination)
	if err != nil {
		return StatusSame, errors.Errorf("comparing %s with %s: %w", source, destination, err)
	}
	if equal {
		return StatusSame, nil
	}
	return StatusOverwrite, nil
}
