package plan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dootsh/doot/pkg/ignore"
	"github.com/dootsh/doot/pkg/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func emptyRules(t *testing.T) *ignore.RuleSet {
	t.Helper()
	rules, err := ignore.Parse("")
	require.NoError(t, err)
	return rules
}

func writeFile(t *testing.T, root string, rel string, content []byte) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestBuilder_ComputeStatus(t *testing.T) {
	tests := []struct {
		name        string
		source      []byte
		destination []byte // nil means absent
		want        FileStatus
	}{
		{name: "destination_absent", source: []byte("content"), want: StatusCreate},
		{name: "identical_content", source: []byte("content"), destination: []byte("content"), want: StatusSame},
		{name: "differing_content", source: []byte("new"), destination: []byte("old"), want: StatusOverwrite},
		{name: "identical_binary", source: []byte{0x00, 0x01, 0xff}, destination: []byte{0x00, 0x01, 0xff}, want: StatusSame},
		{name: "differing_binary", source: []byte{0x00, 0x01, 0xff}, destination: []byte{0x00, 0x01, 0xfe}, want: StatusOverwrite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			dir := t.TempDir()
			source := writeFile(t, dir, "source", tt.source)
			destination := filepath.Join(dir, "destination")
			if tt.destination != nil {
				writeFile(t, dir, "destination", tt.destination)
			}

			b := NewBuilder(&store.FileStore{}, emptyRules(t))
			status, err := b.computeStatus(ctx, source, destination)
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestBuilder_BuildImport(t *testing.T) {
	ctx := testContext(t)
	groupDir := t.TempDir()
	target := t.TempDir()

	writeFile(t, target, "b.txt", []byte("world"))
	writeFile(t, target, "a.txt", []byte("hello"))
	writeFile(t, target, "nested/c.txt", []byte("deep"))
	writeFile(t, groupDir, "a.txt", []byte("hello"))

	b := NewBuilder(&store.FileStore{}, emptyRules(t))
	entries, err := b.BuildImport(ctx, groupDir, target)
	require.NoError(t, err)

	require.Len(t, entries, 3)
	assert.Equal(t, "a.txt", entries[0].RelPath, "entries are sorted by relative path")
	assert.Equal(t, "b.txt", entries[1].RelPath)
	assert.Equal(t, "nested/c.txt", entries[2].RelPath)

	assert.Equal(t, StatusSame, entries[0].Status)
	assert.Equal(t, StatusCreate, entries[1].Status)
	assert.Equal(t, StatusCreate, entries[2].Status)

	assert.Equal(t, filepath.Join(target, "a.txt"), entries[0].Source)
	assert.Equal(t, filepath.Join(groupDir, "a.txt"), entries[0].Destination)
}

func TestBuilder_BuildImport_AppliesIgnoreRules(t *testing.T) {
	ctx := testContext(t)
	groupDir := t.TempDir()
	target := t.TempDir()

	writeFile(t, target, "keep.conf", []byte("keep"))
	writeFile(t, target, "noise.log", []byte("noise"))

	rules, err := ignore.Parse("*.log")
	require.NoError(t, err)

	b := NewBuilder(&store.FileStore{}, rules)
	entries, err := b.BuildImport(ctx, groupDir, target)
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "keep.conf", entries[0].RelPath)
}

func TestBuilder_BuildImport_MissingTargetYieldsNoEntries(t *testing.T) {
	ctx := testContext(t)
	b := NewBuilder(&store.FileStore{}, emptyRules(t))

	entries, err := b.BuildImport(ctx, t.TempDir(), filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBuilder_BuildExport(t *testing.T) {
	ctx := testContext(t)
	groupDir := t.TempDir()
	target := t.TempDir()

	writeFile(t, groupDir, ".bashrc", []byte("export PATH"))
	writeFile(t, groupDir, ignore.RuleFileName, []byte("*.swp"))
	writeFile(t, groupDir, "old.swp", []byte("swap"))
	writeFile(t, target, ".bashrc", []byte("stale"))

	rules, err := ignore.Load(filepath.Join(groupDir, ignore.RuleFileName))
	require.NoError(t, err)

	b := NewBuilder(&store.FileStore{}, rules)
	entries, err := b.BuildExport(ctx, groupDir, target)
	require.NoError(t, err)

	require.Len(t, entries, 1, "the rule file and ignored files never export")
	assert.Equal(t, ".bashrc", entries[0].RelPath)
	assert.Equal(t, StatusOverwrite, entries[0].Status)
	assert.Equal(t, filepath.Join(groupDir, ".bashrc"), entries[0].Source)
	assert.Equal(t, filepath.Join(target, ".bashrc"), entries[0].Destination)
}

func TestBuilder_BuildExport_RuleFileExcludedEvenWithoutRules(t *testing.T) {
	ctx := testContext(t)
	groupDir := t.TempDir()

	writeFile(t, groupDir, ignore.RuleFileName, []byte(""))
	writeFile(t, groupDir, "file.txt", []byte("x"))

	b := NewBuilder(&store.FileStore{}, emptyRules(t))
	entries, err := b.BuildExport(ctx, groupDir, t.TempDir())
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "file.txt", entries[0].RelPath)
}

func TestBuilder_RelativePathsUniqueWithinGroup(t *testing.T) {
	ctx := testContext(t)
	target := t.TempDir()

	writeFile(t, target, "a/x", []byte("1"))
	writeFile(t, target, "b/x", []byte("2"))

	b := NewBuilder(&store.FileStore{}, emptyRules(t))
	entries, err := b.BuildImport(ctx, t.TempDir(), target)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, e := range entries {
		assert.False(t, seen[e.RelPath], "relative path %q must be unique", e.RelPath)
		seen[e.RelPath] = true
	}
	require.Len(t, entries, 2)
}
