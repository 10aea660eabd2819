package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileStatus_String(t *testing.T) {
	assert.Equal(t, "same", StatusSame.String())
	assert.Equal(t, "create", StatusCreate.String())
	assert.Equal(t, "overwrite", StatusOverwrite.String())
	assert.Equal(t, "unknown", FileStatus(42).String())
}

func TestPlan_TracksChangesAcrossGroups(t *testing.T) {
	var p Plan

	p.AddGroup("group1", []FileEntry{
		{RelPath: "file1", Source: "/src/file1", Destination: "/dst/file1", Status: StatusSame},
	})
	p.AddGroup("group2", []FileEntry{
		{RelPath: "file2", Source: "/src/file2", Destination: "/dst/file2", Status: StatusCreate},
	})

	assert.True(t, p.HasChanges())
	assert.False(t, p.IsEmpty())
	assert.Equal(t, 1, p.TotalCountByStatus(StatusSame))
	assert.Equal(t, 1, p.TotalCountByStatus(StatusCreate))
	assert.Equal(t, 0, p.TotalCountByStatus(StatusOverwrite))
}

func TestPlan_NoChanges(t *testing.T) {
	var p Plan
	p.AddGroup("group", []FileEntry{
		{RelPath: "file", Status: StatusSame},
	})

	assert.False(t, p.HasChanges(), "plan with only same entries has no changes")
	assert.False(t, p.IsEmpty(), "a change-free plan is still non-empty")
}

func TestPlan_IsEmptyIndependentOfHasChanges(t *testing.T) {
	var empty Plan
	empty.AddGroup("a", nil)
	empty.AddGroup("b", nil)

	assert.True(t, empty.IsEmpty())
	assert.False(t, empty.HasChanges())

	var zero Plan
	assert.True(t, zero.IsEmpty(), "a plan with no groups is empty")
}

func TestGroupPlan_CountByStatus(t *testing.T) {
	g := GroupPlan{
		Name: "dots",
		Entries: []FileEntry{
			{RelPath: "a", Status: StatusSame},
			{RelPath: "b", Status: StatusCreate},
			{RelPath: "c", Status: StatusCreate},
			{RelPath: "d", Status: StatusOverwrite},
		},
	}

	assert.Equal(t, 1, g.CountByStatus(StatusSame))
	assert.Equal(t, 2, g.CountByStatus(StatusCreate))
	assert.Equal(t, 1, g.CountByStatus(StatusOverwrite))
	assert.True(t, g.HasChanges())
}
