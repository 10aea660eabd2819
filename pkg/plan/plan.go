// Package plan implements the reconciliation engine: it walks a source and
// destination tree pair, classifies every relevant file as same, create, or
// overwrite, and aggregates the classified entries into per-group and
// per-plan summaries.
package plan

// 📊 FileStatus is the reconciliation result for a single file pair. It is
// assigned once at plan-build time and never mutated.
type FileStatus int

const (
	// StatusSame means the destination exists with identical content.
	StatusSame FileStatus = iota
	// StatusCreate means the destination does not exist yet.
	StatusCreate
	// StatusOverwrite means the destination exists with differing content.
	StatusOverwrite
)

// String returns a string representation of FileStatus.
func (s FileStatus) String() string {
	switch s {
	case StatusSame:
		return "same"
	case StatusCreate:
		return "create"
	case StatusOverwrite:
		return "overwrite"
	default:
		return "unknown"
	}
}

// 📄 FileEntry is one classified file pair. RelPath is the root-relative,
// slash-separated path that identifies the file in both trees.
type FileEntry struct {
	RelPath     string
	Source      string
	Destination string
	Status      FileStatus
}

// 📦 GroupPlan holds the classified entries of one named group, sorted
// lexicographically by relative path.
type GroupPlan struct {
	Name    string
	Entries []FileEntry
}

// HasChanges reports whether any entry needs work.
func (g *GroupPlan) HasChanges() bool {
	for _, e := range g.Entries {
		if e.Status != StatusSame {
			return true
		}
	}
	return false
}

// CountByStatus counts the group's entries holding the given status.
func (g *GroupPlan) CountByStatus(status FileStatus) int {
	count := 0
	for _, e := range g.Entries {
		if e.Status == status {
			count++
		}
	}
	return count
}

// 🎯 Plan is the ordered aggregate of group plans built for one import or
// export invocation. It is treated as immutable once handed to the executor.
type Plan struct {
	Groups []GroupPlan
}

// AddGroup appends a group's classified entries in processing order.
func (p *Plan) AddGroup(name string, entries []FileEntry) {
	p.Groups = append(p.Groups, GroupPlan{Name: name, Entries: entries})
}

// HasChanges reports whether any entry in any group needs work. A plan can be
// non-empty yet change-free.
func (p *Plan) HasChanges() bool {
	for i := range p.Groups {
		if p.Groups[i].HasChanges() {
			return true
		}
	}
	return false
}

// IsEmpty reports whether every group has zero entries. This is distinct from
// HasChanges: emptiness is about entry count, not entry status.
func (p *Plan) IsEmpty() bool {
	for i := range p.Groups {
		if len(p.Groups[i].Entries) > 0 {
			return false
		}
	}
	return true
}

// TotalCountByStatus counts entries with the given status across all groups.
func (p *Plan) TotalCountByStatus(status FileStatus) int {
	total := 0
	for i := range p.Groups {
		total += p.Groups[i].CountByStatus(status)
	}
	return total
}
