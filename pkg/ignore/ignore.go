// Package ignore implements the per-group rule file that filters which files
// participate in a reconciliation. Rules are shell-style globs, one per line,
// evaluated last-match-wins so that a later rule can re-include (or re-exclude)
// what an earlier rule excluded.
package ignore

import (
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// RuleFileName is the well-known rule file discovered inside each group directory.
const RuleFileName = ".dootignore"

// ErrBadPattern indicates a rule line whose glob syntax does not compile.
var ErrBadPattern = errors.New("bad ignore pattern")

// 🎯 Pattern is a single compiled rule: a glob plus a negation flag.
type Pattern struct {
	glob    string
	negated bool
}

// Glob returns the raw glob expression of the pattern.
func (p Pattern) Glob() string {
	return p.glob
}

// Negated reports whether the pattern re-includes matching paths.
func (p Pattern) Negated() bool {
	return p.negated
}

// 🎯 RuleSet is an ordered sequence of patterns. Order is semantically
// significant: evaluation is last-match-wins, not first-match.
type RuleSet struct {
	patterns []Pattern
}

// Load reads a rule file from disk. A missing file is not an error: it yields
// an empty rule set that includes everything.
func Load(path string) (*RuleSet, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &RuleSet{}, nil
		}
		return nil, errors.Errorf("reading rule file %s: %w", path, err)
	}

	rules, err := Parse(string(content))
	if err != nil {
		return nil, errors.Errorf("parsing rule file %s: %w", path, err)
	}
	return rules, nil
}

// Parse compiles rule text. Per line: surrounding whitespace is trimmed, empty
// lines and lines starting with '#' are skipped, everything from the first
// " #" onward is an inline comment, and a leading '!' negates the pattern.
func Parse(content string) (*RuleSet, error) {
	rs := &RuleSet{}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if idx := strings.Index(line, " #"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}

		negated := false
		if rest, ok := strings.CutPrefix(line, "!"); ok {
			negated = true
			line = rest
		}

		if !doublestar.ValidatePattern(line) {
			return nil, errors.Errorf("%w: %q", ErrBadPattern, line)
		}

		rs.patterns = append(rs.patterns, Pattern{glob: line, negated: negated})
	}

	return rs, nil
}

// Len returns the number of compiled patterns.
func (rs *RuleSet) Len() int {
	return len(rs.patterns)
}

// IsIgnored evaluates all patterns in file order against a forward-slash
// separated relative path. Each match overrides the running verdict, so the
// last matching rule decides. No match means not ignored.
func (rs *RuleSet) IsIgnored(path string) bool {
	ignored := false

	for _, p := range rs.patterns {
		// ValidatePattern ran at parse time, Match cannot fail here.
		matched, _ := doublestar.Match(p.glob, path)
		if matched {
			ignored = !p.negated
		}
	}

	return ignored
}

// IsIncluded is the logical complement of IsIgnored.
func (rs *RuleSet) IsIncluded(path string) bool {
	return !rs.IsIgnored(path)
}
