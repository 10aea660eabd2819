// Package config models the doot configuration document: an operating mode,
// a group table mapping group → resolver → target location, and a plan table
// mapping plan → member groups.
package config

import (
	"sort"

	"gitlab.com/tozd/go/errors"
)

// SupportedVersion is the only accepted value of the version marker.
const SupportedVersion = "v1"

// Configuration lookup errors. Callers match them with errors.Is.
var (
	ErrUnsupportedVersion = errors.New("unsupported config version")
	ErrUnknownGroup       = errors.New("group not found")
	ErrUnknownResolver    = errors.New("resolver not found")
	ErrUnknownPlan        = errors.New("plan not found")
)

// Mode selects how managed copies are materialized on apply.
type Mode string

const (
	// ModeFile duplicates byte content into the destination.
	ModeFile Mode = "file"
	// ModeLink materializes destinations as symlinks to the source.
	ModeLink Mode = "link"
)

// String returns the mode's config spelling.
func (m Mode) String() string {
	return string(m)
}

// 🔧 Config is the loaded configuration document.
type Config struct {
	// Version is the required version marker; must equal SupportedVersion.
	Version string

	// Mode selects copy-vs-symlink materialization. Defaults to ModeFile.
	Mode Mode

	// Plans maps plan name → explicit member group names. A nil slice means
	// "all configured groups"; the distinction between nil and empty matters.
	Plans map[string][]string

	// Groups maps group name → resolver name → target-location string.
	Groups map[string]map[string]string
}

// Group returns the resolver table of a named group.
func (c *Config) Group(name string) (map[string]string, error) {
	group, ok := c.Groups[name]
	if !ok {
		return nil, errors.Errorf("%w: %q", ErrUnknownGroup, name)
	}
	return group, nil
}

// Resolver returns the target-location string a named resolver maps a group to.
func (c *Config) Resolver(group, resolver string) (string, error) {
	resolvers, err := c.Group(group)
	if err != nil {
		return "", err
	}

	path, ok := resolvers[resolver]
	if !ok {
		return "", errors.Errorf("%w: %q in group %q", ErrUnknownResolver, resolver, group)
	}
	return path, nil
}

// PlanGroups returns the member groups of a named plan. A plan configured
// without an explicit list expands to every configured group.
func (c *Config) PlanGroups(plan string) ([]string, error) {
	groups, ok := c.Plans[plan]
	if !ok {
		return nil, errors.Errorf("%w: %q", ErrUnknownPlan, plan)
	}

	if groups == nil {
		return c.GroupNames(), nil
	}
	return append([]string(nil), groups...), nil
}

// GroupNames returns all configured group names, sorted.
func (c *Config) GroupNames() []string {
	names := make([]string, 0, len(c.Groups))
	for name := range c.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PlanNames returns all configured plan names, sorted.
func (c *Config) PlanNames() []string {
	names := make([]string, 0, len(c.Plans))
	for name := range c.Plans {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Config) validate() error {
	if c.Version != SupportedVersion {
		return errors.Errorf("%w: %q", ErrUnsupportedVersion, c.Version)
	}
	if c.Mode == "" {
		c.Mode = ModeFile
	}
	if c.Mode != ModeFile && c.Mode != ModeLink {
		return errors.Errorf("unknown mode %q, want %q or %q", c.Mode, ModeFile, ModeLink)
	}
	return nil
}
