// Package store provides the content-store capability interface the planner,
// status checker, and executor share: reading, writing, existence-checking,
// removing, and fingerprinting files. Two variants exist, a copy-based file
// store and a symlink-aware link store, selected once at startup from the
// configured mode.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/dootsh/doot/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// ErrSymlink indicates a symlink could not be materialized.
var ErrSymlink = errors.New("symlink creation failed")

// 💾 Store is the capability interface for content access.
type Store interface {
	// Name identifies the store variant ("file" or "link").
	Name() string

	// Read returns the byte content at path, following symlinks.
	Read(ctx context.Context, path string) ([]byte, error)

	// Write stores content at path, creating parent directories as needed.
	Write(ctx context.Context, path string, content []byte) error

	// Exists reports whether path designates anything this store recognizes.
	Exists(path string) bool

	// Remove deletes the file at path. Removing an absent path is not an error.
	Remove(ctx context.Context, path string) error
}

// New selects the store variant for the configured materialization mode.
func New(mode config.Mode) Store {
	if mode == config.ModeLink {
		return &LinkStore{}
	}
	return &FileStore{}
}

// Hash returns the hex-encoded SHA-256 fingerprint of the content at path.
// Both variants fingerprint through the link, so this is the single code path.
func Hash(ctx context.Context, s Store, path string) (string, error) {
	content, err := s.Read(ctx, path)
	if err != nil {
		return "", errors.Errorf("hashing %s: %w", path, err)
	}
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:]), nil
}

// Compare reports whether two paths hold identical content. Absence of either
// path is a mismatch, not an error.
func Compare(ctx context.Context, s Store, a, b string) (bool, error) {
	if !s.Exists(a) || !s.Exists(b) {
		return false, nil
	}

	hashA, err := Hash(ctx, s, a)
	if err != nil {
		return false, err
	}
	hashB, err := Hash(ctx, s, b)
	if err != nil {
		return false, err
	}

	return hashA == hashB, nil
}
