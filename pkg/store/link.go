package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔧 LinkStore materializes managed copies as symlinks. Content operations
// read through the link so hashing and diff previews behave exactly like the
// file store; only existence checking and materialization differ.
type LinkStore struct {
	FileStore
}

// Name identifies the store variant.
func (s *LinkStore) Name() string {
	return "link"
}

// Exists additionally recognizes dangling or unresolved symlinks, which a
// plain stat would miss.
func (s *LinkStore) Exists(path string) bool {
	if s.FileStore.Exists(path) {
		return true
	}
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

// Remove deletes the file or link at path. An absent path is not an error.
func (s *LinkStore) Remove(ctx context.Context, path string) error {
	if !s.Exists(path) {
		return nil
	}
	if err := os.Remove(path); err != nil {
		return errors.Errorf("removing %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("removed file")
	return nil
}

// CreateSymlink replaces whatever exists at destination with a symlink
// pointing at source. This is the link-mode materialization operation; the
// executor must call it instead of Write when applying link-mode entries.
func CreateSymlink(ctx context.Context, source, destination string) error {
	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return errors.Errorf("creating parent directory for %s: %w", destination, err)
	}

	if _, err := os.Lstat(destination); err == nil {
		if err := os.Remove(destination); err != nil {
			return errors.Errorf("removing existing %s: %w", destination, err)
		}
	}

	if err := os.Symlink(source, destination); err != nil {
		return errors.Errorf("%w: %s -> %s: %v", ErrSymlink, destination, source, err)
	}

	zerolog.Ctx(ctx).Debug().Str("source", source).Str("destination", destination).Msg("created symlink")
	return nil
}
