package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔧 FileStore materializes managed copies as full content duplicates.
type FileStore struct{}

// Name identifies the store variant.
func (s *FileStore) Name() string {
	return "file"
}

// Read returns the byte content at path.
func (s *FileStore) Read(ctx context.Context, path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}
	return content, nil
}

// Write stores content at path, creating parent directories as needed.
func (s *FileStore) Write(ctx context.Context, path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Errorf("creating parent directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return errors.Errorf("writing %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Int("bytes", len(content)).Msg("wrote file")
	return nil
}

// Exists reports plain filesystem presence.
func (s *FileStore) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Remove deletes the file at path. An absent path is not an error.
func (s *FileStore) Remove(ctx context.Context, path string) error {
	if !s.Exists(path) {
		return nil
	}
	if err := os.Remove(path); err != nil {
		return errors.Errorf("removing %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("removed file")
	return nil
}
