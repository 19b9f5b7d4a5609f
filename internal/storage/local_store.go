package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// localStore implements Store on the local file system. Stored files are
// served from the /uploads static route.
type localStore struct {
	dir    string
	logger zerolog.Logger
}

// NewLocalStore creates a file-system-backed image store rooted at dir.
func NewLocalStore(dir string, logger zerolog.Logger) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}

	logger = logger.With().Str("component", "local-image-store").Logger()
	logger.Info().Str("dir", dir).Msg("local image store initialised")

	return &localStore{dir: dir, logger: logger}, nil
}

// Put stores the content under key and returns its public URL.
func (s *localStore) Put(_ context.Context, key, _ string, body io.Reader) (string, error) {
	dest := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", dest, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", dest, err)
	}

	s.logger.Debug().Str("key", key).Msg("image stored")
	return "/uploads/" + key, nil
}

// Delete removes the stored file.
func (s *localStore) Delete(_ context.Context, key string) error {
	dest := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file %s: %w", dest, err)
	}
	return nil
}
