package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/tramtid/internal/adapters/driven/storage"
	"github.com/custodia-labs/tramtid/internal/core/domain"
	"github.com/custodia-labs/tramtid/internal/core/ports/driven"
	"github.com/custodia-labs/tramtid/internal/logger"
)

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore keeps a single token record in a JSON file.
// Writes replace the file atomically; concurrent processes race and the last rename wins.
type CredentialStore struct {
	path string
}

// NewCredentialStore creates a store writing to path.
// The file and its directory are created on first Save.
func NewCredentialStore(path string) *CredentialStore {
	return &CredentialStore{path: path}
}

// Load reads the token record. Any failure is logged and reported as no token.
func (s *CredentialStore) Load(_ context.Context) (*domain.AccessToken, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("no stored token", "component", "credentials", "path", s.path)
		} else {
			logger.Warn("could not read stored token", "component", "credentials", "path", s.path, "error", err)
		}
		return nil, false
	}

	token, err := storage.DecodeToken(data)
	if err != nil {
		logger.Warn("ignoring unreadable token file", "component", "credentials", "path", s.path, "error", err)
		return nil, false
	}

	logger.Debug("token loaded", "component", "credentials", "path", s.path)
	return token, true
}

// Save replaces the token file with token.
func (s *CredentialStore) Save(_ context.Context, token domain.AccessToken) error {
	data, err := storage.EncodeToken(token)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".accessToken-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}

	logger.Debug("token saved", "component", "credentials", "path", s.path)
	return nil
}

// Clear removes the token file. A missing file is not an error.
func (s *CredentialStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", s.path, err)
	}
	return nil
}

// Location returns the token file path.
func (s *CredentialStore) Location() string {
	return s.path
}
