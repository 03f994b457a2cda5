// Package file implements ports.SessionStore on the local filesystem.
// Sessions are JSON files in a configured directory, written atomically
// via temp file, fsync and rename.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gamebase54/gamebot/pkg/domain"
)

// SessionStore stores one JSON file per conversation.
type SessionStore struct {
	BasePath string
}

// New creates a SessionStore rooted at basePath. If basePath is empty,
// it defaults to ".gamebot/sessions".
func New(basePath string) *SessionStore {
	if basePath == "" {
		basePath = filepath.Join(".gamebot", "sessions")
	}
	return &SessionStore{BasePath: basePath}
}

// fileName maps a conversation key ("user:chat") to a filesystem-safe
// name. Keys never contain '_', so the mapping is unambiguous.
func fileName(key string) string {
	return strings.ReplaceAll(key, ":", "_") + ".json"
}

func keyFromFileName(name string) string {
	base := strings.TrimSuffix(name, ".json")
	return strings.ReplaceAll(base, "_", ":")
}

// Set persists the session to a JSON file atomically. It writes to a
// temporary file first, syncs via fsync, and then renames it over the
// destination.
func (s *SessionStore) Set(ctx context.Context, key string, sess *domain.Session) error {
	if key == "" {
		return fmt.Errorf("conversation key cannot be empty")
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure session directory: %w", err)
	}

	destPath := filepath.Join(s.BasePath, fileName(key))

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Temp file lives in the same directory so the rename stays on one
	// filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // Remove if still exists (not renamed)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// os.Rename replaces the destination on POSIX. On Windows it fails
	// when the destination exists, so clear it first.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing session file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to session file: %w", err)
	}
	return nil
}

// Get retrieves the session from its JSON file.
func (s *SessionStore) Get(ctx context.Context, key string) (*domain.Session, error) {
	if key == "" {
		return nil, fmt.Errorf("conversation key cannot be empty")
	}

	data, err := os.ReadFile(filepath.Join(s.BasePath, fileName(key)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

// Delete removes the session file. Deleting a missing session is not an
// error.
func (s *SessionStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("conversation key cannot be empty")
	}

	err := os.Remove(filepath.Join(s.BasePath, fileName(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// List loads every stored session.
func (s *SessionStore) List(ctx context.Context) ([]domain.SessionRecord, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.SessionRecord{}, nil
		}
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var records []domain.SessionRecord
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}

		key := keyFromFileName(name)
		sess, err := s.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		records = append(records, domain.SessionRecord{Key: key, Session: sess})
	}
	return records, nil
}
