// Package objectfs serves binary objects (view images) from a local
// directory.
package objectfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gamebase54/gamebot/pkg/domain"
)

// Store implements ports.ObjectStore over a base directory.
type Store struct {
	basePath string
}

// New creates a Store rooted at basePath.
func New(basePath string) *Store {
	return &Store{basePath: basePath}
}

// GetObject reads the named object. Names may use subdirectories but
// cannot escape the base path.
func (s *Store) GetObject(ctx context.Context, name string) ([]byte, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(os.PathSeparator)) || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("invalid object name %q", name)
	}

	data, err := os.ReadFile(filepath.Join(s.basePath, clean))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read object %q: %w", name, err)
	}
	return data, nil
}
