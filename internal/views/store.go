// Package views loads display content from YAML and renders it into
// reply payloads.
package views

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gamebase54/gamebot/pkg/domain"
)

// Store implements ports.ViewStore over an in-memory map loaded from
// YAML.
type Store struct {
	views map[domain.ViewCode]domain.View
}

// Load reads a YAML view file. The document is a map of view code to
// view record:
//
//	GREETINGS_VIEW:
//	  description: "Hi, {first_name}!<br>Pick a category."
//	  image: views/greetings.png
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read views file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Store from YAML bytes.
func Parse(data []byte) (*Store, error) {
	views := make(map[domain.ViewCode]domain.View)
	if err := yaml.Unmarshal(data, &views); err != nil {
		return nil, fmt.Errorf("failed to parse views: %w", err)
	}
	return &Store{views: views}, nil
}

// NewStore wraps an already-built view map, mostly for tests.
func NewStore(views map[domain.ViewCode]domain.View) *Store {
	return &Store{views: views}
}

// GetView resolves one view record. Unknown codes yield
// domain.ErrNotFound.
func (s *Store) GetView(ctx context.Context, code domain.ViewCode) (domain.View, error) {
	view, ok := s.views[code]
	if !ok {
		return domain.View{}, fmt.Errorf("view %s: %w", code, domain.ErrNotFound)
	}
	return view, nil
}
