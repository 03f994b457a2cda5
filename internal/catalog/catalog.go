// Package catalog provides the game/category dataset from a YAML file.
package catalog

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gamebase54/gamebot/pkg/domain"
)

// Document is the YAML layout of a catalog file.
type Document struct {
	Categories []domain.Category `yaml:"categories"`
	Games      []domain.Game     `yaml:"games"`
}

// Catalog implements ports.Catalog over an in-memory dataset. Listings
// come back sorted by name.
type Catalog struct {
	byID       map[int64]domain.Category
	byParent   map[int64][]domain.Category
	byCategory map[int64][]domain.Game
	games      []domain.Game
}

// Load reads a catalog YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Catalog from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return New(doc), nil
}

// New indexes a parsed document.
func New(doc Document) *Catalog {
	c := &Catalog{
		byID:       make(map[int64]domain.Category, len(doc.Categories)),
		byParent:   make(map[int64][]domain.Category),
		byCategory: make(map[int64][]domain.Game),
		games:      append([]domain.Game(nil), doc.Games...),
	}

	for _, g := range doc.Games {
		c.byCategory[g.CategoryID] = append(c.byCategory[g.CategoryID], g)
	}
	for _, cat := range doc.Categories {
		cat.GameCount = len(c.byCategory[cat.ID])
		c.byID[cat.ID] = cat
		c.byParent[cat.ParentID] = append(c.byParent[cat.ParentID], cat)
	}

	for parentID := range c.byParent {
		sortCategories(c.byParent[parentID])
	}
	for categoryID := range c.byCategory {
		sortGames(c.byCategory[categoryID])
	}
	sortGames(c.games)
	return c
}

func sortCategories(cats []domain.Category) {
	sort.Slice(cats, func(i, j int) bool {
		return strings.ToLower(cats[i].Name) < strings.ToLower(cats[j].Name)
	})
}

func sortGames(games []domain.Game) {
	sort.Slice(games, func(i, j int) bool {
		return strings.ToLower(games[i].Name) < strings.ToLower(games[j].Name)
	})
}

// Category resolves a single category by id.
func (c *Catalog) Category(ctx context.Context, id int64) (domain.Category, error) {
	cat, ok := c.byID[id]
	if !ok {
		return domain.Category{}, fmt.Errorf("category %d: %w", id, domain.ErrNotFound)
	}
	return cat, nil
}

// ChildCategories lists the direct children of parentID, name ascending.
func (c *Catalog) ChildCategories(ctx context.Context, parentID int64) ([]domain.Category, error) {
	return append([]domain.Category(nil), c.byParent[parentID]...), nil
}

// GamesByCategory lists games attached to categoryID, name ascending.
func (c *Catalog) GamesByCategory(ctx context.Context, categoryID int64) ([]domain.Game, error) {
	return append([]domain.Game(nil), c.byCategory[categoryID]...), nil
}

// Games lists the whole collection, name ascending.
func (c *Catalog) Games(ctx context.Context) ([]domain.Game, error) {
	return append([]domain.Game(nil), c.games...), nil
}
