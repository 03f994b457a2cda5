package ports

import (
	"context"

	"github.com/gamebase54/gamebot/pkg/domain"
)

// Catalog is the dataset provider behind the category tree and game lists.
// All listings are returned ordered by name, ascending.
type Catalog interface {
	// Category resolves a single category.
	// Returns domain.ErrNotFound for an unknown id.
	Category(ctx context.Context, id int64) (domain.Category, error)

	// ChildCategories lists categories whose parent is the given id
	// (domain.RootNodeID for top-level categories).
	ChildCategories(ctx context.Context, parentID int64) ([]domain.Category, error)

	// GamesByCategory lists games attached to the given category
	// (domain.RootNodeID for uncategorized games).
	GamesByCategory(ctx context.Context, categoryID int64) ([]domain.Game, error)

	// Games lists the whole game collection.
	Games(ctx context.Context) ([]domain.Game, error)
}
