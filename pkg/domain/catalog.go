package domain

// Category is a node of the console/category hierarchy. ParentID is
// RootNodeID for top-level categories.
type Category struct {
	ID             int64  `json:"id" yaml:"id"`
	ParentID       int64  `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	Name           string `json:"name" yaml:"name"`
	Description    string `json:"description,omitempty" yaml:"description,omitempty"`
	Image          string `json:"image,omitempty" yaml:"image,omitempty"`
	WorkInProgress bool   `json:"workInProgress,omitempty" yaml:"workInProgress,omitempty"`

	// GameCount is the number of games directly attached to the category,
	// filled in by the provider.
	GameCount int `json:"gameCount,omitempty" yaml:"-"`
}

// Game is a terminal catalog record pointing at an external play link.
// CategoryID is RootNodeID for games attached to no category.
type Game struct {
	ID         int64  `json:"id" yaml:"id"`
	CategoryID int64  `json:"categoryId,omitempty" yaml:"categoryId,omitempty"`
	Name       string `json:"name" yaml:"name"`
	URL        string `json:"url" yaml:"url"`
}
