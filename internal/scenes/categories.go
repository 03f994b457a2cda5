package scenes

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gamebase54/gamebot/pkg/domain"
	"github.com/gamebase54/gamebot/pkg/scene"
)

// categories renders the category hierarchy as a folder tree. Branch
// categories drill down in place; a category without subcategories
// opens the game list scene.
type categories struct {
	*scene.Tree[domain.Category, domain.Category]
	deps Deps
}

func newCategories(deps Deps) *categories {
	c := &categories{deps: deps}
	c.Tree = scene.NewTree[domain.Category, domain.Category](c, categoriesPageSize)
	return c
}

// Structure splits the children of nodeID into branches (categories
// with subcategories) and leaves (categories holding games directly).
func (c *categories) Structure(ctx context.Context, t *scene.Turn, nodeID int64) (domain.Structure[domain.Category, domain.Category], error) {
	children, err := c.deps.Catalog.ChildCategories(ctx, nodeID)
	if err != nil {
		return domain.Structure[domain.Category, domain.Category]{}, err
	}

	var structure domain.Structure[domain.Category, domain.Category]
	for _, child := range children {
		grandchildren, err := c.deps.Catalog.ChildCategories(ctx, child.ID)
		if err != nil {
			return domain.Structure[domain.Category, domain.Category]{}, err
		}
		if len(grandchildren) > 0 {
			structure.Parents = append(structure.Parents, child)
		} else {
			structure.Leafs = append(structure.Leafs, child)
		}
	}
	return structure, nil
}

func (c *categories) ParentID(cat domain.Category) int64 { return cat.ID }
func (c *categories) LeafID(cat domain.Category) int64   { return cat.ID }

func (c *categories) ParentButton(ctx context.Context, t *scene.Turn, cat domain.Category) domain.Button {
	return domain.CallbackButton("📂 "+categoryLabel(cat), strconv.FormatInt(cat.ID, 10))
}

func (c *categories) LeafButton(ctx context.Context, t *scene.Turn, cat domain.Category) domain.Button {
	return domain.CallbackButton("🎮 "+categoryLabel(cat), "games:"+strconv.FormatInt(cat.ID, 10))
}

func categoryLabel(cat domain.Category) string {
	label := cat.Name
	if cat.GameCount > 0 {
		label = fmt.Sprintf("%s (%d)", label, cat.GameCount)
	}
	if cat.WorkInProgress {
		label += " 🚧"
	}
	return label
}

func (c *categories) NodeContent(ctx context.Context, t *scene.Turn, nodeID int64, page []domain.TreeNode[domain.Category, domain.Category]) (scene.Content, error) {
	if nodeID == domain.RootNodeID {
		return c.deps.Views.Build(ctx, domain.CategorySelectionView, t.Peer, "Pick a category:"), nil
	}

	cat, err := c.deps.Catalog.Category(ctx, nodeID)
	if err != nil {
		return scene.Content{}, err
	}

	content := c.deps.Views.Build(ctx, domain.DefaultCategoryView, t.Peer, "Pick a category:")
	if cat.Description != "" {
		content.Text = cat.Description
	}
	return content, nil
}

func (c *categories) EmptyContent(ctx context.Context, t *scene.Turn) (scene.Content, error) {
	return c.deps.Views.Build(ctx, domain.EmptyCategoryListView, t.Peer,
		"Nothing here yet. Check back soon!"), nil
}

// ExtraRows adds the channel link and secondary navigation on the root
// page.
func (c *categories) ExtraRows(ctx context.Context, t *scene.Turn) domain.Keyboard {
	state, err := scene.DecodeState[scene.TreeState](t)
	if err != nil || state.NodeID != domain.RootNodeID {
		return nil
	}

	var kb domain.Keyboard
	if c.deps.NewsURL != "" {
		kb = kb.Append([]domain.Button{domain.URLButton("📣 News channel", c.deps.NewsURL)})
	}
	return kb.Append([]domain.Button{
		domain.CallbackButton("💬 Feedback", actionToFeedback),
		domain.CallbackButton("☕ Donations", actionToDonations),
	})
}

func (c *categories) HandleAction(ctx context.Context, t *scene.Turn, action string) error {
	if handled, err := c.Tree.HandleAction(ctx, t, action); handled {
		return err
	}

	back := t.ReturnHere()
	switch {
	case len(action) > 6 && action[:6] == "games:":
		id, err := strconv.ParseInt(action[6:], 10, 64)
		if err != nil {
			t.Logger().Debug("malformed games action", "action", action)
			return nil
		}
		return t.Enter(ctx, IDGames, gamesState{CategoryID: id, Back: back})
	case action == actionToFeedback:
		return t.Enter(ctx, IDFeedback, feedbackState{Back: back})
	case action == actionToDonations:
		return t.Enter(ctx, IDDonations, donationsState{Back: back})
	}

	t.Logger().Debug("unknown categories action", "action", action)
	return nil
}

// HandleMessage treats any text as a search query, tagged with the node
// the user searched from.
func (c *categories) HandleMessage(ctx context.Context, t *scene.Turn, text string) error {
	state, err := scene.DecodeState[scene.TreeState](t)
	if err != nil {
		return err
	}
	return t.Enter(ctx, IDSearch, searchState{Query: text, NodeID: state.NodeID, Back: t.ReturnHere()})
}
