package scene

import (
	"context"
	"strconv"

	"github.com/gamebase54/gamebot/pkg/domain"
)

// ActionUp ascends one level in a tree scene.
const ActionUp = "up"

// TreeState is the stored state of a tree scene: the current node and the
// ordered trail of ancestor ids walked to reach it. The trail is pushed on
// drill-down and popped on "up", so back-tracking works at arbitrary depth.
type TreeState struct {
	NodeID int64   `json:"nodeId,omitempty"`
	Trail  []int64 `json:"trail,omitempty"`
}

// TreeSource supplies the scene-specific parts of a hierarchical tree: the
// node structure, ids and per-kind button markup.
type TreeSource[P any, L any] interface {
	// Structure returns parent and leaf records under the given node,
	// domain.RootNodeID for the top of the hierarchy.
	Structure(ctx context.Context, t *Turn, nodeID int64) (domain.Structure[P, L], error)

	// ParentID and LeafID extract record identifiers.
	ParentID(p P) int64
	LeafID(l L) int64

	// ParentButton renders a drill-down button; its action must be the
	// decimal node id. LeafButton renders a terminal action button.
	ParentButton(ctx context.Context, t *Turn, p P) domain.Button
	LeafButton(ctx context.Context, t *Turn, l L) domain.Button

	// NodeContent returns the display content for the current node's page.
	NodeContent(ctx context.Context, t *Turn, nodeID int64, page []domain.TreeNode[P, L]) (Content, error)

	// EmptyContent returns the display content of the empty-structure path.
	EmptyContent(ctx context.Context, t *Turn) (Content, error)

	// ExtraRows returns additional keyboard rows. May be empty.
	ExtraRows(ctx context.Context, t *Turn) domain.Keyboard
}

// Tree extends List with hierarchical navigation: it resolves the structure
// of the current node, tags records as parent or leaf nodes, and handles
// drill-down and ascend actions by rewriting the scene state and
// reentering.
type Tree[P any, L any] struct {
	*List[domain.TreeNode[P, L]]
	source TreeSource[P, L]
}

// NewTree creates the tree base for a concrete scene.
func NewTree[P any, L any](source TreeSource[P, L], pageSize int) *Tree[P, L] {
	tree := &Tree[P, L]{source: source}
	tree.List = NewList[domain.TreeNode[P, L]](&treeListSource[P, L]{tree: tree}, pageSize)
	return tree
}

// HandleAction processes pagination, ascend and numeric drill-down actions.
// It reports whether the action was consumed.
func (tr *Tree[P, L]) HandleAction(ctx context.Context, t *Turn, action string) (bool, error) {
	if handled, err := tr.HandlePageAction(ctx, t, action); handled {
		return true, err
	}

	if action == ActionUp {
		return true, tr.ascend(ctx, t)
	}

	if nodeID, err := strconv.ParseInt(action, 10, 64); err == nil {
		return true, tr.drill(ctx, t, nodeID)
	}

	return false, nil
}

func (tr *Tree[P, L]) drill(ctx context.Context, t *Turn, nodeID int64) error {
	state, err := DecodeState[TreeState](t)
	if err != nil {
		return err
	}

	t.Logger().Debug("drill into node", "node_id", nodeID)
	state.Trail = append(state.Trail, state.NodeID)
	state.NodeID = nodeID
	if err := t.SetState(state); err != nil {
		return err
	}
	return t.Reenter(ctx)
}

func (tr *Tree[P, L]) ascend(ctx context.Context, t *Turn) error {
	state, err := DecodeState[TreeState](t)
	if err != nil {
		return err
	}

	if n := len(state.Trail); n > 0 {
		state.NodeID = state.Trail[n-1]
		state.Trail = state.Trail[:n-1]
	} else {
		state.NodeID = domain.RootNodeID
	}

	t.Logger().Debug("ascend to node", "node_id", state.NodeID)
	if err := t.SetState(state); err != nil {
		return err
	}
	return t.Reenter(ctx)
}

// treeListSource adapts a TreeSource to the ListSource contract, wrapping
// structure records into tagged nodes.
type treeListSource[P any, L any] struct {
	tree *Tree[P, L]
}

func (s *treeListSource[P, L]) FetchDataset(ctx context.Context, t *Turn) ([]domain.TreeNode[P, L], error) {
	state, err := DecodeState[TreeState](t)
	if err != nil {
		return nil, err
	}

	structure, err := s.tree.source.Structure(ctx, t, state.NodeID)
	if err != nil {
		return nil, err
	}

	return domain.WrapStructure(structure, state.NodeID, s.tree.source.ParentID, s.tree.source.LeafID), nil
}

func (s *treeListSource[P, L]) ItemRow(ctx context.Context, t *Turn, node domain.TreeNode[P, L]) []domain.Button {
	if node.Kind == domain.NodeParent {
		return []domain.Button{s.tree.source.ParentButton(ctx, t, node.Parent)}
	}
	return []domain.Button{s.tree.source.LeafButton(ctx, t, node.Leaf)}
}

func (s *treeListSource[P, L]) ExtraRows(ctx context.Context, t *Turn) domain.Keyboard {
	var kb domain.Keyboard

	// The up button is offered only below the root.
	state, err := DecodeState[TreeState](t)
	if err == nil && state.NodeID != domain.RootNodeID {
		kb = kb.Append([]domain.Button{domain.CallbackButton("⬆️ Up one level", ActionUp)})
	}

	return kb.Append(s.tree.source.ExtraRows(ctx, t)...)
}

func (s *treeListSource[P, L]) PageContent(ctx context.Context, t *Turn, page []domain.TreeNode[P, L]) (Content, error) {
	state, err := DecodeState[TreeState](t)
	if err != nil {
		return Content{}, err
	}
	return s.tree.source.NodeContent(ctx, t, state.NodeID, page)
}

func (s *treeListSource[P, L]) EmptyContent(ctx context.Context, t *Turn) (Content, error) {
	return s.tree.source.EmptyContent(ctx, t)
}
