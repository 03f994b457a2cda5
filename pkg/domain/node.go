package domain

// NodeKind tags a tree node as drill-down or terminal.
type NodeKind string

const (
	NodeParent NodeKind = "parent"
	NodeLeaf   NodeKind = "leaf"
)

// RootNodeID is the sentinel node id for the top of a hierarchy.
const RootNodeID int64 = 0

// TreeNode is one item of a hierarchical dataset: either a parent node that
// can be drilled into or a terminal leaf. ParentID always equals the node id
// the structure was fetched for (RootNodeID at the top).
type TreeNode[P any, L any] struct {
	Kind     NodeKind
	ID       int64
	ParentID int64
	Parent   P
	Leaf     L
}

// Structure is the result of a hierarchical dataset fetch for one node.
type Structure[P any, L any] struct {
	Parents []P
	Leafs   []L
}

// WrapStructure tags the records of a structure into a flat ordered node
// list: parents first, then leafs, both in provider order.
func WrapStructure[P any, L any](s Structure[P, L], currentNodeID int64, parentID func(P) int64, leafID func(L) int64) []TreeNode[P, L] {
	nodes := make([]TreeNode[P, L], 0, len(s.Parents)+len(s.Leafs))
	for _, p := range s.Parents {
		nodes = append(nodes, TreeNode[P, L]{
			Kind:     NodeParent,
			ID:       parentID(p),
			ParentID: currentNodeID,
			Parent:   p,
		})
	}
	for _, l := range s.Leafs {
		nodes = append(nodes, TreeNode[P, L]{
			Kind:     NodeLeaf,
			ID:       leafID(l),
			ParentID: currentNodeID,
			Leaf:     l,
		})
	}
	return nodes
}
