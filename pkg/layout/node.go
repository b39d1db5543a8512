package layout

import "github.com/g2dcsp/solver/pkg/geometry"

// Handle is a weak reference to an arena slot: a NodeID plus the generation
// the referrer observed. It goes stale the moment that slot is freed and
// reused (spec.md §9's "generation counter on node indices").
type Handle struct {
	ID         NodeID
	Generation uint32
}

// node is one arena slot. Structure nodes' Children tile Rect along
// Orientation; Item/Leftover are leaves (spec.md §3 invariants).
type node struct {
	rect        geometry.Rect
	orientation geometry.Orientation // meaningful only when kind == Structure
	kind        Kind
	partTypeID  int // valid only when kind == Item
	parent      NodeID
	children    []NodeID
	generation  uint32
	free        bool
}

// NodeBlueprint is an immutable, detached description of a subtree to be
// materialized into a Tree's arena by Insert, or a deep-copied snapshot of
// an existing subtree (used by Problem.Snapshot and the JSON codec). It has
// no arena dependency so it can be freely shared, serialized, or handed
// across goroutine boundaries.
type NodeBlueprint struct {
	Width       int64
	Height      int64
	Orientation geometry.Orientation // meaningful only when Children != nil
	PartTypeID  *int                 // non-nil iff this blueprint is an Item
	Children    []*NodeBlueprint
}

// Kind reports the NodeKind this blueprint would materialize as.
func (b *NodeBlueprint) Kind() Kind {
	switch {
	case len(b.Children) > 0:
		return Structure
	case b.PartTypeID != nil:
		return Item
	default:
		return Leftover
	}
}

// Leaf builds a Leftover or Item blueprint leaf.
func Leaf(width, height int64, partTypeID *int) *NodeBlueprint {
	return &NodeBlueprint{Width: width, Height: height, PartTypeID: partTypeID}
}

// Branch builds a Structure blueprint cutting along orientation.
func Branch(width, height int64, orientation geometry.Orientation, children ...*NodeBlueprint) *NodeBlueprint {
	return &NodeBlueprint{Width: width, Height: height, Orientation: orientation, Children: children}
}
