// Package layout implements the guillotine layout tree: an arena-indexed
// recursive node model (spec.md §3, §4.B) plus the insert/remove/deep-copy
// operations that mutate it.
//
// The reference implementation this spec was distilled from represented the
// tree with Rc<RefCell<Node>> parent/child handles and weak back-pointers
// (spec.md §9). Go has no borrow checker to satisfy and no use for reference
// cycles here, so nodes live in a flat arena (a slice on Tree) addressed by
// integer NodeID, with an explicit Parent field and a generation counter per
// slot so a stale Handle (held by an InsertionBlueprint across enumeration)
// can be detected cheaply at commit time instead of upgrading a Weak.
package layout

// NodeID addresses a slot in a Tree's arena.
type NodeID int32

// InvalidNodeID marks the absence of a node (e.g. the parent of the root).
const InvalidNodeID NodeID = -1

// Kind is the discriminant of a Node (spec.md §3).
type Kind uint8

const (
	// Structure nodes have >=2 children tiling the parent along Orientation.
	Structure Kind = iota
	// Item is a leaf occupied by one placed part.
	Item
	// Leftover is a leaf available for future insertions.
	Leftover
)

func (k Kind) String() string {
	switch k {
	case Structure:
		return "Structure"
	case Item:
		return "Item"
	case Leftover:
		return "Leftover"
	default:
		return "Unknown"
	}
}
