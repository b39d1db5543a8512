package enumerator

import (
	"github.com/g2dcsp/solver/pkg/geometry"
	"github.com/g2dcsp/solver/pkg/layout"
)

// buildReplacement materializes the NodeBlueprint a SplitPlacement
// describes: a first cut along placement.First separating the item (with
// its possible nested orthogonal cut) from a leftover sibling, collapsing
// away any cut that would produce a zero-area leftover. The result has at
// most five nodes: the outer Structure, the nested Structure, the Item and
// two Leftovers.
func buildReplacement(placement geometry.SplitPlacement, partTypeID int) *layout.NodeBlueprint {
	item := itemSubtree(placement, partTypeID)
	if !placement.Has2nd {
		return item
	}

	var leftoverW, leftoverH int64
	switch placement.First {
	case geometry.Vertical:
		leftoverW, leftoverH = placement.LeafW-placement.ItemW, placement.LeafH
	default: // Horizontal
		leftoverW, leftoverH = placement.LeafW, placement.LeafH-placement.ItemH
	}
	leftover := layout.Leaf(leftoverW, leftoverH, nil)
	return layout.Branch(placement.LeafW, placement.LeafH, placement.First, item, leftover)
}

// itemSubtree builds the item's own subtree: just the Item leaf if the
// item fills the leaf along the orthogonal axis too (HasNested false), or
// a nested Structure splitting off the orthogonal leftover otherwise.
func itemSubtree(placement geometry.SplitPlacement, partTypeID int) *layout.NodeBlueprint {
	var spanW, spanH int64
	switch placement.First {
	case geometry.Vertical:
		spanW, spanH = placement.ItemW, placement.LeafH
	default:
		spanW, spanH = placement.LeafW, placement.ItemH
	}

	if !placement.HasNested {
		return layout.Leaf(spanW, spanH, &partTypeID)
	}

	item := layout.Leaf(placement.ItemW, placement.ItemH, &partTypeID)
	orth := placement.First.Opposite()
	var leftoverW, leftoverH int64
	switch orth {
	case geometry.Vertical:
		leftoverW, leftoverH = spanW-placement.ItemW, spanH
	default:
		leftoverW, leftoverH = spanW, spanH-placement.ItemH
	}
	leftover := layout.Leaf(leftoverW, leftoverH, nil)
	return layout.Branch(spanW, spanH, orth, item, leftover)
}
