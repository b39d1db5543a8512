// Package insertion defines the InsertionBlueprint: an immutable proposal
// describing how a leaf would be replaced to place one unit of a part type
// (spec.md §3, §4.C). Blueprints are pure data; executing one is the
// Problem's responsibility (pkg/problem).
package insertion

import (
	"github.com/g2dcsp/solver/pkg/geometry"
	"github.com/g2dcsp/solver/pkg/layout"
)

// Blueprint is an immutable `{target_leaf, replacement_subtree, parttype,
// cost_delta, layout_ref}` proposal (spec.md §3). TargetLeaf is a weak
// reference: it may go stale if a previously committed blueprint rewrote
// or removed the same leaf before this one is committed — the commit path
// (pkg/problem) checks this via layout.Tree.Valid and rejects stale
// blueprints rather than guessing.
type Blueprint struct {
	// LayoutID identifies the Layout this blueprint targets. It may name an
	// empty-template layout, in which case committing triggers
	// copy-on-insert (spec.md §4.D) and the blueprint is rebound to the
	// fresh copy before execution.
	LayoutID int

	// TargetLeaf is the leaf to be replaced, as observed at enumeration
	// time.
	TargetLeaf layout.Handle

	// Replacement is the fully materialized subtree that will take the
	// leaf's place.
	Replacement *layout.NodeBlueprint

	// PartTypeID is the part type one unit of which this blueprint places.
	PartTypeID int

	// Rotation records whether the part was rotated 90° to produce
	// Replacement, for tie-break reproducibility (spec.md §4.E).
	Rotation bool

	// CostDelta is the change in aggregate Cost committing this blueprint
	// would cause: the sheet's unit cost if it targets an empty template,
	// plus the area newly covered expressed as a reduction of
	// PartAreaExcluded. The source left this computation as a `todo!()`
	// (spec.md §9); this is the concrete resolution.
	CostDelta geometry.Cost
}

// NewCostDelta computes the cost delta for committing a blueprint that
// places a part of area partArea into layout that is new (newLayout) with
// sheetUnitCost, or an existing layout (newLayout == false).
func NewCostDelta(newLayout bool, sheetUnitCost int64, partArea int64) geometry.Cost {
	c := geometry.Cost{PartAreaExcluded: -partArea}
	if newLayout {
		c.MaterialCost = sheetUnitCost
	}
	return c
}
