// Package problem tracks remaining part/sheet quantities and the set of
// active and empty-template Layouts, and is the sole mutator of Layout
// trees (spec.md §4.D). Everything here is owned exclusively by one
// worker goroutine; nothing in this package is safe for concurrent use
// from two goroutines at once (spec.md §5 "workers never share mutable
// state").
package problem

import (
	"github.com/g2dcsp/solver/pkg/layout"
)

// Layout is one sheet's guillotine partition (spec.md §3). A Layout is
// either active (part of layouts) or held as the one empty template per
// sheet type (empty_layouts), in which case it is never mutated directly —
// only cloned via DeepCopy.
type Layout struct {
	ID          int
	SheetTypeID int
	Tree        *layout.Tree
}

// DeepCopy returns an independent Layout with a fresh id and a structurally
// identical tree (spec.md §4.B deep_copy).
func (l *Layout) DeepCopy(newID int) *Layout {
	return &Layout{ID: newID, SheetTypeID: l.SheetTypeID, Tree: l.Tree.DeepCopy()}
}

// IsEmpty reports whether the layout has no Item descendants.
func (l *Layout) IsEmpty() bool { return l.Tree.IsEmpty() }

// Insert replaces a leaf of this layout's tree, delegating to the arena
// (spec.md §4.B insert).
func (l *Layout) Insert(target layout.Handle, replacement *layout.NodeBlueprint) (layout.CacheUpdates, error) {
	return l.Tree.Insert(target, replacement)
}

// Remove turns an Item leaf into a Leftover and simplifies (spec.md §4.B
// remove).
func (l *Layout) Remove(id layout.NodeID) (releasedPartTypeID int, updates layout.CacheUpdates, err error) {
	return l.Tree.Remove(id)
}

// MaterialCost returns the unit cost this layout contributes to aggregate
// Cost (spec.md §4.A).
func (l *Layout) MaterialCost(unitCost int64) int64 { return unitCost }
