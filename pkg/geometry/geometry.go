// Package geometry provides rectangle arithmetic, guillotine cut helpers,
// and the cost vector/comparator used throughout the solver.
package geometry

import "fmt"

// Orientation is the axis along which a Structure node's children are cut.
type Orientation uint8

const (
	// Horizontal cuts stack children top-to-bottom (split along height).
	Horizontal Orientation = iota
	// Vertical cuts stack children left-to-right (split along width).
	Vertical
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "H"
	}
	return "V"
}

// Opposite returns the other orientation, used when a guillotine cut
// descends one level and the next cut must flip axis.
func (o Orientation) Opposite() Orientation {
	if o == Horizontal {
		return Vertical
	}
	return Horizontal
}

// Rect is an axis-aligned rectangle's outer dimensions.
type Rect struct {
	Width  int64
	Height int64
}

// Area returns width*height.
func (r Rect) Area() int64 {
	return r.Width * r.Height
}

// Fits reports whether other fits within r without rotation.
func (r Rect) Fits(other Rect) bool {
	return other.Width <= r.Width && other.Height <= r.Height
}

// Comparator orders two Costs; a fixed total order injected at startup
// (spec.md §4.A). Returns <0 if a is better than b, 0 if equal, >0 if
// worse.
type Comparator func(a, b Cost) int

// ComparatorKind names the comparator variants exposed by Config (spec.md §6).
type ComparatorKind string

const (
	// MatThenArea orders first by material cost, then by excluded part area.
	MatThenArea ComparatorKind = "mat_then_area"
	// AreaThenMat orders first by excluded part area, then by material cost.
	AreaThenMat ComparatorKind = "area_then_mat"
)

// Resolve returns the Comparator function for a ComparatorKind.
func (k ComparatorKind) Resolve() (Comparator, error) {
	switch k {
	case MatThenArea, "":
		return compareMatThenArea, nil
	case AreaThenMat:
		return compareAreaThenMat, nil
	default:
		return nil, fmt.Errorf("unknown cost comparator: %q", k)
	}
}

func compareMatThenArea(a, b Cost) int {
	if a.MaterialCost != b.MaterialCost {
		return cmp64(a.MaterialCost, b.MaterialCost)
	}
	return cmp64(a.PartAreaExcluded, b.PartAreaExcluded)
}

func compareAreaThenMat(a, b Cost) int {
	if a.PartAreaExcluded != b.PartAreaExcluded {
		return cmp64(a.PartAreaExcluded, b.PartAreaExcluded)
	}
	return cmp64(a.MaterialCost, b.MaterialCost)
}

func cmp64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Cost is the lexicographically ordered cost vector of spec.md §3: material
// cost is the primary key for complete solutions, excluded part area is the
// primary key for incomplete ones (the Comparator decides which dominates).
type Cost struct {
	// MaterialCost is the sum of sheettype.UnitCost over layouts used.
	MaterialCost int64
	// PartAreaExcluded is total demanded part area minus area of Item leaves
	// placed so far. Zero for a complete solution.
	PartAreaExcluded int64
}

// Add returns the component-wise sum of two Costs.
func (c Cost) Add(other Cost) Cost {
	return Cost{
		MaterialCost:     c.MaterialCost + other.MaterialCost,
		PartAreaExcluded: c.PartAreaExcluded + other.PartAreaExcluded,
	}
}

// Sub returns the component-wise difference c - other.
func (c Cost) Sub(other Cost) Cost {
	return Cost{
		MaterialCost:     c.MaterialCost - other.MaterialCost,
		PartAreaExcluded: c.PartAreaExcluded - other.PartAreaExcluded,
	}
}

// PartAreaFractionIncluded returns the fraction of totalPartArea that is not
// excluded, i.e. Σ item_area / Σ demanded_part_area (spec.md §4.A).
func (c Cost) PartAreaFractionIncluded(totalPartArea int64) float64 {
	if totalPartArea <= 0 {
		return 1
	}
	included := totalPartArea - c.PartAreaExcluded
	return float64(included) / float64(totalPartArea)
}

// Complete reports whether the cost represents a complete solution
// (no part area excluded).
func (c Cost) Complete() bool {
	return c.PartAreaExcluded == 0
}

// SplitPlacement describes how a (rw,rh)-sized item is carved out of a
// WxH leaf by cutting first along `first`, then (if needed) along the
// orthogonal axis — the "two canonical guillotine placements" of spec.md
// §4.E. Either piece may be absent (Has2nd/HasNested false) when the item's
// dimension exactly matches the leaf's along that axis, since a Structure
// node must have at least two children (spec.md §3).
type SplitPlacement struct {
	First     Orientation
	ItemW     int64
	ItemH     int64
	LeafW     int64
	LeafH     int64
	Has2nd    bool // true if the first cut produces a leftover sibling
	HasNested bool // true if the second (orthogonal) cut produces a leftover
}

// NewSplitPlacement validates and builds a placement, or returns false if
// the item does not fit the leaf along this cut order.
func NewSplitPlacement(first Orientation, leafW, leafH, itemW, itemH int64) (SplitPlacement, bool) {
	if itemW > leafW || itemH > leafH {
		return SplitPlacement{}, false
	}
	var has2nd, hasNested bool
	switch first {
	case Vertical:
		has2nd = itemW < leafW
		hasNested = itemH < leafH
	case Horizontal:
		has2nd = itemH < leafH
		hasNested = itemW < leafW
	}
	return SplitPlacement{
		First: first, ItemW: itemW, ItemH: itemH, LeafW: leafW, LeafH: leafH,
		Has2nd: has2nd, HasNested: hasNested,
	}, true
}

// LeftoverArea returns the area not covered by the item under this
// placement — used by the enumerator's tie-break rule (spec.md §4.E).
func (p SplitPlacement) LeftoverArea() int64 {
	return p.LeafW*p.LeafH - p.ItemW*p.ItemH
}
