// Package enumerator produces candidate insertion.Blueprints for a part
// type against a Problem's active and empty-template layouts (spec.md
// §4.E), backed by a per-leaf feasibility cache so a worker's R&R loop
// pays for re-enumeration only where the tree actually changed.
package enumerator

import (
	"sort"

	"github.com/g2dcsp/solver/pkg/collections"
	"github.com/g2dcsp/solver/pkg/geometry"
	"github.com/g2dcsp/solver/pkg/insertion"
	"github.com/g2dcsp/solver/pkg/instance"
	"github.com/g2dcsp/solver/pkg/layout"
	"github.com/g2dcsp/solver/pkg/problem"
)

type leafKey struct {
	layoutID int
	nodeID   layout.NodeID
}

// Enumerator caches, per Leftover leaf, the set of (parttype, rotation)
// combinations currently feasible there (spec.md §4.E). The cache is
// invalidated incrementally via Invalidate, fed by the layout.CacheUpdates
// that Insert/Remove return, so re-enumeration after a commit is O(|Δ|)
// rather than a full rebuild.
type Enumerator struct {
	inst  *instance.Instance
	cache map[leafKey]*collections.Bitset

	leafPool *collections.SlicePool[layout.NodeID]
	candPool *collections.SlicePool[candidate]
}

// New builds an Enumerator over inst.
func New(inst *instance.Instance) *Enumerator {
	return &Enumerator{
		inst:     inst,
		cache:    make(map[leafKey]*collections.Bitset),
		leafPool: collections.NewSlicePool[layout.NodeID](32),
		candPool: collections.NewSlicePool[candidate](64),
	}
}

// Invalidate drops cache entries for leaves a layout.CacheUpdates reports
// as removed or added, so the next Candidates call recomputes them against
// the leaf's current shape.
func (e *Enumerator) Invalidate(layoutID int, updates layout.CacheUpdates) {
	for _, id := range updates.Removed {
		delete(e.cache, leafKey{layoutID, id})
	}
	for _, id := range updates.Added {
		delete(e.cache, leafKey{layoutID, id})
	}
}

// bitIndex packs (partTypeID, rotated) into a single cache bit.
func bitIndex(partTypeID int, rotated bool) int {
	if rotated {
		return partTypeID*2 + 1
	}
	return partTypeID * 2
}

type candidate struct {
	bp           *insertion.Blueprint
	leftoverArea int64
	leafID       layout.NodeID
	rotationID   int
}

// source abstracts the two layout collections (active and empty-template)
// Candidates must scan, carrying the sheet type (whose unit cost prices a
// new Layout) and whether placing into it would create a new Layout
// (copy-on-insert).
type source struct {
	id          int
	sheetTypeID int
	tree        *layout.Tree
	isTemplate  bool
}

// Candidates enumerates every feasible Blueprint placing one unit of
// partTypeID into p's active layouts and empty templates, ordered by the
// tie-break rule of spec.md §4.E: smaller resulting leftover area, lower
// leaf id, lower rotation id — for equal cost-delta.
func (e *Enumerator) Candidates(p *problem.Problem, partTypeID int) []*insertion.Blueprint {
	pt := e.inst.PartTypes[partTypeID]
	var sources []source
	for _, l := range p.Layouts {
		sources = append(sources, source{id: l.ID, sheetTypeID: l.SheetTypeID, tree: l.Tree, isTemplate: false})
	}
	for _, l := range p.EmptyLayouts {
		if p.SheetTypeQtyRemaining(l.SheetTypeID) <= 0 {
			continue
		}
		sources = append(sources, source{id: l.ID, sheetTypeID: l.SheetTypeID, tree: l.Tree, isTemplate: true})
	}

	outPtr := e.candPool.Get()
	defer e.candPool.Put(outPtr)
	out := (*outPtr)[:0]
	for _, s := range sources {
		e.fillCache(s)
		out = e.appendCandidates(s, pt, out)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.leftoverArea != b.leftoverArea {
			return a.leftoverArea < b.leftoverArea
		}
		if a.leafID != b.leafID {
			return a.leafID < b.leafID
		}
		return a.rotationID < b.rotationID
	})

	bps := make([]*insertion.Blueprint, len(out))
	for i, c := range out {
		bps[i] = c.bp
	}
	*outPtr = out
	return bps
}

// fillCache ensures every Leftover leaf of s.tree has a cache entry,
// computing feasibility against every part type where it is missing.
func (e *Enumerator) fillCache(s source) {
	leavesPtr := e.leafPool.Get()
	leaves := s.tree.LeftoverLeaves(s.tree.Root(), (*leavesPtr)[:0])

	for _, leafID := range leaves {
		key := leafKey{s.id, leafID}
		if _, ok := e.cache[key]; ok {
			continue
		}
		rect := s.tree.Rect(leafID)
		bits := collections.NewBitset(len(e.inst.PartTypes) * 2)
		for _, p2 := range e.inst.PartTypes {
			for _, o := range p2.Rotations() {
				if o.Width <= rect.Width && o.Height <= rect.Height {
					bits.Set(bitIndex(p2.ID, o.Rotated))
				}
			}
		}
		e.cache[key] = bits
	}

	*leavesPtr = leaves
	e.leafPool.Put(leavesPtr)
}

// appendCandidates reads the cache for every Leftover leaf of s.tree and
// appends a candidate per feasible (rotation, cut-order) pair to out,
// returning the (possibly grown) slice.
func (e *Enumerator) appendCandidates(s source, pt instance.PartType, out []candidate) []candidate {
	leavesPtr := e.leafPool.Get()
	leaves := s.tree.LeftoverLeaves(s.tree.Root(), (*leavesPtr)[:0])

	sheetUnitCost := e.inst.SheetTypes[s.sheetTypeID].UnitCost

	for _, leafID := range leaves {
		bits := e.cache[leafKey{s.id, leafID}]
		rect := s.tree.Rect(leafID)

		for rotationID, o := range pt.Rotations() {
			if !bits.Test(bitIndex(pt.ID, o.Rotated)) {
				continue
			}
			for _, first := range [2]geometry.Orientation{geometry.Horizontal, geometry.Vertical} {
				placement, ok := geometry.NewSplitPlacement(first, rect.Width, rect.Height, o.Width, o.Height)
				if !ok {
					continue
				}
				out = append(out, candidate{
					bp: &insertion.Blueprint{
						LayoutID:    s.id,
						TargetLeaf:  s.tree.Handle(leafID),
						Replacement: buildReplacement(placement, pt.ID),
						PartTypeID:  pt.ID,
						Rotation:    o.Rotated,
						CostDelta:   insertion.NewCostDelta(s.isTemplate, sheetUnitCost, pt.Area()),
					},
					leftoverArea: placement.LeftoverArea(),
					leafID:       leafID,
					rotationID:   rotationID,
				})
			}
		}
	}

	*leavesPtr = leaves
	e.leafPool.Put(leavesPtr)
	return out
}
