package problem

import (
	"math/rand"

	"github.com/g2dcsp/solver/pkg/geometry"
	"github.com/g2dcsp/solver/pkg/insertion"
	"github.com/g2dcsp/solver/pkg/instance"
	"github.com/g2dcsp/solver/pkg/layout"
)

// Problem tracks one worker's remaining part/sheet quantities and its set
// of active and empty-template Layouts (spec.md §3/§4.D). A Problem is
// owned exclusively by a single goroutine.
type Problem struct {
	Instance *instance.Instance

	partTypeQtyRemaining  []int
	sheetTypeQtyRemaining []int64

	Layouts       []*Layout
	EmptyLayouts  []*Layout // exactly one per sheet type with remaining stock > 0
	layoutIDNext  int
	Rng           *rand.Rand
}

// New builds a Problem seeded with empty-template layouts only, one per
// sheet type with nonzero stock (spec.md §4.F "initially seeded with the
// empty-template layouts only").
func New(inst *instance.Instance, seed int64) *Problem {
	p := &Problem{
		Instance:              inst,
		partTypeQtyRemaining:  make([]int, len(inst.PartTypes)),
		sheetTypeQtyRemaining: make([]int64, len(inst.SheetTypes)),
		Rng:                   rand.New(rand.NewSource(seed)),
	}
	for i, pt := range inst.PartTypes {
		p.partTypeQtyRemaining[i] = pt.Demand
	}
	for i, st := range inst.SheetTypes {
		p.sheetTypeQtyRemaining[i] = st.Stock
		if st.Stock > 0 {
			tree := layout.NewTree(st.Width, st.Height)
			p.EmptyLayouts = append(p.EmptyLayouts, &Layout{ID: p.nextLayoutID(), SheetTypeID: i, Tree: tree})
		}
	}
	return p
}

func (p *Problem) nextLayoutID() int {
	id := p.layoutIDNext
	p.layoutIDNext++
	return id
}

// PartTypeQtyRemaining returns the remaining demand of part type id.
func (p *Problem) PartTypeQtyRemaining(id int) int { return p.partTypeQtyRemaining[id] }

// SheetTypeQtyRemaining returns the remaining stock of sheet type id.
func (p *Problem) SheetTypeQtyRemaining(id int) int64 { return p.sheetTypeQtyRemaining[id] }

// EmptyLayoutFor returns the empty template for sheetTypeID, if stock
// remains for it — used by the enumerator to find candidate leaves in
// untouched sheet types (spec.md §4.E).
func (p *Problem) EmptyLayoutFor(sheetTypeID int) *Layout {
	for _, l := range p.EmptyLayouts {
		if l.SheetTypeID == sheetTypeID {
			return l
		}
	}
	return nil
}

// emptyLayoutByID returns the empty template whose id is layoutID, if any.
func (p *Problem) emptyLayoutByID(layoutID int) (*Layout, int) {
	for i, l := range p.EmptyLayouts {
		if l.ID == layoutID {
			return l, i
		}
	}
	return nil, -1
}

func (p *Problem) layoutByID(id int) (*Layout, int) {
	for i, l := range p.Layouts {
		if l.ID == id {
			return l, i
		}
	}
	return nil, -1
}

// Commit executes an insertion.Blueprint against this Problem (spec.md
// §4.D). If the blueprint targets an empty template, the template is
// deep-copied into a fresh active Layout first and the blueprint is rebound
// to the corresponding node in the clone — the copy-on-insert step that
// keeps templates pristine under concurrent enumeration (spec.md §4.D).
func (p *Problem) Commit(bp *insertion.Blueprint) (layout.CacheUpdates, bool, error) {
	createdNewLayout := false
	target := bp.TargetLeaf

	tmpl, tmplIdx := p.emptyLayoutByID(bp.LayoutID)
	if tmpl != nil {
		clone := tmpl.DeepCopy(p.nextLayoutID())
		target = clone.Tree.Handle(target.ID)
		p.Layouts = append(p.Layouts, clone)
		p.sheetTypeQtyRemaining[clone.SheetTypeID]--
		p.EmptyLayouts = append(p.EmptyLayouts[:tmplIdx], p.EmptyLayouts[tmplIdx+1:]...)
		if p.sheetTypeQtyRemaining[clone.SheetTypeID] > 0 {
			p.EmptyLayouts = append(p.EmptyLayouts, &Layout{
				ID:          p.nextLayoutID(),
				SheetTypeID: clone.SheetTypeID,
				Tree:        tmpl.Tree.DeepCopy(),
			})
		}
		createdNewLayout = true
		bp.LayoutID = clone.ID
		bp.TargetLeaf = target
	}

	l, _ := p.layoutByID(bp.LayoutID)
	if l == nil {
		return layout.CacheUpdates{}, false, errNoSuchLayout(bp.LayoutID)
	}

	p.partTypeQtyRemaining[bp.PartTypeID]--

	updates, err := l.Insert(bp.TargetLeaf, bp.Replacement)
	if err != nil {
		return layout.CacheUpdates{}, false, err
	}
	return updates, createdNewLayout, nil
}

// RemoveNode un-places the Item at node within layoutID, releasing its part
// type quantity and, if the layout becomes empty, releasing the layout back
// to its sheet type's remaining stock (spec.md §4.D remove_node).
func (p *Problem) RemoveNode(layoutID int, node layout.NodeID) (layout.CacheUpdates, error) {
	l, idx := p.layoutByID(layoutID)
	if l == nil {
		return layout.CacheUpdates{}, errNoSuchLayout(layoutID)
	}
	released, updates, err := l.Remove(node)
	if err != nil {
		return layout.CacheUpdates{}, err
	}
	p.partTypeQtyRemaining[released]++

	if l.IsEmpty() {
		p.Layouts = append(p.Layouts[:idx], p.Layouts[idx+1:]...)
		p.sheetTypeQtyRemaining[l.SheetTypeID]++
		if p.EmptyLayoutFor(l.SheetTypeID) == nil {
			st := p.Instance.SheetTypes[l.SheetTypeID]
			p.EmptyLayouts = append(p.EmptyLayouts, &Layout{
				ID:          p.nextLayoutID(),
				SheetTypeID: l.SheetTypeID,
				Tree:        layout.NewTree(st.Width, st.Height),
			})
		}
	}
	return updates, nil
}

// Cost computes the aggregate Cost of the current state (spec.md §4.A):
// material cost summed over active layouts, plus the part area not yet
// covered by any Item leaf.
func (p *Problem) Cost() geometry.Cost {
	var c geometry.Cost
	for _, l := range p.Layouts {
		c.MaterialCost += p.Instance.SheetTypes[l.SheetTypeID].UnitCost
	}
	c.PartAreaExcluded = p.Instance.TotalPartArea() - p.placedPartArea()
	return c
}

func (p *Problem) placedPartArea() int64 {
	var total int64
	for _, l := range p.Layouts {
		var leaves []layout.NodeID
		leaves = l.Tree.Leaves(l.Tree.Root(), leaves[:0])
		for _, id := range leaves {
			if l.Tree.Kind(id) == layout.Item {
				total += l.Tree.Rect(id).Area()
			}
		}
	}
	return total
}

// IsComplete reports whether every part type's demand has been placed.
func (p *Problem) IsComplete() bool {
	for _, qty := range p.partTypeQtyRemaining {
		if qty > 0 {
			return false
		}
	}
	return true
}

// Clone produces an independent deep copy of the Problem, sharing the
// immutable Instance and RNG stream. The R&R worker takes a Clone before
// Ruin so a rejected iteration can restore the pre-ruin state cheaply
// instead of journaling every commit (spec.md §4.F Accept).
func (p *Problem) Clone() *Problem {
	cp := &Problem{
		Instance:              p.Instance,
		partTypeQtyRemaining:  append([]int(nil), p.partTypeQtyRemaining...),
		sheetTypeQtyRemaining: append([]int64(nil), p.sheetTypeQtyRemaining...),
		layoutIDNext:          p.layoutIDNext,
		Rng:                   p.Rng,
	}
	for _, l := range p.Layouts {
		cp.Layouts = append(cp.Layouts, l.DeepCopy(l.ID))
	}
	for _, l := range p.EmptyLayouts {
		cp.EmptyLayouts = append(cp.EmptyLayouts, l.DeepCopy(l.ID))
	}
	return cp
}

// Snapshot produces an owning deep copy of the Problem's active layouts and
// its aggregate Cost (spec.md §4.D snapshot → SendableSolution).
func (p *Problem) Snapshot() *Solution {
	sol := &Solution{
		InstanceName: p.Instance.Name,
		Cost:         p.Cost(),
		Complete:     p.IsComplete(),
	}
	for _, l := range p.Layouts {
		sol.Layouts = append(sol.Layouts, LayoutSnapshot{
			SheetTypeID: l.SheetTypeID,
			Root:        l.Tree.ToBlueprint(l.Tree.Root()),
		})
	}
	return sol
}
