package enumerator

import (
	"testing"

	"github.com/g2dcsp/solver/pkg/instance"
	"github.com/g2dcsp/solver/pkg/layout"
	"github.com/g2dcsp/solver/pkg/problem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoPartInstance() *instance.Instance {
	return &instance.Instance{
		Name: "two-part",
		PartTypes: []instance.PartType{
			{ID: 0, Width: 60, Height: 100, Demand: 1},
			{ID: 1, Width: 40, Height: 100, Demand: 1},
		},
		SheetTypes: []instance.SheetType{
			{ID: 0, Width: 100, Height: 100, UnitCost: 10, Stock: instance.Unlimited},
		},
	}
}

func TestCandidates_ExactFitAgainstTemplate(t *testing.T) {
	inst := &instance.Instance{
		Name:       "exact",
		PartTypes:  []instance.PartType{{ID: 0, Width: 100, Height: 100, Demand: 1}},
		SheetTypes: []instance.SheetType{{ID: 0, Width: 100, Height: 100, UnitCost: 10, Stock: instance.Unlimited}},
	}
	p := problem.New(inst, 1)
	e := New(inst)

	cands := e.Candidates(p, 0)
	require.NotEmpty(t, cands)
	for _, c := range cands {
		assert.Equal(t, layout.Item, c.Replacement.Kind())
		assert.Equal(t, int64(100), c.Replacement.Width)
		assert.Equal(t, int64(100), c.Replacement.Height)
		assert.Equal(t, int64(10), c.CostDelta.MaterialCost)
		assert.Equal(t, int64(-10000), c.CostDelta.PartAreaExcluded)
	}
}

func TestCandidates_NarrowerPartLeavesLeftoverSibling(t *testing.T) {
	inst := twoPartInstance()
	p := problem.New(inst, 1)
	e := New(inst)

	cands := e.Candidates(p, 0)
	require.NotEmpty(t, cands)
	for _, c := range cands {
		assert.Equal(t, layout.Structure, c.Replacement.Kind())
		require.Len(t, c.Replacement.Children, 2)
	}
}

func TestInvalidate_DropsStaleCacheEntries(t *testing.T) {
	inst := twoPartInstance()
	p := problem.New(inst, 1)
	e := New(inst)

	cands := e.Candidates(p, 0)
	require.NotEmpty(t, cands)

	bp := cands[0]
	updates, _, err := p.Commit(bp)
	require.NoError(t, err)
	e.Invalidate(bp.LayoutID, updates)

	// Part type 1 should still find a feasible placement in whatever
	// leftover remains after placing part 0.
	more := e.Candidates(p, 1)
	assert.NotEmpty(t, more)
}

func TestCandidates_NoFeasibleBlueprintWhenStockExhausted(t *testing.T) {
	inst := twoPartInstance()
	inst.SheetTypes[0].Stock = 0
	p := problem.New(inst, 1)
	e := New(inst)

	assert.Empty(t, e.Candidates(p, 0))
}
