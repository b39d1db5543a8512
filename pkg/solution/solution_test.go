package solution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/g2dcsp/solver/pkg/geometry"
	"github.com/g2dcsp/solver/pkg/instance"
	"github.com/g2dcsp/solver/pkg/layout"
	"github.com/g2dcsp/solver/pkg/problem"
)

func TestBuild_ExactFitSingleItem(t *testing.T) {
	echo := &instance.JSONInstance{
		Name:       "panels",
		PartTypes:  []instance.JSONPartType{{Length: 100, Height: 200, Demand: 1}},
		SheetTypes: []instance.JSONSheetType{{Length: 100, Height: 200, Cost: 10}},
	}
	partTypeID := 0
	sol := &problem.Solution{
		InstanceName: "panels",
		Cost:         geometry.Cost{MaterialCost: 10, PartAreaExcluded: 0},
		Complete:     true,
		Layouts: []problem.LayoutSnapshot{
			{SheetTypeID: 0, Root: layout.Leaf(100, 200, &partTypeID)},
		},
	}

	out := Build(echo, sol, 100*200, 42, "config.yaml")

	require.Len(t, out.CuttingPatterns, 1)
	cp := out.CuttingPatterns[0]
	assert.Equal(t, 0, cp.Object)
	assert.Equal(t, Item, cp.Root.NodeType)
	require.NotNil(t, cp.Root.Item)
	assert.Equal(t, 0, *cp.Root.Item)
	assert.Nil(t, cp.Root.Orientation)
	assert.Equal(t, int64(100), cp.Root.Length)
	assert.Equal(t, int64(200), cp.Root.Height)

	assert.Equal(t, 100.0, out.Statistics.UsagePct)
	assert.Equal(t, 100.0, out.Statistics.PartAreaIncludedPct)
	assert.Equal(t, 1, out.Statistics.NObjectsUsed)
	assert.Equal(t, int64(10), out.Statistics.MaterialCost)
	assert.Equal(t, int64(42), out.Statistics.RunTimeMS)
}

func TestBuild_StructureWithLeftover(t *testing.T) {
	echo := &instance.JSONInstance{Name: "panels"}
	partTypeID := 3
	item := layout.Leaf(100, 150, &partTypeID)
	leftover := layout.Leaf(100, 50, nil)
	root := layout.Branch(100, 200, geometry.Horizontal, item, leftover)

	sol := &problem.Solution{
		Cost: geometry.Cost{MaterialCost: 5, PartAreaExcluded: 100 * 50},
		Layouts: []problem.LayoutSnapshot{
			{SheetTypeID: 1, Root: root},
		},
	}

	out := Build(echo, sol, 100*150*4, 0, "")

	cp := out.CuttingPatterns[0]
	assert.Equal(t, Structure, cp.Root.NodeType)
	require.NotNil(t, cp.Root.Orientation)
	assert.Equal(t, "H", *cp.Root.Orientation)
	require.Len(t, cp.Root.Children, 2)
	assert.Equal(t, Item, cp.Root.Children[0].NodeType)
	assert.Equal(t, Leftover, cp.Root.Children[1].NodeType)
	assert.Nil(t, cp.Root.Children[1].Item)

	wantUsage := float64(100*150) / float64(100*200) * 100
	assert.InDelta(t, wantUsage, out.Statistics.UsagePct, 0.001)
}
