package layout

import (
	"testing"

	"github.com/g2dcsp/solver/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTree_StartsAsSingleLeftover(t *testing.T) {
	tr := NewTree(100, 100)
	assert.Equal(t, Leftover, tr.Kind(tr.Root()))
	assert.True(t, tr.IsEmpty())
	assert.Equal(t, geometry.Rect{Width: 100, Height: 100}, tr.Rect(tr.Root()))
}

func TestInsert_ExactFitYieldsSingleItem(t *testing.T) {
	tr := NewTree(100, 100)
	pid := 0
	bp := Leaf(100, 100, &pid)

	updates, err := tr.Insert(tr.Handle(tr.Root()), bp)
	require.NoError(t, err)
	assert.Equal(t, Item, tr.Kind(tr.Root()))
	assert.False(t, tr.IsEmpty())
	assert.Len(t, updates.Added, 0)
	assert.Equal(t, []NodeID{tr.Root()}, updates.Removed)
}

func TestInsert_TwoCutGuillotine(t *testing.T) {
	tr := NewTree(100, 100)
	root := tr.Root()
	pid1 := 0
	// Cut vertically into a 60-wide item column and a 40-wide leftover.
	item := Leaf(60, 100, &pid1)
	rest := Leaf(40, 100, nil)
	bp := Branch(100, 100, geometry.Vertical, item, rest)

	_, err := tr.Insert(tr.Handle(root), bp)
	require.NoError(t, err)

	assert.Equal(t, Structure, tr.Kind(root))
	assert.Equal(t, geometry.Vertical, tr.Orientation(root))
	children := tr.Children(root)
	require.Len(t, children, 2)
	assert.Equal(t, Item, tr.Kind(children[0]))
	assert.Equal(t, Leftover, tr.Kind(children[1]))

	// Place the second part exactly into the remaining leftover.
	pid2 := 1
	leftoverID := children[1]
	_, err = tr.Insert(tr.Handle(leftoverID), Leaf(40, 100, &pid2))
	require.NoError(t, err)
	assert.True(t, !tr.IsEmpty())
	assert.False(t, tr.IsEmpty())
}

func TestRemove_SimplifiesAndNeverCollapsesRoot(t *testing.T) {
	tr := NewTree(100, 100)
	root := tr.Root()
	pid := 0
	item := Leaf(60, 100, &pid)
	rest := Leaf(40, 100, nil)
	_, err := tr.Insert(tr.Handle(root), Branch(100, 100, geometry.Vertical, item, rest))
	require.NoError(t, err)

	itemID := tr.Children(root)[0]
	released, _, err := tr.Remove(itemID)
	require.NoError(t, err)
	assert.Equal(t, pid, released)

	// All children were Leftover, so the Structure collapsed back into the
	// root Leftover — but the root itself is still present (not freed).
	assert.Equal(t, Leftover, tr.Kind(root))
	assert.True(t, tr.IsEmpty())
	assert.Equal(t, geometry.Rect{Width: 100, Height: 100}, tr.Rect(root))
}

func TestRemove_MergesAdjacentLeftoverSiblings(t *testing.T) {
	tr := NewTree(100, 100)
	root := tr.Root()
	pidA, pidB := 0, 1
	a := Leaf(30, 100, &pidA)
	b := Leaf(30, 100, &pidB)
	c := Leaf(40, 100, nil)
	_, err := tr.Insert(tr.Handle(root), Branch(100, 100, geometry.Vertical, a, b, c))
	require.NoError(t, err)

	children := tr.Children(root)
	require.Len(t, children, 3)

	// Removing both items leaves three Leftover siblings that must merge.
	_, _, err = tr.Remove(children[0])
	require.NoError(t, err)
	_, _, err = tr.Remove(children[1])
	require.NoError(t, err)

	assert.Equal(t, Leftover, tr.Kind(root))
	assert.Equal(t, geometry.Rect{Width: 100, Height: 100}, tr.Rect(root))
}

func TestInsert_StaleHandleRejected(t *testing.T) {
	tr := NewTree(100, 100)
	stale := tr.Handle(tr.Root())
	pid := 0
	_, err := tr.Insert(stale, Leaf(100, 100, &pid))
	require.NoError(t, err)

	// stale now refers to a freed slot; re-using it must fail.
	_, err = tr.Insert(stale, Leaf(100, 100, &pid))
	assert.Error(t, err)
}

func TestDeepCopy_IsIndependent(t *testing.T) {
	tr := NewTree(100, 100)
	root := tr.Root()
	pid := 0
	item := Leaf(60, 100, &pid)
	rest := Leaf(40, 100, nil)
	_, err := tr.Insert(tr.Handle(root), Branch(100, 100, geometry.Vertical, item, rest))
	require.NoError(t, err)

	cp := tr.DeepCopy()
	require.False(t, cp.IsEmpty())

	// Mutating the copy must not affect the original.
	itemID := cp.Children(cp.Root())[0]
	_, _, err = cp.Remove(itemID)
	require.NoError(t, err)
	assert.True(t, cp.IsEmpty())
	assert.False(t, tr.IsEmpty())
}

func TestToBlueprint_RoundTrips(t *testing.T) {
	tr := NewTree(100, 100)
	root := tr.Root()
	pid := 0
	item := Leaf(60, 100, &pid)
	rest := Leaf(40, 100, nil)
	_, err := tr.Insert(tr.Handle(root), Branch(100, 100, geometry.Vertical, item, rest))
	require.NoError(t, err)

	bp := tr.ToBlueprint(tr.Root())
	assert.Equal(t, int64(100), bp.Width)
	assert.Equal(t, int64(100), bp.Height)
	require.Len(t, bp.Children, 2)
	assert.Equal(t, pid, *bp.Children[0].PartTypeID)
	assert.Nil(t, bp.Children[1].PartTypeID)
}
