package problem

import (
	"fmt"

	"github.com/g2dcsp/solver/pkg/geometry"
	"github.com/g2dcsp/solver/pkg/layout"
)

func errNoSuchLayout(id int) error {
	return fmt.Errorf("problem: no such layout id %d", id)
}

// LayoutSnapshot is one Layout's detached tree, owned independently of the
// Problem that produced it (spec.md §3 "SendableSolution").
type LayoutSnapshot struct {
	SheetTypeID int
	Root        *layout.NodeBlueprint
}

// Solution is a detached, owning snapshot of a Problem — complete if no
// part demand remains, incomplete otherwise (spec.md §3). It is safe to
// move across goroutines (the "SendableSolution" of spec.md §3) since it
// shares no arena storage with any live Problem.
type Solution struct {
	InstanceName string
	Cost         geometry.Cost
	Complete     bool
	Layouts      []LayoutSnapshot
}
