// Package solution converts a solved problem.Solution into the Solution
// JSON document external tools consume (spec.md §6), and writes it out
// through pkg/writer's generic JSON encoder.
package solution

import (
	"github.com/g2dcsp/solver/pkg/instance"
	"github.com/g2dcsp/solver/pkg/layout"
	"github.com/g2dcsp/solver/pkg/problem"
)

// CPNodeType is the discriminant of a CPNode (spec.md §6).
type CPNodeType string

const (
	Structure CPNodeType = "Structure"
	Item      CPNodeType = "Item"
	Leftover  CPNodeType = "Leftover"
)

// CPNode is one node of a cutting pattern's tree (spec.md §6). Orientation
// is present iff NodeType is Structure; Item is present iff NodeType is
// Item.
type CPNode struct {
	Length      int64      `json:"length"`
	Height      int64      `json:"height"`
	Orientation *string    `json:"orientation,omitempty"`
	NodeType    CPNodeType `json:"node_type"`
	Item        *int       `json:"item,omitempty"`
	Children    []*CPNode  `json:"children"`
}

// CuttingPattern is one used Layout, as emitted in the solution's
// cutting_patterns array (spec.md §6).
type CuttingPattern struct {
	Object int     `json:"object"`
	Root   *CPNode `json:"root"`
}

// Statistics mirrors the solution's statistics block (spec.md §6).
type Statistics struct {
	UsagePct            float64 `json:"usage_pct"`
	PartAreaIncludedPct float64 `json:"part_area_included_pct"`
	NObjectsUsed        int     `json:"n_objects_used"`
	MaterialCost        int64   `json:"material_cost"`
	RunTimeMS           int64   `json:"run_time_ms"`
	ConfigPath          string  `json:"config_path"`
}

// JSONSolution is the document written to the CLI's output.json (spec.md §6).
type JSONSolution struct {
	Name            string                  `json:"name"`
	SheetTypes      []instance.JSONSheetType `json:"sheettypes"`
	PartTypes       []instance.JSONPartType  `json:"parttypes"`
	CuttingPatterns []CuttingPattern         `json:"cutting_patterns"`
	Statistics      Statistics               `json:"statistics"`
}

// Build assembles a JSONSolution from a solved Problem snapshot. echoInst
// carries the reference-stamped parttypes/sheettypes arrays read back from
// the input file (spec.md §6 "sheettypes, parttypes" echo); totalPartArea
// is instance.Instance.TotalPartArea(), needed to turn PartAreaExcluded
// into a percentage; configPath is the path the CLI was invoked with.
func Build(echoInst *instance.JSONInstance, sol *problem.Solution, totalPartArea int64, runTimeMS int64, configPath string) *JSONSolution {
	patterns := make([]CuttingPattern, 0, len(sol.Layouts))
	var usedSheetArea, itemArea int64
	for _, l := range sol.Layouts {
		patterns = append(patterns, CuttingPattern{
			Object: l.SheetTypeID,
			Root:   nodeFromBlueprint(l.Root),
		})
		usedSheetArea += l.Root.Width * l.Root.Height
		itemArea += sumItemArea(l.Root)
	}

	usagePct := 100.0
	if usedSheetArea > 0 {
		usagePct = float64(itemArea) / float64(usedSheetArea) * 100
	}

	return &JSONSolution{
		Name:            echoInst.Name,
		SheetTypes:      echoInst.SheetTypes,
		PartTypes:       echoInst.PartTypes,
		CuttingPatterns: patterns,
		Statistics: Statistics{
			UsagePct:            usagePct,
			PartAreaIncludedPct: sol.Cost.PartAreaFractionIncluded(totalPartArea) * 100,
			NObjectsUsed:        len(sol.Layouts),
			MaterialCost:        sol.Cost.MaterialCost,
			RunTimeMS:           runTimeMS,
			ConfigPath:          configPath,
		},
	}
}

func sumItemArea(b *layout.NodeBlueprint) int64 {
	if b.PartTypeID != nil {
		return b.Width * b.Height
	}
	var total int64
	for _, c := range b.Children {
		total += sumItemArea(c)
	}
	return total
}

func nodeFromBlueprint(b *layout.NodeBlueprint) *CPNode {
	kind := b.Kind()

	n := &CPNode{
		Length:   b.Width,
		Height:   b.Height,
		Children: make([]*CPNode, 0, len(b.Children)),
	}

	switch kind {
	case layout.Item:
		n.NodeType = Item
		id := *b.PartTypeID
		n.Item = &id
	case layout.Structure:
		n.NodeType = Structure
		orient := b.Orientation.String()
		n.Orientation = &orient
	default:
		n.NodeType = Leftover
	}

	for _, c := range b.Children {
		n.Children = append(n.Children, nodeFromBlueprint(c))
	}
	return n
}
