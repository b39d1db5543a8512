// Package instance holds the immutable Instance the whole solver shares
// read-only (spec.md §3) plus its JSON codec (spec.md §6).
package instance

import (
	"math"
	"strconv"
	"strings"

	pkgerrors "github.com/g2dcsp/solver/pkg/errors"
)

// Unlimited marks a SheetType with unbounded stock (JSON `stock` absent).
const Unlimited int64 = math.MaxInt64

// PartType is one demanded rectangular part (spec.md §3).
type PartType struct {
	ID              int
	Width           int64
	Height          int64
	Demand          int
	RotationAllowed bool // mirrors Config.RotationAllowed at instance-build time
}

// Rotations returns the set of admissible (width,height) pairs for this
// part type: just (Width,Height) if rotation is disallowed or the part is
// square, or both orientations otherwise (spec.md §3 `allowed_rotations ⊆ {0°,90°}`).
func (p PartType) Rotations() []Orientation {
	base := Orientation{Width: p.Width, Height: p.Height, Rotated: false}
	if !p.RotationAllowed || p.Width == p.Height {
		return []Orientation{base}
	}
	return []Orientation{base, {Width: p.Height, Height: p.Width, Rotated: true}}
}

// Orientation is one admissible placed size of a part type.
type Orientation struct {
	Width   int64
	Height  int64
	Rotated bool
}

// Area returns width*height.
func (p PartType) Area() int64 { return p.Width * p.Height }

// SheetType is one available raw-material sheet (spec.md §3).
type SheetType struct {
	ID       int
	Width    int64
	Height   int64
	UnitCost int64
	Stock    int64 // Unlimited if unbounded
}

// Area returns width*height.
func (s SheetType) Area() int64 { return s.Width * s.Height }

// Instance is the immutable, shared problem description (spec.md §3).
// Id values are dense 0..|set| in both slices.
type Instance struct {
	Name       string
	PartTypes  []PartType
	SheetTypes []SheetType
}

// Demand returns the demand of part type id.
func (inst *Instance) Demand(id int) int { return inst.PartTypes[id].Demand }

// Stock returns the stock of sheet type id (Unlimited if unbounded).
func (inst *Instance) Stock(id int) int64 { return inst.SheetTypes[id].Stock }

// TotalPartArea returns Σ demand(p) * area(p) over all part types — the
// denominator of Cost.PartAreaFractionIncluded (spec.md §4.A).
func (inst *Instance) TotalPartArea() int64 {
	var total int64
	for _, p := range inst.PartTypes {
		total += int64(p.Demand) * p.Area()
	}
	return total
}

// InfeasiblePartTypes returns the ids of part types that do not fit (in any
// admissible rotation) within any sheet type — spec.md §7 "Instance
// infeasible" and §8 "A part larger than every sheet... no blueprint ever
// exists for it".
func (inst *Instance) InfeasiblePartTypes() []int {
	var infeasible []int
	for _, p := range inst.PartTypes {
		if p.Demand == 0 {
			continue
		}
		fits := false
		for _, o := range p.Rotations() {
			for _, s := range inst.SheetTypes {
				if o.Width <= s.Width && o.Height <= s.Height {
					fits = true
					break
				}
			}
			if fits {
				break
			}
		}
		if !fits {
			infeasible = append(infeasible, p.ID)
		}
	}
	return infeasible
}

// Validate checks the structural invariants a malformed or infeasible
// Instance would violate (spec.md §7): no zero or negative dimensions, and every
// demanded part type fits somewhere.
func (inst *Instance) Validate() error {
	for _, p := range inst.PartTypes {
		if p.Width <= 0 || p.Height <= 0 {
			return pkgerrors.New(pkgerrors.CodeInputMalformed, "part type has non-positive dimension")
		}
		if p.Demand < 0 {
			return pkgerrors.New(pkgerrors.CodeInputMalformed, "part type has negative demand")
		}
	}
	for _, s := range inst.SheetTypes {
		if s.Width <= 0 || s.Height <= 0 {
			return pkgerrors.New(pkgerrors.CodeInputMalformed, "sheet type has non-positive dimension")
		}
		if s.UnitCost < 0 {
			return pkgerrors.New(pkgerrors.CodeInputMalformed, "sheet type has negative cost")
		}
	}
	if infeasible := inst.InfeasiblePartTypes(); len(infeasible) > 0 {
		return pkgerrors.Wrap(pkgerrors.CodeInstanceInfeasible, "part type(s) too large for every sheet type", partTypeIDsErr(infeasible))
	}
	return nil
}

type partTypeIDsErr []int

func (e partTypeIDsErr) Error() string {
	ids := make([]string, len(e))
	for i, id := range e {
		ids[i] = strconv.Itoa(id)
	}
	return "part type ids: " + strings.Join(ids, ",")
}
