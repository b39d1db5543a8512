package instance

import (
	"encoding/json"
	"io"

	pkgerrors "github.com/g2dcsp/solver/pkg/errors"
)

// JSONPartType mirrors one parttypes[] entry of the Instance JSON (spec.md §6).
type JSONPartType struct {
	Length    int64 `json:"length"`
	Height    int64 `json:"height"`
	Demand    int   `json:"demand"`
	Reference *int  `json:"reference,omitempty"`
}

// JSONSheetType mirrors one sheettypes[] entry of the Instance JSON (spec.md §6).
type JSONSheetType struct {
	Length    int64  `json:"length"`
	Height    int64  `json:"height"`
	Cost      int64  `json:"cost"`
	Stock     *int64 `json:"stock,omitempty"`
	Reference *int   `json:"reference,omitempty"`
}

// JSONInstance is the wire format read from the instance file (spec.md §6).
// Reference is populated by Load with the dense 0-based id assigned to each
// entry, so the same struct doubles as the echo used by the Solution JSON's
// top-level sheettypes/parttypes fields.
type JSONInstance struct {
	Name       string          `json:"name"`
	PartTypes  []JSONPartType  `json:"parttypes"`
	SheetTypes []JSONSheetType `json:"sheettypes"`
}

// Load reads and decodes an Instance JSON document, stamping Reference
// fields and building the immutable Instance (spec.md §6 "reference is
// assigned by the loader as the dense 0-based id").
func Load(r io.Reader, rotationAllowed bool) (*Instance, *JSONInstance, error) {
	var ji JSONInstance
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ji); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInputMalformed, "failed to decode instance JSON", err)
	}

	inst := &Instance{Name: ji.Name}
	for i := range ji.PartTypes {
		jp := &ji.PartTypes[i]
		id := i
		jp.Reference = &id
		inst.PartTypes = append(inst.PartTypes, PartType{
			ID:              id,
			Width:           jp.Length,
			Height:          jp.Height,
			Demand:          jp.Demand,
			RotationAllowed: rotationAllowed,
		})
	}
	for i := range ji.SheetTypes {
		js := &ji.SheetTypes[i]
		id := i
		js.Reference = &id
		stock := Unlimited
		if js.Stock != nil {
			stock = *js.Stock
		}
		inst.SheetTypes = append(inst.SheetTypes, SheetType{
			ID:       id,
			Width:    js.Length,
			Height:   js.Height,
			UnitCost: js.Cost,
			Stock:    stock,
		})
	}

	if err := inst.Validate(); err != nil {
		return nil, nil, err
	}
	return inst, &ji, nil
}
