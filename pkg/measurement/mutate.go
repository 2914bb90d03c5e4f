// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package measurement

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	cnserrors "github.com/dismine/valentina-sub004/pkg/errors"
)

const defaultFormula = "0"

func (d *Document) checkNewName(name string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(name) != name {
		return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest, "invalid measurement name",
			map[string]any{"name": name})
	}
	if d.Has(name) {
		return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("measurement %q already exists", name), map[string]any{"name": name})
	}
	return nil
}

func (d *Document) newMeasurement(name, formula string) (Measurement, error) {
	if formula == "" {
		formula = defaultFormula
	}
	m := Measurement{Name: name, Type: TypeMeasurement}
	if d.kind == KindMultisize {
		v, err := strconv.ParseFloat(strings.TrimSpace(formula), 64)
		if err != nil {
			return m, cnserrors.WrapWithContext(cnserrors.ErrCodeInvalidRequest,
				"multisize base value must be a number", err, map[string]any{"name": name, "value": formula})
		}
		m.Base = v
		return m, nil
	}
	m.Formula = formula
	m.Dimension = DimensionNone
	return m, nil
}

// insert places m at position at of the entry order.
func (d *Document) insert(at int, m Measurement) {
	d.byName[m.Name] = &m
	d.order = slices.Insert(d.order, at, m.Name)
}

// AddMeasurement appends a measurement. For multisize documents formula is
// the base value. An empty formula means "0".
func (d *Document) AddMeasurement(name, formula string) error {
	if d.locked("AddMeasurement") {
		return nil
	}
	if err := d.checkNewName(name); err != nil {
		return err
	}
	m, err := d.newMeasurement(name, formula)
	if err != nil {
		return err
	}
	d.insert(len(d.order), m)
	return nil
}

// AddMeasurementAfter inserts a measurement right after sibling.
func (d *Document) AddMeasurementAfter(sibling, name, formula string) error {
	if d.locked("AddMeasurementAfter") {
		return nil
	}
	i := d.Index(sibling)
	if i < 0 {
		return notFound("AddMeasurementAfter", sibling)
	}
	if err := d.checkNewName(name); err != nil {
		return err
	}
	m, err := d.newMeasurement(name, formula)
	if err != nil {
		return err
	}
	d.insert(i+1, m)
	return nil
}

// AddSeparator appends a separator.
func (d *Document) AddSeparator(name string) error {
	if d.locked("AddSeparator") {
		return nil
	}
	if err := d.checkNewName(name); err != nil {
		return err
	}
	d.insert(len(d.order), Measurement{Name: name, Type: TypeSeparator})
	return nil
}

// AddSeparatorAfter inserts a separator right after sibling.
func (d *Document) AddSeparatorAfter(sibling, name string) error {
	if d.locked("AddSeparatorAfter") {
		return nil
	}
	i := d.Index(sibling)
	if i < 0 {
		return notFound("AddSeparatorAfter", sibling)
	}
	if err := d.checkNewName(name); err != nil {
		return err
	}
	d.insert(i+1, Measurement{Name: name, Type: TypeSeparator})
	return nil
}

// Remove deletes the named entry.
func (d *Document) Remove(name string) error {
	if d.locked("Remove") {
		return nil
	}
	i := d.Index(name)
	if i < 0 {
		return notFound("Remove", name)
	}
	d.order = slices.Delete(d.order, i, i+1)
	delete(d.byName, name)
	return nil
}

func (d *Document) move(op, name string, target func(i, n int) int) error {
	if d.locked(op) {
		return nil
	}
	i := d.Index(name)
	if i < 0 {
		return notFound(op, name)
	}
	j := target(i, len(d.order))
	if j == i {
		return nil
	}
	d.order = slices.Delete(d.order, i, i+1)
	d.order = slices.Insert(d.order, j, name)
	return nil
}

// MoveTop moves the named entry to the first position.
func (d *Document) MoveTop(name string) error {
	return d.move("MoveTop", name, func(int, int) int { return 0 })
}

// MoveUp moves the named entry one position up.
func (d *Document) MoveUp(name string) error {
	return d.move("MoveUp", name, func(i, _ int) int { return max(i-1, 0) })
}

// MoveDown moves the named entry one position down.
func (d *Document) MoveDown(name string) error {
	return d.move("MoveDown", name, func(i, n int) int { return min(i+1, n-1) })
}

// MoveBottom moves the named entry to the last position.
func (d *Document) MoveBottom(name string) error {
	return d.move("MoveBottom", name, func(_, n int) int { return n - 1 })
}

// update applies fn to the named entry.
func (d *Document) update(op, name string, fn func(m *Measurement)) error {
	if d.locked(op) {
		return nil
	}
	m, ok := d.byName[name]
	if !ok {
		return notFound(op, name)
	}
	fn(m)
	return nil
}

// updateGraded applies fn to the named multisize measurement. Separators and
// individual documents carry no grading data.
func (d *Document) updateGraded(op, name string, fn func(m *Measurement)) error {
	if d.locked(op) {
		return nil
	}
	m, ok := d.byName[name]
	if !ok {
		return notFound(op, name)
	}
	if d.kind != KindMultisize || m.IsSeparator() {
		return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("%s needs a multisize measurement", op),
			map[string]any{"op": op, "name": name, "kind": string(d.kind)})
	}
	fn(m)
	return nil
}

// SetValue sets the formula of an individual measurement.
func (d *Document) SetValue(name, formula string) error {
	return d.update("SetValue", name, func(m *Measurement) { m.Formula = formula })
}

// SetBaseValue sets the base value of a multisize measurement.
func (d *Document) SetBaseValue(name string, v float64) error {
	return d.updateGraded("SetBaseValue", name, func(m *Measurement) { m.Base = v })
}

// SetShiftA sets the per-step shift along the first dimension.
func (d *Document) SetShiftA(name string, v float64) error {
	return d.updateGraded("SetShiftA", name, func(m *Measurement) { m.ShiftA = v })
}

// SetShiftB sets the per-step shift along the second dimension.
func (d *Document) SetShiftB(name string, v float64) error {
	return d.updateGraded("SetShiftB", name, func(m *Measurement) { m.ShiftB = v })
}

// SetShiftC sets the per-step shift along the third dimension.
func (d *Document) SetShiftC(name string, v float64) error {
	return d.updateGraded("SetShiftC", name, func(m *Measurement) { m.ShiftC = v })
}

// SetCorrection stores the correction of the measurement at the given
// dimension values. A zero value removes the entry.
func (d *Document) SetCorrection(name string, a, b, c, value float64) error {
	return d.updateGraded("SetCorrection", name, func(m *Measurement) {
		hash := CorrectionHash(a, b, c)
		if value == 0 {
			delete(m.Corrections, hash)
			if len(m.Corrections) == 0 {
				m.Corrections = nil
			}
			return
		}
		if m.Corrections == nil {
			m.Corrections = make(map[string]float64)
		}
		m.Corrections[hash] = value
	})
}

// SetCorrections replaces all corrections of the measurement. Zero deltas
// are dropped.
func (d *Document) SetCorrections(name string, corrections map[string]float64) error {
	return d.updateGraded("SetCorrections", name, func(m *Measurement) {
		m.Corrections = nil
		for k, v := range corrections {
			if v == 0 {
				continue
			}
			if m.Corrections == nil {
				m.Corrections = make(map[string]float64, len(corrections))
			}
			m.Corrections[k] = v
		}
	})
}

// SetDescription sets the description of the named entry.
func (d *Document) SetDescription(name, text string) error {
	return d.update("SetDescription", name, func(m *Measurement) { m.Description = text })
}

// SetFullName sets the human readable name of the named entry.
func (d *Document) SetFullName(name, text string) error {
	return d.update("SetFullName", name, func(m *Measurement) { m.FullName = text })
}

// SetDimensionTag marks the sizing axis an individual measurement defines.
func (d *Document) SetDimensionTag(name string, t DimensionType) error {
	return d.update("SetDimensionTag", name, func(m *Measurement) { m.Dimension = t })
}

// SetSpecialUnits marks a measurement whose value is never unit converted.
func (d *Document) SetSpecialUnits(name string, special bool) error {
	return d.update("SetSpecialUnits", name, func(m *Measurement) { m.SpecialUnits = special })
}

// Rename changes the name of an entry. References to the old name inside
// individual formulas are updated as well.
func (d *Document) Rename(oldName, newName string) error {
	if d.locked("Rename") {
		return nil
	}
	i := d.Index(oldName)
	if i < 0 {
		return notFound("Rename", oldName)
	}
	if oldName == newName {
		return nil
	}
	if err := d.checkNewName(newName); err != nil {
		return err
	}
	m := d.byName[oldName]
	delete(d.byName, oldName)
	m.Name = newName
	d.byName[newName] = m
	d.order[i] = newName

	renames := map[string]string{oldName: newName}
	for _, other := range d.byName {
		if other.Formula != "" {
			other.Formula = RenameInFormula(other.Formula, renames)
		}
	}
	return nil
}

// SetReadOnly sets the read-only flag. It is the only mutator that works on
// a read-only document.
func (d *Document) SetReadOnly(ro bool) {
	d.readOnly = ro
}

// SetFullCircumference sets whether circumference dimensions hold full values.
func (d *Document) SetFullCircumference(full bool) {
	if d.locked("SetFullCircumference") {
		return
	}
	d.fullCircumference = full
}

// SetRestrictions replaces all restrictions.
func (d *Document) SetRestrictions(rs map[string]Restriction) {
	if d.locked("SetRestrictions") {
		return
	}
	d.restrictions = make(map[string]Restriction, len(rs))
	for k, r := range rs {
		d.restrictions[k] = r.Clone()
	}
}

// SetNotes sets the free-form notes.
func (d *Document) SetNotes(notes string) {
	if d.locked("SetNotes") {
		return
	}
	d.notes = notes
}

// SetPMSystem sets the pattern making system code.
func (d *Document) SetPMSystem(code string) {
	if d.locked("SetPMSystem") {
		return
	}
	d.pmSystem = code
}

// SetPersonal replaces the personal information.
func (d *Document) SetPersonal(p Personal) {
	if d.locked("SetPersonal") {
		return
	}
	if p.Gender == "" {
		p.Gender = GenderUnknown
	}
	d.personal = p
}

func (d *Document) updateDimension(op string, t DimensionType, fn func(dim *Dimension) error) error {
	if d.locked(op) {
		return nil
	}
	i := d.dimensionIndex(t)
	if i < 0 {
		return cnserrors.NewWithContext(cnserrors.ErrCodeNotFound,
			fmt.Sprintf("dimension %s not found", t), map[string]any{"op": op, "dimension": string(t)})
	}
	dim := d.dimensions[i].Clone()
	if err := fn(&dim); err != nil {
		return err
	}
	d.dimensions[i] = dim
	return nil
}

// SetDimensionBase sets the base value of a dimension. The value must be one
// of the dimension's stepped values.
func (d *Document) SetDimensionBase(t DimensionType, base float64) error {
	return d.updateDimension("SetDimensionBase", t, func(dim *Dimension) error {
		if !dim.IsStepValue(base) {
			return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
				fmt.Sprintf("%v is not a valid value of dimension %s", base, t),
				map[string]any{"dimension": string(t), "value": base})
		}
		dim.Base = base
		return nil
	})
}

// SetDimensionCustomName sets the display name of a dimension.
func (d *Document) SetDimensionCustomName(t DimensionType, name string) error {
	return d.updateDimension("SetDimensionCustomName", t, func(dim *Dimension) error {
		dim.CustomName = name
		return nil
	})
}

// SetDimensionLabels replaces the value labels of a dimension.
func (d *Document) SetDimensionLabels(t DimensionType, labels map[float64]string) error {
	return d.updateDimension("SetDimensionLabels", t, func(dim *Dimension) error {
		dim.Labels = maps.Clone(labels)
		return nil
	})
}

// SetDimensionBodyMeasurement sets whether a dimension is a body measurement.
func (d *Document) SetDimensionBodyMeasurement(t DimensionType, body bool) error {
	return d.updateDimension("SetDimensionBodyMeasurement", t, func(dim *Dimension) error {
		dim.Derived = !body
		return nil
	})
}
