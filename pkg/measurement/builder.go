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
	"errors"

	"github.com/dismine/valentina-sub004/pkg/units"
)

// Builder provides a fluent API for assembling documents. The first error
// stops further steps and is returned by Build.
type Builder struct {
	doc *Document
	err error
}

// NewIndividualBuilder starts an individual document.
func NewIndividualBuilder(unit units.Unit) *Builder {
	d, err := NewIndividual(unit)
	return &Builder{doc: d, err: err}
}

// NewMultisizeBuilder starts a multisize document with the given dimensions.
func NewMultisizeBuilder(unit units.Unit, dims ...Dimension) *Builder {
	d, err := NewMultisize(unit, dims...)
	return &Builder{doc: d, err: err}
}

func (b *Builder) apply(fn func(d *Document) error) *Builder {
	if b.err == nil {
		b.err = fn(b.doc)
	}
	return b
}

// Measurement appends a measurement. For multisize documents value is the base.
func (b *Builder) Measurement(name, value string) *Builder {
	return b.apply(func(d *Document) error { return d.AddMeasurement(name, value) })
}

// Separator appends a separator.
func (b *Builder) Separator(name string) *Builder {
	return b.apply(func(d *Document) error { return d.AddSeparator(name) })
}

// Shifts sets the per-dimension increments of a multisize measurement.
func (b *Builder) Shifts(name string, a, bShift, c float64) *Builder {
	return b.apply(func(d *Document) error {
		return errors.Join(d.SetShiftA(name, a), d.SetShiftB(name, bShift), d.SetShiftC(name, c))
	})
}

// Correction sets a correction of a multisize measurement.
func (b *Builder) Correction(name string, a, bVal, c, value float64) *Builder {
	return b.apply(func(d *Document) error { return d.SetCorrection(name, a, bVal, c, value) })
}

// Describe sets the full name and description of a measurement.
func (b *Builder) Describe(name, fullName, description string) *Builder {
	return b.apply(func(d *Document) error {
		return errors.Join(d.SetFullName(name, fullName), d.SetDescription(name, description))
	})
}

// Restriction sets the restriction for the given prior dimension values.
func (b *Builder) Restriction(r Restriction, prior ...float64) *Builder {
	return b.apply(func(d *Document) error {
		rs := d.Restrictions()
		rs[RestrictionHash(prior...)] = r
		d.SetRestrictions(rs)
		return nil
	})
}

// Personal sets the personal information.
func (b *Builder) Personal(p Personal) *Builder {
	return b.apply(func(d *Document) error {
		d.SetPersonal(p)
		return nil
	})
}

// Notes sets the document notes.
func (b *Builder) Notes(notes string) *Builder {
	return b.apply(func(d *Document) error {
		d.SetNotes(notes)
		return nil
	})
}

// ReadOnly marks the document read-only. Later steps become no-ops.
func (b *Builder) ReadOnly() *Builder {
	return b.apply(func(d *Document) error {
		d.SetReadOnly(true)
		return nil
	})
}

// Build returns the document or the first error encountered.
func (b *Builder) Build() (*Document, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.doc, nil
}
