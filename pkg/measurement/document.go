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
	"log/slog"
	"maps"
	"slices"

	"github.com/dismine/valentina-sub004/pkg/defaults"
	cnserrors "github.com/dismine/valentina-sub004/pkg/errors"
	"github.com/dismine/valentina-sub004/pkg/units"
	"github.com/dismine/valentina-sub004/pkg/version"
)

// Document is an in-memory measurement file. The entry order is
// authoritative; entries are also indexed by name.
//
// A Document is not safe for concurrent mutation.
type Document struct {
	kind              Kind
	unit              units.Unit
	version           version.Version
	readOnly          bool
	fullCircumference bool
	notes             string
	personal          Personal
	pmSystem          string

	dimensions   []Dimension
	restrictions map[string]Restriction

	order  []string
	byName map[string]*Measurement
}

func newDocument(kind Kind, unit units.Unit) *Document {
	v := IndividualVersion
	if kind == KindMultisize {
		v = MultisizeVersion
	}
	return &Document{
		kind:         kind,
		unit:         unit,
		version:      v,
		pmSystem:     defaults.PatternMakingSystem,
		personal:     Personal{Gender: GenderUnknown},
		restrictions: make(map[string]Restriction),
		byName:       make(map[string]*Measurement),
	}
}

// NewIndividual creates an empty individual document.
func NewIndividual(unit units.Unit) (*Document, error) {
	if !unit.IsValid() {
		return nil, cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest, "unsupported unit",
			map[string]any{"unit": unit.String(), "supported": units.Supported()})
	}
	d := newDocument(KindIndividual, unit)
	d.personal = Personal{BirthDate: defaults.BirthDate, Gender: GenderUnknown}
	return d, nil
}

// NewMultisize creates an empty multisize document with the given
// dimensions. X is required and at most three dimensions are allowed.
func NewMultisize(unit units.Unit, dims ...Dimension) (*Document, error) {
	if !unit.IsValid() {
		return nil, cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest, "unsupported unit",
			map[string]any{"unit": unit.String(), "supported": units.Supported()})
	}
	d := newDocument(KindMultisize, unit)
	if err := d.setDimensions(dims); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Document) setDimensions(dims []Dimension) error {
	if len(dims) == 0 || len(dims) > 3 {
		return cnserrors.New(cnserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("a multisize document needs 1 to 3 dimensions, got %d", len(dims)))
	}
	seen := map[DimensionType]bool{}
	out := make([]Dimension, 0, len(dims))
	for _, dim := range dims {
		if err := dim.Validate(); err != nil {
			return cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "invalid dimension", err)
		}
		if seen[dim.Type] {
			return cnserrors.New(cnserrors.ErrCodeInvalidRequest,
				fmt.Sprintf("duplicate dimension %s", dim.Type))
		}
		seen[dim.Type] = true
		out = append(out, dim.Clone())
	}
	if !seen[DimensionX] {
		return cnserrors.New(cnserrors.ErrCodeInvalidRequest, "a multisize document requires dimension X")
	}
	slices.SortFunc(out, func(a, b Dimension) int {
		return slices.Index(DimensionTypes, a.Type) - slices.Index(DimensionTypes, b.Type)
	})
	d.dimensions = out
	return nil
}

// Kind returns the document kind.
func (d *Document) Kind() Kind { return d.kind }

// Unit returns the unit values are stored in.
func (d *Document) Unit() units.Unit { return d.unit }

// Version returns the format version of the document.
func (d *Document) Version() version.Version { return d.version }

// ReadOnly reports whether mutations are disabled.
func (d *Document) ReadOnly() bool { return d.readOnly }

// FullCircumference reports whether circumference dimensions hold full
// rather than half values.
func (d *Document) FullCircumference() bool { return d.fullCircumference }

// Notes returns the free-form notes.
func (d *Document) Notes() string { return d.notes }

// Personal returns the personal information of an individual document.
func (d *Document) Personal() Personal { return d.personal }

// PMSystem returns the pattern making system code.
func (d *Document) PMSystem() string { return d.pmSystem }

// Dimensions returns copies of the document dimensions ordered X, Y, W, Z.
func (d *Document) Dimensions() []Dimension {
	out := make([]Dimension, len(d.dimensions))
	for i, dim := range d.dimensions {
		out[i] = dim.Clone()
	}
	return out
}

// Dimension returns the dimension of the given type.
func (d *Document) Dimension(t DimensionType) (Dimension, bool) {
	i := d.dimensionIndex(t)
	if i < 0 {
		return Dimension{}, false
	}
	return d.dimensions[i].Clone(), true
}

func (d *Document) dimensionIndex(t DimensionType) int {
	return slices.IndexFunc(d.dimensions, func(dim Dimension) bool { return dim.Type == t })
}

// Restrictions returns a copy of the restriction map keyed by hash.
func (d *Document) Restrictions() map[string]Restriction {
	out := make(map[string]Restriction, len(d.restrictions))
	for k, r := range d.restrictions {
		out[k] = r.Clone()
	}
	return out
}

// Restriction returns the restriction stored under hash.
func (d *Document) Restriction(hash string) (Restriction, bool) {
	r, ok := d.restrictions[hash]
	if !ok {
		return Restriction{}, false
	}
	return r.Clone(), true
}

// Len returns the number of entries, separators included.
func (d *Document) Len() int { return len(d.order) }

// Has reports whether an entry with the given name exists.
func (d *Document) Has(name string) bool {
	_, ok := d.byName[name]
	return ok
}

// Measurement returns a copy of the named entry.
func (d *Document) Measurement(name string) (Measurement, bool) {
	m, ok := d.byName[name]
	if !ok {
		return Measurement{}, false
	}
	return m.Clone(), true
}

// Measurements returns copies of all entries in document order.
func (d *Document) Measurements() []Measurement {
	out := make([]Measurement, 0, len(d.order))
	for _, n := range d.order {
		out = append(out, d.byName[n].Clone())
	}
	return out
}

// Index returns the position of the named entry or -1.
func (d *Document) Index(name string) int {
	return slices.Index(d.order, name)
}

// ListAll returns the names of all measurements in document order.
// Separators are skipped.
func (d *Document) ListAll() []string {
	out := make([]string, 0, len(d.order))
	for _, n := range d.order {
		if !d.byName[n].IsSeparator() {
			out = append(out, n)
		}
	}
	return out
}

// ListKnown returns the names of all non-custom measurements in document order.
func (d *Document) ListKnown() []string {
	out := make([]string, 0, len(d.order))
	for _, n := range d.order {
		m := d.byName[n]
		if !m.IsSeparator() && !m.IsCustom() {
			out = append(out, n)
		}
	}
	return out
}

// IsDefinedKnownNamesValid reports whether every non-custom measurement
// name belongs to the known catalog.
func (d *Document) IsDefinedKnownNamesValid() bool {
	for _, n := range d.ListKnown() {
		if !IsKnownName(n) {
			return false
		}
	}
	return true
}

// Clone returns an independent deep copy of the document.
func (d *Document) Clone() *Document {
	out := *d
	out.dimensions = d.Dimensions()
	out.restrictions = d.Restrictions()
	out.order = slices.Clone(d.order)
	out.byName = make(map[string]*Measurement, len(d.byName))
	for n, m := range d.byName {
		c := m.Clone()
		out.byName[n] = &c
	}
	return &out
}

// notFound logs and returns a MEASUREMENT_NOT_FOUND error.
func notFound(op, name string) error {
	slog.Warn("measurement not found", "op", op, "name", name)
	return cnserrors.NewWithContext(cnserrors.ErrCodeMeasurementNotFound,
		fmt.Sprintf("measurement %q not found", name), map[string]any{"op": op, "name": name})
}

// locked reports whether the document refuses mutation and logs the attempt.
func (d *Document) locked(op string) bool {
	if d.readOnly {
		slog.Debug("ignoring mutation of read-only document", "op", op)
	}
	return d.readOnly
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
