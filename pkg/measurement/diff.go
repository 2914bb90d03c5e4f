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
	"reflect"
	"strconv"
)

// Change is a single difference between two documents. Path identifies the
// changed item, e.g. "m/hip_circ/base" or "dimension/X/max".
type Change struct {
	Path string `json:"path" yaml:"path"`
	Old  any    `json:"old,omitempty" yaml:"old,omitempty"`
	New  any    `json:"new,omitempty" yaml:"new,omitempty"`
}

func (c Change) String() string {
	return fmt.Sprintf("%s: %v -> %v", c.Path, c.Old, c.New)
}

// Compare returns the differences between a and b. An empty result means the
// documents are equivalent.
func Compare(a, b *Document) []Change {
	var changes []Change
	add := func(path string, old, new any) {
		if !reflect.DeepEqual(old, new) {
			changes = append(changes, Change{Path: path, Old: old, New: new})
		}
	}

	add("kind", a.kind.String(), b.kind.String())
	add("unit", a.unit.String(), b.unit.String())
	add("version", a.version.String(), b.version.String())
	add("read-only", a.readOnly, b.readOnly)
	add("notes", a.notes, b.notes)
	add("pm_system", a.pmSystem, b.pmSystem)
	add("personal", a.personal, b.personal)
	add("fullCircumference", a.fullCircumference, b.fullCircumference)

	dims := map[DimensionType][2]*Dimension{}
	for i := range a.dimensions {
		p := dims[a.dimensions[i].Type]
		p[0] = &a.dimensions[i]
		dims[a.dimensions[i].Type] = p
	}
	for i := range b.dimensions {
		p := dims[b.dimensions[i].Type]
		p[1] = &b.dimensions[i]
		dims[b.dimensions[i].Type] = p
	}
	for _, t := range DimensionTypes {
		p, ok := dims[t]
		if !ok {
			continue
		}
		path := "dimension/" + string(t)
		if p[0] == nil || p[1] == nil {
			add(path, p[0] != nil, p[1] != nil)
			continue
		}
		x, y := p[0], p[1]
		add(path+"/min", x.Min, y.Min)
		add(path+"/max", x.Max, y.Max)
		add(path+"/step", x.Step, y.Step)
		add(path+"/base", x.Base, y.Base)
		add(path+"/measurement", x.IsBodyMeasurement(), y.IsBodyMeasurement())
		add(path+"/customName", x.CustomName, y.CustomName)
		add(path+"/labels", nonNil(x.Labels), nonNil(y.Labels))
	}

	for _, hash := range unionKeys(a.restrictions, b.restrictions) {
		x, okA := a.restrictions[hash]
		y, okB := b.restrictions[hash]
		path := "restriction/" + hash
		if !okA || !okB {
			add(path, okA, okB)
			continue
		}
		add(path+"/min", x.Min, y.Min)
		add(path+"/max", x.Max, y.Max)
		add(path+"/exclude", x.Excluded(), y.Excluded())
	}

	for _, name := range unionKeys(a.byName, b.byName) {
		x, okA := a.byName[name]
		y, okB := b.byName[name]
		path := "m/" + name
		if !okA || !okB {
			add(path, okA, okB)
			continue
		}
		add(path+"/index", strconv.Itoa(a.Index(name)), strconv.Itoa(b.Index(name)))
		add(path+"/type", x.Type, y.Type)
		add(path+"/value", x.Formula, y.Formula)
		add(path+"/base", x.Base, y.Base)
		add(path+"/shiftA", x.ShiftA, y.ShiftA)
		add(path+"/shiftB", x.ShiftB, y.ShiftB)
		add(path+"/shiftC", x.ShiftC, y.ShiftC)
		add(path+"/corrections", nonNil(x.Corrections), nonNil(y.Corrections))
		add(path+"/specialUnits", x.SpecialUnits, y.SpecialUnits)
		add(path+"/dimension", x.Dimension, y.Dimension)
		add(path+"/full_name", x.FullName, y.FullName)
		add(path+"/description", x.Description, y.Description)
	}
	return changes
}

// nonNil treats nil and empty maps as equal.
func nonNil[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return map[K]V{}
	}
	return m
}

func unionKeys[V, W any](a map[string]V, b map[string]W) []string {
	all := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		all[k] = struct{}{}
	}
	for k := range b {
		all[k] = struct{}{}
	}
	return sortedKeys(all)
}
