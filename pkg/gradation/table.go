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

package gradation

import (
	"strconv"
	"time"

	"github.com/dismine/valentina-sub004/pkg/measurement"
	"github.com/dismine/valentina-sub004/pkg/units"
)

// Value is the computed value of one measurement.
type Value struct {
	Name         string  `json:"name" yaml:"name"`
	FullName     string  `json:"fullName,omitempty" yaml:"fullName,omitempty"`
	Value        float64 `json:"value" yaml:"value"`
	OK           bool    `json:"ok" yaml:"ok"`
	SpecialUnits bool    `json:"specialUnits,omitempty" yaml:"specialUnits,omitempty"`
}

// Table holds the values of every measurement of a document at one
// combination of dimension values, in document order.
type Table struct {
	Kind        string     `json:"kind" yaml:"kind"`
	Unit        units.Unit `json:"unit" yaml:"unit"`
	Coordinates []float64  `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
	Values      []Value    `json:"values" yaml:"values"`
}

// RecomputeAll evaluates every measurement of the document. A failing
// measurement is reported with OK false and does not stop the others.
// Only as many coordinates as the document has dimensions are recorded.
func (e *Engine) RecomputeAll(a, b, c float64) Table {
	start := time.Now()
	defer func() {
		recomputeDuration.WithLabelValues(e.doc.Kind().String()).Observe(time.Since(start).Seconds())
	}()

	t := Table{Kind: e.doc.Kind().String(), Unit: e.doc.Unit()}
	if e.doc.Kind() == measurement.KindMultisize {
		t.Coordinates = []float64{a, b, c}[:len(e.doc.Dimensions())]
	}

	var r *resolver
	if e.doc.Kind() == measurement.KindIndividual {
		r = newResolver(e)
	}
	for _, m := range e.doc.Measurements() {
		if m.IsSeparator() {
			continue
		}
		var v float64
		var ok bool
		if r != nil {
			v, ok = r.value(m.Name)
		} else {
			v, ok = e.graded(m.Name, a, b, c)
		}
		observe(e.doc.Kind(), ok)
		t.Values = append(t.Values, Value{
			Name:         m.Name,
			FullName:     m.FullName,
			Value:        v,
			OK:           ok,
			SpecialUnits: m.SpecialUnits,
		})
	}
	return t
}

// Lookup returns the value of the named measurement.
func (t Table) Lookup(name string) (Value, bool) {
	for _, v := range t.Values {
		if v.Name == name {
			return v, true
		}
	}
	return Value{}, false
}

// Failed returns the names of measurements that could not be computed.
func (t Table) Failed() []string {
	var out []string
	for _, v := range t.Values {
		if !v.OK {
			out = append(out, v.Name)
		}
	}
	return out
}

// Convert returns a copy of the table with values expressed in unit to.
// Measurements with special units keep their raw values.
func (t Table) Convert(to units.Unit) Table {
	out := t
	out.Unit = to
	out.Values = make([]Value, len(t.Values))
	for i, v := range t.Values {
		if v.OK && !v.SpecialUnits {
			v.Value = units.Convert(v.Value, t.Unit, to)
		}
		out.Values[i] = v
	}
	return out
}

// Rows returns the table as a header and string rows for tabular output.
func (t Table) Rows() ([]string, [][]string) {
	header := []string{"NAME", "VALUE", "UNIT", "FULL NAME"}
	rows := make([][]string, 0, len(t.Values))
	for _, v := range t.Values {
		value := "error"
		if v.OK {
			value = strconv.FormatFloat(v.Value, 'f', -1, 64)
		}
		unit := string(t.Unit)
		if v.SpecialUnits {
			unit = ""
		}
		rows = append(rows, []string{v.Name, value, unit, v.FullName})
	}
	return header, rows
}
