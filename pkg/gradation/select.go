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
	cnserrors "github.com/dismine/valentina-sub004/pkg/errors"
	"github.com/dismine/valentina-sub004/pkg/measurement"
)

// Coordinates fills the dimension values not given in at with the dimension
// bases and checks every value against the dimension grid and restrictions.
// Individual documents accept no values and yield zeros.
func Coordinates(doc *measurement.Document, at []float64) ([3]float64, error) {
	var out [3]float64
	if doc.Kind() != measurement.KindMultisize {
		if len(at) > 0 {
			return out, cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
				"dimension values need a multisize table", map[string]any{"kind": doc.Kind().String()})
		}
		return out, nil
	}

	dims := doc.Dimensions()
	if len(at) > len(dims) || len(at) > len(out) {
		return out, cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest, "too many dimension values",
			map[string]any{"dimensions": len(dims), "got": len(at)})
	}
	for i, dim := range dims {
		if i >= len(out) {
			break
		}
		v := dim.Base
		if i < len(at) {
			v = at[i]
		}
		if !doc.IsValidValue(dim.Type, v, out[:i]...) {
			return out, cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
				"value is not selectable for dimension",
				map[string]any{"dimension": string(dim.Type), "value": v})
		}
		out[i] = v
	}
	return out, nil
}

// Only returns a copy of the table holding just the values named in names,
// in table order.
func (t Table) Only(names []string) Table {
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}
	values := make([]Value, 0, len(names))
	for _, v := range t.Values {
		if keep[v.Name] {
			values = append(values, v)
		}
	}
	t.Values = values
	return t
}
