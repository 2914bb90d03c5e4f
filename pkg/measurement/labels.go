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
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var defaultDimensionNames = map[DimensionType]string{
	DimensionX: "Height",
	DimensionY: "Chest",
	DimensionW: "Waist",
	DimensionZ: "Hip",
}

// Name returns the display name of the dimension: its custom name when set,
// otherwise the default name of its type. A Y axis that is not a body
// measurement is called "Size".
func (dim Dimension) Name() string {
	if dim.CustomName != "" {
		return dim.CustomName
	}
	if dim.Type == DimensionY && dim.Derived {
		return "Size"
	}
	if n, ok := defaultDimensionNames[dim.Type]; ok {
		return n
	}
	return string(dim.Type)
}

// Label returns the display label of value on dimension dim. A stored custom
// label wins; otherwise the value is formatted for the locale tag. Body
// circumference dimensions other than X show the doubled value when
// fullCircumference is set.
func (dim Dimension) Label(value float64, fullCircumference bool, tag language.Tag) string {
	for v, l := range dim.Labels {
		if fuzzyEqual(v, value) && l != "" {
			return l
		}
	}
	if fullCircumference && dim.IsBodyMeasurement() && dim.Type != DimensionX {
		value *= 2
	}
	p := message.NewPrinter(tag)
	return p.Sprint(number.Decimal(value, number.MaxFractionDigits(2), number.NoSeparator()))
}

// DimensionLabels returns the label of every valid value of dimension t,
// keyed by value, given the values chosen for the preceding dimensions.
func (d *Document) DimensionLabels(t DimensionType, tag language.Tag, prior ...float64) (map[float64]string, error) {
	values, err := d.ValidValues(t, prior...)
	if err != nil {
		return nil, err
	}
	dim, _ := d.Dimension(t)
	out := make(map[float64]string, len(values))
	for _, v := range values {
		out[v] = dim.Label(v, d.fullCircumference, tag)
	}
	return out, nil
}
