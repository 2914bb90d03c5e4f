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

// Package units names the length units a measurement file can declare and
// converts values between them.
//
// Conversion is a pure function. The measurement core stores and returns
// values in document units; consumers convert for display, skipping
// measurements flagged with special units.
package units

import (
	"fmt"
	"strings"
)

// Unit is a length unit declared by a measurement file.
type Unit string

const (
	Millimeter Unit = "mm"
	Centimeter Unit = "cm"
	Inch       Unit = "inch"
)

// All lists the supported units.
var All = []Unit{Millimeter, Centimeter, Inch}

// String returns the file representation of the unit.
func (u Unit) String() string {
	return string(u)
}

// IsValid reports whether u is a supported unit.
func (u Unit) IsValid() bool {
	switch u {
	case Millimeter, Centimeter, Inch:
		return true
	default:
		return false
	}
}

var aliases = map[string]Unit{
	"mm":          Millimeter,
	"millimeter":  Millimeter,
	"millimeters": Millimeter,
	"cm":          Centimeter,
	"centimeter":  Centimeter,
	"centimeters": Centimeter,
	"inch":        Inch,
	"inches":      Inch,
	"in":          Inch,
	`"`:           Inch,
}

// Parse resolves a unit name or common alias, case-insensitively.
func Parse(s string) (Unit, error) {
	if u, ok := aliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return u, nil
	}
	return "", fmt.Errorf("unsupported unit %q (supported: %s)", s, Supported())
}

// Supported returns the supported unit names joined for messages.
func Supported() string {
	names := make([]string, len(All))
	for i, u := range All {
		names[i] = string(u)
	}
	return strings.Join(names, ", ")
}

// millimeters per unit
func factor(u Unit) float64 {
	switch u {
	case Millimeter:
		return 1
	case Centimeter:
		return 10
	case Inch:
		return 25.4
	default:
		return 0
	}
}

// Convert converts value from one unit to another. Converting to or from an
// unsupported unit returns the value unchanged.
func Convert(value float64, from, to Unit) float64 {
	if from == to {
		return value
	}
	f, t := factor(from), factor(to)
	if f == 0 || t == 0 {
		return value
	}
	return value * f / t
}
