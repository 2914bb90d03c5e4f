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
	"math"
	"strings"

	"github.com/dismine/valentina-sub004/pkg/version"
	"golang.org/x/exp/constraints"
	"k8s.io/utils/set"
)

// Current format versions written by this package.
var (
	IndividualVersion = version.MustParse("0.5.1")
	MultisizeVersion  = version.MustParse("0.5.2")
)

// Root tags of the two measurement file kinds.
const (
	RootIndividual = "vit"
	RootMultisize  = "vst"
)

// Kind distinguishes single-size from graded documents.
type Kind string

const (
	KindUnknown    Kind = "unknown"
	KindIndividual Kind = "individual"
	KindMultisize  Kind = "multisize"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// DimensionType names a sizing axis. DimensionNone is only used as the
// dimension tag of an individual measurement.
type DimensionType string

const (
	DimensionNone DimensionType = "none"
	DimensionX    DimensionType = "X"
	DimensionY    DimensionType = "Y"
	DimensionW    DimensionType = "W"
	DimensionZ    DimensionType = "Z"
)

// DimensionTypes lists the sizing axes in document order.
var DimensionTypes = []DimensionType{DimensionX, DimensionY, DimensionW, DimensionZ}

// ParseDimensionType parses a dimension type. The empty string is DimensionNone.
func ParseDimensionType(s string) (DimensionType, error) {
	switch t := DimensionType(strings.TrimSpace(s)); t {
	case "", DimensionNone:
		return DimensionNone, nil
	case DimensionX, DimensionY, DimensionW, DimensionZ:
		return t, nil
	default:
		return DimensionNone, fmt.Errorf("unknown dimension type %q", s)
	}
}

// Gender of the person an individual file describes.
type Gender string

const (
	GenderUnknown Gender = "unknown"
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
)

// ParseGender parses a gender value; anything unrecognized is GenderUnknown.
func ParseGender(s string) Gender {
	switch g := Gender(strings.ToLower(strings.TrimSpace(s))); g {
	case GenderMale, GenderFemale:
		return g
	default:
		return GenderUnknown
	}
}

// EntryType distinguishes measurements from separators.
type EntryType string

const (
	TypeMeasurement EntryType = "measurement"
	TypeSeparator   EntryType = "separator"
)

// Measurement is one entry of a document. Multisize documents use Base,
// the shifts and Corrections; individual documents use Formula and
// Dimension. Measurement is a value type; use Clone for an independent copy.
type Measurement struct {
	Name string    `json:"name" yaml:"name"`
	Type EntryType `json:"type" yaml:"type"`

	Base        float64            `json:"base,omitempty" yaml:"base,omitempty"`
	ShiftA      float64            `json:"shiftA,omitempty" yaml:"shiftA,omitempty"`
	ShiftB      float64            `json:"shiftB,omitempty" yaml:"shiftB,omitempty"`
	ShiftC      float64            `json:"shiftC,omitempty" yaml:"shiftC,omitempty"`
	Corrections map[string]float64 `json:"corrections,omitempty" yaml:"corrections,omitempty"`

	Formula      string        `json:"formula,omitempty" yaml:"formula,omitempty"`
	SpecialUnits bool          `json:"specialUnits,omitempty" yaml:"specialUnits,omitempty"`
	Dimension    DimensionType `json:"dimension,omitempty" yaml:"dimension,omitempty"`

	FullName    string `json:"fullName,omitempty" yaml:"fullName,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// IsSeparator reports whether the entry is a separator.
func (m Measurement) IsSeparator() bool {
	return m.Type == TypeSeparator
}

// IsCustom reports whether the entry has a user defined name.
func (m Measurement) IsCustom() bool {
	return IsCustomName(m.Name)
}

// Clone returns a deep copy of m.
func (m Measurement) Clone() Measurement {
	out := m
	out.Corrections = maps.Clone(m.Corrections)
	return out
}

// Dimension is one sizing axis of a multisize document.
type Dimension struct {
	Type DimensionType `json:"type" yaml:"type"`
	Min  float64       `json:"min" yaml:"min"`
	Max  float64       `json:"max" yaml:"max"`
	Step float64       `json:"step" yaml:"step"`
	Base float64       `json:"base" yaml:"base"`

	// Derived marks an axis that is not measured on the body, such as a
	// garment size. Files store the negation in the measurement attribute,
	// which defaults to true.
	Derived bool `json:"derived,omitempty" yaml:"derived,omitempty"`

	CustomName string             `json:"customName,omitempty" yaml:"customName,omitempty"`
	Labels     map[float64]string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// IsBodyMeasurement reports whether the axis is measured on the body.
func (d Dimension) IsBodyMeasurement() bool {
	return !d.Derived
}

// Clone returns a deep copy of d.
func (d Dimension) Clone() Dimension {
	out := d
	out.Labels = maps.Clone(d.Labels)
	return out
}

// Validate checks the range invariants: a positive step, min <= base <= max
// and base lying on the step lattice from min.
func (d Dimension) Validate() error {
	switch d.Type {
	case DimensionX, DimensionY, DimensionW, DimensionZ:
	default:
		return fmt.Errorf("invalid dimension type %q", d.Type)
	}
	if d.Step <= 0 {
		return fmt.Errorf("dimension %s: step must be positive, got %v", d.Type, d.Step)
	}
	if d.Min > d.Max {
		return fmt.Errorf("dimension %s: min %v is greater than max %v", d.Type, d.Min, d.Max)
	}
	if !d.IsStepValue(d.Base) {
		return fmt.Errorf("dimension %s: base %v is not a stepped value of [%v, %v] step %v",
			d.Type, d.Base, d.Min, d.Max, d.Step)
	}
	return nil
}

// IsStepValue reports whether v lies within [Min, Max] on the step lattice.
func (d Dimension) IsStepValue(v float64) bool {
	if d.Step <= 0 || lessFuzzy(v, d.Min) || lessFuzzy(d.Max, v) {
		return false
	}
	k := (v - d.Min) / d.Step
	return fuzzyEqual(k, math.Round(k))
}

// Restriction narrows the selectable values of a dimension for one
// combination of preceding dimension values.
type Restriction struct {
	Min     float64          `json:"min" yaml:"min"`
	Max     float64          `json:"max" yaml:"max"`
	Exclude set.Set[float64] `json:"-" yaml:"-"`
}

// NewRestriction creates a Restriction excluding the given values.
func NewRestriction(min, max float64, exclude ...float64) Restriction {
	r := Restriction{Min: min, Max: max, Exclude: set.New[float64]()}
	for _, v := range exclude {
		r.Exclude.Insert(roundKey(v))
	}
	return r
}

// Consistent reports whether the bounds form a non-empty range.
func (r Restriction) Consistent() bool {
	return r.Min <= r.Max
}

// Excludes reports whether v is in the exclusion set. Values are compared
// at key precision, so sets built without NewRestriction match as well.
func (r Restriction) Excludes(v float64) bool {
	if r.Exclude == nil {
		return false
	}
	key := roundKey(v)
	if r.Exclude.Has(key) {
		return true
	}
	for x := range r.Exclude {
		if roundKey(x) == key {
			return true
		}
	}
	return false
}

// Excluded returns the excluded values in ascending order, snapped to key
// precision.
func (r Restriction) Excluded() []float64 {
	if r.Exclude == nil {
		return nil
	}
	return normalizeKeys(r.Exclude).SortedList()
}

// Clone returns a deep copy of r with the exclusion set snapped to key
// precision.
func (r Restriction) Clone() Restriction {
	out := r
	if r.Exclude != nil {
		out.Exclude = normalizeKeys(r.Exclude)
	}
	return out
}

func normalizeKeys(s set.Set[float64]) set.Set[float64] {
	out := set.New[float64]()
	for v := range s {
		out.Insert(roundKey(v))
	}
	return out
}

// Personal holds the information about the person an individual file
// describes.
type Personal struct {
	Customer  string `json:"customer,omitempty" yaml:"customer,omitempty"`
	BirthDate string `json:"birthDate,omitempty" yaml:"birthDate,omitempty"`
	Gender    Gender `json:"gender" yaml:"gender"`
	Email     string `json:"email,omitempty" yaml:"email,omitempty"`
}

const tolerance = 1e-6

func fuzzyEqual[T constraints.Float](a, b T) bool {
	return math.Abs(float64(a-b)) <= tolerance*math.Max(1, math.Max(math.Abs(float64(a)), math.Abs(float64(b))))
}

func lessFuzzy[T constraints.Float](a, b T) bool {
	return a < b && !fuzzyEqual(a, b)
}

// keyScale is the inverse of the precision of stored values: six decimals.
const keyScale = 1e6

// roundKey snaps v to six decimals. Dividing the rounded integer yields the
// float nearest the decimal value, so 0.1 stays 0.1.
func roundKey(v float64) float64 {
	return math.Round(v*keyScale) / keyScale
}
