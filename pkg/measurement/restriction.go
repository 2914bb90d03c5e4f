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
	"math"
	"strconv"
	"strings"

	cnserrors "github.com/dismine/valentina-sub004/pkg/errors"
)

const (
	hashSeparator = ";"

	// FirstDimensionHash keys the restriction of the first dimension, which
	// has no preceding values.
	FirstDimensionHash = "0"
)

// formatHashValue formats v with six significant digits, the precision used
// by every stored hash.
func formatHashValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// CorrectionHash builds the correction key of a dimension value combination.
// The first value is always part of the key; b and c are only appended when
// greater than zero, so an inactive dimension (zero) and a dimension whose
// value is legitimately zero or negative produce the same key.
func CorrectionHash(a, b, c float64) string {
	parts := []string{formatHashValue(a)}
	if b > 0 {
		parts = append(parts, formatHashValue(b))
	}
	if c > 0 {
		parts = append(parts, formatHashValue(c))
	}
	return strings.Join(parts, hashSeparator)
}

// RestrictionHash builds the restriction key from the values chosen for the
// preceding dimensions. No values yields FirstDimensionHash.
func RestrictionHash(prior ...float64) string {
	if len(prior) == 0 {
		return FirstDimensionHash
	}
	parts := make([]string, len(prior))
	for i, v := range prior {
		parts[i] = formatHashValue(v)
	}
	return strings.Join(parts, hashSeparator)
}

// ValidValues returns the selectable values of dim under restriction r, in
// ascending order. A restriction bound only applies when it is itself a
// stepped value of dim; an inconsistent result falls back to the full range.
// Excluded values are removed.
func ValidValues(dim Dimension, r *Restriction) []float64 {
	if dim.Step <= 0 || dim.Min > dim.Max {
		return nil
	}

	lo, hi := dim.Min, dim.Max
	if r != nil && r.Consistent() {
		if dim.IsStepValue(r.Min) {
			lo = r.Min
		}
		if dim.IsStepValue(r.Max) {
			hi = r.Max
		}
		if lo > hi {
			lo, hi = dim.Min, dim.Max
		}
	}

	n := int(math.Floor((hi-lo)/dim.Step + tolerance))
	out := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		v := roundKey(lo + float64(i)*dim.Step)
		if r != nil && r.Excludes(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// ValidValues returns the selectable values of the dimension of type t given
// the values chosen for the dimensions before it.
func (d *Document) ValidValues(t DimensionType, prior ...float64) ([]float64, error) {
	i := d.dimensionIndex(t)
	if i < 0 {
		return nil, cnserrors.NewWithContext(cnserrors.ErrCodeNotFound, "dimension not found",
			map[string]any{"dimension": string(t)})
	}
	if len(prior) != i {
		return nil, cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
			"wrong number of preceding dimension values",
			map[string]any{"dimension": string(t), "expected": i, "got": len(prior)})
	}

	var r *Restriction
	if stored, ok := d.restrictions[RestrictionHash(prior...)]; ok {
		r = &stored
	}
	return ValidValues(d.dimensions[i], r), nil
}

// IsValidValue reports whether v is selectable for dimension t given the
// preceding values.
func (d *Document) IsValidValue(t DimensionType, v float64, prior ...float64) bool {
	values, err := d.ValidValues(t, prior...)
	if err != nil {
		return false
	}
	for _, x := range values {
		if fuzzyEqual(x, v) {
			return true
		}
	}
	return false
}
