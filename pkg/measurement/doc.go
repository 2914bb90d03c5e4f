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

// Package measurement models body measurement documents.
//
// Two kinds of documents exist:
//   - individual (.vit): one person, every measurement a formula
//   - multisize (.vst): a size table with up to three sizing dimensions,
//     every measurement a base value plus per-dimension shifts and
//     optional corrections for specific size combinations
//
// # Building Documents
//
//	doc, err := measurement.NewMultisizeBuilder(units.Centimeter,
//	    measurement.Dimension{Type: measurement.DimensionX, Min: 146, Max: 188, Step: 6, Base: 176},
//	).
//	    Measurement("hip_circ", "100").
//	    Shifts("hip_circ", 2, 0, 0).
//	    Build()
//
// # Sizing Dimensions
//
// Restrictions narrow the valid values of a dimension depending on the
// values chosen for the dimensions before it. They are keyed by
// RestrictionHash of those prior values:
//
//	heights, _ := doc.ValidValues(measurement.DimensionX)
//	sizes, _ := doc.ValidValues(measurement.DimensionY, 176)
//
// # Files
//
// Decode and Encode read and write the current file format versions.
// Older files must be upgraded with the converter package first.
//
// # Comparing and Filtering
//
// Compare lists the differences between two documents. FilterIn and
// FilterOut select entries by wildcard name patterns:
//
//	circ := measurement.FilterIn(doc.Measurements(), []string{"*_circ"})
package measurement
