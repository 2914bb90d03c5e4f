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

// Package gradation computes measurement values from a measurement document.
//
// Multisize measurements follow a linear offset model. With the document's
// dimensions taken in order as A, B and C:
//
//	k = (current - dimension base) / dimension step
//	value = base + kA*shiftA + kB*shiftB + kC*shiftC + correction
//
// where correction is the delta stored for the current combination of
// dimension values, if any. Individual measurements are formulas that may
// reference other measurements of the same document by name.
//
// Failures never propagate as errors: Evaluate and RecomputeAll report a
// measurement that cannot be computed with ok set to false and value 0.
//
// Usage:
//
//	engine, err := gradation.New(doc)
//	if err != nil {
//		return err
//	}
//	if v, ok := engine.Evaluate("hip_circ", 182, 52, 0); ok {
//		fmt.Println(v)
//	}
//	table := engine.RecomputeAll(182, 52, 0).Convert(units.Inch)
//
// Values are returned in document units. Table.Convert applies unit
// conversion for display and leaves measurements with special units alone.
package gradation
