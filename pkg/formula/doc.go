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

// Package formula parses and evaluates the arithmetic expressions stored as
// individual measurement values.
//
// An expression combines numbers, measurement names, the operators
// + - * / ^ with the usual precedence, parentheses and calls to a small set of
// math functions. Function arguments are separated by "," or ";".
//
//	p, err := formula.NewParser(0)
//	if err != nil { ... }
//	v, err := p.Evaluate("bust_circ/2 + 3", formula.MapVariables{"bust_circ": 96})
//
// Parsed expressions are kept in an LRU cache keyed by their source text, so
// recomputing a document evaluates each distinct formula without re-parsing.
// A result that is NaN or infinite is reported as an error.
package formula
