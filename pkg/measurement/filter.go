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

import "strings"

// FilterOut returns the entries whose names match none of the patterns.
// Patterns may contain "*" wildcards:
//   - "hip_*" matches names starting with "hip_"
//   - "*_circ" matches names ending with "_circ"
//   - "*arm*" matches names containing "arm"
//   - "height" matches exactly
func FilterOut(entries []Measurement, patterns []string) []Measurement {
	out := make([]Measurement, 0, len(entries))
	for _, m := range entries {
		if !matchesAny(m.Name, patterns) {
			out = append(out, m)
		}
	}
	return out
}

// FilterIn returns the entries whose names match at least one pattern.
// It is the complement of FilterOut.
func FilterIn(entries []Measurement, patterns []string) []Measurement {
	out := make([]Measurement, 0, len(entries))
	for _, m := range entries {
		if matchesAny(m.Name, patterns) {
			out = append(out, m)
		}
	}
	return out
}

// Select returns the names of the document's measurements matching any pattern,
// in document order. Separators are skipped.
func (d *Document) Select(patterns ...string) []string {
	var names []string
	for _, m := range FilterIn(d.Measurements(), patterns) {
		if !m.IsSeparator() {
			names = append(names, m.Name)
		}
	}
	return names
}

func matchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if matchesPattern(name, p) {
			return true
		}
	}
	return false
}

// matchesPattern checks if name matches a wildcard pattern.
// Multiple wildcards are allowed, e.g. "a*b*c" matches "aXbYc".
func matchesPattern(name, pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return name == pattern
	}

	segments := strings.Split(pattern, "*")
	pos := 0
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if i == 0 {
			// pattern does not start with "*"
			if !strings.HasPrefix(name, seg) {
				return false
			}
			pos = len(seg)
			continue
		}
		if i == len(segments)-1 {
			// pattern does not end with "*"
			return len(name)-pos >= len(seg) && strings.HasSuffix(name[pos:], seg)
		}
		idx := strings.Index(name[pos:], seg)
		if idx == -1 {
			return false
		}
		pos += idx + len(seg)
	}
	return true
}
