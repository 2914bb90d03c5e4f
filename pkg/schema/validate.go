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

package schema

import (
	"bytes"
	"encoding/xml"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	cnserrors "github.com/dismine/valentina-sub004/pkg/errors"
)

// ValidationError describes the first schema violation found in a document.
type ValidationError struct {
	Schema  string
	Line    int
	Column  int
	Path    string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%d:%d: %s: %s", e.Line, e.Column, e.Path, e.Message)
}

type frame struct {
	name    string
	def     *Element
	path    string
	counts  map[string]int
	lastIdx int
	text    strings.Builder
}

// Validate checks data against the schema. It returns nil for a valid
// document, otherwise a SCHEMA_VALIDATION error wrapping a *ValidationError.
func (s *Schema) Validate(data []byte) error {
	return s.ValidateReader(bytes.NewReader(data))
}

// ValidateReader is like Validate but reads the document from r.
func (s *Schema) ValidateReader(r io.Reader) error {
	verr := s.validate(r)
	if verr == nil {
		return nil
	}
	verr.Schema = s.Name
	validationFailures.WithLabelValues(s.Name).Inc()
	return cnserrors.WrapWithContext(cnserrors.ErrCodeSchemaValidation,
		"document does not match schema "+s.Name, verr, map[string]any{
			"line":   verr.Line,
			"column": verr.Column,
			"path":   verr.Path,
		})
}

func (s *Schema) validate(r io.Reader) *ValidationError {
	dec := xml.NewDecoder(r)
	var stack []*frame
	rootSeen := false

	fail := func(path, format string, args ...any) *ValidationError {
		line, col := dec.InputPos()
		return &ValidationError{Line: line, Column: col, Path: path, Message: fmt.Sprintf(format, args...)}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			verr := fail(currentPath(stack), "malformed XML: %v", err)
			var syn *xml.SyntaxError
			if stderrors.As(err, &syn) {
				verr.Line = syn.Line
				verr.Message = "malformed XML: " + syn.Msg
			}
			return verr
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			var p string
			if len(stack) == 0 {
				if rootSeen {
					return fail("/"+name, "unexpected second root element")
				}
				rootSeen = true
				if name != s.Root {
					return fail("/"+name, "root element must be <%s>", s.Root)
				}
				p = "/" + name
			} else {
				parent := stack[len(stack)-1]
				idx, c := parent.def.child(name)
				if c == nil {
					return fail(parent.path, "element <%s> is not allowed in <%s>", name, parent.name)
				}
				parent.counts[name]++
				n := parent.counts[name]
				if c.Max > 0 && n > c.Max {
					return fail(parent.path, "element <%s> occurs more than %d time(s)", name, c.Max)
				}
				if parent.def.Ordered && idx < parent.lastIdx {
					return fail(parent.path, "element <%s> is out of order", name)
				}
				parent.lastIdx = idx
				p = fmt.Sprintf("%s/%s[%d]", parent.path, name, n)
			}

			def := s.Elements[name]
			if def == nil {
				return fail(p, "element <%s> is not defined", name)
			}
			if verr := checkAttributes(def, t.Attr, p, fail); verr != nil {
				return verr
			}
			stack = append(stack, &frame{name: name, def: def, path: p, counts: make(map[string]int)})

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			} else if len(bytes.TrimSpace(t)) > 0 {
				return fail("", "text outside the root element")
			}

		case xml.EndElement:
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			text := strings.TrimSpace(f.text.String())
			if f.def.Text == TypeNone {
				if text != "" {
					return fail(f.path, "element <%s> must not contain text", f.name)
				}
			} else if msg := checkValue(f.def.Text, f.def.Values, text); msg != "" {
				return fail(f.path, "element <%s> %s", f.name, msg)
			}

			for _, c := range f.def.Children {
				if f.counts[c.Name] < c.Min {
					return fail(f.path, "element <%s> requires at least %d <%s>", f.name, c.Min, c.Name)
				}
			}
		}
	}

	if !rootSeen {
		return &ValidationError{Line: 1, Column: 1, Message: "document has no root element"}
	}
	return nil
}

func checkAttributes(def *Element, attrs []xml.Attr, p string, fail func(string, string, ...any) *ValidationError) *ValidationError {
	seen := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" || a.Name.Space == "xml" {
			continue
		}
		ad := def.attribute(a.Name.Local)
		if ad == nil {
			return fail(p, "attribute %q is not allowed", a.Name.Local)
		}
		if msg := checkValue(ad.Type, ad.Values, a.Value); msg != "" {
			return fail(p, "attribute %q %s", a.Name.Local, msg)
		}
		seen[a.Name.Local] = true
	}
	for _, ad := range def.Attributes {
		if ad.Required && !seen[ad.Name] {
			return fail(p, "required attribute %q is missing", ad.Name)
		}
	}
	return nil
}

func currentPath(stack []*frame) string {
	if len(stack) == 0 {
		return ""
	}
	return stack[len(stack)-1].path
}

