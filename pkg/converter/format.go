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

package converter

import (
	"fmt"

	"github.com/beevik/etree"
	cnserrors "github.com/dismine/valentina-sub004/pkg/errors"
	"github.com/dismine/valentina-sub004/pkg/schema"
	"github.com/dismine/valentina-sub004/pkg/version"
)

// PatchFunc performs the structural transform of one conversion step. It
// must not touch the version tag; the pipeline advances it.
type PatchFunc func(doc *etree.Document) error

// Patch upgrades a document from one format version to the next.
type Patch struct {
	From  version.Version
	To    version.Version
	Apply PatchFunc
}

// Format describes one document kind: its root tag, supported version range,
// the ordered chain of patches between them and the schema of each version.
type Format struct {
	// Name identifies the format and its schema resources, e.g. "individual".
	Name string

	// RootTag is the document element that discriminates the format.
	RootTag string

	// Min and Max bound the versions the pipeline accepts.
	Min version.Version
	Max version.Version

	// Patches are ordered by From. Patches[0].From is Min and every patch
	// starts where the previous one ended.
	Patches []Patch

	// SchemaFor returns the schema of a version. Nil uses the embedded
	// schema resources.
	SchemaFor func(v version.Version) (*schema.Schema, error)
}

// Schema returns the schema of the given version of the format.
func (f *Format) Schema(v version.Version) (*schema.Schema, error) {
	if f.SchemaFor != nil {
		return f.SchemaFor(v)
	}
	return schema.Load(f.Name, v.String())
}

// Versions lists every version of the format in ascending order.
func (f *Format) Versions() []version.Version {
	out := []version.Version{f.Min}
	for _, p := range f.Patches {
		out = append(out, p.To)
	}
	return out
}

// Supports reports whether v lies within the format's version range.
func (f *Format) Supports(v version.Version) bool {
	return !v.Less(f.Min) && !f.Max.Less(v)
}

// startIndex returns the index of the first patch to run for a document at
// version v. A document at Max starts past the end of the chain.
func (f *Format) startIndex(v version.Version) (int, bool) {
	if v.Equals(f.Max) {
		return len(f.Patches), true
	}
	for i, p := range f.Patches {
		if p.From.Equals(v) {
			return i, true
		}
	}
	return 0, false
}

// Check verifies the patch chain is total: it starts at Min, ends at Max,
// has no gaps or backward steps, and a schema exists for every version.
func (f *Format) Check() error {
	if f.Name == "" || f.RootTag == "" {
		return cnserrors.New(cnserrors.ErrCodeInternal, "format requires a name and a root tag")
	}
	if f.Max.Less(f.Min) {
		return cnserrors.New(cnserrors.ErrCodeInternal,
			fmt.Sprintf("format %s: max version %s is below min %s", f.Name, f.Max, f.Min))
	}

	cur := f.Min
	for i, p := range f.Patches {
		if !p.From.Equals(cur) {
			return cnserrors.New(cnserrors.ErrCodeInternal,
				fmt.Sprintf("format %s: patch %d starts at %s, expected %s", f.Name, i, p.From, cur))
		}
		if !cur.Less(p.To) {
			return cnserrors.New(cnserrors.ErrCodeInternal,
				fmt.Sprintf("format %s: patch %d does not advance past %s", f.Name, i, cur))
		}
		if p.Apply == nil {
			return cnserrors.New(cnserrors.ErrCodeInternal,
				fmt.Sprintf("format %s: patch %s -> %s has no transform", f.Name, p.From, p.To))
		}
		cur = p.To
	}
	if !cur.Equals(f.Max) {
		return cnserrors.New(cnserrors.ErrCodeInternal,
			fmt.Sprintf("format %s: patch chain ends at %s, expected %s", f.Name, cur, f.Max))
	}

	for _, v := range f.Versions() {
		if _, err := f.Schema(v); err != nil {
			return cnserrors.Wrap(cnserrors.ErrCodeInternal,
				fmt.Sprintf("format %s: no schema for version %s", f.Name, v), err)
		}
	}
	return nil
}

// Formats returns every registered document format.
func Formats() []*Format {
	return []*Format{Individual, Multisize, LabelTemplate, Watermark, Layout}
}

// ByName returns the registered format with the given name.
func ByName(name string) (*Format, error) {
	for _, f := range Formats() {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, cnserrors.NewWithContext(cnserrors.ErrCodeNotFound, "unknown document format",
		map[string]any{"format": name})
}

// Detect returns the format of doc by its root tag.
func Detect(doc *etree.Document) (*Format, error) {
	root := doc.Root()
	if root == nil {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "document has no root element")
	}
	for _, f := range Formats() {
		if f.RootTag == root.Tag {
			return f, nil
		}
	}
	return nil, cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest, "unknown document kind",
		map[string]any{"root": root.Tag})
}

// DocumentVersion reads and decodes the version tag of doc.
func DocumentVersion(doc *etree.Document) (version.Version, error) {
	root := doc.Root()
	if root == nil {
		return version.Version{}, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "document has no root element")
	}
	el := root.SelectElement(tagVersion)
	if el == nil {
		return version.Version{}, cnserrors.New(cnserrors.ErrCodeUnsupportedVersion, "document has no version tag")
	}
	v, err := version.Parse(el.Text())
	if err != nil {
		return version.Version{}, cnserrors.WrapWithContext(cnserrors.ErrCodeUnsupportedVersion,
			"invalid document version", err, map[string]any{"version": el.Text()})
	}
	return v, nil
}

// setDocumentVersion writes v into the version tag, creating it if needed.
func setDocumentVersion(doc *etree.Document, v version.Version) {
	root := doc.Root()
	el := root.SelectElement(tagVersion)
	if el == nil {
		el = etree.NewElement(tagVersion)
		root.InsertChildAt(0, el)
	}
	el.SetText(v.String())
}
