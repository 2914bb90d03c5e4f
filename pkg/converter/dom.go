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
	"strings"

	"github.com/beevik/etree"
)

// tagVersion names the element holding a document's format version.
const tagVersion = "version"

// insertAfter inserts el right after ref inside ref's parent. When ref is nil
// el is prepended to parent.
func insertAfter(parent, ref, el *etree.Element) {
	if ref == nil || ref.Parent() != parent {
		parent.InsertChildAt(0, el)
		return
	}
	parent.InsertChildAt(ref.Index()+1, el)
}

// ensureTextAfter returns the child called tag, creating it with text after
// ref when it is missing.
func ensureTextAfter(parent, ref *etree.Element, tag, text string) *etree.Element {
	if el := parent.SelectElement(tag); el != nil {
		return el
	}
	el := etree.NewElement(tag)
	el.SetText(text)
	insertAfter(parent, ref, el)
	return el
}

// renameAttr moves the value of attribute from to attribute to. It reports
// whether from was present. An existing to attribute is overwritten.
func renameAttr(el *etree.Element, from, to string) bool {
	a := el.SelectAttr(from)
	if a == nil {
		return false
	}
	v := a.Value
	el.RemoveAttr(from)
	el.CreateAttr(to, v)
	return true
}

// measurements returns every <m> element of the body-measurements block.
func measurements(root *etree.Element) []*etree.Element {
	bm := root.SelectElement("body-measurements")
	if bm == nil {
		return nil
	}
	return bm.SelectElements("m")
}

func text(el *etree.Element) string {
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}

// normalizeGender maps free-form gender values onto male, female or unknown.
func normalizeGender(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "male", "m", "man":
		return "male"
	case "female", "f", "woman":
		return "female"
	default:
		return "unknown"
	}
}

// renamePersonalGender renames personal/sex to gender and normalizes its value.
func renamePersonalGender(root *etree.Element, normalize bool) {
	p := root.SelectElement("personal")
	if p == nil {
		return
	}
	if s := p.SelectElement("sex"); s != nil {
		s.Tag = "gender"
	}
	if g := p.SelectElement("gender"); g != nil && normalize {
		g.SetText(normalizeGender(g.Text()))
	}
}
