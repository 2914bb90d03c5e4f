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
	"github.com/dismine/valentina-sub004/pkg/defaults"
	"github.com/dismine/valentina-sub004/pkg/measurement"
	"github.com/dismine/valentina-sub004/pkg/version"
)

// Individual is the single-size measurement file format (root <vit>).
var Individual = &Format{
	Name:    "individual",
	RootTag: measurement.RootIndividual,
	Min:     version.MustParse("0.2.0"),
	Max:     measurement.IndividualVersion,
	Patches: []Patch{
		{From: version.MustParse("0.2.0"), To: version.MustParse("0.3.0"), Apply: individualTo030},
		{From: version.MustParse("0.3.0"), To: version.MustParse("0.3.1"), Apply: individualTo031},
		{From: version.MustParse("0.3.1"), To: version.MustParse("0.3.2"), Apply: individualTo032},
		{From: version.MustParse("0.3.2"), To: version.MustParse("0.3.3"), Apply: individualTo033},
		{From: version.MustParse("0.3.3"), To: version.MustParse("0.4.0"), Apply: individualTo040},
		{From: version.MustParse("0.4.0"), To: version.MustParse("0.5.0"), Apply: individualTo050},
		{From: version.MustParse("0.5.0"), To: version.MustParse("0.5.1"), Apply: individualTo051},
	},
}

// individualTo030 adds the read-only flag and the pattern making system, and
// renames personal/sex to gender.
func individualTo030(doc *etree.Document) error {
	root := doc.Root()
	ensureTextAfter(root, root.SelectElement(tagVersion), "read-only", "false")
	ensureTextAfter(root, root.SelectElement("unit"), "pm_system", defaults.PatternMakingSystem)
	renamePersonalGender(root, false)
	return nil
}

// individualTo031 normalizes gender values.
func individualTo031(doc *etree.Document) error {
	renamePersonalGender(doc.Root(), true)
	return nil
}

// individualTo032 strips the legacy "p" prefix from pattern making system codes.
func individualTo032(doc *etree.Document) error {
	el := doc.Root().SelectElement("pm_system")
	if el == nil {
		return nil
	}
	el.SetText(normalizePMSystem(el.Text()))
	return nil
}

func normalizePMSystem(v string) string {
	v = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(v)), "p")
	if v == "" {
		return defaults.PatternMakingSystem
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return defaults.PatternMakingSystem
		}
	}
	return v
}

// individualTo033 renames legacy measurement names, including references to
// them inside formulas.
func individualTo033(doc *etree.Document) error {
	renames := measurement.LegacyRenames()
	for _, m := range measurements(doc.Root()) {
		if a := m.SelectAttr("name"); a != nil {
			if n, ok := renames[a.Value]; ok {
				a.Value = n
			}
		}
		if a := m.SelectAttr("value"); a != nil {
			a.Value = measurement.RenameInFormula(a.Value, renames)
		}
	}
	return nil
}

// individualTo040 merges given-name and family-name into customer.
func individualTo040(doc *etree.Document) error {
	p := doc.Root().SelectElement("personal")
	if p == nil {
		return nil
	}
	given := p.SelectElement("given-name")
	family := p.SelectElement("family-name")
	if given == nil && family == nil {
		return nil
	}

	name := strings.TrimSpace(strings.Join(nonEmpty(text(given), text(family)), " "))
	customer := etree.NewElement("customer")
	customer.SetText(name)

	pos := p.ChildElements()
	at := 0
	if len(pos) > 0 {
		at = pos[0].Index()
	}
	if given != nil {
		p.RemoveChild(given)
	}
	if family != nil {
		p.RemoveChild(family)
	}
	if at > len(p.Child) {
		at = len(p.Child)
	}
	p.InsertChildAt(at, customer)
	return nil
}

func nonEmpty(values ...string) []string {
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// individualTo050 renames special_units to specialUnits.
func individualTo050(doc *etree.Document) error {
	for _, m := range measurements(doc.Root()) {
		renameAttr(m, "special_units", "specialUnits")
	}
	return nil
}

// individualDimensionTags maps measurements that define a sizing axis.
var individualDimensionTags = map[string]string{
	"height":     "X",
	"bust_circ":  "Y",
	"waist_circ": "W",
	"hip_circ":   "Z",
}

// individualTo051 derives dimension tags for the measurements that define a
// sizing axis.
func individualTo051(doc *etree.Document) error {
	for _, m := range measurements(doc.Root()) {
		if m.SelectAttr("dimension") != nil {
			continue
		}
		if tag, ok := individualDimensionTags[m.SelectAttrValue("name", "")]; ok {
			m.CreateAttr("dimension", tag)
		}
	}
	return nil
}
