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
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/dismine/valentina-sub004/pkg/defaults"
	cnserrors "github.com/dismine/valentina-sub004/pkg/errors"
	"github.com/dismine/valentina-sub004/pkg/measurement"
	"github.com/dismine/valentina-sub004/pkg/units"
	"github.com/dismine/valentina-sub004/pkg/version"
)

// Multisize is the graded measurement table format (root <vst>).
var Multisize = &Format{
	Name:    "multisize",
	RootTag: measurement.RootMultisize,
	Min:     version.MustParse("0.3.0"),
	Max:     measurement.MultisizeVersion,
	Patches: []Patch{
		{From: version.MustParse("0.3.0"), To: version.MustParse("0.4.0"), Apply: multisizeTo040},
		{From: version.MustParse("0.4.0"), To: version.MustParse("0.4.1"), Apply: multisizeTo041},
		{From: version.MustParse("0.4.1"), To: version.MustParse("0.4.2"), Apply: multisizeTo042},
		{From: version.MustParse("0.4.2"), To: version.MustParse("0.5.0"), Apply: multisizeTo050},
		{From: version.MustParse("0.5.0"), To: version.MustParse("0.5.1"), Apply: multisizeTo051},
		{From: version.MustParse("0.5.1"), To: version.MustParse("0.5.2"), Apply: multisizeTo052},
	},
}

// multisizeTo040 adds the read-only flag, normalizes gender and renames
// legacy measurement names.
func multisizeTo040(doc *etree.Document) error {
	root := doc.Root()
	ensureTextAfter(root, root.SelectElement(tagVersion), "read-only", "false")
	renamePersonalGender(root, true)
	for _, m := range measurements(root) {
		if a := m.SelectAttr("name"); a != nil {
			a.Value, _ = measurement.CurrentName(a.Value)
		}
	}
	return nil
}

// multisizeTo041 adds the pattern making system.
func multisizeTo041(doc *etree.Document) error {
	root := doc.Root()
	ensureTextAfter(root, root.SelectElement("unit"), "pm_system", defaults.PatternMakingSystem)
	return nil
}

// multisizeTo042 drops personal information, which tables never used.
func multisizeTo042(doc *etree.Document) error {
	root := doc.Root()
	if p := root.SelectElement("personal"); p != nil {
		root.RemoveChild(p)
	}
	return nil
}

type legacyGrid struct {
	min, max, step float64
}

// legacyGrids returns the height and size grids of a unit.
func legacyGrids(u units.Unit) (height, size legacyGrid) {
	switch u {
	case units.Inch:
		return legacyGrid{defaults.LegacyHeightMinInch, defaults.LegacyHeightMaxInch, defaults.LegacyHeightStepInch},
			legacyGrid{defaults.LegacySizeMinInch, defaults.LegacySizeMaxInch, defaults.LegacySizeStepInch}
	case units.Millimeter:
		return legacyGrid{defaults.LegacyHeightMinCM * 10, defaults.LegacyHeightMaxCM * 10, defaults.LegacyHeightStepCM * 10},
			legacyGrid{defaults.LegacySizeMinCM * 10, defaults.LegacySizeMaxCM * 10, defaults.LegacySizeStepCM * 10}
	default:
		return legacyGrid{defaults.LegacyHeightMinCM, defaults.LegacyHeightMaxCM, defaults.LegacyHeightStepCM},
			legacyGrid{defaults.LegacySizeMinCM, defaults.LegacySizeMaxCM, defaults.LegacySizeStepCM}
	}
}

// alignTo moves the grid bounds onto the step lattice through base so that
// min <= base <= max and base-min is a whole number of steps.
func (g legacyGrid) alignTo(base float64) legacyGrid {
	out := g
	if base < g.min {
		out.min = base
	} else {
		out.min = base - math.Floor((base-g.min)/g.step+1e-9)*g.step
	}
	if base > g.max {
		out.max = base
	} else {
		out.max = base + math.Floor((g.max-base)/g.step+1e-9)*g.step
	}
	return out
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func legacyBase(root *etree.Element, tag string) (float64, error) {
	el := root.SelectElement(tag)
	if el == nil {
		return 0, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "missing <"+tag+"> element")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(el.SelectAttrValue("base", "")), 64)
	if err != nil {
		return 0, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "invalid <"+tag+"> base", err)
	}
	return v, nil
}

func newDimension(kind string, base float64, g legacyGrid) *etree.Element {
	d := etree.NewElement("dimension")
	d.CreateAttr("type", kind)
	d.CreateAttr("base", formatNumber(base))
	d.CreateAttr("min", formatNumber(g.min))
	d.CreateAttr("max", formatNumber(g.max))
	d.CreateAttr("step", formatNumber(g.step))
	d.CreateAttr("circumference", "true")
	return d
}

// multisizeTo050 replaces the fixed height and size bases with the dimension
// model. Height becomes dimension X and size becomes dimension Y on the
// legacy grid of the document's unit. Measurement increments become shifts.
func multisizeTo050(doc *etree.Document) error {
	root := doc.Root()

	u, err := units.Parse(text(root.SelectElement("unit")))
	if err != nil {
		return err
	}
	heightBase, err := legacyBase(root, "height")
	if err != nil {
		return err
	}
	sizeBase, err := legacyBase(root, "size")
	if err != nil {
		return err
	}
	hg, sg := legacyGrids(u)

	dims := etree.NewElement("dimensions")
	dims.CreateAttr("fullCircumference", "false")
	dims.AddChild(newDimension("X", heightBase, hg.alignTo(heightBase)))
	dims.AddChild(newDimension("Y", sizeBase, sg.alignTo(sizeBase)))

	for _, tag := range []string{"size", "height"} {
		if el := root.SelectElement(tag); el != nil {
			root.RemoveChild(el)
		}
	}
	pm := root.SelectElement("pm_system")
	insertAfter(root, pm, dims)
	insertAfter(root, dims, etree.NewElement("restrictions"))

	for _, m := range measurements(root) {
		renameAttr(m, "height_increase", "shiftA")
		renameAttr(m, "size_increase", "shiftB")
		renameAttr(m, "special_units", "specialUnits")
	}
	return nil
}

// multisizeTo051 renames the dimension circumference flag to measurement.
func multisizeTo051(doc *etree.Document) error {
	dims := doc.Root().SelectElement("dimensions")
	if dims == nil {
		return nil
	}
	for _, d := range dims.SelectElements("dimension") {
		renameAttr(d, "circumference", "measurement")
	}
	return nil
}

// multisizeTo052 switches restriction exclusion lists from "," to ";".
func multisizeTo052(doc *etree.Document) error {
	rs := doc.Root().SelectElement("restrictions")
	if rs == nil {
		return nil
	}
	for _, r := range rs.SelectElements("restriction") {
		if a := r.SelectAttr("exclude"); a != nil {
			a.Value = strings.ReplaceAll(a.Value, ",", ";")
		}
	}
	return nil
}
