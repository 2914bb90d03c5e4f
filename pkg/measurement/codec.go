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
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	cnserrors "github.com/dismine/valentina-sub004/pkg/errors"
	"github.com/dismine/valentina-sub004/pkg/units"
	"github.com/dismine/valentina-sub004/pkg/version"
)

const indentSpaces = 4

// Decode parses a measurement file at the current format version.
func Decode(data []byte) (*Document, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(data); err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "failed to parse measurement file", err)
	}
	return DecodeTree(tree)
}

// DecodeTree builds a Document from a parsed measurement file at the
// current format version. Older files must be converted first.
func DecodeTree(tree *etree.Document) (*Document, error) {
	root := tree.Root()
	if root == nil {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "measurement file has no root element")
	}

	var kind Kind
	var want version.Version
	switch root.Tag {
	case RootIndividual:
		kind, want = KindIndividual, IndividualVersion
	case RootMultisize:
		kind, want = KindMultisize, MultisizeVersion
	default:
		return nil, cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest, "not a measurement file",
			map[string]any{"root": root.Tag})
	}

	v, err := version.Parse(childText(root, "version"))
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeUnsupportedVersion, "invalid measurement file version", err)
	}
	if !v.Equals(want) {
		return nil, cnserrors.NewWithContext(cnserrors.ErrCodeUnsupportedVersion,
			fmt.Sprintf("%s file version %s must be converted to %s first", kind, v, want),
			map[string]any{"version": v.String(), "expected": want.String()})
	}

	u, err := units.Parse(childText(root, "unit"))
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "invalid unit", err)
	}

	d := newDocument(kind, u)
	d.readOnly = parseBool(childText(root, "read-only"), false)
	d.notes = childText(root, "notes")
	if pm := childText(root, "pm_system"); pm != "" {
		d.pmSystem = pm
	}

	if kind == KindIndividual {
		d.personal = decodePersonal(root.SelectElement("personal"))
	} else if err := d.decodeDimensions(root); err != nil {
		return nil, err
	}

	if err := d.decodeMeasurements(root); err != nil {
		return nil, err
	}
	return d, nil
}

func decodePersonal(el *etree.Element) Personal {
	p := Personal{Gender: GenderUnknown}
	if el == nil {
		return p
	}
	p.Customer = childText(el, "customer")
	p.BirthDate = childText(el, "birth-date")
	p.Gender = ParseGender(childText(el, "gender"))
	p.Email = childText(el, "email")
	return p
}

func (d *Document) decodeDimensions(root *etree.Element) error {
	dimsEl := root.SelectElement("dimensions")
	if dimsEl == nil {
		return cnserrors.New(cnserrors.ErrCodeInvalidRequest, "multisize file has no dimensions")
	}
	d.fullCircumference = parseBool(dimsEl.SelectAttrValue("fullCircumference", ""), false)

	var dims []Dimension
	for _, el := range dimsEl.SelectElements("dimension") {
		t, err := ParseDimensionType(el.SelectAttrValue("type", ""))
		if err != nil || t == DimensionNone {
			return cnserrors.WrapWithContext(cnserrors.ErrCodeInvalidRequest, "invalid dimension type", err,
				map[string]any{"type": el.SelectAttrValue("type", "")})
		}
		dim := Dimension{
			Type:       t,
			Derived:    !parseBool(el.SelectAttrValue("measurement", ""), true),
			CustomName: el.SelectAttrValue("customName", ""),
		}
		for _, f := range []struct {
			key string
			dst *float64
		}{{"base", &dim.Base}, {"min", &dim.Min}, {"max", &dim.Max}, {"step", &dim.Step}} {
			if *f.dst, err = attrFloat(el, f.key); err != nil {
				return err
			}
		}
		if labels := el.SelectElement("labels"); labels != nil {
			for _, l := range labels.SelectElements("label") {
				v, err := attrFloat(l, "value")
				if err != nil {
					return err
				}
				if dim.Labels == nil {
					dim.Labels = make(map[float64]string)
				}
				dim.Labels[v] = l.SelectAttrValue("label", "")
			}
		}
		dims = append(dims, dim)
	}
	if err := d.setDimensions(dims); err != nil {
		return err
	}

	if rs := root.SelectElement("restrictions"); rs != nil {
		for _, el := range rs.SelectElements("restriction") {
			min, err := attrFloat(el, "min")
			if err != nil {
				return err
			}
			max, err := attrFloat(el, "max")
			if err != nil {
				return err
			}
			exclude, err := parseList(el.SelectAttrValue("exclude", ""))
			if err != nil {
				return cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "invalid restriction exclusion list", err)
			}
			d.restrictions[el.SelectAttrValue("coordinates", FirstDimensionHash)] = NewRestriction(min, max, exclude...)
		}
	}
	return nil
}

func (d *Document) decodeMeasurements(root *etree.Element) error {
	bm := root.SelectElement("body-measurements")
	if bm == nil {
		return nil
	}
	for _, el := range bm.SelectElements("m") {
		m := Measurement{
			Name:         el.SelectAttrValue("name", ""),
			Type:         EntryType(el.SelectAttrValue("type", string(TypeMeasurement))),
			FullName:     el.SelectAttrValue("full_name", ""),
			Description:  el.SelectAttrValue("description", ""),
			SpecialUnits: parseBool(el.SelectAttrValue("specialUnits", ""), false),
		}
		if m.Type != TypeSeparator {
			m.Type = TypeMeasurement
		}
		if m.Name == "" {
			return cnserrors.New(cnserrors.ErrCodeInvalidRequest, "measurement without a name")
		}
		if d.Has(m.Name) {
			return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest, "duplicate measurement name",
				map[string]any{"name": m.Name})
		}

		if d.kind == KindIndividual {
			if !m.IsSeparator() {
				m.Formula = el.SelectAttrValue("value", defaultFormula)
				t, err := ParseDimensionType(el.SelectAttrValue("dimension", ""))
				if err != nil {
					return cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "invalid measurement dimension", err)
				}
				m.Dimension = t
			}
		} else if !m.IsSeparator() {
			var err error
			for _, f := range []struct {
				key string
				dst *float64
			}{{"base", &m.Base}, {"shiftA", &m.ShiftA}, {"shiftB", &m.ShiftB}, {"shiftC", &m.ShiftC}} {
				if *f.dst, err = attrFloat(el, f.key); err != nil {
					return err
				}
			}
			if cs := el.SelectElement("corrections"); cs != nil {
				for _, c := range cs.SelectElements("correction") {
					v, err := attrFloat(c, "correction")
					if err != nil {
						return err
					}
					if v == 0 {
						continue
					}
					if m.Corrections == nil {
						m.Corrections = make(map[string]float64)
					}
					m.Corrections[c.SelectAttrValue("coordinates", "")] = v
				}
			}
		}
		d.insert(len(d.order), m)
	}
	return nil
}

// Tree builds the XML tree of the document.
func (d *Document) Tree() *etree.Document {
	tree := etree.NewDocument()
	tree.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	rootTag := RootIndividual
	if d.kind == KindMultisize {
		rootTag = RootMultisize
	}
	root := tree.CreateElement(rootTag)
	root.CreateElement("version").SetText(d.version.String())
	root.CreateElement("read-only").SetText(strconv.FormatBool(d.readOnly))
	if d.notes != "" {
		root.CreateElement("notes").SetText(d.notes)
	}
	root.CreateElement("unit").SetText(d.unit.String())
	root.CreateElement("pm_system").SetText(d.pmSystem)

	if d.kind == KindIndividual {
		p := root.CreateElement("personal")
		if d.personal.Customer != "" {
			p.CreateElement("customer").SetText(d.personal.Customer)
		}
		if d.personal.BirthDate != "" {
			p.CreateElement("birth-date").SetText(d.personal.BirthDate)
		}
		gender := d.personal.Gender
		if gender == "" {
			gender = GenderUnknown
		}
		p.CreateElement("gender").SetText(string(gender))
		if d.personal.Email != "" {
			p.CreateElement("email").SetText(d.personal.Email)
		}
	} else {
		d.encodeDimensions(root)
	}

	bm := root.CreateElement("body-measurements")
	for _, n := range d.order {
		d.encodeMeasurement(bm, d.byName[n])
	}

	tree.Indent(indentSpaces)
	return tree
}

func (d *Document) encodeDimensions(root *etree.Element) {
	dims := root.CreateElement("dimensions")
	dims.CreateAttr("fullCircumference", strconv.FormatBool(d.fullCircumference))
	for _, dim := range d.dimensions {
		el := dims.CreateElement("dimension")
		el.CreateAttr("type", string(dim.Type))
		el.CreateAttr("base", formatNumber(dim.Base))
		el.CreateAttr("min", formatNumber(dim.Min))
		el.CreateAttr("max", formatNumber(dim.Max))
		el.CreateAttr("step", formatNumber(dim.Step))
		el.CreateAttr("measurement", strconv.FormatBool(dim.IsBodyMeasurement()))
		if dim.CustomName != "" {
			el.CreateAttr("customName", dim.CustomName)
		}
		if len(dim.Labels) > 0 {
			labels := el.CreateElement("labels")
			values := make([]float64, 0, len(dim.Labels))
			for v := range dim.Labels {
				values = append(values, v)
			}
			slices.Sort(values)
			for _, v := range values {
				l := labels.CreateElement("label")
				l.CreateAttr("value", formatNumber(v))
				l.CreateAttr("label", dim.Labels[v])
			}
		}
	}

	rs := root.CreateElement("restrictions")
	for _, hash := range sortedKeys(d.restrictions) {
		r := d.restrictions[hash]
		el := rs.CreateElement("restriction")
		el.CreateAttr("coordinates", hash)
		el.CreateAttr("min", formatNumber(r.Min))
		el.CreateAttr("max", formatNumber(r.Max))
		if ex := r.Excluded(); len(ex) > 0 {
			parts := make([]string, len(ex))
			for i, v := range ex {
				parts[i] = formatNumber(v)
			}
			el.CreateAttr("exclude", strings.Join(parts, hashSeparator))
		}
	}
}

func (d *Document) encodeMeasurement(parent *etree.Element, m *Measurement) {
	el := parent.CreateElement("m")
	el.CreateAttr("name", m.Name)
	if m.IsSeparator() {
		el.CreateAttr("type", string(TypeSeparator))
	} else if d.kind == KindIndividual {
		el.CreateAttr("value", m.Formula)
	} else {
		el.CreateAttr("base", formatNumber(m.Base))
		for _, s := range []struct {
			key string
			v   float64
		}{{"shiftA", m.ShiftA}, {"shiftB", m.ShiftB}, {"shiftC", m.ShiftC}} {
			if s.v != 0 {
				el.CreateAttr(s.key, formatNumber(s.v))
			}
		}
	}
	if m.FullName != "" {
		el.CreateAttr("full_name", m.FullName)
	}
	if m.Description != "" {
		el.CreateAttr("description", m.Description)
	}
	if m.SpecialUnits {
		el.CreateAttr("specialUnits", "true")
	}
	if d.kind == KindIndividual && !m.IsSeparator() && m.Dimension != "" && m.Dimension != DimensionNone {
		el.CreateAttr("dimension", string(m.Dimension))
	}
	if d.kind == KindMultisize && !m.IsSeparator() && len(m.Corrections) > 0 {
		cs := el.CreateElement("corrections")
		for _, hash := range sortedKeys(m.Corrections) {
			c := cs.CreateElement("correction")
			c.CreateAttr("coordinates", hash)
			c.CreateAttr("correction", formatNumber(m.Corrections[hash]))
		}
	}
}

// Encode serializes the document as indented XML.
func (d *Document) Encode() ([]byte, error) {
	data, err := d.Tree().WriteToBytes()
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to serialize measurement file", err)
	}
	return data, nil
}

// Load reads a measurement file at the current format version.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cnserrors.WrapWithContext(cnserrors.ErrCodeNotFound, "failed to read measurement file", err,
			map[string]any{"path": path})
	}
	return Decode(data)
}

// Save writes the document to path, replacing the file atomically.
func (d *Document) Save(path string) error {
	data, err := d.Encode()
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to create temporary file", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to write measurement file", err)
	}
	if err := tmp.Close(); err != nil {
		return cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to close measurement file", err)
	}
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	_ = os.Chmod(tmp.Name(), mode)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return cnserrors.WrapWithContext(cnserrors.ErrCodeInternal, "failed to replace measurement file", err,
			map[string]any{"path": path})
	}
	return nil
}

func childText(el *etree.Element, tag string) string {
	c := el.SelectElement(tag)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Text())
}

func attrFloat(el *etree.Element, key string) (float64, error) {
	s := strings.TrimSpace(el.SelectAttrValue(key, ""))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, cnserrors.WrapWithContext(cnserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("attribute %s of <%s> is not a number", key, el.Tag), err,
			map[string]any{"value": s})
	}
	return v, nil
}

func parseBool(s string, dflt bool) bool {
	switch strings.TrimSpace(s) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	default:
		return dflt
	}
}

func parseList(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, hashSeparator)
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
