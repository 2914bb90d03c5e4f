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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/beevik/etree"
	"github.com/dismine/valentina-sub004/pkg/defaults"
	cnserrors "github.com/dismine/valentina-sub004/pkg/errors"
	"github.com/dismine/valentina-sub004/pkg/version"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const individualV020 = `<?xml version="1.0" encoding="UTF-8"?>
<vit>
    <version>0.2.0</version>
    <notes>old file</notes>
    <unit>cm</unit>
    <personal>
        <family-name>Doe</family-name>
        <given-name>Jane</given-name>
        <birth-date>1990-04-01</birth-date>
        <sex>F</sex>
        <email>jane@example.com</email>
    </personal>
    <body-measurements>
        <m name="height" value="176"/>
        <m name="chest_girth" value="96" full_name="Chest"/>
        <m name="@half_chest" value="chest_girth/2 + chest_girth_x"/>
    </body-measurements>
</vit>
`

const multisizeV030 = `<?xml version="1.0" encoding="UTF-8"?>
<vst>
    <version>0.3.0</version>
    <unit>cm</unit>
    <size base="50"/>
    <height base="176"/>
    <personal>
        <family-name/>
        <given-name/>
        <birth-date>1980-01-01</birth-date>
        <sex>male</sex>
        <email/>
    </personal>
    <body-measurements>
        <m name="waist_girth" base="80" size_increase="2" height_increase="0.5" full_name="Waist"/>
        <m name="@custom" base="10"/>
    </body-measurements>
</vst>
`

const templateV100 = `<template><version>1.0.0</version><lines>` +
	`<line text="%pLetter%" alignment="4" bold="true"/><line text="x" alignment="2"/><line text="y"/>` +
	`</lines></template>`

const watermarkV100 = `<watermark><version>1.0.0</version><opacity>20</opacity>` +
	`<text show="true" text="DRAFT" rotation="45" font="Sans"/></watermark>`

const layoutV010 = `<layout><version>0.1.0</version><properties><unit>cm</unit></properties><pieces>` +
	`<piece id="front" name="Front"/><piece name="Back"/>` +
	`<piece id="6ba7b810-9dad-11d1-80b4-00c04fd430c8" name="Sleeve"/>` +
	`</pieces></layout>`

func mustParse(t *testing.T, data []byte) *etree.Document {
	t.Helper()
	doc, err := ParseDocument(data)
	require.NoError(t, err)
	return doc
}

func attr(t *testing.T, doc *etree.Document, path, name string) string {
	t.Helper()
	el := doc.FindElement(path)
	require.NotNil(t, el, "element %s", path)
	a := el.SelectAttr(name)
	require.NotNil(t, a, "attribute %s of %s", name, path)
	return a.Value
}

func elementText(t *testing.T, doc *etree.Document, path string) string {
	t.Helper()
	el := doc.FindElement(path)
	require.NotNil(t, el, "element %s", path)
	return el.Text()
}

func TestFormats_Check(t *testing.T) {
	for _, f := range Formats() {
		t.Run(f.Name, func(t *testing.T) {
			assert.NoError(t, f.Check())
		})
	}
}

func TestFormat_Check_Invalid(t *testing.T) {
	noop := func(*etree.Document) error { return nil }
	v := version.MustParse

	tests := []struct {
		name   string
		format *Format
	}{
		{"no name", &Format{RootTag: "x", Min: v("1.0.0"), Max: v("1.0.0")}},
		{"max below min", &Format{Name: "watermark", RootTag: "watermark", Min: v("1.1.0"), Max: v("1.0.0")}},
		{"gap", &Format{Name: "watermark", RootTag: "watermark", Min: v("1.0.0"), Max: v("1.1.0"),
			Patches: []Patch{{From: v("1.0.1"), To: v("1.1.0"), Apply: noop}}}},
		{"backward", &Format{Name: "watermark", RootTag: "watermark", Min: v("1.0.0"), Max: v("1.1.0"),
			Patches: []Patch{{From: v("1.0.0"), To: v("1.0.0"), Apply: noop}}}},
		{"missing transform", &Format{Name: "watermark", RootTag: "watermark", Min: v("1.0.0"), Max: v("1.1.0"),
			Patches: []Patch{{From: v("1.0.0"), To: v("1.1.0")}}}},
		{"chain short of max", &Format{Name: "watermark", RootTag: "watermark", Min: v("1.0.0"), Max: v("1.1.0")}},
		{"no schema", &Format{Name: "watermark", RootTag: "watermark", Min: v("1.0.0"), Max: v("1.2.0"),
			Patches: []Patch{{From: v("1.0.0"), To: v("1.2.0"), Apply: noop}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.format.Check())
		})
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    *Format
		wantErr bool
	}{
		{"individual", individualV020, Individual, false},
		{"multisize", multisizeV030, Multisize, false},
		{"template", templateV100, LabelTemplate, false},
		{"watermark", watermarkV100, Watermark, false},
		{"layout", layoutV010, Layout, false},
		{"unknown", "<pattern/>", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Detect(mustParse(t, []byte(tt.doc)))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, cnserrors.IsCode(err, cnserrors.ErrCodeInvalidRequest))
				return
			}
			require.NoError(t, err)
			assert.Same(t, tt.want, f)
		})
	}
}

func TestByName(t *testing.T) {
	f, err := ByName("multisize")
	require.NoError(t, err)
	assert.Same(t, Multisize, f)

	_, err = ByName("pattern")
	assert.True(t, cnserrors.IsCode(err, cnserrors.ErrCodeNotFound))
}

func TestConvert_IndividualFromOldest(t *testing.T) {
	c := New(Individual)
	out, res, err := c.ConvertBytes(context.Background(), []byte(individualV020))
	require.NoError(t, err)

	assert.Equal(t, "individual", res.Format)
	assert.Equal(t, "0.2.0", res.From.String())
	assert.Equal(t, "0.5.1", res.To.String())
	assert.Equal(t, Individual.Versions()[1:], res.Applied)
	assert.True(t, res.Changed())

	doc := mustParse(t, out)
	assert.Equal(t, "0.5.1", elementText(t, doc, "/vit/version"))
	assert.Equal(t, "false", elementText(t, doc, "/vit/read-only"))
	assert.Equal(t, defaults.PatternMakingSystem, elementText(t, doc, "/vit/pm_system"))
	assert.Equal(t, "Jane Doe", elementText(t, doc, "/vit/personal/customer"))
	assert.Equal(t, "female", elementText(t, doc, "/vit/personal/gender"))
	assert.Nil(t, doc.FindElement("/vit/personal/given-name"))
	assert.Nil(t, doc.FindElement("/vit/personal/sex"))

	assert.Equal(t, "X", attr(t, doc, "//m[@name='height']", "dimension"))
	assert.Equal(t, "Y", attr(t, doc, "//m[@name='bust_circ']", "dimension"))
	assert.Equal(t, "Chest", attr(t, doc, "//m[@name='bust_circ']", "full_name"))
	assert.Equal(t, "bust_circ/2 + chest_girth_x", attr(t, doc, "//m[@name='@half_chest']", "value"))
	assert.Nil(t, doc.FindElement("//m[@name='chest_girth']"))

	names := []string{}
	for _, el := range doc.Root().ChildElements() {
		names = append(names, el.Tag)
	}
	assert.Equal(t, []string{"version", "read-only", "notes", "unit", "pm_system", "personal", "body-measurements"}, names)
}

// Resuming the chain from any intermediate checkpoint runs exactly the
// remaining steps and ends in the same document.
func TestConvert_ResumeFromEveryCheckpoint(t *testing.T) {
	tests := []struct {
		name   string
		format *Format
		doc    string
	}{
		{"individual", Individual, individualV020},
		{"multisize", Multisize, multisizeV030},
		{"template", LabelTemplate, templateV100},
		{"watermark", Watermark, watermarkV100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkpoints := map[version.Version][]byte{}
			c := New(tt.format, WithCheckpointer(CheckpointFunc(
				func(_ context.Context, v version.Version, doc *etree.Document) error {
					data, err := Serialize(doc.Copy())
					if err != nil {
						return err
					}
					checkpoints[v] = data
					return nil
				})))

			final, res, err := c.ConvertBytes(context.Background(), []byte(tt.doc))
			require.NoError(t, err)
			require.Len(t, checkpoints, len(tt.format.Patches))
			assert.Equal(t, final, checkpoints[tt.format.Max])

			versions := tt.format.Versions()
			for i, v := range versions[1:] {
				resumed, rres, err := New(tt.format).ConvertBytes(context.Background(), checkpoints[v])
				require.NoError(t, err, "resume from %s", v)
				assert.Equal(t, v, rres.From)
				assert.Equal(t, res.Applied[i+1:], append([]version.Version{}, rres.Applied...), "resume from %s", v)
				assert.Equal(t, string(final), string(resumed), "resume from %s", v)
			}
		})
	}
}

func TestConvert_IdempotentAtMax(t *testing.T) {
	c := New(Individual)
	current, _, err := c.ConvertBytes(context.Background(), []byte(individualV020))
	require.NoError(t, err)

	out, res, err := c.ConvertBytes(context.Background(), current)
	require.NoError(t, err)
	assert.Empty(t, res.Applied)
	assert.False(t, res.Changed())
	assert.Equal(t, current, out)

	doc := mustParse(t, current)
	before := doc.Copy()
	res, err = c.Convert(context.Background(), doc)
	require.NoError(t, err)
	assert.Empty(t, res.Applied)

	a, err := before.WriteToString()
	require.NoError(t, err)
	b, err := doc.WriteToString()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestConvert_Multisize(t *testing.T) {
	out, res, err := New(Multisize).ConvertBytes(context.Background(), []byte(multisizeV030))
	require.NoError(t, err)
	assert.Equal(t, "0.5.2", res.To.String())
	assert.Len(t, res.Applied, 6)

	doc := mustParse(t, out)
	assert.Nil(t, doc.FindElement("/vst/personal"))
	assert.Nil(t, doc.FindElement("/vst/size"))
	assert.Nil(t, doc.FindElement("/vst/height"))
	assert.NotNil(t, doc.FindElement("/vst/restrictions"))
	assert.Equal(t, "false", attr(t, doc, "/vst/dimensions", "fullCircumference"))

	x := "/vst/dimensions/dimension[@type='X']"
	assert.Equal(t, "176", attr(t, doc, x, "base"))
	assert.Equal(t, "50", attr(t, doc, x, "min"))
	assert.Equal(t, "200", attr(t, doc, x, "max"))
	assert.Equal(t, "6", attr(t, doc, x, "step"))
	assert.Equal(t, "true", attr(t, doc, x, "measurement"))

	y := "/vst/dimensions/dimension[@type='Y']"
	assert.Equal(t, "50", attr(t, doc, y, "base"))
	assert.Equal(t, "22", attr(t, doc, y, "min"))
	assert.Equal(t, "72", attr(t, doc, y, "max"))
	assert.Equal(t, "2", attr(t, doc, y, "step"))

	m := "//m[@name='waist_circ']"
	assert.Equal(t, "80", attr(t, doc, m, "base"))
	assert.Equal(t, "0.5", attr(t, doc, m, "shiftA"))
	assert.Equal(t, "2", attr(t, doc, m, "shiftB"))
	assert.Nil(t, doc.FindElement(m).SelectAttr("size_increase"))
}

func TestConvert_Siblings(t *testing.T) {
	t.Run("template", func(t *testing.T) {
		out, _, err := New(LabelTemplate).ConvertBytes(context.Background(), []byte(templateV100))
		require.NoError(t, err)
		doc := mustParse(t, out)
		lines := doc.FindElements("/template/lines/line")
		require.Len(t, lines, 3)
		assert.Equal(t, "center", lines[0].SelectAttrValue("alignment", ""))
		assert.Equal(t, "right", lines[1].SelectAttrValue("alignment", ""))
		assert.Nil(t, lines[2].SelectAttr("alignment"))
	})

	t.Run("watermark", func(t *testing.T) {
		before := testutil.ToFloat64(patchesApplied.WithLabelValues("watermark"))
		out, _, err := New(Watermark).ConvertBytes(context.Background(), []byte(watermarkV100))
		require.NoError(t, err)
		assert.Equal(t, "black", attr(t, mustParse(t, out), "/watermark/text", "color"))
		assert.Equal(t, before+1, testutil.ToFloat64(patchesApplied.WithLabelValues("watermark")))
	})

	t.Run("layout", func(t *testing.T) {
		out, _, err := New(Layout).ConvertBytes(context.Background(), []byte(layoutV010))
		require.NoError(t, err)
		pieces := mustParse(t, out).FindElements("/layout/pieces/piece")
		require.Len(t, pieces, 3)

		assert.Equal(t, uuid.NewSHA1(uuid.NameSpaceOID, []byte("front")).String(), pieces[0].SelectAttrValue("uid", ""))
		_, err = uuid.Parse(pieces[1].SelectAttrValue("uid", ""))
		assert.NoError(t, err)
		assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", pieces[2].SelectAttrValue("uid", ""))
		for _, p := range pieces {
			assert.Nil(t, p.SelectAttr("id"))
		}
	})
}

func TestConvert_UnsupportedVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{"below min", "0.1.0"},
		{"above max", "0.6.0"},
		{"not released", "0.3.4"},
		{"malformed", "zero"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := bytes.Replace([]byte(individualV020), []byte("<version>0.2.0</version>"),
				[]byte("<version>"+tt.version+"</version>"), 1)
			_, _, err := New(Individual).ConvertBytes(context.Background(), doc)
			require.Error(t, err)
			assert.True(t, cnserrors.IsCode(err, cnserrors.ErrCodeUnsupportedVersion), "got %v", err)
		})
	}

	t.Run("missing version tag", func(t *testing.T) {
		_, _, err := New(Watermark).ConvertBytes(context.Background(), []byte("<watermark><opacity>1</opacity></watermark>"))
		assert.True(t, cnserrors.IsCode(err, cnserrors.ErrCodeUnsupportedVersion))
	})
}

func TestConvert_WrongRoot(t *testing.T) {
	_, _, err := New(Multisize).ConvertBytes(context.Background(), []byte(individualV020))
	require.Error(t, err)
	assert.True(t, cnserrors.IsCode(err, cnserrors.ErrCodeInvalidRequest))
}

func TestConvert_SchemaValidationFailure(t *testing.T) {
	doc := bytes.Replace([]byte(individualV020), []byte("<unit>cm</unit>"), []byte("<unit>px</unit>"), 1)
	_, res, err := New(Individual).ConvertBytes(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, cnserrors.IsCode(err, cnserrors.ErrCodeSchemaValidation))
	assert.Len(t, res.Applied, len(Individual.Patches))

	var se *cnserrors.StructuredError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Context, "line")
	assert.Equal(t, "/vit/unit[1]", se.Context["path"])
}

func TestConvert_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, res, err := New(Individual).ConvertBytes(ctx, []byte(individualV020))
	require.Error(t, err)
	assert.Empty(t, res.Applied)
}

func TestConvert_CheckpointFailure(t *testing.T) {
	boom := cnserrors.New(cnserrors.ErrCodeInternal, "disk full")
	c := New(Watermark, WithCheckpointer(CheckpointFunc(
		func(context.Context, version.Version, *etree.Document) error { return boom })))

	_, _, err := c.ConvertBytes(context.Background(), []byte(watermarkV100))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestDowngrade(t *testing.T) {
	current, _, err := New(Individual).ConvertBytes(context.Background(), []byte(individualV020))
	require.NoError(t, err)
	lagging := bytes.Replace(current, []byte("<version>0.5.1</version>"), []byte("<version>0.5.0</version>"), 1)

	var persisted version.Version
	c := New(Individual, WithCheckpointer(CheckpointFunc(
		func(_ context.Context, v version.Version, _ *etree.Document) error {
			persisted = v
			return nil
		})))

	doc := mustParse(t, lagging)
	res, err := c.Downgrade(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, res.Downgraded)
	assert.True(t, res.Changed())
	assert.Equal(t, "0.5.0", res.From.String())
	assert.Equal(t, "0.5.1", res.To.String())
	assert.Equal(t, Individual.Max, persisted)
	assert.Equal(t, "0.5.1", elementText(t, doc, "/vit/version"))
}

func TestLegacyGridAlignTo(t *testing.T) {
	tests := []struct {
		name string
		grid legacyGrid
		base float64
		want legacyGrid
	}{
		{"aligned", legacyGrid{50, 200, 6}, 176, legacyGrid{50, 200, 6}},
		{"off lattice", legacyGrid{50, 200, 6}, 170, legacyGrid{50, 200, 6}},
		{"shifted", legacyGrid{50, 200, 6}, 173, legacyGrid{53, 197, 6}},
		{"below min", legacyGrid{22, 72, 2}, 20, legacyGrid{20, 72, 2}},
		{"above max", legacyGrid{8, 28, 1}, 30, legacyGrid{8, 30, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.grid.alignTo(tt.base)
			assert.InDelta(t, tt.want.min, got.min, 1e-9)
			assert.InDelta(t, tt.want.max, got.max, 1e-9)
			assert.InDelta(t, tt.want.step, got.step, 1e-9)
		})
	}
}

func TestNormalizeHelpers(t *testing.T) {
	assert.Equal(t, "male", normalizeGender(" M "))
	assert.Equal(t, "female", normalizeGender("Woman"))
	assert.Equal(t, "unknown", normalizeGender("n/a"))

	assert.Equal(t, "998", normalizePMSystem("p998"))
	assert.Equal(t, "12", normalizePMSystem("12"))
	assert.Equal(t, defaults.PatternMakingSystem, normalizePMSystem("pX1"))
	assert.Equal(t, defaults.PatternMakingSystem, normalizePMSystem(""))

	assert.Equal(t, "left", alignmentKeyword("1"))
	assert.Equal(t, "left", alignmentKeyword("0"))
}

func TestIndividualTo050_RenamesSpecialUnits(t *testing.T) {
	doc := mustParse(t, []byte(`<vit><body-measurements><m name="a" value="1" special_units="true"/></body-measurements></vit>`))
	require.NoError(t, individualTo050(doc))
	m := doc.FindElement("//m")
	assert.Equal(t, "true", m.SelectAttrValue("specialUnits", ""))
	assert.Nil(t, m.SelectAttr("special_units"))
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jane.vit")
	require.NoError(t, os.WriteFile(path, []byte(individualV020), 0o644))

	res, err := ConvertFile(context.Background(), path, FileOptions{KeepBackup: true})
	require.NoError(t, err)
	assert.Equal(t, "0.5.1", res.To.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0.5.1", elementText(t, mustParse(t, data), "/vit/version"))

	backup, err := os.ReadFile(path + defaults.BackupSuffix)
	require.NoError(t, err)
	assert.Equal(t, individualV020, string(backup))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), fi.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// Already current: nothing is rewritten.
	res, err = ConvertFile(context.Background(), path, FileOptions{})
	require.NoError(t, err)
	assert.False(t, res.Changed())
	again, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestConvertFile_FailureLeavesOriginal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.vit")
	broken := bytes.Replace([]byte(individualV020), []byte("<unit>cm</unit>"), []byte("<unit>px</unit>"), 1)
	require.NoError(t, os.WriteFile(path, broken, 0o600))

	_, err := ConvertFile(context.Background(), path, FileOptions{KeepBackup: true})
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, broken, data)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestConvertFile_Missing(t *testing.T) {
	_, err := ConvertFile(context.Background(), filepath.Join(t.TempDir(), "nope.vit"), FileOptions{})
	assert.True(t, cnserrors.IsCode(err, cnserrors.ErrCodeNotFound))
}
