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

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/dismine/valentina-sub004/pkg/defaults"
	cnserrors "github.com/dismine/valentina-sub004/pkg/errors"
	"github.com/dismine/valentina-sub004/pkg/lock"
	"github.com/dismine/valentina-sub004/pkg/measurement"
)

const individualV020 = `<?xml version="1.0" encoding="UTF-8"?>
<vit>
    <version>0.2.0</version>
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
        <m name="chest_girth" value="96"/>
        <m name="@half_chest" value="chest_girth/2"/>
    </body-measurements>
</vit>
`

const multisizeSpec = `kind: multisize
unit: cm
notes: test sizes
dimensions:
  - {type: X, min: 146, max: 188, step: 6, base: 176}
  - {type: Y, min: 80, max: 112, step: 4, base: 96}
restrictions:
  - {prior: [182], min: 88, max: 104, exclude: [96]}
measurements:
  - {name: height, value: "176", shifts: [6, 0]}
  - {name: body, separator: true}
  - {name: neck_mid_circ, value: "38", shifts: [0, 1], fullName: Neck circumference}
`

// runCmd runs vmeasure with args and returns what it wrote to stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.Writer = &out
	cmd.ErrWriter = io.Discard
	err := cmd.Run(context.Background(), append([]string{name, "--log-level", "error"}, args...))
	return out.String(), err
}

func writeFile(t *testing.T, dir, file, content string) string {
	t.Helper()
	path := filepath.Join(dir, file)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func decode[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("failed to decode output %q: %v", out, err)
	}
	return v
}

// newMultisize creates a multisize table with the new command.
func newMultisize(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	spec := writeFile(t, dir, "sizes.yaml", multisizeSpec)
	path := filepath.Join(dir, "sizes.vst")
	if _, err := runCmd(t, "new", "--from", spec, path); err != nil {
		t.Fatalf("new failed: %v", err)
	}
	return path
}

func TestConvertCmd(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "jane.vit", individualV020)

	out, err := runCmd(t, "convert", "-t", "json", path)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	report := decode[conversionReport](t, out)
	if report.Kind != "ConversionReport" || len(report.Files) != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	got := report.Files[0]
	if !got.Changed || got.From != "0.2.0" || got.To != measurement.IndividualVersion.String() {
		t.Errorf("unexpected entry: %+v", got)
	}
	if got.Format != "individual" || len(got.Applied) == 0 {
		t.Errorf("unexpected entry: %+v", got)
	}

	backup, err := os.ReadFile(path + defaults.BackupSuffix)
	if err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	if string(backup) != individualV020 {
		t.Error("backup differs from the original")
	}
	if _, err := os.Stat(lock.Path(path)); !os.IsNotExist(err) {
		t.Errorf("lock file left behind: %v", err)
	}

	doc, err := measurement.Load(path)
	if err != nil {
		t.Fatalf("converted file does not load: %v", err)
	}
	if !doc.Has("bust_circ") {
		t.Errorf("legacy name not renamed: %v", doc.ListAll())
	}

	// second run has nothing to do
	out, err = runCmd(t, "convert", "-t", "json", "--keep-backup=false", path)
	if err != nil {
		t.Fatalf("second convert failed: %v", err)
	}
	if report := decode[conversionReport](t, out); report.Files[0].Changed {
		t.Errorf("expected unchanged file: %+v", report.Files[0])
	}
}

func TestConvertCmd_Failures(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "jane.vit", individualV020)
	missing := filepath.Join(dir, "missing.vit")

	out, err := runCmd(t, "convert", "-t", "json", good, missing)
	if err == nil {
		t.Fatal("expected an error for the missing file")
	}
	report := decode[conversionReport](t, out)
	if len(report.Files) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(report.Files))
	}
	if !report.Files[0].Changed || report.Files[0].Error != "" {
		t.Errorf("good file not converted: %+v", report.Files[0])
	}
	if report.Files[1].Error == "" {
		t.Errorf("missing file not reported: %+v", report.Files[1])
	}

	if _, err := runCmd(t, "convert"); !cnserrors.IsCode(err, cnserrors.ErrCodeInvalidRequest) {
		t.Errorf("expected INVALID_REQUEST without files, got %v", err)
	}
	if _, err := runCmd(t, "convert", "-t", "xml", good); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestConvertCmd_Locked(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "jane.vit", individualV020)

	h, ok, err := lock.TryLock(path)
	if err != nil || !ok {
		t.Fatalf("failed to lock: ok=%v err=%v", ok, err)
	}
	defer h.Unlock()

	out, err := runCmd(t, "convert", "-t", "json", path)
	if err == nil {
		t.Fatal("expected an error for a locked file")
	}
	if report := decode[conversionReport](t, out); report.Files[0].Changed {
		t.Errorf("locked file was converted: %+v", report.Files[0])
	}

	if _, err := runCmd(t, "--ignore-lock", "convert", "-t", "json", path); err != nil {
		t.Fatalf("convert with --ignore-lock failed: %v", err)
	}
}

func TestValidateCmd(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "jane.vit", individualV020)
	if _, err := runCmd(t, "convert", path); err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	broken := writeFile(t, dir, "broken.vit", `<vit><version>0.5.1</version><bogus/></vit>`)

	out, err := runCmd(t, "validate", "-t", "json", path, broken)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	report := decode[validationReport](t, out)
	if len(report.Files) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(report.Files))
	}
	if !report.Files[0].Valid || !report.Files[0].Current {
		t.Errorf("converted file should be valid and current: %+v", report.Files[0])
	}
	if report.Files[1].Valid || report.Files[1].ErrorCode != string(cnserrors.ErrCodeSchemaValidation) {
		t.Errorf("broken file should fail schema validation: %+v", report.Files[1])
	}

	_, err = runCmd(t, "validate", "--fail-on-error", broken)
	if !cnserrors.IsCode(err, cnserrors.ErrCodeSchemaValidation) {
		t.Errorf("expected SCHEMA_VALIDATION, got %v", err)
	}
}

func TestNewCmd(t *testing.T) {
	path := newMultisize(t)

	doc, err := measurement.Load(path)
	if err != nil {
		t.Fatalf("failed to load new file: %v", err)
	}
	if doc.Kind() != measurement.KindMultisize || doc.Notes() != "test sizes" {
		t.Errorf("unexpected document: kind=%s notes=%q", doc.Kind(), doc.Notes())
	}
	if want := []string{"height", "neck_mid_circ"}; !slices.Equal(doc.ListAll(), want) || doc.Len() != 3 {
		t.Errorf("ListAll() = %v (len %d), want %v and a separator", doc.ListAll(), doc.Len(), want)
	}
	neck, _ := doc.Measurement("neck_mid_circ")
	if neck.Base != 38 || neck.ShiftB != 1 || neck.FullName != "Neck circumference" {
		t.Errorf("unexpected measurement: %+v", neck)
	}
	if _, ok := doc.Restriction(measurement.RestrictionHash(182)); !ok {
		t.Error("restriction not stored")
	}

	spec := writeFile(t, t.TempDir(), "sizes.yaml", multisizeSpec)
	if _, err := runCmd(t, "new", "--from", spec, path); !cnserrors.IsCode(err, cnserrors.ErrCodeInvalidRequest) {
		t.Errorf("expected INVALID_REQUEST for an existing file, got %v", err)
	}
	if _, err := runCmd(t, "new", "--force", "--from", spec, path); err != nil {
		t.Errorf("new --force failed: %v", err)
	}
}

func TestTableSpec_Build_Errors(t *testing.T) {
	tests := []struct {
		name string
		spec TableSpec
	}{
		{name: "unknown kind", spec: TableSpec{Kind: "other", Unit: "cm"}},
		{name: "unknown unit", spec: TableSpec{Kind: measurement.KindIndividual, Unit: "km"}},
		{name: "individual with dimensions", spec: TableSpec{Kind: measurement.KindIndividual, Unit: "cm",
			Dimensions: []measurement.Dimension{{Type: measurement.DimensionX, Min: 1, Max: 2, Step: 1, Base: 1}}}},
		{name: "multisize with personal", spec: TableSpec{Kind: measurement.KindMultisize, Unit: "cm",
			Personal: &measurement.Personal{Customer: "Jane"}}},
		{name: "individual with shifts", spec: TableSpec{Kind: measurement.KindIndividual, Unit: "cm",
			Measurements: []MeasurementSpec{{Name: "a", Value: "1", Shifts: []float64{1}}}}},
		{name: "duplicate names", spec: TableSpec{Kind: measurement.KindIndividual, Unit: "cm",
			Measurements: []MeasurementSpec{{Name: "a"}, {Name: "a"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.spec.Build(); err == nil {
				t.Error("Build() expected an error")
			}
		})
	}
}

func TestEditCmd(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "jane.vit", individualV020)

	out, err := runCmd(t, "edit", "-t", "json",
		"--set", "bust_circ=100",
		"--add", "@neck=max(bust_circ/2, 40)",
		"--rename", "@half_chest=@half_bust",
		"--description", "@neck=collar width",
		path)
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	result := decode[changeSet](t, out)
	if !result.Saved || result.Kind != "ChangeSet" {
		t.Fatalf("unexpected change set: %+v", result)
	}
	var paths []string
	for _, c := range result.Changes {
		paths = append(paths, c.Path)
	}
	for _, want := range []string{"m/@half_bust", "m/@half_chest", "m/@neck", "m/bust_circ/value"} {
		if !slices.Contains(paths, want) {
			t.Errorf("change %q missing from %v", want, paths)
		}
	}

	doc, err := measurement.Load(path)
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	neck, ok := doc.Measurement("@neck")
	if !ok || neck.Formula != "max(bust_circ/2, 40)" || neck.Description != "collar width" {
		t.Errorf("unexpected @neck: %+v", neck)
	}
	if m, _ := doc.Measurement("bust_circ"); m.Formula != "100" {
		t.Errorf("bust_circ = %q, want 100", m.Formula)
	}
	if _, err := os.Stat(path + defaults.BackupSuffix); err != nil {
		t.Errorf("expected a backup of the upgraded file: %v", err)
	}

	_, err = runCmd(t, "edit", "--set", "missing=1", path)
	if !cnserrors.IsCode(err, cnserrors.ErrCodeMeasurementNotFound) {
		t.Errorf("expected MEASUREMENT_NOT_FOUND, got %v", err)
	}
}

func TestEditCmd_DryRunAndSaveAs(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "jane.vit", individualV020)

	out, err := runCmd(t, "edit", "-t", "json", "--dry-run", "--notes", "draft", path)
	if err != nil {
		t.Fatalf("edit --dry-run failed: %v", err)
	}
	if result := decode[changeSet](t, out); result.Saved || len(result.Changes) != 1 {
		t.Errorf("unexpected dry run result: %+v", result)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != individualV020 {
		t.Errorf("dry run modified the file: %v", err)
	}

	target := filepath.Join(dir, "copy.vit")
	if _, err := runCmd(t, "edit", "--notes", "final", "--save-as", target, path); err != nil {
		t.Fatalf("edit --save-as failed: %v", err)
	}
	doc, err := measurement.Load(target)
	if err != nil || doc.Notes() != "final" {
		t.Errorf("save-as target not written: %v", err)
	}
	if _, err := os.Stat(lock.Path(target)); !os.IsNotExist(err) {
		t.Errorf("lock of target left behind: %v", err)
	}
}

func TestEditCmd_ReadOnly(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "jane.vit", individualV020)

	if _, err := runCmd(t, "edit", "--read-only", path); err != nil {
		t.Fatalf("failed to lock table: %v", err)
	}

	_, err := runCmd(t, "edit", "--set", "bust_circ=1", path)
	if !cnserrors.IsCode(err, cnserrors.ErrCodeReadOnly) {
		t.Fatalf("expected READ_ONLY, got %v", err)
	}

	if _, err := runCmd(t, "edit", "--read-only=false", "--set", "bust_circ=1", path); err != nil {
		t.Fatalf("edit with unlock failed: %v", err)
	}
	doc, err := measurement.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if m, _ := doc.Measurement("bust_circ"); doc.ReadOnly() || m.Formula != "1" {
		t.Errorf("unexpected state: readOnly=%v formula=%q", doc.ReadOnly(), m.Formula)
	}
}

func TestEditCmd_Multisize(t *testing.T) {
	path := newMultisize(t)

	_, err := runCmd(t, "edit",
		"--set", "neck_mid_circ=39",
		"--shift", "neck_mid_circ=0.5,1.5",
		"--correction", "neck_mid_circ=182,100:41",
		"--move", "neck_mid_circ=top",
		"--dimension-base", "X=182",
		path)
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	doc, err := measurement.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	neck, _ := doc.Measurement("neck_mid_circ")
	if neck.Base != 39 || neck.ShiftA != 0.5 || neck.ShiftB != 1.5 {
		t.Errorf("unexpected measurement: %+v", neck)
	}
	if v := neck.Corrections[measurement.CorrectionHash(182, 100, 0)]; v != 41 {
		t.Errorf("correction = %v, want 41", v)
	}
	if doc.Index("neck_mid_circ") != 0 {
		t.Errorf("measurement not moved: %v", doc.ListAll())
	}
	if x, _ := doc.Dimension(measurement.DimensionX); x.Base != 182 {
		t.Errorf("dimension base = %v, want 182", x.Base)
	}

	tests := []struct {
		name string
		args []string
	}{
		{name: "bad base", args: []string{"--set", "height=abc"}},
		{name: "too many shifts", args: []string{"--shift", "height=1,2,3,4"}},
		{name: "correction without value", args: []string{"--correction", "height=182"}},
		{name: "bad move", args: []string{"--move", "height=left"}},
		{name: "unknown dimension", args: []string{"--dimension-base", "Q=1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"edit"}, tt.args...)
			if _, err := runCmd(t, append(args, path)...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestGradeCmd(t *testing.T) {
	path := newMultisize(t)

	out, err := runCmd(t, "grade", "-t", "json", "--at", "182,100", path)
	if err != nil {
		t.Fatalf("grade failed: %v", err)
	}
	report := decode[gradationReport](t, out)
	if report.Kind != "GradationTable" || report.Metadata["source"] != path {
		t.Errorf("unexpected header: %+v", report.Header)
	}
	want := map[string]float64{"height": 182, "neck_mid_circ": 39}
	if len(report.Table.Values) != len(want) {
		t.Fatalf("expected %d values, got %+v", len(want), report.Table.Values)
	}
	for _, v := range report.Table.Values {
		if !v.OK || math.Abs(v.Value-want[v.Name]) > 1e-9 {
			t.Errorf("%s = %v (ok=%v), want %v", v.Name, v.Value, v.OK, want[v.Name])
		}
	}

	out, err = runCmd(t, "grade", "-t", "json", "--only", "neck*", "--unit", "mm", path)
	if err != nil {
		t.Fatalf("grade --only failed: %v", err)
	}
	report = decode[gradationReport](t, out)
	if len(report.Table.Values) != 1 || math.Abs(report.Table.Values[0].Value-380) > 1e-9 {
		t.Errorf("unexpected values: %+v", report.Table.Values)
	}

	out, err = runCmd(t, "grade", "-t", "table", path)
	if err != nil {
		t.Fatalf("grade -t table failed: %v", err)
	}
	if !strings.Contains(out, "NAME") || !strings.Contains(out, "neck_mid_circ") {
		t.Errorf("unexpected table output:\n%s", out)
	}
}

func TestGradeCmd_Errors(t *testing.T) {
	path := newMultisize(t)
	tests := []struct {
		name string
		args []string
	}{
		{name: "excluded value", args: []string{"--at", "182,96"}},
		{name: "off grid", args: []string{"--at", "177"}},
		{name: "too many values", args: []string{"--at", "176,96,80"}},
		{name: "bad unit", args: []string{"--unit", "km"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"grade"}, tt.args...)
			if _, err := runCmd(t, append(args, path)...); !cnserrors.IsCode(err, cnserrors.ErrCodeInvalidRequest) {
				t.Errorf("expected INVALID_REQUEST, got %v", err)
			}
		})
	}

	if _, err := runCmd(t, "grade", filepath.Join(t.TempDir(), "missing.vst")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestGradeCmd_Individual(t *testing.T) {
	path := writeFile(t, t.TempDir(), "jane.vit", individualV020)

	out, err := runCmd(t, "grade", "-t", "json", path)
	if err != nil {
		t.Fatalf("grade failed: %v", err)
	}
	report := decode[gradationReport](t, out)
	half, ok := report.Table.Lookup("@half_chest")
	if !ok || !half.OK || half.Value != 48 {
		t.Errorf("unexpected @half_chest: %+v", half)
	}
	if _, err := os.Stat(path + defaults.BackupSuffix); !os.IsNotExist(err) {
		t.Error("grading must not write the file")
	}

	if _, err := runCmd(t, "grade", "--at", "176", path); !cnserrors.IsCode(err, cnserrors.ErrCodeInvalidRequest) {
		t.Errorf("expected INVALID_REQUEST for --at on an individual table, got %v", err)
	}
}

func TestValuesCmd(t *testing.T) {
	path := newMultisize(t)

	out, err := runCmd(t, "values", "-t", "json", path)
	if err != nil {
		t.Fatalf("values failed: %v", err)
	}
	report := decode[dimensionValuesReport](t, out)
	if len(report.Dimensions) != 2 {
		t.Fatalf("expected 2 dimensions, got %d", len(report.Dimensions))
	}
	x := report.Dimensions[0]
	if x.Type != measurement.DimensionX || len(x.Values) != 8 || x.Values[0].Value != 146 {
		t.Errorf("unexpected X values: %+v", x)
	}

	out, err = runCmd(t, "values", "-t", "json", "--dimension", "Y", "--at", "182", path)
	if err != nil {
		t.Fatalf("values --dimension failed: %v", err)
	}
	report = decode[dimensionValuesReport](t, out)
	if len(report.Dimensions) != 1 {
		t.Fatalf("expected 1 dimension, got %d", len(report.Dimensions))
	}
	var got []float64
	var labels []string
	for _, v := range report.Dimensions[0].Values {
		got = append(got, v.Value)
		labels = append(labels, v.Label)
	}
	if want := []float64{88, 92, 100, 104}; !slices.Equal(got, want) {
		t.Errorf("values = %v, want %v", got, want)
	}
	if want := []string{"88", "92", "100", "104"}; !slices.Equal(labels, want) {
		t.Errorf("labels = %v, want %v", labels, want)
	}

	if _, err := runCmd(t, "values", "--dimension", "W", path); !cnserrors.IsCode(err, cnserrors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND for a missing dimension, got %v", err)
	}

	individual := writeFile(t, t.TempDir(), "jane.vit", individualV020)
	if _, err := runCmd(t, "values", individual); !cnserrors.IsCode(err, cnserrors.ErrCodeInvalidRequest) {
		t.Errorf("expected INVALID_REQUEST for an individual table, got %v", err)
	}
}

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"convert", "validate", "new", "edit", "grade", "values", "serve"} {
		if root.Command(name) == nil {
			t.Errorf("expected %s command", name)
		}
	}
	serve := root.Command("serve")
	for _, flag := range []string{"address", "port"} {
		found := false
		for _, f := range serve.Flags {
			if slices.Contains(f.Names(), flag) {
				found = true
			}
		}
		if !found {
			t.Errorf("expected serve flag --%s", flag)
		}
	}
}
