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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	cnserrors "github.com/dismine/valentina-sub004/pkg/errors"
	"github.com/dismine/valentina-sub004/pkg/header"
	"github.com/dismine/valentina-sub004/pkg/measurement"
	"github.com/dismine/valentina-sub004/pkg/session"
)

// changeSet lists what an edit changed.
type changeSet struct {
	header.Header `json:",inline" yaml:",inline"`

	Saved   bool                 `json:"saved" yaml:"saved"`
	Changes []measurement.Change `json:"changes" yaml:"changes"`
}

// Rows implements serializer.Tabular.
func (c changeSet) Rows() ([]string, [][]string) {
	rows := make([][]string, 0, len(c.Changes))
	for _, ch := range c.Changes {
		rows = append(rows, []string{ch.Path, formatChangeValue(ch.Old), formatChangeValue(ch.New)})
	}
	return []string{"PATH", "OLD", "NEW"}, rows
}

func formatChangeValue(v any) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(v)
}

func editCmd() *cli.Command {
	return &cli.Command{
		Name:                      "edit",
		EnableShellCompletion:     true,
		Usage:                     "Change measurements, dimensions and properties of a table",
		ArgsUsage:                 "FILE",
		DisableSliceFlagSeparator: true,
		Description: `Apply edits to a measurement table and save it.

Edits run in this order: unlock, rename, remove, add, set values, shifts,
corrections, moves, descriptions, notes, dimension bases, lock. A read-only
table refuses every edit unless --read-only=false is given.

The changes are printed as a change set. With --dry-run nothing is written.

# Examples

Change a formula and add a custom measurement:
  vmeasure edit --set neck_mid_circ=38 --add "@collar=neck_mid_circ+2" body.vit

Set the shifts of a multisize measurement along the first two dimensions:
  vmeasure edit --shift "neck_mid_circ=0,1" sizes.vst

Override the value at height 182 and chest 100:
  vmeasure edit --correction "neck_mid_circ=182,100:39.5" sizes.vst

Rename and move:
  vmeasure edit --rename "@collar=@collar_width" --move "@collar_width=top" body.vit`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "rename",
				Usage: "Rename a measurement and the formulas using it (OLD=NEW)",
			},
			&cli.StringSliceFlag{
				Name:  "remove",
				Usage: "Remove a measurement or separator",
			},
			&cli.StringSliceFlag{
				Name:  "add",
				Usage: "Append a measurement (NAME=VALUE)",
			},
			&cli.StringSliceFlag{
				Name:  "separator",
				Usage: "Append a separator",
			},
			&cli.StringMapFlag{
				Name:  "set",
				Usage: "Set the formula (individual) or base value (multisize) of a measurement (NAME=VALUE)",
			},
			&cli.StringMapFlag{
				Name:  "shift",
				Usage: "Set the shifts of a multisize measurement (NAME=A[,B[,C]])",
			},
			&cli.StringSliceFlag{
				Name:  "correction",
				Usage: "Set a multisize correction (NAME=A[,B[,C]]:VALUE)",
			},
			&cli.StringMapFlag{
				Name:  "move",
				Usage: "Move a measurement (NAME=top|up|down|bottom)",
			},
			&cli.StringMapFlag{
				Name:  "full-name",
				Usage: "Set the full name of a measurement (NAME=TEXT)",
			},
			&cli.StringMapFlag{
				Name:  "description",
				Usage: "Set the description of a measurement (NAME=TEXT)",
			},
			&cli.StringFlag{
				Name:  "notes",
				Usage: "Replace the table notes",
			},
			&cli.StringMapFlag{
				Name:  "dimension-base",
				Usage: "Set the base value of a dimension (X|Y|W|Z=VALUE)",
			},
			&cli.BoolFlag{
				Name:  "read-only",
				Usage: "Mark the table read-only, or writable with --read-only=false",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Print the changes without saving",
			},
			&cli.StringFlag{
				Name:  "save-as",
				Usage: "Save to a new file instead of replacing FILE",
			},
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}
			if cmd.NArg() != 1 {
				return cnserrors.New(cnserrors.ErrCodeInvalidRequest, "exactly one file is required")
			}
			path := cmd.Args().First()

			s, err := session.Open(ctx, path, sessionConfig(cmd))
			if err != nil {
				return err
			}
			defer func() {
				if err := s.Close(); err != nil {
					slog.Warn("failed to release lock", "path", path, "error", err)
				}
			}()

			doc := s.Document()
			before := doc.Clone()
			if err := applyEdits(cmd, doc); err != nil {
				return err
			}

			result := changeSet{Changes: measurement.Compare(before, doc)}
			result.Init(header.KindChangeSet, version, header.WithSource(path))

			if !cmd.Bool("dry-run") && (len(result.Changes) > 0 || s.Conversion().Changed()) {
				if target := cmd.String("save-as"); target != "" {
					err = s.SaveAs(target)
					result.Metadata["target"] = target
				} else {
					err = s.Save()
				}
				if err != nil {
					return err
				}
				result.Saved = true
			}

			slog.Info("edited measurement file",
				"path", path,
				"changes", len(result.Changes),
				"saved", result.Saved)
			return writeOutput(ctx, cmd, result)
		},
	}
}

// applyEdits applies the edit flags of cmd to doc in a fixed order.
func applyEdits(cmd *cli.Command, doc *measurement.Document) error {
	if cmd.IsSet("read-only") && !cmd.Bool("read-only") {
		doc.SetReadOnly(false)
	}
	if doc.ReadOnly() && hasEdits(cmd) {
		return cnserrors.New(cnserrors.ErrCodeReadOnly, "table is read-only, use --read-only=false to unlock it")
	}

	var errs []error
	for _, pair := range cmd.StringSlice("rename") {
		from, to, err := splitPair(pair)
		if err == nil {
			err = doc.Rename(from, to)
		}
		errs = append(errs, err)
	}
	for _, name := range cmd.StringSlice("remove") {
		errs = append(errs, doc.Remove(name))
	}
	for _, pair := range cmd.StringSlice("add") {
		name, value, err := splitPair(pair)
		if err == nil {
			err = doc.AddMeasurement(name, value)
		}
		errs = append(errs, err)
	}
	for _, name := range cmd.StringSlice("separator") {
		errs = append(errs, doc.AddSeparator(name))
	}
	eachSorted(cmd.StringMap("set"), func(name, value string) {
		errs = append(errs, setValue(doc, name, value))
	})
	eachSorted(cmd.StringMap("shift"), func(name, value string) {
		errs = append(errs, setShifts(doc, name, value))
	})
	for _, item := range cmd.StringSlice("correction") {
		errs = append(errs, setCorrection(doc, item))
	}
	eachSorted(cmd.StringMap("move"), func(name, where string) {
		errs = append(errs, move(doc, name, where))
	})
	eachSorted(cmd.StringMap("full-name"), func(name, text string) {
		errs = append(errs, doc.SetFullName(name, text))
	})
	eachSorted(cmd.StringMap("description"), func(name, text string) {
		errs = append(errs, doc.SetDescription(name, text))
	})
	if cmd.IsSet("notes") {
		doc.SetNotes(cmd.String("notes"))
	}
	eachSorted(cmd.StringMap("dimension-base"), func(dim, value string) {
		errs = append(errs, setDimensionBase(doc, dim, value))
	})
	if err := errors.Join(errs...); err != nil {
		return err
	}

	if cmd.IsSet("read-only") && cmd.Bool("read-only") {
		doc.SetReadOnly(true)
	}
	return nil
}

// hasEdits reports whether cmd requests any change besides unlocking.
func hasEdits(cmd *cli.Command) bool {
	for _, f := range []string{"rename", "remove", "add", "separator", "set", "shift", "correction",
		"move", "full-name", "description", "notes", "dimension-base"} {
		if cmd.IsSet(f) {
			return true
		}
	}
	return false
}

func eachSorted(m map[string]string, fn func(k, v string)) {
	for _, k := range slices.Sorted(maps.Keys(m)) {
		fn(k, m[k])
	}
}

func splitPair(pair string) (string, string, error) {
	k, v, ok := strings.Cut(pair, "=")
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return "", "", cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
			"expected NAME=VALUE", map[string]any{"value": pair})
	}
	return k, strings.TrimSpace(v), nil
}

// parseFloats parses a comma separated list of at most limit numbers.
func parseFloats(s string, limit int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) > limit {
		return nil, cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("at most %d values expected", limit), map[string]any{"value": s})
	}
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, cnserrors.WrapWithContext(cnserrors.ErrCodeInvalidRequest, "invalid number", err,
				map[string]any{"value": p})
		}
		out[i] = v
	}
	return out, nil
}

func requireMultisize(doc *measurement.Document, op string) error {
	if doc.Kind() != measurement.KindMultisize {
		return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
			op+" needs a multisize table", map[string]any{"kind": doc.Kind().String()})
	}
	return nil
}

func setValue(doc *measurement.Document, name, value string) error {
	if doc.Kind() != measurement.KindMultisize {
		return doc.SetValue(name, value)
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return cnserrors.WrapWithContext(cnserrors.ErrCodeInvalidRequest,
			"multisize base value must be a number", err, map[string]any{"name": name, "value": value})
	}
	return doc.SetBaseValue(name, v)
}

func setShifts(doc *measurement.Document, name, value string) error {
	if err := requireMultisize(doc, "shift"); err != nil {
		return err
	}
	shifts, err := parseFloats(value, 3)
	if err != nil {
		return err
	}
	setters := []func(string, float64) error{doc.SetShiftA, doc.SetShiftB, doc.SetShiftC}
	for i, v := range shifts {
		if err := setters[i](name, v); err != nil {
			return err
		}
	}
	return nil
}

func setCorrection(doc *measurement.Document, item string) error {
	if err := requireMultisize(doc, "correction"); err != nil {
		return err
	}
	name, rest, err := splitPair(item)
	if err != nil {
		return err
	}
	coords, value, ok := strings.Cut(rest, ":")
	if !ok {
		return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
			"expected NAME=A[,B[,C]]:VALUE", map[string]any{"value": item})
	}
	at, err := parseFloats(coords, 3)
	if err != nil {
		return err
	}
	v, err := parseFloats(value, 1)
	if err != nil {
		return err
	}
	var c [3]float64
	copy(c[:], at)
	return doc.SetCorrection(name, c[0], c[1], c[2], v[0])
}

func move(doc *measurement.Document, name, where string) error {
	switch strings.ToLower(where) {
	case "top":
		return doc.MoveTop(name)
	case "up":
		return doc.MoveUp(name)
	case "down":
		return doc.MoveDown(name)
	case "bottom":
		return doc.MoveBottom(name)
	default:
		return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
			"move target must be top, up, down or bottom", map[string]any{"name": name, "target": where})
	}
}

func setDimensionBase(doc *measurement.Document, dim, value string) error {
	if err := requireMultisize(doc, "dimension-base"); err != nil {
		return err
	}
	t, err := measurement.ParseDimensionType(dim)
	if err != nil {
		return err
	}
	v, err := parseFloats(value, 1)
	if err != nil {
		return err
	}
	return doc.SetDimensionBase(t, v[0])
}
