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
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	cnserrors "github.com/dismine/valentina-sub004/pkg/errors"
	"github.com/dismine/valentina-sub004/pkg/measurement"
	"github.com/dismine/valentina-sub004/pkg/serializer"
	"github.com/dismine/valentina-sub004/pkg/session"
	"github.com/dismine/valentina-sub004/pkg/units"
)

// TableSpec describes a new measurement table.
//
//	kind: multisize
//	unit: cm
//	dimensions:
//	  - {type: X, min: 146, max: 188, step: 6, base: 176}
//	measurements:
//	  - {name: height, value: "176", shifts: [6]}
type TableSpec struct {
	Kind              measurement.Kind       `json:"kind" yaml:"kind"`
	Unit              string                 `json:"unit" yaml:"unit"`
	FullCircumference bool                   `json:"fullCircumference,omitempty" yaml:"fullCircumference,omitempty"`
	ReadOnly          bool                   `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
	Notes             string                 `json:"notes,omitempty" yaml:"notes,omitempty"`
	PMSystem          string                 `json:"pmSystem,omitempty" yaml:"pmSystem,omitempty"`
	Personal          *measurement.Personal  `json:"personal,omitempty" yaml:"personal,omitempty"`
	Dimensions        []measurement.Dimension `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	Restrictions      []RestrictionSpec      `json:"restrictions,omitempty" yaml:"restrictions,omitempty"`
	Measurements      []MeasurementSpec      `json:"measurements" yaml:"measurements"`
}

// MeasurementSpec describes one entry of a TableSpec. Value is a formula for
// individual tables and the base value for multisize tables.
type MeasurementSpec struct {
	Name        string    `json:"name" yaml:"name"`
	Separator   bool      `json:"separator,omitempty" yaml:"separator,omitempty"`
	Value       string    `json:"value,omitempty" yaml:"value,omitempty"`
	Shifts      []float64 `json:"shifts,omitempty" yaml:"shifts,omitempty"`
	FullName    string    `json:"fullName,omitempty" yaml:"fullName,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
}

// RestrictionSpec limits a dimension given the values of the dimensions
// before it.
type RestrictionSpec struct {
	Prior   []float64 `json:"prior,omitempty" yaml:"prior,omitempty"`
	Min     float64   `json:"min" yaml:"min"`
	Max     float64   `json:"max" yaml:"max"`
	Exclude []float64 `json:"exclude,omitempty" yaml:"exclude,omitempty"`
}

// Build assembles the document described by s.
func (s *TableSpec) Build() (*measurement.Document, error) {
	unit, err := units.Parse(s.Unit)
	if err != nil {
		return nil, err
	}

	var b *measurement.Builder
	switch s.Kind {
	case measurement.KindIndividual:
		if len(s.Dimensions) > 0 || len(s.Restrictions) > 0 {
			return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest,
				"individual tables have no dimensions or restrictions")
		}
		b = measurement.NewIndividualBuilder(unit)
		if s.Personal != nil {
			b.Personal(*s.Personal)
		}
	case measurement.KindMultisize:
		if s.Personal != nil {
			return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest,
				"multisize tables have no personal information")
		}
		b = measurement.NewMultisizeBuilder(unit, s.Dimensions...)
		for _, r := range s.Restrictions {
			b.Restriction(measurement.NewRestriction(r.Min, r.Max, r.Exclude...), r.Prior...)
		}
	default:
		return nil, cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest, "unknown table kind",
			map[string]any{"kind": string(s.Kind)})
	}

	if s.Notes != "" {
		b.Notes(s.Notes)
	}
	for _, m := range s.Measurements {
		if m.Separator {
			b.Separator(m.Name)
		} else {
			b.Measurement(m.Name, m.Value)
		}
		if len(m.Shifts) > 0 {
			if s.Kind != measurement.KindMultisize || len(m.Shifts) > 3 {
				return nil, cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
					"shifts need a multisize table and at most three values", map[string]any{"name": m.Name})
			}
			var shifts [3]float64
			copy(shifts[:], m.Shifts)
			b.Shifts(m.Name, shifts[0], shifts[1], shifts[2])
		}
		if m.FullName != "" || m.Description != "" {
			b.Describe(m.Name, m.FullName, m.Description)
		}
	}
	if s.ReadOnly {
		b.ReadOnly()
	}

	doc, err := b.Build()
	if err != nil {
		return nil, err
	}
	doc.SetFullCircumference(s.FullCircumference)
	if s.PMSystem != "" {
		doc.SetPMSystem(s.PMSystem)
	}
	return doc, nil
}

func newCmd() *cli.Command {
	return &cli.Command{
		Name:                  "new",
		EnableShellCompletion: true,
		Usage:                 "Create a measurement table from a YAML or JSON description",
		ArgsUsage:             "FILE",
		Description: `Create a new individual (.vit) or multisize (.vst) table.

The description lists the table kind, unit, dimensions and measurements:

  kind: multisize
  unit: cm
  dimensions:
    - {type: X, min: 146, max: 188, step: 6, base: 176}
    - {type: Y, min: 80, max: 112, step: 4, base: 96}
  measurements:
    - {name: height, value: "176", shifts: [6, 0]}
    - {name: "@neck", value: "38", shifts: [0, 1]}

# Examples

  vmeasure new --from sizes.yaml sizes.vst`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "from",
				Aliases:  []string{"f"},
				Required: true,
				Usage:    "Path to the table description (.yaml, .yml or .json)",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Replace an existing file",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return cnserrors.New(cnserrors.ErrCodeInvalidRequest, "exactly one output file is required")
			}
			path := cmd.Args().First()
			if _, err := os.Stat(path); err == nil && !cmd.Bool("force") {
				return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
					"file already exists, use --force to replace it", map[string]any{"path": path})
			}

			from := cmd.String("from")
			spec, err := serializer.FromFile[TableSpec](from)
			if err != nil {
				return fmt.Errorf("failed to load table description from %q: %w", from, err)
			}
			doc, err := spec.Build()
			if err != nil {
				return err
			}

			s, err := session.Create(path, doc, sessionConfig(cmd))
			if err != nil {
				return err
			}
			defer func() {
				if err := s.Close(); err != nil {
					slog.Warn("failed to release lock", "path", path, "error", err)
				}
			}()

			slog.Info("created measurement file",
				"path", path,
				"kind", doc.Kind().String(),
				"measurements", doc.Len())
			return nil
		},
	}
}
