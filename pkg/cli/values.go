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
	"maps"
	"slices"
	"strconv"

	"github.com/urfave/cli/v3"
	"golang.org/x/text/language"

	cnserrors "github.com/dismine/valentina-sub004/pkg/errors"
	"github.com/dismine/valentina-sub004/pkg/header"
	"github.com/dismine/valentina-sub004/pkg/measurement"
	"github.com/dismine/valentina-sub004/pkg/session"
)

// dimensionValue is one selectable value of a dimension.
type dimensionValue struct {
	Value float64 `json:"value" yaml:"value"`
	Label string  `json:"label" yaml:"label"`
}

type dimensionValues struct {
	Type   measurement.DimensionType `json:"type" yaml:"type"`
	Name   string                    `json:"name" yaml:"name"`
	Prior  []float64                 `json:"prior,omitempty" yaml:"prior,omitempty"`
	Values []dimensionValue          `json:"values" yaml:"values"`
}

type dimensionValuesReport struct {
	header.Header `json:",inline" yaml:",inline"`

	Dimensions []dimensionValues `json:"dimensions" yaml:"dimensions"`
}

// Rows implements serializer.Tabular.
func (r dimensionValuesReport) Rows() ([]string, [][]string) {
	var rows [][]string
	for _, d := range r.Dimensions {
		for _, v := range d.Values {
			rows = append(rows, []string{string(d.Type), d.Name,
				strconv.FormatFloat(v.Value, 'f', -1, 64), v.Label})
		}
	}
	return []string{"DIMENSION", "NAME", "VALUE", "LABEL"}, rows
}

func valuesCmd() *cli.Command {
	return &cli.Command{
		Name:                  "values",
		EnableShellCompletion: true,
		Usage:                 "List the selectable values of multisize dimensions",
		ArgsUsage:             "FILE",
		Description: `List the values each dimension of a multisize table offers, with their
display labels.

Restrictions depend on the values chosen for the preceding dimensions. Those
are taken from --at and default to the dimension bases.

# Examples

All dimensions with German number formatting:
  vmeasure values --lang de sizes.vst

Chest values available at height 182:
  vmeasure values --dimension Y --at 182 sizes.vst`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dimension",
				Usage: "Only list this dimension (X, Y, W or Z)",
			},
			&cli.FloatSliceFlag{
				Name:  "at",
				Usage: "Values of the preceding dimensions in dimension order",
			},
			&cli.StringFlag{
				Name:  "lang",
				Value: "en",
				Usage: "Language tag used to format labels",
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

			tag, err := language.Parse(cmd.String("lang"))
			if err != nil {
				return cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "invalid language tag", err)
			}

			cfg := sessionConfig(cmd)
			cfg.IgnoreLock = true
			s, err := session.Open(ctx, path, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			doc := s.Document()
			if doc.Kind() != measurement.KindMultisize {
				return cnserrors.New(cnserrors.ErrCodeInvalidRequest, "only multisize tables have dimensions")
			}

			var only measurement.DimensionType
			if cmd.IsSet("dimension") {
				if only, err = measurement.ParseDimensionType(cmd.String("dimension")); err != nil {
					return cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "invalid dimension", err)
				}
				if _, ok := doc.Dimension(only); !ok {
					return cnserrors.NewWithContext(cnserrors.ErrCodeNotFound, "dimension not found",
						map[string]any{"dimension": string(only)})
				}
			}

			report, err := listDimensionValues(doc, only, cmd.FloatSlice("at"), tag)
			if err != nil {
				return err
			}
			report.Init(header.KindDimensionValues, version, header.WithSource(path),
				header.WithMetadata("lang", tag.String()))
			return writeOutput(ctx, cmd, report)
		},
	}
}

// listDimensionValues collects the labelled values of each dimension, or of
// only the dimension of type only when it is set. The preceding values come
// from at, falling back to the dimension bases.
func listDimensionValues(doc *measurement.Document, only measurement.DimensionType, at []float64,
	tag language.Tag) (dimensionValuesReport, error) {
	var report dimensionValuesReport
	var prior []float64
	for i, dim := range doc.Dimensions() {
		if only == "" || only == measurement.DimensionNone || only == dim.Type {
			labels, err := doc.DimensionLabels(dim.Type, tag, prior...)
			if err != nil {
				return report, err
			}
			dv := dimensionValues{
				Type:  dim.Type,
				Name:  dim.Name(),
				Prior: slices.Clone(prior),
			}
			for _, v := range slices.Sorted(maps.Keys(labels)) {
				dv.Values = append(dv.Values, dimensionValue{Value: v, Label: labels[v]})
			}
			report.Dimensions = append(report.Dimensions, dv)
		}

		v := dim.Base
		if i < len(at) {
			v = at[i]
		}
		prior = append(prior, v)
	}
	return report, nil
}
