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
	"strings"

	"github.com/urfave/cli/v3"

	cnserrors "github.com/dismine/valentina-sub004/pkg/errors"
	"github.com/dismine/valentina-sub004/pkg/gradation"
	"github.com/dismine/valentina-sub004/pkg/header"
	"github.com/dismine/valentina-sub004/pkg/session"
	"github.com/dismine/valentina-sub004/pkg/units"
)

type gradationReport struct {
	header.Header `json:",inline" yaml:",inline"`

	Table gradation.Table `json:"table" yaml:"table"`
}

// Rows implements serializer.Tabular.
func (r gradationReport) Rows() ([]string, [][]string) {
	return r.Table.Rows()
}

func gradeCmd() *cli.Command {
	return &cli.Command{
		Name:                  "grade",
		EnableShellCompletion: true,
		Usage:                 "Compute every measurement of a table",
		ArgsUsage:             "FILE",
		Description: `Evaluate all measurements of a table and print them.

Individual tables evaluate their formulas. Multisize tables grade each
measurement from its base value to the selected dimension values; values not
given with --at default to the dimension bases.

# Examples

Grade a multisize table at height 182 and chest 100:
  vmeasure grade --at 182,100 sizes.vst

Print a few measurements in inches:
  vmeasure grade --only "neck*" --unit inch -t table body.vit`,
		Flags: []cli.Flag{
			&cli.FloatSliceFlag{
				Name:  "at",
				Usage: "Dimension values in dimension order (multisize only)",
			},
			&cli.StringFlag{
				Name:  "unit",
				Usage: fmt.Sprintf("Convert values to this unit (%s)", units.Supported()),
			},
			&cli.StringSliceFlag{
				Name:  "only",
				Usage: "Only print measurements whose names match these patterns (wildcards allowed)",
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

			cfg := sessionConfig(cmd)
			// grading never writes, a held lock is not an error
			cfg.IgnoreLock = true
			s, err := session.Open(ctx, path, cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := s.Close(); err != nil {
					slog.Warn("failed to release lock", "path", path, "error", err)
				}
			}()

			doc := s.Document()
			at, err := gradation.Coordinates(doc, cmd.FloatSlice("at"))
			if err != nil {
				return err
			}
			table := s.Engine().RecomputeAll(at[0], at[1], at[2])

			if patterns := cmd.StringSlice("only"); len(patterns) > 0 {
				table = table.Only(doc.Select(patterns...))
			}
			if u := cmd.String("unit"); u != "" {
				to, err := units.Parse(u)
				if err != nil {
					return cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "invalid unit", err)
				}
				table = table.Convert(to)
			}

			if failed := table.Failed(); len(failed) > 0 {
				slog.Warn("some measurements could not be evaluated",
					"count", len(failed),
					"names", strings.Join(failed, ","))
			}

			report := gradationReport{Table: table}
			report.Init(header.KindGradationTable, version,
				header.WithSource(path),
				header.WithMetadata("unit", table.Unit.String()))
			return writeOutput(ctx, cmd, report)
		},
	}
}
