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
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/dismine/valentina-sub004/pkg/converter"
	cnserrors "github.com/dismine/valentina-sub004/pkg/errors"
	"github.com/dismine/valentina-sub004/pkg/header"
	docversion "github.com/dismine/valentina-sub004/pkg/version"
)

// validationEntry is the schema check outcome of one file.
type validationEntry struct {
	Path      string `json:"path" yaml:"path"`
	Format    string `json:"format,omitempty" yaml:"format,omitempty"`
	Version   string `json:"version,omitempty" yaml:"version,omitempty"`
	Current   bool   `json:"current" yaml:"current"`
	Valid     bool   `json:"valid" yaml:"valid"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorCode string `json:"errorCode,omitempty" yaml:"errorCode,omitempty"`
}

type validationReport struct {
	header.Header `json:",inline" yaml:",inline"`

	Files []validationEntry `json:"files" yaml:"files"`
}

// Rows implements serializer.Tabular.
func (r validationReport) Rows() ([]string, [][]string) {
	rows := make([][]string, 0, len(r.Files))
	for _, f := range r.Files {
		rows = append(rows, []string{f.Path, f.Format, f.Version, strconv.FormatBool(f.Current),
			strconv.FormatBool(f.Valid), f.Error})
	}
	return []string{"PATH", "FORMAT", "VERSION", "CURRENT", "VALID", "ERROR"}, rows
}

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:                  "validate",
		EnableShellCompletion: true,
		Usage:                 "Check files against the schema of their own version",
		ArgsUsage:             "FILE...",
		Description: `Validate documents without changing them.

Each file is checked against the schema of the version it declares. The
report also tells whether that version is the newest one this tool writes.

# Examples

Validate a measurement table:
  vmeasure validate body.vit

Fail the command if any file is invalid (useful for CI/CD):
  vmeasure validate --fail-on-error *.vst`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "fail-on-error",
				Usage: "Exit with non-zero status if any file fails validation",
			},
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}
			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				return cnserrors.New(cnserrors.ErrCodeInvalidRequest, "at least one file is required")
			}

			report := validationReport{Files: make([]validationEntry, 0, len(paths))}
			report.Init(header.KindValidationResult, version)
			invalid := 0
			for _, path := range paths {
				entry := validateFile(path)
				if !entry.Valid {
					invalid++
				}
				report.Files = append(report.Files, entry)
			}

			if err := writeOutput(ctx, cmd, report); err != nil {
				return err
			}

			slog.Info("validation completed", "files", len(paths), "invalid", invalid)

			if cmd.Bool("fail-on-error") && invalid > 0 {
				return cnserrors.NewWithContext(cnserrors.ErrCodeSchemaValidation,
					fmt.Sprintf("validation failed: %d file(s) did not pass", invalid),
					map[string]any{"invalid": invalid})
			}
			return nil
		},
	}
}

func validateFile(path string) validationEntry {
	entry := validationEntry{Path: path}
	fail := func(err error) validationEntry {
		entry.Error = err.Error()
		entry.ErrorCode = string(cnserrors.CodeOf(err))
		return entry
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail(cnserrors.WrapWithContext(cnserrors.ErrCodeNotFound, "failed to read document", err,
			map[string]any{"path": path}))
	}
	f, v, err := converter.ValidateBytes(data)
	if f != nil {
		entry.Format = f.Name
		if v != (docversion.Version{}) {
			entry.Version = v.String()
			entry.Current = v.Equals(f.Max)
		}
	}
	if err != nil {
		return fail(err)
	}
	entry.Valid = true
	return entry
}
