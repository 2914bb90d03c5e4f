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
	"golang.org/x/sync/errgroup"

	"github.com/dismine/valentina-sub004/pkg/converter"
	"github.com/dismine/valentina-sub004/pkg/defaults"
	cnserrors "github.com/dismine/valentina-sub004/pkg/errors"
	"github.com/dismine/valentina-sub004/pkg/header"
	"github.com/dismine/valentina-sub004/pkg/lock"
)

// conversionEntry is the outcome of converting one file.
type conversionEntry struct {
	Path    string   `json:"path" yaml:"path"`
	Format  string   `json:"format,omitempty" yaml:"format,omitempty"`
	From    string   `json:"from,omitempty" yaml:"from,omitempty"`
	To      string   `json:"to,omitempty" yaml:"to,omitempty"`
	Applied []string `json:"applied,omitempty" yaml:"applied,omitempty"`
	Changed bool     `json:"changed" yaml:"changed"`
	Error   string   `json:"error,omitempty" yaml:"error,omitempty"`
}

type conversionReport struct {
	header.Header `json:",inline" yaml:",inline"`

	Files []conversionEntry `json:"files" yaml:"files"`
}

// Rows implements serializer.Tabular.
func (r conversionReport) Rows() ([]string, [][]string) {
	rows := make([][]string, 0, len(r.Files))
	for _, f := range r.Files {
		status := "unchanged"
		switch {
		case f.Error != "":
			status = f.Error
		case f.Changed:
			status = "converted"
		}
		rows = append(rows, []string{f.Path, f.Format, f.From, f.To, status})
	}
	return []string{"PATH", "FORMAT", "FROM", "TO", "STATUS"}, rows
}

// failed returns the number of files that could not be converted.
func (r conversionReport) failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Error != "" {
			n++
		}
	}
	return n
}

func convertCmd() *cli.Command {
	return &cli.Command{
		Name:                  "convert",
		EnableShellCompletion: true,
		Usage:                 "Upgrade files in place to the current format version",
		ArgsUsage:             "FILE...",
		Description: `Upgrade measurement tables, label templates, watermarks and layouts to the
newest version this tool writes.

Every step of the upgrade is written to a working copy next to the file. The
original is replaced only when the whole chain succeeded and the result
passed schema validation. Files are processed in parallel.

# Examples

Upgrade two files, keeping the originals as .bak:
  vmeasure convert body.vit sizes.vst

Rewrite only the version tag of files that are newer than supported:
  vmeasure convert --downgrade body.vit

Write a JSON report:
  vmeasure convert -t json -o report.json *.vit`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "downgrade",
				Usage: "Only rewrite the version tag to the newest supported version",
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

			cfg := sessionConfig(cmd)
			opts := converter.FileOptions{
				KeepBackup: cfg.KeepBackup,
				Downgrade:  cmd.Bool("downgrade"),
			}

			report := conversionReport{Files: make([]conversionEntry, len(paths))}
			report.Init(header.KindConversionReport, version)

			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(defaults.MaxConcurrentConversions)
			for i, path := range paths {
				g.Go(func() error {
					report.Files[i] = convertOne(gctx, path, opts, cfg.IgnoreLock)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if err := writeOutput(ctx, cmd, report); err != nil {
				return err
			}

			if n := report.failed(); n > 0 {
				return cnserrors.NewWithContext(cnserrors.ErrCodeInternal,
					fmt.Sprintf("%d of %d file(s) failed to convert", n, len(paths)),
					map[string]any{"failed": n})
			}
			return nil
		},
	}
}

// convertOne converts a single file under its lock and reports the outcome.
func convertOne(ctx context.Context, path string, opts converter.FileOptions, ignoreLock bool) conversionEntry {
	entry := conversionEntry{Path: path}

	h, ok, err := lock.TryLock(path)
	if err != nil {
		entry.Error = err.Error()
		return entry
	}
	if !ok {
		if !ignoreLock {
			entry.Error = "file is opened by another process"
			return entry
		}
		slog.Warn("converting file without lock", "path", path)
	}
	defer func() {
		if err := h.Unlock(); err != nil {
			slog.Warn("failed to release lock", "path", path, "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, defaults.ConversionTimeout)
	defer cancel()

	res, err := converter.ConvertFile(ctx, path, opts)
	if res != nil {
		entry.Format = res.Format
		entry.From = res.From.String()
		entry.To = res.To.String()
		entry.Changed = res.Changed()
		for _, v := range res.Applied {
			entry.Applied = append(entry.Applied, v.String())
		}
	}
	if err != nil {
		entry.Error = err.Error()
		entry.Changed = false
		slog.Error("conversion failed", "path", path, "error", err)
		return entry
	}

	slog.Info("converted file",
		"path", path,
		"format", entry.Format,
		"from", entry.From,
		"to", entry.To,
		"applied", strings.Join(entry.Applied, ","))
	return entry
}
