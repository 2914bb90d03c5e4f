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
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/dismine/valentina-sub004/pkg/logging"
	"github.com/dismine/valentina-sub004/pkg/serializer"
	"github.com/dismine/valentina-sub004/pkg/session"
)

const (
	name           = "vmeasure"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Execute runs the vmeasure command line. It is called by main.main and
// exits the process with a non-zero status on error.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		EnableShellCompletion: true,
		Usage:                 "Measurement table tooling",
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Description: `vmeasure reads, upgrades, edits and grades measurement tables.

Individual tables (.vit) hold one person's measurements as formulas.
Multisize tables (.vst) hold a base value per measurement and linear shifts
across up to three dimensions (height, chest, waist, hip).

Files written by older versions are upgraded in memory on open and are only
rewritten when a command saves them.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "log level (debug, info, warn, error)",
				Sources: cli.EnvVars("VMEASURE_LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "ignore-lock",
				Usage:   "Open files even when another process holds their lock",
				Sources: cli.EnvVars("VMEASURE_IGNORE_LOCK"),
			},
			&cli.BoolFlag{
				Name:    "keep-backup",
				Value:   true,
				Usage:   "Keep the original of an upgraded file next to it with a .bak suffix",
				Sources: cli.EnvVars("VMEASURE_KEEP_BACKUP"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := cmd.String("log-level")
			logging.SetDefaultStructuredLoggerWithLevel(name, version, level)
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date,
				"logLevel", level)
			return ctx, nil
		},
		Commands: []*cli.Command{
			convertCmd(),
			validateCmd(),
			newCmd(),
			editCmd(),
			gradeCmd(),
			valuesCmd(),
			serveCmd(),
		},
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatYAML),
		Usage:   fmt.Sprintf("Output format (%s)", strings.Join(serializer.SupportedFormats(), ", ")),
	}
}

// parseOutputFormat reads and checks the --format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q (supported: %s)",
			f, strings.Join(serializer.SupportedFormats(), ", "))
	}
	return f, nil
}

// newOutputWriter returns a writer for the --output flag. Without a path it
// writes to the root command's writer.
func newOutputWriter(cmd *cli.Command) (*serializer.Writer, error) {
	f, err := parseOutputFormat(cmd)
	if err != nil {
		return nil, err
	}
	if path := strings.TrimSpace(cmd.String("output")); path != "" {
		return serializer.NewFileWriterOrStdout(f, path), nil
	}
	return serializer.NewWriter(f, cmd.Root().Writer), nil
}

// writeOutput serializes data with the output flags of cmd.
func writeOutput(ctx context.Context, cmd *cli.Command, data any) error {
	w, err := newOutputWriter(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := w.Close(); err != nil {
			slog.Warn("failed to close serializer", "error", err)
		}
	}()
	if err := w.Serialize(ctx, data); err != nil {
		return fmt.Errorf("failed to serialize output: %w", err)
	}
	return nil
}

// sessionConfig applies the global lock and backup flags to the environment
// based session configuration.
func sessionConfig(cmd *cli.Command) *session.Config {
	cfg := session.NewConfig()
	if cmd.IsSet("ignore-lock") {
		cfg.IgnoreLock = cmd.Bool("ignore-lock")
	}
	if cmd.IsSet("keep-backup") {
		cfg.KeepBackup = cmd.Bool("keep-backup")
	}
	return cfg
}
