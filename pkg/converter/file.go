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
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/beevik/etree"
	"github.com/dismine/valentina-sub004/pkg/defaults"
	cnserrors "github.com/dismine/valentina-sub004/pkg/errors"
	"github.com/dismine/valentina-sub004/pkg/version"
)

// FileOptions controls in-place file conversion.
type FileOptions struct {
	// KeepBackup copies the original file to path + defaults.BackupSuffix
	// before it is replaced.
	KeepBackup bool

	// Downgrade only normalizes the version tag to the format's maximum.
	Downgrade bool
}

// fileCheckpointer writes each intermediate state to a working file.
type fileCheckpointer struct {
	path string
}

func (w *fileCheckpointer) Checkpoint(_ context.Context, v version.Version, doc *etree.Document) error {
	data, err := serialize(doc.Copy())
	if err != nil {
		return err
	}
	if err := os.WriteFile(w.path, data, 0o600); err != nil {
		return cnserrors.WrapWithContext(cnserrors.ErrCodeInternal, "failed to write working copy", err,
			map[string]any{"path": w.path, "version": v.String()})
	}
	return nil
}

// ConvertFile converts the document stored at path in place. Steps are
// checkpointed into a working copy next to the file, which replaces the
// original only when the whole conversion succeeds. The format is detected
// from the root tag.
func ConvertFile(ctx context.Context, path string, opts FileOptions) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cnserrors.WrapWithContext(cnserrors.ErrCodeNotFound, "failed to read document", err,
			map[string]any{"path": path})
	}
	doc, err := parseDocument(data)
	if err != nil {
		return nil, err
	}
	f, err := Detect(doc)
	if err != nil {
		return nil, err
	}

	work, err := os.CreateTemp(filepath.Dir(path), defaults.WorkingFilePattern)
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to create working copy", err)
	}
	workPath := work.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(workPath)
		}
	}()
	if _, err := work.Write(data); err != nil {
		_ = work.Close()
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to write working copy", err)
	}
	if err := work.Close(); err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to close working copy", err)
	}

	c := New(f, WithCheckpointer(&fileCheckpointer{path: workPath}))
	var res *Result
	if opts.Downgrade {
		res, err = c.Downgrade(ctx, doc)
	} else {
		res, err = c.convert(ctx, doc, data)
	}
	if err != nil {
		return res, err
	}
	if !res.Changed() {
		return res, nil
	}

	if opts.KeepBackup {
		backup := path + defaults.BackupSuffix
		if err := os.WriteFile(backup, data, 0o600); err != nil {
			return res, cnserrors.WrapWithContext(cnserrors.ErrCodeInternal, "failed to write backup", err,
				map[string]any{"path": backup})
		}
	}

	if fi, statErr := os.Stat(path); statErr == nil {
		_ = os.Chmod(workPath, fi.Mode().Perm())
	}
	if err := os.Rename(workPath, path); err != nil {
		return res, cnserrors.WrapWithContext(cnserrors.ErrCodeInternal, "failed to replace document", err,
			map[string]any{"path": path})
	}
	committed = true
	slog.Debug("replaced document with converted copy", "path", path, "version", res.To.String())
	return res, nil
}
