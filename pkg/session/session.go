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

package session

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dismine/valentina-sub004/pkg/converter"
	"github.com/dismine/valentina-sub004/pkg/defaults"
	cnserrors "github.com/dismine/valentina-sub004/pkg/errors"
	"github.com/dismine/valentina-sub004/pkg/formula"
	"github.com/dismine/valentina-sub004/pkg/gradation"
	"github.com/dismine/valentina-sub004/pkg/lock"
	"github.com/dismine/valentina-sub004/pkg/measurement"
)

// Session is one open measurement file: its lock, its document and the
// engine computing its values. A Session is not safe for concurrent use.
type Session struct {
	cfg    *Config
	path   string
	lock   *lock.Handle
	doc    *measurement.Document
	engine *gradation.Engine

	conversion *converter.Result
	original   []byte
	backedUp   bool
}

// Open locks path, upgrades the file to the current format version in memory
// and decodes it. When the lock is held elsewhere Open fails with a
// LOCK_ACQUISITION error unless cfg.IgnoreLock is set. A nil cfg uses
// NewConfig.
func Open(ctx context.Context, path string, cfg *Config) (*Session, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	h, err := acquire(path, cfg)
	if err != nil {
		return nil, err
	}
	s := &Session{cfg: cfg, path: path, lock: h}

	if err := s.load(ctx); err != nil {
		_ = h.Unlock()
		return nil, err
	}

	slog.Info("opened measurement file",
		"path", path,
		"kind", s.doc.Kind().String(),
		"from", s.conversion.From.String(),
		"converted", s.conversion.Changed(),
		"locked", h != nil)
	return s, nil
}

// Create writes doc to path and returns a session for it. An existing file
// at path is replaced.
func Create(path string, doc *measurement.Document, cfg *Config) (*Session, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	h, err := acquire(path, cfg)
	if err != nil {
		return nil, err
	}
	s := &Session{cfg: cfg, path: path, lock: h, doc: doc}
	if s.engine, err = newEngine(doc, cfg); err != nil {
		_ = h.Unlock()
		return nil, err
	}
	if err := doc.Save(path); err != nil {
		_ = h.Unlock()
		return nil, err
	}
	return s, nil
}

// acquire takes the lock of path. A nil handle with a nil error means the
// lock was ignored.
func acquire(path string, cfg *Config) (*lock.Handle, error) {
	h, ok, err := lock.TryLock(path)
	if err != nil {
		return nil, err
	}
	if ok {
		return h, nil
	}

	fields := map[string]any{"path": path}
	if owner, err := lock.ReadOwner(path); err == nil {
		fields["owner"] = owner.String()
	}
	if !cfg.IgnoreLock {
		return nil, cnserrors.NewWithContext(cnserrors.ErrCodeLockAcquisition,
			"file is opened by another process", fields)
	}
	slog.Warn("opening file without lock", "path", path, "owner", fields["owner"])
	return nil, nil
}

func (s *Session) load(ctx context.Context) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return cnserrors.WrapWithContext(cnserrors.ErrCodeNotFound, "failed to read measurement file", err,
			map[string]any{"path": s.path})
	}
	doc, res, err := Decode(ctx, data)
	if err != nil {
		return err
	}
	engine, err := newEngine(doc, s.cfg)
	if err != nil {
		return err
	}

	s.doc, s.engine, s.conversion = doc, engine, res
	if res.Changed() {
		s.original = data
	}
	return nil
}

// Decode upgrades a serialized measurement file to the current format
// version in memory and decodes it. Other document kinds are rejected with
// INVALID_REQUEST.
func Decode(ctx context.Context, data []byte) (*measurement.Document, *converter.Result, error) {
	tree, err := converter.ParseDocument(data)
	if err != nil {
		return nil, nil, err
	}
	f, err := converter.Detect(tree)
	if err != nil {
		return nil, nil, err
	}
	if f != converter.Individual && f != converter.Multisize {
		return nil, nil, cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest, "not a measurement file",
			map[string]any{"format": f.Name})
	}

	res, err := converter.New(f).Convert(ctx, tree)
	if err != nil {
		return nil, res, err
	}
	doc, err := measurement.DecodeTree(tree)
	if err != nil {
		return nil, res, err
	}
	return doc, res, nil
}

func newEngine(doc *measurement.Document, cfg *Config) (*gradation.Engine, error) {
	p, err := formula.NewParser(cfg.FormulaCacheSize)
	if err != nil {
		return nil, err
	}
	return gradation.New(doc, gradation.WithEvaluator(p))
}

// Path returns the file the session writes to.
func (s *Session) Path() string { return s.path }

// Document returns the open document.
func (s *Session) Document() *measurement.Document { return s.doc }

// Engine returns the engine computing the document's values.
func (s *Session) Engine() *gradation.Engine { return s.engine }

// Conversion returns the upgrade applied when the file was opened, or nil
// for a created file.
func (s *Session) Conversion() *converter.Result { return s.conversion }

// Locked reports whether the session holds the file lock.
func (s *Session) Locked() bool { return s.lock != nil }

// Save writes the document back to its file. The first save of an upgraded
// file keeps the original next to it when cfg.KeepBackup is set.
func (s *Session) Save() error {
	if s.original != nil && s.cfg.KeepBackup && !s.backedUp {
		backup := s.path + defaults.BackupSuffix
		if err := os.WriteFile(backup, s.original, 0o644); err != nil {
			return cnserrors.WrapWithContext(cnserrors.ErrCodeInternal, "failed to write backup", err,
				map[string]any{"path": backup})
		}
		s.backedUp = true
		slog.Info("kept original file", "path", backup, "version", s.conversion.From.String())
	}
	if err := s.doc.Save(s.path); err != nil {
		return err
	}
	slog.Debug("saved measurement file", "path", s.path)
	return nil
}

// SaveAs writes the document to path and continues the session there. The
// lock moves to the new file.
func (s *Session) SaveAs(path string) error {
	if abs(path) == abs(s.path) {
		return s.Save()
	}
	h, err := acquire(path, s.cfg)
	if err != nil {
		return err
	}
	if err := s.doc.Save(path); err != nil {
		_ = h.Unlock()
		return err
	}
	if err := s.lock.Unlock(); err != nil {
		slog.Warn("failed to release lock", "path", s.path, "error", err)
	}
	s.path, s.lock = path, h
	s.original, s.backedUp = nil, false
	return nil
}

// Close releases the file lock. The document stays readable.
func (s *Session) Close() error {
	err := s.lock.Unlock()
	s.lock = nil
	return err
}

func abs(p string) string {
	if a, err := filepath.Abs(p); err == nil {
		return a
	}
	return filepath.Clean(p)
}
