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

//go:build !unix

package lock

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/dismine/valentina-sub004/pkg/defaults"
)

func tryLock(path string) (*Handle, bool, error) {
	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			h := &Handle{path: path, file: f, owner: newOwner()}
			if err := writeOwner(f, h.owner); err != nil {
				_ = h.release()
				return nil, false, err
			}
			return h, true, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, false, err
		}

		fi, err := os.Stat(path)
		if err != nil || time.Since(fi.ModTime()) < defaults.LockStaleAfter {
			return nil, false, nil
		}
		slog.Warn("removing stale lock file", "path", path, "age", time.Since(fi.ModTime()))
		if err := os.Remove(path); err != nil {
			return nil, false, nil
		}
	}
	return nil, false, nil
}

func (h *Handle) release() error {
	closeErr := h.file.Close()
	rmErr := os.Remove(h.path)
	if errors.Is(rmErr, os.ErrNotExist) {
		rmErr = nil
	}
	return errors.Join(closeErr, rmErr)
}
