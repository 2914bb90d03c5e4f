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

//go:build unix

package lock

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

func tryLock(path string) (*Handle, bool, error) {
	for {
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
		if err != nil {
			return nil, false, err
		}
		if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
			_ = f.Close()
			if errors.Is(err, unix.EWOULDBLOCK) {
				return nil, false, nil
			}
			return nil, false, err
		}

		// The previous holder may have removed the file between our open and
		// flock. Holding a lock on an unlinked inode guards nothing.
		held, err := f.Stat()
		if err != nil {
			_ = f.Close()
			return nil, false, err
		}
		current, err := os.Stat(path)
		if err != nil || !os.SameFile(held, current) {
			_ = f.Close()
			continue
		}

		h := &Handle{path: path, file: f, owner: newOwner()}
		if err := writeOwner(f, h.owner); err != nil {
			_ = h.release()
			return nil, false, err
		}
		return h, true, nil
	}
}

func (h *Handle) release() error {
	rmErr := os.Remove(h.path)
	if errors.Is(rmErr, os.ErrNotExist) {
		rmErr = nil
	}
	unlockErr := unix.Flock(int(h.file.Fd()), unix.LOCK_UN)
	return errors.Join(rmErr, unlockErr, h.file.Close())
}
