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

// Package lock guards measurement files against concurrent editing by
// several processes.
//
// The lock is advisory: a lock file next to the guarded file is held with
// flock(2) where available, or created exclusively elsewhere. The lock file
// records who holds it so a refused caller can tell the user.
//
//	h, ok, err := lock.TryLock("body.vst")
//	if err != nil {
//		return err
//	}
//	if !ok {
//		// ask the user whether to continue without the lock
//	}
//	defer h.Unlock()
package lock

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dismine/valentina-sub004/pkg/defaults"
	cnserrors "github.com/dismine/valentina-sub004/pkg/errors"
	"github.com/google/uuid"
)

// Owner describes the holder of a lock.
type Owner struct {
	ID       string    `json:"id"`
	PID      int       `json:"pid"`
	Hostname string    `json:"hostname"`
	Acquired time.Time `json:"acquired"`
}

func (o Owner) String() string {
	return fmt.Sprintf("pid %d on %s since %s", o.PID, o.Hostname, o.Acquired.Format(time.RFC3339))
}

// Handle is a held lock. Unlock releases it.
type Handle struct {
	path  string
	file  *os.File
	owner Owner
}

// Path returns the lock file path guarding file.
func Path(file string) string {
	return file + defaults.LockFileSuffix
}

// TryLock attempts to lock file without blocking. It returns ok false with
// a nil error when another holder has the lock.
func TryLock(file string) (*Handle, bool, error) {
	h, ok, err := tryLock(Path(file))
	if err != nil {
		return nil, false, cnserrors.WrapWithContext(cnserrors.ErrCodeLockAcquisition, "failed to lock file", err,
			map[string]any{"path": file})
	}
	return h, ok, nil
}

// Owner returns the owner record written when the lock was acquired.
func (h *Handle) Owner() Owner {
	return h.owner
}

// Unlock releases the lock and removes the lock file. It is safe to call
// more than once.
func (h *Handle) Unlock() error {
	if h == nil || h.file == nil {
		return nil
	}
	err := h.release()
	h.file = nil
	if err != nil {
		return cnserrors.WrapWithContext(cnserrors.ErrCodeInternal, "failed to release lock", err,
			map[string]any{"path": h.path})
	}
	return nil
}

// ReadOwner reads the owner record of the lock guarding file.
func ReadOwner(file string) (Owner, error) {
	var o Owner
	data, err := os.ReadFile(Path(file))
	if err != nil {
		return o, cnserrors.WrapWithContext(cnserrors.ErrCodeNotFound, "lock file not readable", err,
			map[string]any{"path": Path(file)})
	}
	if err := json.Unmarshal(data, &o); err != nil {
		return o, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "malformed lock file", err)
	}
	return o, nil
}

func newOwner() Owner {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return Owner{
		ID:       uuid.NewString(),
		PID:      os.Getpid(),
		Hostname: host,
		Acquired: time.Now().UTC().Truncate(time.Second),
	}
}

// writeOwner replaces the content of the lock file with the owner record.
func writeOwner(f *os.File, o Owner) error {
	data, err := json.Marshal(o)
	if err != nil {
		return err
	}
	if err := f.Truncate(0); err != nil {
		return err
	}
	if _, err := f.WriteAt(data, 0); err != nil {
		return err
	}
	return f.Sync()
}
