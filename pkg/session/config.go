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
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/dismine/valentina-sub004/pkg/defaults"
)

// Config holds the settings of an editing session.
type Config struct {
	// IgnoreLock opens files even when another process holds their lock.
	// Concurrent edits may then overwrite each other.
	IgnoreLock bool

	// KeepBackup keeps a copy of the original file when a converted file is
	// saved for the first time.
	KeepBackup bool

	// FormulaCacheSize is the number of parsed formulas kept in memory.
	FormulaCacheSize int
}

// NewConfig returns a Config with defaults, overridden by the environment:
//   - VMEASURE_IGNORE_LOCK
//   - VMEASURE_KEEP_BACKUP
//   - VMEASURE_FORMULA_CACHE_SIZE
func NewConfig() *Config {
	return parseConfig()
}

func parseConfig() *Config {
	cfg := &Config{
		KeepBackup:       true,
		FormulaCacheSize: defaults.FormulaCacheSize,
	}

	if v, ok := envBool("VMEASURE_IGNORE_LOCK"); ok {
		cfg.IgnoreLock = v
	}
	if v, ok := envBool("VMEASURE_KEEP_BACKUP"); ok {
		cfg.KeepBackup = v
	}
	if s := os.Getenv("VMEASURE_FORMULA_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n > 0 {
			cfg.FormulaCacheSize = n
		} else {
			slog.Warn("ignoring invalid formula cache size", "value", s)
		}
	}

	return cfg
}

func envBool(key string) (bool, bool) {
	s := os.Getenv(key)
	if s == "" {
		return false, false
	}
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		slog.Warn("ignoring invalid boolean setting", "key", key, "value", s)
		return false, false
	}
	return v, true
}
