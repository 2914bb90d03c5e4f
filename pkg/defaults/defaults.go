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

package defaults

import "time"

// Lock settings for the advisory file lock.
const (
	// LockFileSuffix is appended to a measurement file path to name its lock file.
	LockFileSuffix = ".lock"

	// LockStaleAfter is the age after which a lock file without a live
	// owner is considered abandoned on platforms without flock support.
	LockStaleAfter = 30 * time.Second
)

// Conversion settings.
const (
	// ConversionTimeout bounds a single file conversion started from the CLI.
	ConversionTimeout = 1 * time.Minute

	// MaxConcurrentConversions limits parallel file conversions in bulk mode.
	MaxConcurrentConversions = 4

	// BackupSuffix is appended to the original file name when a backup is kept.
	BackupSuffix = ".bak"

	// WorkingFilePattern names the temporary working copy used during conversion.
	WorkingFilePattern = "vmeasure-convert-*.xml"
)

// Formula evaluation settings.
const (
	// FormulaCacheSize is the number of parsed formulas kept in memory.
	FormulaCacheSize = 512
)

// Document defaults for newly created or upgraded files.
const (
	// PatternMakingSystem is the code written when a file names no system.
	PatternMakingSystem = "998"

	// BirthDate is the placeholder birth date of a new individual file.
	BirthDate = "1800-01-01"

	// CustomNamePrefix marks user defined measurement names.
	CustomNamePrefix = "@"
)

// Legacy multisize grid in centimeters. Files older than the dimension model
// only stored base height and size; upgrades derive X and Y from these.
const (
	LegacyHeightMinCM  = 50.0
	LegacyHeightMaxCM  = 200.0
	LegacyHeightStepCM = 6.0

	LegacySizeMinCM  = 22.0
	LegacySizeMaxCM  = 72.0
	LegacySizeStepCM = 2.0
)

// Legacy multisize grid in inches.
const (
	LegacyHeightMinInch  = 20.0
	LegacyHeightMaxInch  = 80.0
	LegacyHeightStepInch = 2.0

	LegacySizeMinInch  = 8.0
	LegacySizeMaxInch  = 28.0
	LegacySizeStepInch = 1.0
)

// Server timeouts for the HTTP API.
const (
	// ServerReadTimeout is the maximum duration for reading a request.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second

	// ServerHandlerTimeout bounds the work of one API request. It stays below
	// ServerWriteTimeout so the error response can still be written.
	ServerHandlerTimeout = 20 * time.Second
)

// HTTP API limits.
const (
	// ServerPort is the port the API listens on unless PORT is set.
	ServerPort = 8080

	// ServerRateLimit is the sustained number of API requests per second.
	ServerRateLimit = 50

	// ServerRateLimitBurst is the number of API requests allowed in a burst.
	ServerRateLimitBurst = 100

	// ServerMaxBodyBytes bounds the size of an uploaded document.
	ServerMaxBodyBytes = 8 << 20
)
