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

// Package cli implements the vmeasure command line.
//
// # Commands
//
// convert - Upgrade files in place:
//
//	vmeasure convert [--downgrade] FILE...
//
// Upgrades measurement tables, label templates, watermarks and layouts to the
// newest supported version. Each file is locked while it is converted and the
// original is kept with a .bak suffix unless --keep-backup=false is given.
//
// validate - Check files against their schema:
//
//	vmeasure validate [--fail-on-error] FILE...
//
// new - Create a table from a YAML or JSON description:
//
//	vmeasure new --from sizes.yaml sizes.vst
//
// edit - Change a table and print the change set:
//
//	vmeasure edit --set neck_mid_circ=38 --rename "@a=@b" body.vit
//
// grade - Compute every measurement:
//
//	vmeasure grade --at 182,100 --unit inch sizes.vst
//
// values - List the selectable values of multisize dimensions:
//
//	vmeasure values --lang de sizes.vst
//
// serve - Run the HTTP API (see package api):
//
//	vmeasure serve --port 9090
//
// # Global Flags
//
//	--log-level    Logging verbosity (debug, info, warn, error)
//	--ignore-lock  Open files locked by another process
//	--keep-backup  Keep originals of upgraded files (default: true)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// Report commands also accept:
//
//	--output, -o   Output file path (default: stdout)
//	--format, -t   Output format: yaml, json, table (default: yaml)
//
// # Environment Variables
//
//	VMEASURE_LOG_LEVEL           Same as --log-level
//	VMEASURE_IGNORE_LOCK         Same as --ignore-lock
//	VMEASURE_KEEP_BACKUP         Same as --keep-backup
//	VMEASURE_FORMULA_CACHE_SIZE  Number of parsed formulas kept in memory
//	VMEASURE_PORT                Same as serve --port
//
// # Exit Codes
//
//	0  Success
//	1  Any error, including files that failed to convert
package cli
