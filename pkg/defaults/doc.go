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

// Package defaults provides centralized configuration constants for the
// measurement core and the vmeasure CLI.
//
// This package defines lock, cache, and conversion tunables plus the legacy
// sizing grids used when upgrading pre-dimension multisize files.
// Centralizing these values ensures consistency and makes tuning easier.
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/dismine/valentina-sub004/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.ConversionTimeout)
//	defer cancel()
//
// Values that users may want to override at runtime are also exposed through
// session.Config, which reads environment variables on top of these defaults.
package defaults
