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

// Package header provides the common header of documents exported by
// vmeasure, such as gradation tables and conversion reports.
//
// A header identifies the kind of document, the export format version and
// carries free-form metadata:
//
//	h := header.New(header.KindGradationTable, "v1.2.0", header.WithSource("body.vst"))
//
// Serialized, it looks like:
//
//	kind: GradationTable
//	apiVersion: vmeasure.dev/v1
//	metadata:
//	  source: body.vst
//	  timestamp: "2026-03-01T10:30:00Z"
//	  version: v1.2.0
//
// Consumers should check APIVersion and Kind before reading the rest.
package header
