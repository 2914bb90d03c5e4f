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

// Package serializer writes and reads the exported data of the vmeasure
// tools: gradation tables, conversion reports and table descriptions.
//
// Three output formats are supported:
//   - JSON: machine-readable structured data with indentation
//   - YAML: human-readable structured data
//   - Table: aligned columns for values implementing Tabular, flattened
//     FIELD/VALUE pairs for everything else
//
// Usage:
//
//	writer := serializer.NewFileWriterOrStdout(serializer.FormatYAML, path)
//	defer writer.Close()
//	if err := writer.Serialize(ctx, table); err != nil {
//		return err
//	}
//
// Reading is limited to JSON and YAML. Unknown fields are rejected so that
// misspelled keys in hand-written input are reported:
//
//	spec, err := serializer.FromFile[TableSpec]("table.yaml")
package serializer
