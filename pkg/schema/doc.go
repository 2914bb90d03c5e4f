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

// Package schema holds the structural schemas of every supported measurement
// file format version and validates XML documents against them.
//
// Each schema is an embedded YAML resource named after its format and version,
// for example "individual/v0.5.1.yaml". A schema lists the elements that may
// appear in a document, the children each element accepts (with occurrence
// bounds and optional ordering), its attributes, and the value type of its
// text content.
//
// Validation is streaming: the document is tokenized once and the first
// violation is reported with its line, column, and element path.
//
//	s, err := schema.Load("individual", "0.5.1")
//	if err != nil { ... }
//	if err := s.Validate(data); err != nil {
//	    var verr *schema.ValidationError
//	    errors.As(err, &verr) // verr.Line, verr.Column, verr.Path
//	}
package schema
