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

package converter

import (
	"github.com/dismine/valentina-sub004/pkg/version"
)

// ValidateBytes detects the format and version of a serialized document and
// validates it against the schema of its own version. The detected format
// and version are returned even when validation fails, as far as they could
// be determined.
func ValidateBytes(data []byte) (*Format, version.Version, error) {
	var v version.Version
	doc, err := parseDocument(data)
	if err != nil {
		return nil, v, err
	}
	f, err := Detect(doc)
	if err != nil {
		return nil, v, err
	}
	v, err = DocumentVersion(doc)
	if err != nil {
		return f, v, err
	}
	s, err := f.Schema(v)
	if err != nil {
		return f, v, err
	}
	return f, v, s.Validate(data)
}
