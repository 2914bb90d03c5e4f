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
	"strings"

	"github.com/beevik/etree"
	"github.com/dismine/valentina-sub004/pkg/version"
)

// LabelTemplate is the piece label template format (root <template>).
var LabelTemplate = &Format{
	Name:    "template",
	RootTag: "template",
	Min:     version.MustParse("1.0.0"),
	Max:     version.MustParse("1.0.1"),
	Patches: []Patch{
		{From: version.MustParse("1.0.0"), To: version.MustParse("1.0.1"), Apply: templateTo101},
	},
}

// templateTo101 replaces numeric alignment flags with keywords.
func templateTo101(doc *etree.Document) error {
	lines := doc.Root().SelectElement("lines")
	if lines == nil {
		return nil
	}
	for _, l := range lines.SelectElements("line") {
		if a := l.SelectAttr("alignment"); a != nil {
			a.Value = alignmentKeyword(a.Value)
		}
	}
	return nil
}

func alignmentKeyword(v string) string {
	switch strings.TrimSpace(v) {
	case "2":
		return "right"
	case "4":
		return "center"
	default:
		return "left"
	}
}
