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
	"github.com/beevik/etree"
	"github.com/dismine/valentina-sub004/pkg/version"
)

const defaultWatermarkColor = "black"

// Watermark is the print watermark format (root <watermark>).
var Watermark = &Format{
	Name:    "watermark",
	RootTag: "watermark",
	Min:     version.MustParse("1.0.0"),
	Max:     version.MustParse("1.1.0"),
	Patches: []Patch{
		{From: version.MustParse("1.0.0"), To: version.MustParse("1.1.0"), Apply: watermarkTo110},
	},
}

// watermarkTo110 gives the text watermark an explicit color.
func watermarkTo110(doc *etree.Document) error {
	t := doc.Root().SelectElement("text")
	if t != nil && t.SelectAttr("color") == nil {
		t.CreateAttr("color", defaultWatermarkColor)
	}
	return nil
}
