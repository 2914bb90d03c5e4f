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
	"github.com/google/uuid"
)

// Layout is the manual layout format (root <layout>).
var Layout = &Format{
	Name:    "layout",
	RootTag: "layout",
	Min:     version.MustParse("0.1.0"),
	Max:     version.MustParse("0.1.1"),
	Patches: []Patch{
		{From: version.MustParse("0.1.0"), To: version.MustParse("0.1.1"), Apply: layoutTo011},
	},
}

// layoutTo011 replaces free-form piece ids with UUIDs. Ids that already are
// UUIDs are kept, other ids map to a stable name based UUID, and pieces
// without an id get a random one.
func layoutTo011(doc *etree.Document) error {
	pieces := doc.Root().SelectElement("pieces")
	if pieces == nil {
		return nil
	}
	for _, p := range pieces.SelectElements("piece") {
		if p.SelectAttr("uid") != nil {
			p.RemoveAttr("id")
			continue
		}
		id := strings.TrimSpace(p.SelectAttrValue("id", ""))
		p.RemoveAttr("id")
		p.CreateAttr("uid", pieceUID(id))
	}
	return nil
}

func pieceUID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(id)).String()
}
