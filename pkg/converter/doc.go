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

// Package converter upgrades measurement files and their sibling document
// kinds from any released format version to the current one.
//
// Every document kind is described by a Format: its root tag, the supported
// version range and an ordered chain of patches, each moving a document from
// one version to the next. The pipeline reads the declared version, runs the
// chain from that version's position to the end, advances the version tag
// after each step, and finally validates the result against the schema of the
// maximum version.
//
//	c := converter.New(converter.Individual)
//	out, res, err := c.ConvertBytes(ctx, data)
//	if err != nil { ... }
//	fmt.Println(res.From, "->", res.To)
//
// ConvertFile works on a file in place: steps are checkpointed into a working
// copy that replaces the original only after the whole chain succeeded.
package converter
