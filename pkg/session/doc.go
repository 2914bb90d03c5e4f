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

// Package session manages an open measurement file.
//
// Open locks the file, upgrades it to the current format version in memory,
// decodes it and prepares a gradation engine. Mutations go through the
// document; values are pulled from the engine after each change. Save writes
// the document back, keeping the original of an upgraded file as a backup.
//
//	s, err := session.Open(ctx, "jane.vit", session.NewConfig())
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
//	_ = s.Document().SetValue("bust_circ", "98")
//	table := s.Engine().RecomputeAll(0, 0, 0)
//	if err := s.Save(); err != nil {
//		return err
//	}
//
// A file locked by another process fails to open with a LOCK_ACQUISITION
// error. Setting Config.IgnoreLock opens it anyway.
package session
