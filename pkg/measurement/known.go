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

package measurement

import (
	"regexp"
	"slices"
	"strings"

	"github.com/dismine/valentina-sub004/pkg/defaults"
)

// knownGroups holds the catalog of recognized measurement names by group.
var knownGroups = map[string][]string{
	"direct heights": {
		"height", "height_neck_back", "height_scapula", "height_armpit", "height_waist_side",
		"height_hip", "height_gluteal_fold", "height_knee", "height_calf", "height_ankle_high",
		"height_ankle", "height_highhip", "height_waist_front", "height_bustpoint",
		"height_shoulder_tip", "height_neck_front", "height_neck_side", "height_neck_back_to_knee",
		"height_waist_side_to_knee", "height_waist_side_to_hip", "height_knee_to_ankle",
		"height_neck_back_to_waist_side", "height_waist_back",
	},
	"horizontal": {
		"width_shoulder", "width_bust", "width_waist", "width_hip", "width_abdomen_to_hip",
		"indent_neck_back", "indent_waist_back", "indent_ankle_high",
	},
	"bust chest waist hip": {
		"neck_mid_circ", "neck_circ", "highbust_circ", "bust_circ", "lowbust_circ", "rib_circ",
		"waist_circ", "highhip_circ", "hip_circ", "neck_arc_f", "highbust_arc_f", "bust_arc_f",
		"size", "lowbust_arc_f", "rib_arc_f", "waist_arc_f", "highhip_arc_f", "hip_arc_f",
		"neck_arc_b", "highbust_arc_b", "bust_arc_b", "lowbust_arc_b", "rib_arc_b", "waist_arc_b",
		"highhip_arc_b", "hip_arc_b", "head_circ", "head_length", "head_depth", "head_width",
	},
	"arm": {
		"arm_shoulder_tip_to_wrist_bent", "arm_shoulder_tip_to_elbow_bent", "arm_elbow_to_wrist_bent",
		"arm_elbow_circ_bent", "arm_shoulder_tip_to_wrist", "arm_shoulder_tip_to_elbow",
		"arm_elbow_to_wrist", "arm_armpit_to_wrist", "arm_armpit_to_elbow", "arm_elbow_to_wrist_inside",
		"arm_upper_circ", "arm_above_elbow_circ", "arm_elbow_circ", "arm_lower_circ", "arm_wrist_circ",
		"arm_shoulder_tip_to_armfold_line", "arm_neck_side_to_wrist", "arm_neck_side_to_finger_tip",
		"armscye_circ", "armscye_length", "armscye_width", "arm_neck_side_to_outer_elbow",
	},
	"leg": {
		"leg_crotch_to_floor", "leg_waist_side_to_floor", "leg_thigh_upper_circ", "leg_thigh_mid_circ",
		"leg_knee_circ", "leg_knee_small_circ", "leg_calf_circ", "leg_ankle_high_circ", "leg_ankle_circ",
		"leg_knee_circ_bent", "leg_ankle_diag_circ", "leg_crotch_to_ankle", "leg_waist_side_to_ankle",
		"leg_waist_side_to_knee",
	},
	"crotch and rise": {
		"crotch_length", "crotch_length_b", "crotch_length_f", "rise_length_side_sitting",
		"rise_length_diag", "rise_length_b", "rise_length_f", "rise_length_side",
	},
	"hand and foot": {
		"hand_palm_length", "hand_length", "hand_palm_width", "hand_palm_circ", "hand_circ",
		"foot_width", "foot_length", "foot_circ", "foot_instep_circ",
	},
}

// legacyRenames maps names used by old file versions to their current names.
var legacyRenames = map[string]string{
	"cervicale_height": "height_neck_back",
	"waist_height":     "height_waist_side",
	"hip_height":       "height_hip",
	"knee_height":      "height_knee",
	"ankle_height":     "height_ankle",
	"chest_girth":      "bust_circ",
	"waist_girth":      "waist_circ",
	"hip_girth":        "hip_circ",
	"neck_girth":       "neck_circ",
	"head_girth":       "head_circ",
	"arm_length":       "arm_shoulder_tip_to_wrist",
	"upper_arm_girth":  "arm_upper_circ",
	"wrist_girth":      "arm_wrist_circ",
	"knee_girth":       "leg_knee_circ",
}

var known = func() map[string]struct{} {
	m := make(map[string]struct{})
	for _, names := range knownGroups {
		for _, n := range names {
			m[n] = struct{}{}
		}
	}
	return m
}()

// IsKnownName reports whether name belongs to the catalog of recognized
// measurements.
func IsKnownName(name string) bool {
	_, ok := known[name]
	return ok
}

// IsCustomName reports whether name is a user defined measurement name.
func IsCustomName(name string) bool {
	return strings.HasPrefix(name, defaults.CustomNamePrefix) && len(name) > len(defaults.CustomNamePrefix)
}

// KnownNames returns the catalog of recognized names, sorted.
func KnownNames() []string {
	out := make([]string, 0, len(known))
	for n := range known {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// CurrentName returns the current name of a legacy measurement name and
// whether name was a legacy name.
func CurrentName(name string) (string, bool) {
	n, ok := legacyRenames[name]
	if !ok {
		return name, false
	}
	return n, true
}

var identifierRe = regexp.MustCompile(`[\p{L}_@#][\p{L}\p{N}_@#]*`)

// RenameInFormula replaces every identifier of formula that appears in
// renames. Partial identifiers are left alone.
func RenameInFormula(formula string, renames map[string]string) string {
	if len(renames) == 0 || formula == "" {
		return formula
	}
	return identifierRe.ReplaceAllStringFunc(formula, func(id string) string {
		if n, ok := renames[id]; ok {
			return n
		}
		return id
	})
}

// LegacyRenames returns a copy of the legacy name table.
func LegacyRenames() map[string]string {
	out := make(map[string]string, len(legacyRenames))
	for k, v := range legacyRenames {
		out[k] = v
	}
	return out
}
