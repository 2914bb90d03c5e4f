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

package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Unit
		wantErr bool
	}{
		{"cm", Centimeter, false},
		{"CM", Centimeter, false},
		{" mm ", Millimeter, false},
		{"inch", Inch, false},
		{"in", Inch, false},
		{"inches", Inch, false},
		{"px", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		from, to Unit
		want     float64
	}{
		{"same unit", 176, Centimeter, Centimeter, 176},
		{"cm to mm", 17.6, Centimeter, Millimeter, 176},
		{"mm to cm", 1760, Millimeter, Centimeter, 176},
		{"inch to cm", 10, Inch, Centimeter, 25.4},
		{"cm to inch", 25.4, Centimeter, Inch, 10},
		{"unknown target", 5, Centimeter, Unit("px"), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Convert(tt.value, tt.from, tt.to), 1e-9)
		})
	}
}

func TestIsValid(t *testing.T) {
	for _, u := range All {
		assert.True(t, u.IsValid(), u)
	}
	assert.False(t, Unit("px").IsValid())
	assert.Equal(t, "mm, cm, inch", Supported())
}
