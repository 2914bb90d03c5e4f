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

package header

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	h := New(KindGradationTable, "v1.0.0", WithSource("body.vst"), WithMetadata("unit", "cm"))

	assert.Equal(t, KindGradationTable, h.Kind)
	assert.Equal(t, APIVersion, h.APIVersion)
	assert.Equal(t, "body.vst", h.Metadata["source"])
	assert.Equal(t, "cm", h.Metadata["unit"])
	assert.Equal(t, "v1.0.0", h.Metadata["version"])

	ts, err := time.Parse(time.RFC3339, h.Metadata["timestamp"])
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
}

func TestNew_WithKindOverrides(t *testing.T) {
	h := New(KindGradationTable, "", WithKind(KindConversionReport))
	assert.Equal(t, KindConversionReport, h.Kind)
	assert.NotContains(t, h.Metadata, "version")
}

func TestKind_IsValid(t *testing.T) {
	for _, k := range []Kind{KindGradationTable, KindConversionReport, KindValidationResult, KindDimensionValues, KindChangeSet} {
		assert.True(t, k.IsValid(), k.String())
	}
	assert.False(t, Kind("Pattern").IsValid())
}

func TestInit_ResetsMetadata(t *testing.T) {
	var h Header
	h.Metadata = map[string]string{"stale": "x"}

	h.Init(KindChangeSet, "v2", WithSource("a.vit"))
	assert.Equal(t, KindChangeSet, h.Kind)
	assert.NotContains(t, h.Metadata, "stale")
	assert.Equal(t, "a.vit", h.Metadata["source"])
	assert.Equal(t, "v2", h.Metadata["version"])
}
