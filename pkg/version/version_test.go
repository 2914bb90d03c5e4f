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

package version

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Version
		wantErr error
	}{
		{name: "full version", input: "0.5.1", want: New(0, 5, 1)},
		{name: "with spaces", input: "  1.0.0\n", want: New(1, 0, 0)},
		{name: "zeros", input: "0.0.0", want: New(0, 0, 0)},
		{name: "max components", input: "65535.255.255", want: New(65535, 255, 255)},
		{name: "empty", input: "", wantErr: ErrEmptyVersion},
		{name: "blank", input: "   ", wantErr: ErrEmptyVersion},
		{name: "major.minor only", input: "0.5", wantErr: ErrMalformed},
		{name: "v prefix", input: "v0.5.1", wantErr: ErrMalformed},
		{name: "too many components", input: "1.2.3.4", wantErr: ErrMalformed},
		{name: "non numeric", input: "a.b.c", wantErr: ErrMalformed},
		{name: "leading zero", input: "0.05.1", wantErr: ErrMalformed},
		{name: "pre-release", input: "0.5.1-rc1", wantErr: ErrUnexpectedSuffix},
		{name: "build metadata", input: "0.5.1+abc", wantErr: ErrUnexpectedSuffix},
		{name: "minor too large", input: "0.256.0", wantErr: ErrComponentRange},
		{name: "patch too large", input: "0.1.300", wantErr: ErrComponentRange},
		{name: "major too large", input: "70000.0.0", wantErr: ErrComponentRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeyPacking(t *testing.T) {
	tests := []struct {
		input string
		want  Key
	}{
		{"0.2.0", 0x000200},
		{"0.5.1", 0x000501},
		{"1.0.0", 0x010000},
		{"1.1.0", 0x010100},
		{"2.10.3", 0x020A03},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			k, err := Encode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, k)
			assert.Equal(t, tt.input, Decode(k))
			assert.Equal(t, MustParse(tt.input), FromKey(k))
		})
	}
}

func TestKeyOrdering(t *testing.T) {
	ordered := []string{"0.2.0", "0.3.0", "0.3.1", "0.3.3", "0.4.0", "0.5.0", "0.5.1", "0.5.2", "1.0.0", "1.0.1"}
	for i := 1; i < len(ordered); i++ {
		prev := MustParse(ordered[i-1])
		cur := MustParse(ordered[i])
		assert.Less(t, prev.Key(), cur.Key(), "%s should order before %s", prev, cur)
		assert.Equal(t, -1, prev.Compare(cur))
		assert.Equal(t, 1, cur.Compare(prev))
		assert.True(t, prev.Less(cur))
	}
	assert.Equal(t, 0, MustParse("0.5.1").Compare(New(0, 5, 1)))
}

func TestIsValid(t *testing.T) {
	assert.True(t, New(0, 5, 2).IsValid())
	assert.False(t, New(-1, 0, 0).IsValid())
	assert.False(t, New(0, 256, 0).IsValid())
	assert.False(t, New(0, 0, 256).IsValid())
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("nope") })
	assert.NotPanics(t, func() { MustParse("0.3.0") })
}

func TestTextMarshaling(t *testing.T) {
	v := New(0, 5, 2)
	text, err := v.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "0.5.2", string(text))

	var parsed Version
	require.NoError(t, parsed.UnmarshalText(text))
	assert.Equal(t, v, parsed)

	assert.Error(t, parsed.UnmarshalText([]byte("bad")))
}
