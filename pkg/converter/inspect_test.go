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
	"context"
	"testing"

	cnserrors "github.com/dismine/valentina-sub004/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBytes(t *testing.T) {
	current, _, err := New(Individual).ConvertBytes(context.Background(), []byte(individualV020))
	require.NoError(t, err)

	f, v, err := ValidateBytes(current)
	require.NoError(t, err)
	assert.Same(t, Individual, f)
	assert.True(t, v.Equals(f.Max))

	f, v, err = ValidateBytes([]byte(`<vit><version>0.5.1</version><bogus/></vit>`))
	require.Error(t, err)
	assert.True(t, cnserrors.IsCode(err, cnserrors.ErrCodeSchemaValidation))
	assert.Same(t, Individual, f, "format is reported for invalid documents")
	assert.Equal(t, "0.5.1", v.String())
}

func TestValidateBytes_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code cnserrors.ErrorCode
	}{
		{"not xml", "not xml at all", cnserrors.ErrCodeInvalidRequest},
		{"unknown root", "<pattern><version>0.1.0</version></pattern>", cnserrors.ErrCodeInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _, err := ValidateBytes([]byte(tt.data))
			require.Error(t, err)
			assert.Nil(t, f)
			assert.True(t, cnserrors.IsCode(err, tt.code), "got %v", err)
		})
	}
}
