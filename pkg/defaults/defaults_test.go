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

package defaults

import (
	"testing"
	"time"
)

func TestDurationConstants(t *testing.T) {
	tests := []struct {
		name     string
		value    time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		{"LockStaleAfter", LockStaleAfter, 5 * time.Second, 5 * time.Minute},
		{"ConversionTimeout", ConversionTimeout, 10 * time.Second, 10 * time.Minute},
		{"ServerReadTimeout", ServerReadTimeout, 5 * time.Second, 30 * time.Second},
		{"ServerWriteTimeout", ServerWriteTimeout, 15 * time.Second, 60 * time.Second},
		{"ServerIdleTimeout", ServerIdleTimeout, 30 * time.Second, 300 * time.Second},
		{"ServerShutdownTimeout", ServerShutdownTimeout, 10 * time.Second, 60 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value < tt.minValue {
				t.Errorf("%s (%v) is below minimum expected value (%v)", tt.name, tt.value, tt.minValue)
			}
			if tt.value > tt.maxValue {
				t.Errorf("%s (%v) exceeds maximum expected value (%v)", tt.name, tt.value, tt.maxValue)
			}
		})
	}
}

func TestLegacyGrids(t *testing.T) {
	grids := []struct {
		name           string
		min, max, step float64
	}{
		{"height cm", LegacyHeightMinCM, LegacyHeightMaxCM, LegacyHeightStepCM},
		{"size cm", LegacySizeMinCM, LegacySizeMaxCM, LegacySizeStepCM},
		{"height inch", LegacyHeightMinInch, LegacyHeightMaxInch, LegacyHeightStepInch},
		{"size inch", LegacySizeMinInch, LegacySizeMaxInch, LegacySizeStepInch},
	}
	for _, g := range grids {
		t.Run(g.name, func(t *testing.T) {
			if g.min >= g.max {
				t.Errorf("min %v must be below max %v", g.min, g.max)
			}
			if g.step <= 0 {
				t.Errorf("step must be positive, got %v", g.step)
			}
		})
	}
}

func TestPositiveLimits(t *testing.T) {
	if MaxConcurrentConversions < 1 {
		t.Errorf("MaxConcurrentConversions must be positive, got %d", MaxConcurrentConversions)
	}
	if FormulaCacheSize < 1 {
		t.Errorf("FormulaCacheSize must be positive, got %d", FormulaCacheSize)
	}
	if CustomNamePrefix == "" {
		t.Error("CustomNamePrefix must not be empty")
	}
}

func TestServerTimeoutRelationships(t *testing.T) {
	if ServerReadHeaderTimeout > ServerReadTimeout {
		t.Errorf("ServerReadHeaderTimeout (%v) should not exceed ServerReadTimeout (%v)",
			ServerReadHeaderTimeout, ServerReadTimeout)
	}
	if ServerReadTimeout > ServerWriteTimeout {
		t.Errorf("ServerReadTimeout (%v) should not exceed ServerWriteTimeout (%v)",
			ServerReadTimeout, ServerWriteTimeout)
	}
	if ServerHandlerTimeout >= ServerWriteTimeout {
		t.Errorf("ServerHandlerTimeout (%v) should be below ServerWriteTimeout (%v)",
			ServerHandlerTimeout, ServerWriteTimeout)
	}
	if ServerRateLimitBurst < ServerRateLimit {
		t.Errorf("ServerRateLimitBurst (%d) should not be below ServerRateLimit (%d)",
			ServerRateLimitBurst, ServerRateLimit)
	}
}
