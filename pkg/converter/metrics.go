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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	conversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vmeasure_conversions_total",
			Help: "Total number of document conversions by format and status",
		},
		[]string{"format", "status"},
	)
	conversionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vmeasure_conversion_duration_seconds",
			Help:    "Duration of document conversions in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"format"},
	)
	patchesApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vmeasure_conversion_steps_total",
			Help: "Total number of conversion steps applied by format",
		},
		[]string{"format"},
	)
)
