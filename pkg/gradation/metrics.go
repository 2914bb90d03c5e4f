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

package gradation

import (
	"strconv"

	"github.com/dismine/valentina-sub004/pkg/measurement"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	evaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vmeasure_gradation_evaluations_total",
			Help: "Total number of measurement evaluations by document kind and outcome.",
		},
		[]string{"kind", "ok"},
	)

	recomputeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vmeasure_gradation_recompute_duration_seconds",
			Help:    "Time taken to recompute all measurements of a document.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
		[]string{"kind"},
	)
)

func observe(kind measurement.Kind, ok bool) {
	evaluationsTotal.WithLabelValues(kind.String(), strconv.FormatBool(ok)).Inc()
}
