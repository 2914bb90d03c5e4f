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

// Package api provides the HTTP API of vmeasure.
//
// # Usage
//
//	import (
//	    "log"
//	    "github.com/dismine/valentina-sub004/pkg/api"
//	)
//
//	func main() {
//	    if err := api.Serve(); err != nil {
//	        log.Fatalf("server error: %v", err)
//	    }
//	}
//
// # Architecture
//
// The API layer configures structured logging, builds the measurement
// handlers and delegates the server lifecycle to package server, which owns
// middleware, health probes and metrics.
//
// # Endpoints
//
// Application endpoints (rate limited, body size limited):
//   - POST /v1/grade    - Evaluate every measurement of an uploaded table
//   - POST /v1/convert  - Upgrade an uploaded document to the newest version
//   - POST /v1/validate - Check an uploaded document against its schema
//
// System endpoints:
//   - GET /health  - Liveness probe
//   - GET /ready   - Readiness probe
//   - GET /metrics - Prometheus metrics
//
// Request bodies are raw XML documents. Nothing is written to disk: uploads
// are converted in memory and the server keeps no state between requests.
//
// # Query Parameters
//
// POST /v1/grade:
//   - at: dimension values in dimension order (at=182,100 or at=182&at=100)
//   - unit: convert values to mm, cm or inch
//   - only: measurement name patterns with * and ? wildcards
//   - format: json (default), yaml or table
//
// POST /v1/convert:
//   - downgrade: rewrite only the version tag to the newest version
//
// POST /v1/validate:
//   - format: json (default), yaml or table
//
// # Examples
//
//	curl -X POST --data-binary @sizes.vst "http://localhost:8080/v1/grade?at=182,100&only=neck*"
//	curl -X POST --data-binary @old.vit -o new.vit http://localhost:8080/v1/convert
//	curl -X POST --data-binary @body.vit "http://localhost:8080/v1/validate?format=yaml"
package api
