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

// Package server provides the HTTP server behind the vmeasure API.
//
// The server owns the system endpoints and mounts caller supplied handlers
// behind a middleware chain. Domain routes live in package api.
//
// # Endpoints
//
//   - GET /: service name, version, readiness and routes
//   - GET /health: liveness probe
//   - GET /ready: readiness probe, 503 while starting or shutting down
//   - GET /metrics: Prometheus metrics
//
// # Middleware
//
// Every mounted handler runs behind, from the outside in: Prometheus RED
// metrics, API version negotiation (Accept: application/vnd.vmeasure.v1+json),
// request IDs (X-Request-Id, a UUID), panic recovery, token bucket rate
// limiting (golang.org/x/time/rate), a request body size limit and debug
// request logging. System endpoints bypass the chain.
//
// # Errors
//
// Failures are written as ErrorResponse JSON. WriteErrorFromErr maps the
// code of a structured error from package errors to the HTTP status:
//
//	INVALID_REQUEST                                    400
//	NOT_FOUND, MEASUREMENT_NOT_FOUND                   404
//	METHOD_NOT_ALLOWED                                 405
//	LOCK_ACQUISITION, READ_ONLY                        409
//	UNSUPPORTED_VERSION, SCHEMA_VALIDATION,
//	FORMULA_EVALUATION                                 422
//	RATE_LIMIT_EXCEEDED                                429
//	SERVICE_UNAVAILABLE                                503
//	TIMEOUT                                            504
//	anything else                                      500
//
// # Usage
//
//	s := server.New(
//	    server.WithName("vmeasured"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/v1/grade": handleGrade,
//	    }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// # Configuration
//
// NewConfig reads PORT, SHUTDOWN_TIMEOUT_SECONDS and VMEASURE_MAX_BODY_BYTES
// from the environment. Everything else defaults from package defaults and
// can be changed on the Config passed to WithConfig.
package server
