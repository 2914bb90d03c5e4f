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

package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	cnserrors "github.com/dismine/valentina-sub004/pkg/errors"
	"github.com/dismine/valentina-sub004/pkg/serializer"
)

// HTTPStatusFromCode maps an error code to the HTTP status returned for it.
func HTTPStatusFromCode(code cnserrors.ErrorCode) int {
	switch code {
	case cnserrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case cnserrors.ErrCodeNotFound, cnserrors.ErrCodeMeasurementNotFound:
		return http.StatusNotFound
	case cnserrors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case cnserrors.ErrCodeLockAcquisition, cnserrors.ErrCodeReadOnly:
		return http.StatusConflict
	case cnserrors.ErrCodeUnsupportedVersion, cnserrors.ErrCodeSchemaValidation,
		cnserrors.ErrCodeFormulaEvaluation:
		return http.StatusUnprocessableEntity
	case cnserrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case cnserrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case cnserrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// retryableFromCode reports whether a client may repeat a request that
// failed with code.
func retryableFromCode(code cnserrors.ErrorCode) bool {
	switch code {
	case cnserrors.ErrCodeInternal, cnserrors.ErrCodeTimeout,
		cnserrors.ErrCodeUnavailable, cnserrors.ErrCodeRateLimitExceeded,
		cnserrors.ErrCodeLockAcquisition:
		return true
	default:
		return false
	}
}

// WriteError writes an ErrorResponse with the given status.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code cnserrors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID := RequestID(r.Context())
	if requestID == "" {
		requestID = uuid.New().String()
	}

	errResp := ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	}

	serializer.RespondJSON(w, statusCode, errResp)
}

// WriteErrorFromErr writes err as an ErrorResponse. Structured errors keep
// their code, message and context; anything else is reported as an internal
// error with fallbackMsg. The text of the underlying cause is added to the
// details under "error".
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error, fallbackMsg string,
	details map[string]any) {

	var se *cnserrors.StructuredError
	if !errors.As(err, &se) {
		WriteError(w, r, http.StatusInternalServerError, cnserrors.ErrCodeInternal, fallbackMsg, true,
			mergeDetails(details, map[string]any{"error": err.Error()}))
		return
	}

	extra := map[string]any{}
	if se.Cause != nil {
		extra["error"] = se.Cause.Error()
	}
	msg := se.Message
	if msg == "" {
		msg = fallbackMsg
	}
	WriteError(w, r, HTTPStatusFromCode(se.Code), se.Code, msg, retryableFromCode(se.Code),
		mergeDetails(mergeDetails(se.Context, details), extra))
}

// mergeDetails returns the union of a and b, b winning on conflicts. It
// returns nil when both are empty.
func mergeDetails(a, b map[string]any) map[string]any {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
