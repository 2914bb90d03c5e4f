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

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dismine/valentina-sub004/pkg/converter"
	"github.com/dismine/valentina-sub004/pkg/defaults"
	cnserrors "github.com/dismine/valentina-sub004/pkg/errors"
	"github.com/dismine/valentina-sub004/pkg/formula"
	"github.com/dismine/valentina-sub004/pkg/gradation"
	"github.com/dismine/valentina-sub004/pkg/header"
	"github.com/dismine/valentina-sub004/pkg/serializer"
	"github.com/dismine/valentina-sub004/pkg/server"
	"github.com/dismine/valentina-sub004/pkg/session"
	"github.com/dismine/valentina-sub004/pkg/units"
	docversion "github.com/dismine/valentina-sub004/pkg/version"
)

const xmlContentType = "application/xml; charset=utf-8"

// GradeResponse is the body of POST /v1/grade.
type GradeResponse struct {
	header.Header `json:",inline" yaml:",inline"`

	Table gradation.Table `json:"table" yaml:"table"`
}

// Rows implements serializer.Tabular.
func (r GradeResponse) Rows() ([]string, [][]string) {
	return r.Table.Rows()
}

// ValidateResponse is the body of POST /v1/validate.
type ValidateResponse struct {
	header.Header `json:",inline" yaml:",inline"`

	Format    string `json:"format,omitempty" yaml:"format,omitempty"`
	Version   string `json:"version,omitempty" yaml:"version,omitempty"`
	Current   bool   `json:"current" yaml:"current"`
	Valid     bool   `json:"valid" yaml:"valid"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorCode string `json:"errorCode,omitempty" yaml:"errorCode,omitempty"`
}

// Rows implements serializer.Tabular.
func (r ValidateResponse) Rows() ([]string, [][]string) {
	return []string{"FORMAT", "VERSION", "CURRENT", "VALID", "ERROR"},
		[][]string{{r.Format, r.Version, strconv.FormatBool(r.Current), strconv.FormatBool(r.Valid), r.Error}}
}

// Handler serves the measurement endpoints. It is safe for concurrent use.
type Handler struct {
	version string
	eval    formula.Evaluator
	timeout time.Duration
}

// NewHandler creates a Handler reporting version in response headers and
// sharing one formula cache of cacheSize entries between requests.
func NewHandler(version string, cacheSize int) (*Handler, error) {
	p, err := formula.NewParser(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Handler{version: version, eval: p, timeout: defaults.ServerHandlerTimeout}, nil
}

// Routes returns the endpoints of h keyed by path.
func (h *Handler) Routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/v1/grade":    h.HandleGrade,
		"/v1/convert":  h.HandleConvert,
		"/v1/validate": h.HandleValidate,
	}
}

// HandleGrade handles POST /v1/grade. The body is a measurement file in any
// supported version. Query parameters:
//
//	at      dimension values in dimension order, repeated or comma separated
//	unit    convert values to this unit
//	only    measurement name patterns, repeated or comma separated
//	format  json (default), yaml or table
func (h *Handler) HandleGrade(w http.ResponseWriter, r *http.Request) {
	if !server.RequireMethod(w, r, http.MethodPost) {
		return
	}
	q := r.URL.Query()
	format, err := responseFormat(q.Get("format"))
	if err != nil {
		writeErr(w, r, err, "invalid format")
		return
	}
	at, err := parseFloats(splitList(q["at"]))
	if err != nil {
		writeErr(w, r, err, "invalid dimension values")
		return
	}
	var to units.Unit
	if u := q.Get("unit"); u != "" {
		if to, err = units.Parse(u); err != nil {
			writeErr(w, r, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "invalid unit", err), "invalid unit")
			return
		}
	}

	data, ok := server.ReadBody(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	doc, _, err := session.Decode(ctx, data)
	if err != nil {
		writeErr(w, r, err, "failed to read measurement file")
		return
	}
	engine, err := gradation.New(doc, gradation.WithEvaluator(h.eval))
	if err != nil {
		writeErr(w, r, err, "failed to create gradation engine")
		return
	}
	coords, err := gradation.Coordinates(doc, at)
	if err != nil {
		writeErr(w, r, err, "invalid dimension values")
		return
	}

	table := engine.RecomputeAll(coords[0], coords[1], coords[2])
	if patterns := splitList(q["only"]); len(patterns) > 0 {
		table = table.Only(doc.Select(patterns...))
	}
	if to != "" {
		table = table.Convert(to)
	}

	resp := GradeResponse{Table: table}
	resp.Init(header.KindGradationTable, h.version,
		header.WithMetadata("unit", table.Unit.String()),
		header.WithMetadata("requestId", server.RequestID(r.Context())))
	serializer.Respond(w, http.StatusOK, format, resp)
}

// HandleConvert handles POST /v1/convert. The body is a document of any
// supported kind; the response is the document upgraded to the newest
// version. With downgrade=true only the version tag is rewritten. The
// conversion is described in X-Document-* response headers.
func (h *Handler) HandleConvert(w http.ResponseWriter, r *http.Request) {
	if !server.RequireMethod(w, r, http.MethodPost) {
		return
	}
	downgrade := false
	if v := r.URL.Query().Get("downgrade"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeErr(w, r, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "invalid downgrade flag", err), "")
			return
		}
		downgrade = b
	}

	data, ok := server.ReadBody(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	out, res, err := convert(ctx, data, downgrade)
	if err != nil {
		writeErr(w, r, err, "conversion failed")
		return
	}

	w.Header().Set("Content-Type", xmlContentType)
	w.Header().Set("X-Document-Format", res.Format)
	w.Header().Set("X-Document-Version-From", res.From.String())
	w.Header().Set("X-Document-Version-To", res.To.String())
	w.Header().Set("X-Document-Changed", strconv.FormatBool(res.Changed()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func convert(ctx context.Context, data []byte, downgrade bool) ([]byte, *converter.Result, error) {
	tree, err := converter.ParseDocument(data)
	if err != nil {
		return nil, nil, err
	}
	f, err := converter.Detect(tree)
	if err != nil {
		return nil, nil, err
	}
	c := converter.New(f)

	if !downgrade {
		return c.ConvertBytes(ctx, data)
	}
	res, err := c.Downgrade(ctx, tree)
	if err != nil {
		return nil, res, err
	}
	out, err := converter.Serialize(tree)
	if err != nil {
		return nil, res, err
	}
	return out, res, nil
}

// HandleValidate handles POST /v1/validate. The body is checked against the
// schema of the version it declares. A document failing the schema is a
// result, not an error: the response is 200 with valid false.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	if !server.RequireMethod(w, r, http.MethodPost) {
		return
	}
	format, err := responseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeErr(w, r, err, "invalid format")
		return
	}
	data, ok := server.ReadBody(w, r)
	if !ok {
		return
	}

	resp := ValidateResponse{}
	resp.Init(header.KindValidationResult, h.version,
		header.WithMetadata("requestId", server.RequestID(r.Context())))

	f, v, err := converter.ValidateBytes(data)
	if f != nil {
		resp.Format = f.Name
		if v != (docversion.Version{}) {
			resp.Version = v.String()
			resp.Current = v.Equals(f.Max)
		}
	}
	switch {
	case err == nil:
		resp.Valid = true
	case cnserrors.IsCode(err, cnserrors.ErrCodeSchemaValidation),
		cnserrors.IsCode(err, cnserrors.ErrCodeUnsupportedVersion):
		resp.Error = err.Error()
		resp.ErrorCode = string(cnserrors.CodeOf(err))
	default:
		writeErr(w, r, err, "validation failed")
		return
	}

	serializer.Respond(w, http.StatusOK, format, resp)
}

// writeErr reports err, turning an expired request deadline into TIMEOUT.
func writeErr(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if errors.Is(err, context.DeadlineExceeded) && !cnserrors.IsCode(err, cnserrors.ErrCodeTimeout) {
		err = cnserrors.Wrap(cnserrors.ErrCodeTimeout, "request timed out", err)
	}
	if msg == "" {
		msg = "request failed"
	}
	server.WriteErrorFromErr(w, r, err, msg, nil)
}

func responseFormat(s string) (serializer.Format, error) {
	if s == "" {
		return serializer.FormatJSON, nil
	}
	f := serializer.Format(strings.ToLower(s))
	if f.IsUnknown() {
		return "", cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest, "unsupported output format",
			map[string]any{"format": s, "supported": serializer.SupportedFormats()})
	}
	return f, nil
}

// splitList flattens repeated and comma separated query values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseFloats(values []string) ([]float64, error) {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, cnserrors.WrapWithContext(cnserrors.ErrCodeInvalidRequest, "not a number", err,
				map[string]any{"value": v})
		}
		out = append(out, f)
	}
	return out, nil
}
