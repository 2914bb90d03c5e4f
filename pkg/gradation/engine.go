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
	"log/slog"
	"math"

	"github.com/dismine/valentina-sub004/pkg/defaults"
	"github.com/dismine/valentina-sub004/pkg/formula"
	"github.com/dismine/valentina-sub004/pkg/measurement"
)

// Engine derives measurement values from a document. It reads the document
// on every call, so values follow mutations without any notification.
// An Engine is not safe for concurrent use with mutations of its document.
type Engine struct {
	doc  *measurement.Document
	eval formula.Evaluator
}

// Option configures an Engine.
type Option func(*Engine)

// WithEvaluator sets the formula evaluator used for individual documents.
func WithEvaluator(ev formula.Evaluator) Option {
	return func(e *Engine) {
		e.eval = ev
	}
}

// New creates an Engine for doc. Without WithEvaluator a formula.Parser with
// the default cache size is used.
func New(doc *measurement.Document, opts ...Option) (*Engine, error) {
	e := &Engine{doc: doc}
	for _, opt := range opts {
		opt(e)
	}
	if e.eval == nil {
		p, err := formula.NewParser(defaults.FormulaCacheSize)
		if err != nil {
			return nil, err
		}
		e.eval = p
	}
	return e, nil
}

// Document returns the document the engine reads.
func (e *Engine) Document() *measurement.Document {
	return e.doc
}

// Evaluate returns the value of the named measurement at the given dimension
// values, in document units. The dimension values are ignored for individual
// documents. Unknown names, separators and failed or non-finite formulas
// yield (0, false).
func (e *Engine) Evaluate(name string, a, b, c float64) (float64, bool) {
	var v float64
	var ok bool
	if e.doc.Kind() == measurement.KindMultisize {
		v, ok = e.graded(name, a, b, c)
	} else {
		v, ok = newResolver(e).value(name)
	}
	observe(e.doc.Kind(), ok)
	return v, ok
}

// graded applies the linear offset model of a multisize measurement.
func (e *Engine) graded(name string, a, b, c float64) (float64, bool) {
	m, found := e.doc.Measurement(name)
	if !found || m.IsSeparator() {
		return 0, false
	}

	dims := e.doc.Dimensions()
	current := [3]float64{a, b, c}
	shifts := [3]float64{m.ShiftA, m.ShiftB, m.ShiftC}

	v := m.Base
	for i, dim := range dims {
		if i >= len(current) {
			break
		}
		if dim.Step == 0 {
			continue
		}
		v += (current[i] - dim.Base) / dim.Step * shifts[i]
	}
	v += m.Corrections[measurement.CorrectionHash(a, b, c)]

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// resolver evaluates individual formulas, resolving references to other
// measurements on demand. Results are memoized for one pass; a reference
// cycle resolves as an unknown variable.
type resolver struct {
	e        *Engine
	done     map[string]result
	visiting map[string]bool
}

type result struct {
	v  float64
	ok bool
}

func newResolver(e *Engine) *resolver {
	return &resolver{e: e, done: map[string]result{}, visiting: map[string]bool{}}
}

// Lookup implements formula.Variables.
func (r *resolver) Lookup(name string) (float64, bool) {
	if !r.e.doc.Has(name) {
		return 0, false
	}
	return r.value(name)
}

func (r *resolver) value(name string) (float64, bool) {
	if res, ok := r.done[name]; ok {
		return res.v, res.ok
	}
	if r.visiting[name] {
		slog.Debug("circular measurement reference", "name", name)
		return 0, false
	}
	m, found := r.e.doc.Measurement(name)
	if !found || m.IsSeparator() {
		return 0, false
	}

	r.visiting[name] = true
	v, err := r.e.eval.Evaluate(m.Formula, r)
	delete(r.visiting, name)

	res := result{v: v, ok: err == nil}
	if err != nil {
		slog.Debug("formula evaluation failed", "name", name, "formula", m.Formula, "error", err)
		res = result{}
	}
	r.done[name] = res
	return res.v, res.ok
}
