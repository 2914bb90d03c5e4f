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

package formula

import (
	"math"
	"strings"

	"github.com/dismine/valentina-sub004/pkg/defaults"
	cnserrors "github.com/dismine/valentina-sub004/pkg/errors"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Evaluator computes the value of a formula against a set of variables.
type Evaluator interface {
	Evaluate(formula string, vars Variables) (float64, error)
}

// Parser parses formulas and caches the parsed expressions. It is safe for
// concurrent use.
type Parser struct {
	cache *lru.Cache[string, *Expr]
}

// NewParser creates a Parser keeping up to cacheSize parsed expressions.
// A size of zero or less uses defaults.FormulaCacheSize.
func NewParser(cacheSize int) (*Parser, error) {
	if cacheSize <= 0 {
		cacheSize = defaults.FormulaCacheSize
	}
	cache, err := lru.New[string, *Expr](cacheSize)
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to create formula cache", err)
	}
	return &Parser{cache: cache}, nil
}

// Parse returns the parsed form of formula.
func (p *Parser) Parse(formula string) (*Expr, error) {
	src := strings.TrimSpace(formula)
	if e, ok := p.cache.Get(src); ok {
		return e, nil
	}
	if src == "" {
		return nil, cnserrors.New(cnserrors.ErrCodeFormulaEvaluation, "formula is empty")
	}
	e, err := exprParser.ParseString("", src)
	if err != nil {
		return nil, cnserrors.WrapWithContext(cnserrors.ErrCodeFormulaEvaluation, "invalid formula", err,
			map[string]any{"formula": src})
	}
	p.cache.Add(src, e)
	return e, nil
}

// Evaluate parses formula and computes its value. NaN and infinite results
// are reported as errors wrapping ErrNonFinite.
func (p *Parser) Evaluate(formula string, vars Variables) (float64, error) {
	e, err := p.Parse(formula)
	if err != nil {
		return 0, err
	}
	v, err := e.Eval(vars)
	if err != nil {
		return 0, cnserrors.WrapWithContext(cnserrors.ErrCodeFormulaEvaluation, "failed to evaluate formula", err,
			map[string]any{"formula": formula})
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, cnserrors.WrapWithContext(cnserrors.ErrCodeFormulaEvaluation, "failed to evaluate formula",
			ErrNonFinite, map[string]any{"formula": formula})
	}
	return v, nil
}

// Cached returns the number of parsed expressions held in the cache.
func (p *Parser) Cached() int {
	return p.cache.Len()
}
