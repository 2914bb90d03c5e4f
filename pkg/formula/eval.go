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
	"errors"
	"fmt"
	"math"
	"slices"
)

// Evaluation errors.
var (
	ErrUnknownVariable = errors.New("unknown variable")
	ErrUnknownFunction = errors.New("unknown function")
	ErrArgumentCount   = errors.New("wrong number of arguments")
	ErrNonFinite       = errors.New("result is not a finite number")
)

// Variables resolves measurement names to values.
type Variables interface {
	Lookup(name string) (float64, bool)
}

// MapVariables is a Variables backed by a map.
type MapVariables map[string]float64

// Lookup implements Variables.
func (m MapVariables) Lookup(name string) (float64, bool) {
	v, ok := m[name]
	return v, ok
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

type function struct {
	minArgs int
	maxArgs int // -1 for variadic
	fn      func(args []float64) float64
}

func unary(f func(float64) float64) function {
	return function{minArgs: 1, maxArgs: 1, fn: func(a []float64) float64 { return f(a[0]) }}
}

func degrees(f func(float64) float64) func(float64) float64 {
	return func(v float64) float64 { return f(v * math.Pi / 180) }
}

func toDegrees(f func(float64) float64) func(float64) float64 {
	return func(v float64) float64 { return f(v) * 180 / math.Pi }
}

var functions = map[string]function{
	"sqrt":  unary(math.Sqrt),
	"abs":   unary(math.Abs),
	"floor": unary(math.Floor),
	"ceil":  unary(math.Ceil),
	"round": unary(math.Round),
	"exp":   unary(math.Exp),
	"ln":    unary(math.Log),
	"log":   unary(math.Log10),
	"sin":   unary(degrees(math.Sin)),
	"cos":   unary(degrees(math.Cos)),
	"tan":   unary(degrees(math.Tan)),
	"asin":  unary(toDegrees(math.Asin)),
	"acos":  unary(toDegrees(math.Acos)),
	"atan":  unary(toDegrees(math.Atan)),
	"min": {minArgs: 1, maxArgs: -1, fn: func(a []float64) float64 {
		return slices.Min(a)
	}},
	"max": {minArgs: 1, maxArgs: -1, fn: func(a []float64) float64 {
		return slices.Max(a)
	}},
	"sum": {minArgs: 1, maxArgs: -1, fn: func(a []float64) float64 {
		var s float64
		for _, v := range a {
			s += v
		}
		return s
	}},
	"avg": {minArgs: 1, maxArgs: -1, fn: func(a []float64) float64 {
		var s float64
		for _, v := range a {
			s += v
		}
		return s / float64(len(a))
	}},
}

// Eval computes the value of the expression.
func (e *Expr) Eval(vars Variables) (float64, error) {
	v, err := e.Left.eval(vars)
	if err != nil {
		return 0, err
	}
	for _, r := range e.Rest {
		rv, err := r.Term.eval(vars)
		if err != nil {
			return 0, err
		}
		if r.Op == "+" {
			v += rv
		} else {
			v -= rv
		}
	}
	return v, nil
}

func (t *Term) eval(vars Variables) (float64, error) {
	v, err := t.Left.eval(vars)
	if err != nil {
		return 0, err
	}
	for _, r := range t.Rest {
		rv, err := r.Unary.eval(vars)
		if err != nil {
			return 0, err
		}
		if r.Op == "*" {
			v *= rv
		} else {
			v /= rv
		}
	}
	return v, nil
}

func (u *Unary) eval(vars Variables) (float64, error) {
	if u.Unary != nil {
		v, err := u.Unary.eval(vars)
		if err != nil {
			return 0, err
		}
		if u.Op == "-" {
			return -v, nil
		}
		return v, nil
	}
	return u.Power.eval(vars)
}

func (p *Power) eval(vars Variables) (float64, error) {
	base, err := p.Base.eval(vars)
	if err != nil {
		return 0, err
	}
	if p.Exp == nil {
		return base, nil
	}
	exp, err := p.Exp.eval(vars)
	if err != nil {
		return 0, err
	}
	return math.Pow(base, exp), nil
}

func (p *Primary) eval(vars Variables) (float64, error) {
	switch {
	case p.Number != nil:
		return *p.Number, nil
	case p.Ref != nil:
		return p.Ref.eval(vars)
	default:
		return p.Sub.Eval(vars)
	}
}

func (r *Reference) eval(vars Variables) (float64, error) {
	if r.IsCall {
		f, ok := functions[r.Name]
		if !ok {
			return 0, fmt.Errorf("%w %q at %s", ErrUnknownFunction, r.Name, r.Pos)
		}
		if len(r.Args) < f.minArgs || (f.maxArgs >= 0 && len(r.Args) > f.maxArgs) {
			return 0, fmt.Errorf("%w: %s takes %d, got %d", ErrArgumentCount, r.Name, f.minArgs, len(r.Args))
		}
		args := make([]float64, len(r.Args))
		for i, a := range r.Args {
			v, err := a.Eval(vars)
			if err != nil {
				return 0, err
			}
			args[i] = v
		}
		return f.fn(args), nil
	}

	if vars != nil {
		if v, ok := vars.Lookup(r.Name); ok {
			return v, nil
		}
	}
	if v, ok := constants[r.Name]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w %q at %s", ErrUnknownVariable, r.Name, r.Pos)
}

// Identifiers returns the distinct variable names the expression references,
// in order of first appearance. Function names are not included.
func (e *Expr) Identifiers() []string {
	var out []string
	seen := map[string]bool{}
	e.walk(func(r *Reference) {
		if !r.IsCall && !seen[r.Name] {
			seen[r.Name] = true
			out = append(out, r.Name)
		}
	})
	return out
}

func (e *Expr) walk(fn func(*Reference)) {
	e.Left.walk(fn)
	for _, r := range e.Rest {
		r.Term.walk(fn)
	}
}

func (t *Term) walk(fn func(*Reference)) {
	t.Left.walk(fn)
	for _, r := range t.Rest {
		r.Unary.walk(fn)
	}
}

func (u *Unary) walk(fn func(*Reference)) {
	if u.Unary != nil {
		u.Unary.walk(fn)
		return
	}
	u.Power.Base.walk(fn)
	if u.Power.Exp != nil {
		u.Power.Exp.walk(fn)
	}
}

func (p *Primary) walk(fn func(*Reference)) {
	switch {
	case p.Ref != nil:
		fn(p.Ref)
		for _, a := range p.Ref.Args {
			a.walk(fn)
		}
	case p.Sub != nil:
		p.Sub.walk(fn)
	}
}
