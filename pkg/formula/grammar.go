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
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Expr is the root of a parsed expression: terms joined by + and -.
type Expr struct {
	Left *Term    `@@`
	Rest []*OpTerm `@@*`
}

// OpTerm is one additive operation.
type OpTerm struct {
	Op   string `@("+" | "-")`
	Term *Term  `@@`
}

// Term is a chain of factors joined by * and /.
type Term struct {
	Left *Unary     `@@`
	Rest []*OpUnary `@@*`
}

// OpUnary is one multiplicative operation.
type OpUnary struct {
	Op    string `@("*" | "/")`
	Unary *Unary `@@`
}

// Unary is an optionally signed power.
type Unary struct {
	Op    string `  ( @("-" | "+")`
	Unary *Unary `    @@ )`
	Power *Power `| @@`
}

// Power is a primary raised to an optional right associative exponent.
type Power struct {
	Base *Primary `@@`
	Exp  *Unary   `( "^" @@ )?`
}

// Primary is a number, a reference or a parenthesized expression.
type Primary struct {
	Pos    lexer.Position
	Number *float64   `  @Number`
	Ref    *Reference `| @@`
	Sub    *Expr      `| "(" @@ ")"`
}

// Reference names a variable, a constant or, when followed by an argument
// list, a function.
type Reference struct {
	Pos    lexer.Position
	Name   string  `@Ident`
	IsCall bool    `( @"("`
	Args   []*Expr `  ( @@ ( ("," | ";") @@ )* )? ")" )?`
}

var exprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`},
	{Name: "Ident", Pattern: `[\p{L}_@#][\p{L}\p{N}_@#]*`},
	{Name: "Punct", Pattern: `[-+*/^(),;]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var exprParser = participle.MustBuild[Expr](
	participle.Lexer(exprLexer),
	participle.Elide("Whitespace"),
)
