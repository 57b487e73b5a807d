// Copyright 2024 The Proofsql Authors.
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

package database

import "gopkg.in/src-d/go-errors.v1"

// ErrUnsupportedBinaryOperator is raised by TranslateBinaryOperator for
// any parser operator outside the twelve supported ones, spec.md §4.1.
var ErrUnsupportedBinaryOperator = errors.NewKind("unsupported binary operator: %s")

// ParserBinaryOperator is the operator shape handed down from the (out
// of scope) SQL text parser — a superset of the operators this core
// actually proves over.
type ParserBinaryOperator string

// The parser operator vocabulary. The first twelve are supported; the
// rest exist only to exercise ErrUnsupportedBinaryOperator in tests.
const (
	ParserEq         ParserBinaryOperator = "="
	ParserNotEq      ParserBinaryOperator = "<>"
	ParserGt         ParserBinaryOperator = ">"
	ParserLt         ParserBinaryOperator = "<"
	ParserGtEq       ParserBinaryOperator = ">="
	ParserLtEq       ParserBinaryOperator = "<="
	ParserAnd        ParserBinaryOperator = "AND"
	ParserOr         ParserBinaryOperator = "OR"
	ParserPlus       ParserBinaryOperator = "+"
	ParserMinus      ParserBinaryOperator = "-"
	ParserMultiply   ParserBinaryOperator = "*"
	ParserDivide     ParserBinaryOperator = "/"
	ParserSpaceship  ParserBinaryOperator = "<=>"
	ParserRegexp     ParserBinaryOperator = "REGEXP"
	ParserBitwiseXor ParserBinaryOperator = "^"
)

// BinaryOperator is the internal, provable algebraic shape of a binary
// expression: the twelve operators this core's executors know how to
// reason about, spec.md §3.
type BinaryOperator int

const (
	Eq BinaryOperator = iota
	NotEq
	Gt
	Lt
	GtEq
	LtEq
	And
	Or
	Plus
	Minus
	Multiply
	Divide
)

func (op BinaryOperator) String() string {
	switch op {
	case Eq:
		return "="
	case NotEq:
		return "<>"
	case Gt:
		return ">"
	case Lt:
		return "<"
	case GtEq:
		return ">="
	case LtEq:
		return "<="
	case And:
		return "AND"
	case Or:
		return "OR"
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	default:
		return "UNKNOWN"
	}
}

// TranslateBinaryOperator is the pure, total function from a parser
// operator to this core's internal operator, spec.md §4.1. It is total
// over its domain only in the sense that every input maps to exactly
// one of {ok, ErrUnsupportedBinaryOperator} — it has no other failure
// mode and holds no state.
func TranslateBinaryOperator(op ParserBinaryOperator) (BinaryOperator, error) {
	switch op {
	case ParserEq:
		return Eq, nil
	case ParserNotEq:
		return NotEq, nil
	case ParserGt:
		return Gt, nil
	case ParserLt:
		return Lt, nil
	case ParserGtEq:
		return GtEq, nil
	case ParserLtEq:
		return LtEq, nil
	case ParserAnd:
		return And, nil
	case ParserOr:
		return Or, nil
	case ParserPlus:
		return Plus, nil
	case ParserMinus:
		return Minus, nil
	case ParserMultiply:
		return Multiply, nil
	case ParserDivide:
		return Divide, nil
	default:
		return 0, ErrUnsupportedBinaryOperator.New(string(op))
	}
}

// Expr is implemented by every node of the expression algebra: column
// reference, literal, binary operation, and NOT. Modeled as tagged
// variants behind a marker method (spec.md Design Note "Deep
// expression/plan trees with owned subtrees") rather than a closed Go
// sum type, since Go has none; dispatch is by type switch in Eval.
type Expr interface {
	isExpr()
}

// ColumnExpr references a single column.
type ColumnExpr struct {
	Ref ColumnRef
}

func (ColumnExpr) isExpr() {}

// LiteralExpr is a constant expression.
type LiteralExpr struct {
	Value LiteralValue
}

func (LiteralExpr) isExpr() {}

// BinaryExpr applies a BinaryOperator to two subexpressions.
type BinaryExpr struct {
	Left  Expr
	Right Expr
	Op    BinaryOperator
}

func (BinaryExpr) isExpr() {}

// NotExpr negates a boolean subexpression.
type NotExpr struct {
	Operand Expr
}

func (NotExpr) isExpr() {}
