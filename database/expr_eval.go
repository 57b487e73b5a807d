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

import (
	"fmt"
	"math/big"

	"gopkg.in/src-d/go-errors.v1"
)

// ErrUnknownColumn is raised when Eval encounters a ColumnExpr whose
// name is not present in the table being evaluated against.
var ErrUnknownColumn = errors.NewKind("unknown column: %s")

// ErrNonBooleanOperand is raised when a logical operator (AND, OR, NOT)
// is applied to a non-Boolean column.
var ErrNonBooleanOperand = errors.NewKind("operator %s requires a boolean operand, got %s")

// ErrUnsupportedArithmeticType is raised when Plus/Minus/Multiply/Divide
// is applied to anything but BigInt columns. This reference evaluator
// only needs to support the filter-predicate scenarios in spec.md §8
// (S1, S3, S4), none of which project arithmetic over non-integer
// columns; the proof-bearing executors never reach this evaluator at
// all, since they consume Column values directly.
var ErrUnsupportedArithmeticType = errors.NewKind("arithmetic on %s columns not supported")

// ErrDivideByZero is raised by Eval when a Divide expression's divisor
// row is zero.
var ErrDivideByZero = errors.NewKind("division by zero at row %d")

// Eval is a pure, in-memory reference evaluator for Expr against a
// concrete Table: it produces the Column a SQL engine's row executor
// would produce for this expression, with no commitment, transcript, or
// proof obligation attached. It exists to let the filter-predicate
// scenarios in spec.md §8 (S1, S3, S4) be checked directly against the
// expression algebra in §4.1, independently of the proof protocol that
// SortMergeJoinExec carries; it is not itself part of the proof core.
//
// Eval evaluates expr against t, producing the resulting Column.
func Eval(expr Expr, t *Table) (Column, error) {
	switch ex := expr.(type) {
	case ColumnExpr:
		return evalColumnRef(ex.Ref, t)
	case LiteralExpr:
		return broadcastLiteral(ex.Value, t.NumRows), nil
	case NotExpr:
		operand, err := Eval(ex.Operand, t)
		if err != nil {
			return nil, err
		}
		b, ok := operand.(BooleanColumn)
		if !ok {
			return nil, ErrNonBooleanOperand.New("NOT", operand.Type())
		}
		out := make(BooleanColumn, len(b))
		for i, v := range b {
			out[i] = !v
		}
		return out, nil
	case BinaryExpr:
		return evalBinary(ex, t)
	default:
		return nil, fmt.Errorf("unreachable expr variant %T", expr)
	}
}

func evalColumnRef(ref ColumnRef, t *Table) (Column, error) {
	for i, name := range t.Names {
		if name == ref.Name {
			return t.Columns[i], nil
		}
	}
	return nil, ErrUnknownColumn.New(ref.Name)
}

func broadcastLiteral(v LiteralValue, numRows int) Column {
	switch v.Kind {
	case BigInt:
		out := make(BigIntColumn, numRows)
		for i := range out {
			out[i] = v.BigInt
		}
		return out
	case Boolean:
		out := make(BooleanColumn, numRows)
		for i := range out {
			out[i] = v.Boolean
		}
		return out
	case VarChar:
		out := make(VarCharColumn, numRows)
		for i := range out {
			out[i] = v.VarChar
		}
		return out
	case Int128:
		out := make(Int128Column, numRows)
		for i := range out {
			out[i] = v.Int128
		}
		return out
	case Decimal:
		out := DecimalColumn{Values: make([]big.Int, numRows), Scale: v.Decimal.Scale}
		for i := range out.Values {
			out.Values[i] = v.Decimal.Unscaled
		}
		return out
	default:
		panic("unreachable literal kind in broadcastLiteral")
	}
}

func evalBinary(ex BinaryExpr, t *Table) (Column, error) {
	left, err := Eval(ex.Left, t)
	if err != nil {
		return nil, err
	}
	right, err := Eval(ex.Right, t)
	if err != nil {
		return nil, err
	}

	switch ex.Op {
	case And, Or:
		lb, ok1 := left.(BooleanColumn)
		rb, ok2 := right.(BooleanColumn)
		if !ok1 {
			return nil, ErrNonBooleanOperand.New(ex.Op, left.Type())
		}
		if !ok2 {
			return nil, ErrNonBooleanOperand.New(ex.Op, right.Type())
		}
		out := make(BooleanColumn, len(lb))
		for i := range lb {
			if ex.Op == And {
				out[i] = lb[i] && rb[i]
			} else {
				out[i] = lb[i] || rb[i]
			}
		}
		return out, nil

	case Eq, NotEq, Gt, Lt, GtEq, LtEq:
		n := left.Len()
		out := make(BooleanColumn, n)
		for i := 0; i < n; i++ {
			eq := left.EqualAt(i, right, i)
			lt := left.LessAt(i, right, i)
			switch ex.Op {
			case Eq:
				out[i] = eq
			case NotEq:
				out[i] = !eq
			case Lt:
				out[i] = lt
			case Gt:
				out[i] = !eq && !lt
			case LtEq:
				out[i] = eq || lt
			case GtEq:
				out[i] = !lt
			}
		}
		return out, nil

	case Plus, Minus, Multiply, Divide:
		lc, ok1 := left.(BigIntColumn)
		rc, ok2 := right.(BigIntColumn)
		if !ok1 {
			return nil, ErrUnsupportedArithmeticType.New(left.Type())
		}
		if !ok2 {
			return nil, ErrUnsupportedArithmeticType.New(right.Type())
		}
		out := make(BigIntColumn, len(lc))
		for i := range lc {
			switch ex.Op {
			case Plus:
				out[i] = lc[i] + rc[i]
			case Minus:
				out[i] = lc[i] - rc[i]
			case Multiply:
				out[i] = lc[i] * rc[i]
			case Divide:
				if rc[i] == 0 {
					return nil, ErrDivideByZero.New(i)
				}
				out[i] = lc[i] / rc[i]
			}
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unreachable binary operator %v", ex.Op)
	}
}
