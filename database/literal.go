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
	"math/big"

	"github.com/dolthub/proofsql/scalar"
)

// DecimalValue is an arbitrary-precision fixed-point number: Unscaled
// interpreted as Unscaled * 10^-Scale.
type DecimalValue struct {
	Unscaled big.Int
	Scale    int8
}

// LiteralValue is a tagged value over the supported scalar types,
// spec.md §3. Exactly one of the typed fields is meaningful, selected by
// Kind; this mirrors the teacher's own preference for small concrete
// value types over a generic `interface{}` payload (see the literal
// column types test helpers in sql/expression/*_test.go).
type LiteralValue struct {
	Kind    ColumnType
	BigInt  int64
	Int128  big.Int
	Boolean bool
	VarChar string
	Decimal DecimalValue
}

// NewBigIntLiteral builds a BigInt literal.
func NewBigIntLiteral(v int64) LiteralValue {
	return LiteralValue{Kind: BigInt, BigInt: v}
}

// NewInt128Literal builds an Int128 literal.
func NewInt128Literal(v big.Int) LiteralValue {
	return LiteralValue{Kind: Int128, Int128: v}
}

// NewBooleanLiteral builds a Boolean literal.
func NewBooleanLiteral(v bool) LiteralValue {
	return LiteralValue{Kind: Boolean, Boolean: v}
}

// NewVarCharLiteral builds a VarChar literal.
func NewVarCharLiteral(v string) LiteralValue {
	return LiteralValue{Kind: VarChar, VarChar: v}
}

// NewDecimalLiteral builds a Decimal literal.
func NewDecimalLiteral(unscaled big.Int, scale int8) LiteralValue {
	return LiteralValue{Kind: Decimal, Decimal: DecimalValue{Unscaled: unscaled, Scale: scale}}
}

// ToScalar scales the literal's value into the field, the same scaling
// every typed Column value goes through (see Column.ToScalars).
func (v LiteralValue) ToScalar() scalar.Scalar {
	switch v.Kind {
	case BigInt:
		return scalar.FromInt64(v.BigInt)
	case Int128:
		return scalar.FromBigInt(&v.Int128)
	case Boolean:
		return scalar.FromBool(v.Boolean)
	case VarChar:
		return scalar.FromString(v.VarChar)
	case Decimal:
		return scalar.FromBigInt(&v.Decimal.Unscaled)
	default:
		panic("unreachable literal kind")
	}
}
