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

	"gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/proofsql/scalar"
)

// ErrColumnTypeMismatch is raised by Concat when the two columns do not
// share a concrete type (or, for decimals, a scale); the union of a
// join's two key columns goes through Concat. LessAt and EqualAt do not
// raise it: they type-assert other and panic on a mismatch.
var ErrColumnTypeMismatch = errors.NewKind("column type mismatch: %s vs %s")

// Column is a typed, read-only view over a single table column. Table
// storage, row encoding, and string interning live outside this core
// (spec.md §1); Column is the narrow surface the proof core reads
// through.
type Column interface {
	// Len is the number of rows.
	Len() int
	// Type identifies the concrete column kind.
	Type() ColumnType
	// ToScalars scales every value into the field, spec.md §4.1.
	ToScalars() []scalar.Scalar
	// Gather projects the column onto the given row indexes, in order,
	// duplicates and repeats allowed.
	Gather(indexes []int) Column
	// Concat appends other after this column. other must share this
	// column's concrete type.
	Concat(other Column) (Column, error)
	// LessAt reports whether this column's row i sorts strictly before
	// other's row j, under the type's natural ordering. other must
	// share this column's concrete type.
	LessAt(i int, other Column, j int) bool
	// EqualAt reports whether this column's row i equals other's row j.
	// other must share this column's concrete type.
	EqualAt(i int, other Column, j int) bool
}

// BigIntColumn is a column of signed 64-bit integers.
type BigIntColumn []int64

func (c BigIntColumn) Len() int          { return len(c) }
func (c BigIntColumn) Type() ColumnType  { return BigInt }
func (c BigIntColumn) ToScalars() []scalar.Scalar {
	out := make([]scalar.Scalar, len(c))
	for i, v := range c {
		out[i] = scalar.FromInt64(v)
	}
	return out
}
func (c BigIntColumn) Gather(indexes []int) Column {
	out := make(BigIntColumn, len(indexes))
	for i, idx := range indexes {
		out[i] = c[idx]
	}
	return out
}
func (c BigIntColumn) Concat(other Column) (Column, error) {
	o, ok := other.(BigIntColumn)
	if !ok {
		return nil, ErrColumnTypeMismatch.New(c.Type(), other.Type())
	}
	return append(append(BigIntColumn{}, c...), o...), nil
}
func (c BigIntColumn) LessAt(i int, other Column, j int) bool {
	o := other.(BigIntColumn)
	return c[i] < o[j]
}
func (c BigIntColumn) EqualAt(i int, other Column, j int) bool {
	o := other.(BigIntColumn)
	return c[i] == o[j]
}

// Int128Column is a column of signed 128-bit integers, represented as
// arbitrary-precision integers since Go has no native int128.
type Int128Column []big.Int

func (c Int128Column) Len() int         { return len(c) }
func (c Int128Column) Type() ColumnType { return Int128 }
func (c Int128Column) ToScalars() []scalar.Scalar {
	out := make([]scalar.Scalar, len(c))
	for i := range c {
		out[i] = scalar.FromBigInt(&c[i])
	}
	return out
}
func (c Int128Column) Gather(indexes []int) Column {
	out := make(Int128Column, len(indexes))
	for i, idx := range indexes {
		out[i] = c[idx]
	}
	return out
}
func (c Int128Column) Concat(other Column) (Column, error) {
	o, ok := other.(Int128Column)
	if !ok {
		return nil, ErrColumnTypeMismatch.New(c.Type(), other.Type())
	}
	return append(append(Int128Column{}, c...), o...), nil
}
func (c Int128Column) LessAt(i int, other Column, j int) bool {
	o := other.(Int128Column)
	return c[i].Cmp(&o[j]) < 0
}
func (c Int128Column) EqualAt(i int, other Column, j int) bool {
	o := other.(Int128Column)
	return c[i].Cmp(&o[j]) == 0
}

// BooleanColumn is a column of 0/1 values.
type BooleanColumn []bool

func (c BooleanColumn) Len() int         { return len(c) }
func (c BooleanColumn) Type() ColumnType { return Boolean }
func (c BooleanColumn) ToScalars() []scalar.Scalar {
	out := make([]scalar.Scalar, len(c))
	for i, v := range c {
		out[i] = scalar.FromBool(v)
	}
	return out
}
func (c BooleanColumn) Gather(indexes []int) Column {
	out := make(BooleanColumn, len(indexes))
	for i, idx := range indexes {
		out[i] = c[idx]
	}
	return out
}
func (c BooleanColumn) Concat(other Column) (Column, error) {
	o, ok := other.(BooleanColumn)
	if !ok {
		return nil, ErrColumnTypeMismatch.New(c.Type(), other.Type())
	}
	return append(append(BooleanColumn{}, c...), o...), nil
}
func (c BooleanColumn) LessAt(i int, other Column, j int) bool {
	o := other.(BooleanColumn)
	return !c[i] && o[j]
}
func (c BooleanColumn) EqualAt(i int, other Column, j int) bool {
	o := other.(BooleanColumn)
	return c[i] == o[j]
}

// VarCharColumn is a column of UTF-8 strings.
type VarCharColumn []string

func (c VarCharColumn) Len() int         { return len(c) }
func (c VarCharColumn) Type() ColumnType { return VarChar }
func (c VarCharColumn) ToScalars() []scalar.Scalar {
	out := make([]scalar.Scalar, len(c))
	for i, v := range c {
		out[i] = scalar.FromString(v)
	}
	return out
}
func (c VarCharColumn) Gather(indexes []int) Column {
	out := make(VarCharColumn, len(indexes))
	for i, idx := range indexes {
		out[i] = c[idx]
	}
	return out
}
func (c VarCharColumn) Concat(other Column) (Column, error) {
	o, ok := other.(VarCharColumn)
	if !ok {
		return nil, ErrColumnTypeMismatch.New(c.Type(), other.Type())
	}
	return append(append(VarCharColumn{}, c...), o...), nil
}
func (c VarCharColumn) LessAt(i int, other Column, j int) bool {
	o := other.(VarCharColumn)
	return c[i] < o[j]
}
func (c VarCharColumn) EqualAt(i int, other Column, j int) bool {
	o := other.(VarCharColumn)
	return c[i] == o[j]
}

// DecimalColumn is a column of arbitrary-precision fixed-point values,
// all sharing a single Scale.
type DecimalColumn struct {
	Values []big.Int
	Scale  int8
}

func (c DecimalColumn) Len() int         { return len(c.Values) }
func (c DecimalColumn) Type() ColumnType { return Decimal }
func (c DecimalColumn) ToScalars() []scalar.Scalar {
	out := make([]scalar.Scalar, len(c.Values))
	for i := range c.Values {
		out[i] = scalar.FromBigInt(&c.Values[i])
	}
	return out
}
func (c DecimalColumn) Gather(indexes []int) Column {
	out := DecimalColumn{Values: make([]big.Int, len(indexes)), Scale: c.Scale}
	for i, idx := range indexes {
		out.Values[i] = c.Values[idx]
	}
	return out
}
func (c DecimalColumn) Concat(other Column) (Column, error) {
	o, ok := other.(DecimalColumn)
	if !ok || o.Scale != c.Scale {
		return nil, ErrColumnTypeMismatch.New(c.Type(), other.Type())
	}
	return DecimalColumn{Values: append(append([]big.Int{}, c.Values...), o.Values...), Scale: c.Scale}, nil
}
func (c DecimalColumn) LessAt(i int, other Column, j int) bool {
	o := other.(DecimalColumn)
	return c.Values[i].Cmp(&o.Values[j]) < 0
}
func (c DecimalColumn) EqualAt(i int, other Column, j int) bool {
	o := other.(DecimalColumn)
	return c.Values[i].Cmp(&o.Values[j]) == 0
}
