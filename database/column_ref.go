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

// Package database models the parts of the relational data model the
// proof core consumes through typed, read-only views: column references,
// literals, the expression algebra, typed columns, tables, and the
// sort-merge join's row-index bookkeeping. Table storage, row encoding,
// string interning, and big-integer arithmetic proper live outside this
// core (spec.md §1); this package only defines the shapes the core reads.
package database

// TableRef names a table within a schema, mirroring how a validated
// logical plan would identify its source tables.
type TableRef struct {
	Schema string
	Name   string
}

// NewTableRef builds a TableRef.
func NewTableRef(schema, name string) TableRef {
	return TableRef{Schema: schema, Name: name}
}

func (t TableRef) String() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// ColumnType enumerates the scalar types a column or literal can carry.
type ColumnType int

const (
	// BigInt is a signed 64-bit integer column.
	BigInt ColumnType = iota
	// Int128 is a signed 128-bit integer column.
	Int128
	// Boolean is a 0/1 column.
	Boolean
	// VarChar is a UTF-8 string column.
	VarChar
	// Decimal is an arbitrary-precision fixed-point column.
	Decimal
)

func (t ColumnType) String() string {
	switch t {
	case BigInt:
		return "BIGINT"
	case Int128:
		return "INT128"
	case Boolean:
		return "BOOLEAN"
	case VarChar:
		return "VARCHAR"
	case Decimal:
		return "DECIMAL"
	default:
		return "UNKNOWN"
	}
}

// ColumnRef is a triple (table, column name, type): a reference to a
// single column of a single table, exactly as a validated logical plan
// would carry it.
type ColumnRef struct {
	Table TableRef
	Name  string
	Type  ColumnType
}

// NewColumnRef builds a ColumnRef.
func NewColumnRef(table TableRef, name string, columnType ColumnType) ColumnRef {
	return ColumnRef{Table: table, Name: name, Type: columnType}
}
