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

// ErrColumnLengthMismatch is raised when a table is constructed from
// columns that do not share a single row count, violating the Table
// view invariant in spec.md §3.
var ErrColumnLengthMismatch = errors.NewKind("columns do not share a row count")

// ErrNamesColumnsMismatch is raised when the number of column names does
// not match the number of columns supplied to NewTable.
var ErrNamesColumnsMismatch = errors.NewKind("number of names (%d) does not match number of columns (%d)")

// TableOptions carries metadata about a table that does not affect join
// semantics but that a real commitment backend would need to align a
// table's commitment with the rest of a larger, possibly paginated,
// dataset — the row offset this table starts at.
type TableOptions struct {
	RowOffset int
}

// Table is an ordered sequence of named columns sharing a row count,
// spec.md §3.
type Table struct {
	Names   []string
	Columns []Column
	NumRows int
	Options TableOptions
}

// NewTable builds a Table, checking the Table view invariant: every
// column shares the same row count.
func NewTable(names []string, columns []Column, options TableOptions) (*Table, error) {
	if len(names) != len(columns) {
		return nil, ErrNamesColumnsMismatch.New(len(names), len(columns))
	}
	numRows := 0
	if len(columns) > 0 {
		numRows = columns[0].Len()
		for _, c := range columns[1:] {
			if c.Len() != numRows {
				return nil, ErrColumnLengthMismatch.New()
			}
		}
	}
	return &Table{
		Names:   append([]string{}, names...),
		Columns: append([]Column{}, columns...),
		NumRows: numRows,
		Options: options,
	}, nil
}

// NumColumns is the number of columns in the table.
func (t *Table) NumColumns() int {
	return len(t.Columns)
}

// rhoColumnName is the synthetic name given to a table's row-number
// column; it is never a valid SQL identifier, so it cannot collide with
// a real column.
const rhoColumnName = "$rho"

// AddRhoColumn returns a new table with a 0-indexed row-number column
// appended, spec.md §3's "ρ-column". The receiver is unmodified.
func (t *Table) AddRhoColumn() *Table {
	rho := make(BigIntColumn, t.NumRows)
	for i := range rho {
		rho[i] = int64(i)
	}
	return &Table{
		Names:   append(append([]string{}, t.Names...), rhoColumnName),
		Columns: append(append([]Column{}, t.Columns...), rho),
		NumRows: t.NumRows,
		Options: t.Options,
	}
}

// ColumnsAt gathers the table's columns at the given indexes, in order,
// failing if any index is out of range.
func (t *Table) ColumnsAt(indexes []int) ([]Column, error) {
	out := make([]Column, len(indexes))
	for i, idx := range indexes {
		if idx < 0 || idx >= len(t.Columns) {
			return nil, ErrIndexOutOfRange.New(idx, len(t.Columns))
		}
		out[i] = t.Columns[idx]
	}
	return out, nil
}

// ErrIndexOutOfRange is raised when a column index supplied to a join
// plan or a table projection falls outside the table's column range.
var ErrIndexOutOfRange = errors.NewKind("column index %d out of range for table with %d columns")
