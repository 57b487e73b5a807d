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

package plan

import (
	"github.com/dolthub/proofsql/database"
	"github.com/dolthub/proofsql/proof"
	"github.com/dolthub/proofsql/scalar"
)

// TableScan is the leaf ProofPlan: a single already-materialized table,
// identified by a TableRef so the verifier's Accessor can look its
// columns' committed evaluations up. It is the base case the join
// node's sub-plans bottom out at; any node that can itself produce a
// *database.Table satisfies the same contract and could stand in its
// place (spec.md §6, §9 "Polymorphism over executor types").
type TableScan struct {
	Ref   database.TableRef
	Table *database.Table
}

// NewTableScan wraps an already-built table as a leaf plan node.
func NewTableScan(ref database.TableRef, table *database.Table) *TableScan {
	return &TableScan{Ref: ref, Table: table}
}

func (s *TableScan) ColumnNames() []string { return s.Table.Names }
func (s *TableScan) NumColumns() int       { return s.Table.NumColumns() }

// FirstRoundEvaluate declares the scan's row count as a one-evaluation
// length and returns the table unchanged; a leaf commits no MLEs in
// round 1, matching the original crate's table scan (it has nothing to
// prove about its own data until the final round).
func (s *TableScan) FirstRoundEvaluate(builder *proof.FirstRoundBuilder) (*database.Table, error) {
	builder.ProduceOneEvaluationLength(s.Table.NumRows)
	return s.Table, nil
}

// FinalRoundEvaluate commits every column of the scanned table as a
// final-round intermediate MLE, in column order.
func (s *TableScan) FinalRoundEvaluate(builder *proof.FinalRoundBuilder, arena *proof.Arena) (*database.Table, error) {
	_ = arena
	for _, col := range s.Table.Columns {
		builder.ProduceIntermediateMLE(col.ToScalars())
	}
	return s.Table, nil
}

// VerifierEvaluate consumes the scan's one-evaluation and looks every
// column's evaluation up in accessor, by column reference. It consumes
// no final-round MLE evaluations, although FinalRoundEvaluate commits one
// per column.
func (s *TableScan) VerifierEvaluate(builder *proof.VerificationBuilder, accessor *Accessor) (database.TableEvaluation, error) {
	oneEval, err := builder.TryConsumeOneEvaluation()
	if err != nil {
		return database.TableEvaluation{}, err
	}

	columnEvals := make([]scalar.Scalar, len(s.Table.Names))
	for i, name := range s.Table.Names {
		ref := database.NewColumnRef(s.Ref, name, s.Table.Columns[i].Type())
		v, ok := accessor.ColumnEvals[ref]
		if !ok {
			return database.TableEvaluation{}, proof.NewVerificationError("table scan: no committed evaluation for column " + s.Ref.String() + "." + name)
		}
		columnEvals[i] = v
	}
	return database.NewTableEvaluation(columnEvals, oneEval), nil
}
