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

// Package plan assembles the proof core's executor tree: a small,
// tagged set of node types — a table scan leaf and the sort-merge join
// node — each implementing the prover's two-round contract and the
// verifier's contract, spec.md §4.8 and Design Note "Polymorphism over
// executor types." Dispatch is through the ProofPlan interface, not
// inheritance: every node type satisfies it directly.
package plan

import (
	"github.com/dolthub/proofsql/database"
	"github.com/dolthub/proofsql/proof"
	"github.com/dolthub/proofsql/scalar"
)

// Plan is the common shape every executor node exposes regardless of
// round: its declared result column names and count, known without
// running either prover round, exactly as a validated logical plan
// would carry them (spec.md §6, "a validated tree of executor nodes
// with known column fields").
type Plan interface {
	ColumnNames() []string
	NumColumns() int
}

// ProofPlan is the full contract every executor node implements: the
// prover's first- and final-round passes, and the verifier's pass. A
// node with sub-plans (only JoinPlan, in this core) is responsible for
// invoking its children's passes itself, in the fixed left-then-right,
// children-before-parent order spec.md §5 requires.
type ProofPlan interface {
	Plan

	// FirstRoundEvaluate runs the prover's round-1 pass: it commits
	// whatever this node's round 1 must commit and returns the table
	// this node evaluates to, for its parent to consume.
	FirstRoundEvaluate(builder *proof.FirstRoundBuilder) (*database.Table, error)

	// FinalRoundEvaluate runs the prover's round-2 pass, with the
	// post-result challenges already drawn and available through
	// builder, and returns the table this node evaluates to.
	FinalRoundEvaluate(builder *proof.FinalRoundBuilder, arena *proof.Arena) (*database.Table, error)

	// VerifierEvaluate runs the verifier's pass: it consumes what the
	// corresponding prover passes produced, in the same order, and
	// returns this node's TableEvaluation. A TableScan leaf is the one
	// exception: it reads its column evaluations from accessor and does
	// not consume the final-round MLE evaluations its FinalRoundEvaluate
	// commits.
	VerifierEvaluate(builder *proof.VerificationBuilder, accessor *Accessor) (database.TableEvaluation, error)
}

// Accessor is the verifier's view of committed data it was not handed
// directly in the proof: a column-ref to scalar-evaluation map and a
// table-ref to one-evaluation map, spec.md §6's `accessor` and
// `one_eval_map`. A TableScan leaf consults it for every column it did
// not itself just consume from the builder.
type Accessor struct {
	ColumnEvals map[database.ColumnRef]scalar.Scalar
	OneEvals    map[database.TableRef]scalar.Scalar
}

// NewAccessor builds an empty Accessor ready to be populated by the
// caller driving verification.
func NewAccessor() *Accessor {
	return &Accessor{
		ColumnEvals: make(map[database.ColumnRef]scalar.Scalar),
		OneEvals:    make(map[database.TableRef]scalar.Scalar),
	}
}
