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

package proof

import "github.com/dolthub/proofsql/scalar"

// SumcheckMleEvaluations holds the evaluations, at the sumcheck
// challenge point, of every distinguished MLE the rest of the proof
// core needs: the selector-one MLEs declared by the first-round
// builder, the all-one MLE of length 1, the entrywise-random-batch MLE,
// and (when the sumcheck dimension allows it) rho_256.
type SumcheckMleEvaluations struct {
	// NumSumcheckVariables is n, the dimension of the evaluation point.
	NumSumcheckVariables int
	// OneEvaluations maps a declared selector length L to
	// Σ_{i<L} eq(i,r). One entry per distinct length that was declared
	// via FirstRoundBuilder.ProduceOneEvaluationLength, in first-seen
	// order.
	OneEvaluations map[int]scalar.Scalar
	// oneEvaluationOrder preserves the first-seen order of the keys of
	// OneEvaluations, mirroring the IndexMap/IndexSet ordering the
	// original crate relies on for deterministic iteration.
	oneEvaluationOrder []int
	// SingletonOneEvaluation is the one-evaluation of the all-ones MLE
	// of length 1.
	SingletonOneEvaluation scalar.Scalar
	// RandomEvaluation is the inner product of the truncated Lagrange
	// basis at r with the truncated Lagrange basis at the entrywise
	// random point, over range_length entries.
	RandomEvaluation scalar.Scalar
	// PCSProofEvaluations is the borrowed slice of MLE evaluations the
	// opaque commitment backend is asked to open; this core never
	// mutates it.
	PCSProofEvaluations []scalar.Scalar
	// Rho256Evaluation is present iff NumSumcheckVariables >= 8.
	Rho256Evaluation *scalar.Scalar
}

// NewSumcheckMleEvaluations constructs the evaluations for the sumcheck
// MLEs, per spec.md §4.2.
//
// Preconditions (checked, not assumed): len(evaluationPoint) must equal
// len(randomScalars.EntrywisePoint), and rangeLength must equal
// randomScalars.TableLength. Both are prover/verifier coordination bugs,
// not data-dependent runtime conditions, so a mismatch panics rather
// than returning an error — matching the `assert_eq!` calls in
// sumcheck_mle_evaluations.rs.
func NewSumcheckMleEvaluations(
	rangeLength int,
	oneEvaluationLengths []int,
	evaluationPoint []scalar.Scalar,
	randomScalars SumcheckRandomScalars,
	pcsProofEvaluations []scalar.Scalar,
) *SumcheckMleEvaluations {
	if len(evaluationPoint) != len(randomScalars.EntrywisePoint) {
		panic("evaluation point and entrywise random point must have the same dimension")
	}
	if rangeLength != randomScalars.TableLength {
		panic("range_length must equal sumcheck_random_scalars.table_length")
	}

	var rho256Eval *scalar.Scalar
	if len(evaluationPoint) >= 8 {
		v := rho256(evaluationPoint)
		rho256Eval = &v
	}

	order := dedupPreserveOrder(oneEvaluationLengths)
	oneEvaluations := make(map[int]scalar.Scalar, len(order))
	for _, length := range order {
		oneEvaluations[length] = truncatedLagrangeBasisSum(length, evaluationPoint)
	}

	return &SumcheckMleEvaluations{
		NumSumcheckVariables:   len(evaluationPoint),
		OneEvaluations:         oneEvaluations,
		oneEvaluationOrder:     order,
		SingletonOneEvaluation: truncatedLagrangeBasisSum(1, evaluationPoint),
		RandomEvaluation: truncatedLagrangeBasisInnerProduct(
			rangeLength, evaluationPoint, randomScalars.EntrywisePoint,
		),
		PCSProofEvaluations: pcsProofEvaluations,
		Rho256Evaluation:    rho256Eval,
	}
}

// OneEvaluationLengthsInOrder returns the distinct declared lengths in
// first-seen order. The verification builder consumes one one-evaluation
// per declaration, duplicates included, so this list is shorter than its
// consumption sequence whenever a length was declared more than once.
func (e *SumcheckMleEvaluations) OneEvaluationLengthsInOrder() []int {
	return e.oneEvaluationOrder
}

// dedupPreserveOrder removes duplicate ints, keeping only the first
// occurrence of each, in the order encountered.
func dedupPreserveOrder(xs []int) []int {
	seen := make(map[int]struct{}, len(xs))
	out := make([]int, 0, len(xs))
	for _, x := range xs {
		if _, ok := seen[x]; ok {
			continue
		}
		seen[x] = struct{}{}
		out = append(out, x)
	}
	return out
}
