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

// FirstRoundBuilder accumulates everything a prover commits to during
// round 1, spec.md §4.3: committed intermediate MLEs, declared selector
// and ρ-column lengths, and a request for post-result Fiat-Shamir
// challenges. It holds no transcript and draws no challenges itself —
// SortMergeJoinExec's first round only ever requests them; it is the
// final round that consumes them, once the transcript has bound
// everything committed here (see FinalRoundBuilder.ConsumePostResultChallenge).
type FirstRoundBuilder struct {
	IntermediateMLEs        [][]scalar.Scalar
	OneEvaluationLengths    []int
	RhoEvaluationLengths    []int
	NumPostResultChallenges int
}

// NewFirstRoundBuilder returns an empty builder.
func NewFirstRoundBuilder() *FirstRoundBuilder {
	return &FirstRoundBuilder{}
}

// ProduceIntermediateMLE appends a committed MLE. Order matters: the
// verifier consumes first-round MLE evaluations in the same order via
// VerificationBuilder.TryConsumeFirstRoundMLEEvaluation.
func (b *FirstRoundBuilder) ProduceIntermediateMLE(column []scalar.Scalar) {
	b.IntermediateMLEs = append(b.IntermediateMLEs, column)
}

// ProduceOneEvaluationLength declares an expected selector length; the
// verifier consumes one one-evaluation per declaration, in order.
func (b *FirstRoundBuilder) ProduceOneEvaluationLength(length int) {
	b.OneEvaluationLengths = append(b.OneEvaluationLengths, length)
}

// ProduceRhoEvaluationLength declares a ρ-column length.
func (b *FirstRoundBuilder) ProduceRhoEvaluationLength(length int) {
	b.RhoEvaluationLengths = append(b.RhoEvaluationLengths, length)
}

// RequestPostResultChallenges asks for k Fiat-Shamir challenges to be
// drawn after the result table has been committed.
func (b *FirstRoundBuilder) RequestPostResultChallenges(k int) {
	b.NumPostResultChallenges += k
}
