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

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/proofsql/scalar"
)

func zeros(n int) []scalar.Scalar {
	r := make([]scalar.Scalar, n)
	for i := range r {
		r[i] = scalar.Zero
	}
	return r
}

func TestRho256AbsentBelowEightVariables(t *testing.T) {
	for n := 0; n < 8; n++ {
		r := zeros(n)
		evals := NewSumcheckMleEvaluations(0, nil, r, SumcheckRandomScalars{EntrywisePoint: zeros(n), TableLength: 0}, nil)
		require.Nil(t, evals.Rho256Evaluation, "n=%d", n)
	}
}

func TestRho256PresentAtEightVariablesAndAbove(t *testing.T) {
	for n := 8; n <= 12; n++ {
		r := zeros(n)
		evals := NewSumcheckMleEvaluations(0, nil, r, SumcheckRandomScalars{EntrywisePoint: zeros(n), TableLength: 0}, nil)
		require.NotNil(t, evals.Rho256Evaluation, "n=%d", n)
	}
}

func TestRho256AllZeroPointEvaluatesToZero(t *testing.T) {
	r := zeros(10)
	evals := NewSumcheckMleEvaluations(0, nil, r, SumcheckRandomScalars{EntrywisePoint: zeros(10), TableLength: 0}, nil)
	require.True(t, evals.Rho256Evaluation.IsZero())
}

func TestRho256LowByteOnePointEvaluatesTo255(t *testing.T) {
	// r_k = 1 for k<8, 0 otherwise, over 10 sumcheck variables.
	r := zeros(10)
	for k := 0; k < 8; k++ {
		r[k] = scalar.One
	}
	evals := NewSumcheckMleEvaluations(0, nil, r, SumcheckRandomScalars{EntrywisePoint: zeros(10), TableLength: 0}, nil)
	require.True(t, evals.Rho256Evaluation.Equal(scalar.FromUint64(255)))
}

func TestOneEvaluationsDeduplicatePreservingOrder(t *testing.T) {
	r := []scalar.Scalar{scalar.FromUint64(3), scalar.FromUint64(5)}
	evals := NewSumcheckMleEvaluations(
		4,
		[]int{2, 4, 2, 1, 4},
		r,
		SumcheckRandomScalars{EntrywisePoint: r, TableLength: 4},
		nil,
	)
	require.Equal(t, []int{2, 4, 1}, evals.OneEvaluationLengthsInOrder())
	require.Len(t, evals.OneEvaluations, 3)
	require.True(t, evals.OneEvaluations[1].Equal(evals.SingletonOneEvaluation))
}

func TestDimensionMismatchPanics(t *testing.T) {
	require.Panics(t, func() {
		NewSumcheckMleEvaluations(
			1,
			nil,
			zeros(2),
			SumcheckRandomScalars{EntrywisePoint: zeros(3), TableLength: 1},
			nil,
		)
	})
}

func TestRangeLengthMismatchPanics(t *testing.T) {
	require.Panics(t, func() {
		NewSumcheckMleEvaluations(
			1,
			nil,
			zeros(2),
			SumcheckRandomScalars{EntrywisePoint: zeros(2), TableLength: 2},
			nil,
		)
	})
}
