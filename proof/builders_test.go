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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/proofsql/scalar"
)

func TestFirstRoundBuilderAccumulatesInOrder(t *testing.T) {
	b := NewFirstRoundBuilder()
	b.ProduceIntermediateMLE([]scalar.Scalar{scalar.One})
	b.ProduceIntermediateMLE([]scalar.Scalar{scalar.Two})
	b.ProduceOneEvaluationLength(3)
	b.ProduceOneEvaluationLength(5)
	b.ProduceRhoEvaluationLength(3)
	b.RequestPostResultChallenges(2)

	assert.Len(t, b.IntermediateMLEs, 2)
	assert.Equal(t, []int{3, 5}, b.OneEvaluationLengths)
	assert.Equal(t, []int{3}, b.RhoEvaluationLengths)
	assert.Equal(t, 2, b.NumPostResultChallenges)
}

func TestFinalRoundBuilderConsumesChallengesInOrder(t *testing.T) {
	alpha := scalar.FromUint64(7)
	beta := scalar.FromUint64(11)
	b := NewFinalRoundBuilder([]scalar.Scalar{alpha, beta})

	got1, err := b.ConsumePostResultChallenge()
	require.NoError(t, err)
	assert.True(t, got1.Equal(alpha))

	got2, err := b.ConsumePostResultChallenge()
	require.NoError(t, err)
	assert.True(t, got2.Equal(beta))

	_, err = b.ConsumePostResultChallenge()
	require.Error(t, err)
	assert.True(t, ErrVerification.Is(err))
}

func TestFinalRoundBuilderProducesSubpolynomial(t *testing.T) {
	b := NewFinalRoundBuilder(nil)
	terms := []Term{
		{Coefficient: scalar.One, Factors: [][]scalar.Scalar{{scalar.FromUint64(3)}, {scalar.FromUint64(4)}}},
		{Coefficient: scalar.Neg(scalar.One), Factors: [][]scalar.Scalar{{scalar.FromUint64(12)}}},
	}
	b.ProduceSumcheckSubpolynomial(ZeroSum, terms)
	require.Len(t, b.Subpolynomials, 1)
	assert.Equal(t, 2, b.Subpolynomials[0].Degree)
	assert.Equal(t, ZeroSum, b.Subpolynomials[0].Kind)
	require.NoError(t, CheckZeroSum(terms))
}

func TestVerificationBuilderConsumesInDeclaredOrder(t *testing.T) {
	ones := []scalar.Scalar{scalar.FromUint64(1), scalar.FromUint64(2)}
	rhos := []scalar.Scalar{scalar.FromUint64(3), scalar.FromUint64(4)}
	challenges := []scalar.Scalar{scalar.FromUint64(5), scalar.FromUint64(6)}
	firstRound := []scalar.Scalar{scalar.FromUint64(7)}
	finalRound := []scalar.Scalar{scalar.FromUint64(8), scalar.FromUint64(9), scalar.FromUint64(10)}

	vb := NewVerificationBuilder(ones, rhos, challenges, firstRound, finalRound, scalar.One)

	v1, err := vb.TryConsumeOneEvaluation()
	require.NoError(t, err)
	assert.True(t, v1.Equal(ones[0]))
	v2, err := vb.TryConsumeOneEvaluation()
	require.NoError(t, err)
	assert.True(t, v2.Equal(ones[1]))

	_, err = vb.TryConsumeOneEvaluation()
	require.Error(t, err)
	assert.True(t, ErrVerification.Is(err))

	r1, err := vb.TryConsumeRhoEvaluation()
	require.NoError(t, err)
	assert.True(t, r1.Equal(rhos[0]))

	c1, err := vb.TryConsumePostResultChallenge()
	require.NoError(t, err)
	assert.True(t, c1.Equal(challenges[0]))

	f1, err := vb.TryConsumeFirstRoundMLEEvaluation()
	require.NoError(t, err)
	assert.True(t, f1.Equal(firstRound[0]))

	batch, err := vb.TryConsumeFinalRoundMLEEvaluations(2)
	require.NoError(t, err)
	assert.Len(t, batch, 2)

	_, err = vb.TryConsumeFinalRoundMLEEvaluations(2)
	require.Error(t, err)
}

func TestVerificationBuilderAccumulatesIdentity(t *testing.T) {
	vb := NewVerificationBuilder(nil, nil, nil, nil, nil, scalar.FromUint64(2))
	vb.TryProduceSumcheckSubpolynomialEvaluation(ZeroSum, scalar.FromUint64(3), 2)
	vb.TryProduceSumcheckSubpolynomialEvaluation(ZeroSum, scalar.FromUint64(4), 1)
	assert.True(t, vb.AccumulatedIdentity().Equal(scalar.FromUint64(14)))
}
