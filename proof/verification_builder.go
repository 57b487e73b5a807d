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

// VerificationBuilder is the dual of FirstRoundBuilder and
// FinalRoundBuilder, spec.md §4.5: it consumes exactly what the prover
// produced, in the same order, and folds subpolynomial evaluations into
// one accumulated identity under the transcript's subpolynomial-folding
// challenge. Consuming past the prover's declared count for any category
// is a VerificationError, never a panic — a malicious or buggy prover
// must not be able to crash the verifier.
type VerificationBuilder struct {
	oneEvaluations []scalar.Scalar
	oneEvalCursor  int

	rhoEvaluations []scalar.Scalar
	rhoEvalCursor  int

	postResultChallenges []scalar.Scalar
	postResultCursor     int

	firstRoundMLEEvaluations []scalar.Scalar
	firstRoundCursor         int

	finalRoundMLEEvaluations []scalar.Scalar
	finalRoundCursor         int

	foldingChallenge    scalar.Scalar
	accumulatedIdentity scalar.Scalar

	evaluationPoint []scalar.Scalar
}

// NewVerificationBuilder builds a VerificationBuilder over the
// evaluations and challenges the verifier has already obtained (from the
// proof blob and the transcript), to be consumed in declared order by
// the tree walk described in spec.md §4.8's "Verifier evaluation".
//
// evaluationPoint is the sumcheck challenge point itself (r, spec.md
// §4.2), carried alongside the already-reduced evaluations so that
// gadgets needing a virtual table's closed-form evaluation (the
// monotonicity gadget's implicit [0,256) range, via proof.Rho256Eval)
// can recompute it without the prover
// having to commit and open that table as a real array.
func NewVerificationBuilder(
	oneEvaluations []scalar.Scalar,
	rhoEvaluations []scalar.Scalar,
	postResultChallenges []scalar.Scalar,
	firstRoundMLEEvaluations []scalar.Scalar,
	finalRoundMLEEvaluations []scalar.Scalar,
	foldingChallenge scalar.Scalar,
	evaluationPoint ...[]scalar.Scalar,
) *VerificationBuilder {
	var point []scalar.Scalar
	if len(evaluationPoint) > 0 {
		point = evaluationPoint[0]
	}
	return &VerificationBuilder{
		oneEvaluations:           oneEvaluations,
		rhoEvaluations:           rhoEvaluations,
		postResultChallenges:     postResultChallenges,
		firstRoundMLEEvaluations: firstRoundMLEEvaluations,
		finalRoundMLEEvaluations: finalRoundMLEEvaluations,
		foldingChallenge:         foldingChallenge,
		evaluationPoint:          point,
	}
}

// EvaluationPoint returns the sumcheck challenge point this builder was
// constructed over, for gadgets that need to recompute a virtual table's
// closed-form evaluation directly.
func (b *VerificationBuilder) EvaluationPoint() []scalar.Scalar {
	return b.evaluationPoint
}

func (b *VerificationBuilder) consumeOne(values []scalar.Scalar, cursor *int, what string) (scalar.Scalar, error) {
	if *cursor >= len(values) {
		return scalar.Scalar{}, ErrVerification.New(what + ": no more values to consume")
	}
	v := values[*cursor]
	*cursor++
	return v, nil
}

// TryConsumeOneEvaluation consumes the next declared selector evaluation.
func (b *VerificationBuilder) TryConsumeOneEvaluation() (scalar.Scalar, error) {
	return b.consumeOne(b.oneEvaluations, &b.oneEvalCursor, "one-evaluation")
}

// TryConsumeRhoEvaluation consumes the next declared ρ-column evaluation.
func (b *VerificationBuilder) TryConsumeRhoEvaluation() (scalar.Scalar, error) {
	return b.consumeOne(b.rhoEvaluations, &b.rhoEvalCursor, "rho-evaluation")
}

// TryConsumePostResultChallenge consumes the next post-result challenge.
func (b *VerificationBuilder) TryConsumePostResultChallenge() (scalar.Scalar, error) {
	return b.consumeOne(b.postResultChallenges, &b.postResultCursor, "post-result challenge")
}

// TryConsumeFirstRoundMLEEvaluation consumes the next first-round MLE
// evaluation.
func (b *VerificationBuilder) TryConsumeFirstRoundMLEEvaluation() (scalar.Scalar, error) {
	return b.consumeOne(b.firstRoundMLEEvaluations, &b.firstRoundCursor, "first-round MLE evaluation")
}

// TryConsumeFinalRoundMLEEvaluations consumes the next k final-round MLE
// evaluations as a batch.
func (b *VerificationBuilder) TryConsumeFinalRoundMLEEvaluations(k int) ([]scalar.Scalar, error) {
	if b.finalRoundCursor+k > len(b.finalRoundMLEEvaluations) {
		return nil, ErrVerification.New("final-round MLE evaluations: no more values to consume")
	}
	out := b.finalRoundMLEEvaluations[b.finalRoundCursor : b.finalRoundCursor+k]
	b.finalRoundCursor += k
	return out, nil
}

// TryProduceSumcheckSubpolynomialEvaluation folds value into the
// accumulated identity under the transcript's subpolynomial-folding
// challenge. kind and degree are not folded into the identity itself —
// the sumcheck round reduction that would actually bind a subpolynomial's
// claimed degree lives in the opaque commitment backend (spec.md §6),
// out of this core's scope. They are checked only for being a known kind
// and a positive degree; whether degree matches the term being folded is
// not checked. Every join proof folds many subpolynomials this way, not
// just one: a single join over two table scans folds twenty-nine (one
// per membership check, four direct and twenty-four nested in its two
// monotonicity checks, plus its final ZeroSum term).
func (b *VerificationBuilder) TryProduceSumcheckSubpolynomialEvaluation(kind SubpolynomialKind, value scalar.Scalar, degree int) {
	if kind != ZeroSum && kind != Identity {
		panic("proof: TryProduceSumcheckSubpolynomialEvaluation called with unknown SubpolynomialKind")
	}
	if degree < 1 {
		panic("proof: TryProduceSumcheckSubpolynomialEvaluation called with non-positive degree")
	}
	weighted := scalar.Mul(b.foldingChallenge, value)
	b.accumulatedIdentity = scalar.Add(b.accumulatedIdentity, weighted)
}

// AccumulatedIdentity returns the folded identity value accumulated so
// far; the caller checks it against the expected value (zero, for a
// ZeroSum-only protocol shape) once every subpolynomial has been folded.
func (b *VerificationBuilder) AccumulatedIdentity() scalar.Scalar {
	return b.accumulatedIdentity
}
