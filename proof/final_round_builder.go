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

// Subpolynomial is one polynomial identity appended during the final
// round: its kind, its row-array-level terms, and the degree the prover
// claims for it (the widest term).
type Subpolynomial struct {
	Kind   SubpolynomialKind
	Terms  []Term
	Degree int
}

// FinalRoundBuilder accumulates round-2 prover state, spec.md §4.4: the
// post-result challenges drawn from the transcript after round 1 was
// committed, the final round's own committed MLEs, and the subpolynomial
// identities that the sumcheck's final folded value must equal zero
// against (ZeroSum) or hold everywhere (Identity).
type FinalRoundBuilder struct {
	postResultChallenges []scalar.Scalar
	challengeCursor      int

	IntermediateMLEs [][]scalar.Scalar
	Subpolynomials   []Subpolynomial
}

// NewFinalRoundBuilder builds a FinalRoundBuilder seeded with the
// post-result challenges the transcript drew, in request order.
func NewFinalRoundBuilder(postResultChallenges []scalar.Scalar) *FinalRoundBuilder {
	return &FinalRoundBuilder{postResultChallenges: postResultChallenges}
}

// ConsumePostResultChallenge returns the next post-result challenge in
// request order. It fails if every requested challenge has already been
// consumed, mirroring the verifier's own VerificationBuilder cursor.
func (b *FinalRoundBuilder) ConsumePostResultChallenge() (scalar.Scalar, error) {
	if b.challengeCursor >= len(b.postResultChallenges) {
		return scalar.Scalar{}, ErrVerification.New("no more post-result challenges to consume")
	}
	c := b.postResultChallenges[b.challengeCursor]
	b.challengeCursor++
	return c, nil
}

// ProduceIntermediateMLE appends a committed MLE for the final round.
func (b *FinalRoundBuilder) ProduceIntermediateMLE(column []scalar.Scalar) {
	b.IntermediateMLEs = append(b.IntermediateMLEs, column)
}

// ProduceSumcheckSubpolynomial appends a polynomial identity; the
// subpolynomial's degree is the widest term's factor count.
func (b *FinalRoundBuilder) ProduceSumcheckSubpolynomial(kind SubpolynomialKind, terms []Term) {
	b.Subpolynomials = append(b.Subpolynomials, Subpolynomial{Kind: kind, Terms: terms, Degree: degreeOfTerms(terms)})
}
