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

package gadgets

import (
	"gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/proofsql/proof"
	"github.com/dolthub/proofsql/scalar"
)

// byteRangeBound is the width of the single-byte non-negative range
// each limb of a decomposed difference is checked against, spec.md
// §4.7: it is exactly the domain rho_256 covers, so the verifier never
// needs a committed range table for a limb — only the closed-form
// rho_256 evaluation (proof.Rho256Eval).
const byteRangeBound = 256

// base256 is byteRangeBound as a scalar, the base a difference's limbs
// are weighted by when recomposed.
var base256 = scalar.FromUint64(byteRangeBound)

// ErrNotMonotonic is raised when a column's successive differences do
// not all lie in the non-negative range the requested ordering demands.
var ErrNotMonotonic = errors.NewKind("column is not monotonic under the requested ordering")

// rangeTable materializes the implicit virtual table {0, 1, ..., 255} as
// a real array, for the prover side's membership-check call: the
// verifier never needs this array (it uses rho_256's closed form
// instead), but the prover's array-level membership gadget does.
func rangeTable() []scalar.Scalar {
	out := make([]scalar.Scalar, byteRangeBound)
	for i := range out {
		out[i] = scalar.FromUint64(uint64(i))
	}
	return out
}

// limbsOf decomposes every value of column into numLimbs base-256
// limbs, least-significant limb first, read off each scalar's canonical
// big-endian byte encoding. It is only ever called on differences known
// to be small non-negative integers (well under the field's size), so
// truncating to the low numLimbs bytes loses no information.
func limbsOf(column []scalar.Scalar, numLimbs int) [][]scalar.Scalar {
	limbs := make([][]scalar.Scalar, numLimbs)
	for l := range limbs {
		limbs[l] = make([]scalar.Scalar, len(column))
	}
	for i, v := range column {
		b := v.Bytes()
		for l := 0; l < numLimbs; l++ {
			limbs[l][i] = scalar.FromUint64(uint64(b[len(b)-1-l]))
		}
	}
	return limbs
}

func allOnes(n int) []scalar.Scalar {
	out := make([]scalar.Scalar, n)
	for i := range out {
		out[i] = scalar.One
	}
	return out
}

// successiveDifferences computes column[i+1]-column[i] (ascending) or
// column[i]-column[i+1] (descending) for the selector's first L rows,
// shifted by one (diff-1) when strict is requested, so that both strict
// and weak orderings reduce to the same non-negative range check
// ProveMonotonic applies (difference lies in [0, 256^numRangeBytes)).
func successiveDifferences(column []scalar.Scalar, selectorLength int, strict, ascending bool) []scalar.Scalar {
	if selectorLength == 0 {
		return nil
	}
	diffs := make([]scalar.Scalar, selectorLength-1)
	for i := 0; i < selectorLength-1; i++ {
		var d scalar.Scalar
		if ascending {
			d = scalar.Sub(column[i+1], column[i])
		} else {
			d = scalar.Sub(column[i], column[i+1])
		}
		if strict {
			d = scalar.Sub(d, scalar.One)
		}
		diffs[i] = d
	}
	return diffs
}

// ProveMonotonic proves that column is (strictly/weakly) monotonically
// (ascending/descending) over its first selectorLength rows, spec.md
// §4.7, by decomposing every successive difference into numRangeBytes
// base-256 limbs and checking each limb lies in the implicit [0,256)
// range via the membership-check gadget — which bounds the difference
// itself to [0, 256^numRangeBytes). A single byte (numRangeBytes=1)
// only bounds differences under 256, which the packed row-identity
// column i = left_idx*2^64+right_idx blows through wherever two
// consecutive result rows come from different left rows; see the
// comment at the call sites in plan/join.go's FinalRoundEvaluate for how
// each picks numRangeBytes wide enough for the column it checks.
func ProveMonotonic(
	builder *proof.FinalRoundBuilder,
	alpha, beta scalar.Scalar,
	column []scalar.Scalar,
	selectorLength int,
	strict, ascending bool,
	numRangeBytes int,
) error {
	diffs := successiveDifferences(column, selectorLength, strict, ascending)
	builder.ProduceIntermediateMLE(diffs)

	limbs := limbsOf(diffs, numRangeBytes)
	limbSelector := allOnes(len(diffs))

	// diff == sum_l 256^l * limb_l, checked pointwise: this is what
	// actually ties the range-checked limbs back to the difference they
	// were decomposed from, rather than just proving the limbs
	// themselves are each in [0,256) in isolation.
	terms := make([]proof.Term, 0, numRangeBytes+1)
	terms = append(terms, proof.Term{Coefficient: scalar.One, Factors: [][]scalar.Scalar{diffs}})
	weight := scalar.One
	for _, limb := range limbs {
		terms = append(terms, proof.Term{Coefficient: scalar.Neg(weight), Factors: [][]scalar.Scalar{limb}})
		weight = scalar.Mul(weight, base256)
	}
	if err := proof.CheckIdentity(terms); err != nil {
		return ErrNotMonotonic.New()
	}
	builder.ProduceSumcheckSubpolynomial(proof.Identity, terms)

	for _, limb := range limbs {
		builder.ProduceIntermediateMLE(limb)
		if _, _, err := ProveMembership(
			builder, alpha, beta,
			[][]scalar.Scalar{rangeTable()}, allOnes(byteRangeBound),
			[][]scalar.Scalar{limb}, limbSelector,
		); err != nil {
			return ErrNotMonotonic.New()
		}
	}
	return nil
}

// VerifyMonotonic is the verifier side of the monotonicity gadget: it
// consumes the committed successive-difference MLE's evaluation
// (produced by ProveMonotonic's call to builder.ProduceIntermediateMLE,
// the first thing each ProveMonotonic call commits), then for each of
// numRangeBytes limbs consumes that limb's own committed evaluation and
// verifies its range membership, and finally checks the byte-
// decomposition identity ties the limbs back to the difference. The
// sumcheck challenge point itself is never threaded through call sites
// by hand; it is read from builder.EvaluationPoint().
//
// columnEval is the checked column's own evaluation at the sumcheck
// point (i's or u's, in the join executor); oneEval is that same
// column's selector evaluation. numRangeBytes must match the value
// ProveMonotonic was called with for this same column.
func VerifyMonotonic(
	builder *proof.VerificationBuilder,
	alpha, beta scalar.Scalar,
	columnEval, oneEval scalar.Scalar,
	numRangeBytes int,
) error {
	_ = columnEval

	diffEvals, err := builder.TryConsumeFinalRoundMLEEvaluations(1)
	if err != nil {
		return err
	}
	diffEval := diffEvals[0]

	r := builder.EvaluationPoint()

	// rangeTable and each limb are single-column rows, so rowHash's fold
	// reduces to alpha plus the raw value (beta's first power is 1, and
	// there is no second column to carry beta^1): both sides of this
	// membership check need that same alpha-shifted form the prover's
	// rowHashes computed them in, not the bare values.
	hatRangeRowEval := scalar.Add(alpha, proof.Rho256Eval(r))

	limbEvals := make([]scalar.Scalar, numRangeBytes)
	for l := 0; l < numRangeBytes; l++ {
		evals, err := builder.TryConsumeFinalRoundMLEEvaluations(1)
		if err != nil {
			return err
		}
		limbEvals[l] = evals[0]
		tildeLimbRowEval := scalar.Add(alpha, limbEvals[l])
		if _, _, err := VerifyMembership(builder, alpha, beta, oneEval, hatRangeRowEval, tildeLimbRowEval); err != nil {
			return err
		}
	}

	recomposed := scalar.Zero
	weight := scalar.One
	for _, le := range limbEvals {
		recomposed = scalar.Add(recomposed, scalar.Mul(weight, le))
		weight = scalar.Mul(weight, base256)
	}
	if !recomposed.Equal(diffEval) {
		return proof.NewVerificationError("monotonic: byte-decomposition identity failed")
	}

	return nil
}
