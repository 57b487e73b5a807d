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
	"fmt"

	"github.com/dolthub/proofsql/scalar"
)

// SubpolynomialKind tags a sumcheck subpolynomial identity, spec.md
// §4.4: ZeroSum asserts the identity sums to zero over the hypercube;
// Identity asserts it holds pointwise everywhere.
type SubpolynomialKind int

const (
	ZeroSum SubpolynomialKind = iota
	Identity
)

func (k SubpolynomialKind) String() string {
	if k == Identity {
		return "Identity"
	}
	return "ZeroSum"
}

// Term is one product-of-MLEs term of a subpolynomial: Coefficient *
// Π Factors, where each Factor is a full committed MLE vector (one
// value per row; all factors of one term share a row count). Terms are
// handed, uninterpreted, toward the opaque commitment/IPA backend
// (spec.md §6): this core never itself runs the interactive sumcheck
// round reduction, only declares what the backend must fold and at what
// claimed degree.
type Term struct {
	Coefficient scalar.Scalar
	Factors     [][]scalar.Scalar
}

// Degree is the number of MLE factors multiplied together in this term.
func (t Term) Degree() int {
	return len(t.Factors)
}

func (t Term) numRows() int {
	if len(t.Factors) == 0 {
		return 0
	}
	return len(t.Factors[0])
}

// checkRagged reports an error if t's factors do not all share one row
// count — every factor of a term must be the same length, since
// evaluateRow indexes every factor by the same row.
func (t Term) checkRagged() error {
	if len(t.Factors) == 0 {
		return nil
	}
	n := len(t.Factors[0])
	for _, f := range t.Factors[1:] {
		if len(f) != n {
			return ErrVerification.New(fmt.Sprintf("term factors have mismatched lengths: %d vs %d", n, len(f)))
		}
	}
	return nil
}

// evaluateRow folds the term down to a single scalar at one row.
func (t Term) evaluateRow(row int) scalar.Scalar {
	acc := t.Coefficient
	for _, f := range t.Factors {
		acc = scalar.Mul(acc, f[row])
	}
	return acc
}

// degreeOfTerms is the widest term's degree, the subpolynomial's overall
// degree, spec.md §4.4.
func degreeOfTerms(terms []Term) int {
	degree := 0
	for _, t := range terms {
		if d := t.Degree(); d > degree {
			degree = d
		}
	}
	return degree
}

// CheckZeroSum is the prover's own sanity check that a ZeroSum
// subpolynomial it is about to emit genuinely sums to zero across every
// term's rows — an internal consistency assertion, not part of the
// verifier's contract, matching the original executor's own debug
// assertions before handing subpolynomials to the backend.
func CheckZeroSum(terms []Term) error {
	sum := scalar.Zero
	for _, t := range terms {
		if err := t.checkRagged(); err != nil {
			return err
		}
		for row := 0; row < t.numRows(); row++ {
			sum = scalar.Add(sum, t.evaluateRow(row))
		}
	}
	if !sum.IsZero() {
		return ErrVerification.New("prover-side ZeroSum check failed: subpolynomial does not sum to zero")
	}
	return nil
}

// CheckIdentity is the prover's own sanity check that an Identity
// subpolynomial holds at every row: all of terms must share a single row
// count, and the terms' row-wise sum must be zero at every row.
func CheckIdentity(terms []Term) error {
	numRows := -1
	for _, t := range terms {
		if err := t.checkRagged(); err != nil {
			return err
		}
		if numRows == -1 {
			numRows = t.numRows()
		} else if t.numRows() != numRows {
			return ErrVerification.New("identity subpolynomial terms have mismatched row counts")
		}
	}
	for row := 0; row < numRows; row++ {
		sum := scalar.Zero
		for _, t := range terms {
			sum = scalar.Add(sum, t.evaluateRow(row))
		}
		if !sum.IsZero() {
			return ErrVerification.New(fmt.Sprintf("prover-side identity check failed at row %d", row))
		}
	}
	return nil
}
