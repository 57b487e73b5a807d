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

// eqBasis evaluates the multilinear equality polynomial eq(i, r) — the
// i-th Lagrange basis function of the boolean hypercube {0,1}^len(r)
// evaluated at r — where the bits of i are taken LSB-first against r.
func eqBasis(i uint64, r []scalar.Scalar) scalar.Scalar {
	acc := scalar.One
	for k, rk := range r {
		if (i>>uint(k))&1 == 1 {
			acc = scalar.Mul(acc, rk)
		} else {
			acc = scalar.Mul(acc, scalar.Sub(scalar.One, rk))
		}
	}
	return acc
}

// truncatedLagrangeBasisSum computes Σ_{i<length} eq(i, r), the
// evaluation at r of the MLE of the selector {1 if i<length else 0}.
func truncatedLagrangeBasisSum(length int, r []scalar.Scalar) scalar.Scalar {
	sum := scalar.Zero
	for i := 0; i < length; i++ {
		sum = scalar.Add(sum, eqBasis(uint64(i), r))
	}
	return sum
}

// truncatedLagrangeBasisInnerProduct computes Σ_{i<length} eq(i,r)·eq(i,s).
func truncatedLagrangeBasisInnerProduct(length int, r, s []scalar.Scalar) scalar.Scalar {
	sum := scalar.Zero
	for i := 0; i < length; i++ {
		sum = scalar.Add(sum, scalar.Mul(eqBasis(uint64(i), r), eqBasis(uint64(i), s)))
	}
	return sum
}

// RangeSelectorOneEvaluation is the one-evaluation of the selector
// {1 if i<length else 0} at r — exported for callers outside this
// package that need a selector's one-evaluation at r directly, without
// building a SumcheckMleEvaluations. The monotonicity gadget does not
// use it: its range-table membership check takes no hat-side
// one-evaluation.
func RangeSelectorOneEvaluation(length int, r []scalar.Scalar) scalar.Scalar {
	return truncatedLagrangeBasisSum(length, r)
}

// Rho256Eval is the exported form of rho256, for gadgets that need the
// closed-form evaluation of the implicit [0,256) range table directly,
// without going through SumcheckMleEvaluations. It requires len(r) >= 8.
func Rho256Eval(r []scalar.Scalar) scalar.Scalar {
	return rho256(r)
}

// rho256 is the MLE of the map x -> x for x in [0,256), extended by zero,
// evaluated at r. It is defined only when r has at least 8 coordinates;
// the caller (SumcheckMleEvaluations) is responsible for the presence
// check.
//
// The fold order below (Horner over the low 8 coordinates, reversed,
// then a product of the remaining (1-r_k) terms) matches
// sumcheck_mle_evaluations.rs exactly; since this is exact field
// arithmetic the order does not change the value, but it is kept for
// fidelity to the original.
func rho256(r []scalar.Scalar) scalar.Scalar {
	acc := scalar.Zero
	for k := 7; k >= 0; k-- {
		acc = scalar.Add(scalar.Mul(acc, scalar.Two), r[k])
	}
	for k := 8; k < len(r); k++ {
		acc = scalar.Mul(acc, scalar.Sub(scalar.One, r[k]))
	}
	return acc
}
