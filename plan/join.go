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

package plan

import (
	"gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/proofsql/database"
	"github.com/dolthub/proofsql/gadgets"
	"github.com/dolthub/proofsql/proof"
	"github.com/dolthub/proofsql/scalar"
)

// ErrConstructionPanic is the value JoinPlan's constructor panics with
// when a caller violates one of its build-time invariants — an index
// out of range, mismatched join arities, or a result-name count that
// doesn't match the join's column shape. These are programmer errors at
// plan-build time, not runtime conditions (spec.md §7), so they panic
// rather than returning an error.
var ErrConstructionPanic = errors.NewKind("construction panic: %s")

// twoPow64 is 2^64 as a scalar, the base of the strictly-increasing
// row-index packing i = left_idx*2^64 + right_idx, spec.md §4.8 step 2
// of the final round.
var twoPow64 = scalar.Pow(scalar.Two, 64)

// JoinPlan is the sort-merge equi-join executor node, spec.md §4.8. Its
// two sub-plans may be any ProofPlan — a TableScan leaf or another
// JoinPlan — evaluated left before right, children before parent.
type JoinPlan struct {
	Left, Right      ProofPlan
	LeftJoinIndexes  []int
	RightJoinIndexes []int
	ResultNames      []string
}

// NewJoinPlan builds a JoinPlan, checking the three construction
// invariants from spec.md §3 verbatim: every join index is in range for
// its side, the two join-index lists have equal length, and the number
// of result names equals left-columns + right-columns - join-columns.
// Any violation panics with ErrConstructionPanic — ConstructionPanic in
// spec.md §7's error taxonomy.
//
// LeftJoinIndexes and RightJoinIndexes may carry any number of entries
// at construction time (the multi-column-key Open Question, spec.md §9,
// is left unresolved here too); FirstRoundEvaluate and VerifierEvaluate
// reject anything but length 1 at runtime.
func NewJoinPlan(
	left, right ProofPlan,
	leftJoinIndexes, rightJoinIndexes []int,
	resultNames []string,
) *JoinPlan {
	numColumnsLeft := left.NumColumns()
	numColumnsRight := right.NumColumns()

	for _, idx := range leftJoinIndexes {
		if idx < 0 || idx >= numColumnsLeft {
			panic(ErrConstructionPanic.New("left join column index out of bounds"))
		}
	}
	for _, idx := range rightJoinIndexes {
		if idx < 0 || idx >= numColumnsRight {
			panic(ErrConstructionPanic.New("right join column index out of bounds"))
		}
	}
	if len(leftJoinIndexes) != len(rightJoinIndexes) {
		panic(ErrConstructionPanic.New("join columns should have the same number of columns"))
	}
	expectedNames := numColumnsLeft + numColumnsRight - len(leftJoinIndexes)
	if len(resultNames) != expectedNames {
		panic(ErrConstructionPanic.New("the amount of result names should be the same as the expected number of columns"))
	}

	return &JoinPlan{
		Left:             left,
		Right:            right,
		LeftJoinIndexes:  append([]int{}, leftJoinIndexes...),
		RightJoinIndexes: append([]int{}, rightJoinIndexes...),
		ResultNames:      append([]string{}, resultNames...),
	}
}

func (p *JoinPlan) ColumnNames() []string { return p.ResultNames }
func (p *JoinPlan) NumColumns() int       { return len(p.ResultNames) }

// permutationIndexes returns a permutation of {0,...,total-1} that
// starts with first (in order) followed by every remaining index in
// ascending order — the "join key, then everything else" reordering
// spec.md §4.8 step 5 needs to build hat_left/hat_right.
func permutationIndexes(total int, first []int) []int {
	seen := make(map[int]bool, len(first))
	out := make([]int, 0, total)
	out = append(out, first...)
	for _, i := range first {
		seen[i] = true
	}
	for i := 0; i < total; i++ {
		if !seen[i] {
			out = append(out, i)
		}
	}
	return out
}

func unzipPairs(pairs [][2]int) (left, right []int) {
	left = make([]int, len(pairs))
	right = make([]int, len(pairs))
	for i, pr := range pairs {
		left[i] = pr[0]
		right[i] = pr[1]
	}
	return left, right
}

// FirstRoundEvaluate runs the join's round-1 pass, spec.md §4.8 "Prover
// commitments and witnesses (round 1)": it evaluates both sub-plans,
// performs the join to learn its output shape, commits the union key
// u, declares every one-evaluation and ρ-evaluation length the
// verifier will need to consume, and requests the two post-result
// challenges (α, β) the membership and monotonicity gadgets need. The
// membership and monotonicity checks themselves (spec.md §4.8 steps
// 5-6) need α, β to compute their witnesses, which are not available
// until the final round; round 1 contributes only the length
// declarations those checks' verifier-side consumption depends on.
func (p *JoinPlan) FirstRoundEvaluate(builder *proof.FirstRoundBuilder) (*database.Table, error) {
	left, err := p.Left.FirstRoundEvaluate(builder)
	if err != nil {
		return nil, err
	}
	right, err := p.Right.FirstRoundEvaluate(builder)
	if err != nil {
		return nil, err
	}
	if len(p.LeftJoinIndexes) != 1 || len(p.RightJoinIndexes) != 1 {
		return nil, proof.NewVerificationError("Join on multiple columns not supported yet")
	}

	numColumnsLeft := left.NumColumns()
	numColumnsRight := right.NumColumns()
	enhancedLeft := left.AddRhoColumn()
	enhancedRight := right.AddRhoColumn()

	leftOn, err := database.GetColumnsOfTable(enhancedLeft, p.LeftJoinIndexes)
	if err != nil {
		return nil, err
	}
	rightOn, err := database.GetColumnsOfTable(enhancedRight, p.RightJoinIndexes)
	if err != nil {
		return nil, err
	}

	pairs, err := database.GetSortMergeJoinIndexes(leftOn, rightOn, enhancedLeft.NumRows, enhancedRight.NumRows)
	if err != nil {
		return nil, err
	}
	leftRows, rightRows := unzipPairs(pairs)

	enhancedResColumns, err := database.ApplySortMergeJoinIndexes(
		enhancedLeft, enhancedRight, p.LeftJoinIndexes, p.RightJoinIndexes, leftRows, rightRows,
	)
	if err != nil {
		return nil, err
	}
	numRowsRes := len(pairs)

	u, err := database.OrderedSetUnion(leftOn, rightOn)
	if err != nil {
		return nil, err
	}
	numRowsU := u[0].Len()
	builder.ProduceIntermediateMLE(u[0].ToScalars())

	builder.ProduceOneEvaluationLength(numRowsRes)
	builder.ProduceOneEvaluationLength(numRowsU)
	builder.ProduceRhoEvaluationLength(enhancedLeft.NumRows)
	builder.ProduceRhoEvaluationLength(enhancedRight.NumRows)
	builder.RequestPostResultChallenges(2)

	return resultTable(p.ResultNames, enhancedResColumns, numColumnsLeft, numColumnsRight)
}

// FinalRoundEvaluate runs the join's round-2 pass, spec.md §4.8 "Prover
// final round": re-derives the join deterministically, commits every
// column of the enhanced result, runs the four membership-check gadgets
// and the two monotonicity gadgets, and emits the single ZeroSum
// subpolynomial tying the join's row count to the union keys'
// multiplicities.
func (p *JoinPlan) FinalRoundEvaluate(builder *proof.FinalRoundBuilder, arena *proof.Arena) (*database.Table, error) {
	left, err := p.Left.FinalRoundEvaluate(builder, arena)
	if err != nil {
		return nil, err
	}
	right, err := p.Right.FinalRoundEvaluate(builder, arena)
	if err != nil {
		return nil, err
	}
	if len(p.LeftJoinIndexes) != 1 || len(p.RightJoinIndexes) != 1 {
		return nil, proof.NewVerificationError("Join on multiple columns not supported yet")
	}

	numColumnsLeft := left.NumColumns()
	numColumnsRight := right.NumColumns()
	enhancedLeft := left.AddRhoColumn()
	enhancedRight := right.AddRhoColumn()

	leftOn, err := database.GetColumnsOfTable(enhancedLeft, p.LeftJoinIndexes)
	if err != nil {
		return nil, err
	}
	rightOn, err := database.GetColumnsOfTable(enhancedRight, p.RightJoinIndexes)
	if err != nil {
		return nil, err
	}

	pairs, err := database.GetSortMergeJoinIndexes(leftOn, rightOn, enhancedLeft.NumRows, enhancedRight.NumRows)
	if err != nil {
		return nil, err
	}
	leftRows, rightRows := unzipPairs(pairs)

	enhancedResColumns, err := database.ApplySortMergeJoinIndexes(
		enhancedLeft, enhancedRight, p.LeftJoinIndexes, p.RightJoinIndexes, leftRows, rightRows,
	)
	if err != nil {
		return nil, err
	}
	numRowsRes := len(pairs)

	// i[k] = left_row_index*2^64 + right_row_index, strictly increasing
	// over valid inputs (spec.md §4.8 final round step 2).
	i := make([]scalar.Scalar, numRowsRes)
	for k := range i {
		i[k] = scalar.Add(scalar.Mul(twoPow64, scalar.FromUint64(uint64(leftRows[k]))), scalar.FromUint64(uint64(rightRows[k])))
	}

	u, err := database.OrderedSetUnion(leftOn, rightOn)
	if err != nil {
		return nil, err
	}
	uScalars := u[0].ToScalars()
	numRowsU := u[0].Len()

	alpha, err := builder.ConsumePostResultChallenge()
	if err != nil {
		return nil, err
	}
	beta, err := builder.ConsumePostResultChallenge()
	if err != nil {
		return nil, err
	}

	for _, col := range enhancedResColumns {
		builder.ProduceIntermediateMLE(col.ToScalars())
	}

	resOnes := allOnes(numRowsRes)
	leftOnes := allOnes(enhancedLeft.NumRows)
	rightOnes := allOnes(enhancedRight.NumRows)
	uOnes := allOnes(numRowsU)

	hatLeftIdx := permutationIndexes(numColumnsLeft+1, p.LeftJoinIndexes)
	hatRightIdx := permutationIndexes(numColumnsRight+1, p.RightJoinIndexes)
	hatLeftColumns, err := database.GetColumnsOfTable(enhancedLeft, hatLeftIdx)
	if err != nil {
		return nil, err
	}
	hatRightColumns, err := database.GetColumnsOfTable(enhancedRight, hatRightIdx)
	if err != nil {
		return nil, err
	}

	tildeLeftColumns := enhancedResColumns[0 : numColumnsLeft+1]
	tildeRightColumns := append(append([]database.Column{}, enhancedResColumns[0:1]...), enhancedResColumns[numColumnsLeft+1:]...)

	if _, _, err := gadgets.ProveMembership(
		builder, alpha, beta,
		columnsToScalars(hatLeftColumns), leftOnes,
		columnsToScalars(tildeLeftColumns), resOnes,
	); err != nil {
		return nil, err
	}
	if _, _, err := gadgets.ProveMembership(
		builder, alpha, beta,
		columnsToScalars(hatRightColumns), rightOnes,
		columnsToScalars(tildeRightColumns), resOnes,
	); err != nil {
		return nil, err
	}

	// wL, wR are the union keys' left/right match-count witnesses, not
	// the tilde-side witness: they must be indexed by u (length numRowsU),
	// the same domain the final ZeroSum term below sums over, so hat and
	// tilde are swapped relative to the other two membership calls here —
	// u is the hat side, leftOn/rightOn is tilde.
	_, wL, err := gadgets.ProveMembership(
		builder, alpha, beta,
		[][]scalar.Scalar{uScalars}, uOnes,
		columnsToScalars(leftOn), leftOnes,
	)
	if err != nil {
		return nil, err
	}
	_, wR, err := gadgets.ProveMembership(
		builder, alpha, beta,
		[][]scalar.Scalar{uScalars}, uOnes,
		columnsToScalars(rightOn), rightOnes,
	)
	if err != nil {
		return nil, err
	}

	// i packs two row indexes via multiplication by 2^64 (each assumed to
	// fit in 64 bits), so its successive differences are on the order of
	// 2^64 wherever two consecutive result rows come from different left
	// rows; 16 limbs (128 bits) bounds that safely. u's
	// values come from the join columns themselves (BigIntColumn's int64,
	// spec.md §4.1), bounded to 64 bits, so 8 limbs suffice there.
	if err := gadgets.ProveMonotonic(builder, alpha, beta, i, numRowsRes, true, true, 16); err != nil {
		return nil, err
	}
	if err := gadgets.ProveMonotonic(builder, alpha, beta, uScalars, numRowsU, true, true, 8); err != nil {
		return nil, err
	}

	// Σ w_L·w_R − Σ χ_m = 0: the join's row count equals the sum, over
	// each union key, of its left multiplicity times its right
	// multiplicity (spec.md §4.8 final round step 7, Testable Property
	// #6).
	zeroSum := []proof.Term{
		{Coefficient: scalar.One, Factors: [][]scalar.Scalar{wL, wR}},
		{Coefficient: scalar.Neg(scalar.One), Factors: [][]scalar.Scalar{resOnes}},
	}
	if err := proof.CheckZeroSum(zeroSum); err != nil {
		return nil, err
	}
	builder.ProduceSumcheckSubpolynomial(proof.ZeroSum, zeroSum)

	return resultTable(p.ResultNames, enhancedResColumns, numColumnsLeft, numColumnsRight)
}

// VerifierEvaluate runs the join's verifier pass, spec.md §4.8 "Verifier
// evaluation": it walks left then right, consumes exactly what the
// prover's two rounds produced in the same fixed order, reconstructs
// the strictly-increasing row-index evaluation, invokes the four
// membership and two monotonicity verifications, and folds the final
// ZeroSum term.
func (p *JoinPlan) VerifierEvaluate(builder *proof.VerificationBuilder, accessor *Accessor) (database.TableEvaluation, error) {
	leftEval, err := p.Left.VerifierEvaluate(builder, accessor)
	if err != nil {
		return database.TableEvaluation{}, err
	}
	rightEval, err := p.Right.VerifierEvaluate(builder, accessor)
	if err != nil {
		return database.TableEvaluation{}, err
	}

	leftOneEval := leftEval.OneEval
	rightOneEval := rightEval.OneEval

	resOneEval, err := builder.TryConsumeOneEvaluation()
	if err != nil {
		return database.TableEvaluation{}, err
	}
	uOneEval, err := builder.TryConsumeOneEvaluation()
	if err != nil {
		return database.TableEvaluation{}, err
	}
	leftRhoEval, err := builder.TryConsumeRhoEvaluation()
	if err != nil {
		return database.TableEvaluation{}, err
	}
	rightRhoEval, err := builder.TryConsumeRhoEvaluation()
	if err != nil {
		return database.TableEvaluation{}, err
	}

	alpha, err := builder.TryConsumePostResultChallenge()
	if err != nil {
		return database.TableEvaluation{}, err
	}
	beta, err := builder.TryConsumePostResultChallenge()
	if err != nil {
		return database.TableEvaluation{}, err
	}

	numColumnsLeft := len(leftEval.ColumnEvals)
	numColumnsRight := len(rightEval.ColumnEvals)
	enhancedLeftEvals := append(append([]scalar.Scalar{}, leftEval.ColumnEvals...), leftRhoEval)
	enhancedRightEvals := append(append([]scalar.Scalar{}, rightEval.ColumnEvals...), rightRhoEval)

	if len(p.LeftJoinIndexes) != 1 || len(p.RightJoinIndexes) != 1 {
		return database.TableEvaluation{}, proof.NewVerificationError("Join on multiple columns not supported yet")
	}
	numColumnsU := 1
	numColumnsEnhancedRes := numColumnsLeft + numColumnsRight - numColumnsU + 2

	enhancedResEvals, err := builder.TryConsumeFinalRoundMLEEvaluations(numColumnsEnhancedRes)
	if err != nil {
		return database.TableEvaluation{}, err
	}

	rhoBarLeftEval := enhancedResEvals[numColumnsLeft]
	rhoBarRightEval := enhancedResEvals[numColumnsEnhancedRes-1]
	iEval := scalar.Add(scalar.Mul(twoPow64, rhoBarLeftEval), rhoBarRightEval)

	uColumnEval, err := builder.TryConsumeFirstRoundMLEEvaluation()
	if err != nil {
		return database.TableEvaluation{}, err
	}

	hatLeftIdx := permutationIndexes(numColumnsLeft+1, p.LeftJoinIndexes)
	hatRightIdx := permutationIndexes(numColumnsRight+1, p.RightJoinIndexes)
	hatLeftEvals := evalsAt(enhancedLeftEvals, hatLeftIdx)
	hatRightEvals := evalsAt(enhancedRightEvals, hatRightIdx)

	tildeLeftEvals := enhancedResEvals[0 : numColumnsLeft+1]
	tildeRightEvals := append(append([]scalar.Scalar{}, enhancedResEvals[0:numColumnsU]...), enhancedResEvals[numColumnsLeft+1:]...)

	if _, _, err := gadgets.VerifyMembership(builder, alpha, beta, resOneEval, evalRowHash(alpha, beta, hatLeftEvals), evalRowHash(alpha, beta, tildeLeftEvals)); err != nil {
		return database.TableEvaluation{}, err
	}
	if _, _, err := gadgets.VerifyMembership(builder, alpha, beta, resOneEval, evalRowHash(alpha, beta, hatRightEvals), evalRowHash(alpha, beta, tildeRightEvals)); err != nil {
		return database.TableEvaluation{}, err
	}

	leftJoinEval := enhancedLeftEvals[p.LeftJoinIndexes[0]]
	rightJoinEval := enhancedRightEvals[p.RightJoinIndexes[0]]

	// wLEval, wREval are the hat-side (union-key-indexed) multiplicity
	// evaluations, matching the prover's FinalRoundEvaluate: u is the hat
	// side there too, so the witness these calls must hand back is the
	// second (hat) return value, not the first (tilde).
	_, wLEval, err := gadgets.VerifyMembership(builder, alpha, beta, leftOneEval, evalRowHash(alpha, beta, []scalar.Scalar{uColumnEval}), evalRowHash(alpha, beta, []scalar.Scalar{leftJoinEval}))
	if err != nil {
		return database.TableEvaluation{}, err
	}
	_, wREval, err := gadgets.VerifyMembership(builder, alpha, beta, rightOneEval, evalRowHash(alpha, beta, []scalar.Scalar{uColumnEval}), evalRowHash(alpha, beta, []scalar.Scalar{rightJoinEval}))
	if err != nil {
		return database.TableEvaluation{}, err
	}

	if err := gadgets.VerifyMonotonic(builder, alpha, beta, iEval, resOneEval, 16); err != nil {
		return database.TableEvaluation{}, err
	}
	if err := gadgets.VerifyMonotonic(builder, alpha, beta, uColumnEval, uOneEval, 8); err != nil {
		return database.TableEvaluation{}, err
	}

	builder.TryProduceSumcheckSubpolynomialEvaluation(proof.ZeroSum, scalar.Sub(scalar.Mul(wLEval, wREval), resOneEval), 2)

	resIndexes := make([]int, 0, numColumnsLeft+numColumnsRight-numColumnsU)
	for c := 0; c < numColumnsLeft; c++ {
		resIndexes = append(resIndexes, c)
	}
	for c := numColumnsLeft + 1; c < numColumnsLeft+1+numColumnsRight-numColumnsU; c++ {
		resIndexes = append(resIndexes, c)
	}
	resColumnEvals := evalsAt(enhancedResEvals, resIndexes)

	return database.NewTableEvaluation(resColumnEvals, resOneEval), nil
}

func allOnes(n int) []scalar.Scalar {
	out := make([]scalar.Scalar, n)
	for i := range out {
		out[i] = scalar.One
	}
	return out
}

func columnsToScalars(columns []database.Column) [][]scalar.Scalar {
	out := make([][]scalar.Scalar, len(columns))
	for i, c := range columns {
		out[i] = c.ToScalars()
	}
	return out
}

func evalsAt(evals []scalar.Scalar, indexes []int) []scalar.Scalar {
	out := make([]scalar.Scalar, len(indexes))
	for i, idx := range indexes {
		out[i] = evals[idx]
	}
	return out
}

// evalRowHash folds a row's already-reduced column evaluations into the
// membership gadget's single hash evaluation, mirroring rowHash's
// array-level fold at the evaluation level: the verifier never has the
// raw row, only the one evaluation per column its builder already
// consumed.
func evalRowHash(alpha, beta scalar.Scalar, columnEvals []scalar.Scalar) scalar.Scalar {
	hash := alpha
	betaPow := scalar.One
	for _, ce := range columnEvals {
		hash = scalar.Add(hash, scalar.Mul(betaPow, ce))
		betaPow = scalar.Mul(betaPow, beta)
	}
	return hash
}

// resultTable drops both ρ columns from enhancedResColumns and zips the
// remaining columns with names, spec.md §4.8 step 8 (round 1) / step 8
// (final round): the result schema is join key, then non-key left
// columns, then non-key right columns, in original order.
func resultTable(names []string, enhancedResColumns []database.Column, numColumnsLeft, numColumnsRight int) (*database.Table, error) {
	numColumnsU := 1
	resColumns := make([]database.Column, 0, numColumnsLeft+numColumnsRight-numColumnsU)
	resColumns = append(resColumns, enhancedResColumns[0:numColumnsLeft]...)
	resColumns = append(resColumns, enhancedResColumns[numColumnsLeft+1:numColumnsLeft+1+numColumnsRight-numColumnsU]...)
	return database.NewTable(names, resColumns, database.TableOptions{})
}
