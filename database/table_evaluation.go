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

package database

import "github.com/dolthub/proofsql/scalar"

// TableEvaluation is the verifier-side counterpart of a Table: the
// evaluations, at the sumcheck challenge point, of every column plus the
// table's one-evaluation (the evaluation of its 0/1 selector MLE),
// spec.md §3.
type TableEvaluation struct {
	ColumnEvals []scalar.Scalar
	OneEval     scalar.Scalar
}

// NewTableEvaluation builds a TableEvaluation.
func NewTableEvaluation(columnEvals []scalar.Scalar, oneEval scalar.Scalar) TableEvaluation {
	return TableEvaluation{ColumnEvals: columnEvals, OneEval: oneEval}
}
