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

// SumcheckRandomScalars bundles the entrywise-random evaluation point and
// the claimed length of the table the sumcheck is being run over. It is
// supplied by the caller that drives the interactive sumcheck round
// (outside this core's scope) and consumed only to build
// SumcheckMleEvaluations.
type SumcheckRandomScalars struct {
	// EntrywisePoint is an independent random point in F^n, used to form
	// the "random MLE" that lets sumcheck establish that an expression
	// is zero across every entry.
	EntrywisePoint []scalar.Scalar
	// TableLength is the claimed number of rows of the table being
	// summed over; it must equal the range_length passed to
	// NewSumcheckMleEvaluations.
	TableLength int
}
