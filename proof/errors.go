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

import "gopkg.in/src-d/go-errors.v1"

// ErrVerification is raised for an exhausted builder or challenge
// stream, a failed membership or monotonicity check, an unsupported
// multi-column join, a table-scan column with no committed evaluation,
// and a failed prover-side CheckZeroSum or CheckIdentity. A membership
// check's arity mismatch raises gadgets.ErrArityMismatch instead, and
// the verifier's folded identity is returned by
// VerificationBuilder.AccumulatedIdentity without being checked in this
// package. It carries a human-readable reason, matching spec.md's
// `VerificationError{reason}`.
var ErrVerification = errors.NewKind("verification failed: %s")

// NewVerificationError builds an ErrVerification with the given reason.
func NewVerificationError(reason string) error {
	return ErrVerification.New(reason)
}
