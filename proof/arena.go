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

// Arena is a scoped allocation boundary standing in for the original
// crate's `bumpalo::Bump` arena (original_source/.../first_round_builder.rs
// and final_round_builder.rs both borrow out of one). Go has no bump
// allocator in the standard library and no equivalent in the corpus this
// core draws from, so Arena is backed by ordinary GC-managed slices. Only
// slices obtained from AllocScalars are tied to its scope: the builders
// and plan nodes in this core do not allocate through it (the final
// round receives an Arena, but the MLEs it commits are plain slices).
type Arena struct {
	released bool
}

// NewArena opens a new allocation scope.
func NewArena() *Arena {
	return &Arena{}
}

// AllocScalars allocates a fresh, zeroed slice of n scalars scoped to
// this arena. It panics if the arena has already been released, the
// same contract bumpalo enforces on a dropped Bump.
func (a *Arena) AllocScalars(n int) []scalar.Scalar {
	if a.released {
		panic("proof: AllocScalars called on a released Arena")
	}
	return make([]scalar.Scalar, n)
}

// Release ends the arena's scope. Calling AllocScalars afterward panics.
func (a *Arena) Release() {
	a.released = true
}
