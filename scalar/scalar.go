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

// Package scalar provides the abstract prime-field scalar view that the
// rest of the proof core is built on: a single concrete field (the BN254
// scalar field, via gnark-crypto), the handful of named constants the
// sumcheck and gadget code relies on, and the scaling of typed column
// values into the field.
package scalar

import (
	"crypto/sha256"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Scalar is a single element of the BN254 scalar field. It is a thin,
// zero-cost wrapper around fr.Element so the rest of the core never
// imports gnark-crypto's fr package directly.
type Scalar struct {
	inner fr.Element
}

// Zero, One and Two are the constants spec.md §4.1 calls out by name:
// they recur throughout the sumcheck and gadget identities (selector
// MLEs, the `1-r_k` terms in rho_256, the `i = left*2^64+right` packing).
var (
	Zero = Scalar{}
	One  = FromUint64(1)
	Two  = FromUint64(2)
)

// FromUint64 builds a Scalar from a small non-negative integer.
func FromUint64(v uint64) Scalar {
	var s Scalar
	s.inner.SetUint64(v)
	return s
}

// FromInt64 builds a Scalar from a signed 64-bit integer, matching the
// BigInt column type.
func FromInt64(v int64) Scalar {
	var s Scalar
	s.inner.SetInt64(v)
	return s
}

// FromBigInt builds a Scalar from an arbitrary-precision integer,
// reducing modulo the field order. Used for the Int128 and Decimal
// column types.
func FromBigInt(v *big.Int) Scalar {
	var s Scalar
	s.inner.SetBigInt(v)
	return s
}

// FromBytes reduces an arbitrary-length big-endian byte string modulo the
// field order, the same hash-then-reduce idiom used to turn a
// Fiat-Shamir transcript's digest output into a challenge scalar.
func FromBytes(b []byte) Scalar {
	var s Scalar
	s.inner.SetBytes(b)
	return s
}

// FromBool maps false/true to the field's 0/1, matching the selector
// semantics used throughout the sumcheck identities.
func FromBool(v bool) Scalar {
	if v {
		return One
	}
	return Zero
}

// FromString hashes a string column value into the field with SHA-256
// followed by a reduction, the same hash-then-reduce idiom gnark-crypto's
// own Fiat-Shamir transcript uses to turn arbitrary bytes into a field
// element (see proof.Transcript). There is no canonical field encoding of
// a UTF-8 string, so collision resistance of SHA-256 stands in for an
// injective map; two distinct strings collide only with negligible
// probability.
func FromString(v string) Scalar {
	digest := sha256.Sum256([]byte(v))
	var s Scalar
	s.inner.SetBytes(digest[:])
	return s
}

// Add returns a+b.
func Add(a, b Scalar) Scalar {
	var s Scalar
	s.inner.Add(&a.inner, &b.inner)
	return s
}

// Sub returns a-b.
func Sub(a, b Scalar) Scalar {
	var s Scalar
	s.inner.Sub(&a.inner, &b.inner)
	return s
}

// Mul returns a*b.
func Mul(a, b Scalar) Scalar {
	var s Scalar
	s.inner.Mul(&a.inner, &b.inner)
	return s
}

// Neg returns -a.
func Neg(a Scalar) Scalar {
	var s Scalar
	s.inner.Neg(&a.inner)
	return s
}

// Inverse returns a^-1. The zero element has no inverse; callers in this
// core only invert hashed multiset rows, which are zero only with
// negligible probability (see gadgets.ProveMembership).
func Inverse(a Scalar) (Scalar, error) {
	if a.IsZero() {
		return Scalar{}, ErrDivideByZero.New()
	}
	var s Scalar
	s.inner.Inverse(&a.inner)
	return s, nil
}

// Pow returns a^e for a small non-negative exponent, used for the 2^64
// base of the join's row-index packing.
func Pow(a Scalar, e uint64) Scalar {
	var s Scalar
	s.inner.Exp(a.inner, new(big.Int).SetUint64(e))
	return s
}

// IsZero reports whether a is the additive identity.
func (a Scalar) IsZero() bool {
	return a.inner.IsZero()
}

// Equal reports whether a and b represent the same field element.
func (a Scalar) Equal(b Scalar) bool {
	return a.inner.Equal(&b.inner)
}

// String renders the element in decimal, for debug logging only.
func (a Scalar) String() string {
	return a.inner.String()
}

// Bytes returns the canonical big-endian encoding, used to bind a
// committed value into the Fiat-Shamir transcript.
func (a Scalar) Bytes() [32]byte {
	return a.inner.Bytes()
}
