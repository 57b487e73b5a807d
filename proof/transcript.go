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
	"encoding/binary"
	"fmt"
	"os"

	fiatshamir "github.com/consensys/gnark-crypto/fiat-shamir"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/proofsql/scalar"
)

// debugTranscript mirrors the teacher's GMS_EXPERIMENTAL env-var knob
// (engine.go): read once at init, it turns on verbose Bind/Challenge
// tracing for debugging proof attempts locally.
var debugTranscript = os.Getenv("PROOFSQL_DEBUG_TRANSCRIPT") != ""

// Transcript derives the Fiat-Shamir challenges this core needs: the
// post-result challenges (alpha, beta) requested by a first-round
// builder, and the per-subpolynomial folding challenges a verification
// builder uses to batch subpolynomial evaluations into one identity.
//
// SortMergeJoinExec has a fully static shape — it always requests
// exactly two post-result challenges, and the number of subpolynomials
// it emits depends only on the plan's shape, not on the data — so the
// full label schedule is known before the transcript is built, which
// fits gnark-crypto's fiat-shamir API (it requires every label to be
// declared up front). A proof plan with a data-dependent challenge count
// would need a different transcript construction.
type Transcript struct {
	inner  *fiatshamir.Transcript
	labels []string
	pos    int
}

// NewTranscript builds a transcript with numPostResultChallenges
// post-result-challenge labels followed by numSubpolynomialFolds
// subpolynomial-folding labels, consumed strictly in that order by
// Challenge.
func NewTranscript(numPostResultChallenges, numSubpolynomialFolds int) *Transcript {
	labels := make([]string, 0, numPostResultChallenges+numSubpolynomialFolds)
	for i := 0; i < numPostResultChallenges; i++ {
		labels = append(labels, fmt.Sprintf("post-result-challenge-%d", i))
	}
	for i := 0; i < numSubpolynomialFolds; i++ {
		labels = append(labels, fmt.Sprintf("subpolynomial-fold-%d", i))
	}
	return &Transcript{
		inner:  fiatshamir.NewTranscript(fiatshamir.SHA256, labels...),
		labels: labels,
	}
}

// BindColumn binds every scalar of a committed column's canonical
// encoding under label, standing in for binding that column's PCS
// commitment (the actual commitment scheme is opaque to this core).
func (t *Transcript) BindColumn(label string, column []scalar.Scalar) error {
	for _, s := range column {
		b := s.Bytes()
		if err := t.bind(label, b[:]); err != nil {
			return err
		}
	}
	return nil
}

// BindUint64 binds a small public integer (a declared length, or a
// subpolynomial's kind/degree tag) under label.
func (t *Transcript) BindUint64(label string, v uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return t.bind(label, buf[:])
}

func (t *Transcript) bind(label string, data []byte) error {
	if err := t.inner.Bind(label, data); err != nil {
		return err
	}
	if debugTranscript {
		logrus.WithFields(logrus.Fields{
			"label": label,
			"bytes": len(data),
		}).Debug("proof: transcript bind")
	}
	return nil
}

// Challenge draws the next challenge in label order. It fails if every
// declared label has already been consumed.
func (t *Transcript) Challenge() (scalar.Scalar, error) {
	if t.pos >= len(t.labels) {
		return scalar.Scalar{}, ErrVerification.New("transcript has no more challenges to draw")
	}
	label := t.labels[t.pos]
	t.pos++
	raw, err := t.inner.ComputeChallenge(label)
	if err != nil {
		return scalar.Scalar{}, err
	}
	c := scalar.FromBytes(raw)
	if debugTranscript {
		logrus.WithFields(logrus.Fields{
			"label":     label,
			"challenge": c.String(),
		}).Debug("proof: transcript challenge")
	}
	return c, nil
}
