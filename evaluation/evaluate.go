// SPDX-License-Identifier: MIT

package evaluation

import (
	"fmt"

	"github.com/anonymoushlmnop/matrix-discovery/dependency"
	"github.com/anonymoushlmnop/matrix-discovery/eventlog"
	"github.com/anonymoushlmnop/matrix-discovery/matrix"
)

// Mismatch is one ordered pair on which discovery and truth disagree.
type Mismatch struct {
	From       eventlog.Activity `json:"from" yaml:"from"`
	To         eventlog.Activity `json:"to" yaml:"to"`
	Discovered dependency.Tag    `json:"discovered" yaml:"discovered"`
	Expected   dependency.Tag    `json:"expected" yaml:"expected"`
}

// Report is the outcome of Evaluate.
type Report struct {
	Temporal    Counts     `json:"temporal" yaml:"temporal"`
	Existential Counts     `json:"existential" yaml:"existential"`
	Pairs       int        `json:"pairs" yaml:"pairs"`
	Mismatches  []Mismatch `json:"mismatches,omitempty" yaml:"mismatches,omitempty"`
}

// Counts returns the table of kind k.
func (r Report) Counts(k dependency.Kind) Counts {
	if k == dependency.Temporal {
		return r.Temporal
	}

	return r.Existential
}

// Evaluate compares discovered against truth pair by pair.
//
// Implementation:
//   - Stage 1: reject nil inputs and alphabet mismatches.
//   - Stage 2: walk both matrices' off-diagonal pairs in the same row-major
//     order, classify each kind and record disagreements.
//
// Errors: ErrNilMatrix, ErrShapeMismatch.
// Complexity: O(n²).
func Evaluate(discovered, truth *matrix.AdjacencyMatrix) (Report, error) {
	if discovered == nil || truth == nil {
		return Report{}, ErrNilMatrix
	}
	if !discovered.SameAlphabet(truth) {
		return Report{}, fmt.Errorf("%w: discovered %v, truth %v",
			ErrShapeMismatch, discovered.Activities(), truth.Activities())
	}

	var rep Report
	got, want := discovered.Pairs(), truth.Pairs()
	for i := range got {
		d, e := got[i].Relation, want[i].Relation
		rep.Temporal.add(d.Temporal, e.Temporal)
		rep.Existential.add(d.Existential, e.Existential)
		rep.Pairs++
		if d != e {
			rep.Mismatches = append(rep.Mismatches, Mismatch{
				From:       got[i].From,
				To:         got[i].To,
				Discovered: d.Tag(),
				Expected:   e.Tag(),
			})
		}
	}

	return rep, nil
}
