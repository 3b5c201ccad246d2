// SPDX-License-Identifier: MIT

package dependency

import "github.com/anonymoushlmnop/matrix-discovery/eventlog"

// CheckTemporal decides whether from → to (eventually follows) holds.
//
// Implementation:
//   - Stage 1: validate threshold and index.
//   - Stage 2: walk only the traces containing from (qualifying traces).
//   - Stage 3: merge-walk the trace lists of from and to and compare their
//     memoised spans in every trace holding both.
//
// Granularity:
//   - FirstOccurrence: satisfied iff first(from) < last(to).
//   - EveryOccurrence: satisfied iff last(from) < last(to).
//
// Complexity: O(Q_from + Q_to) over the traces containing either activity.
func CheckTemporal(ix *eventlog.Index, from, to eventlog.Activity, threshold float64, opts ...Option) (Evidence, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return Evidence{}, err
	}
	if ix == nil {
		return Evidence{}, ErrNilIndex
	}
	o := NewOptions(opts...)

	qualifying, fromSpans := ix.Spans(from)
	satisfied := 0
	walkShared(ix, from, to, func(k int, b eventlog.Span) {
		anchor := fromSpans[k].First
		if o.granularity == EveryOccurrence {
			anchor = fromSpans[k].Last
		}
		if anchor < b.Last {
			satisfied++
		}
	})

	return decide(len(qualifying), satisfied, threshold), nil
}

// CheckExistential decides whether from ⇒ to (presence implies presence) holds.
// Order and multiplicity are irrelevant.
// Complexity: O(Q_from + Q_to).
func CheckExistential(ix *eventlog.Index, from, to eventlog.Activity, threshold float64) (Evidence, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return Evidence{}, err
	}
	if ix == nil {
		return Evidence{}, ErrNilIndex
	}

	qualifying := ix.TracesWith(from)
	satisfied := 0
	walkShared(ix, from, to, func(int, eventlog.Span) { satisfied++ })

	return decide(len(qualifying), satisfied, threshold), nil
}

// walkShared merges the ascending trace lists of from and to and calls fn
// for every trace containing both, with the position k of that trace in
// from's list and the span of to in it.
// Complexity: O(Q_from + Q_to).
func walkShared(ix *eventlog.Index, from, to eventlog.Activity, fn func(k int, to eventlog.Span)) {
	fromTraces := ix.TracesWith(from)
	toTraces, toSpans := ix.Spans(to)
	i, j := 0, 0
	for i < len(fromTraces) && j < len(toTraces) {
		switch {
		case fromTraces[i] < toTraces[j]:
			i++
		case fromTraces[i] > toTraces[j]:
			j++
		default:
			fn(i, toSpans[j])
			i++
			j++
		}
	}
}

// Check runs both checkers for one ordered pair and combines the verdicts.
func Check(ix *eventlog.Index, from, to eventlog.Activity, temporalThreshold, existentialThreshold float64, opts ...Option) (Relation, Evidence, Evidence, error) {
	te, err := CheckTemporal(ix, from, to, temporalThreshold, opts...)
	if err != nil {
		return Relation{}, Evidence{}, Evidence{}, err
	}
	ee, err := CheckExistential(ix, from, to, existentialThreshold)
	if err != nil {
		return Relation{}, Evidence{}, Evidence{}, err
	}

	return Relation{Temporal: te.Holds, Existential: ee.Holds}, te, ee, nil
}
