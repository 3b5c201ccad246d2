// SPDX-License-Identifier: MIT
// File: index.go
// Role: memoised occurrence positions for pairwise checks.
// Determinism:
//   - Activity indices follow Alphabet order; trace lists are ascending.
// Concurrency:
//   - An Index is read-only after BuildIndex returns and safe for concurrent readers.

package eventlog

import "slices"

// absent marks an activity that does not occur in a trace.
const absent = -1

// Span records the first and last position of an activity inside one trace.
// Both are -1 when the activity does not occur.
type Span struct {
	First int
	Last  int
}

// Present reports whether the span describes at least one occurrence.
func (s Span) Present() bool { return s.First != absent }

// Index is an immutable per-activity occurrence table built once per
// discovery run. Only traces that contain an activity get a span, so memory
// follows the number of events rather than activities × traces.
type Index struct {
	alphabet []Activity
	lookup   map[Activity]int
	traces   int

	// present[activity] lists traces containing the activity, ascending.
	present [][]int
	// spans[activity][k] holds first/last positions in trace present[activity][k].
	spans [][]Span
}

// BuildIndex validates l and records, for every activity, its first and last
// position in every trace that contains it.
//
// Implementation:
//   - Stage 1: Alphabet (validates labels, fixes index order).
//   - Stage 2: single scan over each trace; the first occurrence of an
//     activity in a trace appends a new span, later ones move its Last.
//
// Complexity: O(E) time and O(A + E) memory.
func BuildIndex(l *Log) (*Index, error) {
	alphabet, err := l.Alphabet()
	if err != nil {
		return nil, err
	}

	ix := &Index{
		alphabet: alphabet,
		lookup:   make(map[Activity]int, len(alphabet)),
		traces:   l.Len(),
		present:  make([][]int, len(alphabet)),
		spans:    make([][]Span, len(alphabet)),
	}
	for i, a := range alphabet {
		ix.lookup[a] = i
	}

	if l == nil {
		return ix, nil
	}
	for ti, trace := range l.traces {
		for pos, a := range trace {
			ai := ix.lookup[a]
			n := len(ix.present[ai])
			if n == 0 || ix.present[ai][n-1] != ti {
				ix.present[ai] = append(ix.present[ai], ti)
				ix.spans[ai] = append(ix.spans[ai], Span{First: pos, Last: pos})
				continue
			}
			ix.spans[ai][n-1].Last = pos
		}
	}

	return ix, nil
}

// Alphabet returns a copy of the indexed activities in index order.
func (ix *Index) Alphabet() []Activity {
	out := make([]Activity, len(ix.alphabet))
	copy(out, ix.alphabet)

	return out
}

// Size returns the number of distinct activities.
func (ix *Index) Size() int { return len(ix.alphabet) }

// TraceCount returns the number of traces of the indexed log.
func (ix *Index) TraceCount() int { return ix.traces }

// Lookup returns the index of activity a.
func (ix *Index) Lookup(a Activity) (int, bool) {
	i, ok := ix.lookup[a]

	return i, ok
}

// Span returns the first/last positions of activity a in trace t.
// Unknown activities, out-of-range traces and traces without a yield an
// absent span.
// Complexity: O(log Q) for Q traces containing a.
func (ix *Index) Span(a Activity, t int) Span {
	ai, ok := ix.lookup[a]
	if !ok || t < 0 || t >= ix.traces {
		return Span{First: absent, Last: absent}
	}
	k, found := slices.BinarySearch(ix.present[ai], t)
	if !found {
		return Span{First: absent, Last: absent}
	}

	return ix.spans[ai][k]
}

// TracesWith returns the ascending trace indices that contain a.
// The returned slice must not be modified.
func (ix *Index) TracesWith(a Activity) []int {
	ai, ok := ix.lookup[a]
	if !ok {
		return nil
	}

	return ix.present[ai]
}

// Spans returns the ascending traces containing a together with the span of
// a in each, index-aligned. Neither slice may be modified.
func (ix *Index) Spans(a Activity) ([]int, []Span) {
	ai, ok := ix.lookup[a]
	if !ok {
		return nil, nil
	}

	return ix.present[ai], ix.spans[ai]
}
