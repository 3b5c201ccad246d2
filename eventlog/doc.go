// SPDX-License-Identifier: MIT

// Package eventlog provides the in-memory event log model consumed by the
// dependency discovery engine.
//
// A Log is an ordered collection of traces; a Trace is an ordered sequence of
// activity occurrences. Both are treated as immutable once a Log is built:
// NewLog copies its input and every accessor hands out copies, so callers can
// never mutate the evidence a discovery run is reading.
//
// The package offers:
//
//   - Log / Trace / Activity model with a restartable occurrence iterator.
//   - Validate: rejects unlabeled occurrences (ErrEmptyActivity).
//   - Alphabet: distinct labels in lexicographic order (stable matrix indices).
//   - Index: memoised first/last occurrence positions of every activity in
//     every trace, so pairwise checks never rescan traces.
//   - Variants: distinct trace sequences with their frequencies.
//
// Determinism:
//
//	Alphabet order is lexicographic and Variants are ordered by frequency
//	(desc) then first appearance, so repeated runs over the same log produce
//	identical indices.
//
// Complexity:
//
//	Validate/Alphabet: O(E + A·log A) for E events and A distinct activities.
//	BuildIndex:        O(E + A·T) time and memory for T traces.
package eventlog
