// SPDX-License-Identifier: MIT

// Package dependency decides pairwise temporal and existential dependencies
// between activities of an event log.
//
// Both checkers share one noise model. For an ordered pair (a, b):
//
//	qualifying traces = traces containing at least one a
//	score             = satisfied qualifying traces / qualifying traces
//	holds             = qualifying > 0 && score >= threshold
//
// Traces that never mention a carry no evidence and are excluded from the
// denominator. A pair without any qualifying trace never holds.
//
// Temporal (a → b): a qualifying trace is satisfied when some b occurs after
// the first a (FirstOccurrence, the default) or after every a
// (EveryOccurrence).
//
// Existential (a ⇒ b): a qualifying trace is satisfied when b occurs anywhere
// in it.
//
// Both directions of a pair are independent; nothing here assumes symmetry or
// resolves cycles.
//
// The checkers are pure functions over an immutable *eventlog.Index and are
// safe to call from many goroutines.
package dependency
