// SPDX-License-Identifier: MIT

// Package evaluation scores a discovered dependency matrix against a
// hand-labelled ground truth.
//
// For each relation kind (temporal, existential) every off-diagonal ordered
// pair is classified as a true/false positive/negative. Both matrices must
// share the same alphabet in the same order; diagonal cells are none on both
// sides by construction and are not counted.
//
// Ground truths are ordinary matrix.AdjacencyMatrix values. They can be
// loaded from YAML (LoadYAML) or from the line format (ParseLines):
//
//	# optional explicit alphabet
//	activities: a, b, c
//	a,b:both
//	b,c:existential
//
// Pairs that are not listed hold no relation.
package evaluation
