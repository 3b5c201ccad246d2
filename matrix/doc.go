// SPDX-License-Identifier: MIT

// Package matrix assembles the pairwise dependency matrix of an event log.
//
// The matrix package provides:
//
//   - Discover / DiscoverContext: run the temporal and existential checkers
//     over every ordered pair of the log's alphabet and collect the verdicts
//     into an AdjacencyMatrix.
//   - AdjacencyMatrix: square, immutable, indexed by activity × activity, with
//     O(1) lookups by index or by label. Diagonal cells are always "none".
//   - Metrics: relation counts over the whole matrix.
//   - Codecs: a pair-keyed Document ("a,b" → tag) for JSON/YAML interchange,
//     and Render for a fixed-width text grid.
//
// Determinism:
//
//	Row/column order is the log's alphabet order (lexicographic). Each cell
//	is a pure function of (log, thresholds, options), so repeated runs give
//	identical matrices regardless of worker count.
//
// Concurrency:
//
//	Rows are distributed over an errgroup limited by WithWorkers. Every row is
//	written by exactly one goroutine, so the cell buffer needs no locking.
//
// Complexity:
//
//	O(E) to index the log, then O(A · Σ_a Q_a) for the pair checks where Q_a
//	is the number of traces containing a; every pair merge-walks the trace
//	lists of both activities. Memory O(A² + E).
package matrix
