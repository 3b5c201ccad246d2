// SPDX-License-Identifier: MIT

// Package synth builds deterministic synthetic event logs for tests,
// benchmarks and demos.
//
// A log is assembled by BuildLog from an ordered list of Generators, each
// appending traces under one resolved configuration:
//
//   - Sequence: n copies of a fixed activity sequence.
//   - Choice: prefix, one randomly chosen branch, suffix.
//   - Shuffle: n random permutations of an alphabet (no dependencies).
//   - Noise (option): each generated trace independently loses one random
//     event with probability p, which lowers checker scores below 1.
//
// Determinism:
//
//	Same options, seed and generator order ⇒ identical logs. Stochastic
//	generators require WithSeed or WithRand and fail with ErrNeedRandSource
//	otherwise.
//
// Labels:
//
//	Generators that invent activities name them through WithIDScheme
//	(ExcelColumnID by default: A, B, …, Z, AA, …).
package synth
