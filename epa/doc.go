// SPDX-License-Identifier: MIT

// Package epa builds the extended prefix automaton (EPA) of an event log and
// derives its variant entropy, a measure of how much behavioural variety the
// log contains.
//
// Construction:
//
//	Every trace is replayed from the root. An event follows the existing
//	transition (state, activity) when there is one, otherwise it creates a
//	new state. New states are assigned a partition:
//	  - children of the root open partition 1;
//	  - a state whose predecessor already branches opens a new partition
//	    (max partition so far + 1);
//	  - otherwise the state inherits its predecessor's partition.
//
// Entropy:
//
//	With S = number of non-root states (S = 1 when there are none),
//	  VariantEntropy           = S·log10(S) − Σ_p |p|·log10(|p|)
//	  NormalizedVariantEntropy = VariantEntropy / (S·log10(S)), or 0 when S·log10(S) = 0.
//
// Complexity: O(E) time and memory for E events.
package epa
