// SPDX-License-Identifier: MIT

package epa

import (
	"math"

	"github.com/anonymoushlmnop/matrix-discovery/eventlog"
)

// Root is the state ID of the automaton root.
const Root = 0

// State is one automaton node. The root has Partition 0 and no Activity.
type State struct {
	ID        int
	Parent    int
	Activity  eventlog.Activity
	Partition int
	// Visits counts the events mapped onto this state.
	Visits int
}

type edge struct {
	from int
	act  eventlog.Activity
}

// Automaton is an extended prefix automaton. It is immutable after Build.
type Automaton struct {
	states       []State
	transitions  map[edge]int
	outDegree    []int
	maxPartition int
}

// Build replays every trace of l into a fresh automaton.
// Complexity: O(E).
func Build(l *eventlog.Log) *Automaton {
	a := &Automaton{
		states:      []State{{ID: Root, Parent: -1}},
		transitions: make(map[edge]int),
		outDegree:   []int{0},
	}
	for _, trace := range l.Traces() {
		at := Root
		for _, act := range trace.Occurrences() {
			at = a.step(at, act)
			a.states[at].Visits++
		}
	}

	return a
}

// step follows or creates the transition (from, act).
func (a *Automaton) step(from int, act eventlog.Activity) int {
	if to, ok := a.transitions[edge{from, act}]; ok {
		return to
	}

	var partition int
	switch {
	case from == Root:
		partition = 1
	case a.outDegree[from] > 0:
		partition = a.maxPartition + 1
	default:
		partition = a.states[from].Partition
	}
	a.maxPartition = max(a.maxPartition, partition)

	id := len(a.states)
	a.states = append(a.states, State{ID: id, Parent: from, Activity: act, Partition: partition})
	a.outDegree = append(a.outDegree, 0)
	a.outDegree[from]++
	a.transitions[edge{from, act}] = id

	return id
}

// States returns a copy of all states, root first, in creation order.
func (a *Automaton) States() []State {
	out := make([]State, len(a.states))
	copy(out, a.states)

	return out
}

// StateCount returns the number of states including the root.
func (a *Automaton) StateCount() int { return len(a.states) }

// TransitionCount returns the number of transitions (non-root states).
func (a *Automaton) TransitionCount() int { return len(a.transitions) }

// Partitions returns partition sizes indexed by partition number; index 0
// (the root's) is always 0.
func (a *Automaton) Partitions() []int {
	sizes := make([]int, a.maxPartition+1)
	for _, s := range a.states[1:] {
		sizes[s.Partition]++
	}

	return sizes
}

// VariantEntropy returns the (log10) variant entropy.
func (a *Automaton) VariantEntropy() float64 {
	s := a.scale()
	sum := 0.0
	for _, size := range a.Partitions() {
		if size > 0 {
			f := float64(size)
			sum += f * math.Log10(f)
		}
	}

	return s*math.Log10(s) - sum
}

// NormalizedVariantEntropy returns VariantEntropy scaled into [0, 1].
func (a *Automaton) NormalizedVariantEntropy() float64 {
	s := a.scale()
	den := s * math.Log10(s)
	if den == 0 {
		return 0
	}

	return a.VariantEntropy() / den
}

// scale is the non-root state count, floored at 1.
func (a *Automaton) scale() float64 {
	return float64(max(len(a.states)-1, 1))
}
