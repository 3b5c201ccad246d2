// SPDX-License-Identifier: MIT

package eventlog

import (
	"errors"
	"iter"
)

// Sentinel errors for log model operations.
var (
	// ErrEmptyActivity indicates a trace contains an occurrence without a label.
	ErrEmptyActivity = errors.New("eventlog: activity label is empty")

	// ErrTraceOutOfRange indicates a trace index outside [0, Len()).
	ErrTraceOutOfRange = errors.New("eventlog: trace index out of range")
)

// Activity is an opaque, comparable activity label.
type Activity = string

// Trace is one ordered execution instance: a sequence of activity occurrences.
// Repeated labels are meaningful (loops).
type Trace []Activity

// Len returns the number of occurrences in the trace.
func (t Trace) Len() int { return len(t) }

// Occurrences yields (position, label) pairs in trace order.
// The sequence is finite and can be ranged over any number of times.
func (t Trace) Occurrences() iter.Seq2[int, Activity] {
	return func(yield func(int, Activity) bool) {
		for i, a := range t {
			if !yield(i, a) {
				return
			}
		}
	}
}

// Contains reports whether activity a occurs at least once in t.
// Complexity: O(len(t)).
func (t Trace) Contains(a Activity) bool {
	for _, x := range t {
		if x == a {
			return true
		}
	}

	return false
}

// Clone returns an independent copy of t.
func (t Trace) Clone() Trace {
	if t == nil {
		return nil
	}
	out := make(Trace, len(t))
	copy(out, t)

	return out
}

// Log is an ordered collection of traces. The zero value and a nil *Log are
// both valid empty logs.
type Log struct {
	traces []Trace
}

// NewLog builds a Log from the given traces. Each trace is copied so later
// mutation of the arguments does not leak into the log.
// Complexity: O(E).
func NewLog(traces ...Trace) *Log {
	l := &Log{traces: make([]Trace, len(traces))}
	for i, t := range traces {
		l.traces[i] = t.Clone()
	}

	return l
}

// Len returns the number of traces.
func (l *Log) Len() int {
	if l == nil {
		return 0
	}

	return len(l.traces)
}

// EventCount returns the total number of occurrences across all traces.
func (l *Log) EventCount() int {
	if l == nil {
		return 0
	}
	n := 0
	for _, t := range l.traces {
		n += len(t)
	}

	return n
}

// Trace returns a copy of the i-th trace.
func (l *Log) Trace(i int) (Trace, error) {
	if i < 0 || i >= l.Len() {
		return nil, ErrTraceOutOfRange
	}

	return l.traces[i].Clone(), nil
}

// Traces enumerates (index, trace) in log order. Yielded traces are copies.
func (l *Log) Traces() iter.Seq2[int, Trace] {
	return func(yield func(int, Trace) bool) {
		if l == nil {
			return
		}
		for i, t := range l.traces {
			if !yield(i, t.Clone()) {
				return
			}
		}
	}
}

// Append returns a new Log holding the traces of l followed by those of
// others. None of the inputs is modified.
func (l *Log) Append(others ...*Log) *Log {
	total := l.Len()
	for _, o := range others {
		total += o.Len()
	}
	out := &Log{traces: make([]Trace, 0, total)}
	for _, src := range append([]*Log{l}, others...) {
		if src == nil {
			continue
		}
		for _, t := range src.traces {
			out.traces = append(out.traces, t.Clone())
		}
	}

	return out
}

// Builder accumulates traces into a Log. A trace added with times > 1 is
// stored once and shared by all its repeats; a Log never hands out its
// stored traces, so the sharing is invisible to readers.
type Builder struct {
	traces []Trace
}

// Add appends times copies of t. times <= 0 adds nothing.
// Complexity: O(len(t) + times).
func (b *Builder) Add(t Trace, times int) {
	if times <= 0 {
		return
	}
	stored := t.Clone()
	for i := 0; i < times; i++ {
		b.traces = append(b.traces, stored)
	}
}

// Len returns the number of traces added so far.
func (b *Builder) Len() int { return len(b.traces) }

// Log returns the accumulated log and resets the builder.
func (b *Builder) Log() *Log {
	l := &Log{traces: b.traces}
	b.traces = nil

	return l
}
