// SPDX-License-Identifier: MIT

package eventlog

import (
	"sort"
	"strings"
)

// variantSep joins labels into a variant key; the unit separator cannot
// appear in labels produced by any of the ingest formats.
const variantSep = "\x1f"

// Variant is a distinct trace sequence together with how many traces follow it.
type Variant struct {
	Trace Trace
	Count int
}

// Variants groups identical traces. Result order: Count descending, ties by
// first appearance in the log.
// Complexity: O(E + V·log V).
func (l *Log) Variants() []Variant {
	if l.Len() == 0 {
		return nil
	}

	pos := make(map[string]int)
	out := make([]Variant, 0)
	for _, t := range l.traces {
		key := strings.Join(t, variantSep)
		if i, ok := pos[key]; ok {
			out[i].Count++
			continue
		}
		pos[key] = len(out)
		out = append(out, Variant{Trace: t.Clone(), Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })

	return out
}

// VariantStats summarises trace variability of a log.
type VariantStats struct {
	Traces   int `json:"traces"`
	Variants int `json:"variants"`
	// MaxFrequency is the share of traces covered by the most frequent variant.
	MaxFrequency float64 `json:"max_frequency"`
	// VariantsPerTrace is Variants / Traces.
	VariantsPerTrace float64 `json:"variants_per_trace"`
}

// Stats computes VariantStats; all ratios are 0 for an empty log.
func (l *Log) Stats() VariantStats {
	vs := l.Variants()
	st := VariantStats{Traces: l.Len(), Variants: len(vs)}
	if st.Traces == 0 {
		return st
	}
	st.MaxFrequency = float64(vs[0].Count) / float64(st.Traces)
	st.VariantsPerTrace = float64(st.Variants) / float64(st.Traces)

	return st
}
