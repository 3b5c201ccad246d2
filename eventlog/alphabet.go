// SPDX-License-Identifier: MIT

package eventlog

import (
	"fmt"
	"sort"
)

// Validate checks that every occurrence in the log carries a label.
// The first offending occurrence is reported as ErrEmptyActivity wrapped
// with its trace and position.
// Complexity: O(E).
func (l *Log) Validate() error {
	if l == nil {
		return nil
	}
	for ti, t := range l.traces {
		for pos, a := range t {
			if a == "" {
				return fmt.Errorf("trace %d, position %d: %w", ti, pos, ErrEmptyActivity)
			}
		}
	}

	return nil
}

// Alphabet returns the distinct activity labels of the log in lexicographic
// order. An empty log yields an empty (non-nil) slice.
// Complexity: O(E + A·log A).
func (l *Log) Alphabet() ([]Activity, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	seen := make(map[Activity]struct{})
	out := make([]Activity, 0)
	if l != nil {
		for _, t := range l.traces {
			for _, a := range t {
				if _, ok := seen[a]; ok {
					continue
				}
				seen[a] = struct{}{}
				out = append(out, a)
			}
		}
	}
	sort.Strings(out)

	return out, nil
}
