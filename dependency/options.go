// SPDX-License-Identifier: MIT

package dependency

import "fmt"

// Granularity selects which occurrences of the antecedent a temporal check
// must see followed by the consequent.
type Granularity uint8

const (
	// FirstOccurrence: the first a must be followed by some b.
	FirstOccurrence Granularity = iota
	// EveryOccurrence: every a must be followed by some b (last a before last b).
	EveryOccurrence
)

// DefaultGranularity is the per-trace rule used unless overridden.
const DefaultGranularity = FirstOccurrence

const panicGranularityInvalid = "dependency: WithGranularity: unknown granularity"

// String implements fmt.Stringer.
func (g Granularity) String() string {
	switch g {
	case FirstOccurrence:
		return "first"
	case EveryOccurrence:
		return "every"
	default:
		return fmt.Sprintf("Granularity(%d)", uint8(g))
	}
}

// ParseGranularity accepts "first" or "every".
func ParseGranularity(s string) (Granularity, error) {
	switch s {
	case "first", "":
		return FirstOccurrence, nil
	case "every":
		return EveryOccurrence, nil
	default:
		return 0, fmt.Errorf("dependency: unknown granularity %q", s)
	}
}

// Option configures a check.
type Option func(*Options)

// Options is the resolved configuration of a check.
type Options struct {
	granularity Granularity
}

// WithGranularity selects the temporal granularity. Panics on an unknown value
// (programmer error).
func WithGranularity(g Granularity) Option {
	if g != FirstOccurrence && g != EveryOccurrence {
		panic(panicGranularityInvalid)
	}

	return func(o *Options) { o.granularity = g }
}

// NewOptions resolves opts over the defaults.
func NewOptions(opts ...Option) Options {
	o := Options{granularity: DefaultGranularity}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Granularity returns the effective temporal granularity.
func (o Options) Granularity() Granularity { return o.granularity }
