// SPDX-License-Identifier: MIT

package ingest

import "fmt"

// DefaultMaxTraces caps the traces a single text document may expand to
// through ":N" suffixes.
const DefaultMaxTraces = 1_000_000

// Option configures the parsers of a pipeline.
type Option func(*options)

type options struct {
	maxTraces int
}

// WithMaxTraces bounds the number of traces one text document may expand to.
// Panics when n < 1.
func WithMaxTraces(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("ingest: WithMaxTraces: n must be >= 1, got %d", n))
	}

	return func(o *options) { o.maxTraces = n }
}

func newOptions(opts ...Option) options {
	o := options{maxTraces: DefaultMaxTraces}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
