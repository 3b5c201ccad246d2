// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for Discover.
//
// Design goals:
//   - Deterministic behaviour: the worker count never changes results.
//   - Safe by construction: WithX panics only on nonsensical values.
//   - Options fields are unexported; public APIs consume ...Option.
package matrix

import (
	"runtime"

	"github.com/anonymoushlmnop/matrix-discovery/dependency"
)

const panicWorkersInvalid = "matrix: WithWorkers: workers must be >= 1"

// Option mutates internal options. Safe to apply repeatedly.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	workers     int
	granularity dependency.Granularity
}

// WithWorkers bounds the number of rows evaluated concurrently.
// Panics when n < 1.
//
// Complexity: O(1).
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

// WithGranularity selects the temporal occurrence rule used for every pair.
func WithGranularity(g dependency.Granularity) Option {
	// validate eagerly through the dependency constructor
	_ = dependency.WithGranularity(g)

	return func(o *Options) { o.granularity = g }
}

// NewOptions resolves opts over the defaults: GOMAXPROCS workers,
// dependency.DefaultGranularity.
func NewOptions(opts ...Option) Options {
	o := Options{
		workers:     runtime.GOMAXPROCS(0),
		granularity: dependency.DefaultGranularity,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Workers returns the effective worker bound.
func (o Options) Workers() int { return o.workers }

// Granularity returns the effective temporal granularity.
func (o Options) Granularity() dependency.Granularity { return o.granularity }
