// SPDX-License-Identifier: MIT
// Package: synth
//
// options.go - functional options for BuildLog.
//
// Contract:
//   - Option constructors validate and panic on meaningless inputs.
//   - Generators never panic; they return sentinel errors.
//   - Defaults are deterministic: no RNG, no noise, ExcelColumnID labels.

package synth

import (
	"math/rand"
	"strconv"
)

// Option customises the configuration shared by all generators of a BuildLog call.
type Option func(*config)

// config is resolved once per BuildLog and passed by value.
type config struct {
	idFn  func(int) string
	rng   *rand.Rand
	noise float64
}

func newConfig(opts ...Option) config {
	cfg := config{idFn: ExcelColumnID}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithSeed attaches a rand.Rand seeded with seed.
func WithSeed(seed int64) Option {
	return func(c *config) { c.rng = rand.New(rand.NewSource(seed)) }
}

// WithRand attaches r. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("synth: WithRand(nil)")
	}

	return func(c *config) { c.rng = r }
}

// WithIDScheme sets the activity naming function. Panics on nil.
func WithIDScheme(fn func(int) string) Option {
	if fn == nil {
		panic("synth: WithIDScheme(nil)")
	}

	return func(c *config) { c.idFn = fn }
}

// WithNoise drops one random event from each generated trace with
// probability p. Panics unless 0 <= p <= 1. Noise needs an RNG.
func WithNoise(p float64) Option {
	if !(p >= 0 && p <= 1) {
		panic("synth: WithNoise(p outside [0,1])")
	}

	return func(c *config) { c.noise = p }
}

// ExcelColumnID names index i as a spreadsheet column: 0→"A", 25→"Z", 26→"AA".
// Panics if i < 0.
func ExcelColumnID(i int) string {
	if i < 0 {
		panic("synth: ExcelColumnID(i<0)")
	}
	var runes []rune
	for ; i >= 0; i = i/26 - 1 {
		runes = append(runes, rune('A'+i%26))
	}
	for l, r := 0, len(runes)-1; l < r; l, r = l+1, r-1 {
		runes[l], runes[r] = runes[r], runes[l]
	}

	return string(runes)
}

// DecimalID names index i by its decimal form prefixed with "act".
func DecimalID(i int) string { return "act" + strconv.Itoa(i) }
