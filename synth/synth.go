// SPDX-License-Identifier: MIT

package synth

import (
	"fmt"

	"github.com/anonymoushlmnop/matrix-discovery/eventlog"
)

// Generator appends traces to out using the resolved configuration.
type Generator func(out *[]eventlog.Trace, cfg config) error

// BuildLog resolves opts and runs gens in order. Noise, if configured, is
// applied to each generator's traces as they are produced.
// Errors from generators are wrapped with "BuildLog: %w".
func BuildLog(opts []Option, gens ...Generator) (*eventlog.Log, error) {
	cfg := newConfig(opts...)
	if cfg.noise > 0 && cfg.rng == nil {
		return nil, fmt.Errorf("BuildLog: noise: %w", ErrNeedRandSource)
	}

	var traces []eventlog.Trace
	for i, gen := range gens {
		if gen == nil {
			return nil, fmt.Errorf("BuildLog: nil generator at index %d: %w", i, ErrConstructFailed)
		}
		start := len(traces)
		if err := gen(&traces, cfg); err != nil {
			return nil, fmt.Errorf("BuildLog: %w", err)
		}
		applyNoise(traces[start:], cfg)
	}

	return eventlog.NewLog(traces...), nil
}

// Alphabet returns the first n labels of the configured ID scheme.
func Alphabet(n int, opts ...Option) []eventlog.Activity {
	cfg := newConfig(opts...)
	out := make([]eventlog.Activity, n)
	for i := range out {
		out[i] = cfg.idFn(i)
	}

	return out
}

// Sequence appends n copies of seq.
func Sequence(n int, seq ...eventlog.Activity) Generator {
	return func(out *[]eventlog.Trace, _ config) error {
		if n < 1 || len(seq) == 0 {
			return synthErrorf("Sequence", ErrTooFew)
		}
		for i := 0; i < n; i++ {
			*out = append(*out, eventlog.Trace(seq).Clone())
		}

		return nil
	}
}

// Choice appends n traces of the form prefix + branch + suffix, where branch
// is drawn uniformly from branches.
func Choice(n int, prefix []eventlog.Activity, branches [][]eventlog.Activity, suffix []eventlog.Activity) Generator {
	return func(out *[]eventlog.Trace, cfg config) error {
		if n < 1 || len(branches) == 0 {
			return synthErrorf("Choice", ErrTooFew)
		}
		if cfg.rng == nil {
			return synthErrorf("Choice", ErrNeedRandSource)
		}
		for i := 0; i < n; i++ {
			branch := branches[cfg.rng.Intn(len(branches))]
			t := make(eventlog.Trace, 0, len(prefix)+len(branch)+len(suffix))
			t = append(t, prefix...)
			t = append(t, branch...)
			t = append(t, suffix...)
			*out = append(*out, t)
		}

		return nil
	}
}

// Shuffle appends n random permutations of the first k labels of the ID
// scheme. Such logs carry existential dependencies between all pairs but
// no stable temporal ones.
func Shuffle(n, k int) Generator {
	return func(out *[]eventlog.Trace, cfg config) error {
		if n < 1 || k < 1 {
			return synthErrorf("Shuffle", ErrTooFew)
		}
		if cfg.rng == nil {
			return synthErrorf("Shuffle", ErrNeedRandSource)
		}
		base := make(eventlog.Trace, k)
		for i := range base {
			base[i] = cfg.idFn(i)
		}
		for i := 0; i < n; i++ {
			t := base.Clone()
			cfg.rng.Shuffle(len(t), func(a, b int) { t[a], t[b] = t[b], t[a] })
			*out = append(*out, t)
		}

		return nil
	}
}

// applyNoise drops one random event from each trace with probability
// cfg.noise. Traces of length 1 are left intact so no trace becomes empty.
func applyNoise(traces []eventlog.Trace, cfg config) {
	if cfg.noise == 0 {
		return
	}
	for i, t := range traces {
		if len(t) < 2 || cfg.rng.Float64() >= cfg.noise {
			continue
		}
		drop := cfg.rng.Intn(len(t))
		traces[i] = append(t[:drop:drop], t[drop+1:]...)
	}
}
