// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anonymoushlmnop/matrix-discovery/eventlog"
	"github.com/anonymoushlmnop/matrix-discovery/eventlog/ingest"
	"github.com/anonymoushlmnop/matrix-discovery/logger"
	"github.com/anonymoushlmnop/matrix-discovery/synth"
)

const formatXES = "xes"

// Log shapes accepted by --shape.
const (
	shapeSequence = "sequence"
	shapeChoice   = "choice"
	shapeShuffle  = "shuffle"
)

type generateFlags struct {
	shape      string
	activities int
	traces     int
	seed       int64
	noise      float64
	ids        string
	format     string
	outPath    string
}

func newGenerateCmd(_ *app) *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic log (sequence, choice or shuffle) as text or XES",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			l, err := f.build()
			if err != nil {
				return err
			}
			w, closeOut, err := openOutput(cmd, f.outPath)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := closeOut(); err == nil {
					err = cerr
				}
			}()
			logger.Debug("generated", "shape", f.shape, "traces", l.Len(), "events", l.EventCount())

			if f.format == formatXES {
				return ingest.WriteXES(w, l)
			}

			return ingest.WriteText(w, l)
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&f.shape, "shape", "s", shapeSequence, "log shape: sequence, choice or shuffle")
	fs.IntVarP(&f.activities, "activities", "k", 5, "number of activities")
	fs.IntVarP(&f.traces, "traces", "n", 100, "number of traces")
	fs.Int64Var(&f.seed, "seed", 1, "random seed")
	fs.Float64Var(&f.noise, "noise", 0, "probability in [0,1] of dropping one event per trace")
	fs.StringVar(&f.ids, "ids", "letters", "activity names: letters (A, B, ...) or decimal (act0, act1, ...)")
	fs.StringVarP(&f.format, "output", "o", formatText, "output format: text or xes")
	fs.StringVarP(&f.outPath, "out", "O", "", "output file (default stdout)")

	return cmd
}

// build validates the flags and runs the matching generator.
//
// Shapes over k activities:
//
//	sequence  every trace is the first k labels in order
//	choice    first label, one of the k-2 middle labels, last label
//	shuffle   a random permutation of the first k labels
func (f *generateFlags) build() (*eventlog.Log, error) {
	if f.format != formatText && f.format != formatXES {
		return nil, fmt.Errorf("unknown output format %q (want text or xes)", f.format)
	}
	if !(f.noise >= 0 && f.noise <= 1) {
		return nil, fmt.Errorf("--noise must be within [0, 1], got %v", f.noise)
	}
	opts := []synth.Option{synth.WithSeed(f.seed), synth.WithNoise(f.noise)}
	switch f.ids {
	case "letters":
		opts = append(opts, synth.WithIDScheme(synth.ExcelColumnID))
	case "decimal":
		opts = append(opts, synth.WithIDScheme(synth.DecimalID))
	default:
		return nil, fmt.Errorf("unknown id scheme %q (want letters or decimal)", f.ids)
	}

	var gen synth.Generator
	switch f.shape {
	case shapeSequence:
		gen = synth.Sequence(f.traces, synth.Alphabet(max(f.activities, 0), opts...)...)
	case shapeChoice:
		if f.activities < 3 {
			return nil, fmt.Errorf("--shape choice needs at least 3 activities, got %d", f.activities)
		}
		acts := synth.Alphabet(f.activities, opts...)
		branches := make([][]eventlog.Activity, 0, len(acts)-2)
		for _, a := range acts[1 : len(acts)-1] {
			branches = append(branches, []eventlog.Activity{a})
		}
		gen = synth.Choice(f.traces, acts[:1], branches, acts[len(acts)-1:])
	case shapeShuffle:
		gen = synth.Shuffle(f.traces, f.activities)
	default:
		return nil, fmt.Errorf("unknown shape %q (want sequence, choice or shuffle)", f.shape)
	}

	return synth.BuildLog(opts, gen)
}
