// SPDX-License-Identifier: MIT

// Package analysis runs discovery, evaluation and log statistics on behalf
// of the outer surfaces (CLI, HTTP server, MCP server). It owns run identity
// and logging so the engine packages stay silent.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/anonymoushlmnop/matrix-discovery/config"
	"github.com/anonymoushlmnop/matrix-discovery/dependency"
	"github.com/anonymoushlmnop/matrix-discovery/epa"
	"github.com/anonymoushlmnop/matrix-discovery/evaluation"
	"github.com/anonymoushlmnop/matrix-discovery/eventlog"
	"github.com/anonymoushlmnop/matrix-discovery/logger"
	"github.com/anonymoushlmnop/matrix-discovery/matrix"
)

// Params are the discovery knobs of one run.
type Params struct {
	TemporalThreshold    float64
	ExistentialThreshold float64
	Granularity          dependency.Granularity
	// Workers bounds parallel rows; 0 means GOMAXPROCS.
	Workers int
}

// ParamsFromConfig converts validated configuration into Params.
func ParamsFromConfig(d config.Discovery) (Params, error) {
	g, err := dependency.ParseGranularity(d.Granularity)
	if err != nil {
		return Params{}, err
	}

	return Params{
		TemporalThreshold:    d.TemporalThreshold,
		ExistentialThreshold: d.ExistentialThreshold,
		Granularity:          g,
		Workers:              d.Workers,
	}, nil
}

func (p Params) options() []matrix.Option {
	opts := []matrix.Option{matrix.WithGranularity(p.Granularity)}
	if p.Workers > 0 {
		opts = append(opts, matrix.WithWorkers(p.Workers))
	}

	return opts
}

// Discovery is the outcome of one discovery run.
type Discovery struct {
	RunID    string
	Traces   int
	Events   int
	Matrix   *matrix.AdjacencyMatrix
	Metrics  matrix.Metrics
	Duration time.Duration
}

// Discover assembles the dependency matrix of l under a fresh run id.
func Discover(ctx context.Context, l *eventlog.Log, p Params) (Discovery, error) {
	runID := uuid.NewString()
	start := time.Now()
	logger.Debug("discovery started", "run", runID, "traces", l.Len(),
		"temporal_threshold", p.TemporalThreshold, "existential_threshold", p.ExistentialThreshold,
		"granularity", p.Granularity)

	am, err := matrix.DiscoverContext(ctx, l, p.TemporalThreshold, p.ExistentialThreshold, p.options()...)
	if err != nil {
		logger.Warn("discovery failed", "run", runID, "err", err)
		return Discovery{RunID: runID}, err
	}

	d := Discovery{
		RunID:    runID,
		Traces:   l.Len(),
		Events:   l.EventCount(),
		Matrix:   am,
		Metrics:  am.Metrics(),
		Duration: time.Since(start),
	}
	logger.Info("discovery finished", "run", runID, "activities", am.Size(),
		"traces", d.Traces, "events", d.Events, "duration", d.Duration)

	return d, nil
}

// Evaluation is a discovery run scored against a ground truth.
type Evaluation struct {
	Discovery
	Report evaluation.Report
}

// Evaluate discovers the matrix of l and scores it against gt.
//
// A truth without an explicit alphabet is materialised over the discovered
// one, so activities it never mentions hold no relation. A truth that
// declares its activities keeps exactly that alphabet (plus labels used in
// its relations). Either way, differing alphabets fail with
// evaluation.ErrShapeMismatch.
func Evaluate(ctx context.Context, l *eventlog.Log, gt evaluation.GroundTruth, p Params) (Evaluation, error) {
	d, err := Discover(ctx, l, p)
	if err != nil {
		return Evaluation{}, err
	}
	var extra []eventlog.Activity
	if len(gt.Activities) == 0 {
		extra = d.Matrix.Activities()
	}
	truth, err := gt.Matrix(extra...)
	if err != nil {
		return Evaluation{}, err
	}
	rep, err := evaluation.Evaluate(d.Matrix, truth)
	if err != nil {
		return Evaluation{}, fmt.Errorf("run %s: %w", d.RunID, err)
	}
	logger.Info("evaluation finished", "run", d.RunID,
		"temporal_f1", rep.Temporal.F1(), "existential_f1", rep.Existential.F1(),
		"mismatches", len(rep.Mismatches))

	return Evaluation{Discovery: d, Report: rep}, nil
}

// Stats summarises the variability of a log.
type Stats struct {
	Traces                   int     `json:"traces" yaml:"traces"`
	Events                   int     `json:"events" yaml:"events"`
	Activities               int     `json:"activities" yaml:"activities"`
	Variants                 int     `json:"variants" yaml:"variants"`
	MaxVariantFrequency      float64 `json:"max_variant_frequency" yaml:"max_variant_frequency"`
	VariantsPerTrace         float64 `json:"variants_per_trace" yaml:"variants_per_trace"`
	EPAStates                int     `json:"epa_states" yaml:"epa_states"`
	VariantEntropy           float64 `json:"variant_entropy" yaml:"variant_entropy"`
	NormalizedVariantEntropy float64 `json:"normalized_variant_entropy" yaml:"normalized_variant_entropy"`
}

// LogStats computes Stats. It fails only for malformed logs.
func LogStats(l *eventlog.Log) (Stats, error) {
	alphabet, err := l.Alphabet()
	if err != nil {
		return Stats{}, err
	}
	vs := l.Stats()
	a := epa.Build(l)

	return Stats{
		Traces:                   l.Len(),
		Events:                   l.EventCount(),
		Activities:               len(alphabet),
		Variants:                 vs.Variants,
		MaxVariantFrequency:      vs.MaxFrequency,
		VariantsPerTrace:         vs.VariantsPerTrace,
		EPAStates:                a.StateCount(),
		VariantEntropy:           a.VariantEntropy(),
		NormalizedVariantEntropy: a.NormalizedVariantEntropy(),
	}, nil
}
