// SPDX-License-Identifier: MIT

// Package mcptool exposes discovery, evaluation and log statistics as Model
// Context Protocol tools.
package mcptool

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anonymoushlmnop/matrix-discovery/analysis"
	"github.com/anonymoushlmnop/matrix-discovery/config"
	"github.com/anonymoushlmnop/matrix-discovery/dependency"
	"github.com/anonymoushlmnop/matrix-discovery/evaluation"
	"github.com/anonymoushlmnop/matrix-discovery/eventlog"
	"github.com/anonymoushlmnop/matrix-discovery/eventlog/ingest"
	"github.com/anonymoushlmnop/matrix-discovery/matrix"
)

// ErrNoLog indicates a tool call without traces or content.
var ErrNoLog = errors.New("mcptool: either traces or content is required")

// MetadataDiscover describes the discover_dependencies tool.
var MetadataDiscover = &mcp.Tool{
	Name: "discover_dependencies",
	Description: "Discover temporal (a eventually followed by b) and existential (a implies b) " +
		"dependencies between every ordered pair of activities in an event log. " +
		"Provide the log as a list of traces or as a raw XES, CSV or text document. " +
		"Returns pair-keyed relation tags (none, temporal, existential, both) and a text grid.",
}

// MetadataEvaluate describes the evaluate_dependencies tool.
var MetadataEvaluate = &mcp.Tool{
	Name: "evaluate_dependencies",
	Description: "Discover the dependency matrix of an event log and score it against a ground truth " +
		"given as lines of the form 'from,to:tag'. Returns TP/FP/FN/TN, precision, recall and F1 " +
		"per relation kind plus the disagreeing pairs.",
}

// MetadataStats describes the log_statistics tool.
var MetadataStats = &mcp.Tool{
	Name:        "log_statistics",
	Description: "Summarise an event log: traces, events, activities, variants and variant entropy.",
}

// logInput is the log part shared by all tools.
type logInput struct {
	Traces  [][]string
	Content string
	Format  string
}

// InputDiscover is the input of discover_dependencies.
type InputDiscover struct {
	Traces               [][]string `json:"traces,omitempty" jsonschema:"the log as a list of traces, each a list of activity labels"`
	Content              string     `json:"content,omitempty" jsonschema:"raw log document (XES, CSV or one comma-separated trace per line)"`
	Format               string     `json:"format,omitempty" jsonschema:"format hint for content: xes, csv or text; auto-detected when omitted"`
	TemporalThreshold    *float64   `json:"temporal_threshold,omitempty" jsonschema:"minimum share of qualifying traces in which a is eventually followed by b, in [0,1]"`
	ExistentialThreshold *float64   `json:"existential_threshold,omitempty" jsonschema:"minimum share of qualifying traces containing b, in [0,1]"`
	Granularity          string     `json:"granularity,omitempty" jsonschema:"first (default) or every: which occurrences of a must be followed by b"`
}

func (in InputDiscover) log() logInput {
	return logInput{Traces: in.Traces, Content: in.Content, Format: in.Format}
}

// OutputDiscover is the output of discover_dependencies.
type OutputDiscover struct {
	RunID      string            `json:"run_id"`
	Activities []string          `json:"activities"`
	Relations  map[string]string `json:"relations"`
	Metrics    matrix.Metrics    `json:"metrics"`
	Grid       string            `json:"grid"`
}

// InputEvaluate is the input of evaluate_dependencies.
type InputEvaluate struct {
	Traces               [][]string `json:"traces,omitempty" jsonschema:"the log as a list of traces, each a list of activity labels"`
	Content              string     `json:"content,omitempty" jsonschema:"raw log document (XES, CSV or one comma-separated trace per line)"`
	Format               string     `json:"format,omitempty" jsonschema:"format hint for content: xes, csv or text"`
	TemporalThreshold    *float64   `json:"temporal_threshold,omitempty" jsonschema:"temporal threshold in [0,1]"`
	ExistentialThreshold *float64   `json:"existential_threshold,omitempty" jsonschema:"existential threshold in [0,1]"`
	Granularity          string     `json:"granularity,omitempty" jsonschema:"first (default) or every"`
	GroundTruth          string     `json:"ground_truth" jsonschema:"expected relations, one 'from,to:tag' per line; unlisted pairs are none"`
}

func (in InputEvaluate) discover() InputDiscover {
	return InputDiscover{
		Traces:               in.Traces,
		Content:              in.Content,
		Format:               in.Format,
		TemporalThreshold:    in.TemporalThreshold,
		ExistentialThreshold: in.ExistentialThreshold,
		Granularity:          in.Granularity,
	}
}

// Score is the confusion table and rates of one relation kind.
type Score struct {
	TP        int     `json:"tp"`
	FP        int     `json:"fp"`
	FN        int     `json:"fn"`
	TN        int     `json:"tn"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// OutputEvaluate is the output of evaluate_dependencies.
type OutputEvaluate struct {
	RunID       string                `json:"run_id"`
	Temporal    Score                 `json:"temporal"`
	Existential Score                 `json:"existential"`
	Mismatches  []evaluation.Mismatch `json:"mismatches,omitempty"`
}

// InputStats is the input of log_statistics.
type InputStats struct {
	Traces  [][]string `json:"traces,omitempty" jsonschema:"the log as a list of traces"`
	Content string     `json:"content,omitempty" jsonschema:"raw log document (XES, CSV or text)"`
	Format  string     `json:"format,omitempty" jsonschema:"format hint for content"`
}

// Toolset binds the tools to a configuration.
type Toolset struct {
	cfg      config.Config
	pipeline *ingest.Pipeline
}

// NewToolset creates a toolset whose defaults come from cfg.
func NewToolset(cfg config.Config) *Toolset {
	return &Toolset{cfg: cfg, pipeline: ingest.DefaultPipeline(cfg.Ingest.PipelineOptions()...)}
}

// Discover implements discover_dependencies.
func (ts *Toolset) Discover(ctx context.Context, _ *mcp.CallToolRequest, in InputDiscover) (*mcp.CallToolResult, OutputDiscover, error) {
	l, p, err := ts.prepare(ctx, in)
	if err != nil {
		return nil, OutputDiscover{}, err
	}
	d, err := analysis.Discover(ctx, l, p)
	if err != nil {
		return nil, OutputDiscover{}, err
	}

	doc := d.Matrix.Document(false)
	rels := make(map[string]string, len(doc.Relations))
	for k, v := range doc.Relations {
		rels[k] = string(v)
	}

	return nil, OutputDiscover{
		RunID:      d.RunID,
		Activities: doc.Activities,
		Relations:  rels,
		Metrics:    d.Metrics,
		Grid:       d.Matrix.String(),
	}, nil
}

// Evaluate implements evaluate_dependencies.
func (ts *Toolset) Evaluate(ctx context.Context, _ *mcp.CallToolRequest, in InputEvaluate) (*mcp.CallToolResult, OutputEvaluate, error) {
	l, p, err := ts.prepare(ctx, in.discover())
	if err != nil {
		return nil, OutputEvaluate{}, err
	}
	gt, err := evaluation.ParseLines(strings.NewReader(in.GroundTruth))
	if err != nil {
		return nil, OutputEvaluate{}, err
	}
	ev, err := analysis.Evaluate(ctx, l, gt, p)
	if err != nil {
		return nil, OutputEvaluate{}, err
	}

	return nil, OutputEvaluate{
		RunID:       ev.RunID,
		Temporal:    score(ev.Report.Temporal),
		Existential: score(ev.Report.Existential),
		Mismatches:  ev.Report.Mismatches,
	}, nil
}

// Stats implements log_statistics.
func (ts *Toolset) Stats(ctx context.Context, _ *mcp.CallToolRequest, in InputStats) (*mcp.CallToolResult, analysis.Stats, error) {
	l, err := ts.loadLog(ctx, logInput{Traces: in.Traces, Content: in.Content, Format: in.Format})
	if err != nil {
		return nil, analysis.Stats{}, err
	}
	st, err := analysis.LogStats(l)

	return nil, st, err
}

func (ts *Toolset) prepare(ctx context.Context, in InputDiscover) (*eventlog.Log, analysis.Params, error) {
	p, err := analysis.ParamsFromConfig(ts.cfg.Discovery)
	if err != nil {
		return nil, analysis.Params{}, err
	}
	if in.TemporalThreshold != nil {
		p.TemporalThreshold = *in.TemporalThreshold
	}
	if in.ExistentialThreshold != nil {
		p.ExistentialThreshold = *in.ExistentialThreshold
	}
	if in.Granularity != "" {
		if p.Granularity, err = dependency.ParseGranularity(in.Granularity); err != nil {
			return nil, analysis.Params{}, err
		}
	}
	l, err := ts.loadLog(ctx, in.log())

	return l, p, err
}

func (ts *Toolset) loadLog(ctx context.Context, in logInput) (*eventlog.Log, error) {
	switch {
	case in.Content != "":
		res, err := ts.pipeline.Parse(ctx, ingest.Source{Content: []byte(in.Content), Format: in.Format, Name: "tool input"})
		if err != nil {
			return nil, err
		}
		return res.Log, nil
	case len(in.Traces) > 0:
		traces := make([]eventlog.Trace, len(in.Traces))
		for i, t := range in.Traces {
			traces[i] = eventlog.Trace(t)
		}
		return eventlog.NewLog(traces...), nil
	default:
		return nil, ErrNoLog
	}
}

func score(c evaluation.Counts) Score {
	return Score{
		TP: c.TP, FP: c.FP, FN: c.FN, TN: c.TN,
		Precision: c.Precision(), Recall: c.Recall(), F1: c.F1(),
	}
}
