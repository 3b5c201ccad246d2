// SPDX-License-Identifier: MIT

package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/anonymoushlmnop/matrix-discovery/analysis"
	"github.com/anonymoushlmnop/matrix-discovery/dependency"
	"github.com/anonymoushlmnop/matrix-discovery/evaluation"
	"github.com/anonymoushlmnop/matrix-discovery/eventlog"
	"github.com/anonymoushlmnop/matrix-discovery/eventlog/ingest"
	"github.com/anonymoushlmnop/matrix-discovery/matrix"
)

// LogPayload carries a log either as explicit traces or as a raw document
// (XES, CSV or text) parsed by the ingest pipeline.
type LogPayload struct {
	Traces  [][]string `json:"traces"`
	Content string     `json:"content"`
	Format  string     `json:"format" validate:"omitempty,oneof=xes xml csv text txt"`
}

// DiscoverRequest is the body of POST /v1/discover. Unset thresholds and
// granularity fall back to the server configuration.
type DiscoverRequest struct {
	Log                  LogPayload `json:"log"`
	TemporalThreshold    *float64   `json:"temporal_threshold" validate:"omitempty,min=0,max=1"`
	ExistentialThreshold *float64   `json:"existential_threshold" validate:"omitempty,min=0,max=1"`
	Granularity          string     `json:"granularity" validate:"omitempty,oneof=first every"`
	Evidence             bool       `json:"evidence"`
}

// DiscoverResponse is the body returned by POST /v1/discover.
type DiscoverResponse struct {
	RunID      string          `json:"run_id"`
	Traces     int             `json:"traces"`
	Events     int             `json:"events"`
	DurationMS float64         `json:"duration_ms"`
	Matrix     matrix.Document `json:"matrix"`
	Metrics    matrix.Metrics  `json:"metrics"`
}

// GroundTruthPayload is either the line format or a pair-keyed map.
type GroundTruthPayload struct {
	Lines      string            `json:"lines"`
	Activities []string          `json:"activities"`
	Relations  map[string]string `json:"relations"`
}

// EvaluateRequest is the body of POST /v1/evaluate.
type EvaluateRequest struct {
	DiscoverRequest
	GroundTruth GroundTruthPayload `json:"ground_truth"`
	// MaxMismatches caps the returned mismatch list; 0 returns all.
	MaxMismatches int `json:"max_mismatches" validate:"min=0"`
}

// KindScore is the confusion table of one relation kind plus derived rates.
type KindScore struct {
	evaluation.Counts
	evaluation.Rates
}

// EvaluateResponse is the body returned by POST /v1/evaluate.
type EvaluateResponse struct {
	RunID       string                `json:"run_id"`
	Pairs       int                   `json:"pairs"`
	Temporal    KindScore             `json:"temporal"`
	Existential KindScore             `json:"existential"`
	Mismatches  []evaluation.Mismatch `json:"mismatches"`
	Metrics     matrix.Metrics        `json:"metrics"`
}

// StatsRequest is the body of POST /v1/stats.
type StatsRequest struct {
	Log LogPayload `json:"log"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) discover(c echo.Context) error {
	const op = "discover"
	req := new(DiscoverRequest)
	if err := bindAndValidate(c, req); err != nil {
		s.metrics.requests.WithLabelValues(op, outcomeRejected).Inc()
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	ctx := c.Request().Context()
	l, params, err := s.prepare(ctx, req)
	if err != nil {
		return s.fail(c, op, err)
	}

	d, err := analysis.Discover(ctx, l, params)
	if err != nil {
		return s.fail(c, op, err)
	}
	s.observe(op, d)

	return c.JSON(http.StatusOK, DiscoverResponse{
		RunID:      d.RunID,
		Traces:     d.Traces,
		Events:     d.Events,
		DurationMS: float64(d.Duration.Microseconds()) / 1000,
		Matrix:     d.Matrix.Document(req.Evidence),
		Metrics:    d.Metrics,
	})
}

func (s *Server) evaluate(c echo.Context) error {
	const op = "evaluate"
	req := new(EvaluateRequest)
	if err := bindAndValidate(c, req); err != nil {
		s.metrics.requests.WithLabelValues(op, outcomeRejected).Inc()
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	ctx := c.Request().Context()
	l, params, err := s.prepare(ctx, &req.DiscoverRequest)
	if err != nil {
		return s.fail(c, op, err)
	}
	gt, err := req.GroundTruth.parse()
	if err != nil {
		return s.fail(c, op, err)
	}

	ev, err := analysis.Evaluate(ctx, l, gt, params)
	if err != nil {
		return s.fail(c, op, err)
	}
	s.observe(op, ev.Discovery)

	mismatches := ev.Report.Mismatches
	if req.MaxMismatches > 0 && len(mismatches) > req.MaxMismatches {
		mismatches = mismatches[:req.MaxMismatches]
	}

	return c.JSON(http.StatusOK, EvaluateResponse{
		RunID:       ev.RunID,
		Pairs:       ev.Report.Pairs,
		Temporal:    KindScore{Counts: ev.Report.Temporal, Rates: ev.Report.Temporal.Rates()},
		Existential: KindScore{Counts: ev.Report.Existential, Rates: ev.Report.Existential.Rates()},
		Mismatches:  mismatches,
		Metrics:     ev.Metrics,
	})
}

func (s *Server) stats(c echo.Context) error {
	const op = "stats"
	req := new(StatsRequest)
	if err := bindAndValidate(c, req); err != nil {
		s.metrics.requests.WithLabelValues(op, outcomeRejected).Inc()
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	l, err := s.loadLog(c.Request().Context(), req.Log)
	if err != nil {
		return s.fail(c, op, err)
	}
	st, err := analysis.LogStats(l)
	if err != nil {
		return s.fail(c, op, err)
	}
	s.metrics.requests.WithLabelValues(op, outcomeOK).Inc()
	s.metrics.traces.Observe(float64(st.Traces))

	return c.JSON(http.StatusOK, st)
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errors.New("invalid request body")
	}

	return c.Validate(req)
}

// prepare resolves the log and the effective discovery parameters.
func (s *Server) prepare(ctx context.Context, req *DiscoverRequest) (*eventlog.Log, analysis.Params, error) {
	params, err := analysis.ParamsFromConfig(s.cfg.Discovery)
	if err != nil {
		return nil, analysis.Params{}, err
	}
	if req.TemporalThreshold != nil {
		params.TemporalThreshold = *req.TemporalThreshold
	}
	if req.ExistentialThreshold != nil {
		params.ExistentialThreshold = *req.ExistentialThreshold
	}
	if req.Granularity != "" {
		if params.Granularity, err = dependency.ParseGranularity(req.Granularity); err != nil {
			return nil, analysis.Params{}, err
		}
	}
	l, err := s.loadLog(ctx, req.Log)

	return l, params, err
}

func (s *Server) loadLog(ctx context.Context, p LogPayload) (*eventlog.Log, error) {
	if p.Content == "" {
		traces := make([]eventlog.Trace, len(p.Traces))
		for i, t := range p.Traces {
			traces[i] = eventlog.Trace(t)
		}

		return eventlog.NewLog(traces...), nil
	}
	res, err := s.pipeline.Parse(ctx, ingest.Source{
		Content: []byte(p.Content),
		Format:  strings.ToLower(p.Format),
		Name:    "request",
	})
	if err != nil {
		return nil, err
	}

	return res.Log, nil
}

func (g GroundTruthPayload) parse() (evaluation.GroundTruth, error) {
	if g.Lines != "" {
		return evaluation.ParseLines(strings.NewReader(g.Lines))
	}

	return evaluation.FromPairs(g.Activities, g.Relations)
}

func (s *Server) observe(op string, d analysis.Discovery) {
	s.metrics.requests.WithLabelValues(op, outcomeOK).Inc()
	s.metrics.duration.WithLabelValues(op).Observe(d.Duration.Seconds())
	s.metrics.activities.Observe(float64(d.Matrix.Size()))
	s.metrics.traces.Observe(float64(d.Traces))
}

// fail maps domain errors onto HTTP statuses.
func (s *Server) fail(c echo.Context, op string, err error) error {
	status := statusOf(err)
	outcome := outcomeRejected
	if status >= http.StatusInternalServerError {
		outcome = outcomeError
	}
	s.metrics.requests.WithLabelValues(op, outcome).Inc()

	return c.JSON(status, errorResponse{Error: err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, dependency.ErrInvalidThreshold):
		return http.StatusBadRequest
	case errors.Is(err, eventlog.ErrEmptyActivity),
		errors.Is(err, ingest.ErrMalformed),
		errors.Is(err, ingest.ErrUnsupportedFormat),
		errors.Is(err, evaluation.ErrBadGroundTruth),
		errors.Is(err, evaluation.ErrShapeMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
