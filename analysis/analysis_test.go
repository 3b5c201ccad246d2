// SPDX-License-Identifier: MIT

package analysis_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonymoushlmnop/matrix-discovery/analysis"
	"github.com/anonymoushlmnop/matrix-discovery/config"
	"github.com/anonymoushlmnop/matrix-discovery/dependency"
	"github.com/anonymoushlmnop/matrix-discovery/evaluation"
	"github.com/anonymoushlmnop/matrix-discovery/eventlog"
)

var strict = analysis.Params{TemporalThreshold: 1, ExistentialThreshold: 1}

func TestDiscover_AssignsRunID(t *testing.T) {
	l := eventlog.NewLog(eventlog.Trace{"a", "b"}, eventlog.Trace{"a", "b", "c"})
	d, err := analysis.Discover(context.Background(), l, strict)
	require.NoError(t, err)

	_, err = uuid.Parse(d.RunID)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Traces)
	assert.Equal(t, 5, d.Events)
	assert.Equal(t, 3, d.Matrix.Size())
	assert.Equal(t, 6, d.Metrics.Pairs)
}

func TestDiscover_InvalidThreshold(t *testing.T) {
	_, err := analysis.Discover(context.Background(), eventlog.NewLog(), analysis.Params{TemporalThreshold: 2})
	assert.ErrorIs(t, err, dependency.ErrInvalidThreshold)
}

func TestEvaluate_TruthOverDiscoveredAlphabet(t *testing.T) {
	l := eventlog.NewLog(eventlog.Trace{"a", "b"}, eventlog.Trace{"c"})
	var gt evaluation.GroundTruth
	gt.Set("a", "b", dependency.Relation{Temporal: true, Existential: true})
	gt.Set("b", "a", dependency.Relation{Existential: true})

	ev, err := analysis.Evaluate(context.Background(), l, gt, strict)
	require.NoError(t, err)
	assert.Empty(t, ev.Report.Mismatches)
	assert.Equal(t, 6, ev.Report.Pairs)
	assert.Equal(t, 1.0, ev.Report.Existential.F1())

	gt.Set("a", "zz", dependency.Relation{Existential: true})
	_, err = analysis.Evaluate(context.Background(), l, gt, strict)
	assert.ErrorIs(t, err, evaluation.ErrShapeMismatch)
}

func TestEvaluate_DeclaredAlphabetIsKept(t *testing.T) {
	l := eventlog.NewLog(eventlog.Trace{"a", "b", "c"})

	gt, err := evaluation.ParseLines(strings.NewReader("activities: a, b\na,b:both\n"))
	require.NoError(t, err)
	_, err = analysis.Evaluate(context.Background(), l, gt, strict)
	require.ErrorIs(t, err, evaluation.ErrShapeMismatch)

	gt.Activities = append(gt.Activities, "c")
	ev, err := analysis.Evaluate(context.Background(), l, gt, strict)
	require.NoError(t, err)
	assert.Equal(t, 6, ev.Report.Pairs)
}

func TestParamsFromConfig(t *testing.T) {
	d := config.Default().Discovery
	d.Granularity = "every"
	p, err := analysis.ParamsFromConfig(d)
	require.NoError(t, err)
	assert.Equal(t, dependency.EveryOccurrence, p.Granularity)

	d.Granularity = "never"
	_, err = analysis.ParamsFromConfig(d)
	assert.Error(t, err)
}

func TestLogStats(t *testing.T) {
	l := eventlog.NewLog(eventlog.Trace{"a", "b"}, eventlog.Trace{"a", "c"}, eventlog.Trace{"a", "b"})
	st, err := analysis.LogStats(l)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Traces)
	assert.Equal(t, 3, st.Activities)
	assert.Equal(t, 2, st.Variants)
	assert.InDelta(t, 2.0/3.0, st.MaxVariantFrequency, 1e-12)
	assert.Equal(t, 4, st.EPAStates)
	assert.Greater(t, st.NormalizedVariantEntropy, 0.0)

	_, err = analysis.LogStats(eventlog.NewLog(eventlog.Trace{""}))
	assert.ErrorIs(t, err, eventlog.ErrEmptyActivity)
}
