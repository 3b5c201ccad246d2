// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonymoushlmnop/matrix-discovery/analysis"
	"github.com/anonymoushlmnop/matrix-discovery/dependency"
	"github.com/anonymoushlmnop/matrix-discovery/matrix"
)

const sampleLog = "a,b,c:2\na,c\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()

	return out.String(), err
}

func TestDiscoverText(t *testing.T) {
	path := writeFile(t, "log.txt", sampleLog)

	out, err := run(t, "", "discover", path, "--metrics")
	require.NoError(t, err)
	assert.Contains(t, out, "a              -              None           T,E")
	assert.Contains(t, out, "activities: 3")
	assert.Contains(t, out, "pairs: 6")
}

func TestDiscoverOrder(t *testing.T) {
	path := writeFile(t, "log.txt", sampleLog)

	out, err := run(t, "", "discover", path, "--order")
	require.NoError(t, err)
	assert.Contains(t, out, "order: a -> b -> c")

	loop := writeFile(t, "loop.txt", "a,b,a\n")
	out, err = run(t, "", "discover", loop, "--order")
	require.NoError(t, err)
	assert.Contains(t, out, "order: none")
}

func TestDiscoverJSON(t *testing.T) {
	path := writeFile(t, "log.txt", sampleLog)

	out, err := run(t, "", "discover", path, "-o", "json", "--evidence")
	require.NoError(t, err)

	var doc matrix.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, []string{"a", "b", "c"}, doc.Activities)
	assert.Equal(t, dependency.TagBoth, doc.Relations["a,c"])
	assert.Equal(t, dependency.TagExistential, doc.Relations["c,a"])
	assert.Equal(t, dependency.TagNone, doc.Relations["a,b"])
	require.NotNil(t, doc.Thresholds)
	assert.Equal(t, 1.0, doc.Thresholds.Temporal)
	assert.NotEmpty(t, doc.Evidence)
}

func TestDiscoverThresholdFlags(t *testing.T) {
	path := writeFile(t, "log.txt", sampleLog)

	out, err := run(t, "", "discover", path, "-o", "yaml", "-t", "0.5", "-e", "0.5")
	require.NoError(t, err)

	var doc matrix.Document
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	// 2 of 3 traces with a carry b after it.
	assert.Equal(t, dependency.TagBoth, doc.Relations["a,b"])
}

func TestDiscoverErrors(t *testing.T) {
	path := writeFile(t, "log.txt", sampleLog)

	cases := []struct {
		name string
		args []string
		is   error
	}{
		{"threshold above one", []string{"discover", path, "-t", "1.5"}, dependency.ErrInvalidThreshold},
		{"unknown granularity", []string{"discover", path, "-g", "sometimes"}, nil},
		{"unknown format", []string{"discover", path, "-o", "xml"}, nil},
		{"missing file", []string{"discover", filepath.Join(t.TempDir(), "nope.txt")}, nil},
		{"no args", []string{"discover"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := run(t, "", tc.args...)
			require.Error(t, err)
			if tc.is != nil {
				assert.ErrorIs(t, err, tc.is)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	logPath := writeFile(t, "log.txt", sampleLog)
	truthPath := writeFile(t, "truth.txt", strings.Join([]string{
		"# expected relations",
		"a,c:both",
		"b,c:both",
		"b,a:existential",
		"c,a:existential",
	}, "\n"))

	out, err := run(t, "", "evaluate", "--truth", truthPath, logPath, "-o", "json")
	require.NoError(t, err)

	var view reportView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, 6, view.Pairs)
	assert.Equal(t, 2, view.Temporal.Counts.TP)
	assert.Equal(t, 4, view.Existential.Counts.TP)
	assert.InDelta(t, 1.0, view.Temporal.Rates.F1, 1e-9)
	assert.InDelta(t, 1.0, view.Existential.Rates.F1, 1e-9)
	assert.Empty(t, view.Mismatches)
}

func TestEvaluateTextReportListsMismatches(t *testing.T) {
	logPath := writeFile(t, "log.txt", sampleLog)
	truthPath := writeFile(t, "truth.yaml", "activities: [a, b, c]\nrelations:\n  \"a,b\": temporal\n")

	out, err := run(t, "", "evaluate", "--truth", truthPath, logPath)
	require.NoError(t, err)
	assert.Contains(t, out, "temporal")
	assert.Contains(t, out, "precision")
	assert.Contains(t, out, "expected")
}

func TestEvaluateRequiresTruth(t *testing.T) {
	logPath := writeFile(t, "log.txt", sampleLog)

	_, err := run(t, "", "evaluate", logPath)
	require.Error(t, err)
}

func TestConvert(t *testing.T) {
	out, err := run(t, "a,b\nc:2\n", "convert")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "<trace>"))
	assert.Contains(t, out, `value="c"`)

	// The produced XES round-trips through discover.
	xesPath := writeFile(t, "log.xes", out)
	out, err = run(t, "", "discover", xesPath, "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"a,b": "both"`)
}

func TestConvertToFile(t *testing.T) {
	in := writeFile(t, "log.txt", sampleLog)
	dst := filepath.Join(t.TempDir(), "out.xes")

	out, err := run(t, "", "convert", in, "--out", dst)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(data), "<trace>"))
}

func TestGenerateSequence(t *testing.T) {
	out, err := run(t, "", "generate", "-s", "sequence", "-k", "3", "-n", "4")
	require.NoError(t, err)
	assert.Equal(t, "A,B,C:4\n", out)

	out, err = run(t, "", "generate", "-k", "2", "-n", "1", "--ids", "decimal")
	require.NoError(t, err)
	assert.Equal(t, "act0,act1\n", out)
}

func TestGenerateChoiceFeedsDiscover(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "choice.xes")

	out, err := run(t, "", "generate", "-s", "choice", "-k", "4", "-n", "50", "--seed", "7", "-o", "xes", "--out", dst)
	require.NoError(t, err)
	assert.Empty(t, out)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, 50, strings.Count(string(data), "<trace>"))

	out, err = run(t, "", "discover", dst, "-o", "json")
	require.NoError(t, err)
	var doc matrix.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, dependency.TagBoth, doc.Relations["A,D"])
	assert.Equal(t, dependency.TagExistential, doc.Relations["D,A"])
}

func TestGenerateShuffleIsSeeded(t *testing.T) {
	first, err := run(t, "", "generate", "-s", "shuffle", "-k", "4", "-n", "20", "--seed", "3")
	require.NoError(t, err)
	second, err := run(t, "", "generate", "-s", "shuffle", "-k", "4", "-n", "20", "--seed", "3")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	path := writeFile(t, "shuffle.txt", first)
	out, err := run(t, "", "stats", path, "-o", "json")
	require.NoError(t, err)
	var st analysis.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, 20, st.Traces)
	assert.Equal(t, 4, st.Activities)
}

func TestGenerateErrors(t *testing.T) {
	cases := map[string][]string{
		"unknown shape":       {"generate", "-s", "loop"},
		"choice too small":    {"generate", "-s", "choice", "-k", "2"},
		"noise out of range":  {"generate", "--noise", "1.5"},
		"unknown format":      {"generate", "-o", "csv"},
		"unknown id scheme":   {"generate", "--ids", "roman"},
		"no traces":           {"generate", "-n", "0"},
		"positional argument": {"generate", "extra"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := run(t, "", args...)
			assert.Error(t, err)
		})
	}
}

func TestStats(t *testing.T) {
	path := writeFile(t, "log.txt", sampleLog)

	out, err := run(t, "", "stats", path, "-o", "json")
	require.NoError(t, err)

	var st analysis.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, 3, st.Traces)
	assert.Equal(t, 8, st.Events)
	assert.Equal(t, 3, st.Activities)
	assert.Equal(t, 2, st.Variants)
}

func TestConfigFile(t *testing.T) {
	logPath := writeFile(t, "log.txt", sampleLog)
	cfgPath := writeFile(t, "depmatrix.yaml", "discovery:\n  temporal_threshold: 0.5\n  existential_threshold: 0.5\n")

	out, err := run(t, "", "--config", cfgPath, "discover", logPath, "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"a,b": "both"`)

	bad := writeFile(t, "bad.yaml", "discovery:\n  temporal_threshold: 2\n")
	_, err = run(t, "", "--config", bad, "discover", logPath)
	require.Error(t, err)
}
