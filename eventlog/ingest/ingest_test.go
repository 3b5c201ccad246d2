// SPDX-License-Identifier: MIT

package ingest_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonymoushlmnop/matrix-discovery/eventlog"
	"github.com/anonymoushlmnop/matrix-discovery/eventlog/ingest"
)

func traces(l *eventlog.Log) []eventlog.Trace {
	out := make([]eventlog.Trace, 0, l.Len())
	for _, t := range l.Traces() {
		out = append(out, t)
	}

	return out
}

func TestParseTraceLine(t *testing.T) {
	cases := []struct {
		in    string
		trace eventlog.Trace
		freq  int
		ok    bool
	}{
		{"a,b,c", eventlog.Trace{"a", "b", "c"}, 1, true},
		{" a , b :3", eventlog.Trace{"a", "b"}, 3, true},
		{"a,,b", eventlog.Trace{"a", "b"}, 1, true},
		{"a,b:x", eventlog.Trace{"a", "b:x"}, 1, true},
		{"a:0", eventlog.Trace{"a"}, 0, true},
		{"   ", nil, 0, false},
		{",,:2", nil, 0, false},
	}
	for _, tc := range cases {
		tr, freq, ok := ingest.ParseTraceLine(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.trace, tr, tc.in)
		assert.Equal(t, tc.freq, freq, tc.in)
	}
}

func TestTextParser_Frequencies(t *testing.T) {
	src := ingest.Source{Content: []byte("a,b:2\n\nc\n"), Format: "txt"}
	res, err := ingest.DefaultPipeline().Parse(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "text", res.ParserUsed)
	assert.Equal(t, []eventlog.Trace{{"a", "b"}, {"a", "b"}, {"c"}}, traces(res.Log))
}

func TestTextParser_TraceLimit(t *testing.T) {
	cases := []struct {
		name    string
		content string
		opts    []ingest.Option
		traces  int
		wantErr bool
	}{
		{"max int suffix", "a:9223372036854775807\n", nil, 0, true},
		{"large suffix", "a,b:20000000\n", nil, 0, true},
		{"custom limit reached exactly", "a:2\nb:1\n", []ingest.Option{ingest.WithMaxTraces(3)}, 3, false},
		{"custom limit exceeded across lines", "a:2\nb:2\n", []ingest.Option{ingest.WithMaxTraces(3)}, 0, true},
		{"zero repeats are free", "a:0\nb\n", []ingest.Option{ingest.WithMaxTraces(1)}, 1, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := ingest.DefaultPipeline(tc.opts...).Parse(context.Background(), ingest.Source{Content: []byte(tc.content)})
			if tc.wantErr {
				require.ErrorIs(t, err, ingest.ErrMalformed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.traces, res.Log.Len())
		})
	}
}

func TestWithMaxTraces_PanicsOnNonPositive(t *testing.T) {
	assert.Panics(t, func() { ingest.WithMaxTraces(0) })
}

func TestTextParser_RepeatsAreIndependentCopies(t *testing.T) {
	l, err := ingest.NewTextParser().Parse(context.Background(), ingest.Source{Content: []byte("a,b:3\n")})
	require.NoError(t, err)
	require.Equal(t, 3, l.Len())

	first, err := l.Trace(0)
	require.NoError(t, err)
	first[0] = "mutated"

	second, err := l.Trace(1)
	require.NoError(t, err)
	assert.Equal(t, eventlog.Trace{"a", "b"}, second)
}

func TestWriteText(t *testing.T) {
	l := eventlog.NewLog(eventlog.Trace{"a", "b"}, eventlog.Trace{"c"}, eventlog.Trace{"a", "b"})

	var buf bytes.Buffer
	require.NoError(t, ingest.WriteText(&buf, l))
	assert.Equal(t, "a,b:2\nc\n", buf.String())

	back, err := ingest.NewTextParser().Parse(context.Background(), ingest.Source{Content: buf.Bytes()})
	require.NoError(t, err)
	assert.Equal(t, []eventlog.Trace{{"a", "b"}, {"a", "b"}, {"c"}}, traces(back))

	err = ingest.WriteText(&buf, eventlog.NewLog(eventlog.Trace{"x,y"}))
	assert.ErrorIs(t, err, ingest.ErrMalformed)
}

func TestXES_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ingest.TextToXES(context.Background(), strings.NewReader("a,b&c\nx:2\n"), &buf))
	out := buf.String()
	assert.Contains(t, out, `value="b&amp;c"`)
	assert.Contains(t, out, `<date key="time:timestamp" value="1970-01-01T00:00:01Z"/>`)
	assert.Contains(t, out, `value="1970-01-01T00:00:02Z"`)

	res, err := ingest.DefaultPipeline().Parse(context.Background(), ingest.Source{Content: buf.Bytes()})
	require.NoError(t, err)
	assert.Equal(t, "xes", res.ParserUsed)
	assert.Equal(t, []eventlog.Trace{{"a", "b&c"}, {"x"}, {"x"}}, traces(res.Log))
}

func TestXESParser_MissingName(t *testing.T) {
	doc := `<log><trace><event><string key="org:resource" value="bob"/></event></trace></log>`
	_, err := ingest.NewXESParser().Parse(context.Background(), ingest.Source{Content: []byte(doc)})
	require.ErrorIs(t, err, eventlog.ErrEmptyActivity)

	_, err = ingest.NewXESParser().Parse(context.Background(), ingest.Source{Content: []byte("<log><trace>")})
	require.ErrorIs(t, err, ingest.ErrMalformed)
}

func TestCSVParser(t *testing.T) {
	src := "case,activity,timestamp\n" +
		"1,b,2024-01-01T10:00:05Z\n" +
		"2,x,2024-01-01T09:00:00Z\n" +
		"1,a,2024-01-01T10:00:00Z\n"
	res, err := ingest.DefaultPipeline().Parse(context.Background(), ingest.Source{Content: []byte(src)})
	require.NoError(t, err)
	assert.Equal(t, "csv", res.ParserUsed)
	assert.Equal(t, []eventlog.Trace{{"a", "b"}, {"x"}}, traces(res.Log))

	noTime := "Case_ID,Activity\nk,b\nk,a\n"
	res, err = ingest.DefaultPipeline().Parse(context.Background(), ingest.Source{Content: []byte(noTime), Format: "csv"})
	require.NoError(t, err)
	assert.Equal(t, []eventlog.Trace{{"b", "a"}}, traces(res.Log))
}

func TestCSVParser_Errors(t *testing.T) {
	p := ingest.NewCSVParser()
	ctx := context.Background()
	_, err := p.Parse(ctx, ingest.Source{Content: []byte("id,name\n1,a\n")})
	assert.ErrorIs(t, err, ingest.ErrMalformed)
	_, err = p.Parse(ctx, ingest.Source{Content: []byte("case,activity\n1,\n")})
	assert.ErrorIs(t, err, eventlog.ErrEmptyActivity)
	_, err = p.Parse(ctx, ingest.Source{Content: []byte("case,activity,timestamp\n1,a,yesterday\n")})
	assert.ErrorIs(t, err, ingest.ErrMalformed)
}

func TestPipeline_Unsupported(t *testing.T) {
	p := ingest.NewPipeline(ingest.NewXESParser())
	_, err := p.Parse(context.Background(), ingest.Source{Content: []byte("a,b"), Name: "x.txt", Format: "txt"})
	assert.ErrorIs(t, err, ingest.ErrUnsupportedFormat)
	assert.Equal(t, []string{"xes", "csv", "text"}, ingest.DefaultPipeline().RegisteredParsers())
}

func TestReadFiles_ConcatenatesInOrder(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "one.txt")
	second := filepath.Join(dir, "two.csv")
	require.NoError(t, os.WriteFile(first, []byte("a,b\n"), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("case,activity\n9,c\n"), 0o600))

	l, err := ingest.DefaultPipeline().ReadFiles(context.Background(), 2, first, second)
	require.NoError(t, err)
	assert.Equal(t, []eventlog.Trace{{"a", "b"}, {"c"}}, traces(l))

	_, err = ingest.DefaultPipeline().ReadFiles(context.Background(), 0, first, filepath.Join(dir, "nope.txt"))
	assert.Error(t, err)
}
