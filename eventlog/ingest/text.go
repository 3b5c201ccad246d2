// SPDX-License-Identifier: MIT

package ingest

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/anonymoushlmnop/matrix-discovery/eventlog"
)

// TextParser reads the line format:
//
//	a,b,c
//	a,c:3
//
// Activities are trimmed and empty tokens dropped. A trailing ":N" with a
// non-negative integer N repeats the trace N times; any other suffix is part
// of the last label. A document may expand to at most WithMaxTraces traces
// (DefaultMaxTraces unless configured).
type TextParser struct {
	maxTraces int
}

// NewTextParser returns the text parser.
func NewTextParser(opts ...Option) *TextParser {
	return &TextParser{maxTraces: newOptions(opts...).maxTraces}
}

// Name implements Parser.
func (*TextParser) Name() string { return "text" }

// CanHandle accepts "text"/"txt" hints and any content that does not look
// like markup.
func (*TextParser) CanHandle(src Source) bool {
	switch strings.ToLower(src.Format) {
	case "text", "txt":
		return true
	case "xes", "xml", "csv":
		return false
	}

	return !bytes.HasPrefix(bytes.TrimSpace(src.Content), []byte("<"))
}

// Parse implements Parser.
// Errors: ErrMalformed for unreadable input or a document expanding past the
// trace limit.
func (p *TextParser) Parse(ctx context.Context, src Source) (*eventlog.Log, error) {
	limit := p.maxTraces
	if limit < 1 {
		limit = DefaultMaxTraces
	}
	var (
		b      eventlog.Builder
		lineNo int
	)
	sc := bufio.NewScanner(bytes.NewReader(src.Content))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		trace, freq, ok := ParseTraceLine(sc.Text())
		if !ok {
			continue
		}
		if freq > limit-b.Len() {
			return nil, fmt.Errorf("%w: line %d: log expands past %d traces", ErrMalformed, lineNo, limit)
		}
		b.Add(trace, freq)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	return b.Log(), nil
}

// ParseTraceLine parses one text-format line into a trace and its
// frequency. ok is false for blank lines and lines without activities.
func ParseTraceLine(line string) (trace eventlog.Trace, freq int, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, 0, false
	}
	freq = 1
	if i := strings.LastIndexByte(line, ':'); i >= 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(line[i+1:])); err == nil && n >= 0 {
			line, freq = line[:i], n
		}
	}
	for _, tok := range strings.Split(line, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			trace = append(trace, tok)
		}
	}
	if len(trace) == 0 {
		return nil, 0, false
	}

	return trace, freq, true
}

// WriteText writes l in the line format, one line per variant in
// Variants order with a ":N" suffix when N > 1. Labels holding ',' or a line
// break cannot be written.
// Errors: ErrMalformed.
func WriteText(w io.Writer, l *eventlog.Log) error {
	bw := bufio.NewWriter(w)
	for _, v := range l.Variants() {
		for i, act := range v.Trace {
			if strings.ContainsAny(act, ",\r\n") {
				return fmt.Errorf("%w: label %q cannot be written as text", ErrMalformed, act)
			}
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.WriteString(act)
		}
		if v.Count > 1 {
			bw.WriteString(":" + strconv.Itoa(v.Count))
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("ingest: write text: %w", err)
	}

	return nil
}
