// SPDX-License-Identifier: MIT

package ingest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/anonymoushlmnop/matrix-discovery/eventlog"
)

// Standard XES attribute keys.
const (
	keyConceptName = "concept:name"
	keyTimestamp   = "time:timestamp"
)

// eventInterval spaces the synthetic timestamps written by WriteXES.
const eventInterval = time.Second

type xesDoc struct {
	XMLName xml.Name   `xml:"log"`
	Traces  []xesTrace `xml:"trace"`
}

type xesTrace struct {
	Events []xesEvent `xml:"event"`
}

type xesEvent struct {
	Strings []xesAttr `xml:"string"`
}

type xesAttr struct {
	Key   string `xml:"key,attr"`
	Value string `xml:"value,attr"`
}

// XESParser reads XES documents. Events are kept in document order and
// labelled by their concept:name string attribute.
type XESParser struct{}

// NewXESParser returns the XES parser.
func NewXESParser() *XESParser { return &XESParser{} }

// Name implements Parser.
func (*XESParser) Name() string { return "xes" }

// CanHandle accepts "xes"/"xml" hints or content starting with markup.
func (*XESParser) CanHandle(src Source) bool {
	switch strings.ToLower(src.Format) {
	case "xes", "xml":
		return true
	case "":
		return bytes.HasPrefix(bytes.TrimSpace(src.Content), []byte("<"))
	}

	return false
}

// Parse implements Parser.
// Errors: ErrMalformed for invalid XML, eventlog.ErrEmptyActivity for an
// event without concept:name (wrapped with trace and event positions).
func (*XESParser) Parse(ctx context.Context, src Source) (*eventlog.Log, error) {
	var doc xesDoc
	if err := xml.Unmarshal(src.Content, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	traces := make([]eventlog.Trace, 0, len(doc.Traces))
	for ti, xt := range doc.Traces {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		trace := make(eventlog.Trace, 0, len(xt.Events))
		for ei, ev := range xt.Events {
			name := ""
			for _, a := range ev.Strings {
				if a.Key == keyConceptName {
					name = a.Value
					break
				}
			}
			if name == "" {
				return nil, fmt.Errorf("trace %d, event %d: %w", ti, ei, eventlog.ErrEmptyActivity)
			}
			trace = append(trace, name)
		}
		traces = append(traces, trace)
	}

	return eventlog.NewLog(traces...), nil
}

const xesHeader = `<?xml version="1.0" encoding="UTF-8"?>
<log xes.version="1.0" xes.features="nested-attributes" xmlns="http://www.xes-standard.org/">
`

// WriteXES writes l as XES. Every event carries concept:name and a
// time:timestamp; timestamps restart at the Unix epoch for each trace and
// advance one second per event.
func WriteXES(w io.Writer, l *eventlog.Log) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(xesHeader)
	for _, trace := range l.Traces() {
		bw.WriteString("<trace>\n")
		ts := time.Unix(0, 0).UTC()
		for _, act := range trace.Occurrences() {
			ts = ts.Add(eventInterval)
			bw.WriteString("<event>\n<string key=\"" + keyConceptName + "\" value=\"")
			if err := xml.EscapeText(bw, []byte(act)); err != nil {
				return fmt.Errorf("ingest: write xes: %w", err)
			}
			fmt.Fprintf(bw, "\"/>\n<date key=%q value=%q/>\n</event>\n", keyTimestamp, ts.Format(time.RFC3339))
		}
		bw.WriteString("</trace>\n")
	}
	bw.WriteString("</log>\n")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("ingest: write xes: %w", err)
	}

	return nil
}

// TextToXES converts the text line format read from r into XES on w.
// opts configure the text parser.
func TextToXES(ctx context.Context, r io.Reader, w io.Writer, opts ...Option) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	l, err := NewTextParser(opts...).Parse(ctx, Source{Content: data, Format: "text"})
	if err != nil {
		return err
	}

	return WriteXES(w, l)
}
