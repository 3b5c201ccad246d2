// SPDX-License-Identifier: MIT

package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/anonymoushlmnop/matrix-discovery/eventlog"
)

// Recognised header names, compared case-insensitively.
var (
	caseColumns     = []string{"case", "case_id", "caseid", "case:concept:name", "trace"}
	activityColumns = []string{"activity", "concept:name", "event", "activity_name"}
	timeColumns     = []string{"timestamp", "time:timestamp", "time"}
)

// CSVParser reads one event per row. The header must name a case column
// and an activity column; a timestamp column (RFC 3339) is optional.
// Cases appear in first-seen order; events keep row order unless
// timestamps are present, in which case they are stably sorted by time.
type CSVParser struct{}

// NewCSVParser returns the CSV parser.
func NewCSVParser() *CSVParser { return &CSVParser{} }

// Name implements Parser.
func (*CSVParser) Name() string { return "csv" }

// CanHandle accepts the "csv" hint or content whose first line is a
// recognisable header.
func (*CSVParser) CanHandle(src Source) bool {
	switch strings.ToLower(src.Format) {
	case "csv":
		return true
	case "":
		first, _, _ := bytes.Cut(src.Content, []byte("\n"))
		_, _, _, err := headerColumns(strings.Split(strings.TrimSpace(string(first)), ","))
		return err == nil
	}

	return false
}

type csvEvent struct {
	activity eventlog.Activity
	at       time.Time
}

// Parse implements Parser.
func (*CSVParser) Parse(ctx context.Context, src Source) (*eventlog.Log, error) {
	r := csv.NewReader(bytes.NewReader(src.Content))
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrMalformed, err)
	}
	caseCol, actCol, timeCol, err := headerColumns(header)
	if err != nil {
		return nil, err
	}

	var (
		order []string
		cases = make(map[string][]csvEvent)
		row   = 1
	)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrMalformed, row, err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id := strings.TrimSpace(rec[caseCol])
		ev := csvEvent{activity: strings.TrimSpace(rec[actCol])}
		if ev.activity == "" {
			return nil, fmt.Errorf("row %d: %w", row, eventlog.ErrEmptyActivity)
		}
		if timeCol >= 0 {
			if ev.at, err = time.Parse(time.RFC3339, strings.TrimSpace(rec[timeCol])); err != nil {
				return nil, fmt.Errorf("%w: row %d: %w", ErrMalformed, row, err)
			}
		}
		if _, seen := cases[id]; !seen {
			order = append(order, id)
		}
		cases[id] = append(cases[id], ev)
	}

	traces := make([]eventlog.Trace, 0, len(order))
	for _, id := range order {
		evs := cases[id]
		if timeCol >= 0 {
			slices.SortStableFunc(evs, func(a, b csvEvent) int { return a.at.Compare(b.at) })
		}
		trace := make(eventlog.Trace, len(evs))
		for i, ev := range evs {
			trace[i] = ev.activity
		}
		traces = append(traces, trace)
	}

	return eventlog.NewLog(traces...), nil
}

// headerColumns locates the case, activity and (optional, -1) time columns.
func headerColumns(header []string) (caseCol, actCol, timeCol int, err error) {
	caseCol, actCol, timeCol = -1, -1, -1
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		switch {
		case caseCol < 0 && slices.Contains(caseColumns, h):
			caseCol = i
		case actCol < 0 && slices.Contains(activityColumns, h):
			actCol = i
		case timeCol < 0 && slices.Contains(timeColumns, h):
			timeCol = i
		}
	}
	if caseCol < 0 || actCol < 0 {
		return 0, 0, 0, fmt.Errorf("%w: header needs case and activity columns, got %v", ErrMalformed, header)
	}

	return caseCol, actCol, timeCol, nil
}
