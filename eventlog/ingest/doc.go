// SPDX-License-Identifier: MIT

// Package ingest turns raw event-log documents into eventlog.Log values.
//
// A Pipeline holds an ordered list of Parsers; the first parser whose
// CanHandle accepts a Source parses it. DefaultPipeline registers, in order:
//
//   - xes:  IEEE XES documents (<log><trace><event><string key="concept:name" …/>).
//   - csv:  tabular logs with a case column and an activity column, one row
//     per event, optionally ordered by a timestamp column.
//   - text: one trace per line, comma-separated activities, optional ":N"
//     suffix repeating the trace N times.
//
// WriteXES and TextToXES produce XES from a log or from the text format.
package ingest
