// SPDX-License-Identifier: MIT

// Package discovery finds temporal and existential dependencies between the
// activities of an event log and lays them out as an activity × activity
// matrix.
//
// Layout:
//
//	eventlog/        — traces, logs, alphabet and the per-trace occurrence index
//	eventlog/ingest/ — XES, CSV and text readers behind one parser pipeline
//	dependency/      — the pairwise temporal and existential checks
//	matrix/          — parallel discovery, codecs, rendering and temporal order
//	evaluation/      — ground truths and precision/recall/F1 against them
//	epa/             — prefix automaton and variant entropy of a log
//	synth/           — seeded synthetic logs for tests and benchmarks
//	analysis/        — run-level orchestration shared by every front end
//	config/, logger/ — configuration and logging for the binaries
//	server/          — HTTP API with Prometheus metrics
//	mcptool/         — MCP tools over stdio
//	cmd/depmatrix/   — the command line
//
// Quick example:
//
//	l := eventlog.NewLog(eventlog.Trace{"a", "b", "c"}, eventlog.Trace{"a", "c"})
//	am, err := matrix.Discover(l, 1.0, 1.0)
//	// am.Relation("a", "c") holds both a temporal and an existential dependency.
//
//	go install github.com/anonymoushlmnop/matrix-discovery/cmd/depmatrix@latest
package discovery
