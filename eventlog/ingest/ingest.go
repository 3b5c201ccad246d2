// SPDX-License-Identifier: MIT

package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/anonymoushlmnop/matrix-discovery/eventlog"
)

var (
	// ErrUnsupportedFormat indicates that no registered parser accepts a source.
	ErrUnsupportedFormat = errors.New("ingest: unsupported log format")

	// ErrMalformed indicates a document that a parser accepted but could not read.
	ErrMalformed = errors.New("ingest: malformed log")
)

// Source is one raw log document.
type Source struct {
	// Content is the raw document.
	Content []byte
	// Format is an optional hint ("xes", "csv", "text"); usually the file extension.
	Format string
	// Name identifies the source in errors, e.g. a file path.
	Name string
}

// Parser reads one log format.
type Parser interface {
	Name() string
	CanHandle(src Source) bool
	Parse(ctx context.Context, src Source) (*eventlog.Log, error)
}

// Pipeline dispatches a source to the first parser that can handle it.
type Pipeline struct {
	parsers []Parser
}

// NewPipeline creates a pipeline over parsers, tried in the given order.
func NewPipeline(parsers ...Parser) *Pipeline {
	return &Pipeline{parsers: parsers}
}

// DefaultPipeline registers the XES, CSV and text parsers. opts configure
// the text parser, the only format whose trace count is not bounded by the
// document size.
func DefaultPipeline(opts ...Option) *Pipeline {
	return NewPipeline(NewXESParser(), NewCSVParser(), NewTextParser(opts...))
}

// Result is the output of a successful Parse.
type Result struct {
	Log        *eventlog.Log
	ParserUsed string
}

// Parse selects a parser for src and runs it.
func (p *Pipeline) Parse(ctx context.Context, src Source) (Result, error) {
	parser, err := p.selectParser(src)
	if err != nil {
		return Result{}, err
	}
	l, err := parser.Parse(ctx, src)
	if err != nil {
		return Result{}, fmt.Errorf("parser %q on %s: %w", parser.Name(), src.Name, err)
	}

	return Result{Log: l, ParserUsed: parser.Name()}, nil
}

func (p *Pipeline) selectParser(src Source) (Parser, error) {
	for _, parser := range p.parsers {
		if parser.CanHandle(src) {
			return parser, nil
		}
	}

	return nil, fmt.Errorf("%w: no parser for %q (format hint %q)", ErrUnsupportedFormat, src.Name, src.Format)
}

// RegisteredParsers returns the parser names in selection order.
func (p *Pipeline) RegisteredParsers() []string {
	names := make([]string, len(p.parsers))
	for i, parser := range p.parsers {
		names[i] = parser.Name()
	}

	return names
}

// ReadFile loads path, using its extension as the format hint.
func (p *Pipeline) ReadFile(ctx context.Context, path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("ingest: %w", err)
	}
	src := Source{
		Content: data,
		Format:  strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
		Name:    path,
	}

	return p.Parse(ctx, src)
}

// ReadFiles loads every path concurrently (at most limit at a time, limit
// < 1 means unbounded) and concatenates the logs in argument order.
func (p *Pipeline) ReadFiles(ctx context.Context, limit int, paths ...string) (*eventlog.Log, error) {
	logs := make([]*eventlog.Log, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, path := range paths {
		g.Go(func() error {
			res, err := p.ReadFile(gctx, path)
			if err != nil {
				return err
			}
			logs[i] = res.Log

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return eventlog.NewLog().Append(logs...), nil
}
