// SPDX-License-Identifier: MIT

// Package console is a logger backend writing through charmbracelet/log.
package console

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Logger implements logger.Instance.
type Logger struct {
	logger *log.Logger
}

// Params configures a console Logger.
type Params struct {
	// Debug lowers the level to DEBUG.
	Debug bool
	// JSON switches to one JSON object per line.
	JSON bool
	// Output defaults to os.Stderr.
	Output io.Writer
	// Prefix is printed before every message, e.g. the command name.
	Prefix string
}

// New creates a console logger.
func New(p Params) *Logger {
	level := log.InfoLevel
	if p.Debug {
		level = log.DebugLevel
	}
	out := p.Output
	if out == nil {
		out = os.Stderr
	}
	opts := log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          p.Prefix,
	}
	if p.JSON {
		opts.Formatter = log.JSONFormatter
	}

	return &Logger{logger: log.NewWithOptions(out, opts)}
}

// Debug implements logger.Instance.
func (c *Logger) Debug(message string, keyvals ...any) { c.logger.Debug(message, keyvals...) }

// Info implements logger.Instance.
func (c *Logger) Info(message string, keyvals ...any) { c.logger.Info(message, keyvals...) }

// Warn implements logger.Instance.
func (c *Logger) Warn(message string, keyvals ...any) { c.logger.Warn(message, keyvals...) }

// Error implements logger.Instance.
func (c *Logger) Error(message string, keyvals ...any) { c.logger.Error(message, keyvals...) }

// Fatal logs and exits with status 1.
func (c *Logger) Fatal(message string, keyvals ...any) { c.logger.Fatal(message, keyvals...) }
