// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the structured loggers shared by the pipeline
// components.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Options configures a logger.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string

	// JSON selects the JSON formatter instead of the console formatter.
	JSON bool

	// Prefix is printed before every message.
	Prefix string
}

// New returns a logger writing to w. A nil w writes to stderr.
func New(w io.Writer, opts Options) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	level, err := log.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = log.InfoLevel
	}
	lo := log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          opts.Prefix,
	}
	if opts.JSON {
		lo.Formatter = log.JSONFormatter
	}
	return log.NewWithOptions(w, lo)
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
