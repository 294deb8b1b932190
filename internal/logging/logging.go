// Package logging builds the console logger used across the CLI.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// Options holds configuration for console logging.
type Options struct {
	Level           string
	Format          string
	ReportTimestamp bool
	Prefix          string
}

// DefaultOptions returns the default console logging options.
func DefaultOptions() Options {
	return Options{
		Level:           "info",
		Format:          "text",
		ReportTimestamp: false,
		Prefix:          "taskdeck",
	}
}

// New creates a leveled logger writing to w. Unknown levels fall back to
// info and unknown formats to text, so a typo in config never silences
// logging entirely.
func New(w io.Writer, opts Options) *log.Logger {
	level, err := log.ParseLevel(opts.Level)
	if err != nil {
		level = log.InfoLevel
	}

	formatter := log.TextFormatter
	switch opts.Format {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}
