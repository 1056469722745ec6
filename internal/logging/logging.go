// Package logging provides the charmbracelet/log setup shared by every
// command and package in this repository.
package logging

import (
	"os"

	"github.com/charmbracelet/log"
)

// New creates a logger with the given prefix, reporting timestamps but not
// caller info, at the process-wide log level.
func New(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stdout, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// NewWithConfig creates a logger with explicit level/caller/timestamp/
// formatter settings, for callers that need more control than New.
func NewWithConfig(prefix string, level log.Level, caller bool, showTimestamp bool, format log.Formatter) *log.Logger {
	return log.NewWithOptions(os.Stdout, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       format,
	})
}
