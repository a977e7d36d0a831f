// Package cli implements the perturbviz command-line interface.
//
// The visualize command runs the whole analysis: it reads an interaction
// network (or fetches one from STRING), the perturbed genes and an optional
// differential expression table, then writes the network images and the
// ranked gene table. Supporting commands retrieve networks, manage the
// STRING response cache and the configuration file.
//
// # Commands
//
//   - visualize: Annotate, lay out and render a network
//   - network: Fetch a STRING network as a TSV edge list
//   - cache: Manage the STRING response cache
//   - config: Write, show or check configuration
//   - completion: Generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// traces pipeline stages, cache lookups and HTTP requests. Status lines for
// people are printed to stdout with lipgloss styles; logs go to stderr.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing to w at level, with timestamps
// formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress starts timing an operation.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, rounded to the millisecond.
// Example output: "Loaded 1204 interactions (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
