package cli

import (
	"io"

	"github.com/fatih/color"

	"github.com/michaelanticoli/quantumelodic/internal/collector"
)

// ConsoleReporter prints collection progress with one color per level
type ConsoleReporter struct {
	writer  io.Writer
	info    *color.Color
	success *color.Color
	failure *color.Color
}

func NewConsoleReporter(writer io.Writer) *ConsoleReporter {
	return &ConsoleReporter{
		writer:  writer,
		info:    color.New(color.FgCyan),
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
	}
}

func (r *ConsoleReporter) Report(level collector.Level, text string) {
	c := r.info
	switch level {
	case collector.LevelSuccess:
		c = r.success
	case collector.LevelError:
		c = r.failure
	}
	_, _ = c.Fprintln(r.writer, text)
}
