package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/michaelanticoli/quantumelodic/internal/knowledge"
	"github.com/michaelanticoli/quantumelodic/internal/table"
)

// EntryPrinter prints table rows as one block per term
type EntryPrinter struct {
	writer io.Writer
	bold   *color.Color
	italic *color.Color
}

func NewEntryPrinter(writer io.Writer) *EntryPrinter {
	return &EntryPrinter{
		writer: writer,
		bold:   color.New(color.Bold),
		italic: color.New(color.Italic),
	}
}

func (p *EntryPrinter) PrintAll(entries []knowledge.Entry) {
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(p.writer, "No terms yet.")
		return
	}
	_, _ = p.bold.Fprintf(p.writer, "All Terms (%d)\n", len(entries))
	for _, entry := range entries {
		_, _ = fmt.Fprintln(p.writer)
		p.Print(entry)
	}
}

func (p *EntryPrinter) Print(entry knowledge.Entry) {
	row := table.Row(entry)
	_, _ = p.bold.Fprintln(p.writer, row[0])
	for i := 1; i < len(table.Columns); i++ {
		_, _ = fmt.Fprintf(p.writer, "  %s: %s\n", p.italic.Sprint(table.Columns[i]), row[i])
	}
}
