package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"

	"github.com/michaelanticoli/quantumelodic/internal/collector"
	"github.com/michaelanticoli/quantumelodic/internal/knowledge"
)

var errEnd = errors.New("end")

// CollectCLI collects terms typed on the console and prints the knowledge base
type CollectCLI struct {
	collector    *collector.Collector
	repo         knowledge.Repository
	batchSize    int
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	reporter     collector.Reporter
	printer      *EntryPrinter
}

func NewCollectCLI(c *collector.Collector, repo knowledge.Repository, batchSize int, stdin io.Reader, stdout io.Writer) *CollectCLI {
	return &CollectCLI{
		collector:    c,
		repo:         repo,
		batchSize:    batchSize,
		stdinReader:  bufio.NewReader(stdin),
		stdoutWriter: stdout,
		bold:         color.New(color.Bold),
		reporter:     NewConsoleReporter(stdout),
		printer:      NewEntryPrinter(stdout),
	}
}

// Add collects comma-separated terms and prints the resulting knowledge base
func (cli *CollectCLI) Add(ctx context.Context, input string) (collector.Result, error) {
	result, err := cli.collector.Collect(ctx, collector.ParseTerms(input), cli.batchSize, cli.reporter)
	if err != nil {
		return result, fmt.Errorf("collector.Collect() > %w", err)
	}
	if err := cli.PrintAll(ctx); err != nil {
		return result, err
	}
	return result, nil
}

func (cli *CollectCLI) PrintAll(ctx context.Context) error {
	entries, err := cli.repo.All(ctx)
	if err != nil {
		return fmt.Errorf("repo.All() > %w", err)
	}
	cli.printer.PrintAll(entries)
	return nil
}

// Session reads one line of terms. An empty line or EOF ends the loop.
func (cli *CollectCLI) Session(ctx context.Context) error {
	_, _ = cli.bold.Fprint(cli.stdoutWriter, "Enter terms separated by commas: ")

	line, err := cli.stdinReader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("error reading input: %w", err)
	}
	input := strings.TrimSpace(line)
	if input == "" {
		_, _ = fmt.Fprintln(cli.stdoutWriter)
		return errEnd
	}

	if _, addErr := cli.Add(ctx, input); addErr != nil {
		return addErr
	}
	if errors.Is(err, io.EOF) {
		return errEnd
	}
	return nil
}

// Run repeats Session until it ends or the process is interrupted
func (cli *CollectCLI) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		for ctx.Err() == nil {
			if err := cli.Session(ctx); err != nil {
				if !errors.Is(err, errEnd) {
					errCh <- err
				}
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		_, _ = fmt.Fprintln(cli.stdoutWriter, "Received interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}
