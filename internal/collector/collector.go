// Package collector turns user-supplied terms into knowledge base entries.
package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/michaelanticoli/quantumelodic/internal/inference"
	"github.com/michaelanticoli/quantumelodic/internal/knowledge"
)

const DefaultRequestDelay = time.Second

type Collector struct {
	client inference.Client
	repo   knowledge.Repository
	delay  time.Duration
}

func NewCollector(client inference.Client, repo knowledge.Repository, delay time.Duration) *Collector {
	return &Collector{
		client: client,
		repo:   repo,
		delay:  delay,
	}
}

type Failure struct {
	Term string
	Err  error
}

// Result holds the keys added by a collection and the terms that failed
type Result struct {
	Added    []string
	Failures []Failure
}

// Collect describes every term batch by batch and stores the successful ones.
// A failing term is reported and skipped. It only returns an error when ctx is done.
func (c *Collector) Collect(ctx context.Context, terms []string, batchSize int, reporter Reporter) (Result, error) {
	var result Result
	batches := Batches(terms, batchSize)
	calls := 0

	for i, batch := range batches {
		reporter.Report(LevelInfo, fmt.Sprintf("Processing batch %d of %d...", i+1, len(batches)))
		for _, term := range batch {
			if calls > 0 {
				if err := c.wait(ctx); err != nil {
					return result, err
				}
			}
			calls++

			if err := c.collect(ctx, term); err != nil {
				if ctx.Err() != nil {
					return result, ctx.Err()
				}
				slog.Default().Warn("failed to collect a term", "term", term, "error", err)
				reporter.Report(LevelError, failureMessage(term, err))
				result.Failures = append(result.Failures, Failure{Term: term, Err: err})
				continue
			}
			result.Added = append(result.Added, knowledge.Key(term))
		}
		reporter.Report(LevelSuccess, fmt.Sprintf("Batch %d processed successfully!", i+1))
	}
	reporter.Report(LevelSuccess, "All terms added successfully!")
	return result, nil
}

func (c *Collector) collect(ctx context.Context, term string) error {
	descriptions, err := c.client.Describe(ctx, inference.DescribeRequest{Term: term})
	if err != nil {
		return fmt.Errorf("client.Describe(%s) > %w", term, err)
	}
	if err := c.repo.Add(ctx, knowledge.NewEntry(term, descriptions)); err != nil {
		return fmt.Errorf("repo.Add(%s) > %w", term, err)
	}
	return nil
}

func (c *Collector) wait(ctx context.Context) error {
	if c.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(c.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func failureMessage(term string, err error) string {
	switch {
	case errors.Is(err, inference.ErrMissingHeader):
		return fmt.Sprintf("Missing expected headers in response for term '%s': %v", term, err)
	case errors.Is(err, inference.ErrMalformedResponse):
		return fmt.Sprintf("Error parsing the response for term '%s': %v", term, err)
	default:
		return fmt.Sprintf("Error generating descriptions for term '%s': %v", term, err)
	}
}
