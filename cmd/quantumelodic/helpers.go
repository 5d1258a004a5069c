package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/michaelanticoli/quantumelodic/internal/bootstrap"
	"github.com/michaelanticoli/quantumelodic/internal/collector"
	"github.com/michaelanticoli/quantumelodic/internal/config"
	"github.com/michaelanticoli/quantumelodic/internal/datasync"
	"github.com/michaelanticoli/quantumelodic/internal/knowledge"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// knowledgeBase is the repository of a command, optionally backed by a snapshot file
type knowledgeBase struct {
	cfg          *config.Config
	repo         knowledge.Repository
	snapshotPath string
	closers      []func() error
}

func openKnowledgeBase(ctx context.Context, cfg *config.Config, snapshotPath string) (*knowledgeBase, error) {
	repo, closeRepo, err := bootstrap.NewRepository(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap.NewRepository() > %w", err)
	}
	kb := &knowledgeBase{
		cfg:          cfg,
		repo:         repo,
		snapshotPath: snapshotPath,
		closers:      []func() error{closeRepo},
	}

	if snapshotPath != "" {
		count, err := datasync.Load(ctx, repo, snapshotPath)
		if err != nil {
			_ = kb.Close()
			return nil, fmt.Errorf("datasync.Load(%s) > %w", snapshotPath, err)
		}
		slog.Default().Debug("loaded a snapshot", "path", snapshotPath, "entries", count)
	}
	return kb, nil
}

func (kb *knowledgeBase) newCollector(ctx context.Context) (*collector.Collector, error) {
	client, closeClient, err := bootstrap.NewInferenceClient(ctx, kb.cfg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap.NewInferenceClient() > %w", err)
	}
	kb.closers = append(kb.closers, closeClient)
	return collector.NewCollector(client, kb.repo, kb.cfg.Generator.RequestDelay), nil
}

// save writes the snapshot back when the knowledge base was opened with one
func (kb *knowledgeBase) save(ctx context.Context) error {
	if kb.snapshotPath == "" {
		return nil
	}
	if err := datasync.Save(ctx, kb.repo, kb.snapshotPath); err != nil {
		return fmt.Errorf("datasync.Save(%s) > %w", kb.snapshotPath, err)
	}
	return nil
}

func (kb *knowledgeBase) Close() error {
	var errs []error
	for i := len(kb.closers) - 1; i >= 0; i-- {
		errs = append(errs, kb.closers[i]())
	}
	return errors.Join(errs...)
}

func resolveBatchSize(flagValue int, cfg *config.Config) (int, error) {
	if flagValue == 0 {
		return cfg.Generator.BatchSize, nil
	}
	if flagValue < collector.MinBatchSize || flagValue > collector.MaxBatchSize {
		return 0, fmt.Errorf("batch size must be between %d and %d: %d", collector.MinBatchSize, collector.MaxBatchSize, flagValue)
	}
	return flagValue, nil
}
