package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/michaelanticoli/quantumelodic/internal/cli"
	"github.com/michaelanticoli/quantumelodic/internal/table"
)

func newAddCommand() *cobra.Command {
	var batchSize int
	var snapshotPath string
	var csvPath string

	cmd := &cobra.Command{
		Use:   "add <terms>...",
		Short: "Describe comma-separated terms and add them to the knowledge base",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			size, err := resolveBatchSize(batchSize, cfg)
			if err != nil {
				return err
			}

			kb, err := openKnowledgeBase(ctx, cfg, snapshotPath)
			if err != nil {
				return err
			}
			defer func() {
				_ = kb.Close()
			}()
			c, err := kb.newCollector(ctx)
			if err != nil {
				return err
			}

			collectCLI := cli.NewCollectCLI(c, kb.repo, size, cmd.InOrStdin(), cmd.OutOrStdout())
			if _, err := collectCLI.Add(ctx, strings.Join(args, ",")); err != nil {
				return err
			}
			if err := kb.save(ctx); err != nil {
				return err
			}
			if csvPath != "" {
				return writeCSVFile(cmd, kb, csvPath)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Number of terms per batch (1-50, default from config)")
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "YAML snapshot to load before and save after collecting")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Write the knowledge base as CSV to this path")
	return cmd
}

func writeCSVFile(cmd *cobra.Command, kb *knowledgeBase, path string) error {
	entries, err := kb.repo.All(cmd.Context())
	if err != nil {
		return fmt.Errorf("repo.All() > %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("os.Create(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()
	if err := table.WriteCSV(file, entries); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d terms to %s\n", len(entries), path)
	return nil
}
