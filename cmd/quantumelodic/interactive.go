package main

import (
	"github.com/spf13/cobra"

	"github.com/michaelanticoli/quantumelodic/internal/cli"
)

func newInteractiveCommand() *cobra.Command {
	var batchSize int
	var snapshotPath string

	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Add terms line by line until an empty line",
		Args:  cobra.NoArgs,
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
			if err := collectCLI.PrintAll(ctx); err != nil {
				return err
			}
			if err := collectCLI.Run(ctx); err != nil {
				return err
			}
			return kb.save(ctx)
		},
	}
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Number of terms per batch (1-50, default from config)")
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "YAML snapshot to load before and save after the session")
	return cmd
}
