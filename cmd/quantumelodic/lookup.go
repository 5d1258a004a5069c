package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/michaelanticoli/quantumelodic/internal/cli"
)

func newLookupCommand() *cobra.Command {
	var snapshotPath string

	cmd := &cobra.Command{
		Use:   "lookup <term>",
		Short: "Print the descriptions of a term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
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

			entry, err := kb.repo.Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("repo.Get(%s) > %w", args[0], err)
			}
			if entry == nil {
				return fmt.Errorf("term %q not found", args[0])
			}
			cli.NewEntryPrinter(cmd.OutOrStdout()).Print(*entry)
			return nil
		},
	}
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "YAML snapshot to read the knowledge base from")
	return cmd
}
