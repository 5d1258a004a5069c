package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/michaelanticoli/quantumelodic/internal/datasync"
)

func newImportCommand() *cobra.Command {
	var dryRun bool
	var updateExisting bool
	var snapshotPath string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import entries from a CSV export or a YAML snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			entries, err := datasync.ReadEntries(args[0])
			if err != nil {
				return fmt.Errorf("read entries: %w", err)
			}

			kb, err := openKnowledgeBase(ctx, cfg, snapshotPath)
			if err != nil {
				return err
			}
			defer func() {
				_ = kb.Close()
			}()

			out := cmd.OutOrStdout()
			opts := datasync.ImportOptions{
				DryRun:         dryRun,
				UpdateExisting: updateExisting,
			}
			result, err := datasync.NewImporter(kb.repo, out).Import(ctx, entries, opts)
			if err != nil {
				return fmt.Errorf("import entries: %w", err)
			}

			_, _ = fmt.Fprintln(out, "\nImport Summary:")
			if opts.DryRun {
				_, _ = fmt.Fprintln(out, "  (dry-run mode, no changes made)")
			}
			_, _ = fmt.Fprintf(out, "  Terms: %d new, %d skipped, %d updated\n", result.New, result.Skipped, result.Updated)

			if opts.DryRun {
				return nil
			}
			return kb.save(ctx)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be imported without writing")
	cmd.Flags().BoolVar(&updateExisting, "update-existing", false, "Replace descriptions of terms that already exist")
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "YAML snapshot to import into when the memory driver is used")
	return cmd
}
