package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/michaelanticoli/quantumelodic/internal/database"
	"github.com/michaelanticoli/quantumelodic/schemas"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := database.Connect(cmd.Context(), cfg.Database)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer func() { _ = db.Close() }()

			versions, err := database.Migrate(cmd.Context(), db, schemas.Migrations)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			if len(versions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date")
				return nil
			}
			for _, version := range versions {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  [APPLIED]  %s\n", version)
			}
			return nil
		},
	}
}
