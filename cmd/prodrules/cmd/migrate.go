package cmd

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/solatis/prodrules/internal/core/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the product database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		if err := e.cfg.Validate(); err != nil {
			return err
		}
		ctx := cmd.Context()

		database, err := db.Open(ctx, e.cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		applied, err := db.MigrateUp(ctx, database)
		for _, id := range applied {
			e.logger.Info("migration applied", "migration", id)
		}
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		if len(applied) == 0 {
			fmt.Fprintln(e.out, "Database is up to date")
			return nil
		}
		fmt.Fprintf(e.out, "Applied %d migration(s)\n", len(applied))
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		if err := e.cfg.Validate(); err != nil {
			return err
		}
		ctx := cmd.Context()

		database, err := db.Open(ctx, e.cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		statuses, err := db.MigrateStatus(ctx, database)
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(e.out)
		table.Header("Migration", "Status", "Applied At", "Duration")
		for _, s := range statuses {
			status, appliedAt, duration := "pending", "-", "-"
			if s.Applied {
				status = "applied"
				duration = fmt.Sprintf("%dms", s.ExecutionMs)
				if s.AppliedAt != nil {
					appliedAt = *s.AppliedAt
				}
			}
			if err := table.Append(s.ID, status, appliedAt, duration); err != nil {
				return err
			}
		}
		return table.Render()
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}
