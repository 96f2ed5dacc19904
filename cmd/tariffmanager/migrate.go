package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bher20/tariffmanager/internal/config"
	"github.com/bher20/tariffmanager/internal/migrate"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the SQL schema (sqlite, postgres, postgrespool)",
	}

	step := func(use, short string, fn func(cmd *cobra.Command, cfg *config.Config) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				if cfg.Storage.Driver == "memory" {
					return fmt.Errorf("migrate: the memory driver has no schema")
				}
				return fn(cmd, cfg)
			},
		}
	}

	cmd.AddCommand(step("up", "Apply pending migrations", func(cmd *cobra.Command, cfg *config.Config) error {
		return migrate.Up(cmd.Context(), cfg.Storage.Driver, cfg.Storage.DSN)
	}))
	cmd.AddCommand(step("down", "Roll back the latest migration", func(cmd *cobra.Command, cfg *config.Config) error {
		return migrate.Down(cmd.Context(), cfg.Storage.Driver, cfg.Storage.DSN)
	}))
	cmd.AddCommand(step("status", "Print migration status", func(cmd *cobra.Command, cfg *config.Config) error {
		if err := migrate.Status(cmd.Context(), cfg.Storage.Driver, cfg.Storage.DSN); err != nil {
			return err
		}
		v, err := migrate.Version(cmd.Context(), cfg.Storage.Driver, cfg.Storage.DSN)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", v)
		return nil
	}))
	return cmd
}
