package main

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/iliyamo/seat-allocation/internal/config"
	"github.com/iliyamo/seat-allocation/internal/database"
	"github.com/iliyamo/seat-allocation/internal/logging"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the MySQL schema",
	}
	cmd.AddCommand(
		migrateSubcommand("up", "Apply all pending migrations", database.MigrateUp),
		migrateSubcommand("down", "Roll back the latest migration", database.MigrateDown),
		migrateSubcommand("status", "Show migration status", database.MigrationStatus),
	)
	return cmd
}

type migrateFunc func(ctx context.Context, db *sql.DB, log database.Logger) error

func migrateSubcommand(use, short string, fn migrateFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.StoreDriver != config.DriverMySQL {
				return errors.Errorf("migrate requires STORE_DRIVER=mysql, got %q", cfg.StoreDriver)
			}
			log := logging.New(cfg.LogLevel, "text", cmd.ErrOrStderr())

			ctx := cmd.Context()
			db, err := database.Open(ctx, database.Options{
				User: cfg.DBUser,
				Pass: cfg.DBPass,
				Host: cfg.DBHost,
				Port: cfg.DBPort,
				Name: cfg.DBName,
			})
			if err != nil {
				return errors.Wrap(err, "open database")
			}
			defer db.Close()
			return fn(ctx, db, log)
		},
	}
}
