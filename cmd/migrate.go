package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/dtroode/codemap-billing/database"
	"github.com/dtroode/codemap-billing/internal/logger"
	"github.com/dtroode/codemap-billing/internal/repository/postgres"
)

type migration func(ctx context.Context, pool *pgxpool.Pool, log database.Logger) error

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		migrateSubcommand("up", "Apply all pending migrations", database.Migrate),
		migrateSubcommand("down", "Roll back the most recent migration", database.Rollback),
		migrateSubcommand("status", "Show the state of every migration", database.Status),
	)

	return cmd
}

func migrateSubcommand(use, short string, fn migration) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			return runMigration(cmd.Context(), cfg.Database.DSN, log, fn)
		},
	}
}

func runMigration(ctx context.Context, dsn string, log *logger.Logger, fn migration) error {
	pool, err := postgres.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := fn(ctx, pool, log); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
