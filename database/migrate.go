// Package database owns the schema and its migrations.
package database

import (
	"context"
	"database/sql"
	"embed"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// Logger receives goose output.
type Logger interface {
	InfoContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// Migrate applies all pending migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log Logger) error {
	return run(ctx, pool, log, func(ctx context.Context, db *sql.DB) error {
		return goose.UpContext(ctx, db, migrationsDir)
	})
}

// Rollback reverts the most recent migration.
func Rollback(ctx context.Context, pool *pgxpool.Pool, log Logger) error {
	return run(ctx, pool, log, func(ctx context.Context, db *sql.DB) error {
		return goose.DownContext(ctx, db, migrationsDir)
	})
}

// Status logs the state of every migration.
func Status(ctx context.Context, pool *pgxpool.Pool, log Logger) error {
	return run(ctx, pool, log, func(ctx context.Context, db *sql.DB) error {
		return goose.StatusContext(ctx, db, migrationsDir)
	})
}
