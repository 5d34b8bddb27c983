package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/udisondev/arena/internal/db/migrations"
)

// RunMigrations runs goose migrations on the given DSN.
func RunMigrations(ctx context.Context, dsn string) error {
	return Migrate(ctx, dsn, "up")
}

// Migrate runs a goose command (up, down, status, version, reset, ...)
// against the embedded migrations.
func Migrate(ctx context.Context, dsn, command string, args ...string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("opening sql connection for migrations: %w", err)
	}
	defer sqlDB.Close()

	if err := migrateDB(ctx, sqlDB, command, args...); err != nil {
		return err
	}
	slog.Info("goose command finished", "command", command)
	return nil
}

func migrateDB(ctx context.Context, sqlDB *sql.DB, command string, args ...string) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.RunContext(ctx, command, sqlDB, ".", args...); err != nil {
		return fmt.Errorf("running migrations (%s): %w", command, err)
	}
	return nil
}
