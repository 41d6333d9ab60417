package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/AlibekovAA/qa-llm/backend/internal/common/migrations"
)

var ErrUnknownMigrateCommand = errors.New("unknown migrate command")

var gooseRun = func(ctx context.Context, command string, db *sql.DB, dir string) error {
	return goose.RunContext(ctx, command, db, dir)
}

// Migrate applies a goose command ("up", "down", "status", ...) using the embedded schema.
func Migrate(ctx context.Context, databaseURL, command string) error {
	switch command {
	case "up", "down", "status", "version", "redo", "reset":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMigrateCommand, command)
	}

	sqlDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer sqlDB.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := gooseRun(ctx, command, sqlDB, "."); err != nil {
		return fmt.Errorf("failed to run migrations %s: %w", command, err)
	}
	return nil
}
