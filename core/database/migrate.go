package database

import (
	"context"
	"fmt"

	"slotswap-api/core/logger"
	"slotswap-api/migrations"

	"github.com/pressly/goose/v3"
)

// Migrate applies all pending schema migrations embedded in the binary.
func (d *Database) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, d.sqlx.DB, "."); err != nil {
		logger.Error("Database:Migrate:Error", err)
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, d.sqlx.DB)
	if err != nil {
		return fmt.Errorf("get migration version: %w", err)
	}

	logger.Info("Database:Migrate:Success", "version", version)
	return nil
}
