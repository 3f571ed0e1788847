package db

import (
	"context"
	"database/sql"
	"embed"

	"github.com/pressly/goose/v3"
)

// The documents schema ships inside the binary so startup provisioning and
// cmd/migrate apply the same files.
//
//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations applies the embedded migrations via goose. A nil database
// (dev mode, in-memory repo) is a no-op.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return nil
	}
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, database, "migrations")
}
