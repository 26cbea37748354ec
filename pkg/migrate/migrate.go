package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/pressly/goose/v3"
)

const (
	DefaultDir     = "pkg/migrate/migrations"
	defaultDialect = "postgres"
	embeddedRoot   = "migrations"
)

//go:embed migrations/*.sql
var embedded embed.FS

var gooseCommands = map[string]bool{
	"up": true, "up-by-one": true, "down": true, "redo": true,
	"reset": true, "status": true, "version": true,
}

// source points goose at the compiled-in migrations when dir is the default
// location so binaries do not need the repository checked out.
func source(dir string) string {
	if dir == "" || filepath.Clean(dir) == DefaultDir {
		goose.SetBaseFS(embedded)
		return embeddedRoot
	}
	goose.SetBaseFS(nil)
	return dir
}

// Run executes a goose command against Postgres.
func Run(ctx context.Context, db *sql.DB, dir string, command string, args ...string) error {
	return RunDialect(ctx, db, defaultDialect, dir, command, args...)
}

// RunDialect is Run for a non-default goose dialect.
func RunDialect(ctx context.Context, db *sql.DB, dialect, dir string, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	if !gooseCommands[command] {
		return fmt.Errorf("unsupported goose command %q", command)
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.RunContext(ctx, command, db, source(dir), args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// MigrateToVersion moves the schema up or down until it sits at targetVersion.
func MigrateToVersion(ctx context.Context, db *sql.DB, dir string, targetVersion string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil || len(targetVersion) != len(versionLayout) {
		return fmt.Errorf("invalid version %q (expected %s)", targetVersion, versionLayout)
	}
	if err := goose.SetDialect(defaultDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	resolved := source(dir)

	current, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}
	switch {
	case current < target:
		err = goose.UpToContext(ctx, db, resolved, target)
	case current > target:
		err = goose.DownToContext(ctx, db, resolved, target)
	}
	if err != nil {
		return fmt.Errorf("goose migrate %d -> %d: %w", current, target, err)
	}
	return nil
}
