// Package repotest opens throwaway SQLite databases for repository tests.
package repotest

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mintalist/mintalist-backend/pkg/db"
	"github.com/mintalist/mintalist-backend/pkg/migrate"
)

// NewSQLite returns an isolated in-memory database with every table created.
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := "file:repotest_" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		NowFunc:                db.NowUTC,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := migrate.AutoMigrateModels(conn); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

// NewClient wraps NewSQLite in the db.Client used by services.
func NewClient(t testing.TB) *db.Client {
	t.Helper()
	return db.NewFromConn(NewSQLite(t))
}
