package db

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mintalist/mintalist-backend/pkg/config"
)

type vendorRow struct {
	ID   int
	Slug string
}

func openMemory(t *testing.T, name string) *Client {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&vendorRow{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	client := NewFromConn(conn)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func countRows(t *testing.T, client *Client) int64 {
	t.Helper()
	var count int64
	if err := client.DB().Model(&vendorRow{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return count
}

func TestWithTxCommit(t *testing.T) {
	client := openMemory(t, "tx_commit")

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Create(&vendorRow{Slug: "cafe-nile"}).Error
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}
	if got := countRows(t, client); got != 1 {
		t.Fatalf("expected 1 row, got %d", got)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	client := openMemory(t, "tx_rollback")
	boom := errors.New("boom")

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Create(&vendorRow{Slug: "dropped"}).Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if got := countRows(t, client); got != 0 {
		t.Fatalf("expected rollback, got %d rows", got)
	}
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	client := openMemory(t, "tx_panic")

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		_ = client.WithTx(context.Background(), func(tx *gorm.DB) error {
			tx.Create(&vendorRow{Slug: "half-written"})
			panic("kaboom")
		})
	}()

	if got := countRows(t, client); got != 0 {
		t.Fatalf("expected rollback after panic, got %d rows", got)
	}
}

func TestNewOpensSQLite(t *testing.T) {
	client, err := New(context.Background(), config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    "file:client_new?mode=memory&cache=shared",
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	sqlDB, err := client.DB().DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	if got := sqlDB.Stats().MaxOpenConnections; got != 1 {
		t.Fatalf("expected sqlite pool capped at 1, got %d", got)
	}
}

func TestNewRequiresDSN(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{}, nil); err == nil {
		t.Fatal("expected missing dsn error")
	}
}

func TestNowUTC(t *testing.T) {
	if loc := NowUTC().Location(); loc.String() != "UTC" {
		t.Fatalf("expected UTC, got %s", loc)
	}
}
