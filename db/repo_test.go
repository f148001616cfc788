package db

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"supply-lending-tool/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1",
		filepath.Join(t.TempDir(), "ledger.db"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// 单连接：并发写事务在连接池上排队
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(&models.User{}, &models.Item{}, &models.Lender{}, &models.Loan{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewRepo(gdb)
}

func seedItem(t *testing.T, r *Repo, totalQty int) uint {
	t.Helper()
	items, err := r.BulkInsertItems(context.Background(), []BulkItemInput{
		{Category: "tools", Name: "drill", Qty: totalQty},
	})
	if err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return items[0].ID
}

func seedLender(t *testing.T, r *Repo, name string) uint {
	t.Helper()
	le, err := r.CreateLender(context.Background(), name)
	if err != nil {
		t.Fatalf("seed lender: %v", err)
	}
	return le.ID
}

func mustAvailable(t *testing.T, r *Repo, itemID uint) int {
	t.Helper()
	a, err := r.ItemAvailability(context.Background(), itemID)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	return a
}
