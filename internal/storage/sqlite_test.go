package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/toranj-io/daftar/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

// Helper function to create test records.
func createTestRecords(count int) []model.BudgetRecord {
	records := make([]model.BudgetRecord, count)
	for i := 0; i < count; i++ {
		records[i] = model.BudgetRecord{
			SubProjectCode:      fmt.Sprintf("SP-%03d", i+1),
			ContractTitle:       fmt.Sprintf("Contract %d", i+1),
			ContractDate:        "2024-08-28",
			Contractor:          fmt.Sprintf("Contractor %d", (i%3)+1),
			TotalContractAmount: model.Dec(decimal.NewFromInt(int64(i+1) * 1000)),
		}
	}
	return records
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	if _, err := NewSQLiteStorage(""); err == nil {
		t.Error("expected error for empty database path")
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	// Running migrations a second time must be a no-op.
	if err := store.Migrate(context.Background()); err != nil {
		t.Errorf("second Migrate failed: %v", err)
	}
}

func TestTransaction_RollbackDiscardsWrites(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	if err := tx.AddRecords(ctx, createTestRecords(3)); err != nil {
		t.Fatalf("AddRecords: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}

	all, err := store.GetAllRecords(ctx)
	if err != nil {
		t.Fatalf("GetAllRecords: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected empty ledger after rollback, got %d records", len(all))
	}
}

func TestTransaction_CommitAppliesWrites(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	if err := tx.AddRecords(ctx, createTestRecords(3)); err != nil {
		t.Fatalf("AddRecords: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	all, err := store.GetAllRecords(ctx)
	if err != nil {
		t.Fatalf("GetAllRecords: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 records after commit, got %d", len(all))
	}
}
