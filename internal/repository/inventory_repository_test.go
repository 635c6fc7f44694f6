package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shoply-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupInventoryRepositoryTest(t *testing.T) (*GormInventoryRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:inventory_repo_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Inventory{}); err != nil {
		t.Fatalf("migrate inventory failed: %v", err)
	}
	return NewInventoryRepository(db), db
}

func createInventory(t *testing.T, db *gorm.DB, productID uint, quantity int) {
	t.Helper()
	inventory := models.Inventory{ProductID: productID, Quantity: quantity}
	if err := db.Create(&inventory).Error; err != nil {
		t.Fatalf("create inventory failed: %v", err)
	}
}

func mustQuantity(t *testing.T, repo *GormInventoryRepository, productID uint) int {
	t.Helper()
	inventory, err := repo.GetByProductID(productID)
	if err != nil {
		t.Fatalf("get inventory failed: %v", err)
	}
	if inventory == nil {
		t.Fatalf("inventory for product %d not found", productID)
	}
	return inventory.Quantity
}

func TestAllocateUpToFullAllocation(t *testing.T) {
	repo, db := setupInventoryRepositoryTest(t)
	createInventory(t, db, 1, 10)

	allocated, err := repo.AllocateUpTo(1, 3)
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	if allocated != 3 {
		t.Fatalf("expected allocated 3, got %d", allocated)
	}
	if quantity := mustQuantity(t, repo, 1); quantity != 7 {
		t.Fatalf("expected remaining 7, got %d", quantity)
	}
}

func TestAllocateUpToClampsToAvailable(t *testing.T) {
	repo, db := setupInventoryRepositoryTest(t)
	createInventory(t, db, 1, 5)

	allocated, err := repo.AllocateUpTo(1, 8)
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	if allocated != 5 {
		t.Fatalf("expected allocated 5, got %d", allocated)
	}
	if quantity := mustQuantity(t, repo, 1); quantity != 0 {
		t.Fatalf("expected remaining 0, got %d", quantity)
	}
}

func TestAllocateUpToEmptyStock(t *testing.T) {
	repo, db := setupInventoryRepositoryTest(t)
	createInventory(t, db, 1, 0)

	allocated, err := repo.AllocateUpTo(1, 4)
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	if allocated != 0 {
		t.Fatalf("expected allocated 0, got %d", allocated)
	}
	if quantity := mustQuantity(t, repo, 1); quantity != 0 {
		t.Fatalf("expected remaining 0, got %d", quantity)
	}
}

func TestAllocateUpToMissingInventory(t *testing.T) {
	repo, _ := setupInventoryRepositoryTest(t)

	if _, err := repo.AllocateUpTo(99, 1); !errors.Is(err, ErrInventoryMissing) {
		t.Fatalf("expected ErrInventoryMissing, got %v", err)
	}
}

func TestAllocateUpToRejectsInvalidInput(t *testing.T) {
	repo, db := setupInventoryRepositoryTest(t)
	createInventory(t, db, 1, 5)

	if _, err := repo.AllocateUpTo(1, 0); err == nil {
		t.Fatalf("expected error for non-positive request")
	}
	if _, err := repo.AllocateUpTo(0, 1); err == nil {
		t.Fatalf("expected error for zero product id")
	}
	if quantity := mustQuantity(t, repo, 1); quantity != 5 {
		t.Fatalf("stock must be untouched, got %d", quantity)
	}
}

func TestCapAllocationNeverExceedsRequested(t *testing.T) {
	// 行锁下的重读可能看到比条件更新时更多的余量（并发回补已提交），
	// 扣减量仍必须同时以请求量和余量封顶
	if got := capAllocation(5, 10); got != 5 {
		t.Fatalf("surplus stock: expected 5, got %d", got)
	}
	if got := capAllocation(8, 5); got != 5 {
		t.Fatalf("short stock: expected 5, got %d", got)
	}
	if got := capAllocation(3, 3); got != 3 {
		t.Fatalf("exact stock: expected 3, got %d", got)
	}
	if got := capAllocation(3, 0); got != 0 {
		t.Fatalf("empty stock: expected 0, got %d", got)
	}
	if got := capAllocation(3, -1); got != 0 {
		t.Fatalf("negative stock: expected 0, got %d", got)
	}
}

func TestRestockAddsBack(t *testing.T) {
	repo, db := setupInventoryRepositoryTest(t)
	createInventory(t, db, 1, 2)

	if err := repo.Restock(1, 3); err != nil {
		t.Fatalf("restock failed: %v", err)
	}
	if quantity := mustQuantity(t, repo, 1); quantity != 5 {
		t.Fatalf("expected 5 after restock, got %d", quantity)
	}

	// 回补 0（被收敛到 0 的行项目）是合法的空操作
	if err := repo.Restock(1, 0); err != nil {
		t.Fatalf("restock zero must be a no-op: %v", err)
	}
	if quantity := mustQuantity(t, repo, 1); quantity != 5 {
		t.Fatalf("expected 5 after no-op restock, got %d", quantity)
	}
}

func TestRestockMissingInventory(t *testing.T) {
	repo, _ := setupInventoryRepositoryTest(t)

	if err := repo.Restock(42, 3); !errors.Is(err, ErrInventoryMissing) {
		t.Fatalf("expected ErrInventoryMissing, got %v", err)
	}
}
