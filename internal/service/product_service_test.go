package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shoply-api/internal/models"
	"github.com/shoply-api/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T, name string) (*ProductService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	err = db.AutoMigrate(
		&models.Product{},
		&models.Inventory{},
		&models.Discount{},
		&models.Category{},
	)
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	svc := NewProductService(
		repository.NewProductRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewDiscountRepository(db),
		repository.NewInventoryRepository(db),
	)
	return svc, db
}

func moneyFromFloat(amount float64) models.Money {
	return models.NewMoneyFromDecimal(decimal.NewFromFloat(amount))
}

func TestEffectiveUnitPrice(t *testing.T) {
	product := &models.Product{Price: moneyFromFloat(59.90)}
	assertMoney(t, EffectiveUnitPrice(product), "59.90", "no discount")

	product.Discount = &models.Discount{Percent: 10, IsActive: true}
	assertMoney(t, EffectiveUnitPrice(product), "53.91", "10 percent off")

	product.Discount = &models.Discount{Percent: 10, IsActive: false}
	assertMoney(t, EffectiveUnitPrice(product), "59.90", "inactive discount")

	product.Discount = &models.Discount{Percent: 0, IsActive: true}
	assertMoney(t, EffectiveUnitPrice(product), "59.90", "zero percent")

	product.Discount = &models.Discount{Percent: 120, IsActive: true}
	assertMoney(t, EffectiveUnitPrice(product), "59.90", "out of range percent")

	product.Discount = &models.Discount{Percent: 100, IsActive: true}
	assertMoney(t, EffectiveUnitPrice(product), "0.00", "full discount")
}

func TestProductCreate(t *testing.T) {
	svc, db := setupProductServiceTest(t, "product_service_create")
	category := models.Category{Name: "Electronics"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}

	quantity := 12
	product, err := svc.Create(ProductInput{
		Name:        "  Wireless Earbuds  ",
		Price:       moneyFromFloat(59.90),
		CategoryIDs: []uint{category.ID},
		Quantity:    &quantity,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if product.Name != "Wireless Earbuds" {
		t.Fatalf("name must be trimmed, got %q", product.Name)
	}
	if product.Currency != "USD" {
		t.Fatalf("expected default currency USD, got %s", product.Currency)
	}
	if !product.IsActive {
		t.Fatalf("expected active by default")
	}
	if product.Inventory == nil || product.Inventory.Quantity != 12 {
		t.Fatalf("expected inventory 12, got %+v", product.Inventory)
	}
	if len(product.Categories) != 1 {
		t.Fatalf("expected 1 category, got %d", len(product.Categories))
	}

	if _, err := svc.Create(ProductInput{Name: "Wireless Earbuds", Price: moneyFromFloat(1.00)}); !errors.Is(err, ErrProductNameTaken) {
		t.Fatalf("expected ErrProductNameTaken, got %v", err)
	}
	if _, err := svc.Create(ProductInput{Name: "Ghost", Price: moneyFromFloat(1.00), CategoryIDs: []uint{999}}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
	missingDiscount := uint(999)
	if _, err := svc.Create(ProductInput{Name: "Ghost", Price: moneyFromFloat(1.00), DiscountID: &missingDiscount}); !errors.Is(err, ErrDiscountNotFound) {
		t.Fatalf("expected ErrDiscountNotFound, got %v", err)
	}
}

func TestProductSetInventory(t *testing.T) {
	svc, _ := setupProductServiceTest(t, "product_service_inventory")
	product, err := svc.Create(ProductInput{Name: "Smart Kettle", Price: moneyFromFloat(39.00)})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.SetInventory(product.ID, 30)
	if err != nil {
		t.Fatalf("set inventory failed: %v", err)
	}
	if updated.Inventory == nil || updated.Inventory.Quantity != 30 {
		t.Fatalf("expected inventory 30, got %+v", updated.Inventory)
	}

	if _, err := svc.SetInventory(product.ID, -1); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := svc.SetInventory(999, 5); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductDelete(t *testing.T) {
	svc, _ := setupProductServiceTest(t, "product_service_delete")
	product, err := svc.Create(ProductInput{Name: "Desk Lamp", Price: moneyFromFloat(20.00)})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(product.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.GetByID(product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if err := svc.Delete(product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound on second delete, got %v", err)
	}
}
