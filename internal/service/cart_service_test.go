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

func setupCartServiceTest(t *testing.T, name string) (*CartService, *gorm.DB) {
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
		&models.Cart{},
		&models.CartItem{},
	)
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db), nil, time.Hour)
	return svc, db
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, price float64, active bool) *models.Product {
	t.Helper()
	product := models.Product{
		Name:     name,
		Price:    models.NewMoneyFromDecimal(decimal.NewFromFloat(price)),
		Currency: "USD",
		IsActive: active,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return &product
}

func assertMoney(t *testing.T, got models.Money, want string, label string) {
	t.Helper()
	expected, err := decimal.NewFromString(want)
	if err != nil {
		t.Fatalf("bad expected amount %q: %v", want, err)
	}
	if !got.Decimal.Equal(expected) {
		t.Fatalf("%s: expected %s, got %s", label, want, got.Decimal.String())
	}
}

func TestAddLineItemCreatesCartWithSnapshot(t *testing.T) {
	svc, db := setupCartServiceTest(t, "cart_service_add")
	product := createTestProduct(t, db, "Wireless Earbuds", 59.90, true)

	cart, err := svc.AddLineItem(7, product.ID, 2)
	if err != nil {
		t.Fatalf("add line item failed: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(cart.Items))
	}
	assertMoney(t, cart.Items[0].UnitPrice, "59.90", "unit price")
	assertMoney(t, cart.Items[0].Subtotal, "119.80", "subtotal")
	assertMoney(t, cart.TotalPrice, "119.80", "total")
}

func TestAddLineItemMergeKeepsPriceSnapshot(t *testing.T) {
	svc, db := setupCartServiceTest(t, "cart_service_merge")
	product := createTestProduct(t, db, "Smart Kettle", 39.00, true)

	if _, err := svc.AddLineItem(7, product.ID, 1); err != nil {
		t.Fatalf("first add failed: %v", err)
	}

	// 二次加购前商品调价，已有行项目仍沿用首次加购时的快照价
	err := db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("price", models.NewMoneyFromDecimal(decimal.NewFromFloat(49.00))).Error
	if err != nil {
		t.Fatalf("update price failed: %v", err)
	}

	cart, err := svc.AddLineItem(7, product.ID, 2)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected merged single item, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 3 {
		t.Fatalf("expected merged quantity 3, got %d", cart.Items[0].Quantity)
	}
	assertMoney(t, cart.Items[0].UnitPrice, "39.00", "unit price snapshot")
	assertMoney(t, cart.Items[0].Subtotal, "117.00", "subtotal")
	assertMoney(t, cart.TotalPrice, "117.00", "total")
}

func TestAddLineItemDiscountedSnapshot(t *testing.T) {
	svc, db := setupCartServiceTest(t, "cart_service_discount")
	discount := models.Discount{Name: "Launch Week", Percent: 10, IsActive: true}
	if err := db.Create(&discount).Error; err != nil {
		t.Fatalf("create discount failed: %v", err)
	}
	product := createTestProduct(t, db, "USB-C Cable 2m", 10.00, true)
	err := db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("discount_id", discount.ID).Error
	if err != nil {
		t.Fatalf("attach discount failed: %v", err)
	}

	cart, err := svc.AddLineItem(7, product.ID, 2)
	if err != nil {
		t.Fatalf("add line item failed: %v", err)
	}
	assertMoney(t, cart.Items[0].UnitPrice, "9.00", "discounted unit price")
	assertMoney(t, cart.TotalPrice, "18.00", "total")
}

func TestAddLineItemValidation(t *testing.T) {
	svc, db := setupCartServiceTest(t, "cart_service_validation")
	inactive := createTestProduct(t, db, "Retired Gadget", 5.00, false)

	if _, err := svc.AddLineItem(7, inactive.ID, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := svc.AddLineItem(7, 999, 1); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if _, err := svc.AddLineItem(7, inactive.ID, 1); !errors.Is(err, ErrProductInactive) {
		t.Fatalf("expected ErrProductInactive, got %v", err)
	}
}

func TestEditLineItemSetsAbsoluteQuantity(t *testing.T) {
	svc, db := setupCartServiceTest(t, "cart_service_edit")
	first := createTestProduct(t, db, "Desk Lamp", 20.00, true)
	second := createTestProduct(t, db, "Notebook", 3.50, true)

	if _, err := svc.AddLineItem(7, first.ID, 2); err != nil {
		t.Fatalf("add first failed: %v", err)
	}
	if _, err := svc.AddLineItem(7, second.ID, 4); err != nil {
		t.Fatalf("add second failed: %v", err)
	}

	cart, err := svc.EditLineItem(7, first.ID, 5)
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	item := findCartItem(cart, first.ID)
	if item == nil || item.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %+v", item)
	}
	// 总价 = 5×20.00 + 4×3.50
	assertMoney(t, cart.TotalPrice, "114.00", "total after edit")
}

func TestEditLineItemErrors(t *testing.T) {
	svc, db := setupCartServiceTest(t, "cart_service_edit_errors")
	product := createTestProduct(t, db, "Desk Lamp", 20.00, true)

	if _, err := svc.EditLineItem(7, product.ID, 1); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
	if _, err := svc.AddLineItem(7, product.ID, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := svc.EditLineItem(7, 999, 1); !errors.Is(err, ErrLineItemNotFound) {
		t.Fatalf("expected ErrLineItemNotFound, got %v", err)
	}
	if _, err := svc.EditLineItem(7, product.ID, -1); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestRemoveLineItemRecomputesTotal(t *testing.T) {
	svc, db := setupCartServiceTest(t, "cart_service_remove")
	first := createTestProduct(t, db, "Desk Lamp", 20.00, true)
	second := createTestProduct(t, db, "Notebook", 3.50, true)

	if _, err := svc.AddLineItem(7, first.ID, 2); err != nil {
		t.Fatalf("add first failed: %v", err)
	}
	if _, err := svc.AddLineItem(7, second.ID, 4); err != nil {
		t.Fatalf("add second failed: %v", err)
	}

	cart, deleted, err := svc.RemoveLineItem(7, first.ID)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if deleted {
		t.Fatalf("cart must survive while items remain")
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 remaining item, got %d", len(cart.Items))
	}
	assertMoney(t, cart.TotalPrice, "14.00", "total after remove")
}

func TestRemoveLastLineItemDeletesCart(t *testing.T) {
	svc, db := setupCartServiceTest(t, "cart_service_remove_last")
	product := createTestProduct(t, db, "Desk Lamp", 20.00, true)

	if _, err := svc.AddLineItem(7, product.ID, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	cart, deleted, err := svc.RemoveLineItem(7, product.ID)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if !deleted || cart != nil {
		t.Fatalf("expected cart to be deleted, deleted=%v cart=%+v", deleted, cart)
	}
	if _, err := svc.GetByUser(7); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound after delete, got %v", err)
	}

	if _, _, err := svc.RemoveLineItem(7, product.ID); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound on second remove, got %v", err)
	}
}

func TestPurgeIfUntouched(t *testing.T) {
	svc, db := setupCartServiceTest(t, "cart_service_purge")
	product := createTestProduct(t, db, "Desk Lamp", 20.00, true)

	if _, err := svc.AddLineItem(7, product.ID, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	// 入队之后购物车又被动过：跳过清理
	purged, err := svc.PurgeIfUntouched(7, time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("purge check failed: %v", err)
	}
	if purged {
		t.Fatalf("active cart must not be purged")
	}

	purged, err = svc.PurgeIfUntouched(7, time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if !purged {
		t.Fatalf("stale cart must be purged")
	}
	if _, err := svc.GetByUser(7); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound after purge, got %v", err)
	}

	// 购物车已不存在时清理是空操作
	purged, err = svc.PurgeIfUntouched(7, time.Now())
	if err != nil || purged {
		t.Fatalf("expected no-op purge, purged=%v err=%v", purged, err)
	}
}
