package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shoply-api/internal/constants"
	"github.com/shoply-api/internal/models"
	"github.com/shoply-api/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T, name string) (*OrderService, *gorm.DB) {
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
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	svc := NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewCartRepository(db),
		repository.NewInventoryRepository(db),
		nil,
	)
	return svc, db
}

// createStockedProduct 创建带库存记录的商品；stock < 0 表示不建库存记录
func createStockedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) *models.Product {
	t.Helper()
	product := createTestProduct(t, db, name, price, true)
	if stock >= 0 {
		inventory := models.Inventory{ProductID: product.ID, Quantity: stock}
		if err := db.Create(&inventory).Error; err != nil {
			t.Fatalf("create inventory failed: %v", err)
		}
	}
	return product
}

func seedCart(t *testing.T, db *gorm.DB, userID uint, lines map[uint]int, prices map[uint]float64) {
	t.Helper()
	cart := models.Cart{UserID: userID}
	total := models.NewMoneyFromInt(0)
	for productID, quantity := range lines {
		unitPrice := models.NewMoneyFromDecimal(decimal.NewFromFloat(prices[productID]))
		item := models.CartItem{
			ProductID: productID,
			Quantity:  quantity,
			UnitPrice: unitPrice,
			Subtotal:  unitPrice.Mul(quantity),
		}
		total = total.Add(item.Subtotal)
		cart.Items = append(cart.Items, item)
	}
	cart.TotalPrice = total
	if err := db.Create(&cart).Error; err != nil {
		t.Fatalf("seed cart failed: %v", err)
	}
}

func stockOf(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()
	var inventory models.Inventory
	if err := db.Where("product_id = ?", productID).First(&inventory).Error; err != nil {
		t.Fatalf("read inventory failed: %v", err)
	}
	return inventory.Quantity
}

func TestCreateOrderConvertsCartAndDecrementsStock(t *testing.T) {
	svc, db := setupOrderServiceTest(t, "order_service_create")
	product := createStockedProduct(t, db, "Wireless Earbuds", 10.00, 10)
	seedCart(t, db, 7, map[uint]int{product.ID: 3}, map[uint]float64{product.ID: 10.00})

	order, err := svc.CreateOrder(7)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", order.Status)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 3 {
		t.Fatalf("expected single item qty 3, got %+v", order.Items)
	}
	assertMoney(t, order.TotalPrice, "30.00", "order total")
	if stock := stockOf(t, db, product.ID); stock != 7 {
		t.Fatalf("expected stock 7, got %d", stock)
	}

	// 结账后购物车被清空
	var count int64
	db.Model(&models.Cart{}).Where("user_id = ?", 7).Count(&count)
	if count != 0 {
		t.Fatalf("cart must be deleted after checkout")
	}
}

func TestCreateOrderClampsOnShortage(t *testing.T) {
	svc, db := setupOrderServiceTest(t, "order_service_clamp")
	product := createStockedProduct(t, db, "Smart Kettle", 4.00, 5)
	seedCart(t, db, 7, map[uint]int{product.ID: 8}, map[uint]float64{product.ID: 4.00})

	order, err := svc.CreateOrder(7)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.Items[0].Quantity != 5 {
		t.Fatalf("expected clamped qty 5, got %d", order.Items[0].Quantity)
	}
	assertMoney(t, order.TotalPrice, "20.00", "clamped total")
	if stock := stockOf(t, db, product.ID); stock != 0 {
		t.Fatalf("expected stock 0, got %d", stock)
	}
}

func TestCreateOrderMissingInventoryYieldsZeroLine(t *testing.T) {
	svc, db := setupOrderServiceTest(t, "order_service_missing_inventory")
	product := createStockedProduct(t, db, "Phantom Item", 4.00, -1)
	seedCart(t, db, 7, map[uint]int{product.ID: 2}, map[uint]float64{product.ID: 4.00})

	order, err := svc.CreateOrder(7)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 0 {
		t.Fatalf("expected kept item with qty 0, got %+v", order.Items)
	}
	assertMoney(t, order.TotalPrice, "0.00", "total")
}

func TestCreateOrderWithoutCart(t *testing.T) {
	svc, _ := setupOrderServiceTest(t, "order_service_no_cart")

	if _, err := svc.CreateOrder(7); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
}

func TestEditOrderItemDownRestocksDifference(t *testing.T) {
	svc, db := setupOrderServiceTest(t, "order_service_edit_down")
	product := createStockedProduct(t, db, "Desk Lamp", 10.00, 10)
	seedCart(t, db, 7, map[uint]int{product.ID: 3}, map[uint]float64{product.ID: 10.00})

	order, err := svc.CreateOrder(7)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	order, err = svc.EditOrderItem(order.ID, order.Items[0].ID, 1)
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if order.Items[0].Quantity != 1 {
		t.Fatalf("expected qty 1, got %d", order.Items[0].Quantity)
	}
	assertMoney(t, order.TotalPrice, "10.00", "total after edit")
	if stock := stockOf(t, db, product.ID); stock != 9 {
		t.Fatalf("expected stock 9 after restock, got %d", stock)
	}
}

func TestEditOrderItemUpClampsToAvailable(t *testing.T) {
	svc, db := setupOrderServiceTest(t, "order_service_edit_up")
	product := createStockedProduct(t, db, "Desk Lamp", 10.00, 5)
	seedCart(t, db, 7, map[uint]int{product.ID: 3}, map[uint]float64{product.ID: 10.00})

	order, err := svc.CreateOrder(7)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if stock := stockOf(t, db, product.ID); stock != 2 {
		t.Fatalf("expected stock 2 after checkout, got %d", stock)
	}

	// 回补 3 后可用 5，请求 10 收敛到 5
	order, err = svc.EditOrderItem(order.ID, order.Items[0].ID, 10)
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if order.Items[0].Quantity != 5 {
		t.Fatalf("expected clamped qty 5, got %d", order.Items[0].Quantity)
	}
	assertMoney(t, order.TotalPrice, "50.00", "total after clamp")
	if stock := stockOf(t, db, product.ID); stock != 0 {
		t.Fatalf("expected stock 0, got %d", stock)
	}
}

func TestEditOrderItemErrors(t *testing.T) {
	svc, db := setupOrderServiceTest(t, "order_service_edit_errors")
	product := createStockedProduct(t, db, "Desk Lamp", 10.00, 10)
	seedCart(t, db, 7, map[uint]int{product.ID: 1}, map[uint]float64{product.ID: 10.00})

	order, err := svc.CreateOrder(7)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := svc.EditOrderItem(order.ID, order.Items[0].ID, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := svc.EditOrderItem(order.ID, 999, 1); !errors.Is(err, ErrLineItemNotFound) {
		t.Fatalf("expected ErrLineItemNotFound, got %v", err)
	}
	if _, err := svc.EditOrderItem(999, order.Items[0].ID, 1); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestRemoveOrderItemRestocksAndRecomputes(t *testing.T) {
	svc, db := setupOrderServiceTest(t, "order_service_remove")
	first := createStockedProduct(t, db, "Desk Lamp", 10.00, 10)
	second := createStockedProduct(t, db, "Notebook", 3.00, 10)
	seedCart(t, db, 7,
		map[uint]int{first.ID: 2, second.ID: 4},
		map[uint]float64{first.ID: 10.00, second.ID: 3.00})

	order, err := svc.CreateOrder(7)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	var firstItemID uint
	for _, item := range order.Items {
		if item.ProductID == first.ID {
			firstItemID = item.ID
		}
	}

	order, deleted, err := svc.RemoveOrderItem(order.ID, firstItemID)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if deleted {
		t.Fatalf("order must survive while items remain")
	}
	if len(order.Items) != 1 || order.Items[0].ProductID != second.ID {
		t.Fatalf("expected only second item, got %+v", order.Items)
	}
	assertMoney(t, order.TotalPrice, "12.00", "total after remove")
	if stock := stockOf(t, db, first.ID); stock != 10 {
		t.Fatalf("expected stock restored to 10, got %d", stock)
	}
}

func TestRemoveLastOrderItemDeletesOrder(t *testing.T) {
	svc, db := setupOrderServiceTest(t, "order_service_remove_last")
	product := createStockedProduct(t, db, "Desk Lamp", 10.00, 10)
	seedCart(t, db, 7, map[uint]int{product.ID: 2}, map[uint]float64{product.ID: 10.00})

	order, err := svc.CreateOrder(7)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	result, deleted, err := svc.RemoveOrderItem(order.ID, order.Items[0].ID)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if !deleted || result != nil {
		t.Fatalf("expected order deleted, deleted=%v order=%+v", deleted, result)
	}
	if _, err := svc.GetByID(order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
	if stock := stockOf(t, db, product.ID); stock != 10 {
		t.Fatalf("expected stock restored to 10, got %d", stock)
	}
}

func TestDeleteOrderRestocksAllItems(t *testing.T) {
	svc, db := setupOrderServiceTest(t, "order_service_delete")
	first := createStockedProduct(t, db, "Desk Lamp", 10.00, 10)
	second := createStockedProduct(t, db, "Notebook", 3.00, 6)
	seedCart(t, db, 7,
		map[uint]int{first.ID: 2, second.ID: 4},
		map[uint]float64{first.ID: 10.00, second.ID: 3.00})

	order, err := svc.CreateOrder(7)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if err := svc.DeleteOrder(order.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if stock := stockOf(t, db, first.ID); stock != 10 {
		t.Fatalf("expected first stock restored to 10, got %d", stock)
	}
	if stock := stockOf(t, db, second.ID); stock != 6 {
		t.Fatalf("expected second stock restored to 6, got %d", stock)
	}

	// 重复删除
	if err := svc.DeleteOrder(order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound on second delete, got %v", err)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	svc, db := setupOrderServiceTest(t, "order_service_status")
	product := createStockedProduct(t, db, "Desk Lamp", 10.00, 10)
	seedCart(t, db, 7, map[uint]int{product.ID: 1}, map[uint]float64{product.ID: 10.00})

	order, err := svc.CreateOrder(7)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	updated, err := svc.UpdateStatus(order.ID, constants.OrderStatusFulfilled)
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if updated.Status != constants.OrderStatusFulfilled {
		t.Fatalf("expected fulfilled, got %s", updated.Status)
	}

	if _, err := svc.UpdateStatus(order.ID, "shipped"); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid, got %v", err)
	}
	if _, err := svc.UpdateStatus(999, constants.OrderStatusCancelled); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
