package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shoply-api/internal/models"
	"github.com/shoply-api/internal/provider"
	"github.com/shoply-api/internal/queue"
	"github.com/shoply-api/internal/repository"
	"github.com/shoply-api/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupConsumerTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_consumer_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	container := &provider.Container{
		ProductRepo: productRepo,
		CartRepo:    cartRepo,
		CartService: service.NewCartService(cartRepo, productRepo, nil, time.Hour),
	}
	return NewConsumer(container), db
}

func seedStaleCart(t *testing.T, db *gorm.DB, userID uint) {
	t.Helper()
	cart := models.Cart{
		UserID: userID,
		Items: []models.CartItem{
			{ProductID: 1, Quantity: 1, UnitPrice: models.NewMoneyFromInt(5), Subtotal: models.NewMoneyFromInt(5)},
		},
		TotalPrice: models.NewMoneyFromInt(5),
	}
	if err := db.Create(&cart).Error; err != nil {
		t.Fatalf("seed cart failed: %v", err)
	}
}

func TestHandleCartExpirePurgesStaleCart(t *testing.T) {
	consumer, db := setupConsumerTest(t)
	seedStaleCart(t, db, 7)

	task, err := queue.NewCartExpireTask(queue.CartExpirePayload{
		UserID:   7,
		IssuedAt: time.Now().Add(time.Minute).Unix(),
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleCartExpire(context.Background(), task); err != nil {
		t.Fatalf("handle cart expire failed: %v", err)
	}

	var count int64
	db.Model(&models.Cart{}).Where("user_id = ?", 7).Count(&count)
	if count != 0 {
		t.Fatalf("stale cart must be purged")
	}
}

func TestHandleCartExpireSkipsTouchedCart(t *testing.T) {
	consumer, db := setupConsumerTest(t)
	seedStaleCart(t, db, 7)

	// 任务入队时间早于购物车最近一次修改：跳过
	task, err := queue.NewCartExpireTask(queue.CartExpirePayload{
		UserID:   7,
		IssuedAt: time.Now().Add(-time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleCartExpire(context.Background(), task); err != nil {
		t.Fatalf("handle cart expire failed: %v", err)
	}

	var count int64
	db.Model(&models.Cart{}).Where("user_id = ?", 7).Count(&count)
	if count != 1 {
		t.Fatalf("touched cart must survive")
	}
}

func TestHandleCartExpireInvalidPayload(t *testing.T) {
	consumer, _ := setupConsumerTest(t)

	task := asynq.NewTask(queue.TaskCartExpire, []byte("not-json"))
	if err := consumer.handleCartExpire(context.Background(), task); err == nil {
		t.Fatalf("expected unmarshal error")
	}

	// user_id 为 0 的任务静默跳过
	task, err := queue.NewCartExpireTask(queue.CartExpirePayload{UserID: 0})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleCartExpire(context.Background(), task); err != nil {
		t.Fatalf("zero user id must be skipped: %v", err)
	}
}

func TestHandleStockDepleted(t *testing.T) {
	consumer, db := setupConsumerTest(t)
	product := models.Product{Name: "Desk Lamp", Price: models.NewMoneyFromInt(20), Currency: "USD", IsActive: true}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	task, err := queue.NewStockDepletedTask(queue.StockDepletedPayload{ProductID: product.ID, OrderID: 3})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleStockDepleted(context.Background(), task); err != nil {
		t.Fatalf("handle stock depleted failed: %v", err)
	}

	// 商品不存在时也不报错，只留日志
	task, err = queue.NewStockDepletedTask(queue.StockDepletedPayload{ProductID: 999, OrderID: 3})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleStockDepleted(context.Background(), task); err != nil {
		t.Fatalf("missing product must be skipped: %v", err)
	}
}
