package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shoply-api/internal/cache"
	"github.com/shoply-api/internal/logger"
	"github.com/shoply-api/internal/provider"
	"github.com/shoply-api/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCartExpire, c.handleCartExpire)
	mux.HandleFunc(queue.TaskStockDepleted, c.handleStockDepleted)
}

// handleCartExpire 清理过期购物车
// 购物车自任务入队后又被修改过时直接跳过，由该次修改入队的新任务接手。
func (c *Consumer) handleCartExpire(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_cart_expire_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CartExpirePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_cart_expire_unmarshal_failed", "error", err)
		return err
	}
	if payload.UserID == 0 {
		logger.Debugw("worker_cart_expire_skip_invalid_payload", "user_id", payload.UserID)
		return nil
	}
	if c.CartService == nil {
		logger.Warnw("worker_cart_expire_skip_cart_service_nil", "user_id", payload.UserID)
		return nil
	}
	purged, err := c.CartService.PurgeIfUntouched(payload.UserID, time.Unix(payload.IssuedAt, 0))
	if err != nil {
		logger.Warnw("worker_cart_expire_failed", "user_id", payload.UserID, "error", err)
		return err
	}
	if !purged {
		logger.Debugw("worker_cart_expire_skip_cart_touched", "user_id", payload.UserID)
		return nil
	}
	if err := cache.Del(ctx, cache.CartKey(payload.UserID)); err != nil {
		logger.Warnw("worker_cart_expire_cache_del_failed", "user_id", payload.UserID, "error", err)
	}
	logger.Infow("worker_cart_expire_purged", "user_id", payload.UserID)
	return nil
}

// handleStockDepleted 库存不足告警
// 当前只落结构化日志，供运营侧告警采集。
func (c *Consumer) handleStockDepleted(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_stock_depleted_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.StockDepletedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_stock_depleted_unmarshal_failed", "error", err)
		return err
	}
	if payload.ProductID == 0 {
		logger.Debugw("worker_stock_depleted_skip_invalid_payload", "product_id", payload.ProductID)
		return nil
	}
	product, err := c.ProductRepo.GetByID(payload.ProductID)
	if err != nil {
		logger.Warnw("worker_stock_depleted_fetch_product_failed", "product_id", payload.ProductID, "error", err)
		return err
	}
	if product == nil {
		logger.Debugw("worker_stock_depleted_skip_product_not_found", "product_id", payload.ProductID)
		return nil
	}
	quantity := 0
	if product.Inventory != nil {
		quantity = product.Inventory.Quantity
	}
	logger.Warnw("worker_stock_depleted_alert",
		"product_id", product.ID,
		"product_name", product.Name,
		"order_id", payload.OrderID,
		"remaining_quantity", quantity,
	)
	return nil
}
