package queue

import (
	"encoding/json"

	"github.com/shoply-api/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCartExpire 购物车过期清理任务
	TaskCartExpire = constants.TaskCartExpire
	// TaskStockDepleted 库存不足告警任务
	TaskStockDepleted = constants.TaskStockDepleted
)

// CartExpirePayload 购物车过期清理任务载荷
// IssuedAt 记录入队时刻，消费侧据此判断购物车是否又被修改过。
type CartExpirePayload struct {
	UserID   uint  `json:"user_id"`
	IssuedAt int64 `json:"issued_at"`
}

// StockDepletedPayload 库存不足告警任务载荷
type StockDepletedPayload struct {
	ProductID uint `json:"product_id"`
	OrderID   uint `json:"order_id"`
}

// NewCartExpireTask 创建购物车过期清理任务
func NewCartExpireTask(payload CartExpirePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartExpire, body), nil
}

// NewStockDepletedTask 创建库存不足告警任务
func NewStockDepletedTask(payload StockDepletedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStockDepleted, body), nil
}
