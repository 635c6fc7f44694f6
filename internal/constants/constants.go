package constants

// 订单状态
const (
	OrderStatusPending   = "pending"
	OrderStatusFulfilled = "fulfilled"
	OrderStatusCancelled = "cancelled"
)

// 队列名称
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型
const (
	TaskCartExpire    = "cart:expire"
	TaskStockDepleted = "inventory:depleted"
)

// 折扣百分比上限
const MaxDiscountPercent = 100

// IsValidOrderStatus 判断订单状态是否合法
func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusFulfilled, OrderStatusCancelled:
		return true
	default:
		return false
	}
}
