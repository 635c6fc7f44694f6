package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID         uint           `gorm:"primarykey" json:"id"`                                     // 主键
	UserID     uint           `gorm:"index;not null" json:"user_id"`                            // 用户ID
	Status     string         `gorm:"index;not null;default:'pending'" json:"status"`           // 订单状态（pending/fulfilled/cancelled）
	TotalPrice Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"` // 总价（派生值）
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt  time.Time      `gorm:"index" json:"updated_at"`                                  // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单行项目
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单行项目
type OrderItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                    // 主键
	OrderID   uint      `gorm:"index;not null" json:"order_id"`                          // 订单ID
	ProductID uint      `gorm:"index;not null" json:"product_id"`                        // 商品ID
	Quantity  int       `gorm:"not null" json:"quantity"`                                // 数量（创建时可能被库存钳制）
	UnitPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"` // 单价快照
	Subtotal  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`   // 小计 = 数量 × 单价
	CreatedAt time.Time `json:"created_at"`                                              // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                              // 更新时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
