package models

import "time"

// Cart 购物车表
// 每个用户至多一个进行中的购物车；首次加购时惰性创建，结算成订单后删除。
type Cart struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                     // 主键
	UserID     uint      `gorm:"uniqueIndex;not null" json:"user_id"`                      // 用户ID
	TotalPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"` // 总价（派生值，每次变更后整额重算）
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt  time.Time `gorm:"index" json:"updated_at"`                                  // 更新时间

	Items []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"` // 行项目
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// CartItem 购物车行项目
// 单价在加购时快照，商品后续调价不回写。
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                    // 主键
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_product" json:"cart_id"`    // 购物车ID
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_product" json:"product_id"` // 商品ID
	Quantity  int       `gorm:"not null" json:"quantity"`                                // 数量
	UnitPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"` // 单价快照
	Subtotal  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`   // 小计 = 数量 × 单价
	CreatedAt time.Time `json:"created_at"`                                              // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                              // 更新时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
