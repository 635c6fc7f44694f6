package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                   // 主键
	Name        string         `gorm:"uniqueIndex;not null" json:"name"`                       // 商品名称（唯一）
	Description string         `gorm:"type:text" json:"description"`                           // 商品描述
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`     // 单价
	Currency    string         `gorm:"type:varchar(8);not null;default:'USD'" json:"currency"` // 币种
	IsActive    bool           `gorm:"not null;default:true;index" json:"is_active"`           // 是否上架
	DiscountID  *uint          `gorm:"index" json:"discount_id,omitempty"`                     // 折扣ID
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                                // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                         // 软删除时间

	Inventory  *Inventory `gorm:"foreignKey:ProductID" json:"inventory,omitempty"`          // 库存（一对一）
	Discount   *Discount  `gorm:"foreignKey:DiscountID" json:"discount,omitempty"`          // 折扣
	Categories []Category `gorm:"many2many:product_categories" json:"categories,omitempty"` // 分类
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// Inventory 商品库存表
// 同一商品的库存被所有购物车/订单共享，任何扣减都必须走仓库层的原子原语。
type Inventory struct {
	ID        uint      `gorm:"primarykey" json:"id"`                   // 主键
	ProductID uint      `gorm:"uniqueIndex;not null" json:"product_id"` // 商品ID
	Quantity  int       `gorm:"not null;default:0" json:"quantity"`     // 可用库存（恒非负）
	CreatedAt time.Time `json:"created_at"`                             // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                             // 更新时间
}

// TableName 指定表名
func (Inventory) TableName() string {
	return "inventories"
}
