package models

import (
	"time"

	"gorm.io/gorm"
)

// Discount 折扣表（百分比折扣）
type Discount struct {
	ID          uint           `gorm:"primarykey" json:"id"`                   // 主键
	Name        string         `gorm:"uniqueIndex;not null" json:"name"`       // 折扣名称（唯一）
	Description string         `gorm:"type:text" json:"description"`           // 折扣描述
	Percent     int            `gorm:"not null;default:0" json:"percent"`      // 折扣百分比（0-100）
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"` // 是否生效
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                             // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                         // 软删除时间
}

// TableName 指定表名
func (Discount) TableName() string {
	return "discounts"
}
