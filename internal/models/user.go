package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`              // 主键
	Email        string         `gorm:"uniqueIndex;not null" json:"email"` // 邮箱
	PasswordHash string         `gorm:"not null" json:"-"`                 // 密码哈希（不返回给前端）
	DisplayName  string         `gorm:"default:''" json:"display_name"`    // 昵称
	LastLoginAt  *time.Time     `json:"last_login_at"`                     // 最后登录时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`           // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`           // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                    // 软删除时间

	Address *Address `gorm:"foreignKey:UserID" json:"address,omitempty"` // 收货地址（一对一）
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// Address 用户收货地址
type Address struct {
	ID        uint      `gorm:"primarykey" json:"id"`             // 主键
	UserID    uint      `gorm:"uniqueIndex;not null" json:"-"`    // 用户ID
	Street    string    `gorm:"type:varchar(200)" json:"street"`  // 街道
	City      string    `gorm:"type:varchar(100)" json:"city"`    // 城市
	Country   string    `gorm:"type:varchar(100)" json:"country"` // 国家
	CreatedAt time.Time `json:"created_at"`                       // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                       // 更新时间
}

// TableName 指定表名
func (Address) TableName() string {
	return "addresses"
}
