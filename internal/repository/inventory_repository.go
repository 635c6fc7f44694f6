package repository

import (
	"errors"

	"github.com/shoply-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInventoryMissing 商品无库存记录
var ErrInventoryMissing = errors.New("inventory record missing")

// InventoryRepository 库存数据访问接口
// 库存是唯一跨聚合共享的可变资源，所有扣减/回补都必须经过这里，
// 调用方不允许自行读-改-写 quantity。
type InventoryRepository interface {
	GetByProductID(productID uint) (*models.Inventory, error)
	// AllocateUpTo 尽量分配 requested 件库存：足量时整额扣减，
	// 不足时钳制到当前余量并把库存清零，返回实际分配数。
	AllocateUpTo(productID uint, requested int) (int, error)
	// Restock 回补库存（订单行编辑/移除/删除的补偿动作）
	Restock(productID uint, quantity int) error
	SetQuantity(productID uint, quantity int) error
	WithTx(tx *gorm.DB) InventoryRepository
}

// GormInventoryRepository GORM 实现
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository 创建库存仓库
func NewInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// WithTx 绑定事务
func (r *GormInventoryRepository) WithTx(tx *gorm.DB) InventoryRepository {
	if tx == nil {
		return r
	}
	return &GormInventoryRepository{db: tx}
}

// GetByProductID 按商品获取库存记录
func (r *GormInventoryRepository) GetByProductID(productID uint) (*models.Inventory, error) {
	var inventory models.Inventory
	if err := r.db.Where("product_id = ?", productID).First(&inventory).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &inventory, nil
}

// AllocateUpTo 按需分配库存，不足时钳制
// 先走一条条件 UPDATE（quantity >= requested 时原子扣减），避免读-改-写竞争；
// 条件不满足再退到行锁路径读取余量并清零。
func (r *GormInventoryRepository) AllocateUpTo(productID uint, requested int) (int, error) {
	if productID == 0 || requested <= 0 {
		return 0, errors.New("invalid inventory allocate params")
	}

	result := r.db.Model(&models.Inventory{}).
		Where("product_id = ? AND quantity >= ?", productID, requested).
		Update("quantity", gorm.Expr("quantity - ?", requested))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		return requested, nil
	}

	// 钳制路径：条件更新未命中（余量不足或记录不存在）。
	// 加行锁重读余量再扣减；期间可能有并发回补提交，锁下余量可能
	// 反而够了，所以扣减量必须重新钳制，绝不超过 requested。
	var inventory models.Inventory
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ?", productID).
		First(&inventory).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrInventoryMissing
		}
		return 0, err
	}

	allocated := capAllocation(requested, inventory.Quantity)
	if allocated <= 0 {
		return 0, nil
	}
	if err := r.db.Model(&models.Inventory{}).
		Where("id = ?", inventory.ID).
		Update("quantity", gorm.Expr("quantity - ?", allocated)).Error; err != nil {
		return 0, err
	}
	return allocated, nil
}

// capAllocation 实际扣减量：最多 requested，最多 available，不为负
func capAllocation(requested, available int) int {
	if available <= 0 {
		return 0
	}
	if available < requested {
		return available
	}
	return requested
}

// Restock 回补库存
func (r *GormInventoryRepository) Restock(productID uint, quantity int) error {
	if productID == 0 {
		return errors.New("invalid inventory restock params")
	}
	if quantity <= 0 {
		// 行项目可能已被钳制到 0，此时没有可回补的量
		return nil
	}
	result := r.db.Model(&models.Inventory{}).
		Where("product_id = ?", productID).
		Update("quantity", gorm.Expr("quantity + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInventoryMissing
	}
	return nil
}

// SetQuantity 直接设置库存量（管理端补货）
func (r *GormInventoryRepository) SetQuantity(productID uint, quantity int) error {
	if productID == 0 || quantity < 0 {
		return errors.New("invalid inventory set params")
	}
	result := r.db.Model(&models.Inventory{}).
		Where("product_id = ?", productID).
		Update("quantity", quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInventoryMissing
	}
	return nil
}
