package service

import (
	"strings"

	"github.com/shoply-api/internal/constants"
	"github.com/shoply-api/internal/models"
	"github.com/shoply-api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductService 商品目录服务
type ProductService struct {
	productRepo   repository.ProductRepository
	categoryRepo  repository.CategoryRepository
	discountRepo  repository.DiscountRepository
	inventoryRepo repository.InventoryRepository
}

// ProductInput 商品创建/更新入参
type ProductInput struct {
	Name        string
	Description string
	Price       models.Money
	Currency    string
	IsActive    *bool
	DiscountID  *uint
	CategoryIDs []uint
	Quantity    *int
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, discountRepo repository.DiscountRepository, inventoryRepo repository.InventoryRepository) *ProductService {
	return &ProductService{
		productRepo:   productRepo,
		categoryRepo:  categoryRepo,
		discountRepo:  discountRepo,
		inventoryRepo: inventoryRepo,
	}
}

// List 商品列表
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// GetByID 获取商品
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create 创建商品，名称唯一，可同时建立库存与分类关联
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	count, err := s.productRepo.CountByName(name, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrProductNameTaken
	}
	categories, err := s.resolveCategories(input.CategoryIDs)
	if err != nil {
		return nil, err
	}
	if err := s.validateDiscountID(input.DiscountID); err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "USD"
	}
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	quantity := 0
	if input.Quantity != nil && *input.Quantity > 0 {
		quantity = *input.Quantity
	}

	product := models.Product{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Currency:    currency,
		IsActive:    isActive,
		DiscountID:  input.DiscountID,
		Inventory:   &models.Inventory{Quantity: quantity},
		Categories:  categories,
	}
	if err := s.productRepo.Create(&product); err != nil {
		return nil, err
	}
	return s.GetByID(product.ID)
}

// Update 更新商品基础字段与分类关联
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	count, err := s.productRepo.CountByName(name, &id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrProductNameTaken
	}
	categories, err := s.resolveCategories(input.CategoryIDs)
	if err != nil {
		return nil, err
	}
	if err := s.validateDiscountID(input.DiscountID); err != nil {
		return nil, err
	}

	product.Name = name
	product.Description = strings.TrimSpace(input.Description)
	product.Price = input.Price
	if currency := strings.ToUpper(strings.TrimSpace(input.Currency)); currency != "" {
		product.Currency = currency
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	product.DiscountID = input.DiscountID

	err = s.productRepo.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		if err := productRepo.Update(product); err != nil {
			return err
		}
		if input.CategoryIDs != nil {
			return productRepo.ReplaceCategories(product, categories)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// SetInventory 管理端直接设置商品库存量
func (s *ProductService) SetInventory(productID uint, quantity int) (*models.Product, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if _, err := s.GetByID(productID); err != nil {
		return nil, err
	}
	if err := s.inventoryRepo.SetQuantity(productID, quantity); err != nil {
		return nil, err
	}
	return s.GetByID(productID)
}

// Delete 删除商品
func (s *ProductService) Delete(id uint) error {
	affected, err := s.productRepo.Delete(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *ProductService) resolveCategories(ids []uint) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	categories, err := s.categoryRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(categories) != len(dedupeIDs(ids)) {
		return nil, ErrCategoryNotFound
	}
	return categories, nil
}

func (s *ProductService) validateDiscountID(id *uint) error {
	if id == nil {
		return nil
	}
	discount, err := s.discountRepo.GetByID(*id)
	if err != nil {
		return err
	}
	if discount == nil {
		return ErrDiscountNotFound
	}
	return nil
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// EffectiveUnitPrice 计算商品当前成交单价
// 挂有启用折扣时按百分比减价，结果保留两位小数；否则为原价。
func EffectiveUnitPrice(product *models.Product) models.Money {
	if product.Discount == nil || !product.Discount.IsActive {
		return product.Price
	}
	percent := product.Discount.Percent
	if percent <= 0 || percent > constants.MaxDiscountPercent {
		return product.Price
	}
	factor := decimal.NewFromInt(int64(constants.MaxDiscountPercent - percent)).
		Div(decimal.NewFromInt(int64(constants.MaxDiscountPercent)))
	return models.NewMoneyFromDecimal(product.Price.Decimal.Mul(factor))
}
