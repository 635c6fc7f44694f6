package service

import (
	"strings"

	"github.com/shoply-api/internal/constants"
	"github.com/shoply-api/internal/models"
	"github.com/shoply-api/internal/repository"
)

// DiscountService 折扣服务
// 折扣是可复用的百分比减价，商品通过外键挂接；只有启用中的折扣
// 才会参与成交价计算。
type DiscountService struct {
	discountRepo repository.DiscountRepository
}

// DiscountInput 折扣创建/更新入参
type DiscountInput struct {
	Name        string
	Description string
	Percent     int
	IsActive    *bool
}

// NewDiscountService 创建折扣服务
func NewDiscountService(discountRepo repository.DiscountRepository) *DiscountService {
	return &DiscountService{discountRepo: discountRepo}
}

// List 折扣列表
func (s *DiscountService) List(page, pageSize int) ([]models.Discount, int64, error) {
	return s.discountRepo.List(page, pageSize)
}

// GetByID 获取折扣
func (s *DiscountService) GetByID(id uint) (*models.Discount, error) {
	discount, err := s.discountRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if discount == nil {
		return nil, ErrDiscountNotFound
	}
	return discount, nil
}

// Create 创建折扣，名称唯一，百分比必须落在 (0, 100]
func (s *DiscountService) Create(input DiscountInput) (*models.Discount, error) {
	if input.Percent <= 0 || input.Percent > constants.MaxDiscountPercent {
		return nil, ErrDiscountInvalid
	}
	name := strings.TrimSpace(input.Name)
	count, err := s.discountRepo.CountByName(name, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDiscountNameTaken
	}
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	discount := models.Discount{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Percent:     input.Percent,
		IsActive:    isActive,
	}
	if err := s.discountRepo.Create(&discount); err != nil {
		return nil, err
	}
	return &discount, nil
}

// Update 更新折扣
func (s *DiscountService) Update(id uint, input DiscountInput) (*models.Discount, error) {
	if input.Percent <= 0 || input.Percent > constants.MaxDiscountPercent {
		return nil, ErrDiscountInvalid
	}
	discount, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	count, err := s.discountRepo.CountByName(name, &id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDiscountNameTaken
	}
	discount.Name = name
	discount.Description = strings.TrimSpace(input.Description)
	discount.Percent = input.Percent
	if input.IsActive != nil {
		discount.IsActive = *input.IsActive
	}
	if err := s.discountRepo.Update(discount); err != nil {
		return nil, err
	}
	return discount, nil
}

// Delete 删除折扣
func (s *DiscountService) Delete(id uint) error {
	affected, err := s.discountRepo.Delete(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrDiscountNotFound
	}
	return nil
}
