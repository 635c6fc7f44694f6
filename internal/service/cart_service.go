package service

import (
	"time"

	"github.com/shoply-api/internal/logger"
	"github.com/shoply-api/internal/models"
	"github.com/shoply-api/internal/queue"
	"github.com/shoply-api/internal/repository"

	"gorm.io/gorm"
)

// CartService 购物车服务
// 购物车是每用户一份的可变聚合：行项目在加购时做单价快照，
// 任何变更之后总价都从行项目小计整额重算，不做增量累加。
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	queueClient *queue.Client
	cartTTL     time.Duration
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, queueClient *queue.Client, cartTTL time.Duration) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		queueClient: queueClient,
		cartTTL:     cartTTL,
	}
}

// TTL 购物车缓存/过期清理的 TTL
func (s *CartService) TTL() time.Duration {
	return s.cartTTL
}

// GetByUser 获取用户购物车
func (s *CartService) GetByUser(userID uint) (*models.Cart, error) {
	if userID == 0 {
		return nil, ErrCartNotFound
	}
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	return cart, nil
}

// AddLineItem 加购商品
// 商品已在购物车中时合并数量（增量），否则追加新行项目并快照当前单价；
// 用户还没有购物车时惰性创建。
func (s *CartService) AddLineItem(userID, productID uint, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.IsActive {
		return nil, ErrProductInactive
	}
	unitPrice := EffectiveUnitPrice(product)

	err = s.cartRepo.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		cart, err := cartRepo.GetByUser(userID)
		if err != nil {
			return err
		}
		now := time.Now()
		if cart == nil {
			item := models.CartItem{
				ProductID: productID,
				Quantity:  quantity,
				UnitPrice: unitPrice,
				Subtotal:  unitPrice.Mul(quantity),
				CreatedAt: now,
				UpdatedAt: now,
			}
			newCart := models.Cart{
				UserID:     userID,
				TotalPrice: item.Subtotal,
				Items:      []models.CartItem{item},
			}
			return cartRepo.Create(&newCart)
		}

		item := findCartItem(cart, productID)
		if item == nil {
			item = &models.CartItem{
				CartID:    cart.ID,
				ProductID: productID,
				Quantity:  quantity,
				UnitPrice: unitPrice,
				Subtotal:  unitPrice.Mul(quantity),
				CreatedAt: now,
				UpdatedAt: now,
			}
			cart.Items = append(cart.Items, *item)
			item = &cart.Items[len(cart.Items)-1]
		} else {
			// 合并：数量累加，沿用首次加购时的单价快照
			item.Quantity += quantity
			item.Subtotal = item.UnitPrice.Mul(item.Quantity)
		}
		if err := cartRepo.UpsertItem(item); err != nil {
			return err
		}
		return cartRepo.UpdateTotal(cart.ID, recomputeCartTotal(cart.Items))
	})
	if err != nil {
		return nil, err
	}

	s.scheduleExpiry(userID)
	return s.GetByUser(userID)
}

// EditLineItem 将行项目数量改为给定绝对值
func (s *CartService) EditLineItem(userID, productID uint, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	err := s.cartRepo.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		cart, err := cartRepo.GetByUser(userID)
		if err != nil {
			return err
		}
		if cart == nil {
			return ErrCartNotFound
		}
		item := findCartItem(cart, productID)
		if item == nil {
			return ErrLineItemNotFound
		}
		item.Quantity = quantity
		item.Subtotal = item.UnitPrice.Mul(quantity)
		if err := cartRepo.UpsertItem(item); err != nil {
			return err
		}
		return cartRepo.UpdateTotal(cart.ID, recomputeCartTotal(cart.Items))
	})
	if err != nil {
		return nil, err
	}

	s.scheduleExpiry(userID)
	return s.GetByUser(userID)
}

// RemoveLineItem 移除行项目
// 移除最后一个行项目时连同购物车一并删除，并通过返回值告知调用方
// （调用方据此清理缓存）。
func (s *CartService) RemoveLineItem(userID, productID uint) (*models.Cart, bool, error) {
	var cartDeleted bool
	err := s.cartRepo.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		cart, err := cartRepo.GetByUser(userID)
		if err != nil {
			return err
		}
		if cart == nil {
			return ErrCartNotFound
		}
		affected, err := cartRepo.DeleteItem(cart.ID, productID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrLineItemNotFound
		}
		remaining, err := cartRepo.CountItems(cart.ID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			cartDeleted = true
			return cartRepo.Delete(cart.ID)
		}
		kept := make([]models.CartItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			if item.ProductID != productID {
				kept = append(kept, item)
			}
		}
		return cartRepo.UpdateTotal(cart.ID, recomputeCartTotal(kept))
	})
	if err != nil {
		return nil, false, err
	}
	if cartDeleted {
		return nil, true, nil
	}

	cart, err := s.GetByUser(userID)
	if err != nil {
		return nil, false, err
	}
	return cart, false, nil
}

// PurgeIfUntouched 清理过期购物车
// 仅当购物车自任务入队后未被再次修改时才删除，避免清掉活跃购物车。
func (s *CartService) PurgeIfUntouched(userID uint, issuedAt time.Time) (bool, error) {
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return false, err
	}
	if cart == nil {
		return false, nil
	}
	if cart.UpdatedAt.After(issuedAt) {
		return false, nil
	}
	if err := s.cartRepo.Delete(cart.ID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *CartService) scheduleExpiry(userID uint) {
	if s.queueClient == nil || s.cartTTL <= 0 {
		return
	}
	payload := queue.CartExpirePayload{
		UserID:   userID,
		IssuedAt: time.Now().Unix(),
	}
	if err := s.queueClient.EnqueueCartExpire(payload, s.cartTTL); err != nil {
		logger.Warnw("cart_expire_enqueue_failed", "user_id", userID, "error", err)
	}
}

func findCartItem(cart *models.Cart, productID uint) *models.CartItem {
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			return &cart.Items[i]
		}
	}
	return nil
}

// recomputeCartTotal 从行项目小计整额重算总价
func recomputeCartTotal(items []models.CartItem) models.Money {
	total := models.NewMoneyFromInt(0)
	for _, item := range items {
		total = total.Add(item.Subtotal)
	}
	return total
}
