package service

import (
	"errors"

	"github.com/shoply-api/internal/constants"
	"github.com/shoply-api/internal/logger"
	"github.com/shoply-api/internal/models"
	"github.com/shoply-api/internal/queue"
	"github.com/shoply-api/internal/repository"

	"gorm.io/gorm"
)

// OrderService 订单服务
// 下单、改单、删单都在同一事务内走库存仓储的原子原语：
// 扣减一律“有多少给多少”（不足时收敛到可用量），补偿一律整额回补。
type OrderService struct {
	orderRepo     repository.OrderRepository
	cartRepo      repository.CartRepository
	inventoryRepo repository.InventoryRepository
	queueClient   *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, inventoryRepo repository.InventoryRepository, queueClient *queue.Client) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		cartRepo:      cartRepo,
		inventoryRepo: inventoryRepo,
		queueClient:   queueClient,
	}
}

// CreateOrder 结账下单
// 把用户购物车整体转成订单：逐行扣减库存，库存不足的行收敛到实际
// 扣到的数量（可能为 0），总价按成交数量重算，最后清空购物车。
func (s *OrderService) CreateOrder(userID uint) (*models.Order, error) {
	var orderID uint
	var depleted []uint

	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		inventoryRepo := s.inventoryRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		cart, err := cartRepo.GetByUser(userID)
		if err != nil {
			return err
		}
		if cart == nil || len(cart.Items) == 0 {
			return ErrCartNotFound
		}

		items := make([]models.OrderItem, 0, len(cart.Items))
		total := models.NewMoneyFromInt(0)
		for _, line := range cart.Items {
			allocated, err := inventoryRepo.AllocateUpTo(line.ProductID, line.Quantity)
			if err != nil {
				if errors.Is(err, repository.ErrInventoryMissing) {
					allocated = 0
				} else {
					return err
				}
			}
			if allocated < line.Quantity {
				depleted = append(depleted, line.ProductID)
			}
			item := models.OrderItem{
				ProductID: line.ProductID,
				Quantity:  allocated,
				UnitPrice: line.UnitPrice,
				Subtotal:  line.UnitPrice.Mul(allocated),
			}
			total = total.Add(item.Subtotal)
			items = append(items, item)
		}

		order := models.Order{
			UserID:     userID,
			Status:     constants.OrderStatusPending,
			TotalPrice: total,
		}
		if err := orderRepo.Create(&order, items); err != nil {
			return err
		}
		orderID = order.ID
		return cartRepo.Delete(cart.ID)
	})
	if err != nil {
		return nil, err
	}

	for _, productID := range depleted {
		s.notifyStockDepleted(productID, orderID)
	}
	return s.GetByID(orderID)
}

// EditOrderItem 修改订单行项目数量
// 先整额回补旧数量再按新数量扣减，库存与在单数量之和保持不变；
// 新数量超出回补后的可用量时同样收敛。
func (s *OrderService) EditOrderItem(orderID, itemID uint, quantity int) (*models.Order, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var depletedProduct uint
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		inventoryRepo := s.inventoryRepo.WithTx(tx)

		order, err := orderRepo.GetByID(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		item := findOrderItem(order, itemID)
		if item == nil {
			return ErrLineItemNotFound
		}

		if err := inventoryRepo.Restock(item.ProductID, item.Quantity); err != nil && !errors.Is(err, repository.ErrInventoryMissing) {
			return err
		}
		allocated, err := inventoryRepo.AllocateUpTo(item.ProductID, quantity)
		if err != nil {
			if errors.Is(err, repository.ErrInventoryMissing) {
				allocated = 0
			} else {
				return err
			}
		}
		if allocated < quantity {
			depletedProduct = item.ProductID
		}

		item.Quantity = allocated
		item.Subtotal = item.UnitPrice.Mul(allocated)
		if err := orderRepo.UpdateItem(item); err != nil {
			return err
		}
		return orderRepo.UpdateTotal(order.ID, recomputeOrderTotal(order.Items))
	})
	if err != nil {
		return nil, err
	}

	if depletedProduct != 0 {
		s.notifyStockDepleted(depletedProduct, orderID)
	}
	return s.GetByID(orderID)
}

// RemoveOrderItem 移除订单行项目并整额回补其库存
// 移除最后一个行项目时连同订单一并删除，通过返回值告知调用方。
func (s *OrderService) RemoveOrderItem(orderID, itemID uint) (*models.Order, bool, error) {
	var orderDeleted bool
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		inventoryRepo := s.inventoryRepo.WithTx(tx)

		order, err := orderRepo.GetByID(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		item := findOrderItem(order, itemID)
		if item == nil {
			return ErrLineItemNotFound
		}

		if err := inventoryRepo.Restock(item.ProductID, item.Quantity); err != nil && !errors.Is(err, repository.ErrInventoryMissing) {
			return err
		}
		affected, err := orderRepo.DeleteItem(item.ID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrLineItemNotFound
		}

		if len(order.Items) <= 1 {
			orderDeleted = true
			affected, err := orderRepo.Delete(order.ID)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrOrderNotFound
			}
			return nil
		}

		kept := make([]models.OrderItem, 0, len(order.Items))
		for _, it := range order.Items {
			if it.ID != item.ID {
				kept = append(kept, it)
			}
		}
		return orderRepo.UpdateTotal(order.ID, recomputeOrderTotal(kept))
	})
	if err != nil {
		return nil, false, err
	}
	if orderDeleted {
		return nil, true, nil
	}

	order, err := s.GetByID(orderID)
	if err != nil {
		return nil, false, err
	}
	return order, false, nil
}

// DeleteOrder 删除订单并整额回补所有行项目的库存
// 订单不存在（含重复删除）返回 ErrOrderNotFound。
func (s *OrderService) DeleteOrder(orderID uint) error {
	return s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		inventoryRepo := s.inventoryRepo.WithTx(tx)

		order, err := orderRepo.GetByID(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		for _, item := range order.Items {
			if err := inventoryRepo.Restock(item.ProductID, item.Quantity); err != nil && !errors.Is(err, repository.ErrInventoryMissing) {
				return err
			}
		}
		affected, err := orderRepo.Delete(order.ID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrOrderNotFound
		}
		return nil
	})
}

// UpdateStatus 更新订单状态
// 状态是直接赋值，不做状态机流转校验。
func (s *OrderService) UpdateStatus(orderID uint, status string) (*models.Order, error) {
	if !constants.IsValidOrderStatus(status) {
		return nil, ErrOrderStatusInvalid
	}
	affected, err := s.orderRepo.UpdateStatus(orderID, status)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrOrderNotFound
	}
	return s.GetByID(orderID)
}

// GetByID 获取订单
func (s *OrderService) GetByID(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetByIDAndUser 获取用户自己的订单
func (s *OrderService) GetByIDAndUser(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// List 订单列表
func (s *OrderService) List(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

func (s *OrderService) notifyStockDepleted(productID, orderID uint) {
	logger.Warnw("order_stock_clamped", "product_id", productID, "order_id", orderID)
	if s.queueClient == nil {
		return
	}
	payload := queue.StockDepletedPayload{ProductID: productID, OrderID: orderID}
	if err := s.queueClient.EnqueueStockDepleted(payload); err != nil {
		logger.Warnw("stock_depleted_enqueue_failed", "product_id", productID, "error", err)
	}
}

func findOrderItem(order *models.Order, itemID uint) *models.OrderItem {
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			return &order.Items[i]
		}
	}
	return nil
}

// recomputeOrderTotal 从行项目小计整额重算总价
// 调用方需保证传入的切片已反映本次变更后的小计。
func recomputeOrderTotal(items []models.OrderItem) models.Money {
	total := models.NewMoneyFromInt(0)
	for _, item := range items {
		total = total.Add(item.Subtotal)
	}
	return total
}
