package service

import "errors"

// 业务错误定义
// handler 侧通过 errors.Is 将这些错误映射为接口响应码。
var (
	// 通用
	ErrNotFound        = errors.New("record not found")
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// 认证
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrEmailTaken         = errors.New("email already registered")

	// 目录
	ErrProductNotFound   = errors.New("product not found")
	ErrProductNameTaken  = errors.New("product name already exists")
	ErrProductInactive   = errors.New("product not available")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryNameTaken = errors.New("category name already exists")
	ErrDiscountNotFound  = errors.New("discount not found")
	ErrDiscountNameTaken = errors.New("discount name already exists")
	ErrDiscountInvalid   = errors.New("discount percent out of range")

	// 购物车
	ErrCartNotFound     = errors.New("cart not found")
	ErrLineItemNotFound = errors.New("line item not found")

	// 订单
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderStatusInvalid = errors.New("order status invalid")
	ErrUserNotFound       = errors.New("user not found")
)
