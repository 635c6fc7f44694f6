package repository

// ProductListFilter 商品列表过滤条件
type ProductListFilter struct {
	Search     string // 按名称/描述模糊匹配
	CategoryID uint
	OnlyActive bool
	Page       int
	PageSize   int
}

// OrderListFilter 订单列表过滤条件
type OrderListFilter struct {
	UserID   uint // 0 表示不限用户（管理端）
	Status   string
	Page     int
	PageSize int
}

// UserListFilter 用户列表过滤条件
type UserListFilter struct {
	Search   string // 按邮箱/昵称模糊匹配
	Page     int
	PageSize int
}
