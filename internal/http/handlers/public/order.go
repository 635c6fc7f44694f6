package public

import (
	"strconv"
	"time"

	"github.com/shoply-api/internal/cache"
	"github.com/shoply-api/internal/http/handlers/shared"
	"github.com/shoply-api/internal/http/response"
	"github.com/shoply-api/internal/models"
	"github.com/shoply-api/internal/repository"

	"github.com/gin-gonic/gin"
)

const orderCacheTTL = 10 * time.Minute

// CreateOrder 结账下单
// 购物车整体转成订单，行项目数量可能被收敛到实际库存。
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.CreateOrder(uid)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "create order failed")
		return
	}
	h.purgeCartCache(c, uid)
	response.Success(c, gin.H{"order": order})
}

// ListOrders 当前用户订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	page, pageSize = shared.NormalizePagination(page, pageSize, h.Config.Pagination.DefaultPageSize, h.Config.Pagination.MaxPageSize)

	orders, total, err := h.OrderService.List(repository.OrderListFilter{
		UserID:   uid,
		Status:   c.Query("status"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "fetch orders failed", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"orders": orders}, response.NewPagination(page, pageSize, total))
}

// GetOrder 当前用户订单详情，带缓存
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	rawID := c.Param("id")
	orderID, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "invalid order id", nil)
		return
	}

	ctx := c.Request.Context()
	cacheKey := cache.OrderKey(uint(orderID))
	var cached models.Order
	if hit, err := cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit && cached.UserID == uid {
		response.Success(c, gin.H{"order": cached})
		return
	}

	order, err := h.OrderService.GetByIDAndUser(uint(orderID), uid)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "fetch order failed")
		return
	}
	if err := cache.SetJSON(ctx, cacheKey, order, orderCacheTTL); err != nil {
		shared.RequestLog(c).Warnw("order_cache_set_failed", "order_id", orderID, "error", err)
	}
	response.Success(c, gin.H{"order": order})
}
