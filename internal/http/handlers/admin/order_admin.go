package admin

import (
	"strconv"

	"github.com/shoply-api/internal/cache"
	"github.com/shoply-api/internal/http/handlers/shared"
	"github.com/shoply-api/internal/http/response"
	"github.com/shoply-api/internal/repository"

	"github.com/gin-gonic/gin"
)

// EditOrderItemRequest 修改订单行项目请求，数量为绝对值
type EditOrderItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// UpdateOrderStatusRequest 更新订单状态请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListOrders 订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	page, pageSize = shared.NormalizePagination(page, pageSize, h.Config.Pagination.DefaultPageSize, h.Config.Pagination.MaxPageSize)

	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)
	orders, total, err := h.OrderService.List(repository.OrderListFilter{
		UserID:   uint(userID),
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

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetByID(id)
	if err != nil {
		respondWithMappedError(c, err, orderAdminErrorRules, response.CodeInternal, "fetch order failed")
		return
	}
	response.Success(c, gin.H{"order": order})
}

// EditOrderItem 修改订单行项目数量
// 先回补原数量再按新数量扣减，超出可用库存时收敛。
func (h *Handler) EditOrderItem(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "item_id")
	if !ok {
		return
	}
	var req EditOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	order, err := h.OrderService.EditOrderItem(orderID, itemID, req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, orderAdminErrorRules, response.CodeInternal, "edit order item failed")
		return
	}
	h.purgeOrderCache(c, orderID)
	response.Success(c, gin.H{"order": order})
}

// RemoveOrderItem 移除订单行项目并回补库存
func (h *Handler) RemoveOrderItem(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "item_id")
	if !ok {
		return
	}
	order, orderDeleted, err := h.OrderService.RemoveOrderItem(orderID, itemID)
	if err != nil {
		respondWithMappedError(c, err, orderAdminErrorRules, response.CodeInternal, "remove order item failed")
		return
	}
	h.purgeOrderCache(c, orderID)
	if orderDeleted {
		response.Success(c, gin.H{"deleted": true})
		return
	}
	response.Success(c, gin.H{"order": order})
}

// UpdateOrderStatus 更新订单状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	order, err := h.OrderService.UpdateStatus(orderID, req.Status)
	if err != nil {
		respondWithMappedError(c, err, orderAdminErrorRules, response.CodeInternal, "update order status failed")
		return
	}
	h.purgeOrderCache(c, orderID)
	response.Success(c, gin.H{"order": order})
}

// DeleteOrder 删除订单并回补全部库存
func (h *Handler) DeleteOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.OrderService.DeleteOrder(orderID); err != nil {
		respondWithMappedError(c, err, orderAdminErrorRules, response.CodeInternal, "delete order failed")
		return
	}
	h.purgeOrderCache(c, orderID)
	response.Success(c, gin.H{"deleted": true})
}

func (h *Handler) purgeOrderCache(c *gin.Context, orderID uint) {
	if err := cache.Del(c.Request.Context(), cache.OrderKey(orderID)); err != nil {
		shared.RequestLog(c).Warnw("order_cache_del_failed", "order_id", orderID, "error", err)
	}
}
