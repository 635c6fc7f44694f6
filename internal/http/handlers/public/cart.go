package public

import (
	"errors"
	"strconv"

	"github.com/shoply-api/internal/cache"
	"github.com/shoply-api/internal/http/handlers/shared"
	"github.com/shoply-api/internal/http/response"
	"github.com/shoply-api/internal/models"
	"github.com/shoply-api/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加购请求
type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// EditCartItemRequest 修改购物车项请求，数量为绝对值
type EditCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// GetCart 获取购物车，带缓存
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	cacheKey := cache.CartKey(uid)
	var cached models.Cart
	if hit, err := cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		response.Success(c, gin.H{"cart": cached})
		return
	}

	cart, err := h.CartService.GetByUser(uid)
	if err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			respondError(c, response.CodeNotFound, "cart not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "fetch cart failed", err)
		return
	}
	if err := cache.SetJSON(ctx, cacheKey, cart, h.CartService.TTL()); err != nil {
		shared.RequestLog(c).Warnw("cart_cache_set_failed", "user_id", uid, "error", err)
	}
	response.Success(c, gin.H{"cart": cart})
}

// AddCartItem 加购商品
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	cart, err := h.CartService.AddLineItem(uid, req.ProductID, req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "add cart item failed")
		return
	}
	h.refreshCartCache(c, uid, cart)
	response.Success(c, gin.H{"cart": cart})
}

// EditCartItem 修改购物车项数量
func (h *Handler) EditCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := parseCartProductID(c)
	if !ok {
		return
	}
	var req EditCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	cart, err := h.CartService.EditLineItem(uid, productID, req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "edit cart item failed")
		return
	}
	h.refreshCartCache(c, uid, cart)
	response.Success(c, gin.H{"cart": cart})
}

// RemoveCartItem 移除购物车项
func (h *Handler) RemoveCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := parseCartProductID(c)
	if !ok {
		return
	}
	cart, cartDeleted, err := h.CartService.RemoveLineItem(uid, productID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "remove cart item failed")
		return
	}
	if cartDeleted {
		h.purgeCartCache(c, uid)
		response.Success(c, gin.H{"deleted": true})
		return
	}
	h.refreshCartCache(c, uid, cart)
	response.Success(c, gin.H{"cart": cart})
}

func parseCartProductID(c *gin.Context) (uint, bool) {
	rawID := c.Param("product_id")
	productID, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return 0, false
	}
	return uint(productID), true
}

func (h *Handler) refreshCartCache(c *gin.Context, userID uint, cart *models.Cart) {
	if cart == nil {
		h.purgeCartCache(c, userID)
		return
	}
	if err := cache.SetJSON(c.Request.Context(), cache.CartKey(userID), cart, h.CartService.TTL()); err != nil {
		shared.RequestLog(c).Warnw("cart_cache_set_failed", "user_id", userID, "error", err)
	}
}

func (h *Handler) purgeCartCache(c *gin.Context, userID uint) {
	if err := cache.Del(c.Request.Context(), cache.CartKey(userID)); err != nil {
		shared.RequestLog(c).Warnw("cart_cache_del_failed", "user_id", userID, "error", err)
	}
}
